// Package notify tells staff about new inquiries and job applications.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/focitech/focitech-backend/internal/logging"
)

const DefaultChannel = "focitech:events"

// SendTimeout bounds one delivery attempt made by Send.
var SendTimeout = 2 * time.Second

const (
	EventInquiryCreated      = "inquiry.created"
	EventApplicationReceived = "application.received"
)

type Event struct {
	Type    string    `json:"type"`
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Subject string    `json:"subject,omitempty"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// RedisPublisher publishes events as JSON on a pub/sub channel.
type RedisPublisher struct {
	client  goredis.UniversalClient
	channel string
}

func NewRedisPublisher(client goredis.UniversalClient, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Notify(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// LogNotifier only writes the event to the request log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, ev Event) error {
	logging.FromContext(ctx).Info("notification",
		slog.String("type", ev.Type),
		slog.Int64("id", ev.ID),
		slog.String("email", ev.Email),
	)
	return nil
}

// Send delivers ev and logs a failure instead of returning it. A lost
// notification never fails the request that caused it. Delivery runs on a
// context detached from the request and capped at SendTimeout.
func Send(ctx context.Context, n Notifier, ev Event) {
	if n == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SendTimeout)
	defer cancel()

	if err := n.Notify(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("notification failed",
			slog.String("type", ev.Type),
			slog.String("error", err.Error()),
		)
	}
}
