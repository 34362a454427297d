package cronjob

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Closer deactivates openings whose application deadline has passed.
type Closer interface {
	CloseExpiredOpenings(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	closer  Closer
	spec    string
	timeout time.Duration
	log     *slog.Logger
}

// NewScheduler uses a six-field spec with seconds, e.g. "0 0 0 * * *" for midnight.
func NewScheduler(closer Closer, spec string, log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		closer:  closer,
		spec:    spec,
		timeout: time.Minute,
		log:     log,
	}
}

// Start registers the nightly job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("cron scheduler started", slog.String("close_expired_spec", s.spec))
	return nil
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.closer.CloseExpiredOpenings(ctx)
	if err != nil {
		s.log.Error("close expired openings failed", slog.String("error", err.Error()))
		return
	}
	s.log.Info("closed expired openings",
		slog.Int("closed", n),
		slog.Duration("took", time.Since(start)),
	)
}
