package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/focitech/focitech-backend/internal/logging"
)

const (
	HeaderRequestID    = "X-Request-Id"
	HeaderResponseTime = "X-Response-Time"
	CtxRequestID       = "request_id"
)

type requestIDKey struct{}

// RequestID gives every request a stable id and a logger carrying it.
// An incoming X-Request-Id is reused; otherwise a UUID is generated. The id
// is echoed back with the elapsed time, and one http_request line is logged
// when the handler chain returns.
func RequestID(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}

		log := base.With(slog.String("request_id", rid))
		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, rid)
		c.Request = c.Request.WithContext(logging.WithContext(ctx, log))
		c.Set(CtxRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)

		start := time.Now()
		c.Writer.Before(func() {
			c.Writer.Header().Set(HeaderResponseTime, time.Since(start).String())
		})

		c.Next()

		logging.FromContext(c.Request.Context()).Info("http_request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

// GetRequestID extracts the request ID from a standard context.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}
