package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/logging"
)

type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate (tokens added per second).
	RequestsPerSecond float64
	Burst             int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idleTTL are dropped on the next sweep.
type RateLimiter struct {
	cfg     RateLimitConfig
	idleTTL time.Duration

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:       cfg,
		idleTTL:   10 * time.Minute,
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > rl.idleTTL/2 {
		for k, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > rl.idleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
// A non-positive rate disables limiting.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.cfg.RequestsPerSecond <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		lim := rl.limiter(ip)
		res := lim.ReserveN(rl.now(), 1)
		if !res.OK() {
			tooMany(c, ip, 0)
			return
		}
		if delay := res.DelayFrom(rl.now()); delay > 0 {
			res.Cancel()
			tooMany(c, ip, max(int(math.Ceil(delay.Seconds())), 1))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Burst))
		c.Next()
	}
}

func tooMany(c *gin.Context, ip string, retryAfter int) {
	if retryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfter))
	}
	logging.FromContext(c.Request.Context()).Warn("rate limit exceeded",
		slog.String("client_ip", ip),
		slog.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{
		Status:  "error",
		Message: "Too many requests. Please try again later.",
	})
}
