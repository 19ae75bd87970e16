package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/config"
	"github.com/stemsi/registrar-backend/internal/response"
)

// RateLimiter is a fixed-window per-IP limiter whose counters live in
// Redis, so every server instance shares the same budget.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

// NewRateLimiter allows limit requests per client IP in each window.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
		log:    log.With().Str("component", "rate_limiter").Logger(),
	}
}

// Allow counts one request for ip and reports whether it fits the current
// window, along with the remaining budget and when the window resets.
func (rl *RateLimiter) Allow(ctx context.Context, ip string) (bool, int64, time.Time, error) {
	now := rl.now()
	windowStart := now.Truncate(rl.window)
	reset := windowStart.Add(rl.window)
	key := config.CacheKey.RateLimitKey(ip, windowStart.Unix())

	var incr *redis.IntCmd
	_, err := rl.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, reset)
		return nil
	})
	if err != nil {
		return false, 0, reset, err
	}

	count := incr.Val()
	remaining := max(rl.limit-count, 0)
	return count <= rl.limit, remaining, reset, nil
}

// Middleware rejects requests over budget with 429. Redis failures let the
// request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, reset, err := rl.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			rl.log.Warn().Err(err).Str("ip", c.ClientIP()).Msg("Rate limiter unavailable")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(rl.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := int(reset.Sub(rl.now()).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
