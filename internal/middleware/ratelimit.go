package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/web-academy/academy-api/pkg/config"
	appErrors "github.com/web-academy/academy-api/pkg/errors"
	"github.com/web-academy/academy-api/pkg/response"
)

type rateLimitObserver interface {
	ObserveRateLimited()
}

// RateLimiter bounds sensitive endpoints per client address using a Redis
// sliding window. When Redis is unavailable the request is let through: the
// limiter protects against brute force, it is not a correctness gate.
type RateLimiter struct {
	client  *redis.Client
	window  time.Duration
	max     int
	metrics rateLimitObserver
	logger  *zap.Logger
}

// NewRateLimiter builds a limiter from configuration.
func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig, metrics rateLimitObserver, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	window := cfg.Window
	if window <= 0 {
		window = 15 * time.Minute
	}
	max := cfg.MaxRequests
	if max <= 0 {
		max = 20
	}
	return &RateLimiter{client: client, window: window, max: max, metrics: metrics, logger: logger}
}

// Limit returns middleware enforcing the window for one route group.
func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.client == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), c.ClientIP())
		now := time.Now().UTC()
		windowStart := now.Add(-l.window)
		ctx := c.Request.Context()

		pipe := l.client.TxPipeline()
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
		count := pipe.ZCard(ctx, key)
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
		pipe.Expire(ctx, key, l.window)
		if _, err := pipe.Exec(ctx); err != nil {
			l.logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		if count.Val() >= int64(l.max) {
			if l.metrics != nil {
				l.metrics.ObserveRateLimited()
			}
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
