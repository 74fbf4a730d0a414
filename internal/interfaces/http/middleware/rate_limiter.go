package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	apperrors "github.com/best-koder-ever/matchmaking-service/pkg/errors"
	"github.com/best-koder-ever/matchmaking-service/pkg/utils"
)

// RateLimitConfig controls the fixed-window IP rate limit that the server
// installs on its whole engine, so every route shares it.
type RateLimitConfig struct {
	Redis             redis.Cmdable
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// DefaultRateLimitConfig limits each client IP to 120 requests/minute,
// generous enough for a client polling candidates but cheap insurance
// against a misbehaving caller hammering the service.
func DefaultRateLimitConfig(client redis.Cmdable) RateLimitConfig {
	return RateLimitConfig{
		Redis:             client,
		RequestsPerWindow: 120,
		Window:            time.Minute,
		KeyPrefix:         "matchmaking:ratelimit:",
	}
}

// RateLimiter rate-limits by client IP using a Redis counter with a
// TTL-bound window. Falls open (allows the request) on a Redis error —
// matching signature the rest of this service gives external dependencies
// rather than rejecting user-facing traffic over a cache outage.
func RateLimiter(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.Redis == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s%s", config.KeyPrefix, c.ClientIP())

		count, err := config.Redis.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			config.Redis.Expire(ctx, key, config.Window)
		}

		if count > int64(config.RequestsPerWindow) {
			utils.Error(c, apperrors.NewAppError(429, "rate limit exceeded", "try again shortly"))
			c.Abort()
			return
		}

		c.Next()
	}
}
