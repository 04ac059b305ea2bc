package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedError "github.com/verenigingen/membership-api/internal/shared/error"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = time.Hour

// CounterStore is the fixed-window counter behind the guest rate limiter.
// Incr bumps the counter for key and returns the new value; the first bump of
// a window arms the TTL.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounterStore keeps the windows in redis so limits hold across
// instances and restarts.
type RedisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit enforces a per-hour request limit per (endpoint, client IP) pair.
// A store failure lets the request through: the limiter protects against
// abusive clients, it must not take the application form down with redis.
func RateLimit(store CounterStore, endpoint string, perHour int) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", endpoint, c.ClientIP())

		count, err := store.Incr(c.Request.Context(), key, rateLimitWindow)
		if err != nil {
			slog.Error("rate limit counter unavailable",
				"endpoint", endpoint,
				"error", err,
			)
			c.Next()
			return
		}

		if count > int64(perHour) {
			slog.Warn("rate limit exceeded",
				"endpoint", endpoint,
				"client_ip", c.ClientIP(),
				"count", count,
				"limit", perHour,
			)
			c.JSON(http.StatusTooManyRequests, sharedError.ErrorResponse{
				Status:  http.StatusTooManyRequests,
				Code:    "RATE-001",
				Message: "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
