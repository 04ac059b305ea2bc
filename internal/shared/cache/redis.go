package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/verenigingen/membership-api/internal/config"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client used for drafts and rate-limit counters.
type Client struct {
	rdb *redis.Client
}

// New creates and pings a redis client.
func New(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	slog.Info("redis connected", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)

	return &Client{rdb: rdb}, nil
}

// Redis returns the underlying go-redis client.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close closes the redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// HealthCheck pings redis.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check: %w", err)
	}
	return nil
}
