package xtream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vklink/flix/internal/catalog"
)

// RedisCache is a ListCache backed by Redis, for deployments where
// several daemon instances share one panel account and should share the
// expensive full-list fetches too.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisCache parses a Redis URL (e.g. "redis://host:6379/0") and
// returns a connected cache. Call Ping to verify the connection.
func NewRedisCache(rawURL string, logger *slog.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: redis.NewClient(opts), logger: logger}, nil
}

// Ping checks the connection to Redis.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close shuts down the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Get fetches and JSON-decodes a cached list. Any Redis or decode
// failure is a miss; the caller refetches from the panel.
func (c *RedisCache) Get(ctx context.Context, key string) ([]catalog.Item, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("redis cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	var items []catalog.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("redis cache decode failed", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

// Set JSON-encodes and stores a list with the given TTL. Failures are
// logged only; caching is best-effort.
func (c *RedisCache) Set(ctx context.Context, key string, items []catalog.Item, ttl time.Duration) {
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("redis cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("redis cache set failed", "key", key, "error", err)
	}
}

var _ ListCache = (*RedisCache)(nil)
