package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adventure-server/internal/generation"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisImageCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ generation.ImageCache = (*redisImageCache)(nil)

// NewRedisImageCache stores images in Redis with the given ttl.
func NewRedisImageCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) generation.ImageCache {
	return &redisImageCache{client: client, ttl: ttl, logger: logger.Named("RedisImageCache")}
}

func (c *redisImageCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (c *redisImageCache) Set(ctx context.Context, key, value string) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	c.logger.Debug("Image cached", zap.String("key", key), zap.Int("bytes", len(value)), zap.Duration("ttl", c.ttl))
	return nil
}

// NewRedisClient parses url and pings the server.
func NewRedisClient(ctx context.Context, url string, logger *zap.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}
	logger.Info("Connected to Redis", zap.String("address", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}
