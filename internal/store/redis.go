package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/gym-wars/internal/config"
)

// RedisBackend stores each collection document as a string value.
type RedisBackend struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisBackend connects to Redis and verifies the connection.
func NewRedisBackend(ctx context.Context, cfg *config.RedisConfig, logger *slog.Logger) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisBackendWithClient(client, cfg.KeyPrefix, logger), nil
}

// NewRedisBackendWithClient wraps an existing client.
func NewRedisBackendWithClient(client *redis.Client, prefix string, logger *slog.Logger) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix, logger: logger}
}

// key returns the Redis key for a collection
func (b *RedisBackend) key(name string) string {
	return b.prefix + name
}

// Read implements Backend.
func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting collection: %w", err)
	}
	return data, nil
}

// Write implements Backend.
func (b *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := b.client.Set(ctx, b.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("setting collection: %w", err)
	}
	b.logger.Debug("collection written", "collection", name, "key", b.key(name))
	return nil
}

// Ping reports whether Redis is reachable.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
