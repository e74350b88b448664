package redis

import (
	"context"
	"time"
)

// Client is the subset of Redis commands the service relies on.
// It is implemented by *RedisClient.
type Client interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int64, error)
	Close() error
}

var _ Client = (*RedisClient)(nil)
