package redis

import (
	"context"
	"time"
)

// Ping checks that the server is reachable.
func (r *RedisClient) Ping(ctx context.Context) error {
	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	err := translateError(r.client.Ping(ctx).Err())
	r.observeOperation("ping", "", "", time.Since(start), err, 0, nil)
	return err
}

// Get returns the value stored at key, or Nil when it does not exist.
func (r *RedisClient) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, err := r.client.Get(ctx, key).Result()
	err = translateError(err)

	outcome := "hit"
	if err != nil {
		outcome = "miss"
		if !IsNilError(err) {
			outcome = "error"
		}
	}
	r.observeOperation("get", key, "", time.Since(start), nilIfMiss(err), int64(len(result)), map[string]interface{}{
		"result": outcome,
	})
	return result, err
}

// Set stores value at key. A zero ttl means no expiry.
func (r *RedisClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	err := translateError(r.client.Set(ctx, key, value, ttl).Err())
	metadata := map[string]interface{}{}
	if ttl > 0 {
		metadata["ttl"] = ttl.String()
	}
	r.observeOperation("set", key, "", time.Since(start), err, 0, metadata)
	return err
}

// Delete removes keys and returns how many existed.
func (r *RedisClient) Delete(ctx context.Context, keys ...string) (int64, error) {
	start := time.Now()
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, err := r.client.Del(ctx, keys...).Result()
	err = translateError(err)
	resource := ""
	if len(keys) > 0 {
		resource = keys[0]
	}
	r.observeOperation("delete", resource, "", time.Since(start), err, n, map[string]interface{}{
		"key_count": len(keys),
	})
	return n, err
}

// nilIfMiss keeps cache misses from being reported as failures.
func nilIfMiss(err error) error {
	if IsNilError(err) {
		return nil
	}
	return err
}
