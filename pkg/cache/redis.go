package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis. Used by the web service so several
// instances share analyses and rendered artifacts.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache connects to the Redis server at url (redis:// or rediss://)
// and verifies the connection. Transient connection failures are retried
// with backoff.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}
	c := NewRedisCacheFromClient(redis.NewClient(opts))

	err = RetryWithBackoff(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	})
	if err != nil {
		c.client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, classify(err)
	}
	return data, true, nil
}

// Set stores a value in Redis with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return classify(c.client.Set(ctx, key, data, ttl).Err())
}

// Delete removes a key from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return classify(c.client.Del(ctx, key).Err())
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks network failures as retryable ErrNetwork errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
