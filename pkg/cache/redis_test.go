package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://localhost:6379")
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Errorf("NewRedisCache(http://) err = %v, want ErrUnsupportedURL", err)
	}
}

// TestRedisCache runs against a live server named by MUTDOM_TEST_REDIS,
// e.g. redis://localhost:6379/15.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("MUTDOM_TEST_REDIS")
	if url == "" {
		t.Skip("MUTDOM_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, url)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "mutdom-test:" + Hash([]byte(t.Name()))
	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set: hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get after Set = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("key present after Delete")
	}
}
