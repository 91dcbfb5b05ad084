package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newTestCache() *RedisCache {
	return NewRedisCache(&redis.Options{Addr: "127.0.0.1:0"}, time.Hour, zerolog.Nop())
}

func TestBuildKey_SortsParamsForStability(t *testing.T) {
	a := BuildKey("ecommerce", "cart", map[string]string{"b": "2", "a": "1"})
	b := BuildKey("ecommerce", "cart", map[string]string{"a": "1", "b": "2"})
	if a != b {
		t.Fatalf("expected stable key regardless of map insertion order, got %q vs %q", a, b)
	}
	if a != "ecommerce:cart:a:1:b:2" {
		t.Fatalf("unexpected key shape: %q", a)
	}
}

func TestRedisCache_DegradesWhenDisconnected(t *testing.T) {
	c := newTestCache()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatal("expected Get to report a miss when disconnected")
	}
	c.Set(ctx, "k", "v", time.Minute)
	c.Delete(ctx, "k")

	if got := c.GetFromPool(ctx, "pool", 5); got != nil {
		t.Fatalf("expected nil from GetFromPool when disconnected, got %v", got)
	}
	c.AddToPool(ctx, "pool", []map[string]interface{}{{"a": 1}})
	if got := c.GetPoolSize(ctx, "pool"); got != 0 {
		t.Fatalf("expected 0 pool size when disconnected, got %d", got)
	}
}

func TestRedisCache_DisconnectNeverErrorsOnUnconnectedClient(t *testing.T) {
	c := newTestCache()
	if err := c.Disconnect(context.Background()); err != nil {
		t.Fatalf("unexpected error disconnecting: %v", err)
	}
}
