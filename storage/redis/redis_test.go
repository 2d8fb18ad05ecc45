package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/PaulFidika/stocksync-login/core"
	oidckit "github.com/PaulFidika/stocksync-login/oidc"
	"github.com/redis/go-redis/v9"
)

// testClient connects to STOCKSYNC_TEST_REDIS_ADDR or skips.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("STOCKSYNC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STOCKSYNC_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	rdb := testClient(t)
	prefix := "stocksync:test:" + t.Name() + ":"
	s := NewSessionStore(rdb, prefix, time.Minute)

	p := core.UserProfile{Name: "Bruce", Email: "bruce@gotham.com", Picture: "none", Role: "admin"}
	if err := s.SetProfile(ctx, "sid", p); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	got, ok, err := s.Profile(ctx, "sid")
	if err != nil || !ok || got != p {
		t.Fatalf("Profile: got=%+v ok=%v err=%v", got, ok, err)
	}
	if ttl := rdb.TTL(ctx, prefix+"sid").Val(); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected ttl within a minute, got %v", ttl)
	}
	if err := s.Delete(ctx, "sid"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Profile(ctx, "sid"); ok {
		t.Fatalf("expected session gone after Delete")
	}
}

func TestStateCache_TakeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	rdb := testClient(t)
	c := NewStateCache(rdb, "stocksync:test:"+t.Name()+":", time.Minute)

	if err := c.Put(ctx, "st", oidckit.StateData{Provider: "google"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok, err := c.Take(ctx, "st"); err != nil || !ok {
		t.Fatalf("first Take: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := c.Take(ctx, "st"); ok {
		t.Fatalf("expected second Take to miss")
	}
}
