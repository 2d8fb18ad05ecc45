package redislimiter

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestAllowNamed_DeniesOverLimit(t *testing.T) {
	addr := os.Getenv("STOCKSYNC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STOCKSYNC_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	l := New(rdb, map[string]Limit{"auth_login": {Limit: 2, Window: time.Minute}})
	l.prefix = "stocksync:test:rl:" + uuid.NewString() + ":"

	for i := 0; i < 2; i++ {
		if ok, err := l.AllowNamed("auth_login", "203.0.113.7"); err != nil || !ok {
			t.Fatalf("hit %d: expected allow, got ok=%v err=%v", i, ok, err)
		}
	}
	if ok, err := l.AllowNamed("auth_login", "203.0.113.7"); err != nil || ok {
		t.Fatalf("expected deny, got ok=%v err=%v", ok, err)
	}
	n, err := rdb.ZCard(context.Background(), l.prefix+"auth_login:203.0.113.7").Result()
	if err != nil || n != 2 {
		t.Fatalf("expected denied hit to be removed, zcard=%d err=%v", n, err)
	}
}
