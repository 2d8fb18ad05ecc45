package redislimiter

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limit defines window and max count for a bucket.
type Limit struct {
	Limit  int
	Window time.Duration
}

const defaultPrefix = "stocksync:rl:"

// Limiter is a Redis-backed sliding window limiter using ZSETs, shared by all
// replicas of the login service.
type Limiter struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
	limits  map[string]Limit
}

func New(rdb *redis.Client, limits map[string]Limit) *Limiter {
	if limits == nil {
		limits = map[string]Limit{}
	}
	return &Limiter{rdb: rdb, prefix: defaultPrefix, timeout: time.Second, limits: limits}
}

func (l *Limiter) limitFor(bucket string) Limit {
	if v, ok := l.limits[bucket]; ok {
		return v
	}
	if v, ok := l.limits["default"]; ok {
		return v
	}
	return Limit{Limit: 100, Window: time.Minute}
}

// AllowNamed records a hit and reports whether the bucket still has room.
// A denied hit is removed again so it does not extend the lockout.
func (l *Limiter) AllowNamed(bucket, key string) (bool, error) {
	if l == nil || l.rdb == nil {
		return true, nil
	}
	if bucket == "" || key == "" {
		return false, fmt.Errorf("bucket and key required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	lim := l.limitFor(bucket)
	now := time.Now().UnixMilli()
	start := now - lim.Window.Milliseconds()
	zkey := l.prefix + bucket + ":" + key
	member := uuid.NewString()

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, zkey, "-inf", strconv.FormatInt(start, 10))
	pipe.ZAdd(ctx, zkey, redis.Z{Score: float64(now), Member: member})
	count := pipe.ZCard(ctx, zkey)
	pipe.PExpire(ctx, zkey, lim.Window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", bucket, err)
	}
	if count.Val() > int64(lim.Limit) {
		l.rdb.ZRem(ctx, zkey, member)
		return false, nil
	}
	return true, nil
}
