package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// jsonKV stores JSON-encoded values of T under ns+key, each with the same TTL.
type jsonKV[T any] struct {
	rdb *redis.Client
	ns  string
	ttl time.Duration
}

func (kv jsonKV[T]) put(ctx context.Context, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.rdb.Set(ctx, kv.ns+key, b, kv.ttl).Err()
}

// decode turns a GET or GETDEL reply into (value, found, error).
func decode[T any](cmd *redis.StringCmd) (T, bool, error) {
	var v T
	b, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(b, &v); err != nil {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

func (kv jsonKV[T]) get(ctx context.Context, key string) (T, bool, error) {
	return decode[T](kv.rdb.Get(ctx, kv.ns+key))
}

func (kv jsonKV[T]) take(ctx context.Context, key string) (T, bool, error) {
	return decode[T](kv.rdb.GetDel(ctx, kv.ns+key))
}

func (kv jsonKV[T]) del(ctx context.Context, key string) error {
	return kv.rdb.Del(ctx, kv.ns+key).Err()
}

func orDefault(prefix, def string, ttl, defTTL time.Duration) (string, time.Duration) {
	if prefix == "" {
		prefix = def
	}
	if ttl <= 0 {
		ttl = defTTL
	}
	return prefix, ttl
}
