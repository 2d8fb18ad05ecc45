package redisstore

import (
	"context"
	"time"

	"github.com/PaulFidika/stocksync-login/core"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps signed-in profiles in Redis under keyPrefix+sid. Every
// write restarts the TTL.
type SessionStore struct {
	kv jsonKV[core.UserProfile]
}

func NewSessionStore(rdb *redis.Client, keyPrefix string, ttl time.Duration) *SessionStore {
	ns, ttl := orDefault(keyPrefix, "stocksync:session:", ttl, 24*time.Hour)
	return &SessionStore{kv: jsonKV[core.UserProfile]{rdb: rdb, ns: ns, ttl: ttl}}
}

func (s *SessionStore) SetProfile(ctx context.Context, sid string, p core.UserProfile) error {
	return s.kv.put(ctx, sid, p)
}

func (s *SessionStore) Profile(ctx context.Context, sid string) (core.UserProfile, bool, error) {
	return s.kv.get(ctx, sid)
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	return s.kv.del(ctx, sid)
}
