package redisstore

import (
	"context"
	"time"

	oidckit "github.com/PaulFidika/stocksync-login/oidc"
	"github.com/redis/go-redis/v9"
)

// StateCache holds pending Google authorization states until the callback.
type StateCache struct {
	kv jsonKV[oidckit.StateData]
}

func NewStateCache(rdb *redis.Client, keyPrefix string, ttl time.Duration) *StateCache {
	ns, ttl := orDefault(keyPrefix, "stocksync:oauth:state:", ttl, 10*time.Minute)
	return &StateCache{kv: jsonKV[oidckit.StateData]{rdb: rdb, ns: ns, ttl: ttl}}
}

func (s *StateCache) Put(ctx context.Context, state string, data oidckit.StateData) error {
	return s.kv.put(ctx, state, data)
}

// Take uses GETDEL so a state can be redeemed once.
func (s *StateCache) Take(ctx context.Context, state string) (oidckit.StateData, bool, error) {
	return s.kv.take(ctx, state)
}
