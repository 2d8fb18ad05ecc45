package memorystore

import (
	"context"
	"sync"
	"time"

	oidckit "github.com/PaulFidika/stocksync-login/oidc"
	"github.com/robfig/cron/v3"
)

// StateCache is an in-memory implementation of oidckit.StateCache with TTL.
type StateCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]pendingState
	cron *cron.Cron
}

type pendingState struct {
	v   oidckit.StateData
	exp time.Time
}

// NewStateCache creates a new in-memory state cache with the given TTL.
// If ttl <= 0, a default of 10 minutes is used. Abandoned states are swept
// every minute until Close.
func NewStateCache(ttl time.Duration) *StateCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c := &StateCache{ttl: ttl, now: time.Now, data: make(map[string]pendingState), cron: cron.New()}
	_, _ = c.cron.AddFunc("@every 1m", c.cleanup)
	c.cron.Start()
	return c
}

func (s *StateCache) Put(ctx context.Context, state string, v oidckit.StateData) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[state] = pendingState{v: v, exp: s.now().Add(s.ttl)}
	return nil
}

func (s *StateCache) Take(ctx context.Context, state string) (oidckit.StateData, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data[state]
	if !ok {
		return oidckit.StateData{}, false, nil
	}
	delete(s.data, state)
	if s.now().After(it.exp) {
		return oidckit.StateData{}, false, nil
	}
	return it.v, true, nil
}

func (s *StateCache) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range s.data {
		if now.After(v.exp) {
			delete(s.data, k)
		}
	}
}

// Close stops the background sweeper.
func (s *StateCache) Close() error {
	<-s.cron.Stop().Done()
	return nil
}
