package memorystore

import (
	"context"
	"sync"
	"time"

	"github.com/PaulFidika/stocksync-login/core"
	"github.com/robfig/cron/v3"
)

// SessionStore is an in-memory core.SessionStore with TTL.
type SessionStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]session
	cron *cron.Cron
}

type session struct {
	p   core.UserProfile
	exp time.Time
}

// NewSessionStore creates an in-memory session store. If ttl <= 0, a default of
// 24 hours is used. Expired sessions are swept every minute.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &SessionStore{ttl: ttl, now: time.Now, data: make(map[string]session), cron: cron.New()}
	_, _ = s.cron.AddFunc("@every 1m", s.cleanup)
	s.cron.Start()
	return s
}

// SetProfile stores p for sid and restarts its TTL. Each login overwrites.
func (s *SessionStore) SetProfile(ctx context.Context, sid string, p core.UserProfile) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sid] = session{p: p, exp: s.now().Add(s.ttl)}
	return nil
}

func (s *SessionStore) Profile(ctx context.Context, sid string) (core.UserProfile, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.data[sid]
	if !ok {
		return core.UserProfile{}, false, nil
	}
	if s.now().After(it.exp) {
		delete(s.data, sid)
		return core.UserProfile{}, false, nil
	}
	return it.p, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sid)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *SessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, v := range s.data {
		if now.After(v.exp) {
			delete(s.data, k)
		}
	}
}

// Close stops the sweeper and waits for a running sweep to finish.
func (s *SessionStore) Close() error {
	<-s.cron.Stop().Done()
	return nil
}
