package memorylimiter

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Limit defines window and max count for a bucket.
type Limit struct {
	Limit  int
	Window time.Duration
}

// DefaultLimits returns the login service buckets: loginPerMinute attempts per
// client for credential and Google sign-in, more headroom for session reads.
func DefaultLimits(loginPerMinute int) map[string]Limit {
	if loginPerMinute <= 0 {
		loginPerMinute = 10
	}
	return map[string]Limit{
		"auth_login":          {Limit: loginPerMinute, Window: time.Minute},
		"auth_google":         {Limit: loginPerMinute, Window: time.Minute},
		"auth_session_delete": {Limit: 30, Window: time.Minute},
		"default":             {Limit: 120, Window: time.Minute},
	}
}

// Limiter is an in-memory sliding-window rate limiter for a single node.
type Limiter struct {
	mu      sync.Mutex
	limits  map[string]Limit
	hits    map[string][]time.Time // oldest first
	now     func() time.Time
	counter int
}

// New constructs a limiter with the provided per-bucket limits.
func New(limits map[string]Limit) *Limiter {
	if limits == nil {
		limits = map[string]Limit{}
	}
	return &Limiter{limits: limits, hits: make(map[string][]time.Time), now: time.Now}
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

// AllowNamed records one hit for key in bucket unless the bucket is full.
// Denied attempts are not recorded.
func (l *Limiter) AllowNamed(bucket, key string) (bool, error) {
	if l == nil {
		return true, nil
	}
	if bucket == "" || key == "" {
		return false, fmt.Errorf("bucket and key required")
	}
	lim := l.limitFor(bucket)
	id := bucket + ":" + key

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	hits := prune(l.hits[id], now.Add(-lim.Window))
	if len(hits) >= lim.Limit {
		l.hits[id] = hits
		return false, nil
	}
	l.hits[id] = append(hits, now)

	// Sweep idle keys now and then so one-off clients don't pile up.
	l.counter++
	if l.counter%1024 == 0 {
		l.sweep(now)
	}
	return true, nil
}

func (l *Limiter) sweep(now time.Time) {
	for id, hits := range l.hits {
		bucket, _, _ := strings.Cut(id, ":")
		if rest := prune(hits, now.Add(-l.limitFor(bucket).Window)); len(rest) == 0 {
			delete(l.hits, id)
		} else {
			l.hits[id] = rest
		}
	}
}

func prune(hits []time.Time, windowStart time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(windowStart) {
		i++
	}
	return hits[i:]
}
