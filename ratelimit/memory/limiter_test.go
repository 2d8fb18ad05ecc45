package memorylimiter

import (
	"testing"
	"time"
)

func TestAllowNamed_SlidingWindow(t *testing.T) {
	l := New(map[string]Limit{"auth_login": {Limit: 2, Window: time.Minute}})
	now := time.Now()
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, err := l.AllowNamed("auth_login", "203.0.113.7"); err != nil || !ok {
			t.Fatalf("hit %d: expected allow, got ok=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := l.AllowNamed("auth_login", "203.0.113.7"); ok {
		t.Fatalf("expected third hit to be denied")
	}
	if ok, _ := l.AllowNamed("auth_login", "198.51.100.1"); !ok {
		t.Fatalf("expected other client to be allowed")
	}

	now = now.Add(61 * time.Second)
	if ok, _ := l.AllowNamed("auth_login", "203.0.113.7"); !ok {
		t.Fatalf("expected allow once the window has passed")
	}
}

func TestAllowNamed_DefaultsAndValidation(t *testing.T) {
	l := New(map[string]Limit{"default": {Limit: 1, Window: time.Minute}})
	if ok, _ := l.AllowNamed("anything", "k"); !ok {
		t.Fatalf("expected first hit allowed")
	}
	if ok, _ := l.AllowNamed("anything", "k"); ok {
		t.Fatalf("expected default limit to apply")
	}
	if _, err := l.AllowNamed("", "k"); err == nil {
		t.Fatalf("expected error for empty bucket")
	}

	var nilLimiter *Limiter
	if ok, err := nilLimiter.AllowNamed("auth_login", "k"); !ok || err != nil {
		t.Fatalf("expected nil limiter to allow")
	}
}

func TestSweep_DropsIdleKeys(t *testing.T) {
	l := New(DefaultLimits(5))
	now := time.Now()
	l.now = func() time.Time { return now }

	_, _ = l.AllowNamed("auth_login", "a")
	_, _ = l.AllowNamed("auth_google", "b")
	l.sweep(now.Add(2 * time.Minute))
	if len(l.hits) != 0 {
		t.Fatalf("expected idle keys to be swept, got %d", len(l.hits))
	}
}
