package core

import (
	"context"
	"errors"
	"io"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type fakeAuth struct {
	token string
	err   error
	calls int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeUsers struct {
	users map[string]BackendUser
	err   error
}

func (f *fakeUsers) UserByEmail(ctx context.Context, email string) (BackendUser, error) {
	if f.err != nil {
		return BackendUser{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return BackendUser{}, ErrNotFound
	}
	return u, nil
}

type fakeGoogle struct {
	info GoogleUserInfo
	err  error
	seen string
}

func (f *fakeGoogle) FetchUserInfo(ctx context.Context, accessToken string) (GoogleUserInfo, error) {
	f.seen = accessToken
	return f.info, f.err
}

type recordingSession struct {
	writes []UserProfile
	err    error
}

func (r *recordingSession) SetProfile(ctx context.Context, p UserProfile) error {
	if r.err != nil {
		return r.err
	}
	r.writes = append(r.writes, p)
	return nil
}

type recordingNav struct{ routes []string }

func (r *recordingNav) Navigate(route string) { r.routes = append(r.routes, route) }

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func unsignedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-only"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return tok
}

type harness struct {
	auth    *fakeAuth
	users   *fakeUsers
	google  *fakeGoogle
	session *recordingSession
	nav     *recordingNav
	screen  *LoginScreen
}

func newHarness() *harness {
	h := &harness{
		auth:    &fakeAuth{},
		users:   &fakeUsers{users: map[string]BackendUser{}},
		google:  &fakeGoogle{},
		session: &recordingSession{},
		nav:     &recordingNav{},
	}
	h.screen = NewLoginScreen(Deps{
		Auth:     h.auth,
		Users:    h.users,
		Google:   h.google,
		Session:  h.session,
		Navigate: h.nav,
		Log:      quietLog(),
	})
	return h
}

func TestSubmitCredentials_Success(t *testing.T) {
	h := newHarness()
	h.auth.token = unsignedToken(t, jwt.MapClaims{"sub": "bruce@gotham.com", "role": "admin", "name": "Bruce", "picture": "https://img/b.png"})

	if !h.screen.SubmitCredentials(context.Background(), "bruce@gotham.com", "hunter22") {
		t.Fatalf("expected success")
	}
	want := UserProfile{Name: "Bruce", Email: "bruce@gotham.com", Picture: "https://img/b.png", Role: "admin"}
	if len(h.session.writes) != 1 || h.session.writes[0] != want {
		t.Fatalf("unexpected session writes: %+v", h.session.writes)
	}
	if len(h.nav.routes) != 1 || h.nav.routes[0] != RouteDashboard {
		t.Fatalf("expected one navigation to %s, got %v", RouteDashboard, h.nav.routes)
	}
	if h.screen.ErrorMessage != "" {
		t.Fatalf("expected no error, got %q", h.screen.ErrorMessage)
	}
}

func TestSubmitCredentials_EmailComesFromSubjectAndDefaults(t *testing.T) {
	h := newHarness()
	// Form email differs from the token subject; the subject wins.
	h.auth.token = unsignedToken(t, jwt.MapClaims{"sub": "canonical@gotham.com", "role": "staff"})

	h.screen.SubmitCredentials(context.Background(), "Typed@Gotham.com", "pw")
	if len(h.session.writes) != 1 {
		t.Fatalf("expected one session write, got %d", len(h.session.writes))
	}
	got := h.session.writes[0]
	if got.Email != "canonical@gotham.com" || got.Picture != "none" || got.Name != "" || got.Role != "staff" {
		t.Fatalf("unexpected profile: %+v", got)
	}
}

func TestSubmitCredentials_StringRejectionShownVerbatim(t *testing.T) {
	h := newHarness()
	h.auth.err = &RejectionError{Status: 401, Reason: "Invalid email or password"}

	if h.screen.SubmitCredentials(context.Background(), "a@b.c", "x") {
		t.Fatalf("expected failure")
	}
	if h.screen.ErrorMessage != "Invalid email or password" {
		t.Fatalf("expected rejection reason, got %q", h.screen.ErrorMessage)
	}
	if len(h.session.writes) != 0 || len(h.nav.routes) != 0 {
		t.Fatalf("expected no side effects, writes=%v routes=%v", h.session.writes, h.nav.routes)
	}
	if h.auth.calls != 1 {
		t.Fatalf("expected exactly one login attempt, got %d", h.auth.calls)
	}
}

func TestSubmitCredentials_NonStringFailureUsesFallback(t *testing.T) {
	cases := map[string]func(h *harness){
		"network":         func(h *harness) { h.auth.err = errors.New("dial tcp: connection refused") },
		"empty rejection": func(h *harness) { h.auth.err = &RejectionError{Status: 500} },
		"undecodable":     func(h *harness) { h.auth.token = "garbage" },
		"session failure": func(h *harness) {
			h.auth.token = unsignedToken(t, jwt.MapClaims{"sub": "a@b.c"})
			h.session.err = errors.New("redis down")
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			setup(h)
			if h.screen.SubmitCredentials(context.Background(), "a@b.c", "x") {
				t.Fatalf("expected failure")
			}
			if h.screen.ErrorMessage != MsgLoginFailed {
				t.Fatalf("expected fallback %q, got %q", MsgLoginFailed, h.screen.ErrorMessage)
			}
			if len(h.nav.routes) != 0 {
				t.Fatalf("expected no navigation, got %v", h.nav.routes)
			}
		})
	}
}

func TestSubmitCredentials_ErrorNotClearedBySuccess(t *testing.T) {
	h := newHarness()
	h.auth.err = &RejectionError{Reason: "Invalid email or password"}
	h.screen.SubmitCredentials(context.Background(), "a@b.c", "x")

	h.auth.err = nil
	h.auth.token = unsignedToken(t, jwt.MapClaims{"sub": "a@b.c", "role": "staff"})
	if !h.screen.SubmitCredentials(context.Background(), "a@b.c", "y") {
		t.Fatalf("expected second attempt to succeed")
	}
	if h.screen.ErrorMessage != "Invalid email or password" {
		t.Fatalf("expected stale error to remain, got %q", h.screen.ErrorMessage)
	}
}

func TestSubmitCredentials_ResubmitWritesSameProfileTwice(t *testing.T) {
	h := newHarness()
	h.auth.token = unsignedToken(t, jwt.MapClaims{"sub": "a@b.c", "role": "staff", "name": "A"})

	h.screen.SubmitCredentials(context.Background(), "a@b.c", "pw")
	h.screen.SubmitCredentials(context.Background(), "a@b.c", "pw")
	if len(h.session.writes) != 2 || h.session.writes[0] != h.session.writes[1] {
		t.Fatalf("expected the same profile written twice, got %+v", h.session.writes)
	}
	for _, r := range h.nav.routes {
		if r != RouteDashboard {
			t.Fatalf("unexpected route %q", r)
		}
	}
}

func TestGoogleLoginSucceeded_ProvisionedByGoogle(t *testing.T) {
	h := newHarness()
	h.google.info = GoogleUserInfo{Email: "bruce@gotham.com", Name: "Bruce Wayne", Picture: "https://lh3.googleusercontent.com/p.png"}
	h.users.users["bruce@gotham.com"] = BackendUser{Email: "bruce@gotham.com", Password: "https://lh3.googleusercontent.com/a/xyz", Role: "admin"}

	if !h.screen.GoogleLoginSucceeded(context.Background(), "ya29.token") {
		t.Fatalf("expected success, error=%q", h.screen.ErrorMessage)
	}
	if h.google.seen != "ya29.token" {
		t.Fatalf("expected access token passed to userinfo, got %q", h.google.seen)
	}
	want := UserProfile{Name: "Bruce Wayne", Email: "bruce@gotham.com", Picture: "https://lh3.googleusercontent.com/p.png", Role: "admin"}
	if len(h.session.writes) != 1 || h.session.writes[0] != want {
		t.Fatalf("unexpected session writes: %+v", h.session.writes)
	}
	if len(h.nav.routes) != 1 || h.nav.routes[0] != RouteDashboard {
		t.Fatalf("expected navigation to dashboard, got %v", h.nav.routes)
	}
}

func TestGoogleLoginSucceeded_NotProvisionedByGoogle(t *testing.T) {
	h := newHarness()
	h.google.info = GoogleUserInfo{Email: "alfred@gotham.com"}
	h.users.users["alfred@gotham.com"] = BackendUser{Email: "alfred@gotham.com", Password: "$2a$10$abcdefghijklmnopqrstuv", Role: "staff"}

	if h.screen.GoogleLoginSucceeded(context.Background(), "tok") {
		t.Fatalf("expected refusal")
	}
	if h.screen.ErrorMessage != MsgNotGoogleAccount {
		t.Fatalf("expected %q, got %q", MsgNotGoogleAccount, h.screen.ErrorMessage)
	}
	if len(h.session.writes) != 0 || len(h.nav.routes) != 0 {
		t.Fatalf("expected no side effects, writes=%v routes=%v", h.session.writes, h.nav.routes)
	}
}

func TestGoogleLoginSucceeded_LookupFailures(t *testing.T) {
	cases := map[string]func(h *harness){
		"userinfo":  func(h *harness) { h.google.err = errors.New("status 401") },
		"not found": func(h *harness) { h.google.info = GoogleUserInfo{Email: "ghost@gotham.com"} },
		"backend": func(h *harness) {
			h.google.info = GoogleUserInfo{Email: "a@b.c"}
			h.users.err = errors.New("status 500")
		},
		"session": func(h *harness) {
			h.google.info = GoogleUserInfo{Email: "a@b.c"}
			h.users.users["a@b.c"] = BackendUser{Email: "a@b.c", Password: "googleusercontent", Role: "staff"}
			h.session.err = errors.New("redis down")
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			setup(h)
			if h.screen.GoogleLoginSucceeded(context.Background(), "tok") {
				t.Fatalf("expected failure")
			}
			if h.screen.ErrorMessage != MsgGoogleLookupFailed {
				t.Fatalf("expected %q, got %q", MsgGoogleLookupFailed, h.screen.ErrorMessage)
			}
			if len(h.nav.routes) != 0 {
				t.Fatalf("expected no navigation, got %v", h.nav.routes)
			}
		})
	}
}

func TestGoogleLoginFailed_LeavesSessionUntouched(t *testing.T) {
	h := newHarness()
	h.screen.GoogleLoginFailed(context.Background(), errors.New("access_denied"))
	if h.screen.ErrorMessage != MsgGoogleFailed {
		t.Fatalf("expected %q, got %q", MsgGoogleFailed, h.screen.ErrorMessage)
	}
	if len(h.session.writes) != 0 || len(h.nav.routes) != 0 {
		t.Fatalf("expected no side effects, writes=%v routes=%v", h.session.writes, h.nav.routes)
	}
}
