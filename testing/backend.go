// Package testing provides stand-ins for the services the login screen talks
// to: a StockSync API that issues RS256 identity tokens and a Google
// authorization server with token and userinfo endpoints.
//
// Example usage:
//
//	api := testing.NewTestBackend()
//	defer api.Close()
//	api.AddUser("bruce@gotham.com", "hunter22", "admin")
//
//	client, _ := backend.New(api.URL(), nil)
package testing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	jwtkit "github.com/PaulFidika/stocksync-login/jwt"
	"github.com/PaulFidika/stocksync-login/password"
)

// BackendUser is a user known to the TestBackend. Password holds what the
// API stores: a bcrypt hash for credential accounts, a googleusercontent URL
// for Google-provisioned ones.
type BackendUser struct {
	Email    string
	Password string
	Role     string
	Name     string
	Picture  string
}

// TestBackend serves POST /auth/login and GET /users/email.
type TestBackend struct {
	server *httptest.Server
	signer *jwtkit.RSASigner

	mu          sync.Mutex
	users       map[string]BackendUser
	loginCalls  int
	lookupCalls int
	rejectWith  *rejection
}

type rejection struct {
	status      int
	contentType string
	body        string
}

// NewTestBackend starts the stand-in API. Call Close when done.
func NewTestBackend() *TestBackend {
	signer, err := jwtkit.NewRSASigner(2048, "test-key-1")
	if err != nil {
		panic("failed to create RSA signer: " + err.Error())
	}
	tb := &TestBackend{signer: signer, users: map[string]BackendUser{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", tb.handleLogin)
	mux.HandleFunc("GET /users/email", tb.handleUserByEmail)
	tb.server = httptest.NewServer(mux)
	return tb
}

// URL returns the API base URL.
func (tb *TestBackend) URL() string { return tb.server.URL }

// Close shuts down the test server.
func (tb *TestBackend) Close() {
	if tb.server != nil {
		tb.server.Close()
	}
}

// AddUser registers a credential account with a bcrypt-hashed password.
func (tb *TestBackend) AddUser(email, plaintext, role string) BackendUser {
	hash, err := password.HashBcrypt(plaintext)
	if err != nil {
		panic("failed to hash password: " + err.Error())
	}
	return tb.Put(BackendUser{Email: email, Password: hash, Role: role})
}

// AddGoogleUser registers an account provisioned through Google sign-in.
func (tb *TestBackend) AddGoogleUser(email, role string) BackendUser {
	return tb.Put(BackendUser{Email: email, Password: "https://lh3.googleusercontent.com/a/" + email, Role: role})
}

// Put stores u as is, replacing any user with the same email.
func (tb *TestBackend) Put(u BackendUser) BackendUser {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.users[u.Email] = u
	return u
}

// RejectLogins makes every login answer with status, content type and body.
func (tb *TestBackend) RejectLogins(status int, contentType, body string) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.rejectWith = &rejection{status: status, contentType: contentType, body: body}
}

// LoginCalls reports how many login requests were served.
func (tb *TestBackend) LoginCalls() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.loginCalls
}

// LookupCalls reports how many email lookups were served.
func (tb *TestBackend) LookupCalls() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lookupCalls
}

// CreateToken signs an identity token for u the way the API does on login.
func (tb *TestBackend) CreateToken(u BackendUser) string {
	token, err := tb.signer.Sign(context.Background(), jwtkit.IdentityClaims(u.Email, u.Role, u.Name, u.Picture, time.Hour))
	if err != nil {
		panic("failed to sign token: " + err.Error())
	}
	return token
}

func (tb *TestBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	tb.mu.Lock()
	tb.loginCalls++
	rej := tb.rejectWith
	tb.mu.Unlock()

	if rej != nil {
		w.Header().Set("Content-Type", rej.contentType)
		w.WriteHeader(rej.status)
		_, _ = w.Write([]byte(rej.body))
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	tb.mu.Lock()
	u, ok := tb.users[req.Email]
	tb.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	match, err := password.Verify(u.Password, req.Password)
	if err != nil || !match {
		writeJSON(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tb.CreateToken(u)})
}

func (tb *TestBackend) handleUserByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	tb.mu.Lock()
	tb.lookupCalls++
	u, ok := tb.users[email]
	tb.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user_not_found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": u.Email, "password": u.Password, "role": u.Role})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
