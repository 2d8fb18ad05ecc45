package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/PaulFidika/stocksync-login/core"
	oidckit "github.com/PaulFidika/stocksync-login/oidc"
)

// TestGoogle fakes the Google token and userinfo endpoints.
type TestGoogle struct {
	server *httptest.Server

	mu     sync.Mutex
	codes     map[string]string // authorization code -> access token
	tokens    map[string]core.GoogleUserInfo
	verifiers []string
}

// NewTestGoogle starts the fake. Call Close when done.
func NewTestGoogle() *TestGoogle {
	tg := &TestGoogle{codes: map[string]string{}, tokens: map[string]core.GoogleUserInfo{}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", tg.handleToken)
	mux.HandleFunc("GET /userinfo", tg.handleUserInfo)
	tg.server = httptest.NewServer(mux)
	return tg
}

// URL returns the base URL of the fake.
func (tg *TestGoogle) URL() string { return tg.server.URL }

// Close shuts down the test server.
func (tg *TestGoogle) Close() {
	if tg.server != nil {
		tg.server.Close()
	}
}

// RPConfig points a Google widget at this fake.
func (tg *TestGoogle) RPConfig(redirectURL string) oidckit.RPConfig {
	return oidckit.RPConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  redirectURL,
		AuthURL:      tg.URL() + "/auth",
		TokenURL:     tg.URL() + "/token",
		UserInfoURL:  tg.URL() + "/userinfo",
	}
}

// Authorize registers a code that exchanges to accessToken whose userinfo is info.
func (tg *TestGoogle) Authorize(code, accessToken string, info core.GoogleUserInfo) {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	tg.codes[code] = accessToken
	tg.tokens[accessToken] = info
}

// Verifiers returns the code_verifier of every token request, in order.
func (tg *TestGoogle) Verifiers() []string {
	tg.mu.Lock()
	defer tg.mu.Unlock()
	return append([]string(nil), tg.verifiers...)
}

func (tg *TestGoogle) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	verifier := r.PostForm.Get("code_verifier")
	if verifier == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}
	tg.mu.Lock()
	tg.verifiers = append(tg.verifiers, verifier)
	tok, ok := tg.codes[r.PostForm.Get("code")]
	delete(tg.codes, r.PostForm.Get("code"))
	tg.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": tok, "token_type": "Bearer", "expires_in": 3600})
}

func (tg *TestGoogle) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	tg.mu.Lock()
	info, ok := tg.tokens[tok]
	tg.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}
