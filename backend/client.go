// Package backend talks to the StockSync API: credential login and the user
// lookup used by Google sign-in.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaulFidika/stocksync-login/core"
)

const maxBodyBytes = 1 << 20

// Client is an HTTP core.AuthClient and core.UserDirectory.
type Client struct {
	base string
	http *http.Client
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, errors.New("backend: api base url is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("backend: invalid api base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: base, http: httpClient}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login posts the credentials to /auth/login and returns the issued token.
// A rejection whose body is a plain message comes back as *core.RejectionError.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend login: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("backend login: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if reason := plainMessage(raw, resp.Header.Get("Content-Type")); reason != "" {
			return "", &core.RejectionError{Status: resp.StatusCode, Reason: reason}
		}
		return "", fmt.Errorf("backend login: status %d", resp.StatusCode)
	}
	token := tokenFromBody(raw)
	if token == "" {
		return "", errors.New("backend login: empty token")
	}
	return token, nil
}

// UserByEmail fetches the user record for email from /users/email.
func (c *Client) UserByEmail(ctx context.Context, email string) (core.BackendUser, error) {
	u := c.base + "/users/email?" + url.Values{"email": {email}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return core.BackendUser{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return core.BackendUser{}, fmt.Errorf("backend user lookup: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return core.BackendUser{}, core.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return core.BackendUser{}, fmt.Errorf("backend user lookup: status %d", resp.StatusCode)
	}
	var user core.BackendUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&user); err != nil {
		return core.BackendUser{}, fmt.Errorf("backend user lookup: decode: %w", err)
	}
	return user, nil
}

// tokenFromBody accepts {"token": "..."}, a JSON string, or a bare token.
func tokenFromBody(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	var obj struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Token != "" {
		return obj.Token
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	if len(raw) > 0 && raw[0] != '{' && raw[0] != '[' {
		return string(raw)
	}
	return ""
}

// plainMessage extracts a human-readable rejection: a JSON string, a JSON
// object's "message", or a text/plain body.
func plainMessage(raw []byte, contentType string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Message)
	}
	if json.Valid(raw) || !strings.HasPrefix(contentType, "text/plain") {
		return ""
	}
	return string(raw)
}
