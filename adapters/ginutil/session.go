package ginutil

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"
)

const DefaultSessionCookie = "stocksync_session"

// SessionCookie describes the cookie that carries the session id.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func (s SessionCookie) name() string {
	if s.Name == "" {
		return DefaultSessionCookie
	}
	return s.Name
}

// NewSessionID returns a random base58 session id.
func NewSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base58.Encode(b), nil
}

// SessionID returns the id carried by the request, or "".
func (s SessionCookie) SessionID(c *gin.Context) string {
	v, err := c.Cookie(s.name())
	if err != nil {
		return ""
	}
	return v
}

// Set writes sid to the response cookie.
func (s SessionCookie) Set(c *gin.Context, sid string) {
	maxAge := int(s.TTL / time.Second)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name(), sid, maxAge, "/", "", s.Secure, true)
}

// Clear expires the session cookie.
func (s SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name(), "", -1, "/", "", s.Secure, true)
}
