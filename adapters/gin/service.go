// Package authgin mounts the StockSync login screen on a gin router.
package authgin

import (
	"errors"
	"time"

	"github.com/PaulFidika/stocksync-login/adapters/gin/handlers"
	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	core "github.com/PaulFidika/stocksync-login/core"
	oidckit "github.com/PaulFidika/stocksync-login/oidc"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Service wires the login handlers to their collaborators.
type Service struct {
	env     handlers.Env
	rl      ginutil.RateLimiter
	langCfg *LanguageConfig
}

// NewService requires an AuthClient and a SessionStore. The user directory is
// only needed once Google sign-in is enabled.
func NewService(auth core.AuthClient, sessions core.SessionStore) (*Service, error) {
	if auth == nil {
		return nil, errors.New("authgin: auth client is required")
	}
	if sessions == nil {
		return nil, errors.New("authgin: session store is required")
	}
	return &Service{env: handlers.Env{
		Auth:     auth,
		Sessions: sessions,
		Cookie:   ginutil.SessionCookie{Secure: true, TTL: 24 * time.Hour},
		Log:      logrus.StandardLogger(),
	}}, nil
}

// WithGoogle enables the Google button. A nil users falls back to the auth
// client when it can look users up; otherwise Google stays disabled.
func (s *Service) WithGoogle(w *oidckit.GoogleWidget, users core.UserDirectory) *Service {
	if users == nil {
		users, _ = s.env.Auth.(core.UserDirectory)
	}
	if w == nil || users == nil {
		s.env.Log.Warn("google sign-in disabled: widget or user directory missing")
		s.env.Google, s.env.Users = nil, nil
		return s
	}
	s.env.Google = w
	s.env.Users = users
	return s
}

func (s *Service) WithRateLimiter(rl ginutil.RateLimiter) *Service {
	s.rl = rl
	return s
}

func (s *Service) WithAuditLogger(a core.AuthEventLogger) *Service {
	s.env.Audit = a
	return s
}

func (s *Service) WithLogger(l logrus.FieldLogger) *Service {
	if l != nil {
		s.env.Log = l
	}
	return s
}

// WithSessionCookie overrides the session cookie name, Secure flag and lifetime.
func (s *Service) WithSessionCookie(c ginutil.SessionCookie) *Service {
	s.env.Cookie = c
	return s
}

func (s *Service) WithLanguageConfig(cfg LanguageConfig) *Service {
	s.langCfg = &cfg
	return s
}

// GinRegisterRoutes installs the templates, the language middleware and every
// login route on r.
func (s *Service) GinRegisterRoutes(r *gin.Engine) {
	r.SetHTMLTemplate(loginTemplates())
	r.Use(LanguageMiddleware(s.langCfg))

	env := &s.env
	sameOrigin := ginutil.SameOrigin()
	r.GET(core.RouteLogin, handlers.HandleLoginGET(env))
	r.POST(core.RouteLogin, sameOrigin, handlers.HandleLoginPOST(env, s.rl))
	r.GET(handlers.RouteGoogleStart, handlers.HandleGoogleStartGET(env, s.rl))
	r.GET(handlers.RouteGoogleCallback, handlers.HandleGoogleCallbackGET(env, s.rl))
	r.GET(handlers.RouteUserMe, handlers.HandleUserMeGET(env, s.rl))
	r.DELETE(handlers.RouteSession, sameOrigin, handlers.HandleUserSessionDELETE(env, s.rl))
	r.POST(handlers.RouteLogout, sameOrigin, handlers.HandleLogoutPOST(env, s.rl))
	r.GET(core.RouteDashboard, handlers.HandleDashboardGET(env))
}
