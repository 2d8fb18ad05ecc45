package handlers

import (
	"context"
	"net/http"

	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	core "github.com/PaulFidika/stocksync-login/core"
	"github.com/PaulFidika/stocksync-login/lang"
	oidckit "github.com/PaulFidika/stocksync-login/oidc"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Template names registered by the adapter.
const (
	LoginTemplate     = "login.html"
	DashboardTemplate = "dashboard.html"
)

// Env carries the collaborators shared by every handler.
type Env struct {
	Auth     core.AuthClient
	Users    core.UserDirectory
	Google   *oidckit.GoogleWidget // nil hides the Google button
	Sessions core.SessionStore
	Audit    core.AuthEventLogger
	Cookie   ginutil.SessionCookie
	Log      logrus.FieldLogger
}

// redirectRecorder is the screen's Navigator: it remembers the last route so
// the handler can answer with a redirect once the screen is done.
type redirectRecorder struct {
	route string
}

func (r *redirectRecorder) Navigate(route string) { r.route = route }

// screen builds a fresh LoginScreen whose session writes go to sid.
func (e *Env) screen(sid string, nav core.Navigator) *core.LoginScreen {
	var google core.UserInfoFetcher
	if e.Google != nil {
		google = e.Google
	}
	return core.NewLoginScreen(core.Deps{
		Auth:     e.Auth,
		Users:    e.Users,
		Google:   google,
		Session:  core.BindSession(e.Sessions, sid),
		Navigate: nav,
		Log:      e.Log,
	})
}

// startSession finishes a successful sign-in: the cookie now points at sid,
// any previous session is dropped, and the login is audited.
func (e *Env) startSession(c *gin.Context, sid, method string) {
	ctx := c.Request.Context()
	if old := e.Cookie.SessionID(c); old != "" && old != sid {
		if err := e.Sessions.Delete(ctx, old); err != nil {
			e.Log.WithError(err).Warn("failed to drop previous session")
		}
	}
	e.Cookie.Set(c, sid)
	e.audit(ctx, c, sid, method)
}

func (e *Env) audit(ctx context.Context, c *gin.Context, sid, method string) {
	if e.Audit == nil {
		return
	}
	p, ok, err := e.Sessions.Profile(ctx, sid)
	if err != nil || !ok {
		return
	}
	// Audit with IP/UA at the edge
	ua := c.Request.UserAgent()
	ip := c.ClientIP()
	if err := e.Audit.LogLogin(ctx, p.Email, method, sid, &ip, &ua); err != nil {
		e.Log.WithError(err).WithField("method", method).Warn("audit log failed")
	}
}

// currentProfile loads the profile for the request's session cookie.
func (e *Env) currentProfile(c *gin.Context) (core.UserProfile, bool) {
	sid := e.Cookie.SessionID(c)
	if sid == "" {
		return core.UserProfile{}, false
	}
	p, ok, err := e.Sessions.Profile(c.Request.Context(), sid)
	if err != nil {
		e.Log.WithError(err).Warn("session lookup failed")
		return core.UserProfile{}, false
	}
	return p, ok
}

type loginPage struct {
	Lang             string
	Email            string
	ErrorMessage     string
	GoogleEnabled    bool
	GoogleStartRoute string
	RegisterRoute    string
	LoginRoute       string
}

func (e *Env) renderLogin(c *gin.Context, status int, s *core.LoginScreen) {
	page := loginPage{
		Lang:             requestLanguage(c),
		GoogleEnabled:    e.Google != nil,
		GoogleStartRoute: RouteGoogleStart,
		RegisterRoute:    core.RouteRegister,
		LoginRoute:       core.RouteLogin,
	}
	if s != nil {
		page.Email = s.Email
		page.ErrorMessage = s.ErrorMessage
	}
	c.HTML(status, LoginTemplate, page)
}

func requestLanguage(c *gin.Context) string {
	if l, ok := lang.LanguageFromContext(c.Request.Context()); ok {
		return l
	}
	return lang.Fallback
}

// Routes owned by the handlers beyond those named in core.
const (
	RouteGoogleStart    = "/auth/google"
	RouteGoogleCallback = "/auth/google/callback"
	RouteUserMe         = "/auth/user/me"
	RouteSession        = "/auth/session"
	RouteLogout         = "/auth/logout"
)

func redirect(c *gin.Context, route string) {
	c.Redirect(http.StatusSeeOther, route)
}
