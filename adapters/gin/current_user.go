package authgin

import (
	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	core "github.com/PaulFidika/stocksync-login/core"
	"github.com/PaulFidika/stocksync-login/lang"
	"github.com/gin-gonic/gin"
)

// UserView is the caller as seen by host handlers mounted next to the login
// routes.
type UserView struct {
	Profile  core.UserProfile `json:"profile"`
	Language string           `json:"language"`

	// Source is "session" for a signed-in caller and "none" otherwise.
	Source string `json:"source"`
}

const userViewKey = "stocksync.user"

// CurrentUser returns the caller's session profile. The language is always
// filled from the request, signed in or not.
func (s *Service) CurrentUser(c *gin.Context) (UserView, bool) {
	reqLang := lang.Fallback
	if v, ok := lang.LanguageFromContext(c.Request.Context()); ok {
		reqLang = v
	}
	if v, ok := c.Get(userViewKey); ok {
		if uv, ok := v.(UserView); ok {
			return uv, true
		}
	}

	if sid := s.env.Cookie.SessionID(c); sid != "" {
		p, ok, err := s.env.Sessions.Profile(c.Request.Context(), sid)
		if err != nil {
			s.env.Log.WithError(err).Warn("session lookup failed")
		} else if ok {
			return UserView{Profile: p, Language: reqLang, Source: "session"}, true
		}
	}
	return UserView{Language: reqLang, Source: "none"}, false
}

// RequireSession rejects signed-out callers with 401 and caches the UserView
// for later CurrentUser calls.
func (s *Service) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		uv, ok := s.CurrentUser(c)
		if !ok {
			ginutil.Unauthorized(c, "not_signed_in")
			return
		}
		c.Set(userViewKey, uv)
		c.Next()
	}
}
