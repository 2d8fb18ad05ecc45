package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	core "github.com/PaulFidika/stocksync-login/core"
	oidckit "github.com/PaulFidika/stocksync-login/oidc"
	"github.com/gin-gonic/gin"
)

// HandleGoogleStartGET remembers a fresh state and sends the browser to Google.
func HandleGoogleStartGET(env *Env, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if env.Google == nil {
			ginutil.NotFound(c, "google_disabled")
			return
		}
		if !ginutil.AllowNamed(c, rl, ginutil.RLGoogle) {
			ginutil.TooMany(c)
			return
		}
		authURL, err := env.Google.Start(c.Request.Context(), oidckit.StateData{CreatedAt: time.Now().UTC()})
		if err != nil {
			screen := env.screen("", &redirectRecorder{})
			screen.GoogleLoginFailed(c.Request.Context(), err)
			env.renderLogin(c, http.StatusServiceUnavailable, screen)
			return
		}
		c.Redirect(http.StatusFound, authURL)
	}
}

// HandleGoogleCallbackGET finishes the Google flow. Provider errors, unknown
// state and failed code exchange all count as a widget failure.
func HandleGoogleCallbackGET(env *Env, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if env.Google == nil {
			ginutil.NotFound(c, "google_disabled")
			return
		}
		if !ginutil.AllowNamed(c, rl, ginutil.RLGoogle) {
			ginutil.TooMany(c)
			return
		}
		ctx := c.Request.Context()

		sid, err := ginutil.NewSessionID()
		if err != nil {
			ginutil.ServerErrWithLog(c, "session_unavailable", err, "failed to allocate session id")
			return
		}
		nav := &redirectRecorder{}
		screen := env.screen(sid, nav)

		accessToken, err := googleAccessToken(c, env.Google)
		if err != nil {
			screen.GoogleLoginFailed(ctx, err)
			env.renderLogin(c, http.StatusUnauthorized, screen)
			return
		}
		if !screen.GoogleLoginSucceeded(ctx, accessToken) {
			env.renderLogin(c, http.StatusUnauthorized, screen)
			return
		}

		env.startSession(c, sid, core.MethodGoogle)
		redirect(c, nav.route)
	}
}

func googleAccessToken(c *gin.Context, w *oidckit.GoogleWidget) (string, error) {
	if e := c.Query("error"); e != "" {
		return "", errors.New("google: " + e)
	}
	st, err := w.ConsumeState(c.Request.Context(), c.Query("state"))
	if err != nil {
		return "", err
	}
	return w.Exchange(c.Request.Context(), c.Query("code"), st.CodeVerifier)
}
