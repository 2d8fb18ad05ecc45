package handlers

import (
	"net/http"

	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	core "github.com/PaulFidika/stocksync-login/core"
	"github.com/gin-gonic/gin"
)

// HandleUserSessionDELETE drops the caller's session. It is idempotent.
func HandleUserSessionDELETE(env *Env, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !dropSession(c, env, rl) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// HandleLogoutPOST drops the session and sends form clients back to login.
func HandleLogoutPOST(env *Env, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !dropSession(c, env, rl) {
			return
		}
		if ginutil.WantsJSON(c) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "redirect": core.RouteLogin})
			return
		}
		redirect(c, core.RouteLogin)
	}
}

func dropSession(c *gin.Context, env *Env, rl ginutil.RateLimiter) bool {
	if !ginutil.AllowNamed(c, rl, ginutil.RLSessionDrop) {
		ginutil.TooMany(c)
		return false
	}
	if sid := env.Cookie.SessionID(c); sid != "" {
		if err := env.Sessions.Delete(c.Request.Context(), sid); err != nil {
			ginutil.ServerErrWithLog(c, "failed_to_revoke", err, "failed to delete session")
			return false
		}
	}
	env.Cookie.Clear(c)
	return true
}
