package handlers

import (
	"net/http"

	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	core "github.com/PaulFidika/stocksync-login/core"
	"github.com/gin-gonic/gin"
)

// HandleLoginPOST handles POST /auth/login for both the HTML form and JSON
// clients. The email is passed through as typed.
func HandleLoginPOST(env *Env, rl ginutil.RateLimiter) gin.HandlerFunc {
	type loginReq struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, ginutil.RLLogin) {
			ginutil.TooMany(c)
			return
		}
		asJSON := ginutil.WantsJSON(c)
		var req loginReq
		if err := c.ShouldBind(&req); err != nil {
			ginutil.BadRequest(c, "invalid_request")
			return
		}

		sid, err := ginutil.NewSessionID()
		if err != nil {
			ginutil.ServerErrWithLog(c, "session_unavailable", err, "failed to allocate session id")
			return
		}
		nav := &redirectRecorder{}
		screen := env.screen(sid, nav)
		if !screen.SubmitCredentials(c.Request.Context(), req.Email, req.Password) {
			if asJSON {
				c.JSON(http.StatusUnauthorized, gin.H{"error": screen.ErrorMessage})
				return
			}
			env.renderLogin(c, http.StatusUnauthorized, screen)
			return
		}

		env.startSession(c, sid, core.MethodPassword)
		if asJSON {
			c.JSON(http.StatusOK, gin.H{"ok": true, "redirect": nav.route})
			return
		}
		redirect(c, nav.route)
	}
}
