package handlers

import (
	"net/http"

	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	"github.com/gin-gonic/gin"
)

// HandleUserMeGET returns the signed-in profile.
func HandleUserMeGET(env *Env, rl ginutil.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ginutil.AllowNamed(c, rl, ginutil.RLUserMe) {
			ginutil.TooMany(c)
			return
		}
		p, ok := env.currentProfile(c)
		if !ok {
			ginutil.Unauthorized(c, "not_signed_in")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"name":     p.Name,
			"email":    p.Email,
			"picture":  p.Picture,
			"role":     p.Role,
			"language": requestLanguage(c),
		})
	}
}
