package handlers

import (
	"net/http"

	core "github.com/PaulFidika/stocksync-login/core"
	"github.com/gin-gonic/gin"
)

// HandleDashboardGET renders the signed-in landing page.
func HandleDashboardGET(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := env.currentProfile(c)
		if !ok {
			redirect(c, core.RouteLogin)
			return
		}
		c.HTML(http.StatusOK, DashboardTemplate, gin.H{
			"Lang":        requestLanguage(c),
			"Profile":     p,
			"HasPicture":  p.Picture != "" && p.Picture != "none",
			"LogoutRoute": RouteLogout,
		})
	}
}
