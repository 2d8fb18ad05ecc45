package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleLoginGET renders the empty login form.
func HandleLoginGET(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		env.renderLogin(c, http.StatusOK, nil)
	}
}
