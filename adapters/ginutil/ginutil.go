package ginutil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Rate limit bucket names.
const (
	RLLogin       = "auth_login"
	RLGoogle      = "auth_google"
	RLUserMe      = "auth_user_me"
	RLSessionDrop = "auth_session_delete"
)

// RateLimiter is satisfied by the memory and redis limiters.
type RateLimiter interface {
	AllowNamed(bucket, key string) (bool, error)
}

// AllowNamed applies bucket for the caller's IP. A nil limiter allows all
// requests; limiter errors fail open and are logged.
func AllowNamed(c *gin.Context, rl RateLimiter, bucket string) bool {
	if rl == nil {
		return true
	}
	ok, err := rl.AllowNamed(bucket, c.ClientIP())
	if err != nil {
		logrus.WithError(err).WithField("bucket", bucket).Warn("rate limiter unavailable")
		return true
	}
	return ok
}

func BadRequest(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": code})
}

func Unauthorized(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code})
}

func NotFound(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": code})
}

func TooMany(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
}

func ServerErr(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": code})
}

// ServerErrWithLog logs err with msg before answering 500 with code.
func ServerErrWithLog(c *gin.Context, code string, err error, msg string) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"path": c.FullPath(),
		"code": code,
	}).Error(msg)
	ServerErr(c, code)
}

// WantsJSON reports whether the request body or Accept header is JSON.
func WantsJSON(c *gin.Context) bool {
	if c.ContentType() == gin.MIMEJSON {
		return true
	}
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func Forbidden(c *gin.Context, code string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code})
}
