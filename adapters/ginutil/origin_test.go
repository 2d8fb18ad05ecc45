package ginutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSameOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", SameOrigin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name    string
		origin  string
		referer string
		want    int
	}{
		{"no headers", "", "", http.StatusNoContent},
		{"same origin", "http://app.test", "", http.StatusNoContent},
		{"explicit default port", "http://app.test:80", "", http.StatusNoContent},
		{"same referer", "", "http://app.test/auth/login", http.StatusNoContent},
		{"foreign origin", "https://evil.test", "", http.StatusForbidden},
		{"foreign referer", "", "https://evil.test/form", http.StatusForbidden},
		{"port mismatch", "http://app.test:8443", "", http.StatusForbidden},
		{"opaque origin", "null", "", http.StatusForbidden},
		{"origin beats referer", "https://evil.test", "http://app.test/", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "http://app.test/auth/login", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("got %d, want %d", w.Code, tt.want)
			}
		})
	}
}
