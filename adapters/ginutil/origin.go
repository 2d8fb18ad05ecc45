package ginutil

import (
	"net"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// SameOrigin rejects state-changing requests whose Origin, or Referer when
// Origin is absent, names another host. Browsers send Origin on cross-site
// form posts, so this blocks login and logout CSRF. Requests carrying neither
// header come from non-browser clients and pass.
func SameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		proof := strings.TrimSpace(c.GetHeader("Origin"))
		if proof == "" {
			proof = strings.TrimSpace(c.GetHeader("Referer"))
		}
		if proof != "" && !sameHost(proof, c.Request.Host, c.Request.TLS != nil) {
			Forbidden(c, "cross_origin")
			return
		}
		c.Next()
	}
}

func sameHost(raw, host string, tls bool) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return hostPort(u.Host, u.Scheme == "https") == hostPort(host, tls)
}

func hostPort(h string, tls bool) string {
	h = strings.ToLower(h)
	if _, _, err := net.SplitHostPort(h); err == nil {
		return h
	}
	if tls {
		return net.JoinHostPort(h, "443")
	}
	return net.JoinHostPort(h, "80")
}
