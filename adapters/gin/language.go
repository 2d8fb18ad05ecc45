package authgin

import (
	"strings"

	"github.com/PaulFidika/stocksync-login/lang"
	"github.com/gin-gonic/gin"
)

type LanguageConfig struct {
	Supported  []string
	Default    string
	QueryParam string
	CookieName string
}

func (c *LanguageConfig) defaulted() LanguageConfig {
	var out LanguageConfig
	if c != nil {
		out = *c
	}
	if strings.TrimSpace(out.Default) == "" {
		out.Default = lang.Fallback
	}
	if strings.TrimSpace(out.QueryParam) == "" {
		out.QueryParam = "lang"
	}
	if strings.TrimSpace(out.CookieName) == "" {
		out.CookieName = "lang"
	}
	return out
}

const languageKey = "stocksync.language"

// LanguageMiddleware infers the request language and attaches it to the
// request context and the gin context.
func LanguageMiddleware(cfg *LanguageConfig) gin.HandlerFunc {
	c := cfg.defaulted()
	resolver := lang.NewResolver(c.Supported, c.Default)
	return func(g *gin.Context) {
		cookie, _ := g.Cookie(c.CookieName)
		l := resolver.Resolve(lang.Candidates{
			Query:          g.Query(c.QueryParam),
			Path:           g.Request.URL.Path,
			Cookie:         cookie,
			AcceptLanguage: g.GetHeader("Accept-Language"),
		})
		g.Set(languageKey, l)
		g.Request = g.Request.WithContext(lang.WithLanguage(g.Request.Context(), l))
		g.Next()
	}
}
