// Package lang resolves the display language of a request.
package lang

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

type ctxKey struct{}

// WithLanguage attaches a request language to ctx.
func WithLanguage(ctx context.Context, language string) context.Context {
	return context.WithValue(ctx, ctxKey{}, language)
}

// LanguageFromContext reads a request language from ctx.
func LanguageFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKey{}).(string)
	return s, ok && s != ""
}

// Fallback is used when nothing else matches.
const Fallback = "en"

// Candidates are the raw language hints of one request.
type Candidates struct {
	Query          string
	Path           string
	Cookie         string
	AcceptLanguage string
}

// Resolver picks a language from Candidates, restricted to a supported set.
// An empty supported set accepts any two-letter code.
type Resolver struct {
	supported map[string]struct{}
	def       string
}

func NewResolver(supported []string, def string) *Resolver {
	r := &Resolver{def: Normalize(def)}
	if len(supported) > 0 {
		r.supported = make(map[string]struct{}, len(supported))
		for _, s := range supported {
			if n := Normalize(s); n != "" {
				r.supported[n] = struct{}{}
			}
		}
	}
	if !r.accepts(r.def) {
		r.def = Fallback
	}
	return r
}

// Resolve applies query > path prefix > cookie > Accept-Language > default.
func (r *Resolver) Resolve(c Candidates) string {
	for _, v := range []string{
		Normalize(c.Query),
		r.fromPath(c.Path),
		Normalize(c.Cookie),
		r.fromAcceptLanguage(c.AcceptLanguage),
	} {
		if r.accepts(v) {
			return v
		}
	}
	return r.def
}

func (r *Resolver) accepts(code string) bool {
	if code == "" {
		return false
	}
	if r.supported == nil {
		return true
	}
	_, ok := r.supported[code]
	return ok
}

func (r *Resolver) fromPath(path string) string {
	seg := strings.TrimLeft(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	// Only a bare two-letter segment counts; "auth" or "en-US" do not.
	if len(seg) != 2 {
		return ""
	}
	return Normalize(seg)
}

// fromAcceptLanguage returns the highest weighted supported base language.
// ParseAcceptLanguage orders tags by q and drops q=0.
func (r *Resolver) fromAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if code := Normalize(base.String()); r.accepts(code) {
			return code
		}
	}
	return ""
}

var reCode = regexp.MustCompile(`^[a-z]{2}$`)

// Normalize lowercases s and strips any region suffix ("fr-FR" -> "fr").
// It returns "" for anything that is not a two-letter code.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	if !reCode.MatchString(s) {
		return ""
	}
	return s
}
