package oidckit

import "golang.org/x/oauth2/endpoints"

// PublicGoogleClientID is the browser-visible OAuth client of the StockSync web app.
const PublicGoogleClientID = "772509586103-5h4f5vu58sv9cqkon7jbq63m68nsoh5m.apps.googleusercontent.com"

// DefaultGoogleUserInfoURL is the OpenID userinfo endpoint queried with the access token.
const DefaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// RPConfig describes an IdP (Relying Party) with minimal fields.
// Endpoint fields left empty fall back to the provider defaults.
type RPConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Optional: additional/override scopes. "openid" will be ensured.
	Scopes []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// DefaultsFor returns the defaults for a known provider name.
func DefaultsFor(name string) (RPConfig, bool) {
	switch name {
	case "google":
		return RPConfig{
			ClientID:    PublicGoogleClientID,
			Scopes:      []string{"openid", "email", "profile"},
			AuthURL:     endpoints.Google.AuthURL,
			TokenURL:    endpoints.Google.TokenURL,
			UserInfoURL: DefaultGoogleUserInfoURL,
		}, true
	default:
		return RPConfig{}, false
	}
}

// withDefaults fills empty fields of cfg from the provider defaults.
func withDefaults(name string, cfg RPConfig) RPConfig {
	base, ok := DefaultsFor(name)
	if !ok {
		cfg.Scopes = ensureOpenID(cfg.Scopes)
		return cfg
	}
	if cfg.ClientID == "" {
		cfg.ClientID = base.ClientID
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = base.AuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = base.TokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = base.UserInfoURL
	}
	cfg.Scopes = ensureOpenID(mergeScopes(base.Scopes, cfg.Scopes))
	return cfg
}

func ensureOpenID(scopes []string) []string {
	for _, s := range scopes {
		if s == "openid" {
			return scopes
		}
	}
	return append(scopes, "openid")
}

// mergeScopes keeps base order and appends unseen extras.
func mergeScopes(base, extra []string) []string {
	set := map[string]struct{}{}
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, s := range list {
			if _, ok := set[s]; ok {
				continue
			}
			set[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
