// Package config loads the login service settings from STOCKSYNC_* variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	oidckit "github.com/PaulFidika/stocksync-login/oidc"
)

// Config is the full service configuration.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	// APIURL is the StockSync API base, e.g. https://api.stocksync.example.
	APIURL string `env:"API_URL,required"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`
	GoogleUserInfoURL  string `env:"GOOGLE_USERINFO_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	DatabaseURL   string `env:"DATABASE_URL"`
	// UsersFromDatabase makes Google sign-in look users up in DatabaseURL
	// instead of calling the API.
	UsersFromDatabase bool   `env:"USERS_FROM_DATABASE" envDefault:"false"`
	UsersTable        string `env:"USERS_TABLE" envDefault:"users"`
	RiverMigrate      bool   `env:"RIVER_MIGRATE" envDefault:"false"`
	AuditWorkers      int    `env:"AUDIT_WORKERS" envDefault:"2"`

	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	StateTTL       time.Duration `env:"STATE_TTL" envDefault:"10m"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"true"`
	LoginRateLimit int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`

	Languages       []string `env:"LANGUAGES" envSeparator:"," envDefault:"en"`
	DefaultLanguage string   `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

const prefix = "STOCKSYNC_"

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: prefix})
}

// LoadFrom parses vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: %sAPI_URL must be an absolute url, got %q", prefix, c.APIURL)
	}
	if c.UsersFromDatabase && c.DatabaseURL == "" {
		return fmt.Errorf("config: %sUSERS_FROM_DATABASE needs %sDATABASE_URL", prefix, prefix)
	}
	if c.SessionTTL <= 0 || c.StateTTL <= 0 {
		return fmt.Errorf("config: session and state ttl must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// GoogleEnabled reports whether the Google button should be offered. The
// public client id is used when none is configured, so only a redirect URL
// is required.
func (c Config) GoogleEnabled() bool { return c.GoogleRedirectURL != "" }

// Google returns the widget configuration with the public client id as
// fallback.
func (c Config) Google() oidckit.RPConfig {
	id := c.GoogleClientID
	if id == "" {
		id = oidckit.PublicGoogleClientID
	}
	return oidckit.RPConfig{
		ClientID:     id,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.GoogleRedirectURL,
		UserInfoURL:  c.GoogleUserInfoURL,
	}
}

// Logger builds the process logger from LogLevel and LogFormat.
func (c Config) Logger() *logrus.Logger {
	l := logrus.New()
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	if strings.EqualFold(c.LogFormat, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
