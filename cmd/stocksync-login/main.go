// Command stocksync-login serves the StockSync login screen.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authgin "github.com/PaulFidika/stocksync-login/adapters/gin"
	"github.com/PaulFidika/stocksync-login/adapters/ginutil"
	"github.com/PaulFidika/stocksync-login/audit"
	"github.com/PaulFidika/stocksync-login/backend"
	"github.com/PaulFidika/stocksync-login/config"
	"github.com/PaulFidika/stocksync-login/core"
	"github.com/PaulFidika/stocksync-login/identity"
	migrations "github.com/PaulFidika/stocksync-login/migrations/postgres"
	oidckit "github.com/PaulFidika/stocksync-login/oidc"
	memorylimiter "github.com/PaulFidika/stocksync-login/ratelimit/memory"
	redislimiter "github.com/PaulFidika/stocksync-login/ratelimit/redis"
	memorystore "github.com/PaulFidika/stocksync-login/storage/memory"
	redisstore "github.com/PaulFidika/stocksync-login/storage/redis"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("stocksync-login stopped")
	}
}

type stores struct {
	sessions core.SessionStore
	states   oidckit.StateCache
	limiter  ginutil.RateLimiter
	closers  []func() error
}

func newStores(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*stores, error) {
	limits := memorylimiter.DefaultLimits(cfg.LoginRateLimit)
	if cfg.RedisAddr == "" {
		sessions := memorystore.NewSessionStore(cfg.SessionTTL)
		states := memorystore.NewStateCache(cfg.StateTTL)
		log.Warn("no redis configured, sessions are kept in memory")
		return &stores{
			sessions: sessions,
			states:   states,
			limiter:  memorylimiter.New(limits),
			closers:  []func() error{sessions.Close, states.Close},
		}, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	rl := make(map[string]redislimiter.Limit, len(limits))
	for k, v := range limits {
		rl[k] = redislimiter.Limit{Limit: v.Limit, Window: v.Window}
	}
	return &stores{
		sessions: redisstore.NewSessionStore(rdb, "", cfg.SessionTTL),
		states:   redisstore.NewStateCache(rdb, "", cfg.StateTTL),
		limiter:  redislimiter.New(rdb, rl),
		closers:  []func() error{rdb.Close},
	}, nil
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	st, err := newStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range st.closers {
			_ = c()
		}
	}()

	api, err := backend.New(cfg.APIURL, nil)
	if err != nil {
		return err
	}
	svc, err := authgin.NewService(api, st.sessions)
	if err != nil {
		return err
	}
	svc.WithLogger(log).
		WithRateLimiter(st.limiter).
		WithSessionCookie(ginutil.SessionCookie{Secure: cfg.CookieSecure, TTL: cfg.SessionTTL}).
		WithLanguageConfig(authgin.LanguageConfig{Supported: cfg.Languages, Default: cfg.DefaultLanguage})

	var users core.UserDirectory = api
	var auditLog core.AuthEventLogger = audit.NewLogrusLogger(log)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.UsersFromDatabase {
			users = identity.NewStore(pool, cfg.UsersTable)
		}
		if cfg.RiverMigrate {
			if _, err := migrations.Up(ctx, pool, log); err != nil {
				return err
			}
		}
		rl, err := audit.NewRiverLogger(pool, cfg.AuditWorkers, log)
		if err != nil {
			return err
		}
		if err := rl.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = rl.Stop(stopCtx)
		}()
		auditLog = rl
	}
	svc.WithAuditLogger(auditLog)

	if cfg.GoogleEnabled() {
		widget, err := oidckit.NewGoogleWidget(cfg.Google(), st.states)
		if err != nil {
			return err
		}
		svc.WithGoogle(widget, users)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	svc.GinRegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":   cfg.ListenAddr,
			"google": cfg.GoogleEnabled(),
			"redis":  cfg.RedisAddr != "",
		}).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
