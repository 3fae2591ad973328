package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/geocoder89/standupbot/internal/auth"
	"github.com/geocoder89/standupbot/internal/cache"
	"github.com/geocoder89/standupbot/internal/config"
	"github.com/geocoder89/standupbot/internal/db"
	httpx "github.com/geocoder89/standupbot/internal/http"
	"github.com/geocoder89/standupbot/internal/http/handlers"
	"github.com/geocoder89/standupbot/internal/notifications"
	"github.com/geocoder89/standupbot/internal/observability"
	"github.com/geocoder89/standupbot/internal/repo/memory"
	"github.com/geocoder89/standupbot/internal/repo/postgres"
	"github.com/geocoder89/standupbot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// App is the wired API: stores, cache, services and the router.
type App struct {
	Router   *gin.Engine
	Standups *service.StandupService
	Dir      *service.DirectoryService

	shuttingDown atomic.Bool
	closers      []func()
}

type stores struct {
	standups service.StandupStore
	users    service.UserStore
	teams    service.TeamStore
}

// New wires the application from cfg. reg receives the Prometheus
// collectors; pass a fresh registry in tests.
func New(ctx context.Context, cfg config.Config, log *slog.Logger, reg *prometheus.Registry) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{}
	prom := observability.NewProm(reg)
	ready := map[string]handlers.Pinger{}

	st, err := a.openStores(ctx, cfg, log, prom, ready)
	if err != nil {
		a.Close()
		return nil, err
	}

	readCache := a.openCache(cfg, log, ready)

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(log),
		notifications.ProtectedNotifierConfig{
			Timeout:          cfg.NotifierTimeout,
			FailureThreshold: cfg.NotifierFailureThreshold,
			Cooldown:         cfg.NotifierCooldown,
		},
	)

	a.Standups = service.NewStandupService(service.Deps{
		Standups: st.standups,
		Users:    st.users,
		Teams:    st.teams,
		Cache:    readCache,
		Notifier: notifier,
		Prom:     prom,
		Log:      log,
	})
	a.Dir = service.NewDirectoryService(st.users, st.teams)

	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)

	a.Router = httpx.NewRouter(httpx.Deps{
		Log:          log,
		Config:       cfg,
		Standups:     a.Standups,
		Dir:          a.Dir,
		Tokens:       tokens,
		Prom:         prom,
		Gatherer:     reg,
		ReadyChecks:  ready,
		ShuttingDown: a.shuttingDown.Load,
	})

	return a, nil
}

func (a *App) openStores(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom, ready map[string]handlers.Pinger) (stores, error) {
	if cfg.Storage == "memory" {
		log.Warn("using in-memory storage; data is lost on restart")
		dir := memory.NewDirectory()
		return stores{
			standups: memory.NewStandupsRepo(dir),
			users:    memory.NewUsersRepo(dir),
			teams:    memory.NewTeamsRepo(dir),
		}, nil
	}

	pool, err := db.NewPool(cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return stores{}, fmt.Errorf("db connect: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	ready["postgres"] = pool.Ping

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			return stores{}, fmt.Errorf("db migrate: %w", err)
		}
		if err := db.EnsureSeedData(ctx, pool); err != nil {
			return stores{}, fmt.Errorf("db seed: %w", err)
		}
		log.Info("database migrated and seeded")
	}

	return stores{
		standups: postgres.NewStandupsRepo(pool, prom),
		users:    postgres.NewUsersRepo(pool, prom),
		teams:    postgres.NewTeamsRepo(pool, prom),
	}, nil
}

func (a *App) openCache(cfg config.Config, log *slog.Logger, ready map[string]handlers.Pinger) cache.Store {
	switch cfg.CacheBackend {
	case "redis":
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		a.closers = append(a.closers, func() {
			if err := rc.Close(); err != nil {
				log.Warn("redis close failed", "err", err)
			}
		})
		ready["redis"] = rc.Ping
		return rc
	case "none":
		return cache.Noop{}
	default:
		return cache.NewMemory(cfg.CacheTTL)
	}
}

// BeginShutdown flips /readyz to 503 so load balancers drain the instance.
func (a *App) BeginShutdown() {
	a.shuttingDown.Store(true)
}

// Close releases stores and caches in reverse open order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
