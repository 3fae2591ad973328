package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/standupbot/internal/config"
	"github.com/geocoder89/standupbot/internal/domain/user"
	"github.com/geocoder89/standupbot/internal/http/handlers"
	"github.com/geocoder89/standupbot/internal/http/middlewares"
	"github.com/geocoder89/standupbot/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Directory interface {
	handlers.DirectoryReader
	handlers.UserByEmail
}

type Tokens interface {
	handlers.TokenIssuer
	middlewares.TokenVerifier
}

type Deps struct {
	Log      *slog.Logger
	Config   config.Config
	Standups handlers.StandupService
	Dir      Directory
	Tokens   Tokens

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	ReadyChecks  map[string]handlers.Pinger
	ShuttingDown func() bool
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" && d.Config.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(observability.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Config.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))
	}
	r.Use(middlewares.RequireJSON())

	am := middlewares.NewAuthMiddleware(d.Tokens)
	r.Use(am.OptionalAuth())

	// health
	h := handlers.NewHealthHandler(d.ReadyChecks, d.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	writeLimiter := middlewares.NewRateLimiter(d.Config.RateLimitPerMinute, time.Minute)
	limitWrites := writeLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP)

	// sessions are issued before there is an identity to key on
	sessionLimiter := middlewares.NewRateLimiter(d.Config.RateLimitPerMinute, time.Minute)

	authHandler := handlers.NewAuthHandler(d.Dir, d.Tokens)
	r.POST("/auth/session", sessionLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.CreateSession)

	r.GET("/lookups/blocker-statuses", handlers.BlockerStatusLookup)
	r.GET("/lookups/blocker-statuses/:status", handlers.BlockerStatusLabelLookup)
	r.GET("/lookups/roles", handlers.RoleLookup)

	dir := handlers.NewDirectoryHandler(d.Dir)
	r.GET("/users", dir.ListUsers)
	r.GET("/users/:id", dir.GetUser)
	r.GET("/teams/:id", dir.GetTeam)
	r.GET("/teams/:id/members", dir.ListTeamMembers)

	sh := handlers.NewStandupsHandler(d.Standups)
	standups := r.Group("/standups")
	{
		standups.GET("/today/:userId", sh.GetToday)
		standups.GET("/history/:userId", sh.GetHistory)
		standups.GET("/status/:userId", sh.GetSubmissionStatus)
		standups.GET("/team/:teamId", sh.GetTeam)
		standups.GET("/team/:teamId/status", sh.GetTeamStatus)

		standups.POST("/:userId", limitWrites, sh.Create)
		standups.PUT("/:userId", limitWrites, sh.Update)

		blocker := []gin.HandlerFunc{limitWrites}
		if d.Config.EnforceLeadRole {
			blocker = append(blocker, middlewares.RequireRole(string(user.RoleLead)))
		}
		blocker = append(blocker, sh.UpdateBlockerStatus)
		standups.PATCH("/:standupId/blocker-status", blocker...)
	}

	return r
}
