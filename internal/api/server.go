// Package api assembles the rankguard HTTP surface: Echo router,
// middleware stack, and Huma-registered endpoints.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asoguard/rankguard/internal/api/handlers"
	"github.com/asoguard/rankguard/internal/api/middleware"
	"github.com/asoguard/rankguard/internal/engine"
	"github.com/asoguard/rankguard/internal/itunes"
	"github.com/asoguard/rankguard/internal/store"
)

// Deps are the collaborators the HTTP layer exposes.
type Deps struct {
	Store       store.Store
	Engine      *engine.Engine
	RateLimiter *itunes.RateLimiter
	Log         *slog.Logger
	Version     string
}

// NewRouter builds the Echo instance with the full middleware stack and
// all registered routes. The caller owns starting and stopping it.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(deps.Log))
	e.Use(middleware.RequestLog(deps.Log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(deps.Store)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cfg := huma.DefaultConfig("Rank Guard API", deps.Version)
	cfg.Info.Description = "App Store keyword rank tracking and alerting."
	api := humaecho.New(e, cfg)

	handlers.RegisterKeywordRoutes(api, handlers.NewKeywordsHandler(deps.Store))
	handlers.RegisterRankingRoutes(api, handlers.NewRankingsHandler(deps.Store))
	handlers.RegisterAlertRoutes(api, handlers.NewAlertsHandler(deps.Store))
	handlers.RegisterJobRoutes(api, handlers.NewJobsHandler(deps.Store))
	handlers.RegisterQuotaRoutes(api, handlers.NewQuotaHandler(deps.RateLimiter))
	handlers.RegisterTriggerRoutes(api,
		handlers.NewTrackHandler(deps.Engine),
		handlers.NewDigestHandler(deps.Engine),
	)

	return e
}
