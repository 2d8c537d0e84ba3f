package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srp14/srp/internal/api/handler"
	"github.com/srp14/srp/internal/api/middleware"
	"github.com/srp14/srp/internal/auth"
	"github.com/srp14/srp/internal/catalog"
	"github.com/srp14/srp/internal/fleet"
	"github.com/srp14/srp/internal/metrics"
	"github.com/srp14/srp/internal/request"
	"github.com/srp14/srp/internal/stats"
	"github.com/srp14/srp/internal/tier"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger       handler.DBPinger
	Version        string
	TierTable      *tier.Table
	TierConfigPath string
	AuthService    *auth.Service
	UserRepo       auth.UserRepository
	RequestService *request.Service
	StatsService   *stats.Service
	FleetRepo      fleet.Repository
	CatalogRepo    catalog.Repository
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics(deps.Metrics))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.TierTable, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	requestHandler := handler.NewRequestHandler(deps.RequestService, deps.Metrics)
	statsHandler := handler.NewStatsHandler(deps.StatsService, deps.Now)
	tierHandler := handler.NewTierHandler(deps.TierTable, deps.TierConfigPath)
	userHandler := handler.NewUserHandler(deps.AuthService, deps.UserRepo)
	fleetHandler := handler.NewFleetHandler(deps.FleetRepo)
	catalogHandler := handler.NewCatalogHandler(deps.CatalogRepo)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))

		r.Route("/requests", func(r chi.Router) {
			r.Post("/", requestHandler.Submit)
			r.Get("/", requestHandler.List)
			r.Get("/{id}", requestHandler.GetByID)
			r.Get("/{id}/audit", requestHandler.History)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireReviewer())
				r.Post("/{id}/review", requestHandler.Review)
				r.Post("/{id}/processing", requestHandler.MarkProcessing)
				r.Post("/{id}/pay", requestHandler.MarkPaid)
			})
		})

		r.Get("/stats", statsHandler.Get)
		r.Get("/tiers", tierHandler.List)
		r.Get("/asset-types", catalogHandler.List)
		r.Get("/fleets", fleetHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireReviewer())
			r.Post("/fleets", fleetHandler.Create)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/tiers/reload", tierHandler.Reload)
			r.Post("/asset-types", catalogHandler.Create)
			r.Route("/users", func(r chi.Router) {
				r.Post("/", userHandler.Create)
				r.Get("/", userHandler.List)
				r.Delete("/{id}", userHandler.Revoke)
			})
		})
	})

	return r
}
