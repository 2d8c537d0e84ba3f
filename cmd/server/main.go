package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srp14/srp/internal/api"
	"github.com/srp14/srp/internal/audit"
	"github.com/srp14/srp/internal/auth"
	"github.com/srp14/srp/internal/catalog"
	"github.com/srp14/srp/internal/config"
	"github.com/srp14/srp/internal/fleet"
	"github.com/srp14/srp/internal/metrics"
	"github.com/srp14/srp/internal/request"
	"github.com/srp14/srp/internal/stats"
	"github.com/srp14/srp/internal/tier"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create connection pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to reach database", "error", err)
		os.Exit(1)
	}

	tierTable := tier.NewTable()
	if err := tierTable.Load(cfg.TierConfigPath); err != nil {
		if errors.Is(err, tier.ErrConfig) {
			// Capping is protective, not safety-critical: keep serving with
			// uncapped payouts rather than refuse submissions.
			slog.Warn("tier table not loaded; payouts are uncapped", "error", err)
		} else {
			slog.Error("failed to load tier table", "error", err)
			os.Exit(1)
		}
	}

	userRepo := auth.NewRepository(pool)
	authService := auth.NewService(userRepo, cfg.BcryptCost)
	if _, err := authService.BootstrapAdmin(ctx); err != nil {
		slog.Error("failed to bootstrap admin", "error", err)
		os.Exit(1)
	}

	auditRepo := audit.NewPostgresRepository(pool)
	catalogRepo := catalog.NewPostgresRepository(pool)
	fleetRepo := fleet.NewPostgresRepository(pool)
	requestRepo := request.NewPostgresRepository(pool)
	requestService := request.NewService(requestRepo, auditRepo, catalogRepo, fleetRepo, tierTable)
	statsService := stats.NewService(stats.NewPostgresRepository(pool))

	m := metrics.New(prometheus.DefaultRegisterer)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:       pool,
		Version:        cfg.Version,
		TierTable:      tierTable,
		TierConfigPath: cfg.TierConfigPath,
		AuthService:    authService,
		UserRepo:       userRepo,
		RequestService: requestService,
		StatsService:   statsService,
		FleetRepo:      fleetRepo,
		CatalogRepo:    catalogRepo,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting SRP server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
