package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dennisdiepolder/monti/recovery/internal/api"
	"github.com/dennisdiepolder/monti/recovery/internal/cache"
	"github.com/dennisdiepolder/monti/recovery/internal/config"
	"github.com/dennisdiepolder/monti/recovery/internal/hours"
	"github.com/dennisdiepolder/monti/recovery/internal/metrics"
	"github.com/dennisdiepolder/monti/recovery/internal/report"
	"github.com/dennisdiepolder/monti/recovery/internal/seed"
	"github.com/dennisdiepolder/monti/recovery/internal/storage"
	"github.com/dennisdiepolder/monti/recovery/internal/websocket"
	"github.com/dennisdiepolder/monti/recovery/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := hours.Load(cfg.HoursConfig, cfg.WallClock)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.HoursConfig).Msg("failed to load operating hours")
	}

	dynamoCfg := storage.LoadDynamoConfig()
	store, err := storage.NewStore(ctx, dynamoCfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create store")
	}

	engine := report.NewEngine(registry, cfg.NormalizePolicy(), cfg.AggregatorOptions(), log.Logger)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Str("wall_clock", cfg.WallClock.String()).
		Int("call_centers", len(registry.Centers())).
		Str("store", string(dynamoCfg.Mode)).
		Str("policy", engine.Policy()).
		Msg("starting recovery metrics server")

	reports := cache.NewReportCache()
	runner := report.NewRunner(store, engine, reports, log.Logger)

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()
	wsHandler := websocket.NewHandler(hub, reports, cfg, log.Logger)

	refresher := report.NewRefresher(runner, hub, cfg.RefreshInterval, cfg.RefreshDays, log.Logger)
	go refresher.Start(ctx)

	metricsHandler := api.NewMetricsHandler(runner, cfg.RefreshDays, log.Logger)
	centersHandler := api.NewCallCentersHandler(registry)

	adminHandler := newAdminHandler(dynamoCfg.Mode, store, registry)
	r := newRouter(cfg, wsHandler.ServeHTTP, metricsHandler, centersHandler, adminHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop the refresher
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newAdminHandler returns nil in aws mode. Admin routes only make sense
// against local tables or the in-memory store.
func newAdminHandler(mode storage.DynamoMode, store storage.ReadWriter, registry *hours.Registry) *api.AdminHandler {
	if mode == storage.DynamoModeAWS {
		return nil
	}
	seeder := seed.NewSeeder(store, seed.NewGenerator(registry, seed.DefaultConfig()), log.Logger)
	return api.NewAdminHandler(store, seeder, log.Logger)
}

func newRouter(cfg *config.Config, ws http.HandlerFunc, metricsHandler *api.MetricsHandler, centers *api.CallCentersHandler, admin *api.AdminHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Get().Handler())
	r.Get("/ws", ws)
	api.Register(r, metricsHandler, centers, admin)

	return r
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"recovery-metrics"}`)
}
