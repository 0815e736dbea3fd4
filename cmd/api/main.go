// Package main provides the entrypoint for the rating map API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/globalratings/ratingmap/internal/api"
	"github.com/globalratings/ratingmap/internal/api/handler"
	"github.com/globalratings/ratingmap/internal/api/middleware"
	"github.com/globalratings/ratingmap/internal/api/models"
	"github.com/globalratings/ratingmap/internal/config"
	"github.com/globalratings/ratingmap/internal/demo"
	"github.com/globalratings/ratingmap/internal/observability"
	"github.com/globalratings/ratingmap/internal/ratings"
	"github.com/globalratings/ratingmap/internal/resilience"
	"github.com/globalratings/ratingmap/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "ratingmap-api"

	cfg, err := config.Load()
	if err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("invalid configuration")
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("environment", cfg.Environment).
		Msg("starting rating map API")

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	domainMetrics := observability.NewMetrics()

	// Upstream GeoJSON sources behind a resilient client
	sourceClient := resilience.NewClient(resilience.ClientConfig{Name: "geojson-source"})

	countrySource := demo.NewSource(demo.SourceConfig{
		URL:      cfg.GeoJSONSourceURL,
		CacheTTL: cfg.GeoJSONCacheTTL,
		MaxBytes: cfg.GeoJSONMaxBytes,
		Client:   sourceClient,
		Logger:   log,
		Metrics:  domainMetrics,
	})

	var neighborhoodSource demo.CollectionFetcher
	if cfg.NeighborhoodSourceURL != "" {
		neighborhoodSource = demo.NewSource(demo.SourceConfig{
			URL:      cfg.NeighborhoodSourceURL,
			CacheTTL: cfg.GeoJSONCacheTTL,
			MaxBytes: cfg.GeoJSONMaxBytes,
			Client:   sourceClient,
			Logger:   log,
			Metrics:  domainMetrics,
		})
		log.Info().Str("url", cfg.NeighborhoodSourceURL).Msg("neighborhood dataset enabled")
	}

	demoService := demo.NewService(demo.ServiceConfig{
		Countries:     countrySource,
		Neighborhoods: neighborhoodSource,
		Days:          cfg.DemoDays,
		Logger:        log,
	})
	log.Info().Str("url", cfg.GeoJSONSourceURL).Msg("demo data service initialized")

	// Upload pipeline and session store
	pipeline := ratings.NewPipeline(log, domainMetrics)
	uploads := ratings.NewSessionStore(100, cfg.UploadSessionTTL)
	log.Info().Dur("session_ttl", cfg.UploadSessionTTL).Msg("upload pipeline initialized")

	// Readiness reflects the upstream circuit breaker
	sourceCheck := func() models.ComponentStatus {
		state := sourceClient.State()
		status := models.HealthStatusOK
		if state == gobreaker.StateOpen {
			status = models.HealthStatusDegraded
		}
		return models.ComponentStatus{
			Name:   "geojson-source",
			Status: status,
			Detail: state.String(),
		}
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         httpMetrics,
		Demo:            demoService,
		Pipeline:        pipeline,
		Uploads:         uploads,
		DomainMetrics:   domainMetrics,
		UploadMaxBytes:  cfg.UploadMaxBytes,
		ReadinessChecks: []handler.ComponentCheck{sourceCheck},
	})

	// Create HTTP server. The frame stream holds connections open, so no
	// global write deadline.
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
