// Package api provides the HTTP API for the rating map service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/globalratings/ratingmap/internal/api/handler"
	"github.com/globalratings/ratingmap/internal/api/middleware"
	"github.com/globalratings/ratingmap/internal/demo"
	"github.com/globalratings/ratingmap/internal/observability"
	"github.com/globalratings/ratingmap/internal/ratings"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Demo           *demo.Service
	Pipeline       *ratings.Pipeline
	Uploads        *ratings.SessionStore
	DomainMetrics  *observability.Metrics
	UploadMaxBytes int64

	// ReadinessChecks report dependency health on /v1/ops/ready.
	ReadinessChecks []handler.ComponentCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "ratingmap-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ReadinessChecks...)
	geoJSONHandler := handler.NewGeoJSONHandler(cfg.Demo)
	uploadHandler := handler.NewUploadHandler(cfg.Pipeline, cfg.Uploads, cfg.DomainMetrics, cfg.UploadMaxBytes)
	statsHandler := handler.NewStatsHandler(cfg.Demo, cfg.Uploads)
	frameHandler := handler.NewFrameHandler(cfg.Demo, cfg.Uploads, cfg.Logger)
	exportHandler := handler.NewExportHandler(cfg.Logger)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	streamRateLimit := middleware.RateLimitByIP(middleware.StreamRateLimit)       // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Dataset endpoints - upstream fetch plus enrichment, strict rate limiting
		r.Route("/geojson", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Get("/", geoJSONHandler.GetDataset)
			r.Get("/frame", frameHandler.GetFrame)
		})

		// Upload pipeline - strict rate limiting
		r.Route("/uploads", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Post("/", uploadHandler.CreateUpload)
			r.Post("/{uploadID}/apply", uploadHandler.ApplyUpload)
		})

		// Server-driven playback stream
		r.With(streamRateLimit).Get("/frames/stream", frameHandler.StreamFrames)

		// Stats and export - standard rate limiting
		r.With(standardRateLimit).Get("/stats", statsHandler.GetStats)
		r.With(standardRateLimit).Get("/export/example.csv", exportHandler.ExampleCSV)
	})

	return r
}
