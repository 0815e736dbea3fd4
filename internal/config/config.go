// Package config loads service configuration from the environment, with a
// local .env file honored for development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the rating map service.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Environment is the deployment environment (development, production).
	Environment string

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string

	// GeoJSONSourceURL is the upstream world countries GeoJSON document.
	GeoJSONSourceURL string

	// NeighborhoodSourceURL is the optional neighborhood GeoJSON document.
	// Empty disables the neighborhood dataset.
	NeighborhoodSourceURL string

	// GeoJSONCacheTTL is how long fetched GeoJSON is served from memory.
	GeoJSONCacheTTL time.Duration

	// GeoJSONMaxBytes caps the upstream response body size.
	GeoJSONMaxBytes int64

	// UploadMaxBytes caps the CSV upload request body size.
	UploadMaxBytes int64

	// UploadSessionTTL is how long a validated upload can be applied.
	UploadSessionTTL time.Duration

	// DemoDays is the default length of generated rating series.
	DemoDays int

	// OTELEnabled toggles trace and metric export.
	OTELEnabled bool

	// OTLPEndpoint is the OTLP gRPC collector address.
	OTLPEndpoint string
}

const defaultGeoJSONSourceURL = "https://raw.githubusercontent.com/datasets/geo-countries/master/data/countries.geojson"

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                  getEnv("APP_PORT", "8080"),
		Environment:           getEnv("APP_ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		GeoJSONSourceURL:      strings.TrimSpace(getEnv("GEOJSON_SOURCE_URL", defaultGeoJSONSourceURL)),
		NeighborhoodSourceURL: strings.TrimSpace(getEnv("NEIGHBORHOOD_SOURCE_URL", "")),
		OTELEnabled:           getEnv("OTEL_ENABLED", "false") == "true",
		OTLPEndpoint:          getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	var err error
	if cfg.GeoJSONCacheTTL, err = getDuration("GEOJSON_CACHE_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.GeoJSONMaxBytes, err = getInt64("GEOJSON_MAX_BYTES", 10<<20); err != nil {
		return Config{}, err
	}
	if cfg.UploadMaxBytes, err = getInt64("UPLOAD_MAX_BYTES", 10<<20); err != nil {
		return Config{}, err
	}
	if cfg.UploadSessionTTL, err = getDuration("UPLOAD_SESSION_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.DemoDays, err = getInt("DEMO_DAYS", 30); err != nil {
		return Config{}, err
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.GeoJSONSourceURL == "" {
		return fmt.Errorf("GEOJSON_SOURCE_URL must not be empty")
	}
	if c.GeoJSONMaxBytes <= 0 {
		return fmt.Errorf("GEOJSON_MAX_BYTES must be positive, got %d", c.GeoJSONMaxBytes)
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.UploadMaxBytes)
	}
	if c.DemoDays <= 0 || c.DemoDays > 366 {
		return fmt.Errorf("DEMO_DAYS must be in [1, 366], got %d", c.DemoDays)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a recognized level", c.LogLevel)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
