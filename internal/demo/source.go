package demo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/globalratings/ratingmap/internal/observability"
	"github.com/globalratings/ratingmap/internal/resilience"
)

// FetchError wraps any failure to obtain or decode an upstream GeoJSON
// document. The API maps it to 502 Bad Gateway.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch geojson from %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SourceConfig configures an upstream GeoJSON source.
type SourceConfig struct {
	// URL of the GeoJSON document.
	URL string

	// CacheTTL is how long a fetched document is served from memory.
	// Default: 15m.
	CacheTTL time.Duration

	// MaxBytes caps the response body size. Default: 10 MiB.
	MaxBytes int64

	// Client is the resilient HTTP client. A default one is created when nil.
	Client *resilience.Client

	Logger  zerolog.Logger
	Metrics *observability.Metrics
}

// Source fetches a GeoJSON FeatureCollection over HTTP with retry, circuit
// breaking and an in-process TTL cache. The cache holds raw bytes so every
// caller decodes into a fresh collection it can annotate freely.
type Source struct {
	url      string
	maxBytes int64
	client   *resilience.Client
	cache    *otter.Cache[string, []byte]
	logger   zerolog.Logger
	metrics  *observability.Metrics
}

// NewSource creates a Source, applying defaults for zero-valued fields.
func NewSource(cfg SourceConfig) *Source {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 << 20
	}
	if cfg.Client == nil {
		cfg.Client = resilience.NewClient(resilience.ClientConfig{Name: "geojson-source"})
	}

	cache := otter.Must(&otter.Options[string, []byte]{
		MaximumSize:      4,
		ExpiryCalculator: otter.ExpiryWriting[string, []byte](cfg.CacheTTL),
	})

	return &Source{
		url:      cfg.URL,
		maxBytes: cfg.MaxBytes,
		client:   cfg.Client,
		cache:    cache,
		logger:   cfg.Logger.With().Str("component", "geojson_source").Logger(),
		metrics:  cfg.Metrics,
	}
}

// Fetch returns the upstream FeatureCollection, from cache when fresh. The
// returned collection is decoded per call and safe for the caller to mutate.
func (s *Source) Fetch(ctx context.Context) (*geojson.FeatureCollection, error) {
	if raw, ok := s.cache.GetIfPresent(s.url); ok {
		s.metrics.SourceCacheLookup.WithLabelValues("hit").Inc()
		return decodeCollection(s.url, raw)
	}
	s.metrics.SourceCacheLookup.WithLabelValues("miss").Inc()

	raw, err := s.fetchRaw(ctx)
	if err != nil {
		s.metrics.SourceFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.SourceFetches.WithLabelValues("success").Inc()

	fc, err := decodeCollection(s.url, raw)
	if err != nil {
		return nil, err
	}

	s.cache.Set(s.url, raw)
	return fc, nil
}

func (s *Source) fetchRaw(ctx context.Context) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Msg("upstream geojson fetch failed")
		return nil, &FetchError{URL: s.url, Err: err}
	}
	defer resp.Body.Close()

	s.metrics.SourceFetchTime.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: s.url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: s.url, Err: err}
	}
	if int64(len(raw)) > s.maxBytes {
		return nil, &FetchError{URL: s.url, Err: fmt.Errorf("response exceeds %d bytes", s.maxBytes)}
	}

	s.logger.Debug().Int("bytes", len(raw)).Dur("elapsed", time.Since(start)).Msg("fetched upstream geojson")
	return raw, nil
}

func decodeCollection(url string, raw []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("decode feature collection: %w", err)}
	}
	return fc, nil
}

// Invalidate drops the cached document so the next Fetch hits the upstream.
func (s *Source) Invalidate() {
	s.cache.Invalidate(s.url)
}
