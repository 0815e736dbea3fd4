// Package observability holds the Prometheus instruments for the rating-map
// domain: upload pipeline counters and upstream GeoJSON source counters.
// HTTP-level metrics are recorded separately by the OpenTelemetry middleware.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the service.
type Metrics struct {
	UploadsValidated prometheus.Counter
	UploadsRejected  *prometheus.CounterVec // labels: stage={parse,schema,empty}
	UploadsApplied   prometheus.Counter
	RowsValid        prometheus.Counter
	RowsIgnored      *prometheus.CounterVec // labels: reason (per-row ignore reason)
	UploadRows       prometheus.Histogram

	SourceFetches     *prometheus.CounterVec // labels: outcome={success,error}
	SourceCacheLookup *prometheus.CounterVec // labels: result={hit,miss}
	SourceFetchTime   prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		UploadsValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratingmap",
			Name:      "uploads_validated_total",
			Help:      "Uploads that passed structural and schema validation.",
		}),
		UploadsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratingmap",
			Name:      "uploads_rejected_total",
			Help:      "Uploads rejected before row validation, by failing stage.",
		}, []string{"stage"}),
		UploadsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratingmap",
			Name:      "uploads_applied_total",
			Help:      "Validated uploads aggregated into an override dataset.",
		}),
		RowsValid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ratingmap",
			Name:      "rows_valid_total",
			Help:      "CSV data rows that passed every validation check.",
		}),
		RowsIgnored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratingmap",
			Name:      "rows_ignored_total",
			Help:      "CSV data rows excluded from aggregation, by reason.",
		}, []string{"reason"}),
		UploadRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ratingmap",
			Name:      "upload_rows",
			Help:      "Data rows per validated upload.",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratingmap",
			Name:      "source_fetches_total",
			Help:      "Upstream GeoJSON fetches by outcome.",
		}, []string{"outcome"}),
		SourceCacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ratingmap",
			Name:      "source_cache_lookups_total",
			Help:      "GeoJSON source cache lookups by result.",
		}, []string{"result"}),
		SourceFetchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ratingmap",
			Name:      "source_fetch_duration_seconds",
			Help:      "Duration of upstream GeoJSON fetches including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// NewMetrics creates the service metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.UploadsValidated,
		m.UploadsRejected,
		m.UploadsApplied,
		m.RowsValid,
		m.RowsIgnored,
		m.UploadRows,
		m.SourceFetches,
		m.SourceCacheLookup,
		m.SourceFetchTime,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when multiple tests construct the service.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
