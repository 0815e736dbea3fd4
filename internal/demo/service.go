// Package demo produces the enriched demo datasets behind the map: world
// countries and neighborhoods, each annotated with a synthetic rating series
// per feature, plus the per-date frame and sidebar statistics derived from
// them.
package demo

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/maypok86/otter/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"github.com/globalratings/ratingmap/internal/geo"
)

// ErrNoNeighborhoodSource is returned when the neighborhood dataset is
// requested but no source URL was configured.
var ErrNoNeighborhoodSource = errors.New("no neighborhood source configured")

const (
	defaultBaseRating = 3.8

	defaultEnrichmentTTL = 15 * time.Minute
)

// CollectionFetcher supplies a raw FeatureCollection. Satisfied by *Source.
type CollectionFetcher interface {
	Fetch(ctx context.Context) (*geojson.FeatureCollection, error)
}

// ZoneAssigner names the zone for a neighborhood feature. The default cycles
// through the four sidebar regions by feature index; swap it out once real
// zone data exists.
type ZoneAssigner func(index int, f *geojson.Feature) string

func defaultZoneAssigner(index int, _ *geojson.Feature) string {
	return sidebarRegions[index%len(sidebarRegions)]
}

// Dataset is an enriched FeatureCollection ready for the map layer.
type Dataset struct {
	Collection *geojson.FeatureCollection `json:"collection"`
	Dates      []string                   `json:"dates"`
	Bounds     *geo.Bounds                `json:"bounds,omitempty"`
}

// ServiceConfig configures the demo data service.
type ServiceConfig struct {
	// Countries supplies the world countries collection. Required.
	Countries CollectionFetcher

	// Neighborhoods supplies the neighborhood collection. Optional; when nil
	// the neighborhood dataset is unavailable.
	Neighborhoods CollectionFetcher

	// Days is the length of each generated series. Default: 30.
	Days int

	// Zones assigns neighborhood zones. Default: index mod 4 over the
	// sidebar regions.
	Zones ZoneAssigner

	// EnrichmentTTL is how long generated series and highlight flags are
	// reused across requests before a fresh set is drawn. Default: 15m.
	EnrichmentTTL time.Duration

	// Clock drives date-range generation. Default: the real clock.
	Clock clockwork.Clock

	Logger zerolog.Logger
}

// featureSeries is the generated state for one feature, positional with the
// fetched collection.
type featureSeries struct {
	series      map[string]float64
	highlighted bool
	zone        string
}

// enrichment holds one generation run. Series maps are shared read-only with
// every response built from the run; frame recomputation only ever replaces
// top-level feature properties.
type enrichment struct {
	dates []string
	feats []featureSeries
}

// Service builds the enriched demo datasets. Series are generated once per
// dataset and reused until the enrichment TTL lapses, so repeated frame and
// stats requests see the same data.
type Service struct {
	countries     CollectionFetcher
	neighborhoods CollectionFetcher
	days          int
	zones         ZoneAssigner
	clock         clockwork.Clock
	cache         *otter.Cache[string, *enrichment]
	logger        zerolog.Logger
}

// NewService creates a Service, applying defaults for zero-valued fields.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	if cfg.Zones == nil {
		cfg.Zones = defaultZoneAssigner
	}
	if cfg.EnrichmentTTL <= 0 {
		cfg.EnrichmentTTL = defaultEnrichmentTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	cache := otter.Must(&otter.Options[string, *enrichment]{
		MaximumSize:      16,
		ExpiryCalculator: otter.ExpiryWriting[string, *enrichment](cfg.EnrichmentTTL),
	})
	return &Service{
		countries:     cfg.Countries,
		neighborhoods: cfg.Neighborhoods,
		days:          cfg.Days,
		zones:         cfg.Zones,
		clock:         cfg.Clock,
		cache:         cache,
		logger:        cfg.Logger.With().Str("component", "demo").Logger(),
	}
}

// Countries fetches the world collection and annotates every feature with
// rating, highlighted and timeSeriesData properties. Highlighted countries
// use their fixed base rating; everything else draws a random base from its
// region's range. days <= 0 falls back to the configured default.
func (s *Service) Countries(ctx context.Context, days int) (*Dataset, error) {
	if days <= 0 {
		days = s.days
	}

	fc, err := s.countries.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	enr := s.enrichmentFor(fmt.Sprintf("countries:%d", days), fc, days, s.enrichCountries)
	annotate(fc, enr, false)
	return s.dataset(fc, enr.dates), nil
}

// Neighborhoods fetches the neighborhood collection and annotates it with
// seasonal-noise series, a base rating drawn uniformly from [3, 5] per
// feature, and a zone per the configured assigner.
func (s *Service) Neighborhoods(ctx context.Context, days int) (*Dataset, error) {
	if s.neighborhoods == nil {
		return nil, ErrNoNeighborhoodSource
	}
	if days <= 0 {
		days = s.days
	}

	fc, err := s.neighborhoods.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	enr := s.enrichmentFor(fmt.Sprintf("neighborhoods:%d", days), fc, days, s.enrichNeighborhoods)
	annotate(fc, enr, true)
	return s.dataset(fc, enr.dates), nil
}

// enrichmentFor returns the cached generation run for key, regenerating when
// none is cached or the fetched collection changed shape underneath it.
func (s *Service) enrichmentFor(key string, fc *geojson.FeatureCollection, days int, generate func(*geojson.FeatureCollection, int) *enrichment) *enrichment {
	if enr, ok := s.cache.GetIfPresent(key); ok && len(enr.feats) == len(fc.Features) {
		return enr
	}
	enr := generate(fc, days)
	s.cache.Set(key, enr)
	return enr
}

func (s *Service) enrichCountries(fc *geojson.FeatureCollection, days int) *enrichment {
	dates := geo.DateRange(s.clock, days)
	walk := geo.RandomWalk{}
	feats := make([]featureSeries, len(fc.Features))

	for i, f := range fc.Features {
		if f == nil {
			continue
		}

		base := defaultBaseRating
		highlighted := false
		if code := stringProp(f, "ISO_A2", "iso_a2"); code != "" {
			if profile, ok := highlightedCountries[code]; ok {
				base = profile.BaseRating
				highlighted = true
			}
		}
		if !highlighted {
			region := stringProp(f, "REGION_UN", "CONTINENT")
			r := regionRatingRange(region)
			base = r.Min + rand.Float64()*(r.Max-r.Min)
		}

		feats[i] = featureSeries{series: walk.Generate(base, dates), highlighted: highlighted}
	}

	return &enrichment{dates: dates, feats: feats}
}

func (s *Service) enrichNeighborhoods(fc *geojson.FeatureCollection, days int) *enrichment {
	dates := geo.DateRange(s.clock, days)
	noise := geo.SeasonalNoise{}
	feats := make([]featureSeries, len(fc.Features))

	for i, f := range fc.Features {
		if f == nil {
			continue
		}
		base := 3.0 + rand.Float64()*2.0
		feats[i] = featureSeries{series: noise.Generate(base, dates), zone: s.zones(i, f)}
	}

	return &enrichment{dates: dates, feats: feats}
}

// annotate copies the generated state onto the freshly fetched features.
func annotate(fc *geojson.FeatureCollection, enr *enrichment, withZone bool) {
	for i, f := range fc.Features {
		if f == nil {
			continue
		}
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}

		fs := enr.feats[i]
		f.Properties["rating"] = fs.series[enr.dates[0]]
		f.Properties["highlighted"] = fs.highlighted
		f.Properties["timeSeriesData"] = fs.series
		if withZone {
			f.Properties["zone"] = fs.zone
		}
	}
}

func (s *Service) dataset(fc *geojson.FeatureCollection, dates []string) *Dataset {
	ds := &Dataset{Collection: fc, Dates: dates}
	if b := geo.CalculateBounds(fc); b.Valid() {
		ds.Bounds = &b
	}
	return ds
}

// stringProp returns the first non-empty string property among keys.
func stringProp(f *geojson.Feature, keys ...string) string {
	for _, k := range keys {
		if v, ok := f.Properties[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
