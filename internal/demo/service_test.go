package demo

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalratings/ratingmap/internal/geo"
)

type staticFetcher struct {
	fc  *geojson.FeatureCollection
	err error
}

func (s staticFetcher) Fetch(context.Context) (*geojson.FeatureCollection, error) {
	return s.fc, s.err
}

// freshFetcher decodes to a new collection on every call, like the real
// source does.
type freshFetcher struct{}

func (freshFetcher) Fetch(context.Context) (*geojson.FeatureCollection, error) {
	return worldCollection(), nil
}

func pointFeature(props geojson.Properties) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{10, 20})
	f.Properties = props
	return f
}

func worldCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(geojson.Properties{"ISO_A2": "US", "REGION_UN": "Americas"}))
	fc.Append(pointFeature(geojson.Properties{"ISO_A2": "XK", "REGION_UN": "Europe"}))
	fc.Append(pointFeature(geojson.Properties{"iso_a2": "GB", "CONTINENT": "Europe"}))
	return fc
}

func frozenClock() clockwork.Clock {
	return clockwork.NewFakeClockAt(time.Date(2025, 4, 30, 12, 0, 0, 0, time.UTC))
}

func TestCountries_EnrichesEveryFeature(t *testing.T) {
	svc := NewService(ServiceConfig{
		Countries: staticFetcher{fc: worldCollection()},
		Days:      10,
		Clock:     frozenClock(),
		Logger:    zerolog.Nop(),
	})

	ds, err := svc.Countries(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, ds.Dates, 10)
	assert.Equal(t, "2025-04-21", ds.Dates[0])
	assert.Equal(t, "2025-04-30", ds.Dates[9])

	for _, f := range ds.Collection.Features {
		series, ok := f.Properties["timeSeriesData"].(map[string]float64)
		require.True(t, ok)
		require.Len(t, series, 10)
		for _, v := range series {
			assert.GreaterOrEqual(t, v, geo.MinRating)
			assert.LessOrEqual(t, v, geo.MaxRating)
		}
		assert.Equal(t, series[ds.Dates[0]], f.Properties["rating"])
	}
}

func TestCountries_HighlightsKnownCodesOnly(t *testing.T) {
	svc := NewService(ServiceConfig{
		Countries: staticFetcher{fc: worldCollection()},
		Clock:     frozenClock(),
		Logger:    zerolog.Nop(),
	})

	ds, err := svc.Countries(context.Background(), 5)
	require.NoError(t, err)

	byCode := map[string]*geojson.Feature{}
	for _, f := range ds.Collection.Features {
		byCode[stringProp(f, "ISO_A2", "iso_a2")] = f
	}

	assert.Equal(t, true, byCode["US"].Properties["highlighted"])
	assert.Equal(t, true, byCode["GB"].Properties["highlighted"], "lowercase code property is honored")
	assert.Equal(t, false, byCode["XK"].Properties["highlighted"])

	// Non-highlighted European features draw from the Europe range.
	series := byCode["XK"].Properties["timeSeriesData"].(map[string]float64)
	first := series[ds.Dates[0]]
	assert.GreaterOrEqual(t, first, 3.3-0.001)
	assert.LessOrEqual(t, first, 4.5+0.001)
}

func TestCountries_SeriesStableAcrossRequests(t *testing.T) {
	svc := NewService(ServiceConfig{
		Countries: freshFetcher{},
		Clock:     frozenClock(),
		Logger:    zerolog.Nop(),
	})

	first, err := svc.Countries(context.Background(), 10)
	require.NoError(t, err)
	second, err := svc.Countries(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, second.Collection.Features, len(first.Collection.Features))
	for i, f := range first.Collection.Features {
		g := second.Collection.Features[i]
		assert.Equal(t, f.Properties["timeSeriesData"], g.Properties["timeSeriesData"])
		assert.Equal(t, f.Properties["highlighted"], g.Properties["highlighted"])
		assert.Equal(t, f.Properties["rating"], g.Properties["rating"])
	}
}

func TestCountries_RegeneratesWhenCollectionChanges(t *testing.T) {
	svc := NewService(ServiceConfig{
		Countries: staticFetcher{fc: worldCollection()},
		Clock:     frozenClock(),
		Logger:    zerolog.Nop(),
	})

	_, err := svc.Countries(context.Background(), 10)
	require.NoError(t, err)

	// A different request window is a separate generation run.
	ds, err := svc.Countries(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, ds.Dates, 5)
	for _, f := range ds.Collection.Features {
		series := f.Properties["timeSeriesData"].(map[string]float64)
		assert.Len(t, series, 5)
	}
}

func TestCountries_BoundsFromGeometry(t *testing.T) {
	svc := NewService(ServiceConfig{
		Countries: staticFetcher{fc: worldCollection()},
		Clock:     frozenClock(),
		Logger:    zerolog.Nop(),
	})

	ds, err := svc.Countries(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, ds.Bounds)
	assert.Equal(t, 20.0, ds.Bounds.MinLat)
	assert.Equal(t, 10.0, ds.Bounds.MinLng)
}

func TestCountries_PropagatesFetchError(t *testing.T) {
	svc := NewService(ServiceConfig{
		Countries: staticFetcher{err: &FetchError{URL: "http://example"}},
		Logger:    zerolog.Nop(),
	})

	_, err := svc.Countries(context.Background(), 5)
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestNeighborhoods_AssignsZonesRoundRobin(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	for range 6 {
		fc.Append(pointFeature(geojson.Properties{"name": "district"}))
	}

	svc := NewService(ServiceConfig{
		Countries:     staticFetcher{fc: worldCollection()},
		Neighborhoods: staticFetcher{fc: fc},
		Clock:         frozenClock(),
		Logger:        zerolog.Nop(),
	})

	ds, err := svc.Neighborhoods(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, ds.Collection.Features, 6)

	assert.Equal(t, "Northern Europe", ds.Collection.Features[0].Properties["zone"])
	assert.Equal(t, "Western Europe", ds.Collection.Features[1].Properties["zone"])
	assert.Equal(t, "Northern Europe", ds.Collection.Features[4].Properties["zone"], "wraps after four zones")

	for _, f := range ds.Collection.Features {
		series := f.Properties["timeSeriesData"].(map[string]float64)
		require.Len(t, series, 7)
		assert.Equal(t, false, f.Properties["highlighted"])
	}
}

func TestNeighborhoods_UnconfiguredSource(t *testing.T) {
	svc := NewService(ServiceConfig{
		Countries: staticFetcher{fc: worldCollection()},
		Logger:    zerolog.Nop(),
	})

	_, err := svc.Neighborhoods(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNoNeighborhoodSource)
}
