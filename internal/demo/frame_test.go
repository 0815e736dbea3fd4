package demo

import (
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalratings/ratingmap/internal/ratings"
)

func enrichedFeature(code string, highlighted bool, series map[string]float64) *geojson.Feature {
	f := pointFeature(geojson.Properties{
		"ISO_A2":         code,
		"highlighted":    highlighted,
		"rating":         series["2025-04-01"],
		"timeSeriesData": series,
	})
	return f
}

func TestApplyFrame_UsesSeriesValueWithoutOverride(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(enrichedFeature("US", true, map[string]float64{
		"2025-04-01": 4.1,
		"2025-04-02": 3.9,
	}))

	ApplyFrame(fc, "2025-04-02", nil)

	props := fc.Features[0].Properties
	assert.Equal(t, 3.9, props["rating"])
	assert.Equal(t, true, props["highlighted"])
	_, hasTooltip := props["tooltipData"]
	assert.False(t, hasTooltip)
}

func TestApplyFrame_OverrideWinsAndAttachesTooltip(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(enrichedFeature("US", false, map[string]float64{"2025-04-01": 4.1}))

	override := ratings.OverrideDataset{
		"2025-04-01": {
			"US": {PackageName: "com.example.app", DailyRating: 2.5, TotalRating: 3.0, Highlighted: true},
		},
	}

	ApplyFrame(fc, "2025-04-01", override)

	props := fc.Features[0].Properties
	assert.Equal(t, 2.5, props["rating"])
	assert.Equal(t, true, props["highlighted"])

	tooltip, ok := props["tooltipData"].(*Tooltip)
	require.True(t, ok)
	assert.Equal(t, "com.example.app", tooltip.PackageName)
	assert.Equal(t, 2.5, tooltip.DailyRating)
	assert.Equal(t, 3.0, tooltip.TotalRating)
}

func TestApplyFrame_OverrideOnOtherDateDoesNotApply(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(enrichedFeature("US", false, map[string]float64{
		"2025-04-01": 4.1,
		"2025-04-02": 4.3,
	}))

	override := ratings.OverrideDataset{
		"2025-04-01": {
			"US": {PackageName: "app", DailyRating: 2.5, TotalRating: 3.0, Highlighted: true},
		},
	}

	ApplyFrame(fc, "2025-04-02", override)

	props := fc.Features[0].Properties
	assert.Equal(t, 4.3, props["rating"])
	assert.Equal(t, false, props["highlighted"])
}

func TestApplyFrame_ClearsStaleTooltip(t *testing.T) {
	f := enrichedFeature("US", false, map[string]float64{"2025-04-01": 4.1})
	f.Properties["tooltipData"] = &Tooltip{PackageName: "stale"}

	fc := geojson.NewFeatureCollection()
	fc.Append(f)

	ApplyFrame(fc, "2025-04-01", nil)

	_, hasTooltip := fc.Features[0].Properties["tooltipData"]
	assert.False(t, hasTooltip)
}

func TestApplyFrame_FallsBackToRatingProperty(t *testing.T) {
	// No series entry for the date: the last written rating stands.
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(geojson.Properties{"ISO_A2": "US", "rating": 3.3}))

	ApplyFrame(fc, "2025-04-09", nil)

	assert.Equal(t, 3.3, fc.Features[0].Properties["rating"])
}

func TestApplyFrame_NeighborhoodKeyedByName(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(pointFeature(geojson.Properties{
		"name":           "Old Town",
		"timeSeriesData": map[string]float64{"2025-04-01": 4.0},
	}))

	override := ratings.OverrideDataset{
		"2025-04-01": {
			"Old Town": {PackageName: "app", DailyRating: 1.5, TotalRating: 2.0, Highlighted: true},
		},
	}

	ApplyFrame(fc, "2025-04-01", override)

	assert.Equal(t, 1.5, fc.Features[0].Properties["rating"])
}
