package demo

import (
	"github.com/paulmach/orb/geojson"

	"github.com/globalratings/ratingmap/internal/ratings"
)

// Tooltip is the extra per-feature detail shown when uploaded data covers
// the feature on the selected date.
type Tooltip struct {
	PackageName string  `json:"packageName"`
	DailyRating float64 `json:"dailyRating"`
	TotalRating float64 `json:"totalRating"`
}

// ApplyFrame rewrites each feature's rating, highlighted and tooltipData
// properties for the selected date. When the override dataset covers the
// feature on that date its rating wins, the feature is highlighted and a
// tooltip is attached; otherwise the synthetic series value is used and any
// previous tooltip is cleared.
func ApplyFrame(fc *geojson.FeatureCollection, date string, override ratings.OverrideDataset) {
	if fc == nil {
		return
	}

	var forDate map[string]ratings.RegionRating
	if override != nil {
		forDate = override[date]
	}

	for _, f := range fc.Features {
		if f == nil || f.Properties == nil {
			continue
		}

		rating := seriesValue(f, date)
		highlighted, _ := f.Properties["highlighted"].(bool)
		var tooltip *Tooltip

		if entry, ok := forDate[regionKey(f)]; ok {
			rating = entry.DailyRating
			highlighted = true
			tooltip = &Tooltip{
				PackageName: entry.PackageName,
				DailyRating: entry.DailyRating,
				TotalRating: entry.TotalRating,
			}
		}

		f.Properties["rating"] = rating
		f.Properties["highlighted"] = highlighted
		if tooltip != nil {
			f.Properties["tooltipData"] = tooltip
		} else {
			delete(f.Properties, "tooltipData")
		}
	}
}

// regionKey identifies a feature for override lookup: the ISO country code
// for the world dataset, the name field for neighborhoods.
func regionKey(f *geojson.Feature) string {
	return stringProp(f, "ISO_A2", "iso_a2", "name", "NAME")
}

// seriesValue returns the feature's synthetic rating for date, falling back
// to the current rating property when the series has no entry.
func seriesValue(f *geojson.Feature, date string) float64 {
	if series, ok := f.Properties["timeSeriesData"].(map[string]float64); ok {
		if v, ok := series[date]; ok {
			return v
		}
	}
	if v, ok := f.Properties["rating"].(float64); ok {
		return v
	}
	return 0
}
