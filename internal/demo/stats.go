package demo

import (
	"math"
	"math/rand/v2"

	"github.com/paulmach/orb/geojson"

	"github.com/globalratings/ratingmap/internal/ratings"
)

// RegionStat is the average rating for one sidebar region.
type RegionStat struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// StarDistribution buckets features by their rating for the selected date.
type StarDistribution struct {
	OneStar    int `json:"oneStar"`
	TwoStars   int `json:"twoStars"`
	ThreeStars int `json:"threeStars"`
	FourStars  int `json:"fourStars"`
	FiveStars  int `json:"fiveStars"`
}

// Stats is the sidebar summary for one date.
type Stats struct {
	TotalReviews        int              `json:"totalReviews"`
	RegionStats         []RegionStat     `json:"regionStats"`
	StarDistribution    StarDistribution `json:"starDistribution"`
	GlobalAverageRating float64          `json:"globalAverageRating"`
}

// ComputeStats summarizes the collection for the selected date. With an
// override dataset each covered feature counts as a single review and uses
// the uploaded daily rating; otherwise the synthetic series value is used
// and a random review count in [1000, 11000) stands in per feature. Features
// resolving to a zero rating are excluded entirely, matching the map layer's
// treatment of missing data.
func ComputeStats(fc *geojson.FeatureCollection, date string, override ratings.OverrideDataset) Stats {
	var forDate map[string]ratings.RegionRating
	if override != nil {
		forDate = override[date]
	}

	totalReviews := 0
	totalRating := 0.0
	rated := 0

	type regionAccum struct {
		total float64
		count int
	}
	regions := make(map[string]*regionAccum, len(sidebarRegions))
	for _, name := range sidebarRegions {
		regions[name] = &regionAccum{}
	}

	var stars StarDistribution

	if fc != nil {
		for _, f := range fc.Features {
			if f == nil || f.Properties == nil {
				continue
			}

			code := stringProp(f, "ISO_A2", "iso_a2")

			var rating float64
			if entry, ok := forDate[regionKey(f)]; ok {
				rating = entry.DailyRating
				totalReviews++
			} else {
				rating = seriesValue(f, date)
				totalReviews += 1000 + rand.IntN(10000)
			}

			if rating == 0 {
				continue
			}

			totalRating += rating
			rated++

			if name, ok := countryToRegion[code]; ok {
				regions[name].total += rating
				regions[name].count++
			}

			switch {
			case rating >= 4.5:
				stars.FiveStars++
			case rating >= 3.5:
				stars.FourStars++
			case rating >= 2.5:
				stars.ThreeStars++
			case rating >= 1.5:
				stars.TwoStars++
			default:
				stars.OneStar++
			}
		}
	}

	globalAverage := 0.0
	if rated > 0 {
		globalAverage = totalRating / float64(rated)
	}

	regionStats := make([]RegionStat, 0, len(sidebarRegions))
	for _, name := range sidebarRegions {
		acc := regions[name]
		rating := 0.0
		if acc.count > 0 {
			rating = acc.total / float64(acc.count)
		}
		regionStats = append(regionStats, RegionStat{Name: name, Rating: rating})
	}

	// Scale the per-feature buckets up to the review volume so the
	// distribution reads in the same units as totalReviews.
	if starTotal := stars.OneStar + stars.TwoStars + stars.ThreeStars + stars.FourStars + stars.FiveStars; starTotal > 0 {
		scale := int(math.Ceil(float64(totalReviews) / float64(starTotal)))
		stars.OneStar *= scale
		stars.TwoStars *= scale
		stars.ThreeStars *= scale
		stars.FourStars *= scale
		stars.FiveStars *= scale
	}

	return Stats{
		TotalReviews:        totalReviews,
		RegionStats:         regionStats,
		StarDistribution:    stars,
		GlobalAverageRating: globalAverage,
	}
}
