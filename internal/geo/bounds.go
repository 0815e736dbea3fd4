// Package geo provides geometry and calendar utilities for the rating map:
// bounding-box computation over GeoJSON feature collections, date-key ranges,
// and synthetic rating series generation.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Bounds is an axis-aligned lat/lng bounding box with a precomputed center.
// Center is [lng, lat] to match GeoJSON coordinate order.
type Bounds struct {
	MinLat float64    `json:"minLat"`
	MaxLat float64    `json:"maxLat"`
	MinLng float64    `json:"minLng"`
	MaxLng float64    `json:"maxLng"`
	Center [2]float64 `json:"center"`
}

// Valid reports whether the bounds cover at least one coordinate.
// An empty feature collection produces inverted infinite bounds; callers
// must check Valid before deriving a viewport from them.
func (b Bounds) Valid() bool {
	return b.MinLat <= b.MaxLat && b.MinLng <= b.MaxLng
}

// CalculateBounds walks every geometry in the collection, including nested
// GeometryCollections, and returns the bounding box over all coordinates.
// Features with no geometry contribute nothing.
func CalculateBounds(fc *geojson.FeatureCollection) Bounds {
	b := Bounds{
		MinLat: math.Inf(1),
		MaxLat: math.Inf(-1),
		MinLng: math.Inf(1),
		MaxLng: math.Inf(-1),
	}

	if fc != nil {
		for _, f := range fc.Features {
			if f == nil || f.Geometry == nil {
				continue
			}
			eachPoint(f.Geometry, func(p orb.Point) {
				b.MinLng = math.Min(b.MinLng, p.Lon())
				b.MaxLng = math.Max(b.MaxLng, p.Lon())
				b.MinLat = math.Min(b.MinLat, p.Lat())
				b.MaxLat = math.Max(b.MaxLat, p.Lat())
			})
		}
	}

	b.Center = [2]float64{(b.MinLng + b.MaxLng) / 2, (b.MinLat + b.MaxLat) / 2}
	return b
}

// eachPoint recursively visits every coordinate pair reachable from g.
// Unknown geometry variants are skipped rather than treated as errors.
func eachPoint(g orb.Geometry, fn func(orb.Point)) {
	switch g := g.(type) {
	case orb.Point:
		fn(g)
	case orb.MultiPoint:
		for _, p := range g {
			fn(p)
		}
	case orb.LineString:
		for _, p := range g {
			fn(p)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			eachPoint(ls, fn)
		}
	case orb.Ring:
		for _, p := range g {
			fn(p)
		}
	case orb.Polygon:
		for _, r := range g {
			eachPoint(r, fn)
		}
	case orb.MultiPolygon:
		for _, p := range g {
			eachPoint(p, fn)
		}
	case orb.Collection:
		for _, child := range g {
			eachPoint(child, fn)
		}
	case orb.Bound:
		fn(g.Min)
		fn(g.Max)
	}
}
