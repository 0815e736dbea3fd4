package models

import (
	"github.com/paulmach/orb/geojson"

	"github.com/globalratings/ratingmap/internal/demo"
)

// Frame is one date's view of the map collection.
type Frame struct {
	Date       string                     `json:"date"`
	Collection *geojson.FeatureCollection `json:"collection"`
}

// StreamFrame is one playback tick on the frame stream.
type StreamFrame struct {
	Date  string     `json:"date"`
	Stats demo.Stats `json:"stats"`
}
