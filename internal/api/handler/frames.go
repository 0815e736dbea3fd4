package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/globalratings/ratingmap/internal/api/middleware"
	"github.com/globalratings/ratingmap/internal/api/models"
	"github.com/globalratings/ratingmap/internal/api/response"
	"github.com/globalratings/ratingmap/internal/demo"
	"github.com/globalratings/ratingmap/internal/playback"
	"github.com/globalratings/ratingmap/internal/ratings"
)

// streamIntervals are the playback speeds a client may request.
var streamIntervals = map[string]time.Duration{
	"1s":  time.Second,
	"5s":  5 * time.Second,
	"10s": 10 * time.Second,
}

const defaultStreamInterval = 5 * time.Second

// FrameHandler serves single frames and the playback stream.
type FrameHandler struct {
	service *demo.Service
	store   *ratings.SessionStore
	logger  zerolog.Logger
}

// NewFrameHandler creates a new FrameHandler.
func NewFrameHandler(service *demo.Service, store *ratings.SessionStore, logger zerolog.Logger) *FrameHandler {
	return &FrameHandler{service: service, store: store, logger: logger}
}

// GetFrame handles GET /v1/geojson/frame - the countries collection with
// every feature's rating, highlight and tooltip recomputed for the date in
// the "date" query parameter. The optional "upload" query parameter applies
// a validated upload's data.
func (h *FrameHandler) GetFrame(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if !ratings.IsDateKey(date) {
		response.BadRequest(w, r, "invalid date", []models.FieldError{
			{Field: "date", Message: "must be formatted as YYYY-MM-DD", Code: "INVALID_FORMAT"},
		})
		return
	}

	override, ok := overrideFromQuery(w, r, h.store)
	if !ok {
		return
	}

	ds, err := h.service.Countries(r.Context(), 0)
	if err != nil {
		writeDatasetError(w, r, err)
		return
	}

	demo.ApplyFrame(ds.Collection, date, override)
	response.JSON(w, r, http.StatusOK, models.Frame{Date: date, Collection: ds.Collection})
}

// StreamFrames handles GET /v1/frames/stream - newline-delimited JSON, one
// frame summary per playback tick, looping over the date range until the
// client disconnects. Query parameters:
//
//	interval: "1s", "5s" or "10s", default "5s"
//	upload:   play back a validated upload's dates instead of the demo range
func (h *FrameHandler) StreamFrames(w http.ResponseWriter, r *http.Request) {
	interval := defaultStreamInterval
	if raw := r.URL.Query().Get("interval"); raw != "" {
		parsed, ok := streamIntervals[raw]
		if !ok {
			response.BadRequest(w, r, "invalid query parameter", []models.FieldError{
				{Field: "interval", Message: "must be one of: 1s, 5s, 10s", Code: "INVALID_VALUE"},
			})
			return
		}
		interval = parsed
	}

	override, ok := overrideFromQuery(w, r, h.store)
	if !ok {
		return
	}

	ds, err := h.service.Countries(r.Context(), 0)
	if err != nil {
		writeDatasetError(w, r, err)
		return
	}

	dates := ds.Dates
	if override != nil {
		dates = override.Dates()
	}

	ctrl := playback.New(dates, playback.WithLogger(h.logger))
	defer ctrl.Close()

	frames, err := ctrl.Start(interval)
	if err != nil {
		response.UnprocessableUpload(w, r, "no dates available for playback")
		return
	}

	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)
	writeFrame := func(date string) bool {
		frame := models.StreamFrame{
			Date:  date,
			Stats: demo.ComputeStats(ds.Collection, date, override),
		}
		if err := enc.Encode(frame); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	// First frame goes out immediately; the ticker drives the rest.
	if !writeFrame(ctrl.Current()) {
		return
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case date, open := <-frames:
			if !open {
				return
			}
			if !writeFrame(date) {
				return
			}
		}
	}
}
