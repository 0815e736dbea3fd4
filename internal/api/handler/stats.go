package handler

import (
	"net/http"

	"github.com/globalratings/ratingmap/internal/api/models"
	"github.com/globalratings/ratingmap/internal/api/response"
	"github.com/globalratings/ratingmap/internal/demo"
	"github.com/globalratings/ratingmap/internal/ratings"
)

// StatsHandler serves the sidebar statistics for a date.
type StatsHandler struct {
	service *demo.Service
	store   *ratings.SessionStore
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(service *demo.Service, store *ratings.SessionStore) *StatsHandler {
	return &StatsHandler{service: service, store: store}
}

// GetStats handles GET /v1/stats - review totals, per-region averages and
// the star distribution for one date. Query parameters:
//
//	date:   YYYY-MM-DD, defaults to the most recent date in the series
//	upload: apply a validated upload's data instead of the synthetic series
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	override, ok := overrideFromQuery(w, r, h.store)
	if !ok {
		return
	}

	ds, err := h.service.Countries(r.Context(), 0)
	if err != nil {
		writeDatasetError(w, r, err)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = ds.Dates[len(ds.Dates)-1]
	} else if !ratings.IsDateKey(date) {
		response.BadRequest(w, r, "invalid query parameter", []models.FieldError{
			{Field: "date", Message: "must be formatted as YYYY-MM-DD", Code: "INVALID_FORMAT"},
		})
		return
	}

	stats := demo.ComputeStats(ds.Collection, date, override)
	response.JSON(w, r, http.StatusOK, stats)
}

// overrideFromQuery resolves the optional "upload" query parameter into an
// override dataset. On failure it writes the error response and returns
// ok=false.
func overrideFromQuery(w http.ResponseWriter, r *http.Request, store *ratings.SessionStore) (ratings.OverrideDataset, bool) {
	uploadID := r.URL.Query().Get("upload")
	if uploadID == "" {
		return nil, true
	}
	upload, ok := store.Get(uploadID)
	if !ok {
		response.NotFound(w, r, "upload not found or expired")
		return nil, false
	}
	return upload.Aggregate(), true
}
