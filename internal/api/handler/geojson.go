package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/globalratings/ratingmap/internal/api/models"
	"github.com/globalratings/ratingmap/internal/api/response"
	"github.com/globalratings/ratingmap/internal/demo"
	"github.com/globalratings/ratingmap/internal/resilience"
)

// GeoJSONHandler serves the enriched demo datasets.
type GeoJSONHandler struct {
	service *demo.Service
}

// NewGeoJSONHandler creates a new GeoJSONHandler.
func NewGeoJSONHandler(service *demo.Service) *GeoJSONHandler {
	return &GeoJSONHandler{service: service}
}

// GetDataset handles GET /v1/geojson - the enriched FeatureCollection with
// synthetic rating series, dates and bounds. Query parameters:
//
//	dataset: "countries" (default) or "neighborhoods"
//	days:    series length, positive integer
func (h *GeoJSONHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	dataset := r.URL.Query().Get("dataset")
	if dataset == "" {
		dataset = "countries"
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, r, "invalid query parameter", []models.FieldError{
				{Field: "days", Message: "must be a positive integer", Code: "OUT_OF_RANGE"},
			})
			return
		}
		days = parsed
	}

	var (
		ds  *demo.Dataset
		err error
	)
	switch dataset {
	case "countries":
		ds, err = h.service.Countries(r.Context(), days)
	case "neighborhoods":
		ds, err = h.service.Neighborhoods(r.Context(), days)
	default:
		response.BadRequest(w, r, "invalid query parameter", []models.FieldError{
			{Field: "dataset", Message: "must be one of: countries, neighborhoods", Code: "INVALID_VALUE"},
		})
		return
	}

	if err != nil {
		writeDatasetError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, ds)
}

// writeDatasetError maps dataset fetch failures onto Problem responses.
func writeDatasetError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, demo.ErrNoNeighborhoodSource):
		response.NotFound(w, r, "neighborhood dataset is not configured")
	case errors.Is(err, resilience.ErrCircuitOpen):
		response.ServiceUnavailable(w, r, "upstream geojson source is unavailable")
	default:
		var fetchErr *demo.FetchError
		if errors.As(err, &fetchErr) {
			response.BadGateway(w, r, "failed to fetch upstream geojson")
			return
		}
		response.InternalError(w, r, "failed to build dataset")
	}
}
