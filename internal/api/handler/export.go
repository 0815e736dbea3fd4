package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/globalratings/ratingmap/internal/ratings"
)

// ExportHandler serves the downloadable sample CSV.
type ExportHandler struct {
	logger zerolog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{logger: logger}
}

// ExampleCSV handles GET /v1/export/example.csv - a freshly generated sample
// upload covering the last 30 days.
func (h *ExportHandler) ExampleCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="example-ratings.csv"`)

	if err := ratings.WriteExampleCSV(w); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error().Err(err).Msg("failed to write example csv")
	}
}
