package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/globalratings/ratingmap/internal/api/models"
	"github.com/globalratings/ratingmap/internal/api/response"
	"github.com/globalratings/ratingmap/internal/observability"
	"github.com/globalratings/ratingmap/internal/ratings"
)

// previewLimit caps how many valid and ignored rows an upload preview shows.
const previewLimit = 10

// UploadHandler handles CSV upload validation and apply.
type UploadHandler struct {
	pipeline *ratings.Pipeline
	store    *ratings.SessionStore
	metrics  *observability.Metrics
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler. maxBytes caps the accepted
// request body size.
func NewUploadHandler(pipeline *ratings.Pipeline, store *ratings.SessionStore, metrics *observability.Metrics, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &UploadHandler{
		pipeline: pipeline,
		store:    store,
		metrics:  metrics,
		maxBytes: maxBytes,
	}
}

// CreateUpload handles POST /v1/uploads - validates an uploaded CSV and
// returns a preview. The body is either raw CSV text or a multipart form
// with a "file" part.
func (h *UploadHandler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	csvText, err := h.readCSV(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.PayloadTooLarge(w, r, "upload exceeds the size limit")
			return
		}
		response.BadRequest(w, r, "unable to read upload body", nil)
		return
	}

	upload, err := h.pipeline.Validate(csvText)
	if err != nil {
		writeValidationError(w, r, err)
		return
	}

	h.store.Put(upload)

	ignored, ignoredTotal := upload.IgnoredRows(previewLimit)
	preview := models.UploadPreview{
		UploadID:     upload.ID,
		Headers:      ratings.RequiredColumns,
		Rows:         upload.PreviewRows(previewLimit),
		Summary:      upload.Summary,
		IgnoredRows:  ignored,
		IgnoredTotal: ignoredTotal,
	}
	response.JSON(w, r, http.StatusOK, preview)
}

// ApplyUpload handles POST /v1/uploads/{uploadID}/apply - aggregates a
// previously validated upload into the override dataset.
func (h *UploadHandler) ApplyUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := chi.URLParam(r, "uploadID")

	upload, ok := h.store.Get(uploadID)
	if !ok {
		response.NotFound(w, r, "upload not found or expired")
		return
	}

	data := upload.Aggregate()
	h.metrics.UploadsApplied.Inc()

	applied := models.AppliedUpload{
		UploadID: upload.ID,
		Dates:    data.Dates(),
		Data:     data,
	}
	response.JSON(w, r, http.StatusOK, applied)
}

// readCSV extracts the CSV text from the request body, unwrapping a
// multipart "file" part when present.
func (h *UploadHandler) readCSV(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		return string(data), err
	}

	data, err := io.ReadAll(r.Body)
	return string(data), err
}

// writeValidationError maps pipeline failures onto Problem responses.
func writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *ratings.SchemaError
	if errors.As(err, &schemaErr) {
		fieldErrors := make([]models.FieldError, 0, len(schemaErr.Missing))
		for _, col := range schemaErr.Missing {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   col,
				Message: "required column is missing",
				Code:    "REQUIRED",
			})
		}
		response.BadRequest(w, r, schemaErr.Error(), fieldErrors)
		return
	}

	var parseErr *ratings.ParseError
	if errors.As(err, &parseErr) {
		response.BadRequest(w, r, parseErr.Error(), nil)
		return
	}

	if errors.Is(err, ratings.ErrNoValidRows) {
		response.UnprocessableUpload(w, r, "no valid rows after validation")
		return
	}

	response.InternalError(w, r, "failed to validate upload")
}
