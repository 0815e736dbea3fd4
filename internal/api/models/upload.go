package models

import "github.com/globalratings/ratingmap/internal/ratings"

// UploadPreview is the response to a successful CSV validation.
type UploadPreview struct {
	// UploadID identifies the validated upload for a later apply call.
	UploadID string `json:"uploadId"`

	// Headers echoes the required CSV column names in canonical order.
	Headers []string `json:"headers"`

	// Rows holds up to the first ten valid rows for display.
	Rows []ratings.Row `json:"rows"`

	Summary ratings.Summary `json:"summary"`

	// IgnoredRows holds up to the first ten excluded rows with reasons.
	IgnoredRows []ratings.IgnoredRow `json:"ignoredRows"`

	// IgnoredTotal is the full count of excluded rows.
	IgnoredTotal int `json:"ignoredTotal"`
}

// AppliedUpload is the response to applying a validated upload.
type AppliedUpload struct {
	UploadID string `json:"uploadId"`

	// Dates are the override dataset's date keys, ascending.
	Dates []string `json:"dates"`

	Data ratings.OverrideDataset `json:"data"`
}
