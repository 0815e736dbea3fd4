// Package ratings implements the untrusted-CSV ingestion pipeline: parsing,
// per-row validation against a closed country-code set, summary statistics,
// and aggregation of validated rows into the override dataset the map layer
// consumes in place of synthetic demo data.
package ratings

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CSV column names. The header must contain all five, in any order.
const (
	ColumnDate        = "Date"
	ColumnPackageName = "Package Name"
	ColumnCountry     = "Country"
	ColumnDailyRating = "Daily Average Rating"
	ColumnTotalRating = "Total Average Rating"
)

// RequiredColumns lists the schema in canonical (export/preview) order.
var RequiredColumns = []string{
	ColumnDate, ColumnPackageName, ColumnCountry, ColumnDailyRating, ColumnTotalRating,
}

// Row is one parsed CSV data row, fields kept as raw strings so that
// validation sees exactly what the file contained. JSON tags mirror the
// CSV column names so previews render under the original headers.
type Row struct {
	Date        string `json:"Date"`
	PackageName string `json:"Package Name"`
	Country     string `json:"Country"`
	DailyRating string `json:"Daily Average Rating"`
	TotalRating string `json:"Total Average Rating"`
}

// Fields returns the row values in canonical column order.
func (r Row) Fields() []string {
	return []string{r.Date, r.PackageName, r.Country, r.DailyRating, r.TotalRating}
}

// IgnoreReason classifies why a row was excluded from aggregation.
type IgnoreReason string

// Row-level classification outcomes, first failing check wins.
const (
	ReasonInvalidDate        IgnoreReason = "Invalid date format"
	ReasonUnknownCountry     IgnoreReason = "Unrecognized country code"
	ReasonZeroDailyRating    IgnoreReason = "Zero daily rating"
	ReasonInvalidDailyRating IgnoreReason = "Invalid daily rating value"
	ReasonInvalidTotalRating IgnoreReason = "Invalid total rating value"
)

// IgnoredRow retains an excluded row for diagnostics. LineNumber is the
// 1-based physical line in the file, counting the header as line 1.
type IgnoredRow struct {
	Row        Row          `json:"row"`
	Reason     IgnoreReason `json:"reason"`
	LineNumber int          `json:"lineNumber"`
}

// DateSpan is the inclusive min/max of Date over the valid rows.
type DateSpan struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary holds the aggregate statistics computed once per upload.
type Summary struct {
	TotalRows int      `json:"totalRows"`
	ValidRows int      `json:"validRows"`
	Countries []string `json:"countries"`
	DateRange DateSpan `json:"dateRange"`
	AvgRating float64  `json:"avgRating"`
}

// RegionRating is one region's entry in the override dataset.
type RegionRating struct {
	PackageName string  `json:"packageName"`
	DailyRating float64 `json:"dailyRating"`
	TotalRating float64 `json:"totalRating"`
	Highlighted bool    `json:"highlighted"`
}

// OverrideDataset maps date key -> region key -> rating record. It replaces
// the synthetic per-feature time series wholesale when applied.
type OverrideDataset map[string]map[string]RegionRating

// Upload is a validated upload session: the parsed rows, the partition into
// valid and ignored, and the derived summary. It is the only handle through
// which aggregation can run, so the aggregator can never be fed different
// text than was validated.
type Upload struct {
	ID        string    `json:"uploadId"`
	CreatedAt time.Time `json:"createdAt"`
	Summary   Summary   `json:"summary"`

	rows    []Row
	ignored map[int]IgnoredRow // keyed by data-row index
	valid   []Row              // validation order preserved
}

// PreviewRows returns up to max valid rows for display. Summary counts
// always reflect the full dataset regardless of the preview cap.
func (u *Upload) PreviewRows(max int) []Row {
	if len(u.valid) <= max {
		return u.valid
	}
	return u.valid[:max]
}

// IgnoredRows returns up to max ignored-row records in file order plus the
// total number of ignored rows.
func (u *Upload) IgnoredRows(max int) ([]IgnoredRow, int) {
	out := make([]IgnoredRow, 0, min(max, len(u.ignored)))
	for i := range u.rows {
		rec, ok := u.ignored[i]
		if !ok {
			continue
		}
		if len(out) < max {
			out = append(out, rec)
		}
	}
	return out, len(u.ignored)
}

// ParseError reports a structurally malformed CSV file.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "csv parse error: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports required columns missing from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ErrNoValidRows is returned when every data row was ignored.
var ErrNoValidRows = errors.New("no valid rows after validation")

// ErrNoData is returned when the file contains a header but no data rows,
// or nothing at all.
var ErrNoData = errors.New("no data found in the CSV file")
