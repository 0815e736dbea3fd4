package ratings

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/globalratings/ratingmap/internal/geo"
	"github.com/globalratings/ratingmap/internal/observability"
)

// dateKeyPattern matches the zero-padded YYYY-MM-DD date-key shape. It is a
// precheck only; time.Parse is lenient about zero padding, so the regexp
// pins the width before the calendar check.
var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDateKey reports whether s is a zero-padded YYYY-MM-DD key naming a real
// calendar date. "2025-13-01" has the right shape but no thirteenth month.
func IsDateKey(s string) bool {
	if !dateKeyPattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(geo.DateKeyLayout, s)
	return err == nil
}

// Pipeline validates raw CSV text and produces Upload sessions.
type Pipeline struct {
	logger  zerolog.Logger
	metrics *observability.Metrics
}

// NewPipeline creates a Pipeline. metrics may not be nil.
func NewPipeline(logger zerolog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{logger: logger, metrics: metrics}
}

// Validate runs the full ingestion pipeline over csvText: structural parse,
// schema check, per-row validation, and summary. It returns a validated
// Upload, or one of *ParseError, *SchemaError, ErrNoValidRows.
//
// Row checks run in strict precedence; a row failing one check is never
// evaluated against the next:
//
//  1. Date is a real calendar date in zero-padded YYYY-MM-DD form
//  2. Country is in the ISO 3166-1 alpha-2 set
//  3. Daily rating is not the literal "0" or "0.0"
//  4. Daily rating parses as a float in [0, 5]
//  5. Total rating parses as a float in [0, 5]
func (p *Pipeline) Validate(csvText string) (*Upload, error) {
	rows, err := p.parse(csvText)
	if err != nil {
		var schemaErr *SchemaError
		if errors.As(err, &schemaErr) {
			p.metrics.UploadsRejected.WithLabelValues("schema").Inc()
		} else {
			p.metrics.UploadsRejected.WithLabelValues("parse").Inc()
		}
		return nil, err
	}

	upload := &Upload{
		ID:        "upl_" + uuid.New().String()[:22],
		CreatedAt: time.Now().UTC(),
		rows:      rows,
		ignored:   make(map[int]IgnoredRow),
	}

	for i, row := range rows {
		if reason, ok := classifyRow(row); !ok {
			// Physical line: +1 for the header, +1 for 1-based counting.
			upload.ignored[i] = IgnoredRow{Row: row, Reason: reason, LineNumber: i + 2}
			p.metrics.RowsIgnored.WithLabelValues(string(reason)).Inc()
			continue
		}
		upload.valid = append(upload.valid, row)
	}

	if len(upload.valid) == 0 {
		p.metrics.UploadsRejected.WithLabelValues("empty").Inc()
		return nil, ErrNoValidRows
	}

	upload.Summary = summarize(rows, upload.valid)

	p.metrics.UploadsValidated.Inc()
	p.metrics.RowsValid.Add(float64(len(upload.valid)))
	p.metrics.UploadRows.Observe(float64(len(rows)))
	p.logger.Info().
		Str("upload_id", upload.ID).
		Int("total_rows", upload.Summary.TotalRows).
		Int("valid_rows", upload.Summary.ValidRows).
		Int("ignored_rows", len(upload.ignored)).
		Msg("upload validated")

	return upload, nil
}

// parse splits csvText into data rows keyed by the required columns. The
// header may carry the columns in any order and may contain extras.
func (p *Pipeline) parse(csvText string) ([]Row, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, &ParseError{Err: ErrNoData}
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		rows = append(rows, Row{
			Date:        record[index[ColumnDate]],
			PackageName: record[index[ColumnPackageName]],
			Country:     record[index[ColumnCountry]],
			DailyRating: record[index[ColumnDailyRating]],
			TotalRating: record[index[ColumnTotalRating]],
		})
	}

	if len(rows) == 0 {
		return nil, &ParseError{Err: ErrNoData}
	}
	return rows, nil
}

// classifyRow applies the ordered row checks. It returns the ignore reason
// for the first failing check, or ok=true when the row is valid.
func classifyRow(row Row) (IgnoreReason, bool) {
	if !IsDateKey(row.Date) {
		return ReasonInvalidDate, false
	}

	if row.Country == "" || !IsValidCountryCode(row.Country) {
		return ReasonUnknownCountry, false
	}

	// Literal string match, not numeric equality: "0.00" is not caught here
	// and falls through to the range check, which accepts it. Preserved
	// behavior pending confirmation of intent.
	if row.DailyRating == "0" || row.DailyRating == "0.0" {
		return ReasonZeroDailyRating, false
	}

	daily, err := strconv.ParseFloat(row.DailyRating, 64)
	if err != nil || daily < 0 || daily > 5 {
		return ReasonInvalidDailyRating, false
	}

	total, err := strconv.ParseFloat(row.TotalRating, 64)
	if err != nil || total < 0 || total > 5 {
		return ReasonInvalidTotalRating, false
	}

	return "", true
}

// summarize computes the upload summary. Date min/max use string comparison,
// which is chronological for the fixed-width date-key format.
func summarize(all, valid []Row) Summary {
	seen := make(map[string]struct{})
	countries := make([]string, 0)
	span := DateSpan{Start: valid[0].Date, End: valid[0].Date}
	sum := 0.0

	for _, row := range valid {
		if _, ok := seen[row.Country]; !ok {
			seen[row.Country] = struct{}{}
			countries = append(countries, row.Country)
		}
		if row.Date < span.Start {
			span.Start = row.Date
		}
		if row.Date > span.End {
			span.End = row.Date
		}
		// Ratings parsed cleanly during classification; ignore the error.
		daily, _ := strconv.ParseFloat(row.DailyRating, 64)
		sum += daily
	}

	avg := sum / float64(len(valid))
	return Summary{
		TotalRows: len(all),
		ValidRows: len(valid),
		Countries: countries,
		DateRange: span,
		AvgRating: math.Round(avg*100) / 100,
	}
}
