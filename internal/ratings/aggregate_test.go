package ratings

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalratings/ratingmap/internal/observability"
)

func mustValidate(t *testing.T, text string) *Upload {
	t.Helper()
	upload, err := NewPipeline(zerolog.Nop(), observability.NewMetricsForTesting()).Validate(text)
	require.NoError(t, err)
	return upload
}

func TestAggregate_SingleRow(t *testing.T) {
	upload := mustValidate(t, csvHeader+"2025-04-01,app,US,4.5,4.0\n")

	data := upload.Aggregate()

	require.Len(t, data, 1)
	assert.Equal(t, OverrideDataset{
		"2025-04-01": {
			"US": {PackageName: "app", DailyRating: 4.5, TotalRating: 4.0, Highlighted: true},
		},
	}, data)
}

func TestAggregate_SkipsIgnoredRows(t *testing.T) {
	upload := mustValidate(t, csvHeader+
		"2025-04-01,app,US,4.5,4.0\n"+
		"2025-04-01,app,ZZ,4.5,4.0\n"+ // ignored: unknown country
		"2025-04-02,app,GB,3.2,3.0\n")

	data := upload.Aggregate()

	require.Len(t, data, 2)
	assert.NotContains(t, data["2025-04-01"], "ZZ")
	assert.Contains(t, data["2025-04-01"], "US")
	assert.Contains(t, data["2025-04-02"], "GB")
}

func TestAggregate_LastWriteWins(t *testing.T) {
	upload := mustValidate(t, csvHeader+
		"2025-04-01,first.app,US,2.0,2.0\n"+
		"2025-04-01,second.app,US,4.0,4.0\n")

	data := upload.Aggregate()

	got := data["2025-04-01"]["US"]
	assert.Equal(t, "second.app", got.PackageName)
	assert.Equal(t, 4.0, got.DailyRating)
}

func TestAggregate_GroupsByDateThenCountry(t *testing.T) {
	upload := mustValidate(t, csvHeader+
		"2025-04-02,app,US,4.0,4.0\n"+
		"2025-04-01,app,US,3.0,3.0\n"+
		"2025-04-01,app,GB,2.0,2.0\n")

	data := upload.Aggregate()

	assert.Equal(t, []string{"2025-04-01", "2025-04-02"}, data.Dates())
	assert.Len(t, data["2025-04-01"], 2)
	assert.Len(t, data["2025-04-02"], 1)
}
