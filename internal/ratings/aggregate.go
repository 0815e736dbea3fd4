package ratings

import (
	"sort"
	"strconv"
)

// Aggregate materializes the override dataset from the upload's validated
// rows: date key -> country code -> rating record. A later row with the
// same (date, country) pair overwrites an earlier one; last write wins.
//
// Aggregation runs over the rows captured at validation time, never over
// fresh input, so the ignored-row partition always matches the data.
func (u *Upload) Aggregate() OverrideDataset {
	result := make(OverrideDataset)

	for i, row := range u.rows {
		if _, skip := u.ignored[i]; skip {
			continue
		}

		daily, _ := strconv.ParseFloat(row.DailyRating, 64)
		total, _ := strconv.ParseFloat(row.TotalRating, 64)

		byRegion, ok := result[row.Date]
		if !ok {
			byRegion = make(map[string]RegionRating)
			result[row.Date] = byRegion
		}
		byRegion[row.Country] = RegionRating{
			PackageName: row.PackageName,
			DailyRating: daily,
			TotalRating: total,
			Highlighted: true,
		}
	}

	return result
}

// Dates returns the dataset's date keys in ascending order.
func (d OverrideDataset) Dates() []string {
	dates := make([]string, 0, len(d))
	for date := range d {
		dates = append(dates, date)
	}
	// Lexicographic sort is chronological for the date-key format.
	sort.Strings(dates)
	return dates
}
