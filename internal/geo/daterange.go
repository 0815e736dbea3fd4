package geo

import "github.com/jonboulle/clockwork"

// DateKeyLayout is the zero-padded calendar-date format used as a map key
// throughout the service. The fixed width makes lexicographic order equal
// to chronological order, which the summary and aggregation code rely on.
const DateKeyLayout = "2006-01-02"

// DateRange returns days consecutive date keys in ascending order, the last
// being today in UTC per c. Month and year rollovers use calendar
// arithmetic. days <= 0 yields an empty range.
func DateRange(c clockwork.Clock, days int) []string {
	if days <= 0 {
		return nil
	}

	today := c.Now().UTC()
	dates := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		dates = append(dates, today.AddDate(0, 0, -i).Format(DateKeyLayout))
	}
	return dates
}
