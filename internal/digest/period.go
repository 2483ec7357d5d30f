// Package digest collects and renders the daily work summary.
package digest

import "time"

// DateLayout renders one end of a period.
const DateLayout = "Monday, Jan 02 2006 15:04"

// PreviousBusinessDay returns midnight of the previous business day in
// now's location. Monday goes back to Friday, Saturday and Sunday as well.
func PreviousBusinessDay(now time.Time) time.Time {
	back := 1
	switch now.Weekday() {
	case time.Monday:
		back = 3
	case time.Sunday:
		back = 2
	}
	d := now.AddDate(0, 0, -back)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// FormatDateRange renders "start - end".
func FormatDateRange(start, end time.Time) string {
	return start.Format(DateLayout) + " - " + end.Format(DateLayout)
}
