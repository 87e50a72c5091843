package calc

import "time"

// DaysBetween returns the whole-day span from start to end, date-only
// (hours are dropped before subtracting). With inclusive set, both
// endpoints count as billable days and the span grows by one. Negative
// spans (end before start) pass through unclamped so bad source dates
// surface in the output instead of silently flooring at zero.
func DaysBetween(start, end time.Time, inclusive bool) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(s).Hours() / 24)
	if inclusive {
		days++
	}
	return days
}

// CreditDays is the cutoff-to-due-date accrual window, both endpoints
// billable.
func CreditDays(cutoff, due time.Time) int {
	return DaysBetween(cutoff, due, true)
}
