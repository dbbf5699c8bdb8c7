// Package leave holds the pure leave-workflow rules: day arithmetic,
// application validation, balance accounting and overlap detection.
// Everything here is deterministic; "today" is always an argument.
package leave

import (
	"math"
	"time"
)

const hoursPerDay = 24

// Midnight truncates t to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// InclusiveDays counts the calendar days spanned by [start, end], counting
// both endpoints. A same-day range is 1 day. The result is only meaningful
// for start <= end; callers reject reversed ranges via ValidateDateRange.
func InclusiveDays(start, end time.Time) int {
	diff := Midnight(end).Sub(Midnight(start))
	return int(math.Ceil(diff.Hours()/hoursPerDay)) + 1
}
