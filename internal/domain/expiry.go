package domain

import (
	"fmt"
	"time"
)

// Alert thresholds in days. Mirrored by the aggregate alert banner, so they
// live here rather than in the query engine.
const (
	NearExpiryDays     = 15
	AdvanceWarningDays = 30
)

// CalcEndDate adds a number of calendar months to a start date, preserving
// the day of month where valid and clamping to the last day otherwise
// (Jan 31 + 1 month = Feb 29 in a leap year).
func CalcEndDate(start time.Time, months int) time.Time {
	total := int(start.Month()) - 1 + months
	year := start.Year() + total/12
	month := time.Month(total%12 + 1)
	if total < 0 && total%12 != 0 {
		year--
		month = time.Month(total%12 + 13)
	}

	day := start.Day()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, start.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntil returns whole days from today until the end date (negative for
// already-expired contracts). ok is false when the end date is unknown.
func DaysUntil(end *time.Time, today time.Time) (days int, ok bool) {
	if end == nil {
		return 0, false
	}
	a := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24), true
}

// Status labels for the cases that carry no day count.
const (
	StatusCancelled = "cancelled"
	StatusUnknown   = "unknown"
)

// Classify maps days-until-expiry and the cancelled flag to a display
// status. Cancelled dominates everything else.
func Classify(daysLeft int, known bool, cancelled bool) string {
	switch {
	case cancelled:
		return StatusCancelled
	case !known:
		return StatusUnknown
	case daysLeft < 0:
		return fmt.Sprintf("expired %d days ago", -daysLeft)
	case daysLeft <= NearExpiryDays:
		return fmt.Sprintf("near expiry (<=%d days) - %d days left", NearExpiryDays, daysLeft)
	case daysLeft <= AdvanceWarningDays:
		return fmt.Sprintf("advance warning (<=%d days) - %d days left", AdvanceWarningDays, daysLeft)
	default:
		return fmt.Sprintf("%d days left", daysLeft)
	}
}

// ValidationError is a labeled input failure identifying the offending
// field. It is reported to the caller, never treated as fatal.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}
