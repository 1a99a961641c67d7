package entities

import "time"

// AddMonths adds calendar months to t. When the target month is shorter
// than t's day of month the result is clamped to the last day of that month,
// so Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// DateOf truncates t to a calendar date in UTC, keeping t's own year, month
// and day
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DeprecationDate returns the day support ends. ok is false when either the
// invoice date or a non-zero support period is missing.
func DeprecationDate(invoiceDate *time.Time, supportPeriodMonths *int) (date time.Time, ok bool) {
	if invoiceDate == nil || supportPeriodMonths == nil || *supportPeriodMonths == 0 {
		return time.Time{}, false
	}
	return AddMonths(DateOf(*invoiceDate), *supportPeriodMonths), true
}

// IsDeprecated reports whether support ended strictly before today.
// An asset is still supported on its deprecation date itself.
func IsDeprecated(invoiceDate *time.Time, supportPeriodMonths *int, today time.Time) bool {
	date, ok := DeprecationDate(invoiceDate, supportPeriodMonths)
	if !ok {
		return false
	}
	return date.Before(DateOf(today))
}
