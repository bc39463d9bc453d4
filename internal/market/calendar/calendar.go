// Package calendar provides exact calendar-month arithmetic shared by the
// pricing engines. All elapsed-time math in the simulation goes through this
// package so that month and day arithmetic agree at month boundaries.
package calendar

import (
	"time"
)

// AddMonths returns t shifted by n calendar months, clamping the day of month
// to the length of the target month. Unlike time.AddDate, Jan 31 plus one
// month yields the last day of February rather than rolling over into March.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	// Normalize target year/month via the first of the month, which never
	// rolls over.
	anchor := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(anchor.Year(), anchor.Month()); day > last {
		day = last
	}

	return time.Date(anchor.Year(), anchor.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MonthsBetween returns the exact elapsed time between from and to expressed
// in fractional calendar months: the number of whole months plus the elapsed
// share of the partial month, measured against that month's real length.
// The result is negative when to precedes from.
func MonthsBetween(from, to time.Time) float64 {
	if to.Before(from) {
		return -MonthsBetween(to, from)
	}

	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	anchor := AddMonths(from, months)
	if anchor.After(to) {
		months--
		anchor = AddMonths(from, months)
	}

	next := AddMonths(from, months+1)
	span := next.Sub(anchor)
	if span <= 0 {
		return float64(months)
	}

	return float64(months) + float64(to.Sub(anchor))/float64(span)
}

// DaysBetween returns the exact elapsed time between from and to in
// fractional days.
func DaysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

// YearsBetween returns the exact elapsed time between from and to in
// fractional calendar years.
func YearsBetween(from, to time.Time) float64 {
	return MonthsBetween(from, to) / 12
}

func daysIn(year int, month time.Month) int {
	// Day zero of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
