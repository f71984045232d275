package lending

import "time"

// Clock supplies the current date. It is injected so tests control
// time deterministically.
type Clock interface {
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Today() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// dateOf truncates to the calendar date at UTC midnight.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from d1 to d2,
// negative when d2 precedes d1. Time-of-day is ignored.
func DaysBetween(d1, d2 time.Time) int {
	return int(dateOf(d2).Sub(dateOf(d1)).Hours() / 24)
}
