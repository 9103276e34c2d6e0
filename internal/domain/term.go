package domain

import (
	"fmt"
	"time"
)

// TermYear returns the two-digit term a date belongs to. A term opens on the
// first Monday in October and runs until the day before the next one.
func TermYear(t time.Time) string {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	year := t.Year()
	if day.Before(firstMondayInOctober(year)) {
		year--
	}
	return fmt.Sprintf("%02d", year%100)
}

func firstMondayInOctober(year int) time.Time {
	d := time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}
