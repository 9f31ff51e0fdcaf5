package utils

import (
	"time"
)

// Calendar dates travel as time.Time values at midnight UTC. Instants are
// converted to a date in the business timezone with DateOf.

// Date builds a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return Date(y, m, d)
}

// DayBounds returns the half-open instant range [start, end) covering the
// calendar date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// Yesterday returns the calendar date before now in loc.
func Yesterday(now time.Time, loc *time.Location) time.Time {
	return DateOf(now, loc).AddDate(0, 0, -1)
}

func FormatDate(date time.Time) string {
	return date.Format(time.DateOnly)
}

// ParseDate parses a "YYYY-MM-DD" calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, time.UTC)
}
