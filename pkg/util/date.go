package util

import (
	"fmt"
	"time"
)

// DMYLayout is the presentation format for calendar dates in API payloads.
// It matches the source locale convention (dd/mm/yyyy) and is applied only
// at the boundary; all internal date handling uses time.Time.
const DMYLayout = "02/01/2006"

// Day truncates t to UTC midnight so calendar dates from different sources
// compare equal regardless of time-of-day or zone.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date at UTC midnight.
func Today() time.Time {
	return Day(time.Now())
}

// FormatDMY renders a calendar date as dd/mm/yyyy.
func FormatDMY(t time.Time) string {
	return t.Format(DMYLayout)
}

// FormatDMYAll renders a date axis as dd/mm/yyyy strings.
func FormatDMYAll(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = FormatDMY(d)
	}
	return out
}

// ParseDate parses a calendar date in dd/mm/yyyy or ISO (yyyy-mm-dd) form.
// The result is normalized to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DMYLayout, s); err == nil {
		return Day(t), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Day(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// ParseDateDefault parses a date or returns default if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, err := ParseDate(s); err == nil {
		return t
	}
	return def
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)) / (24 * time.Hour))
}
