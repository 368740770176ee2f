package utils

import (
	"strings"
	"time"
)

const (
	// LayoutISO is ISO-8601 at seconds precision, no milliseconds, no zone.
	// All scheduled times cross the API boundary in this shape.
	LayoutISO  = "2006-01-02T15:04:05"
	layoutTime = "15:04:05"
)

// ParseISO parses "YYYY-MM-DDTHH:MM:SS" in the local timezone. A trailing
// "Z" or millisecond suffix from lenient clients is tolerated.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "Z")
	if i := strings.IndexByte(s, '.'); i > 0 {
		s = s[:i]
	}
	return time.ParseInLocation(LayoutISO, s, time.Local)
}

// FormatISO formats a time to "YYYY-MM-DDTHH:MM:SS" in the local timezone.
func FormatISO(t time.Time) string {
	return t.In(time.Local).Format(LayoutISO)
}

// ParseClock parses "HH:MM:SS" (or "HH:MM") as minutes since midnight.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	t, err := time.Parse(layoutTime, s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// MinutesOfDay returns minutes since midnight for t in local time.
func MinutesOfDay(t time.Time) int {
	lt := t.In(time.Local)
	return lt.Hour()*60 + lt.Minute()
}
