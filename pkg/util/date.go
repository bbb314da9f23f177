package util

import (
	"strconv"
	"time"
)

// BucketMinutes is the granularity of history buckets.
const BucketMinutes = 30

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// SameDay reports whether a and b fall on the same calendar date in local time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MinuteOfDay returns minutes elapsed since local midnight (0-1439).
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// BucketMinute rounds a minute-of-day down to its bucket boundary.
func BucketMinute(minute int) int {
	return (minute / BucketMinutes) * BucketMinutes
}

// StartOfDay returns local midnight of t's calendar date.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameWeekdayLastWeek returns the same calendar weekday seven days earlier.
func SameWeekdayLastWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -7)
}
