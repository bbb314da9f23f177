package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2026-08-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2026, 8, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2026, 8, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 10, 0, 1, 0, 0, time.Local)
	b := time.Date(2026, 8, 10, 23, 59, 0, 0, time.Local)
	c := time.Date(2026, 8, 11, 0, 0, 0, 0, time.Local)
	if !SameDay(a, b) {
		t.Fatalf("expected same day")
	}
	if SameDay(b, c) {
		t.Fatalf("expected different day")
	}
}

func TestMinuteOfDayAndBucket(t *testing.T) {
	cases := []struct {
		hour, min  int
		minute     int
		bucket     int
	}{
		{0, 0, 0, 0},
		{0, 29, 29, 0},
		{0, 30, 30, 30},
		{13, 45, 825, 810},
		{23, 59, 1439, 1410},
	}
	for _, c := range cases {
		ts := time.Date(2026, 8, 10, c.hour, c.min, 0, 0, time.Local)
		if got := MinuteOfDay(ts); got != c.minute {
			t.Fatalf("MinuteOfDay(%02d:%02d) = %d, want %d", c.hour, c.min, got, c.minute)
		}
		if got := BucketMinute(c.minute); got != c.bucket {
			t.Fatalf("BucketMinute(%d) = %d, want %d", c.minute, got, c.bucket)
		}
	}
}

func TestSameWeekdayLastWeek(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	prev := SameWeekdayLastWeek(now)
	if prev.Weekday() != now.Weekday() {
		t.Fatalf("weekday mismatch: %v vs %v", prev.Weekday(), now.Weekday())
	}
	if now.Sub(prev) != 7*24*time.Hour {
		t.Fatalf("expected exactly 7 days, got %v", now.Sub(prev))
	}
}
