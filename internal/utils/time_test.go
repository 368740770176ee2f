package utils

import (
	"testing"
	"time"
)

func TestParseISO(t *testing.T) {
	want := time.Date(2026, 1, 5, 9, 30, 0, 0, time.Local)

	cases := []string{
		"2026-01-05T09:30:00",
		"2026-01-05T09:30:00Z",
		"2026-01-05T09:30:00.000Z",
		" 2026-01-05T09:30:00 ",
	}
	for _, in := range cases {
		got, err := ParseISO(in)
		if err != nil {
			t.Fatalf("ParseISO(%q) error: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseISO(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseISORejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "tomorrow", "2026-01-05", "09:30:00"} {
		if _, err := ParseISO(in); err == nil {
			t.Fatalf("ParseISO(%q) should fail", in)
		}
	}
}

func TestFormatISORoundTrip(t *testing.T) {
	orig := time.Date(2026, 1, 5, 9, 30, 0, 0, time.Local)

	got, err := ParseISO(FormatISO(orig))
	if err != nil {
		t.Fatalf("round trip error: %v", err)
	}
	if !got.Equal(orig) {
		t.Fatalf("round trip changed the time: %v != %v", got, orig)
	}
}

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"00:00:00": 0,
		"08:30:00": 510,
		"08:30":    510,
		"23:59:59": 1439,
	}
	for in, want := range cases {
		got, ok := ParseClock(in)
		if !ok {
			t.Fatalf("ParseClock(%q) failed", in)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %d, want %d", in, got, want)
		}
	}

	if _, ok := ParseClock("25:00:00"); ok {
		t.Fatalf("ParseClock should reject hour 25")
	}
}

func TestMinutesOfDay(t *testing.T) {
	got := MinutesOfDay(time.Date(2026, 1, 5, 9, 30, 0, 0, time.Local))
	if got != 570 {
		t.Fatalf("MinutesOfDay = %d, want 570", got)
	}
}
