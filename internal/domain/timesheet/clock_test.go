package timesheet

import (
	"math"
	"testing"
)

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		minutes float64
		want    string
	}{
		{0, "0:00"},
		{510, "8:30"},
		{1500, "25:00"},
		{59.6, "1:00"}, // rounds to nearest whole minute
		{59.4, "0:59"},
		{5, "0:05"},
	}
	for _, tc := range cases {
		if got := FormatMinutes(tc.minutes); got != tc.want {
			t.Errorf("FormatMinutes(%v) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

// TestFormatMinutesNaN checks NaN renders as empty, distinct from "0:00".
func TestFormatMinutesNaN(t *testing.T) {
	if got := FormatMinutes(math.NaN()); got != "" {
		t.Errorf("FormatMinutes(NaN) = %q, want \"\"", got)
	}
	if got := FormatMinutes(math.Inf(1)); got != "" {
		t.Errorf("FormatMinutes(+Inf) = %q, want \"\"", got)
	}
}

func TestParseClock(t *testing.T) {
	minutes, ok := ParseClock("8:30")
	if !ok || minutes != 510 {
		t.Errorf("ParseClock(\"8:30\") = %v, %v, want 510, true", minutes, ok)
	}
	minutes, ok = ParseClock("25:00")
	if !ok || minutes != 1500 {
		t.Errorf("ParseClock(\"25:00\") = %v, %v, want 1500, true", minutes, ok)
	}
	for _, s := range []string{"", "8", "8:30:45", "x:30", "8:yy"} {
		if _, ok := ParseClock(s); ok {
			t.Errorf("ParseClock(%q) unexpectedly parsed", s)
		}
	}
}

// TestClockRoundTrip covers the normalized round-trip property: for valid
// H:MM with minutes < 60, format(parse(s)) == s.
func TestClockRoundTrip(t *testing.T) {
	for _, s := range []string{"0:00", "8:30", "16:00", "25:00", "100:59"} {
		minutes, ok := ParseClock(s)
		if !ok {
			t.Fatalf("ParseClock(%q) failed", s)
		}
		if got := FormatMinutes(minutes); got != s {
			t.Errorf("round trip of %q gave %q", s, got)
		}
	}
}
