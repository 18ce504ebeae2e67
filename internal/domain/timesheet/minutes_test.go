package timesheet

import (
	"math"
	"testing"
	"time"

	"weekuren/internal/domain/rawtable"
)

// TestCellMinutesLadder walks the fallback ladder variant by variant.
func TestCellMinutesLadder(t *testing.T) {
	cases := []struct {
		name string
		cell rawtable.Cell
		want float64
	}{
		{"empty", rawtable.EmptyCell(), 0},
		{"duration", rawtable.DurationCell(90 * time.Minute), 90},
		{"duration precision", rawtable.DurationCell(90*time.Minute + 30*time.Second), 90.5},
		{"colon hmm", rawtable.TextCell("8:30"), 510},
		{"colon wide hours", rawtable.TextCell("25:00"), 1500},
		{"colon with seconds", rawtable.TextCell("8:30:45"), 510},
		{"comma decimal hours", rawtable.TextCell("1,5"), 90},
		{"period decimal hours", rawtable.TextCell("2.25"), 135},
		{"integer hours text", rawtable.TextCell("3"), 180},
		{"number hours", rawtable.NumberCell(1.5), 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CellMinutes(tc.cell)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("CellMinutes(%v) = %v, want %v", tc.cell, got, tc.want)
			}
		})
	}
}

// TestCellMinutesColonFallsThrough verifies a failed colon parse falls
// through to decimal hours before degrading to zero.
func TestCellMinutesColonFallsThrough(t *testing.T) {
	// ":30" has no hours part, "x:20" has no integer hours, "5:x0" has no
	// two-digit minutes; none parse as decimal hours either.
	for _, s := range []string{":30", "x:20", "5:x0", "5:1"} {
		if got := CellMinutes(rawtable.TextCell(s)); got != 0 {
			t.Errorf("CellMinutes(%q) = %v, want 0", s, got)
		}
	}
}

// TestCellMinutesTotality checks the never-raises, finite >= 0 contract.
func TestCellMinutesTotality(t *testing.T) {
	cells := []rawtable.Cell{
		rawtable.TextCell("garbage"),
		rawtable.TextCell("12-34"),
		rawtable.TextCell("-2"),
		rawtable.NumberCell(-1.5),
		rawtable.NumberCell(math.NaN()),
		rawtable.NumberCell(math.Inf(1)),
		rawtable.DurationCell(-time.Hour),
		rawtable.EmptyCell(),
	}
	for _, c := range cells {
		got := CellMinutes(c)
		if math.IsNaN(got) || math.IsInf(got, 0) || got < 0 {
			t.Errorf("CellMinutes(%v) = %v, want finite >= 0", c, got)
		}
	}
}

// TestCellMinutesMinutesArePositional checks the two digits after the colon
// are taken positionally even when more characters follow.
func TestCellMinutesMinutesArePositional(t *testing.T) {
	if got := CellMinutes(rawtable.TextCell("1:3045")); got != 90 {
		t.Errorf("CellMinutes(\"1:3045\") = %v, want 90", got)
	}
}
