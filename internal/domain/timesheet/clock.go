package timesheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMinutes renders a minute count as "H:MM": hours unbounded, minutes
// always two digits (1500 minutes -> "25:00").
// POST: returns "" for NaN/non-finite input, explicitly distinct from "0:00"
func FormatMinutes(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return ""
	}
	total := int(math.Round(minutes))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParseClock is the inverse of FormatMinutes, used for threshold
// classification of ledger cells.
// POST: returns (minutes, true) when s is "<int>:<int>", (0, false) otherwise;
// failure means "no classification", never an error
func ParseClock(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return float64(h*60 + m), true
}
