package timesheet

import (
	"math"
	"strconv"
	"strings"

	"weekuren/internal/domain/rawtable"
)

// CellMinutes converts one raw cell into elapsed minutes.
//
// Fallback ladder, in order:
//  1. empty cell: 0
//  2. duration cell: total elapsed minutes at full float precision
//  3. text containing a colon: H:MM, hours any width, minutes the two
//     digits immediately after the colon even when more characters follow
//  4. text otherwise (or after a failed colon parse): comma decimal
//     separator normalized to a period, parsed as hours
//  5. number cell: hours
//
// PRE: none
// POST: returns a finite float >= 0; any parse failure yields exactly 0.0
// INVARIANT: never panics and never returns an error; silent degradation
// to zero is the contract for malformed cells
func CellMinutes(c rawtable.Cell) float64 {
	switch c.Kind {
	case rawtable.KindEmpty:
		return 0
	case rawtable.KindDuration:
		return clamp(c.Duration.Minutes())
	case rawtable.KindText:
		return clamp(textMinutes(c.Text))
	case rawtable.KindNumber:
		return clamp(c.Number * 60)
	default:
		return 0
	}
}

func textMinutes(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		if m, ok := colonMinutes(s, i); ok {
			return m
		}
	}
	// Decimal hours, with the comma separator the exports use.
	normalized := strings.ReplaceAll(s, ",", ".")
	hours, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return hours * 60
}

// colonMinutes parses s as H:MM around the colon at index i. The two
// characters after the colon are taken positionally; trailing text such as
// seconds is ignored.
func colonMinutes(s string, i int) (float64, bool) {
	hours, err := strconv.Atoi(strings.TrimSpace(s[:i]))
	if err != nil {
		return 0, false
	}
	rest := s[i+1:]
	if len(rest) < 2 {
		return 0, false
	}
	minutes, err := strconv.Atoi(rest[:2])
	if err != nil {
		return 0, false
	}
	return float64(hours*60 + minutes), true
}

// clamp forces the totality contract: non-finite and negative results
// degrade to zero.
func clamp(m float64) float64 {
	if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return 0
	}
	return m
}
