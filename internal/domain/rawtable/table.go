package rawtable

import (
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the cell variants a decoder can produce.
type Kind int

// Cell variants.
const (
	KindEmpty Kind = iota
	KindDuration
	KindText
	KindNumber
)

// Cell is one untyped spreadsheet/CSV cell, tagged by variant.
// Exactly one payload field is meaningful for a given Kind.
type Cell struct {
	Kind     Kind
	Duration time.Duration // KindDuration: an elapsed amount, not an instant
	Text     string        // KindText
	Number   float64       // KindNumber
}

// EmptyCell returns the missing-value cell.
func EmptyCell() Cell {
	return Cell{Kind: KindEmpty}
}

// DurationCell wraps an already-elapsed amount of time.
func DurationCell(d time.Duration) Cell {
	return Cell{Kind: KindDuration, Duration: d}
}

// TextCell wraps a raw string value. Whitespace-only strings decode to empty.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return EmptyCell()
	}
	return Cell{Kind: KindText, Text: s}
}

// NumberCell wraps a bare numeric value.
func NumberCell(n float64) Cell {
	return Cell{Kind: KindNumber, Number: n}
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// String returns a textual rendering of the cell, used for name columns.
// PRE: none
// POST: returns "" for empty cells, the raw text for text cells,
// and a best-effort rendering for the numeric variants
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindDuration:
		return c.Duration.String()
	default:
		return ""
	}
}

// Table is one uploaded raw table: a header row naming columns plus data rows.
// Rows may be ragged; Cell access is bounds-safe.
type Table struct {
	Header []string
	Rows   [][]Cell
}

// ColumnCount returns the number of header columns.
func (t *Table) ColumnCount() int {
	return len(t.Header)
}

// Cell returns the cell at (row, col), or the empty cell when the
// coordinates fall outside the table. Rows shorter than the header
// are treated as padded with empty cells.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) {
		return EmptyCell()
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return EmptyCell()
	}
	return r[col]
}

// ColumnIndex returns the zero-based index of the header matching name
// case-insensitively after trimming, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}
