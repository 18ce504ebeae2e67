package timesheet

import (
	"errors"
	"strings"

	"weekuren/internal/domain/layout"
	"weekuren/internal/domain/rawtable"
)

// Mode selects how the located columns are interpreted.
type Mode int

const (
	// ModeInstants treats each check pair as two wall-clock events; an
	// episode contributes out minus in.
	ModeInstants Mode = iota
	// ModeElapsed treats each block column as an already-elapsed duration
	// cell summed directly, with no in/out pairing.
	ModeElapsed
)

// StudentMinutes is one aggregated row: a trimmed student name and its
// total valid episode minutes for a single upload.
type StudentMinutes struct {
	Name    string
	Minutes float64
}

// AggregateInput carries the column selection for one aggregation run.
type AggregateInput struct {
	NameColumn int
	Mode       Mode
	Pairs      []layout.CheckPair // ModeInstants
	Columns    []int              // ModeElapsed
}

// Domain errors.
var (
	ErrNameColumn  = errors.New("name column index is out of range")
	ErrNoSelection = errors.New("no check pairs or duration columns selected")
)

// Aggregate computes per-student total minutes for one raw table.
//
// Rows whose trimmed name is empty are skipped entirely; they contribute
// nothing, not even a zero-minute record. Rows sharing a trimmed name are
// summed into a single result. Episode contributions are never negative:
// a pair counts only when both instants parse and out > in.
//
// PRE: in.Pairs or in.Columns has been resolved against tbl by the layout
// package, so indices are in range
// POST: one StudentMinutes per distinct trimmed name, first-seen order
func Aggregate(tbl *rawtable.Table, in AggregateInput) ([]StudentMinutes, error) {
	if in.NameColumn < 0 || in.NameColumn >= tbl.ColumnCount() {
		return nil, ErrNameColumn
	}
	switch in.Mode {
	case ModeInstants:
		if len(in.Pairs) == 0 {
			return nil, ErrNoSelection
		}
	case ModeElapsed:
		if len(in.Columns) == 0 {
			return nil, ErrNoSelection
		}
	}

	index := make(map[string]int)
	var result []StudentMinutes

	for row := range tbl.Rows {
		name := strings.TrimSpace(tbl.Cell(row, in.NameColumn).String())
		if name == "" {
			continue
		}

		var minutes float64
		switch in.Mode {
		case ModeInstants:
			for _, p := range in.Pairs {
				minutes += episodeMinutes(tbl.Cell(row, p.In), tbl.Cell(row, p.Out))
			}
		case ModeElapsed:
			for _, col := range in.Columns {
				minutes += CellMinutes(tbl.Cell(row, col))
			}
		}

		if i, ok := index[name]; ok {
			result[i].Minutes += minutes
			continue
		}
		index[name] = len(result)
		result = append(result, StudentMinutes{Name: name, Minutes: minutes})
	}
	return result, nil
}

// episodeMinutes returns the contribution of one check-in/out pair.
// POST: (out - in) in minutes when both instants parse and out > in,
// otherwise 0; a half-recorded episode is not an error
func episodeMinutes(in, out rawtable.Cell) float64 {
	start, ok := ParseInstant(in)
	if !ok {
		return 0
	}
	end, ok := ParseInstant(out)
	if !ok {
		return 0
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Minutes()
}
