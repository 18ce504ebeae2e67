package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"weekuren/internal/domain/rawtable"
)

// Strategy selects how check-in/check-out column pairs are located.
type Strategy int

// Supported resolution strategies.
const (
	StrategyNamed   Strategy = iota // one pair, located by header text
	StrategyBlock                   // contiguous range partitioned into (i, i+1) pairs
	StrategyOffsets                 // configured absolute index pairs, used verbatim
)

// CheckPair is one check-in/check-out episode located by column index.
// INVARIANT: In != Out
type CheckPair struct {
	In  int
	Out int
}

// Layout carries the parameters of one resolution request. Only the fields
// of the selected strategy are consulted.
type Layout struct {
	Strategy Strategy

	// StrategyNamed: explicit headers, or empty to fall back to the
	// built-in synonym sets.
	StartHeader string
	EndHeader   string

	// StrategyBlock: half-open column range [BlockStart, BlockEnd).
	BlockStart int
	BlockEnd   int

	// StrategyOffsets: absolute pairs negotiated with the data source.
	// The mapping is configuration, never a compiled-in constant.
	Pairs []CheckPair
}

// Header synonym sets for StrategyNamed defaults, matched case-insensitively
// after trimming. Mirrors the export headers seen from the attendance tools.
var (
	startSynonyms = []string{"check in time", "check-in time", "check in", "start", "start time", "checkin time"}
	endSynonyms   = []string{"check out time", "check-out time", "check out", "einde", "end", "end time", "checkout time"}
)

// ColumnNotFoundError reports a required header that is absent from the table.
type ColumnNotFoundError struct {
	Header string
}

// Error implements the error interface.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %q", e.Header)
}

// InsufficientColumnsError reports a table narrower than the layout requires.
type InsufficientColumnsError struct {
	Required int // minimum column count the layout references
	Actual   int
}

// Error implements the error interface.
func (e *InsufficientColumnsError) Error() string {
	return fmt.Sprintf("table has %d columns, layout requires %d", e.Actual, e.Required)
}

// Domain errors.
var (
	ErrNoPairs      = errors.New("layout resolves to no check pairs")
	ErrInvalidRange = errors.New("block range is invalid")
	ErrSameColumn   = errors.New("check-in and check-out columns must differ")
)

// Resolve locates the ordered check-in/check-out pairs for one table.
// PRE: tbl has a header row
// POST: returns at least one pair, or ColumnNotFoundError /
// InsufficientColumnsError when the table does not match the layout
// INVARIANT: within the returned sequence no pair has In == Out
func Resolve(tbl *rawtable.Table, l Layout) ([]CheckPair, error) {
	switch l.Strategy {
	case StrategyNamed:
		return resolveNamed(tbl, l)
	case StrategyBlock:
		return resolveBlock(tbl, l)
	case StrategyOffsets:
		return resolveOffsets(tbl, l)
	default:
		return nil, fmt.Errorf("unknown layout strategy %d", l.Strategy)
	}
}

func resolveNamed(tbl *rawtable.Table, l Layout) ([]CheckPair, error) {
	if tbl.ColumnCount() < 2 {
		return nil, &InsufficientColumnsError{Required: 2, Actual: tbl.ColumnCount()}
	}

	in, err := locateHeader(tbl, l.StartHeader, startSynonyms)
	if err != nil {
		return nil, err
	}
	out, err := locateHeader(tbl, l.EndHeader, endSynonyms)
	if err != nil {
		return nil, err
	}
	if in == out {
		return nil, ErrSameColumn
	}
	return []CheckPair{{In: in, Out: out}}, nil
}

// locateHeader finds one column by explicit header, or by synonym scan when
// the explicit header is empty.
func locateHeader(tbl *rawtable.Table, header string, synonyms []string) (int, error) {
	if header != "" {
		if i := tbl.ColumnIndex(header); i >= 0 {
			return i, nil
		}
		return -1, &ColumnNotFoundError{Header: header}
	}
	for _, syn := range synonyms {
		if i := tbl.ColumnIndex(syn); i >= 0 {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Header: synonyms[0]}
}

func resolveBlock(tbl *rawtable.Table, l Layout) ([]CheckPair, error) {
	if l.BlockStart < 0 || l.BlockEnd <= l.BlockStart {
		return nil, ErrInvalidRange
	}
	if tbl.ColumnCount() < l.BlockEnd {
		return nil, &InsufficientColumnsError{Required: l.BlockEnd, Actual: tbl.ColumnCount()}
	}

	var pairs []CheckPair
	// A trailing unpaired column in an odd-width block is discarded.
	for i := l.BlockStart; i+1 < l.BlockEnd; i += 2 {
		pairs = append(pairs, CheckPair{In: i, Out: i + 1})
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	return pairs, nil
}

func resolveOffsets(tbl *rawtable.Table, l Layout) ([]CheckPair, error) {
	if len(l.Pairs) == 0 {
		return nil, ErrNoPairs
	}
	max := 0
	for _, p := range l.Pairs {
		if p.In == p.Out {
			return nil, ErrSameColumn
		}
		if p.In < 0 || p.Out < 0 {
			return nil, ErrInvalidRange
		}
		if p.In >= max {
			max = p.In + 1
		}
		if p.Out >= max {
			max = p.Out + 1
		}
	}
	if tbl.ColumnCount() < max {
		return nil, &InsufficientColumnsError{Required: max, Actual: tbl.ColumnCount()}
	}
	out := make([]CheckPair, len(l.Pairs))
	copy(out, l.Pairs)
	return out, nil
}

// BlockColumns returns the column indices of a contiguous block without
// pairing, for tables whose cells are already elapsed durations.
// POST: returns every index in [start, end), or InsufficientColumnsError
func BlockColumns(tbl *rawtable.Table, start, end int) ([]int, error) {
	if start < 0 || end <= start {
		return nil, ErrInvalidRange
	}
	if tbl.ColumnCount() < end {
		return nil, &InsufficientColumnsError{Required: end, Actual: tbl.ColumnCount()}
	}
	cols := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		cols = append(cols, i)
	}
	return cols, nil
}

// ParsePairs parses a configured offsets mapping of the form "12:13,15:16"
// into check pairs. Used for the WEEKUREN_LAYOUT_PAIRS setting and the
// upload request's pairs parameter.
func ParsePairs(s string) ([]CheckPair, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoPairs
	}
	var pairs []CheckPair
	for _, part := range strings.Split(s, ",") {
		halves := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(halves) != 2 {
			return nil, fmt.Errorf("invalid pair %q (want in:out)", part)
		}
		in, err := strconv.Atoi(strings.TrimSpace(halves[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid pair %q: %w", part, err)
		}
		out, err := strconv.Atoi(strings.TrimSpace(halves[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid pair %q: %w", part, err)
		}
		if in == out {
			return nil, ErrSameColumn
		}
		pairs = append(pairs, CheckPair{In: in, Out: out})
	}
	return pairs, nil
}
