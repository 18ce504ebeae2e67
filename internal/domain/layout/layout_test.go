package layout

import (
	"errors"
	"testing"

	"weekuren/internal/domain/rawtable"
)

func tableWithHeader(header ...string) *rawtable.Table {
	return &rawtable.Table{Header: header}
}

func TestResolveNamedExplicit(t *testing.T) {
	tbl := tableWithHeader("Naam", "Begin", "Eind")
	pairs, err := Resolve(tbl, Layout{Strategy: StrategyNamed, StartHeader: "Begin", EndHeader: "Eind"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0] != (CheckPair{In: 1, Out: 2}) {
		t.Fatalf("got %+v, want [{1 2}]", pairs)
	}
}

// TestResolveNamedSynonyms checks the default header scan is
// case-insensitive and trims whitespace.
func TestResolveNamedSynonyms(t *testing.T) {
	tbl := tableWithHeader("Name", " CHECK IN TIME ", "Check Out Time")
	pairs, err := Resolve(tbl, Layout{Strategy: StrategyNamed})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pairs[0] != (CheckPair{In: 1, Out: 2}) {
		t.Fatalf("got %+v, want {1 2}", pairs[0])
	}
}

func TestResolveNamedColumnNotFound(t *testing.T) {
	tbl := tableWithHeader("Naam", "Start", "End")
	_, err := Resolve(tbl, Layout{Strategy: StrategyNamed, StartHeader: "Nope", EndHeader: "End"})
	var notFound *ColumnNotFoundError
	if !errors.As(err, &notFound) || notFound.Header != "Nope" {
		t.Fatalf("want ColumnNotFoundError{Nope}, got %v", err)
	}
}

func TestResolveNamedSameColumn(t *testing.T) {
	tbl := tableWithHeader("Naam", "Tijd", "X")
	_, err := Resolve(tbl, Layout{Strategy: StrategyNamed, StartHeader: "Tijd", EndHeader: "Tijd"})
	if !errors.Is(err, ErrSameColumn) {
		t.Fatalf("want ErrSameColumn, got %v", err)
	}
}

func TestResolveBlock(t *testing.T) {
	tbl := tableWithHeader("A", "B", "C", "D", "E", "F")
	pairs, err := Resolve(tbl, Layout{Strategy: StrategyBlock, BlockStart: 1, BlockEnd: 5})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := []CheckPair{{In: 1, Out: 2}, {In: 3, Out: 4}}
	if len(pairs) != 2 || pairs[0] != want[0] || pairs[1] != want[1] {
		t.Fatalf("got %+v, want %+v", pairs, want)
	}
}

// TestResolveBlockOddWidth checks a trailing unpaired column is discarded.
func TestResolveBlockOddWidth(t *testing.T) {
	tbl := tableWithHeader("A", "B", "C", "D", "E", "F")
	pairs, err := Resolve(tbl, Layout{Strategy: StrategyBlock, BlockStart: 1, BlockEnd: 6})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2 (odd column discarded)", len(pairs))
	}
}

// TestResolveInsufficientColumns covers the 30-wide table against a layout
// needing 31 columns: the whole resolution fails.
func TestResolveInsufficientColumns(t *testing.T) {
	header := make([]string, 30)
	for i := range header {
		header[i] = "c"
	}
	tbl := &rawtable.Table{Header: header}

	_, err := Resolve(tbl, Layout{Strategy: StrategyOffsets, Pairs: []CheckPair{{In: 29, Out: 30}}})
	var insufficient *InsufficientColumnsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("want InsufficientColumnsError, got %v", err)
	}
	if insufficient.Required != 31 || insufficient.Actual != 30 {
		t.Errorf("got %+v, want Required=31 Actual=30", insufficient)
	}

	_, err = Resolve(tbl, Layout{Strategy: StrategyBlock, BlockStart: 28, BlockEnd: 31})
	if !errors.As(err, &insufficient) {
		t.Fatalf("want InsufficientColumnsError for block, got %v", err)
	}
}

func TestResolveOffsetsVerbatim(t *testing.T) {
	tbl := tableWithHeader("A", "B", "C", "D", "E")
	want := []CheckPair{{In: 4, Out: 1}, {In: 2, Out: 3}}
	pairs, err := Resolve(tbl, Layout{Strategy: StrategyOffsets, Pairs: want})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if pairs[0] != want[0] || pairs[1] != want[1] {
		t.Fatalf("got %+v, want %+v (order and values verbatim)", pairs, want)
	}
}

func TestParsePairs(t *testing.T) {
	pairs, err := ParsePairs("12:13, 16:17")
	if err != nil {
		t.Fatalf("ParsePairs failed: %v", err)
	}
	if len(pairs) != 2 || pairs[0] != (CheckPair{In: 12, Out: 13}) || pairs[1] != (CheckPair{In: 16, Out: 17}) {
		t.Fatalf("got %+v", pairs)
	}

	for _, bad := range []string{"", "12", "a:b", "3:3"} {
		if _, err := ParsePairs(bad); err == nil {
			t.Errorf("ParsePairs(%q) unexpectedly succeeded", bad)
		}
	}
}

func TestBlockColumns(t *testing.T) {
	tbl := tableWithHeader("A", "B", "C", "D")
	cols, err := BlockColumns(tbl, 1, 4)
	if err != nil {
		t.Fatalf("BlockColumns failed: %v", err)
	}
	if len(cols) != 3 || cols[0] != 1 || cols[2] != 3 {
		t.Fatalf("got %v, want [1 2 3]", cols)
	}
	if _, err := BlockColumns(tbl, 2, 6); err == nil {
		t.Error("out-of-range block unexpectedly succeeded")
	}
}
