package rawtable

import "testing"

func TestCellBounds(t *testing.T) {
	tbl := &Table{
		Header: []string{"Naam", "Check in"},
		Rows: [][]Cell{
			{TextCell("Ana"), TextCell("09:00")},
			{TextCell("Bob")}, // ragged row
		},
	}
	if got := tbl.Cell(0, 1); got.Kind != KindText || got.Text != "09:00" {
		t.Errorf("Cell(0,1) = %+v", got)
	}
	// Out-of-range coordinates yield the empty cell, never a panic.
	for _, c := range [][2]int{{1, 1}, {2, 0}, {-1, 0}, {0, 5}} {
		if got := tbl.Cell(c[0], c[1]); got.Kind != KindEmpty {
			t.Errorf("Cell(%d,%d).Kind = %v, want empty", c[0], c[1], got.Kind)
		}
	}
}

func TestColumnIndex(t *testing.T) {
	tbl := &Table{Header: []string{"Naam", "Check In Time", ""}}
	if got := tbl.ColumnIndex("check in time"); got != 1 {
		t.Errorf("ColumnIndex = %d, want 1", got)
	}
	if got := tbl.ColumnIndex("onbekend"); got != -1 {
		t.Errorf("ColumnIndex = %d, want -1", got)
	}
}

func TestTextCellTrims(t *testing.T) {
	if c := TextCell("  "); c.Kind != KindEmpty {
		t.Errorf("whitespace cell Kind = %v, want empty", c.Kind)
	}
	if c := TextCell(" 09:00 "); c.Text != "09:00" {
		t.Errorf("Text = %q", c.Text)
	}
}
