package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fixed leading columns of the persisted ledger, always in this order.
const (
	ColumnNaam  = "Naam"
	ColumnCoach = "Coach"
)

// Domain errors.
var (
	ErrStudentNotFound = errors.New("student not found in ledger")
	ErrEmptyName       = errors.New("student name cannot be empty")
)

// Row is one student's ledger line. Cells maps week label to an "H:MM"
// string; an absent key is a missing value, never a false zero.
type Row struct {
	Naam  string
	Coach string
	Cells map[string]string
}

// Ledger is the cumulative students × weeks table. Weeks holds the week
// column labels in the order they were first introduced.
// INVARIANT: exactly one row per distinct Naam; rows sorted ascending by Naam
type Ledger struct {
	Weeks []string
	Rows  []Row
}

// New returns the empty base ledger: only the Naam and Coach columns.
func New() *Ledger {
	return &Ledger{}
}

// Header returns the persisted column order: Naam, Coach, then weeks.
func (l *Ledger) Header() []string {
	header := make([]string, 0, 2+len(l.Weeks))
	header = append(header, ColumnNaam, ColumnCoach)
	header = append(header, l.Weeks...)
	return header
}

// HasWeek reports whether a week column already exists.
func (l *Ledger) HasWeek(label string) bool {
	for _, w := range l.Weeks {
		if w == label {
			return true
		}
	}
	return false
}

// Find returns the index of the row for naam, or -1.
func (l *Ledger) Find(naam string) int {
	for i, r := range l.Rows {
		if r.Naam == naam {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy, so merges never alias the stored value.
func (l *Ledger) Clone() *Ledger {
	out := &Ledger{
		Weeks: append([]string(nil), l.Weeks...),
		Rows:  make([]Row, len(l.Rows)),
	}
	for i, r := range l.Rows {
		cells := make(map[string]string, len(r.Cells))
		for k, v := range r.Cells {
			cells[k] = v
		}
		out.Rows[i] = Row{Naam: r.Naam, Coach: r.Coach, Cells: cells}
	}
	return out
}

// WeekEntry is one student's formatted total for the week being merged.
type WeekEntry struct {
	Naam string
	HHMM string
}

// Merge outer-joins one week column into the ledger and returns the result
// as a new value; the receiver is not mutated.
//
// Names present only in the ledger keep empty cells for the new week; names
// present only in the new week are added with an empty Coach and empty cells
// for every existing week. Re-merging an existing label overwrites its
// values for matching names and does not grow the column count or move the
// column from its original position.
//
// POST: rows sorted ascending by Naam (stable); Coach values untouched for
// existing rows
func Merge(l *Ledger, weekLabel string, entries []WeekEntry) *Ledger {
	out := l.Clone()
	if !out.HasWeek(weekLabel) {
		out.Weeks = append(out.Weeks, weekLabel)
	}

	for _, e := range entries {
		naam := strings.TrimSpace(e.Naam)
		if naam == "" {
			continue
		}
		if i := out.Find(naam); i >= 0 {
			out.Rows[i].Cells[weekLabel] = e.HHMM
			continue
		}
		out.Rows = append(out.Rows, Row{
			Naam:  naam,
			Cells: map[string]string{weekLabel: e.HHMM},
		})
	}

	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Naam < out.Rows[j].Naam
	})
	return out
}

// SetCoach rewrites the Coach cell for one student.
// POST: returns ErrStudentNotFound when naam has no ledger row
func (l *Ledger) SetCoach(naam, coach string) error {
	naam = strings.TrimSpace(naam)
	if naam == "" {
		return ErrEmptyName
	}
	i := l.Find(naam)
	if i < 0 {
		return ErrStudentNotFound
	}
	l.Rows[i].Coach = coach
	return nil
}

// amsterdam is the fixed zone the week label derives from. The recorded
// times themselves are never converted.
var amsterdam = loadAmsterdam()

func loadAmsterdam() *time.Location {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		return time.UTC
	}
	return loc
}

// WeekLabel derives the upload cycle identifier from the given moment:
// W<2-digit ISO week>-<4-digit ISO year> in Europe/Amsterdam. A date near a
// year boundary can belong to the ISO year adjacent to its calendar year.
func WeekLabel(now time.Time) string {
	year, week := now.In(amsterdam).ISOWeek()
	return fmt.Sprintf("W%02d-%04d", week, year)
}
