package projections

import (
	"context"

	"weekuren/internal/domain/ledger"
	"weekuren/internal/domain/timesheet"
)

// DefaultThresholdMinutes is the 16-hour weekly norm.
const DefaultThresholdMinutes = 16 * 60

// CellClass classifies one week cell against the threshold.
type CellClass string

// Classification values. ClassNone covers empty and unparseable cells,
// neutral, never an error.
const (
	ClassOK    CellClass = "ok"
	ClassShort CellClass = "short"
	ClassNone  CellClass = "none"
)

// OverviewLedgerStore is the ledger access the overview needs.
type OverviewLedgerStore interface {
	Load(ctx context.Context) (*ledger.Ledger, error)
}

// GetOverviewQuery carries input for the overview projection.
type GetOverviewQuery struct {
	Coach            string  // optional: exact-match filter on the Coach column
	ThresholdMinutes float64 // 0 means DefaultThresholdMinutes
}

// OverviewRow is one student line with per-week values and classifications,
// both aligned with the Weeks slice of the result.
type OverviewRow struct {
	Naam    string      `json:"naam"`
	Coach   string      `json:"coach"`
	Values  []string    `json:"values"`
	Classes []CellClass `json:"classes"`
}

// GetOverviewResult carries the output of the overview projection.
type GetOverviewResult struct {
	Weeks            []string      `json:"weeks"`
	Rows             []OverviewRow `json:"rows"`
	ThresholdMinutes float64       `json:"threshold_minutes"`
}

// GetOverviewDeps holds dependencies for the overview projection.
type GetOverviewDeps struct {
	LedgerStore OverviewLedgerStore
}

// QueryGetOverview renders the ledger for display: alphabetical rows,
// fixed Naam/Coach columns, week columns in introduction order, each cell
// classified against the weekly threshold.
func QueryGetOverview(ctx context.Context, query GetOverviewQuery, deps GetOverviewDeps) (GetOverviewResult, error) {
	threshold := query.ThresholdMinutes
	if threshold <= 0 {
		threshold = DefaultThresholdMinutes
	}

	l, err := deps.LedgerStore.Load(ctx)
	if err != nil {
		return GetOverviewResult{}, err
	}

	result := GetOverviewResult{
		Weeks:            l.Weeks,
		Rows:             []OverviewRow{},
		ThresholdMinutes: threshold,
	}
	for _, row := range l.Rows {
		if query.Coach != "" && row.Coach != query.Coach {
			continue
		}
		out := OverviewRow{
			Naam:    row.Naam,
			Coach:   row.Coach,
			Values:  make([]string, len(l.Weeks)),
			Classes: make([]CellClass, len(l.Weeks)),
		}
		for i, week := range l.Weeks {
			value := row.Cells[week]
			out.Values[i] = value
			out.Classes[i] = Classify(value, threshold)
		}
		result.Rows = append(result.Rows, out)
	}
	return result, nil
}

// Classify maps one "H:MM" cell to its threshold class. Empty and
// unparseable values get no classification.
func Classify(value string, thresholdMinutes float64) CellClass {
	if value == "" {
		return ClassNone
	}
	minutes, ok := timesheet.ParseClock(value)
	if !ok {
		return ClassNone
	}
	if minutes >= thresholdMinutes {
		return ClassOK
	}
	return ClassShort
}
