package orchestrators

import (
	"context"
	"log/slog"
)

// AssignCoachInput carries one coach edit.
// PRE: Naam matches an existing ledger row exactly; Coach may be empty to
// clear the assignment.
type AssignCoachInput struct {
	Naam  string
	Coach string
}

// AssignCoachDeps holds external dependencies for the coach edit.
type AssignCoachDeps struct {
	LedgerStore LedgerStore
}

// ExecuteAssignCoach rewrites the Coach cell for one student and flushes.
// POST: only the Coach column changes; week cells and row order are untouched
func ExecuteAssignCoach(ctx context.Context, input AssignCoachInput, deps AssignCoachDeps) error {
	l, err := deps.LedgerStore.Load(ctx)
	if err != nil {
		return err
	}
	if err := l.SetCoach(input.Naam, input.Coach); err != nil {
		return err
	}
	if err := deps.LedgerStore.Save(ctx, l); err != nil {
		return err
	}
	slog.Info("coach_assigned", "naam", input.Naam, "coach", input.Coach)
	return nil
}
