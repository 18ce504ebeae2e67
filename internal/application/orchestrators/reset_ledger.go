package orchestrators

import (
	"context"
	"log/slog"
)

// ResetLedgerDeps holds external dependencies for the reset.
type ResetLedgerDeps struct {
	LedgerStore LedgerStore
}

// ExecuteResetLedger clears the ledger to the empty base-columns-only state
// and removes the persisted file. Irreversible.
func ExecuteResetLedger(ctx context.Context, deps ResetLedgerDeps) error {
	if err := deps.LedgerStore.Reset(ctx); err != nil {
		return err
	}
	slog.Info("ledger_reset_executed")
	return nil
}
