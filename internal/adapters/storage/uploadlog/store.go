package uploadlog

import (
	"context"

	domain "weekuren/internal/domain/uploadlog"
)

// Store persists upload log entries.
type Store interface {
	Save(ctx context.Context, entry domain.Entry) error
	List(ctx context.Context, limit int) ([]domain.Entry, error)
	ListByWeekLabel(ctx context.Context, weekLabel string) ([]domain.Entry, error)
}
