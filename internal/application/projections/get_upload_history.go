package projections

import (
	"context"

	domain "weekuren/internal/domain/uploadlog"
)

// DefaultHistoryLimit bounds the history listing.
const DefaultHistoryLimit = 50

// HistoryUploadLogStore is the upload log access the history needs.
type HistoryUploadLogStore interface {
	List(ctx context.Context, limit int) ([]domain.Entry, error)
	ListByWeekLabel(ctx context.Context, weekLabel string) ([]domain.Entry, error)
}

// GetUploadHistoryQuery carries input for the history projection.
type GetUploadHistoryQuery struct {
	Week  string // optional: restrict to one week label
	Limit int    // 0 means DefaultHistoryLimit
}

// GetUploadHistoryResult carries the output of the history projection.
type GetUploadHistoryResult struct {
	Entries []domain.Entry `json:"entries"`
}

// GetUploadHistoryDeps holds dependencies for the history projection.
type GetUploadHistoryDeps struct {
	UploadLogStore HistoryUploadLogStore
}

// QueryGetUploadHistory lists recorded uploads, newest first, or every
// upload of one week when query.Week is set.
func QueryGetUploadHistory(ctx context.Context, query GetUploadHistoryQuery, deps GetUploadHistoryDeps) (GetUploadHistoryResult, error) {
	if query.Week != "" {
		entries, err := deps.UploadLogStore.ListByWeekLabel(ctx, query.Week)
		if err != nil {
			return GetUploadHistoryResult{}, err
		}
		return GetUploadHistoryResult{Entries: entries}, nil
	}

	limit := query.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := deps.UploadLogStore.List(ctx, limit)
	if err != nil {
		return GetUploadHistoryResult{}, err
	}
	return GetUploadHistoryResult{Entries: entries}, nil
}
