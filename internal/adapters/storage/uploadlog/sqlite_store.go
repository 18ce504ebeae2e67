package uploadlog

import (
	"context"
	"fmt"
	"time"

	"weekuren/internal/adapters/storage"
	domain "weekuren/internal/domain/uploadlog"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new upload log store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists one upload log entry.
// PRE: entry has been validated
// POST: entry is persisted (insert or update on id)
func (s *SQLiteStore) Save(ctx context.Context, entry domain.Entry) error {
	query := `INSERT INTO upload_log (id, week_label, filename, row_count, student_count, total_minutes, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			week_label=excluded.week_label,
			filename=excluded.filename,
			row_count=excluded.row_count,
			student_count=excluded.student_count,
			total_minutes=excluded.total_minutes,
			uploaded_at=excluded.uploaded_at`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.WeekLabel,
		entry.Filename,
		entry.RowCount,
		entry.StudentCount,
		entry.TotalMinutes,
		entry.UploadedAt.Format(time.RFC3339Nano),
	)
	return err
}

// List returns the most recent entries, newest first.
// PRE: limit > 0
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	query := `SELECT id, week_label, filename, row_count, student_count, total_minutes, uploaded_at
		FROM upload_log ORDER BY uploaded_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByWeekLabel returns every upload recorded for one week label, oldest
// first, so duplicate submissions within an ISO week stay visible.
func (s *SQLiteStore) ListByWeekLabel(ctx context.Context, weekLabel string) ([]domain.Entry, error) {
	query := `SELECT id, week_label, filename, row_count, student_count, total_minutes, uploaded_at
		FROM upload_log WHERE week_label = ? ORDER BY uploaded_at ASC`
	rows, err := s.db.QueryContext(ctx, query, weekLabel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows rowScanner) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var uploadedAt string
		if err := rows.Scan(&e.ID, &e.WeekLabel, &e.Filename, &e.RowCount, &e.StudentCount, &e.TotalMinutes, &uploadedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse uploaded_at: %w", err)
		}
		e.UploadedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
