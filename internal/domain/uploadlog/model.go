package uploadlog

import (
	"errors"
	"time"
)

// Domain errors.
var (
	ErrEmptyID        = errors.New("upload log entry ID cannot be empty")
	ErrEmptyWeekLabel = errors.New("week label cannot be empty")
	ErrNegativeCount  = errors.New("counts cannot be negative")
	ErrEmptyTimestamp = errors.New("uploaded-at timestamp must be set")
)

// Entry records one accepted upload. Week-label collisions overwrite the
// ledger column, so this log is the only durable trace of duplicate
// submissions within one ISO week.
type Entry struct {
	ID           string
	WeekLabel    string
	Filename     string
	RowCount     int // raw data rows in the upload
	StudentCount int // distinct trimmed names aggregated
	TotalMinutes float64
	UploadedAt   time.Time
}

// Validate checks the entry invariants.
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Entry) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.WeekLabel == "" {
		return ErrEmptyWeekLabel
	}
	if e.RowCount < 0 || e.StudentCount < 0 || e.TotalMinutes < 0 {
		return ErrNegativeCount
	}
	if e.UploadedAt.IsZero() {
		return ErrEmptyTimestamp
	}
	return nil
}
