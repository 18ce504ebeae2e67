package orchestrators

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"weekuren/internal/adapters/decode"
	"weekuren/internal/domain/layout"
	"weekuren/internal/domain/ledger"
	"weekuren/internal/domain/rawtable"
	"weekuren/internal/domain/timesheet"
	domainUploadLog "weekuren/internal/domain/uploadlog"
)

// Name-column synonyms used when the upload does not name one explicitly.
var nameSynonyms = []string{"naam", "name", "student", "student name"}

// ProcessUploadInput carries one weekly attendance export and its layout.
// PRE: Reader streams the raw file bytes; Layout selects the check-pair
// strategy (ignored when Mode is elapsed, which uses the block range).
type ProcessUploadInput struct {
	Reader     io.Reader
	Filename   string
	NameColumn string // header of the student name column; empty = synonym scan
	Mode       timesheet.Mode
	Layout     layout.Layout
	Now        time.Time // optional: if zero, deps.Now() is used
}

// ProcessUploadResult holds the computed week and the merged ledger.
type ProcessUploadResult struct {
	WeekLabel    string
	Students     []timesheet.StudentMinutes
	RowCount     int
	TotalMinutes float64
	Ledger       *ledger.Ledger
}

// ProcessUploadDeps holds external dependencies for the upload pipeline.
type ProcessUploadDeps struct {
	LedgerStore LedgerStore
	UploadLog   UploadLogStore
	GenerateID  func() string
	Now         func() time.Time
}

// LedgerStore is the ledger persistence interface the orchestrators need.
type LedgerStore interface {
	Load(ctx context.Context) (*ledger.Ledger, error)
	Save(ctx context.Context, l *ledger.Ledger) error
	Reset(ctx context.Context) error
}

// UploadLogStore records accepted uploads.
type UploadLogStore interface {
	Save(ctx context.Context, entry domainUploadLog.Entry) error
}

// ExecuteProcessUpload runs one upload end to end: decode, locate columns,
// aggregate minutes, format, merge into the ledger, flush, log.
//
// Decode and table-shape failures reject the whole upload before any ledger
// mutation. A failed flush does NOT roll back the in-memory ledger: the
// merged result is returned together with the persistence error, and durable
// storage catches up on the next successful flush.
//
// POST: on success the ledger gained or overwrote exactly one week column
func ExecuteProcessUpload(ctx context.Context, input ProcessUploadInput, deps ProcessUploadDeps) (ProcessUploadResult, error) {
	tbl, err := decode.Decode(input.Reader, input.Filename)
	if err != nil {
		return ProcessUploadResult{}, err
	}

	nameCol, err := locateNameColumn(tbl, input.NameColumn)
	if err != nil {
		return ProcessUploadResult{}, err
	}

	agg := timesheet.AggregateInput{NameColumn: nameCol, Mode: input.Mode}
	switch input.Mode {
	case timesheet.ModeElapsed:
		cols, err := layout.BlockColumns(tbl, input.Layout.BlockStart, input.Layout.BlockEnd)
		if err != nil {
			return ProcessUploadResult{}, err
		}
		agg.Columns = cols
	default:
		pairs, err := layout.Resolve(tbl, input.Layout)
		if err != nil {
			return ProcessUploadResult{}, err
		}
		agg.Pairs = pairs
	}

	students, err := timesheet.Aggregate(tbl, agg)
	if err != nil {
		return ProcessUploadResult{}, err
	}

	now := input.Now
	if now.IsZero() {
		now = deps.Now()
	}
	weekLabel := ledger.WeekLabel(now)

	entries := make([]ledger.WeekEntry, len(students))
	var totalMinutes float64
	for i, s := range students {
		entries[i] = ledger.WeekEntry{Naam: s.Name, HHMM: timesheet.FormatMinutes(s.Minutes)}
		totalMinutes += s.Minutes
	}

	current, err := deps.LedgerStore.Load(ctx)
	if err != nil {
		return ProcessUploadResult{}, err
	}
	merged := ledger.Merge(current, weekLabel, entries)

	result := ProcessUploadResult{
		WeekLabel:    weekLabel,
		Students:     students,
		RowCount:     len(tbl.Rows),
		TotalMinutes: totalMinutes,
		Ledger:       merged,
	}

	flushErr := deps.LedgerStore.Save(ctx, merged)

	logEntry := domainUploadLog.Entry{
		ID:           deps.GenerateID(),
		WeekLabel:    weekLabel,
		Filename:     input.Filename,
		RowCount:     len(tbl.Rows),
		StudentCount: len(students),
		TotalMinutes: totalMinutes,
		UploadedAt:   now,
	}
	if err := logEntry.Validate(); err == nil {
		if err := deps.UploadLog.Save(ctx, logEntry); err != nil {
			slog.Error("upload_log_save_failed", "week", weekLabel, "error", err.Error())
		}
	}

	slog.Info("upload_processed",
		"week", weekLabel,
		"file", input.Filename,
		"rows", len(tbl.Rows),
		"students", len(students),
		"total_minutes", totalMinutes,
		"flushed", flushErr == nil,
	)
	return result, flushErr
}

func locateNameColumn(tbl *rawtable.Table, header string) (int, error) {
	if header != "" {
		if i := tbl.ColumnIndex(header); i >= 0 {
			return i, nil
		}
		return -1, &layout.ColumnNotFoundError{Header: header}
	}
	for _, syn := range nameSynonyms {
		if i := tbl.ColumnIndex(syn); i >= 0 {
			return i, nil
		}
	}
	return -1, &layout.ColumnNotFoundError{Header: nameSynonyms[0]}
}

// IsRejection reports whether err rejects the upload before any ledger
// mutation (decode or table-shape failure), as opposed to a post-merge
// persistence failure.
func IsRejection(err error) bool {
	var decodeErr *decode.DecodeError
	var colErr *layout.ColumnNotFoundError
	var widthErr *layout.InsufficientColumnsError
	return errors.As(err, &decodeErr) || errors.As(err, &colErr) || errors.As(err, &widthErr) ||
		errors.Is(err, layout.ErrNoPairs) || errors.Is(err, layout.ErrInvalidRange) ||
		errors.Is(err, layout.ErrSameColumn) || errors.Is(err, timesheet.ErrNameColumn) ||
		errors.Is(err, timesheet.ErrNoSelection)
}
