package ledgerfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"weekuren/internal/domain/ledger"
)

// DefaultFilename is the canonical ledger file under the data directory.
const DefaultFilename = "weekuren_cumulatief.csv"

// PersistenceError reports a failed flush. The in-memory ledger is already
// updated when this is returned; durable storage catches up on the next
// successful flush.
type PersistenceError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ledger flush to %s failed: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying I/O error.
func (e *PersistenceError) Unwrap() error { return e.Err }

// Store holds the process-wide ledger with a read-modify-write lifecycle:
// loaded once, mutated per accepted upload or coach edit, flushed after
// every mutation. Flushes write a temp file in the same directory and
// atomically rename it over the canonical file, so a crash mid-write leaves
// the previous ledger intact.
type Store struct {
	mu     sync.Mutex
	path   string
	cached *ledger.Ledger
}

// NewStore creates a ledger store persisting at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the current ledger, reading the file on first use. A missing
// file yields the empty base ledger. The returned value is a copy.
func (s *Store) Load(ctx context.Context) (*ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		l, err := s.read()
		if err != nil {
			return nil, err
		}
		s.cached = l
	}
	return s.cached.Clone(), nil
}

// Save replaces the in-memory ledger and flushes it to disk.
// POST: the in-memory ledger is updated even when the flush fails; a failed
// flush returns *PersistenceError
func (s *Store) Save(ctx context.Context, l *ledger.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = l.Clone()
	if err := s.flush(s.cached); err != nil {
		slog.Error("ledger_flush_failed", "path", s.path, "error", err.Error())
		return &PersistenceError{Path: s.path, Err: err}
	}
	return nil
}

// Reset clears the ledger to the base columns and removes the file.
// POST: irreversible; a missing file is not an error
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = ledger.New()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &PersistenceError{Path: s.path, Err: err}
	}
	slog.Info("ledger_reset", "path", s.path)
	return nil
}

func (s *Store) read() (*ledger.Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return ledger.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()
	return DecodeCSV(f)
}

func (s *Store) flush(l *ledger.Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".weekuren-*.csv")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := EncodeCSV(tmp, l); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// EncodeCSV writes the ledger in its persisted format:
// header Naam,Coach,<week labels...>, one row per student, UTF-8.
// Missing week cells are written empty, never as a false zero.
func EncodeCSV(w io.Writer, l *ledger.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(l.Header()); err != nil {
		return err
	}
	for _, row := range l.Rows {
		record := make([]string, 0, 2+len(l.Weeks))
		record = append(record, row.Naam, row.Coach)
		for _, week := range l.Weeks {
			record = append(record, row.Cells[week])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads a previously persisted ledger.
// POST: fails on a header that does not begin with Naam,Coach
func DecodeCSV(r io.Reader) (*ledger.Ledger, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return ledger.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger header: %w", err)
	}
	if len(header) < 2 || header[0] != ledger.ColumnNaam || header[1] != ledger.ColumnCoach {
		return nil, fmt.Errorf("ledger header must start with %s,%s", ledger.ColumnNaam, ledger.ColumnCoach)
	}

	l := ledger.New()
	l.Weeks = append(l.Weeks, header[2:]...)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger row: %w", err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}
		row := ledger.Row{Naam: record[0], Cells: make(map[string]string)}
		if len(record) > 1 {
			row.Coach = record[1]
		}
		for i, week := range l.Weeks {
			if 2+i < len(record) && record[2+i] != "" {
				row.Cells[week] = record[2+i]
			}
		}
		l.Rows = append(l.Rows, row)
	}
	return l, nil
}
