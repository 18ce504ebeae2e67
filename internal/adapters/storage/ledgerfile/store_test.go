package ledgerfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weekuren/internal/domain/ledger"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFilename)
	return NewStore(path), path
}

func sampleLedger() *ledger.Ledger {
	l := ledger.New()
	l = ledger.Merge(l, "W01-2026", []ledger.WeekEntry{
		{Naam: "Ana", HHMM: "16:00"},
		{Naam: "Bob", HHMM: "8:30"},
	})
	l = ledger.Merge(l, "W02-2026", []ledger.WeekEntry{
		{Naam: "Ana", HHMM: "12:00"},
	})
	l.SetCoach("Ana", "Kees")
	return l
}

func TestLoadMissingFile(t *testing.T) {
	store, _ := testStore(t)
	l, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(l.Rows) != 0 || len(l.Weeks) != 0 {
		t.Fatalf("missing file should yield the empty base ledger, got %+v", l)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, path := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleLedger()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh store reads the file from scratch.
	loaded, err := NewStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Weeks) != 2 || loaded.Weeks[0] != "W01-2026" {
		t.Fatalf("weeks = %v", loaded.Weeks)
	}
	ana := loaded.Rows[loaded.Find("Ana")]
	if ana.Coach != "Kees" || ana.Cells["W02-2026"] != "12:00" {
		t.Errorf("Ana = %+v", ana)
	}
	// Bob has no W02 value: missing, not a false zero.
	bob := loaded.Rows[loaded.Find("Bob")]
	if _, ok := bob.Cells["W02-2026"]; ok {
		t.Error("Bob has a W02-2026 cell, want missing")
	}
}

func TestSavedFormat(t *testing.T) {
	store, path := testStore(t)
	if err := store.Save(context.Background(), sampleLedger()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "Naam,Coach,W01-2026,W02-2026" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Ana,Kees,16:00,12:00" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "Bob,,8:30," {
		t.Errorf("row 2 = %q", lines[2])
	}
}

// TestSaveLeavesNoTempFiles checks the temp-then-rename discipline cleans up.
func TestSaveLeavesNoTempFiles(t *testing.T) {
	store, path := testStore(t)
	if err := store.Save(context.Background(), sampleLedger()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != DefaultFilename {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("data dir contains %v, want only the ledger", names)
	}
}

func TestReset(t *testing.T) {
	store, path := testStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, sampleLedger()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("ledger file still exists after reset")
	}
	l, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(l.Rows) != 0 || len(l.Weeks) != 0 {
		t.Errorf("ledger not empty after reset: %+v", l)
	}
	// Resetting twice is not an error.
	if err := store.Reset(ctx); err != nil {
		t.Errorf("second Reset failed: %v", err)
	}
}

// TestLoadReturnsCopy checks callers cannot mutate the cached ledger.
func TestLoadReturnsCopy(t *testing.T) {
	store, _ := testStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, sampleLedger()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first, _ := store.Load(ctx)
	first.Rows[0].Coach = "tampered"
	second, _ := store.Load(ctx)
	if second.Rows[0].Coach == "tampered" {
		t.Error("Load returned an aliased ledger")
	}
}

func TestDecodeCSVRejectsForeignHeader(t *testing.T) {
	_, err := DecodeCSV(strings.NewReader("Foo,Bar\n"))
	if err == nil {
		t.Fatal("foreign header unexpectedly accepted")
	}
}
