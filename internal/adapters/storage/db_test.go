package storage

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitDB(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	// The schema must be queryable right after init.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM upload_log").Scan(&count); err != nil {
		t.Fatalf("upload_log not created: %v", err)
	}
	if count != 0 {
		t.Errorf("upload_log count = %d, want 0", count)
	}
}

func TestInitDBIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if _, err := db.Exec(
		"INSERT INTO upload_log (id, week_label, uploaded_at) VALUES ('a', 'W01-2026', '2026-01-05T10:00:00Z')",
	); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM upload_log").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("re-init lost data: count = %d, want 1", count)
	}
}
