package storage

import (
	"context"
	"testing"
)

func TestTimedDBSatisfiesSQLDB(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	var sqldb SQLDB = NewTimedDB(db)

	ctx := context.Background()
	if _, err := sqldb.ExecContext(ctx,
		"INSERT INTO upload_log (id, week_label, uploaded_at) VALUES (?, ?, ?)",
		"a", "W01-2026", "2026-01-05T10:00:00Z",
	); err != nil {
		t.Fatalf("ExecContext failed: %v", err)
	}

	var week string
	if err := sqldb.QueryRowContext(ctx,
		"SELECT week_label FROM upload_log WHERE id = ?", "a",
	).Scan(&week); err != nil {
		t.Fatalf("QueryRowContext failed: %v", err)
	}
	if week != "W01-2026" {
		t.Errorf("week_label = %q, want W01-2026", week)
	}

	rows, err := sqldb.QueryContext(ctx, "SELECT id FROM upload_log")
	if err != nil {
		t.Fatalf("QueryContext failed: %v", err)
	}
	defer rows.Close()
	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows iteration failed: %v", err)
	}
	if count != 1 {
		t.Errorf("row count = %d, want 1", count)
	}
}

func TestTimedDBTransactions(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	tdb := NewTimedDB(db)

	ctx := context.Background()
	tx, err := tdb.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO upload_log (id, week_label, uploaded_at) VALUES ('b', 'W02-2026', '2026-01-12T10:00:00Z')",
	); err != nil {
		t.Fatalf("insert in tx failed: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM upload_log").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("rolled-back insert persisted: count = %d", count)
	}
}
