package main

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	emailPkg "weekuren/internal/adapters/email"
	web "weekuren/internal/adapters/http"
	"weekuren/internal/adapters/storage"
	ledgerfileStore "weekuren/internal/adapters/storage/ledgerfile"
	uploadlogStore "weekuren/internal/adapters/storage/uploadlog"
	"weekuren/internal/application/projections"
	"weekuren/internal/domain/layout"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	dataDir := envOrDefault("WEEKUREN_DATA_DIR", "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("failed to create data dir: %v", err)
	}

	// Upload history lives in SQLite with WAL mode and a busy timeout.
	dbPath := filepath.Join(dataDir, "weekuren.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	timedDB := storage.NewTimedDB(db)

	stores := &web.Stores{
		LedgerStore:    ledgerfileStore.NewStore(filepath.Join(dataDir, ledgerfileStore.DefaultFilename)),
		UploadLogStore: uploadlogStore.NewSQLiteStore(timedDB),
	}

	cfg := web.Config{
		ThresholdMinutes:  thresholdMinutes(),
		AdminPasswordHash: os.Getenv("WEEKUREN_ADMIN_PASSWORD_HASH"),
		EmailFrom:         envOrDefault("WEEKUREN_EMAIL_FROM", "Weekuren <noreply@example.org>"),
		EmailReplyTo:      os.Getenv("WEEKUREN_EMAIL_REPLY_TO"),
	}
	if cfg.AdminPasswordHash == "" {
		if os.Getenv("WEEKUREN_ENV") == "production" {
			log.Fatal("WEEKUREN_ADMIN_PASSWORD_HASH is required in production")
		}
		log.Println("WARNING: WEEKUREN_ADMIN_PASSWORD_HASH not set; login is disabled")
	}
	if spec := os.Getenv("WEEKUREN_LAYOUT_PAIRS"); spec != "" {
		pairs, err := layout.ParsePairs(spec)
		if err != nil {
			log.Fatalf("invalid WEEKUREN_LAYOUT_PAIRS: %v", err)
		}
		cfg.DefaultPairs = pairs
	}
	if recips := os.Getenv("WEEKUREN_REPORT_RECIPIENTS"); recips != "" {
		cfg.ReportRecipients = splitRecipients(recips)
	}

	// Configure email sender
	if resendKey := os.Getenv("WEEKUREN_RESEND_KEY"); resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, cfg.EmailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		log.Println("Email sender configured (noop; set WEEKUREN_RESEND_KEY for real delivery)")
	}

	mux := web.NewMux(stores, cfg, loadCSRFKey())

	addr := envOrDefault("WEEKUREN_ADDR", ":8080")
	log.Printf("Weekuren %s starting on %s (env=%s, data=%s)", version, addr, envOrDefault("WEEKUREN_ENV", "development"), dataDir)

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// thresholdMinutes reads the weekly norm in hours, defaulting to 16.
func thresholdMinutes() float64 {
	if v := os.Getenv("WEEKUREN_THRESHOLD_HOURS"); v != "" {
		if hours, err := strconv.ParseFloat(v, 64); err == nil && hours > 0 {
			return hours * 60
		}
		log.Fatalf("invalid WEEKUREN_THRESHOLD_HOURS: %q", v)
	}
	return projections.DefaultThresholdMinutes
}

// loadCSRFKey reads the CSRF secret from WEEKUREN_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("WEEKUREN_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("WEEKUREN_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("WEEKUREN_ENV") == "production" {
		log.Fatal("WEEKUREN_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set WEEKUREN_CSRF_KEY for production.")
	return key
}

func splitRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
