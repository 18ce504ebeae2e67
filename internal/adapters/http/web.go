package web

import (
	"net/http"
	"time"

	"weekuren/internal/adapters/email"
	"weekuren/internal/adapters/http/middleware"
	uploadlogStore "weekuren/internal/adapters/storage/uploadlog"
	"weekuren/internal/application/orchestrators"
	"weekuren/internal/domain/layout"
)

// Stores holds all storage dependencies.
type Stores struct {
	LedgerStore    orchestrators.LedgerStore
	UploadLogStore uploadlogStore.Store
}

// Config carries the presentation-level settings read at startup.
type Config struct {
	ThresholdMinutes  float64
	AdminPasswordHash string // bcrypt hash; empty disables login (dev only)
	DefaultPairs      []layout.CheckPair
	EmailFrom         string
	EmailReplyTo      string
	ReportRecipients  []string
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global config instance (set by NewMux)
var cfg Config

// Global session store instance
var sessions *middleware.SessionStore

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// SetEmailSender sets the email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, c Config, csrfKey []byte) http.Handler {
	stores = s
	cfg = c
	sessions = middleware.NewSessionStore()
	if emailSender == nil {
		emailSender = email.NewNoopSender()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)

	// Reads are open; the original dashboard had no viewer auth.
	mux.HandleFunc("/api/overview", handleOverview)
	mux.HandleFunc("/api/ledger.csv", handleLedgerCSV)
	mux.HandleFunc("/api/export.pdf", handleExportPDF)
	mux.HandleFunc("/api/uploads", handleUploads)

	// Mutations require an admin session.
	mux.HandleFunc("/api/upload", middleware.RequireSession(sessions, handleUpload))
	mux.HandleFunc("/api/coach", middleware.RequireSession(sessions, handleCoach))
	mux.HandleFunc("/api/reset", middleware.RequireSession(sessions, handleReset))
	mux.HandleFunc("/api/report/send", middleware.RequireSession(sessions, handleSendReport))

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)
	return middleware.Chain(mux,
		middleware.CSRF(csrfKey),
		middleware.RateLimit(limiter),
		middleware.SecurityHeaders,
	)
}
