package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"weekuren/internal/adapters/export"
	"weekuren/internal/adapters/http/middleware"
	"weekuren/internal/adapters/storage/ledgerfile"
	"weekuren/internal/application/orchestrators"
	"weekuren/internal/application/projections"
	"weekuren/internal/domain/layout"
	"weekuren/internal/domain/ledger"
	"weekuren/internal/domain/timesheet"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxUploadBytes bounds one weekly export file.
const maxUploadBytes = 32 << 20

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

func errBadParam(name string) error {
	return fmt.Errorf("invalid or missing parameter %q", name)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if cfg.AdminPasswordHash == "" {
		http.Error(w, "login disabled", http.StatusForbidden)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(input.Password)); err != nil {
		slog.Warn("login_failed", "ip", r.RemoteAddr)
		http.Error(w, "invalid password", http.StatusUnauthorized)
		return
	}
	token, err := sessions.Create()
	if err != nil {
		internalError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		sessions.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload accepts one weekly export as multipart form data with the
// layout selection in form values:
//
//	mode:  named | block | pairs (default named)
//	agg:   instants | elapsed (default instants)
//	name_col, start_col, end_col, block_start, block_end, pairs
func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	lay, mode, err := layoutFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input := orchestrators.ProcessUploadInput{
		Reader:     file,
		Filename:   header.Filename,
		NameColumn: r.FormValue("name_col"),
		Mode:       mode,
		Layout:     lay,
	}
	deps := orchestrators.ProcessUploadDeps{
		LedgerStore: stores.LedgerStore,
		UploadLog:   stores.UploadLogStore,
		GenerateID:  generateID,
		Now:         timeNow,
	}
	result, err := orchestrators.ExecuteProcessUpload(r.Context(), input, deps)
	if err != nil {
		if orchestrators.IsRejection(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		var persistErr *ledgerfile.PersistenceError
		if errors.As(err, &persistErr) {
			// The merge happened; only the flush failed. Report without
			// pretending the upload was lost.
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"week":    result.WeekLabel,
				"flushed": false,
				"error":   "ledger updated in memory but flush to disk failed",
			})
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"week":     result.WeekLabel,
		"rows":     result.RowCount,
		"students": len(result.Students),
		"flushed":  true,
	})
}

// layoutFromForm builds the check-pair layout from upload form values.
func layoutFromForm(r *http.Request) (layout.Layout, timesheet.Mode, error) {
	mode := timesheet.ModeInstants
	if r.FormValue("agg") == "elapsed" {
		mode = timesheet.ModeElapsed
	}

	var lay layout.Layout
	switch r.FormValue("mode") {
	case "", "named":
		lay = layout.Layout{
			Strategy:    layout.StrategyNamed,
			StartHeader: r.FormValue("start_col"),
			EndHeader:   r.FormValue("end_col"),
		}
	case "block":
		start, err := strconv.Atoi(r.FormValue("block_start"))
		if err != nil {
			return lay, mode, errBadParam("block_start")
		}
		end, err := strconv.Atoi(r.FormValue("block_end"))
		if err != nil {
			return lay, mode, errBadParam("block_end")
		}
		lay = layout.Layout{Strategy: layout.StrategyBlock, BlockStart: start, BlockEnd: end}
	case "pairs":
		spec := r.FormValue("pairs")
		if spec == "" && len(cfg.DefaultPairs) > 0 {
			lay = layout.Layout{Strategy: layout.StrategyOffsets, Pairs: cfg.DefaultPairs}
			break
		}
		pairs, err := layout.ParsePairs(spec)
		if err != nil {
			return lay, mode, err
		}
		lay = layout.Layout{Strategy: layout.StrategyOffsets, Pairs: pairs}
	default:
		return lay, mode, errBadParam("mode")
	}
	return lay, mode, nil
}

func handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	query := projections.GetOverviewQuery{
		Coach:            r.URL.Query().Get("coach"),
		ThresholdMinutes: cfg.ThresholdMinutes,
	}
	result, err := projections.QueryGetOverview(r.Context(), query, projections.GetOverviewDeps{
		LedgerStore: stores.LedgerStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func handleLedgerCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	l, err := stores.LedgerStore.Load(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="weekuren_cumulatief.csv"`)
	if err := ledgerfile.EncodeCSV(w, l); err != nil {
		slog.Error("ledger_csv_stream_failed", "error", err.Error())
	}
}

func handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	l, err := stores.LedgerStore.Load(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	if coach := r.URL.Query().Get("coach"); coach != "" {
		filtered := l.Clone()
		filtered.Rows = filtered.Rows[:0]
		for _, row := range l.Rows {
			if row.Coach == coach {
				filtered.Rows = append(filtered.Rows, row)
			}
		}
		l = filtered
	}
	pdfBytes, err := export.LedgerPDF(l, timeNow())
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="weekuren.pdf"`)
	w.Write(pdfBytes)
}

func handleCoach(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Naam  string `json:"naam"`
		Coach string `json:"coach"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	err := orchestrators.ExecuteAssignCoach(r.Context(),
		orchestrators.AssignCoachInput{Naam: input.Naam, Coach: input.Coach},
		orchestrators.AssignCoachDeps{LedgerStore: stores.LedgerStore})
	if err != nil {
		if errors.Is(err, ledger.ErrStudentNotFound) || errors.Is(err, ledger.ErrEmptyName) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := orchestrators.ExecuteResetLedger(r.Context(),
		orchestrators.ResetLedgerDeps{LedgerStore: stores.LedgerStore}); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func handleUploads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	result, err := projections.QueryGetUploadHistory(r.Context(),
		projections.GetUploadHistoryQuery{Week: r.URL.Query().Get("week"), Limit: limit},
		projections.GetUploadHistoryDeps{UploadLogStore: stores.UploadLogStore})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func handleSendReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var input struct {
		Week       string   `json:"week"`
		Recipients []string `json:"recipients"`
	}
	if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	recipients := input.Recipients
	if len(recipients) == 0 {
		recipients = cfg.ReportRecipients
	}
	result, err := orchestrators.ExecuteSendThresholdReport(r.Context(),
		orchestrators.SendThresholdReportInput{
			Week:             input.Week,
			Recipients:       recipients,
			ThresholdMinutes: cfg.ThresholdMinutes,
		},
		orchestrators.SendThresholdReportDeps{
			LedgerStore: stores.LedgerStore,
			Sender:      emailSender,
			From:        cfg.EmailFrom,
			ReplyTo:     cfg.EmailReplyTo,
			Now:         timeNow,
		})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
