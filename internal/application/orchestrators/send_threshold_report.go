package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"weekuren/internal/adapters/email"
	"weekuren/internal/domain/timesheet"
)

// Domain errors.
var (
	ErrNoWeeks      = errors.New("ledger has no week columns yet")
	ErrWeekNotFound = errors.New("week label not found in ledger")
	ErrNoRecipients = errors.New("report needs at least one recipient")
)

// SendThresholdReportInput selects the week to report on.
// PRE: Recipients is non-empty; Week empty means the most recently
// introduced week column.
type SendThresholdReportInput struct {
	Week             string
	Recipients       []string
	ThresholdMinutes float64
}

// SendThresholdReportResult summarizes what was sent.
type SendThresholdReportResult struct {
	Week       string
	ShortCount int
	Sent       bool
	MessageID  string
}

// SendThresholdReportDeps holds external dependencies for the report.
type SendThresholdReportDeps struct {
	LedgerStore LedgerStore
	Sender      email.Sender
	From        string
	ReplyTo     string
	Now         func() time.Time
}

// mdRenderer renders the report body. Raw HTML in the markdown is escaped
// (WithUnsafe is NOT set), so student names cannot inject markup.
var mdRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// ExecuteSendThresholdReport emails the list of students under the weekly
// hours threshold for one week column. Students with an empty or
// unparseable cell count as below threshold, matching the neutral
// classification rule.
// POST: no email is sent when every student met the threshold
func ExecuteSendThresholdReport(ctx context.Context, input SendThresholdReportInput, deps SendThresholdReportDeps) (SendThresholdReportResult, error) {
	if len(input.Recipients) == 0 {
		return SendThresholdReportResult{}, ErrNoRecipients
	}

	l, err := deps.LedgerStore.Load(ctx)
	if err != nil {
		return SendThresholdReportResult{}, err
	}
	if len(l.Weeks) == 0 {
		return SendThresholdReportResult{}, ErrNoWeeks
	}

	week := input.Week
	if week == "" {
		week = l.Weeks[len(l.Weeks)-1]
	} else if !l.HasWeek(week) {
		return SendThresholdReportResult{}, ErrWeekNotFound
	}

	type shortRow struct {
		naam, coach, value string
	}
	var short []shortRow
	for _, row := range l.Rows {
		value := row.Cells[week]
		minutes, ok := timesheet.ParseClock(value)
		if !ok || minutes < input.ThresholdMinutes {
			short = append(short, shortRow{naam: row.Naam, coach: row.Coach, value: value})
		}
	}

	result := SendThresholdReportResult{Week: week, ShortCount: len(short)}
	if len(short) == 0 {
		slog.Info("threshold_report_skipped", "week", week)
		return result, nil
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Weekuren onder de norm (%s)\n\n", week)
	fmt.Fprintf(&md, "%d student(en) onder %s uur deze week.\n\n", len(short), timesheet.FormatMinutes(input.ThresholdMinutes))
	md.WriteString("| Naam | Coach | Uren |\n|---|---|---|\n")
	for _, s := range short {
		value := s.value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&md, "| %s | %s | %s |\n", s.naam, s.coach, value)
	}

	var html bytes.Buffer
	if err := mdRenderer.Convert([]byte(md.String()), &html); err != nil {
		return result, fmt.Errorf("report render failed: %w", err)
	}

	sent, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      input.Recipients,
		From:    deps.From,
		Subject: fmt.Sprintf("Weekuren onder de norm (%s)", week),
		HTML:    html.String(),
		ReplyTo: deps.ReplyTo,
	})
	if err != nil {
		return result, err
	}

	result.Sent = true
	result.MessageID = sent.MessageID
	slog.Info("threshold_report_sent", "week", week, "short", len(short), "message_id", sent.MessageID)
	return result, nil
}
