package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send one report email.
type SendRequest struct {
	To      []string // recipient addresses (coaches, coordinators)
	From    string   // sender address (e.g. "Weekuren <noreply@example.org>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // reply-to address
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // provider's message ID for tracking
	SentAt    time.Time // when the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
