package types

import (
	"strings"
	"time"
)

// BatchStatus represents the processing state of a dispatch batch.
type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
)

func (s BatchStatus) String() string { return string(s) }

// IsTerminal reports whether the batch has reached a final state.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed
}

// OutcomeStatus represents the per-recipient delivery result.
type OutcomeStatus string

const (
	OutcomeStatusSuccess OutcomeStatus = "success"
	OutcomeStatusFailed  OutcomeStatus = "failed"
)

// RecipientRecord is one row of the uploaded recipient list. Field names map
// to template variables; the "email" field is the delivery address.
type RecipientRecord map[string]string

// Email returns the recipient's delivery address.
func (r RecipientRecord) Email() string {
	return strings.TrimSpace(r["email"])
}

// MessageTemplate is the operator-composed message applied to every recipient.
type MessageTemplate struct {
	Subject         string `json:"subject"`
	HTMLBody        string `json:"html_body"`
	TextBody        string `json:"text_body,omitempty"`
	FromDisplayName string `json:"from_display_name,omitempty"`
}

// EmailOutcome is the result of one delivery attempt, in recipient input order.
type EmailOutcome struct {
	Email             string        `json:"email"`
	Status            OutcomeStatus `json:"status"`
	ProviderMessageID string        `json:"provider_message_id,omitempty"`
	Error             string        `json:"error,omitempty"`
}

// Batch is one dispatch run covering one template against one recipient set.
type Batch struct {
	ID              string         `json:"id"`
	Status          BatchStatus    `json:"status"`
	Results         []EmailOutcome `json:"results"`
	SuccessCount    int            `json:"success_count"`
	FailureCount    int            `json:"failure_count"`
	TotalRecipients int            `json:"total_recipients"`
	CreatedAt       time.Time      `json:"created_at"`
}

// Clone returns a deep copy so callers never share the results slice with
// the stored record.
func (b Batch) Clone() Batch {
	out := b
	if b.Results != nil {
		out.Results = make([]EmailOutcome, len(b.Results))
		copy(out.Results, b.Results)
	}
	return out
}

// BatchProgress is the polling projection of a batch exposed by the status
// endpoint.
type BatchProgress struct {
	ID              string         `json:"id"`
	Status          BatchStatus    `json:"status"`
	Results         []EmailOutcome `json:"results"`
	SuccessCount    int            `json:"success_count"`
	FailureCount    int            `json:"failure_count"`
	ProgressPercent int            `json:"progress_percent"`
}
