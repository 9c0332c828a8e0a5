package handlers

import "github.com/ashboi005/bulk-email-sender/internal/types"

// Request Types

type SubmitBatchRequest struct {
	Recipients      []types.RecipientRecord `json:"recipients"`
	Subject         string                  `json:"subject"`
	HTMLBody        string                  `json:"htmlBody"`
	TextBody        string                  `json:"textBody,omitempty"`
	FromDisplayName string                  `json:"fromDisplayName,omitempty"`
}

type PreviewRequest struct {
	Recipients []types.RecipientRecord `json:"recipients" binding:"required"`
	Subject    string                  `json:"subject" binding:"required"`
	HTMLBody   string                  `json:"htmlBody" binding:"required"`
	TextBody   string                  `json:"textBody,omitempty"`
}

// Response Types

type SubmitBatchResponse struct {
	BatchID string `json:"batch_id"`
}

type PreviewResponse struct {
	Subject       string   `json:"subject"`
	HTMLBody      string   `json:"html_body"`
	TextBody      string   `json:"text_body,omitempty"`
	ValidCount    int      `json:"valid_count"`
	InvalidEmails []string `json:"invalid_emails"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
