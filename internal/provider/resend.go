package provider

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendClient delivers messages through the Resend API.
type ResendClient struct {
	client *resend.Client
	logger *zap.Logger
}

// NewResendClient creates a Resend-backed delivery client.
func NewResendClient(apiKey string, logger *zap.Logger) *ResendClient {
	return &ResendClient{
		client: resend.NewClient(apiKey),
		logger: logger,
	}
}

// SendBatch submits up to MaxBatchSize messages. Single-message calls go
// through the plain send endpoint (single-object response), larger calls
// through the batch endpoint (list response); both are normalized to one
// outcome per input position.
func (c *ResendClient) SendBatch(ctx context.Context, from Sender, messages []Message) ([]SendOutcome, error) {
	if len(messages) == 0 {
		return nil, nil
	}
	if len(messages) > MaxBatchSize {
		return nil, errors.Errorf("batch of %d exceeds provider limit of %d", len(messages), MaxBatchSize)
	}

	if len(messages) == 1 {
		return c.sendSingle(ctx, from, messages[0])
	}

	requests := make([]*resend.SendEmailRequest, len(messages))
	for i, msg := range messages {
		requests[i] = buildSendRequest(from, msg)
	}

	sent, err := c.client.Batch.SendWithContext(ctx, requests)
	if err != nil {
		c.logger.Error("resend batch send failed",
			zap.Error(err),
			zap.Int("messages", len(messages)))
		return nil, errors.Wrap(err, "resend batch send")
	}

	outcomes, err := normalizeBatchResponse(sent, len(messages))
	if err != nil {
		c.logger.Error("resend batch response could not be mapped to recipients",
			zap.Error(err),
			zap.Int("messages", len(messages)))
		return nil, err
	}
	return outcomes, nil
}

func (c *ResendClient) sendSingle(ctx context.Context, from Sender, msg Message) ([]SendOutcome, error) {
	sent, err := c.client.Emails.SendWithContext(ctx, buildSendRequest(from, msg))
	if err != nil {
		c.logger.Error("resend send failed",
			zap.Error(err),
			zap.String("to", msg.To))
		return nil, errors.Wrap(err, "resend send")
	}
	if sent == nil || sent.Id == "" {
		return []SendOutcome{{Err: "provider returned no message id"}}, nil
	}
	return []SendOutcome{{ProviderMessageID: sent.Id}}, nil
}

func buildSendRequest(from Sender, msg Message) *resend.SendEmailRequest {
	return &resend.SendEmailRequest{
		From:    FormatFrom(from),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		Headers: map[string]string{
			"X-Entity-Ref-ID": uuid.New().String(),
		},
		Tags: []resend.Tag{
			{Name: "category", Value: "bulk"},
		},
	}
}

// normalizeBatchResponse maps the batch endpoint's response to one outcome
// per input position. A response whose entry count does not match the input
// count cannot be positionally mapped and fails the whole chunk.
func normalizeBatchResponse(sent *resend.BatchEmailResponse, want int) ([]SendOutcome, error) {
	if sent == nil {
		return nil, errors.New("provider returned an empty response")
	}
	if len(sent.Data) != want {
		return nil, errors.Errorf("provider returned %d results for %d messages", len(sent.Data), want)
	}

	outcomes := make([]SendOutcome, want)
	for i, entry := range sent.Data {
		if entry.Id == "" {
			outcomes[i] = SendOutcome{Err: "provider returned no message id"}
			continue
		}
		outcomes[i] = SendOutcome{ProviderMessageID: entry.Id}
	}
	return outcomes, nil
}

// FormatFrom renders the sender identity as an RFC 5322 from header.
func FormatFrom(from Sender) string {
	if from.Name == "" {
		return from.Email
	}
	return fmt.Sprintf("%s <%s>", from.Name, from.Email)
}
