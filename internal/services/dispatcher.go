package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashboi005/bulk-email-sender/internal/provider"
	"github.com/ashboi005/bulk-email-sender/internal/store"
	"github.com/ashboi005/bulk-email-sender/internal/types"
)

const (
	// MaxRecipients is the upper bound on recipients per batch.
	MaxRecipients = 1000
	// ChunkSize mirrors the provider's per-call message limit.
	ChunkSize = provider.MaxBatchSize
	// chunkInterval is the pacing delay between consecutive provider calls.
	chunkInterval = time.Second

	genericSendError = "email delivery failed"
)

// ValidationError describes a malformed submission. It is returned
// synchronously from Start before any batch record is created.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// BatchDispatcher orchestrates chunking, rendering, provider calls, pacing
// and result aggregation. It is the only writer to a batch's store entry.
type BatchDispatcher struct {
	store     store.BatchStore
	client    provider.Client
	renderer  *TemplateRenderer
	newPacer  func() Pacer
	logger    *zap.Logger
	fromEmail string
	fromName  string

	wg sync.WaitGroup
}

// NewBatchDispatcher creates a dispatcher sending from the given identity.
// A nil newPacer uses the default one-second interval pacer.
func NewBatchDispatcher(batches store.BatchStore, client provider.Client, fromEmail, fromName string, logger *zap.Logger, newPacer func() Pacer) *BatchDispatcher {
	if newPacer == nil {
		newPacer = func() Pacer { return NewIntervalPacer(chunkInterval) }
	}
	return &BatchDispatcher{
		store:     batches,
		client:    client,
		renderer:  NewTemplateRenderer(),
		newPacer:  newPacer,
		logger:    logger,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Start validates the submission, creates the batch record and launches the
// chunk loop in the background. It returns the new batch id without waiting
// for any sending to happen. Recipients without a structurally valid email
// address are filtered out before chunking.
func (d *BatchDispatcher) Start(recipients []types.RecipientRecord, tmpl types.MessageTemplate) (string, error) {
	if err := d.validate(recipients, tmpl); err != nil {
		return "", err
	}

	valid := make([]types.RecipientRecord, 0, len(recipients))
	for _, rec := range recipients {
		if IsValidEmail(rec.Email()) {
			valid = append(valid, rec)
		}
	}
	if len(valid) == 0 {
		return "", validationErrorf("no recipients with a valid email address")
	}

	batch := types.Batch{
		ID:              uuid.New().String(),
		Status:          types.BatchStatusProcessing,
		Results:         []types.EmailOutcome{},
		TotalRecipients: len(valid),
		CreatedAt:       time.Now().UTC(),
	}
	if err := d.store.Create(batch); err != nil {
		return "", err
	}

	d.logger.Info("batch dispatch started",
		zap.String("batch_id", batch.ID),
		zap.Int("recipients", len(valid)),
		zap.Int("skipped_invalid", len(recipients)-len(valid)))

	d.wg.Add(1)
	go d.run(batch.ID, valid, tmpl)

	return batch.ID, nil
}

// Wait blocks until every in-flight batch has reached a terminal state.
// Used on shutdown and in tests; callers polling for progress use the store.
func (d *BatchDispatcher) Wait() {
	d.wg.Wait()
}

func (d *BatchDispatcher) validate(recipients []types.RecipientRecord, tmpl types.MessageTemplate) error {
	switch {
	case len(recipients) == 0:
		return validationErrorf("recipient list is empty")
	case len(recipients) > MaxRecipients:
		return validationErrorf("recipient list exceeds the %d recipient limit", MaxRecipients)
	case tmpl.Subject == "":
		return validationErrorf("subject is required")
	case tmpl.HTMLBody == "":
		return validationErrorf("html body is required")
	case d.fromEmail == "":
		return validationErrorf("sender email address is not configured")
	}
	return nil
}

// run is the per-batch chunk loop. Chunks are strictly sequential; the only
// suspension points are the provider call and the pacing wait. A provider
// failure marks its chunk's recipients failed and the loop continues; only a
// fault escaping the per-chunk handling marks the whole batch failed, with
// partial results preserved.
func (d *BatchDispatcher) run(id string, recipients []types.RecipientRecord, tmpl types.MessageTemplate) {
	defer d.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("batch dispatch aborted",
				zap.String("batch_id", id),
				zap.Any("panic", r))
			d.finish(id, types.BatchStatusFailed)
		}
	}()

	ctx := context.Background()
	pacer := d.newPacer()
	chunks := chunkRecipients(recipients, ChunkSize)

	for i, chunk := range chunks {
		outcomes := d.sendChunk(ctx, chunk, tmpl)

		ok := d.store.Update(id, func(b *types.Batch) {
			b.Results = append(b.Results, outcomes...)
			for _, outcome := range outcomes {
				if outcome.Status == types.OutcomeStatusSuccess {
					b.SuccessCount++
				} else {
					b.FailureCount++
				}
			}
		})
		if !ok {
			d.logger.Warn("batch disappeared mid-dispatch, stopping",
				zap.String("batch_id", id))
			return
		}

		if i < len(chunks)-1 {
			if err := pacer.Wait(ctx); err != nil {
				d.logger.Error("pacing wait failed",
					zap.String("batch_id", id),
					zap.Error(err))
				d.finish(id, types.BatchStatusFailed)
				return
			}
		}
	}

	d.finish(id, types.BatchStatusCompleted)
}

// sendChunk renders and sends one chunk and maps the provider response back
// to recipients by position. It never lets a provider error escape: a failed
// call marks every recipient in the chunk failed with the provider's error
// text.
func (d *BatchDispatcher) sendChunk(ctx context.Context, chunk []types.RecipientRecord, tmpl types.MessageTemplate) []types.EmailOutcome {
	messages := make([]provider.Message, len(chunk))
	for i, rec := range chunk {
		subject, html, text := d.renderer.RenderMessage(tmpl, rec)
		messages[i] = provider.Message{
			To:      rec.Email(),
			Subject: subject,
			HTML:    html,
			Text:    text,
		}
	}

	from := provider.Sender{Email: d.fromEmail, Name: d.fromName}
	if tmpl.FromDisplayName != "" {
		from.Name = tmpl.FromDisplayName
	}

	results, err := d.client.SendBatch(ctx, from, messages)
	if err != nil {
		d.logger.Error("provider call failed for chunk",
			zap.Error(err),
			zap.Int("chunk_size", len(chunk)))
		return failChunk(chunk, err.Error())
	}
	if len(results) != len(chunk) {
		// The port contract forbids this; treat it like an unmappable response.
		d.logger.Error("provider returned mismatched result count",
			zap.Int("results", len(results)),
			zap.Int("chunk_size", len(chunk)))
		return failChunk(chunk, genericSendError)
	}

	outcomes := make([]types.EmailOutcome, len(chunk))
	for i, rec := range chunk {
		if results[i].OK() {
			outcomes[i] = types.EmailOutcome{
				Email:             rec.Email(),
				Status:            types.OutcomeStatusSuccess,
				ProviderMessageID: results[i].ProviderMessageID,
			}
			continue
		}
		reason := results[i].Err
		if reason == "" {
			reason = genericSendError
		}
		outcomes[i] = types.EmailOutcome{
			Email:  rec.Email(),
			Status: types.OutcomeStatusFailed,
			Error:  reason,
		}
	}
	return outcomes
}

// finish writes the terminal status. processing -> completed and
// processing -> failed are the only legal transitions; a batch already in a
// terminal state is left untouched.
func (d *BatchDispatcher) finish(id string, status types.BatchStatus) {
	d.store.Update(id, func(b *types.Batch) {
		if b.Status.IsTerminal() {
			return
		}
		b.Status = status
	})
	d.logger.Info("batch dispatch finished",
		zap.String("batch_id", id),
		zap.String("status", status.String()))
}

func failChunk(chunk []types.RecipientRecord, reason string) []types.EmailOutcome {
	outcomes := make([]types.EmailOutcome, len(chunk))
	for i, rec := range chunk {
		outcomes[i] = types.EmailOutcome{
			Email:  rec.Email(),
			Status: types.OutcomeStatusFailed,
			Error:  reason,
		}
	}
	return outcomes
}

func chunkRecipients(recipients []types.RecipientRecord, size int) [][]types.RecipientRecord {
	var chunks [][]types.RecipientRecord
	for start := 0; start < len(recipients); start += size {
		end := start + size
		if end > len(recipients) {
			end = len(recipients)
		}
		chunks = append(chunks, recipients[start:end])
	}
	return chunks
}
