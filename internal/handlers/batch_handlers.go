package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashboi005/bulk-email-sender/internal/services"
	"github.com/ashboi005/bulk-email-sender/internal/types"
)

// BatchHandler exposes the dispatch and status endpoints.
type BatchHandler struct {
	dispatcher *services.BatchDispatcher
	reporter   *services.StatusReporter
	renderer   *services.TemplateRenderer
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(dispatcher *services.BatchDispatcher, reporter *services.StatusReporter) *BatchHandler {
	return &BatchHandler{
		dispatcher: dispatcher,
		reporter:   reporter,
		renderer:   services.NewTemplateRenderer(),
	}
}

// SubmitBatch godoc
// @Summary      Submit a batch for dispatch
// @Description  Validates the submission, starts sending in the background and returns the batch id immediately
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        request  body      SubmitBatchRequest  true  "Recipients and message template"
// @Success      202      {object}  SubmitBatchResponse
// @Failure      400      {object}  ErrorResponse  "Validation error"
// @Failure      500      {object}  ErrorResponse
// @Router       /batches [post]
func (h *BatchHandler) SubmitBatch(c *gin.Context) {
	var req SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tmpl := types.MessageTemplate{
		Subject:         req.Subject,
		HTMLBody:        req.HTMLBody,
		TextBody:        req.TextBody,
		FromDisplayName: req.FromDisplayName,
	}

	batchID, err := h.dispatcher.Start(req.Recipients, tmpl)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			sendError(c, http.StatusBadRequest, vErr.Reason, err)
			return
		}
		sendError(c, http.StatusInternalServerError, "Failed to start batch", err)
		return
	}

	sendSuccess(c, http.StatusAccepted, SubmitBatchResponse{BatchID: batchID})
}

// GetBatchStatus godoc
// @Summary      Get batch progress
// @Description  Returns status, per-recipient results and progress for a batch; batches older than 24h are swept and report not found
// @Tags         batches
// @Produce      json
// @Param        batch_id  path      string  true  "Batch ID"
// @Success      200       {object}  types.BatchProgress
// @Failure      404       {object}  ErrorResponse  "Unknown or swept batch"
// @Router       /batches/{batch_id} [get]
func (h *BatchHandler) GetBatchStatus(c *gin.Context) {
	batchID := c.Param("batch_id")

	progress, ok := h.reporter.BatchProgress(batchID)
	if !ok {
		sendError(c, http.StatusNotFound, "Batch not found", nil)
		return
	}

	sendSuccess(c, http.StatusOK, progress)
}

// PreviewBatch godoc
// @Summary      Preview the rendered message
// @Description  Renders the template against the first recipient and reports which recipients would be skipped, using the same renderer and validation as dispatch
// @Tags         batches
// @Accept       json
// @Produce      json
// @Param        request  body      PreviewRequest  true  "Recipients and message template"
// @Success      200      {object}  PreviewResponse
// @Failure      400      {object}  ErrorResponse
// @Router       /batches/preview [post]
func (h *BatchHandler) PreviewBatch(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Recipients) == 0 {
		sendError(c, http.StatusBadRequest, "recipient list is empty", nil)
		return
	}

	validCount := 0
	invalid := []string{}
	for _, rec := range req.Recipients {
		if services.IsValidEmail(rec.Email()) {
			validCount++
		} else {
			invalid = append(invalid, rec.Email())
		}
	}

	first := req.Recipients[0]
	resp := PreviewResponse{
		Subject:       h.renderer.Render(req.Subject, first),
		HTMLBody:      h.renderer.Render(req.HTMLBody, first),
		ValidCount:    validCount,
		InvalidEmails: invalid,
	}
	if req.TextBody != "" {
		resp.TextBody = h.renderer.Render(req.TextBody, first)
	}

	sendSuccess(c, http.StatusOK, resp)
}
