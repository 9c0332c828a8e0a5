package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/ashboi005/bulk-email-sender/internal/handlers"
	"github.com/ashboi005/bulk-email-sender/internal/logger"
	"github.com/ashboi005/bulk-email-sender/internal/provider"
	"github.com/ashboi005/bulk-email-sender/internal/provider/mocks"
	"github.com/ashboi005/bulk-email-sender/internal/services"
	"github.com/ashboi005/bulk-email-sender/internal/store"
	"github.com/ashboi005/bulk-email-sender/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
	// Initialize logger for tests
	logger.InitLogger()
}

// nopPacer skips the inter-chunk delay in tests.
type nopPacer struct{}

func (nopPacer) Wait(context.Context) error { return nil }

type testEnv struct {
	router     *gin.Engine
	dispatcher *services.BatchDispatcher
	client     *mocks.MockClient
}

func newTestEnv(t *testing.T) *testEnv {
	client := mocks.NewMockClientForTest(t)
	batches := store.NewInMemoryBatchStore()
	dispatcher := services.NewBatchDispatcher(batches, client, "sender@example.com", "Sender",
		zap.NewNop(), func() services.Pacer { return nopPacer{} })
	handler := handlers.NewBatchHandler(dispatcher, services.NewStatusReporter(batches))

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/batches", handler.SubmitBatch)
	v1.POST("/batches/preview", handler.PreviewBatch)
	v1.GET("/batches/:batch_id", handler.GetBatchStatus)

	return &testEnv{router: router, dispatcher: dispatcher, client: client}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func echoSuccess(_ context.Context, _ provider.Sender, messages []provider.Message) ([]provider.SendOutcome, error) {
	outcomes := make([]provider.SendOutcome, len(messages))
	for i := range messages {
		outcomes[i] = provider.SendOutcome{ProviderMessageID: "msg-" + messages[i].To}
	}
	return outcomes, nil
}

func TestSubmitBatch_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitBatch_ValidationErrorIsSpecific(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/batches", handlers.SubmitBatchRequest{
		Recipients: []types.RecipientRecord{},
		Subject:    "Hi",
		HTMLBody:   "<p>Hi</p>",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "recipient list is empty", resp.Error)
}

func TestSubmitBatch_AcceptedThenCompleted(t *testing.T) {
	env := newTestEnv(t)
	env.client.EXPECT().
		SendBatch(gomock.Any(), gomock.Any(), gomock.Len(2)).
		DoAndReturn(echoSuccess)

	rec := env.do(t, http.MethodPost, "/api/v1/batches", handlers.SubmitBatchRequest{
		Recipients: []types.RecipientRecord{
			{"email": "ann@example.com", "name": "Ann"},
			{"email": "bob@example.com", "name": "Bob"},
		},
		Subject:  "Hello {{name}}",
		HTMLBody: "<p>Hi {{name}}</p>",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	var submitted handlers.SubmitBatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	require.NotEmpty(t, submitted.BatchID)

	env.dispatcher.Wait()

	statusRec := env.do(t, http.MethodGet, "/api/v1/batches/"+submitted.BatchID, nil)
	require.Equal(t, http.StatusOK, statusRec.Code)

	var progress types.BatchProgress
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &progress))
	assert.Equal(t, types.BatchStatusCompleted, progress.Status)
	assert.Equal(t, 2, progress.SuccessCount)
	assert.Equal(t, 0, progress.FailureCount)
	assert.Equal(t, 100, progress.ProgressPercent)
	require.Len(t, progress.Results, 2)
	assert.Equal(t, "ann@example.com", progress.Results[0].Email)
}

func TestGetBatchStatus_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/batches/unknown-id", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewBatch_RendersFirstRecipient(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/batches/preview", handlers.PreviewRequest{
		Recipients: []types.RecipientRecord{
			{"email": "ann@example.com", "name": "Ann"},
			{"email": "bad-address"},
		},
		Subject:  `Hello {{name|"Friend"}}`,
		HTMLBody: "<p>Hi {{name}}</p>",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello Ann", resp.Subject)
	assert.Equal(t, "<p>Hi Ann</p>", resp.HTMLBody)
	assert.Equal(t, 1, resp.ValidCount)
	assert.Equal(t, []string{"bad-address"}, resp.InvalidEmails)
}

func TestPreviewBatch_MissingTemplateFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/batches/preview", map[string]any{
		"recipients": []types.RecipientRecord{{"email": "ann@example.com"}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
