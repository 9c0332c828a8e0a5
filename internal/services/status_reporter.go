package services

import (
	"math"

	"github.com/ashboi005/bulk-email-sender/internal/store"
	"github.com/ashboi005/bulk-email-sender/internal/types"
)

// StatusReporter is the read-only projection of stored batches consumed by
// the polling status endpoint.
type StatusReporter struct {
	store store.BatchStore
}

// NewStatusReporter creates a reporter over the given store.
func NewStatusReporter(batches store.BatchStore) *StatusReporter {
	return &StatusReporter{store: batches}
}

// BatchProgress returns the progress summary for a batch, or false if the id
// is unknown or has been swept.
func (r *StatusReporter) BatchProgress(id string) (types.BatchProgress, bool) {
	batch, ok := r.store.Get(id)
	if !ok {
		return types.BatchProgress{}, false
	}

	return types.BatchProgress{
		ID:              batch.ID,
		Status:          batch.Status,
		Results:         batch.Results,
		SuccessCount:    batch.SuccessCount,
		FailureCount:    batch.FailureCount,
		ProgressPercent: progressPercent(batch),
	}, true
}

func progressPercent(batch types.Batch) int {
	if batch.TotalRecipients == 0 {
		return 0
	}
	done := batch.SuccessCount + batch.FailureCount
	return int(math.Round(100 * float64(done) / float64(batch.TotalRecipients)))
}
