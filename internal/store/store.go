package store

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/ashboi005/bulk-email-sender/internal/types"
)

// ErrBatchExists is returned when creating a batch with an id that is
// already stored.
var ErrBatchExists = errors.New("batch already exists")

// BatchStore is keyed storage for batch state. A batch is written by exactly
// one dispatch loop and read by any number of concurrent status queries, so
// Update must apply its mutation as a single atomic read-modify-write and
// Get must return a snapshot a concurrent writer cannot touch.
type BatchStore interface {
	Create(batch types.Batch) error
	// Get returns a deep copy of the batch. Absence is a normal condition,
	// not an error.
	Get(id string) (types.Batch, bool)
	// Update atomically applies mutate to the stored batch. It reports
	// whether the id was present.
	Update(id string, mutate func(*types.Batch)) bool
	// DeleteOlderThan removes batches created before cutoff and returns how
	// many were removed.
	DeleteOlderThan(cutoff time.Time) int
}

// InMemoryBatchStore keeps batch state in process memory. State is lost on
// restart, which is acceptable for a 24h-retention dispatch log.
type InMemoryBatchStore struct {
	mu      sync.RWMutex
	batches map[string]types.Batch
}

// NewInMemoryBatchStore creates an empty in-memory batch store.
func NewInMemoryBatchStore() *InMemoryBatchStore {
	return &InMemoryBatchStore{
		batches: make(map[string]types.Batch),
	}
}

func (s *InMemoryBatchStore) Create(batch types.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.batches[batch.ID]; ok {
		return errors.Wrap(ErrBatchExists, batch.ID)
	}
	s.batches[batch.ID] = batch.Clone()
	return nil
}

func (s *InMemoryBatchStore) Get(id string) (types.Batch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch, ok := s.batches[id]
	if !ok {
		return types.Batch{}, false
	}
	return batch.Clone(), true
}

func (s *InMemoryBatchStore) Update(id string, mutate func(*types.Batch)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch, ok := s.batches[id]
	if !ok {
		return false
	}

	// Mutate a copy and swap the whole record so a reader holding an older
	// snapshot never observes a half-updated batch.
	next := batch.Clone()
	mutate(&next)
	s.batches[id] = next
	return true
}

func (s *InMemoryBatchStore) DeleteOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, batch := range s.batches {
		if batch.CreatedAt.Before(cutoff) {
			delete(s.batches, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored batches.
func (s *InMemoryBatchStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}
