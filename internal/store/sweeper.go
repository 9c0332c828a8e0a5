package store

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ashboi005/bulk-email-sender/internal/logger"
)

// DefaultRetention is how long finished batches stay queryable before the
// sweep removes them.
const DefaultRetention = 24 * time.Hour

// Sweeper periodically removes batches older than the retention window.
// Once a batch is swept, the status endpoint reports it as not found.
type Sweeper struct {
	store     BatchStore
	retention time.Duration
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewSweeper creates a sweeper for the given store. A non-positive retention
// falls back to DefaultRetention.
func NewSweeper(store BatchStore, retention time.Duration) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Sweeper{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		logger:    logger.Log,
	}
}

// Start schedules the hourly sweep.
func (s *Sweeper) Start() {
	// @hourly is fine-grained enough for a 24h window.
	if _, err := s.cron.AddFunc("@hourly", s.Sweep); err != nil {
		s.logger.Error("failed to schedule batch sweep", zap.Error(err))
		return
	}
	s.cron.Start()
	s.logger.Info("batch retention sweep started",
		zap.Duration("retention", s.retention))
}

// Stop halts the schedule. A sweep already in flight runs to completion.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("batch retention sweep stopped")
}

// Sweep removes every batch older than the retention window.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.retention)
	removed := s.store.DeleteOlderThan(cutoff)
	if removed > 0 {
		s.logger.Info("swept expired batches",
			zap.Int("removed", removed),
			zap.Time("cutoff", cutoff))
	}
}
