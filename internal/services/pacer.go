package services

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer inserts the fixed wait between consecutive provider calls.
type Pacer interface {
	Wait(ctx context.Context) error
}

// intervalPacer spaces every Wait a full interval apart using a rate
// limiter. The limiter's initial token is drained at construction so the
// first Wait already blocks for the interval.
type intervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer creates a pacer that blocks for interval on every Wait.
func NewIntervalPacer(interval time.Duration) Pacer {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	limiter.Allow()
	return &intervalPacer{limiter: limiter}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
