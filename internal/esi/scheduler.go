package esi

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Scheduler enforces a minimum delay between upstream requests.
// Each Client owns its own Scheduler, so independent clients never throttle each other.
// The first request is released immediately.
type Scheduler struct {
	limiter  *rate.Limiter
	minDelay time.Duration
}

// NewScheduler creates a scheduler that spaces requests at least minDelay apart.
// A non-positive delay disables throttling.
func NewScheduler(minDelay time.Duration) *Scheduler {
	if minDelay <= 0 {
		return &Scheduler{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Scheduler{
		limiter:  rate.NewLimiter(rate.Every(minDelay), 1),
		minDelay: minDelay,
	}
}

// Wait blocks until the next request slot or until ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

// MinDelay returns the configured spacing between requests.
func (s *Scheduler) MinDelay() time.Duration {
	if s == nil {
		return 0
	}
	return s.minDelay
}
