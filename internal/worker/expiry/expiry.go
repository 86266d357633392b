// Package expiry contains the worker which revisits claims after the
// collection window and reconciles unapplied rating increments. Expiry
// is driven by the durable claimed_at column rather than in-process
// timers, so it survives restarts.
package expiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/recolecta/recolecta/internal/service"
	"github.com/recolecta/recolecta/internal/storage"
	"github.com/recolecta/recolecta/internal/worker"
)

var log = logrus.WithField("package", "expiry")

const sweepBatchSize = 100

type expiry struct {
	s   storage.Storage
	srv service.Service

	claimTTL     time.Duration
	pollInterval time.Duration

	mu        sync.Mutex
	lastSweep time.Time
}

// New creates new instance of expiry worker.
func New(s storage.Storage, srv service.Service, claimTTL, pollInterval time.Duration) worker.Worker {
	return &expiry{
		s:            s,
		srv:          srv,
		claimTTL:     claimTTL,
		pollInterval: pollInterval,
	}
}

func (w *expiry) Run(ctx context.Context) error {
	t := time.NewTicker(w.pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := w.sweepWithRetry(ctx); err != nil {
				// a post may be stuck claimed until the next tick succeeds
				log.WithError(err).Error("sweep failed")
			}
		}
	}
}

func (w *expiry) sweepWithRetry(ctx context.Context) error {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)

	return backoff.Retry(func() error {
		return w.sweep(ctx)
	}, b)
}

func (w *expiry) sweep(ctx context.Context) error {
	if err := w.releaseExpiredClaims(ctx); err != nil {
		return err
	}

	if err := w.applyPendingRatings(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastSweep = time.Now()
	w.mu.Unlock()

	return nil
}

func (w *expiry) releaseExpiredClaims(ctx context.Context) error {
	cc, err := w.s.ListExpiredClaims(ctx, time.Now().Add(-w.claimTTL), sweepBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list expired claims: %w", err)
	}

	for _, c := range cc {
		if err := w.srv.ReleaseExpiredClaim(ctx, c.PostUUID, c.ClaimedBy, c.ClaimedAt); err != nil {
			return fmt.Errorf("failed to release claim of post %s: %w", c.PostUUID, err)
		}
	}

	return nil
}

func (w *expiry) applyPendingRatings(ctx context.Context) error {
	rr, err := w.s.ListPendingRatings(ctx, sweepBatchSize)
	if err != nil {
		return fmt.Errorf("failed to list pending ratings: %w", err)
	}

	for _, r := range rr {
		if err := w.s.IncrementRatingCounter(ctx, r.Owner, r.Rating, r.PostUUID); err != nil {
			return fmt.Errorf("failed to increment rating counter for post %s: %w", r.PostUUID, err)
		}

		log.WithField("post", r.PostUUID).Info("applied pending rating")
	}

	return nil
}

func (w *expiry) Ping(_ context.Context) (interface{}, error) {
	w.mu.Lock()
	last := w.lastSweep
	w.mu.Unlock()

	if last.IsZero() {
		return nil, nil
	}

	if d := time.Since(last); d > 10*w.pollInterval {
		return last, fmt.Errorf("last sweep was too long ago: %s", d)
	}

	return last, nil
}

func (w *expiry) Name() string {
	return "expiry worker"
}
