// Package worker contains interface of background workers.
package worker

import (
	"context"

	"github.com/recolecta/recolecta/internal/health"
)

// Worker is a long-running background task.
type Worker interface {
	health.Pinger

	Run(ctx context.Context) error
}
