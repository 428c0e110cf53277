package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
)

// sweeper is the slice of RetentionService the handler needs.
type sweeper interface {
	Sweep(ctx context.Context, now time.Time) error
}

// RetentionSweepHandler processes retention sweep tasks.
type RetentionSweepHandler struct {
	retention sweeper
}

// NewRetentionSweepHandler creates a RetentionSweepHandler.
func NewRetentionSweepHandler(retention sweeper) *RetentionSweepHandler {
	return &RetentionSweepHandler{retention: retention}
}

// ProcessTask runs one sweep. Returning the error lets asynq retry; the
// sweep being idempotent makes retries safe.
func (h *RetentionSweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	return h.retention.Sweep(ctx, time.Now())
}
