// Package tasks defines the asynq task types used by the background worker.
package tasks

import "github.com/hibiken/asynq"

const (
	// TypeRetentionSweep triggers one retention sweep of posts and chat
	// messages. The payload is empty; the sweep computes its own cutoff.
	TypeRetentionSweep = "retention:sweep"
)

// NewRetentionSweepTask creates a retention sweep task.
func NewRetentionSweepTask() *asynq.Task {
	return asynq.NewTask(TypeRetentionSweep, nil)
}
