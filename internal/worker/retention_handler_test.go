package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"feedchat/internal/tasks"
)

type fakeSweeper struct {
	calls int
	now   time.Time
	err   error
}

func (f *fakeSweeper) Sweep(_ context.Context, now time.Time) error {
	f.calls++
	f.now = now
	return f.err
}

func TestRetentionSweepHandler_ProcessTask(t *testing.T) {
	sweeper := &fakeSweeper{}
	handler := NewRetentionSweepHandler(sweeper)

	err := handler.ProcessTask(context.Background(), tasks.NewRetentionSweepTask())

	assert.NoError(t, err)
	assert.Equal(t, 1, sweeper.calls)
	assert.WithinDuration(t, time.Now(), sweeper.now, time.Second)
}

func TestRetentionSweepHandler_PropagatesErrorForRetry(t *testing.T) {
	sweeper := &fakeSweeper{err: assert.AnError}
	handler := NewRetentionSweepHandler(sweeper)

	err := handler.ProcessTask(context.Background(), tasks.NewRetentionSweepTask())

	assert.ErrorIs(t, err, assert.AnError)
}
