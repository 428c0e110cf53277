// Package worker runs the optional asynq background retention worker. It is
// only constructed when Redis is configured; the per-request sweep alone
// already satisfies the retention contract.
package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"feedchat/internal/service"
	"feedchat/internal/tasks"
)

// SweepSchedule is how often the scheduler enqueues a retention sweep.
const SweepSchedule = "@every 10m"

// WorkerServer wraps the asynq server and scheduler for the retention sweep.
type WorkerServer struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	retention *service.RetentionService
	log       *logrus.Entry
}

// NewWorkerServer creates a WorkerServer handling periodic retention sweeps.
func NewWorkerServer(redisOpt asynq.RedisClientOpt, retention *service.RetentionService, logger *logrus.Logger) *WorkerServer {
	if retention == nil {
		panic("RetentionService cannot be nil for WorkerServer")
	}
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 2,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	return &WorkerServer{
		server:    server,
		scheduler: scheduler,
		retention: retention,
		log:       logEntry,
	}
}

// Start runs the worker server and the periodic scheduler. Call from its own
// goroutine.
func (ws *WorkerServer) Start() {
	mux := asynq.NewServeMux()
	handler := NewRetentionSweepHandler(ws.retention)
	mux.HandleFunc(tasks.TypeRetentionSweep, handler.ProcessTask)

	entryID, err := ws.scheduler.Register(SweepSchedule, tasks.NewRetentionSweepTask())
	if err != nil {
		ws.log.Errorf("Could not register periodic retention sweep: %v", err)
	} else {
		ws.log.Infof("Periodic retention sweep registered with schedule '%s' (EntryID: %s)", SweepSchedule, entryID)
	}
	go func() {
		if err := ws.scheduler.Run(); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Errorf("Asynq scheduler Run() failed: %v", err)
		}
	}()

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
		ws.log.Fatalf("Could not run worker server: %v", err)
	}
	ws.log.Info("Worker server stopped.")
}

// Shutdown stops the scheduler and the worker server gracefully.
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.scheduler.Shutdown()
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
