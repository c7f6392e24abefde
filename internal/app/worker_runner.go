package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/logx"
)

// WorkerRunner runs the scheduled background jobs
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the jobs using the provided DI container and blocks until shutdown
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	manager *jobs.Manager,
) error {
	if manager == nil {
		return fmt.Errorf("job manager is nil: worker container misconfigured")
	}
	defer closeWorker(pool)

	if err := manager.StartAll(); err != nil {
		return err
	}
	logger.Info("service-dispatch-worker started")

	<-ctx.Done()
	logger.Info("shutting down service-dispatch-worker...")
	manager.StopAll()
	return ctx.Err()
}

func closeWorker(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
