package app

import (
	"go.uber.org/dig"

	"courier-dispatch/internal/config"
	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/logx"
	"courier-dispatch/internal/repository"
	"courier-dispatch/internal/service/availability"
)

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		repository.NewAvailabilityRepo,
		newRegistry,
		newStaleAvailabilityJob,
		newJobManager,
	)
}

func newStaleAvailabilityJob(r *availability.Registry, cfg *config.Config, logger logx.Logger) *jobs.StaleAvailabilityJob {
	return jobs.NewStaleAvailabilityJob(r, cfg.Availability.SweepSchedule, cfg.Dispatch.OperationTimeout, logger)
}

func newJobManager(stale *jobs.StaleAvailabilityJob) *jobs.Manager {
	return jobs.NewManager(stale)
}
