package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"courier-dispatch/internal/logx"
)

type staleSweeper interface {
	SweepStale(ctx context.Context) (int64, error)
}

// StaleAvailabilityJob switches off couriers whose heartbeat went quiet.
type StaleAvailabilityJob struct {
	sweeper  staleSweeper
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   logx.Logger
}

// NewStaleAvailabilityJob creates the sweep job. schedule is a cron spec or a
// descriptor such as "@every 30s".
func NewStaleAvailabilityJob(sweeper staleSweeper, schedule string, timeout time.Duration, logger logx.Logger) *StaleAvailabilityJob {
	if logger == nil {
		logger = logx.Nop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &StaleAvailabilityJob{
		sweeper:  sweeper,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(logx.String("component", "stale_availability_job")),
	}
}

// Name implements Job.
func (j *StaleAvailabilityJob) Name() string { return "stale_availability" }

// Start schedules the sweep.
func (j *StaleAvailabilityJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.RunOnce); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("job started", logx.String("schedule", j.schedule))
	return nil
}

// RunOnce performs one sweep.
func (j *StaleAvailabilityJob) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.sweeper.SweepStale(ctx); err != nil {
		j.logger.Error("stale availability sweep failed", logx.Err(err))
	}
}

// Stop stops scheduling and waits for a running sweep to finish.
func (j *StaleAvailabilityJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("job stopped")
}
