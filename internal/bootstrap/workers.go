package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/scheduler"
	"github.com/osse101/ItemVault_Go/internal/session"
	"github.com/osse101/ItemVault_Go/internal/worker"
)

// InitializeJobs starts the worker pool and schedules the autosave and
// expiry sweeps over registry. The scheduler is returned started.
func InitializeJobs(cfg *config.Config, registry *session.Registry) (*worker.Pool, *scheduler.Scheduler, error) {
	pool := worker.NewPool(cfg.AutosaveWorkers, cfg.AutosaveWorkers*WorkerQueueFactor)
	sched := scheduler.New(pool)

	if _, err := sched.Schedule(cfg.AutosaveSchedule, worker.NewAutosaveJob(registry)); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedScheduleJob, err)
	}
	if _, err := sched.Schedule(cfg.ExpirySchedule, worker.NewExpiryJob(registry)); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedScheduleJob, err)
	}

	pool.Start()
	sched.Start()
	slog.Info(LogMsgJobsScheduled,
		"workers", cfg.AutosaveWorkers,
		"autosave", cfg.AutosaveSchedule,
		"expiry", cfg.ExpirySchedule)

	return pool, sched, nil
}
