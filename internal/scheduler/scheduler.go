// Package scheduler triggers worker jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/worker"
)

// Scheduler enqueues jobs into a worker pool on cron schedules. A tick that
// finds the pool queue full is skipped rather than piling up behind a slow run.
type Scheduler struct {
	cron *cron.Cron
	pool *worker.Pool
}

// New creates a scheduler feeding pool.
func New(pool *worker.Pool) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithParser(config.ScheduleParser), cron.WithLogger(cronLogger{})),
		pool: pool,
	}
}

// Schedule registers job under a cron spec such as "@every 5m",
// "*/10 * * * *" or, with seconds, "*/30 * * * * *".
func (s *Scheduler) Schedule(spec string, job worker.Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		s.pool.TryEnqueue(job)
	})
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q for %s: %w", spec, job.Name(), err)
	}
	logger.FromContext(context.Background()).Info(LogMsgJobScheduled, "job", job.Name(), "schedule", spec)
	return id, nil
}

// Entries returns the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start begins firing schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops firing schedules. Jobs already handed to the pool are not
// affected.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger routes cron's own logging through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.FromContext(context.Background()).Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.FromContext(context.Background()).Error(msg, append(keysAndValues, "error", err)...)
}
