package worker

import (
	"context"
	"time"

	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/metrics"
)

// SessionSaver saves every open session.
type SessionSaver interface {
	SaveAll(ctx context.Context) error
	Len() int
}

// ExpirySweeper removes expired items from every open session.
type ExpirySweeper interface {
	RemoveExpiredAll(ctx context.Context) int
}

// AutosaveJob periodically flushes open sessions so a crash loses at most
// one interval of item changes.
type AutosaveJob struct {
	sessions SessionSaver
}

// NewAutosaveJob creates an autosave job over sessions.
func NewAutosaveJob(sessions SessionSaver) *AutosaveJob {
	return &AutosaveJob{sessions: sessions}
}

// Name implements Job.
func (j *AutosaveJob) Name() string { return JobNameAutosave }

// Process saves every session. Failures are reported per session and do not
// stop the others from saving.
func (j *AutosaveJob) Process(ctx context.Context) error {
	start := time.Now()
	err := j.sessions.SaveAll(ctx)
	metrics.AutosaveRuns.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgAutosaveFailed, "error", err)
		return err
	}
	logger.FromContext(ctx).Debug(LogMsgAutosaveCompleted,
		"sessions", j.sessions.Len(),
		"duration", time.Since(start))
	return nil
}

// ExpiryJob sweeps expired items out of open sessions.
type ExpiryJob struct {
	sessions ExpirySweeper
}

// NewExpiryJob creates an expiry sweep job over sessions.
func NewExpiryJob(sessions ExpirySweeper) *ExpiryJob {
	return &ExpiryJob{sessions: sessions}
}

// Name implements Job.
func (j *ExpiryJob) Name() string { return JobNameExpiry }

// Process removes expired items and never fails.
func (j *ExpiryJob) Process(ctx context.Context) error {
	if removed := j.sessions.RemoveExpiredAll(ctx); removed > 0 {
		logger.FromContext(ctx).Info(LogMsgExpirySwept, "removed", removed)
	}
	return nil
}
