package worker

import "errors"

// ErrPoolStopped is returned by Enqueue once the pool is stopping.
var ErrPoolStopped = errors.New("worker pool stopped")

// Job names
const (
	JobNameAutosave = "autosave"
	JobNameExpiry   = "expiry_sweep"
)

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

const (
	LogMsgWorkerJobStarted = "Worker job started"
	LogMsgWorkerJobFailed  = "Worker job failed"
	LogMsgWorkerQueueFull  = "Worker queue full, job skipped"
)

// ============================================================================
// Log Messages - Session Jobs
// ============================================================================

const (
	LogMsgAutosaveCompleted = "Autosave completed"
	LogMsgAutosaveFailed    = "Autosave finished with failures"
	LogMsgExpirySwept       = "Expired item sweep completed"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)
