package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// =============================================================================
// Logger Configuration
// =============================================================================

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingItemVault   = "Starting ItemVault"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgEnvWarning          = "Environment warning"
)

// =============================================================================
// Store Configuration
// =============================================================================

const (
	LogMsgUsingMemoryStore   = "Using in-memory item store; items are not persisted"
	LogMsgMigrationsApplied  = "Database migrations applied"
	LogMsgItemCatalogLoaded  = "Item catalog loaded"
	ErrMsgFailedConnectDB    = "failed to connect to database"
	ErrMsgFailedMigrate      = "failed to migrate database"
	ErrMsgFailedLoadItems    = "failed to load items config"
	ErrMsgFailedCreateCache  = "failed to create item cache"
	ErrMsgUnknownStoreDriver = "unknown store driver"
	MemoryStoreFirstUID      = 1
)

// =============================================================================
// Event System Configuration
// =============================================================================

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	LogMsgMetricsCollectorRegistered     = "Metrics collector registered"
	LogMsgNATSForwarderRegistered        = "NATS forwarder registered"
	LogMsgNATSDisabled                   = "NATS_URL not set, notification forwarding disabled"
	LogMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	LogMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
	ErrMsgFailedRegisterMetrics          = "failed to register metrics collector"
	ErrMsgNATSNotConnected               = "nats not connected"
	ReadinessCheckNATS                   = "nats"
)

// =============================================================================
// Worker Configuration
// =============================================================================

const (
	// WorkerQueueFactor sizes the job queue relative to the worker count
	WorkerQueueFactor = 4

	LogMsgJobsScheduled     = "Background jobs scheduled"
	ErrMsgFailedScheduleJob = "failed to schedule job"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	// ShutdownTimeout bounds the whole graceful shutdown sequence
	ShutdownTimeout = 30 * time.Second

	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgStoppingScheduler          = "Stopping scheduler..."
	LogMsgClosingSessions            = "Saving and closing sessions..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgSessionCloseFailed         = "Some sessions could not be saved on shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgNATSDrainFailed            = "NATS drain failed"
)
