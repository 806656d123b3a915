package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Notification metric names
const (
	MetricNameNotificationsPublished = "item_notifications_published_total"
	MetricNameNotificationsForwarded = "item_notifications_forwarded_total"
	MetricNameItemErrors             = "item_errors_total"
)

// Engine metric names
const (
	MetricNameItemOperations = "item_operations_total"
	MetricNameStoreDuration  = "item_store_duration_seconds"
	MetricNameActiveSessions = "item_sessions_active"
	MetricNameAutosaveRuns   = "item_autosave_runs_total"
	MetricNameExpiredItems   = "item_expired_removed_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Notification metric help text
const (
	HelpTextNotificationsPublished = "Total number of item notifications published"
	HelpTextNotificationsForwarded = "Total number of item notifications forwarded to NATS"
	HelpTextItemErrors             = "Total number of failed item operations by error code"
)

// Engine metric help text
const (
	HelpTextItemOperations = "Total number of item manager operations"
	HelpTextStoreDuration  = "Item store call latency in seconds"
	HelpTextActiveSessions = "Current number of open item sessions"
	HelpTextAutosaveRuns   = "Total number of session autosave runs"
	HelpTextExpiredItems   = "Total number of expired items removed by the sweep"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelContainer = "container"
	LabelOperation = "operation"
	LabelResult    = "result"
	LabelCode      = "code"
)

// Result label values
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// StoreLatencyBuckets defines the histogram buckets for store calls in seconds.
var StoreLatencyBuckets = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadNotNotification = "Event payload is not an item notification"
	LogMsgMetricsRecorded             = "Metrics recorded for event"
)

// UnmatchedRoute labels requests no route matched
const UnmatchedRoute = "unmatched"
