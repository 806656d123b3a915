package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Notification Metrics
var (
	NotificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNotificationsPublished,
			Help: HelpTextNotificationsPublished,
		},
		[]string{LabelType},
	)

	NotificationsForwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNotificationsForwarded,
			Help: HelpTextNotificationsForwarded,
		},
		[]string{LabelResult},
	)

	ItemErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemErrors,
			Help: HelpTextItemErrors,
		},
		[]string{LabelCode},
	)
)

// Engine Metrics
var (
	ItemOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemOperations,
			Help: HelpTextItemOperations,
		},
		[]string{LabelContainer, LabelOperation, LabelResult},
	)

	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameStoreDuration,
			Help:    HelpTextStoreDuration,
			Buckets: StoreLatencyBuckets,
		},
		[]string{LabelOperation},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveSessions,
			Help: HelpTextActiveSessions,
		},
	)

	AutosaveRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAutosaveRuns,
			Help: HelpTextAutosaveRuns,
		},
		[]string{LabelResult},
	)

	ExpiredItemsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameExpiredItems,
			Help: HelpTextExpiredItems,
		},
	)
)

// ObserveStore records the latency of one store call started at start.
func ObserveStore(operation string, start time.Time) {
	StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// Result maps an error to a result label value.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
