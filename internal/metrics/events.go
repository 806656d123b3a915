package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
	"github.com/osse101/ItemVault_Go/internal/logger"
)

// EventMetricsCollector subscribes to item notification events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every item notification type
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, t := range domain.NotificationTypes() {
		bus.Subscribe(event.ItemEventType(t), e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	n, ok := evt.Payload.(domain.Notification)
	if !ok {
		log.Debug(LogMsgEventPayloadNotNotification, "type", evt.Type)
		return nil
	}

	NotificationsPublished.WithLabelValues(string(n.Type)).Inc()
	if n.Type == domain.NotifyError {
		ItemErrors.WithLabelValues(strconv.Itoa(int(n.Code))).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

// ForwardObserver counts NATS forwarding outcomes.
type ForwardObserver struct{}

// Forwarded records one forwarding attempt.
func (ForwardObserver) Forwarded(err error) {
	NotificationsForwarded.WithLabelValues(Result(err)).Inc()
}
