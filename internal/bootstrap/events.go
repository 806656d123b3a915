package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nats-io/nats.go"

	"github.com/osse101/ItemVault_Go/internal/config"
	"github.com/osse101/ItemVault_Go/internal/event"
	"github.com/osse101/ItemVault_Go/internal/handler"
	"github.com/osse101/ItemVault_Go/internal/metrics"
)

// EventSystem is the notification pipeline. Sessions publish to Publisher,
// which retries failed deliveries on Bus and dead-letters what it cannot
// deliver. NATS is nil when forwarding is disabled.
type EventSystem struct {
	Bus       *event.MemoryBus
	Publisher *event.ResilientPublisher
	NATS      *nats.Conn
}

// InitializeEventSystem creates the event bus and resilient publisher and
// subscribes the metrics collector and, when NATS_URL is set, the NATS
// forwarder.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	bus := event.NewMemoryBus()

	maxRetries := cfg.EventMaxRetries
	if maxRetries <= 0 {
		maxRetries = config.DefaultEventMaxRetries
	}
	retryDelay := cfg.EventRetryDelay
	if retryDelay <= 0 {
		retryDelay = config.DefaultEventRetryDelay
	}
	deadLetterPath := cfg.DeadLetterPath
	if deadLetterPath == "" {
		deadLetterPath = config.DefaultDeadLetterPath
	}

	if err := os.MkdirAll(filepath.Dir(deadLetterPath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	publisher, err := event.NewResilientPublisher(bus, maxRetries, retryDelay, deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	if err := metrics.NewEventMetricsCollector().Register(bus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	nc, err := event.ConnectNATS(cfg.NATSURL)
	if err != nil {
		_ = publisher.Shutdown(context.Background())
		return nil, err
	}
	if nc != nil {
		event.NewNATSForwarder(nc, metrics.ForwardObserver{}).Register(bus)
		slog.Info(LogMsgNATSForwarderRegistered, "url", nc.ConnectedUrl())
	} else {
		slog.Info(LogMsgNATSDisabled)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", maxRetries,
		"retry_delay", retryDelay,
		"deadletter_path", deadLetterPath)

	return &EventSystem{Bus: bus, Publisher: publisher, NATS: nc}, nil
}

// ReadinessChecks reports the NATS connection when forwarding is enabled. It
// is optional: commands keep working while NATS reconnects.
func (e *EventSystem) ReadinessChecks() []handler.Check {
	if e == nil || e.NATS == nil {
		return nil
	}
	nc := e.NATS
	return []handler.Check{{
		Name: ReadinessCheckNATS,
		Probe: func(context.Context) error {
			if !nc.IsConnected() {
				return fmt.Errorf("%s: %s", ErrMsgNATSNotConnected, nc.Status())
			}
			return nil
		},
	}}
}
