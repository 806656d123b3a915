package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
)

// Publisher is the subset of *nats.Conn the forwarder needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ForwardObserver is told the outcome of every forward attempt.
type ForwardObserver interface {
	Forwarded(err error)
}

type noopObserver struct{}

func (noopObserver) Forwarded(error) {}

// NATSForwarder relays item notifications from the bus to NATS so clients
// outside the process can follow a character's item deltas.
type NATSForwarder struct {
	conn     Publisher
	observer ForwardObserver
}

// NewNATSForwarder creates a forwarder. A nil observer is allowed.
func NewNATSForwarder(conn Publisher, observer ForwardObserver) *NATSForwarder {
	if observer == nil {
		observer = noopObserver{}
	}
	return &NATSForwarder{conn: conn, observer: observer}
}

// Subject returns the subject a character's notification is published on.
func Subject(characterID int64, t domain.NotificationType) string {
	return fmt.Sprintf("%s.%d.%s", SubjectPrefix, characterID, t)
}

// Register subscribes the forwarder to every item notification type
func (f *NATSForwarder) Register(bus Bus) {
	for _, t := range ItemEventTypes() {
		bus.Subscribe(t, f.HandleEvent)
	}
}

// HandleEvent publishes one item notification. Publish failures are logged
// and counted but never fail the bus, so a NATS outage cannot block commands.
func (f *NATSForwarder) HandleEvent(ctx context.Context, evt Event) error {
	log := logger.FromContext(ctx)

	n, err := NotificationFrom(evt)
	if err != nil {
		log.Warn(LogMsgForwardBadPayload, "type", evt.Type, "error", err)
		return nil
	}

	data, err := json.Marshal(n)
	if err == nil {
		err = f.conn.Publish(Subject(n.CharacterID, n.Type), data)
	}
	f.observer.Forwarded(err)
	if err != nil {
		log.Warn(LogMsgForwardFailed, "type", n.Type, "character_id", n.CharacterID, "error", err)
	}
	return nil
}

// ConnectNATS dials NATS with reconnect handling. An empty url disables
// forwarding and returns a nil connection.
func ConnectNATS(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	log := logger.FromContext(context.Background())
	nc, err := nats.Connect(url,
		nats.Name(NATSClientName),
		nats.MaxReconnects(NATSMaxReconnects),
		nats.ReconnectWait(NATSReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn(LogMsgNATSDisconnected, "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info(LogMsgNATSReconnected, "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info(LogMsgNATSConnected, "url", nc.ConnectedUrl())
	return nc, nil
}
