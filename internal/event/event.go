package event

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// ErrHandlerPanic wraps a recovered subscriber panic.
var ErrHandlerPanic = errors.New("event handler panicked")

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Session lifecycle event types
const (
	SessionOpened Type = "session.opened"
	SessionClosed Type = "session.closed"
	SessionSaved  Type = "session.saved"
)

// ItemEventType maps a notification type onto the bus event type carrying it.
func ItemEventType(t domain.NotificationType) Type {
	return Type(t)
}

// ItemEventTypes lists the bus types of every item notification.
func ItemEventTypes() []Type {
	types := domain.NotificationTypes()
	out := make([]Type, 0, len(types))
	for _, t := range types {
		out = append(out, ItemEventType(t))
	}
	return out
}

// SessionPayloadV1 is the typed payload for session lifecycle events
type SessionPayloadV1 struct {
	AccountID   int64 `json:"account_id"`
	CharacterID int64 `json:"character_id"`
	Timestamp   int64 `json:"timestamp"`
}

// NewItemNotificationEvent wraps an item delta for the bus. The character id
// travels in metadata so subscribers can route without decoding the payload.
func NewItemNotificationEvent(n domain.Notification) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ItemEventType(n.Type),
		Payload: n,
		Metadata: Metadata{
			MetadataKeyCharacterID: strconv.FormatInt(n.CharacterID, 10),
		},
	}
}

// NewSessionEvent creates a session lifecycle event
func NewSessionEvent(t Type, accountID, characterID, timestamp int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: SessionPayloadV1{
			AccountID:   accountID,
			CharacterID: characterID,
			Timestamp:   timestamp,
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus delivers events to subscribers.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus delivers events in-process, synchronously and in subscription
// order.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[Type][]Handler)}
}

// Publish runs every handler for event.Type even when earlier ones fail. The
// returned error joins each handler failure; a panicking handler counts as a
// failure.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := invoke(ctx, h, event); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errors.Join(errs...))
}

func invoke(ctx context.Context, h Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return h(ctx, event)
}

func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes one handler to several event types.
func (b *MemoryBus) SubscribeAll(types []Type, handler Handler) {
	for _, t := range types {
		b.Subscribe(t, handler)
	}
}
