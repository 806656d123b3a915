package event

import "time"

const (
	EventSchemaVersion     = "1.0"
	MetadataKeyCharacterID = "character_id"
)

// Retry queue and dead-letter file.
const (
	RetryQueueBufferSize      = 1000
	DeadLetterFilePermissions = 0644
	DeadLetterMaxLineBytes    = 1 << 20
)

// NATS forwarding. Subjects look like items.<character_id>.<type>.
const (
	SubjectPrefix     = "items"
	NATSMaxReconnects = 10
	NATSReconnectWait = time.Second
	NATSClientName    = "item-vault"
)

const (
	ErrMsgOpenDeadLetter  = "failed to open dead-letter file"
	ErrMsgNotNotification = "event payload is not an item notification"

	LogMsgEventPublishFailed    = "Item event publish failed, queued for retry"
	LogMsgRetryQueueFull        = "Retry queue full, item event dead-lettered"
	LogMsgDeadLetterWriteFailed = "Failed to append dead-letter record"
	LogMsgEventDeadLettered     = "Item event dead-lettered"
	LogMsgEventRetryExhausted   = "Item event retries exhausted"
	LogMsgEventRetryFailed      = "Item event retry failed"
	LogMsgEventRetrySucceeded   = "Item event delivered on retry"
	LogMsgEventDroppedShutdown  = "Item event undeliverable at shutdown"
	LogMsgQueueDrainedShutdown  = "Retry queue drained"
	LogMsgShutdownTimeout       = "Event publisher shutdown timed out"

	LogMsgNATSConnected     = "Connected to NATS"
	LogMsgNATSDisconnected  = "NATS connection lost"
	LogMsgNATSReconnected   = "NATS connection restored"
	LogMsgForwardFailed     = "Failed to forward item notification"
	LogMsgForwardBadPayload = "Item event payload is not a notification"

	LogMsgHandlerErrorFormat = "%d handlers failed for event %s: %w"
)
