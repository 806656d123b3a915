package session

// Log messages
const (
	LogMsgSessionOpened      = "Item session opened"
	LogMsgSessionClosed      = "Item session closed"
	LogMsgSessionSaved       = "Item session saved"
	LogMsgSessionSaveFailed  = "Item session save failed"
	LogMsgSessionPoisoned    = "Item session poisoned by invariant violation"
	LogMsgSkipPoisonedSave   = "Skipping save of poisoned session"
	LogMsgNotifyPublishError = "Failed to publish item notification"
	LogMsgExpiredRemoved     = "Expired items removed"
)

// lockKeyPrefix namespaces the per-account open/close locks.
const lockKeyPrefix = "account:"
