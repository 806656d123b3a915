package domain

import "errors"

// ErrorKind classifies a failure for callers that must decide how to react:
// validation, capacity and economy failures are user-triggerable and leave
// state untouched, persistence failures may leave in-memory state ahead of
// the store, invariant violations signal corruption.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindCapacity
	KindEconomy
	KindPersistence
	KindInvariant
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCapacity:
		return "capacity"
	case KindEconomy:
		return "economy"
	case KindPersistence:
		return "persistence"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// ErrorCode is the client-visible code sent with an error notification.
type ErrorCode int

const (
	CodeNone               ErrorCode = 0
	CodeItemNotFound       ErrorCode = 1001
	CodeInvalidSlot        ErrorCode = 1002
	CodeInvalidTab         ErrorCode = 1003
	CodeInactiveTab        ErrorCode = 1004
	CodeInvalidEquipSlot   ErrorCode = 1005
	CodeWrongCategory      ErrorCode = 1006
	CodeItemExpired        ErrorCode = 1007
	CodeItemBound          ErrorCode = 1008
	CodeInvalidAmount      ErrorCode = 1009
	CodeInsufficientAmount ErrorCode = 1010
	CodeInvalidBadge       ErrorCode = 1011
	CodeSlotOccupied       ErrorCode = 1012
	CodeDuplicateItem      ErrorCode = 1013
	CodeNothingEquipped    ErrorCode = 1014
	CodeInvalidExpansion   ErrorCode = 1015
	CodeInvalidInput       ErrorCode = 1016
	CodeSessionNotFound    ErrorCode = 1017
	CodeAccountInUse       ErrorCode = 1018
	CodeInventoryFull      ErrorCode = 2001
	CodeStackFull          ErrorCode = 2002
	CodeExpansionCap       ErrorCode = 2003
	CodeStorageFull        ErrorCode = 2004
	CodeInsufficientFunds  ErrorCode = 3001
	CodeBalanceLimit       ErrorCode = 3002
	CodeStoreFailure       ErrorCode = 4001
	CodeInvariant          ErrorCode = 5001
	CodeSessionPoisoned    ErrorCode = 5002
)

// Error message string constants - single source of truth for error messages
const (
	ErrMsgItemNotFound        = "item not found"
	ErrMsgInvalidSlot         = "invalid slot"
	ErrMsgInvalidTab          = "invalid inventory type"
	ErrMsgInactiveTab         = "inventory tab is not active"
	ErrMsgInvalidEquipSlot    = "invalid equip slot"
	ErrMsgWrongCategory       = "item category does not match request"
	ErrMsgItemExpired         = "item has expired"
	ErrMsgItemBound           = "item is bound to another character"
	ErrMsgInvalidAmount       = "invalid amount"
	ErrMsgInsufficientAmount  = "insufficient quantity"
	ErrMsgInvalidBadge        = "invalid badge"
	ErrMsgSlotOccupied        = "slot is occupied"
	ErrMsgDuplicateItem       = "item already present"
	ErrMsgNothingEquipped     = "nothing equipped"
	ErrMsgInvalidExpansion    = "invalid expansion size"
	ErrMsgInvalidInput        = "invalid input"
	ErrMsgSessionNotFound     = "session not found"
	ErrMsgAccountInUse        = "account already has an open session"
	ErrMsgInventoryFull       = "inventory is full"
	ErrMsgCollectionFull      = "no free slot"
	ErrMsgStackFull           = "stack is full"
	ErrMsgExpansionCap        = "expansion limit reached"
	ErrMsgStorageFull         = "storage is full"
	ErrMsgInsufficientFunds   = "insufficient funds"
	ErrMsgBalanceLimit        = "balance limit exceeded"
	ErrMsgStoreCreateFailed   = "failed to create item record"
	ErrMsgStoreSplitFailed    = "failed to split item record"
	ErrMsgStoreSaveFailed     = "failed to save items"
	ErrMsgStoreLoadFailed     = "failed to load items"
	ErrMsgStoreDeleteFailed   = "failed to delete items"
	ErrMsgInvariantViolation  = "invariant violation"
	ErrMsgSessionPoisoned     = "session is no longer usable"
	ErrMsgTxClosed            = "tx is closed"
	ErrMsgAccountUpdateFailed = "failed to update account"
)

// Error is a classified domain error. Sentinels below are compared with
// errors.Is; wrap them with fmt.Errorf("%w: ...", domain.ErrX) for context.
type Error struct {
	Kind ErrorKind
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind ErrorKind, code ErrorCode, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

// Validation errors
var (
	ErrItemNotFound         = newError(KindValidation, CodeItemNotFound, ErrMsgItemNotFound)
	ErrInvalidSlot          = newError(KindValidation, CodeInvalidSlot, ErrMsgInvalidSlot)
	ErrInvalidInventoryType = newError(KindValidation, CodeInvalidTab, ErrMsgInvalidTab)
	ErrInactiveTab          = newError(KindValidation, CodeInactiveTab, ErrMsgInactiveTab)
	ErrInvalidEquipSlot     = newError(KindValidation, CodeInvalidEquipSlot, ErrMsgInvalidEquipSlot)
	ErrWrongCategory        = newError(KindValidation, CodeWrongCategory, ErrMsgWrongCategory)
	ErrItemExpired          = newError(KindValidation, CodeItemExpired, ErrMsgItemExpired)
	ErrItemBoundToOther     = newError(KindValidation, CodeItemBound, ErrMsgItemBound)
	ErrInvalidAmount        = newError(KindValidation, CodeInvalidAmount, ErrMsgInvalidAmount)
	ErrInsufficientQuantity = newError(KindValidation, CodeInsufficientAmount, ErrMsgInsufficientAmount)
	ErrInvalidBadge         = newError(KindValidation, CodeInvalidBadge, ErrMsgInvalidBadge)
	ErrSlotOccupied         = newError(KindValidation, CodeSlotOccupied, ErrMsgSlotOccupied)
	ErrDuplicateItem        = newError(KindValidation, CodeDuplicateItem, ErrMsgDuplicateItem)
	ErrNothingEquipped      = newError(KindValidation, CodeNothingEquipped, ErrMsgNothingEquipped)
	ErrInvalidExpansion     = newError(KindValidation, CodeInvalidExpansion, ErrMsgInvalidExpansion)
	ErrInvalidInput         = newError(KindValidation, CodeInvalidInput, ErrMsgInvalidInput)
	ErrSessionNotFound      = newError(KindValidation, CodeSessionNotFound, ErrMsgSessionNotFound)
	ErrAccountInUse         = newError(KindValidation, CodeAccountInUse, ErrMsgAccountInUse)
)

// Capacity errors
var (
	ErrInventoryFull  = newError(KindCapacity, CodeInventoryFull, ErrMsgInventoryFull)
	ErrCollectionFull = newError(KindCapacity, CodeInventoryFull, ErrMsgCollectionFull)
	ErrStackFull      = newError(KindCapacity, CodeStackFull, ErrMsgStackFull)
	ErrExpansionLimit = newError(KindCapacity, CodeExpansionCap, ErrMsgExpansionCap)
	ErrStorageFull    = newError(KindCapacity, CodeStorageFull, ErrMsgStorageFull)
)

// Economy errors
var (
	ErrInsufficientFunds = newError(KindEconomy, CodeInsufficientFunds, ErrMsgInsufficientFunds)
	ErrBalanceLimit      = newError(KindEconomy, CodeBalanceLimit, ErrMsgBalanceLimit)
)

// Persistence errors
var (
	ErrStoreCreateFailed   = newError(KindPersistence, CodeStoreFailure, ErrMsgStoreCreateFailed)
	ErrStoreSplitFailed    = newError(KindPersistence, CodeStoreFailure, ErrMsgStoreSplitFailed)
	ErrStoreSaveFailed     = newError(KindPersistence, CodeStoreFailure, ErrMsgStoreSaveFailed)
	ErrStoreLoadFailed     = newError(KindPersistence, CodeStoreFailure, ErrMsgStoreLoadFailed)
	ErrStoreDeleteFailed   = newError(KindPersistence, CodeStoreFailure, ErrMsgStoreDeleteFailed)
	ErrAccountUpdateFailed = newError(KindPersistence, CodeStoreFailure, ErrMsgAccountUpdateFailed)
)

// Invariant errors
var (
	ErrInvariantViolation = newError(KindInvariant, CodeInvariant, ErrMsgInvariantViolation)
	ErrSessionPoisoned    = newError(KindInvariant, CodeSessionPoisoned, ErrMsgSessionPoisoned)
)

// KindOf returns the classification of err, looking through wrapping.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the client-visible code of err, looking through wrapping.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeNone
}

// IsFatal reports whether err signals corrupted state rather than a rejected command.
func IsFatal(err error) bool {
	return KindOf(err) == KindInvariant
}

// MessageOf returns the client-safe message of err: the message of the
// classified domain error it wraps, never the wrapped detail.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ErrMsgInvalidInput
}
