package handler

// Client-facing error messages. These never expose internal error details.
const (
	ErrMsgUnknownError          = "Unknown error"
	ErrMsgGenericServerError    = "Something went wrong"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidCharacterID    = "Invalid character id"
	ErrMsgUnknownItem           = "Unknown item id"
	ErrMsgUnknownTab            = "Unknown inventory type"
)

// Success messages returned by command endpoints without a payload
const (
	MsgSessionOpened = "Session opened"
	MsgSessionClosed = "Session closed"
	MsgSessionSaved  = "Session saved"
	MsgCommandDone   = "OK"
)

// Operation names used in logs and error responses
const (
	OpOpenSession        = "Open session"
	OpCloseSession       = "Close session"
	OpSaveSession        = "Save session"
	OpGetSession         = "Get session"
	OpAddItem            = "Add item"
	OpMoveItem           = "Move item"
	OpRemoveItem         = "Remove item"
	OpConsumeItem        = "Consume item"
	OpConsumeIngredients = "Consume ingredients"
	OpDiscardItem        = "Discard item"
	OpSortInventory      = "Sort inventory"
	OpExpandInventory    = "Expand inventory"
	OpListTab            = "List inventory tab"
	OpEquip              = "Equip item"
	OpUnequip            = "Unequip item"
	OpEquipBadge         = "Equip badge"
	OpUnequipBadge       = "Unequip badge"
	OpDeposit            = "Deposit item"
	OpWithdraw           = "Withdraw item"
	OpDepositMesos       = "Deposit mesos"
	OpWithdrawMesos      = "Withdraw mesos"
	OpSortStorage        = "Sort storage"
	OpExpandStorage      = "Expand storage"
	OpAddFurnishing      = "Add furnishing"
	OpPlaceFurnishing    = "Place furnishing"
	OpRetrieveFurnishing = "Retrieve furnishing"
	OpRemoveFurnishing   = "Remove furnishing"
	OpExpandFurnishing   = "Expand furnishing"
	OpArchiveCosmetic    = "Archive cosmetic"
	OpApplyCosmetic      = "Apply cosmetic"
	OpDeleteCosmetic     = "Delete cosmetic"
	OpExpandBeauty       = "Expand beauty"
)
