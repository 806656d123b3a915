package postgres

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
)

// Error Messages - Item Operations
const (
	ErrMsgFailedToCreateItem  = "failed to create item"
	ErrMsgFailedToSplitItem   = "failed to split item"
	ErrMsgFailedToSaveItems   = "failed to save items"
	ErrMsgFailedToDeleteItems = "failed to delete items"
	ErrMsgFailedToQueryItems  = "failed to query items"
	ErrMsgFailedToScanItem    = "failed to scan item"
	ErrMsgSplitUnpersisted    = "cannot split an item that has no uid"
	ErrMsgSplitSourceMissing  = "split source item does not exist"
	ErrMsgSaveUnpersisted     = "cannot save an item that has no uid"
)

// Error Messages - Account Operations
const (
	ErrMsgFailedToLoadAccount      = "failed to load account state"
	ErrMsgFailedToLoadExpansions   = "failed to load expansions"
	ErrMsgFailedToBuyExpansion     = "failed to purchase expansion"
	ErrMsgFailedToSaveBalances     = "failed to save balances"
	ErrMsgCharacterAccountMismatch = "character belongs to another account"
	ErrMsgAccountNotFound          = "account not found"
)

const itemColumns = `uid, owner_id, item_id, rarity, amount, slot, item_group, equip_slot,
	transfer_flag, remain_trades, bound_character_id, bound_account_id, expiry_time, creation_time`

const (
	queryInsertItem = `INSERT INTO items (owner_id, item_id, rarity, amount, slot, item_group, equip_slot,
	transfer_flag, remain_trades, bound_character_id, bound_account_id, expiry_time, creation_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING uid`

	queryUpdateAmount = `UPDATE items SET amount = $2, updated_at = NOW() WHERE uid = $1`

	queryUpsertItem = `INSERT INTO items (uid, owner_id, item_id, rarity, amount, slot, item_group, equip_slot,
	transfer_flag, remain_trades, bound_character_id, bound_account_id, expiry_time, creation_time)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (uid) DO UPDATE SET
	owner_id           = EXCLUDED.owner_id,
	amount             = EXCLUDED.amount,
	slot               = EXCLUDED.slot,
	item_group         = EXCLUDED.item_group,
	equip_slot         = EXCLUDED.equip_slot,
	transfer_flag      = EXCLUDED.transfer_flag,
	remain_trades      = EXCLUDED.remain_trades,
	bound_character_id = EXCLUDED.bound_character_id,
	bound_account_id   = EXCLUDED.bound_account_id,
	expiry_time        = EXCLUDED.expiry_time,
	updated_at         = NOW()`

	queryDeleteItems = `DELETE FROM items WHERE uid = ANY($1)`

	querySelectGroups = `SELECT ` + itemColumns + ` FROM items
WHERE owner_id = $1 AND item_group = ANY($2) AND amount > 0
ORDER BY item_group, slot, uid`
)

const (
	queryEnsureAccount = `INSERT INTO accounts (account_id) VALUES ($1) ON CONFLICT DO NOTHING`

	queryEnsureCharacter = `INSERT INTO characters (character_id, account_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	querySelectBalances = `SELECT a.meret, a.storage_mesos, c.meso, c.account_id
FROM characters c JOIN accounts a ON a.account_id = $1
WHERE c.character_id = $2`

	querySelectExpansions = `SELECT expansion_key, extra_slots FROM account_expansions WHERE account_id = $1`

	queryUpsertExpansion = `INSERT INTO account_expansions (account_id, expansion_key, extra_slots)
VALUES ($1, $2, $3)
ON CONFLICT (account_id, expansion_key) DO UPDATE SET extra_slots = EXCLUDED.extra_slots`

	queryUpdateAccountBalances = `UPDATE accounts SET meret = $2, storage_mesos = $3, updated_at = NOW() WHERE account_id = $1`

	queryUpdateAccountMeret = `UPDATE accounts SET meret = $2, updated_at = NOW() WHERE account_id = $1`

	queryUpdateCharacterMeso = `UPDATE characters SET meso = $2, updated_at = NOW() WHERE character_id = $1`
)
