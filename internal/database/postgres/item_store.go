// Package postgres implements the item and account stores on PostgreSQL with
// hand-written pgx queries.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/repository"
)

// ItemStore implements repository.ItemStore for PostgreSQL
type ItemStore struct {
	pool *pgxpool.Pool
}

// NewItemStore creates a new ItemStore
func NewItemStore(pool *pgxpool.Pool) *ItemStore {
	return &ItemStore{pool: pool}
}

var _ repository.ItemStore = (*ItemStore)(nil)

// CreateItem inserts an ephemeral item and returns a copy carrying its uid.
func (s *ItemStore) CreateItem(ctx context.Context, ownerID int64, item *domain.Item) (*domain.Item, error) {
	created := item.Clone()
	if created.CreationTime == 0 {
		created.CreationTime = time.Now().Unix()
	}
	args := insertArgs(ownerID, created)
	if err := s.pool.QueryRow(ctx, queryInsertItem, args...).Scan(&created.UID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateItem, err)
	}
	return created, nil
}

// SplitItem writes the reduced source amount and inserts the split-off stack
// into its destination group in one transaction.
func (s *ItemStore) SplitItem(ctx context.Context, ownerID int64, item *domain.Item, amount int, group domain.ItemGroup) (*domain.Item, error) {
	if item.UID == 0 {
		return nil, errors.New(ErrMsgSplitUnpersisted)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	tag, err := tx.Exec(ctx, queryUpdateAmount, item.UID, item.Amount-amount)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSplitItem, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%s: uid %d", ErrMsgSplitSourceMissing, item.UID)
	}

	split := item.Clone()
	split.UID = 0
	split.Amount = amount
	split.Slot = -1
	split.Group = group
	if err := tx.QueryRow(ctx, queryInsertItem, insertArgs(ownerID, split)...).Scan(&split.UID); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSplitItem, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return split, nil
}

// SaveItems upserts every item in one batch inside a transaction, so a save
// either lands completely or not at all.
func (s *ItemStore) SaveItems(ctx context.Context, ownerID int64, items ...*domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		if item.UID == 0 {
			return fmt.Errorf("%s: item %d", ErrMsgSaveUnpersisted, item.ItemID)
		}
		batch.Queue(queryUpsertItem, append([]any{item.UID}, insertArgs(ownerID, item)...)...)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveItems, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// DeleteItems removes records by uid. Unknown uids are ignored.
func (s *ItemStore) DeleteItems(ctx context.Context, uids ...int64) error {
	if len(uids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx, queryDeleteItems, uids); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteItems, err)
	}
	return nil
}

// GetInventory loads a character's bag items.
func (s *ItemStore) GetInventory(ctx context.Context, characterID int64) ([]*domain.Item, error) {
	groups, err := s.GetItemGroups(ctx, characterID, domain.GroupInventory)
	if err != nil {
		return nil, err
	}
	return groups[domain.GroupInventory], nil
}

// GetItemGroups loads the items of the given groups owned by ownerID. Every
// requested group has an entry, possibly empty.
func (s *ItemStore) GetItemGroups(ctx context.Context, ownerID int64, groups ...domain.ItemGroup) (map[domain.ItemGroup][]*domain.Item, error) {
	out := make(map[domain.ItemGroup][]*domain.Item, len(groups))
	ids := make([]int16, 0, len(groups))
	for _, g := range groups {
		out[g] = nil
		ids = append(ids, int16(g))
	}

	rows, err := s.pool.Query(ctx, querySelectGroups, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryItems, err)
	}
	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanItem, err)
	}

	for _, item := range items {
		out[item.Group] = append(out[item.Group], item)
	}
	return out, nil
}

// GetStorage loads an account's storage items.
func (s *ItemStore) GetStorage(ctx context.Context, accountID int64) ([]*domain.Item, error) {
	groups, err := s.GetItemGroups(ctx, accountID, domain.GroupStorage)
	if err != nil {
		return nil, err
	}
	return groups[domain.GroupStorage], nil
}

// insertArgs returns the column values of queryInsertItem in order.
func insertArgs(ownerID int64, item *domain.Item) []any {
	var boundCharacter, boundAccount *int64
	if item.Binding != nil {
		boundCharacter = &item.Binding.CharacterID
		boundAccount = &item.Binding.AccountID
	}
	return []any{
		ownerID,
		item.ItemID,
		int16(item.Rarity),
		item.Amount,
		int16(item.Slot),
		int16(item.Group),
		int16(item.EquipSlot),
		int32(item.Transfer.Flag),
		item.Transfer.RemainTrades,
		boundCharacter,
		boundAccount,
		item.ExpiryTime,
		item.CreationTime,
	}
}

func scanItem(row pgx.CollectableRow) (*domain.Item, error) {
	var (
		item                         domain.Item
		ownerID                      int64
		rarity, slot, group, equip   int16
		flag                         int32
		boundCharacter, boundAccount *int64
	)
	err := row.Scan(
		&item.UID, &ownerID, &item.ItemID, &rarity, &item.Amount, &slot, &group, &equip,
		&flag, &item.Transfer.RemainTrades, &boundCharacter, &boundAccount,
		&item.ExpiryTime, &item.CreationTime,
	)
	if err != nil {
		return nil, err
	}
	item.Rarity = int(rarity)
	item.Slot = int(slot)
	item.Group = domain.ItemGroup(group)
	item.EquipSlot = domain.EquipSlot(equip)
	item.Transfer.Flag = domain.TransferFlag(flag)
	if boundCharacter != nil {
		item.Binding = &domain.ItemBinding{CharacterID: *boundCharacter}
		if boundAccount != nil {
			item.Binding.AccountID = *boundAccount
		}
	}
	return &item, nil
}
