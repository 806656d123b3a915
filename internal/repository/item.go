package repository

import (
	"context"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// ItemStore is the persistence contract of the item engine. Every call is
// synchronous and fallible.
type ItemStore interface {
	// CreateItem persists an ephemeral item and returns it with its durable UID.
	CreateItem(ctx context.Context, ownerID int64, item *domain.Item) (*domain.Item, error)
	// SplitItem persists a new record holding amount units split off item,
	// stored under ownerID in group with no slot. The stored amount of item is
	// reduced by the same amount in the same write.
	SplitItem(ctx context.Context, ownerID int64, item *domain.Item, amount int, group domain.ItemGroup) (*domain.Item, error)
	// SaveItems upserts the current state of items under ownerID.
	SaveItems(ctx context.Context, ownerID int64, items ...*domain.Item) error
	// DeleteItems removes records by UID.
	DeleteItems(ctx context.Context, uids ...int64) error

	// GetInventory loads a character's bag items.
	GetInventory(ctx context.Context, characterID int64) ([]*domain.Item, error)
	// GetItemGroups loads the items of the given groups owned by ownerID.
	GetItemGroups(ctx context.Context, ownerID int64, groups ...domain.ItemGroup) (map[domain.ItemGroup][]*domain.Item, error)
	// GetStorage loads an account's storage items.
	GetStorage(ctx context.Context, accountID int64) ([]*domain.Item, error)
}
