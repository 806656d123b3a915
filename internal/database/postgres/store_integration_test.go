package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/database"
	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/testing/pgtest"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	ctx := context.Background()
	var pg *pgtest.Instance
	if !testing.Short() {
		var err error
		if pg, err = pgtest.Start(ctx, "itemvault"); err != nil {
			fmt.Printf("WARNING: %v\n", err)
		} else if testPool, err = migratedPool(ctx, pg.ConnString); err != nil {
			fmt.Printf("WARNING: %v\n", err)
		}
	}

	code := m.Run()

	if testPool != nil {
		testPool.Close()
	}
	pg.Stop(ctx)
	os.Exit(code)
}

func migratedPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := database.NewPool(ctx, connStr, 5, time.Minute, 5*time.Minute)
	if err != nil {
		return nil, err
	}
	if _, err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func requireDB(t *testing.T) {
	t.Helper()
	pgtest.Require(t, testPool != nil)
}

func newStoredItem(itemID, amount int) *domain.Item {
	return &domain.Item{
		ItemID:       itemID,
		Rarity:       1,
		Amount:       amount,
		Slot:         -1,
		Transfer:     domain.ItemTransfer{Flag: domain.TransferTradable | domain.TransferSplittable},
		CreationTime: time.Now().Unix(),
	}
}

func TestItemStore_Lifecycle(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	store := NewItemStore(testPool)
	const characterID int64 = 1001

	// CASE 1: Best Case - create assigns a uid without touching the input
	item := newStoredItem(20000001, 40)
	created, err := store.CreateItem(ctx, characterID, item)
	require.NoError(t, err)
	assert.NotZero(t, created.UID)
	assert.Zero(t, item.UID)

	// Save places it in the bag
	created.Group = domain.GroupInventory
	created.Slot = 3
	require.NoError(t, store.SaveItems(ctx, characterID, created))

	bag, err := store.GetInventory(ctx, characterID)
	require.NoError(t, err)
	require.Len(t, bag, 1)
	assert.Equal(t, created.UID, bag[0].UID)
	assert.Equal(t, 3, bag[0].Slot)
	assert.Equal(t, 40, bag[0].Amount)
	assert.Equal(t, created.Transfer, bag[0].Transfer)

	// Split carves off a new record and reduces the source
	split, err := store.SplitItem(ctx, characterID, created, 15, domain.GroupInventory)
	require.NoError(t, err)
	assert.NotEqual(t, created.UID, split.UID)
	assert.Equal(t, 15, split.Amount)

	var stored int
	require.NoError(t, testPool.QueryRow(ctx, `SELECT amount FROM items WHERE uid = $1`, created.UID).Scan(&stored))
	assert.Equal(t, 25, stored)

	// Delete removes both
	require.NoError(t, store.DeleteItems(ctx, created.UID, split.UID))
	bag, err = store.GetInventory(ctx, characterID)
	require.NoError(t, err)
	assert.Empty(t, bag)
}

func TestItemStore_GroupsAndBinding(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	store := NewItemStore(testPool)
	const characterID int64 = 1002

	ring, err := store.CreateItem(ctx, characterID, newStoredItem(11200001, 1))
	require.NoError(t, err)
	ring.Group = domain.GroupGear
	ring.EquipSlot = domain.EquipRing
	ring.Binding = &domain.ItemBinding{CharacterID: characterID, AccountID: 7}

	hair, err := store.CreateItem(ctx, characterID, newStoredItem(10200001, 1))
	require.NoError(t, err)
	hair.Group = domain.GroupOutfit
	hair.EquipSlot = domain.EquipHair

	require.NoError(t, store.SaveItems(ctx, characterID, ring, hair))

	groups, err := store.GetItemGroups(ctx, characterID, domain.GroupGear, domain.GroupOutfit, domain.GroupBadge)
	require.NoError(t, err)
	require.Len(t, groups[domain.GroupGear], 1)
	require.Len(t, groups[domain.GroupOutfit], 1)
	assert.Contains(t, groups, domain.GroupBadge)
	assert.Empty(t, groups[domain.GroupBadge])

	got := groups[domain.GroupGear][0]
	assert.Equal(t, domain.EquipRing, got.EquipSlot)
	require.NotNil(t, got.Binding)
	assert.Equal(t, characterID, got.Binding.CharacterID)
	assert.Nil(t, groups[domain.GroupOutfit][0].Binding)
}

func TestItemStore_Rejections(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	store := NewItemStore(testPool)

	_, err := store.SplitItem(ctx, 1, newStoredItem(1, 10), 5, domain.GroupInventory)
	assert.ErrorContains(t, err, ErrMsgSplitUnpersisted)

	ghost := newStoredItem(1, 10)
	ghost.UID = 999999999
	_, err = store.SplitItem(ctx, 1, ghost, 5, domain.GroupInventory)
	assert.ErrorContains(t, err, ErrMsgSplitSourceMissing)

	assert.ErrorContains(t, store.SaveItems(ctx, 1, newStoredItem(1, 1)), ErrMsgSaveUnpersisted)
	assert.NoError(t, store.DeleteItems(ctx))
}

func TestAccountStore_StateRoundTrip(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	store := NewAccountStore(testPool)
	const accountID, characterID int64 = 500, 5001

	// CASE 1: Best Case - first load creates empty balances
	state, err := store.GetAccountState(ctx, accountID, characterID)
	require.NoError(t, err)
	assert.Zero(t, state.Meso)
	assert.Empty(t, state.Expansions)

	state.Meret = 300
	state.Meso = 12000
	state.StorageMesos = 800
	require.NoError(t, store.SaveBalances(ctx, state))
	require.NoError(t, store.PurchaseExpansion(ctx, accountID, domain.ExpansionKeyStorage, 12, 250))
	require.NoError(t, store.PurchaseExpansion(ctx, accountID, domain.ExpansionKeyStorage, 24, 200))

	reloaded, err := store.GetAccountState(ctx, accountID, characterID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), reloaded.Meret, "each purchase stores the charged balance")
	assert.Equal(t, int64(12000), reloaded.Meso)
	assert.Equal(t, int64(800), reloaded.StorageMesos)
	assert.Equal(t, 24, reloaded.Expansion(domain.ExpansionKeyStorage))

	// CASE 4: Invalid Case - the character already belongs to accountID
	_, err = store.GetAccountState(ctx, accountID+1, characterID)
	assert.ErrorContains(t, err, ErrMsgCharacterAccountMismatch)
	assert.ErrorContains(t, store.PurchaseExpansion(ctx, accountID+99, domain.ExpansionKeyStorage, 6, 0), ErrMsgAccountNotFound)
}
