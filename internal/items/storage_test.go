package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

func TestStorageDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("whole stack moves", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.inventory = []*domain.Item{stored(1, metaPotion, 5, 0)}
		require.NoError(t, env.mgr.Inventory.Load(ctx))

		require.NoError(t, env.mgr.Storage.Deposit(ctx, 1, 5, 3))

		_, inBag := env.mgr.Inventory.Get(1)
		assert.False(t, inBag)
		items := env.mgr.Storage.Items()
		require.Len(t, items, 1)
		assert.Equal(t, int64(1), items[0].UID)
		assert.Equal(t, 3, items[0].Slot)
		assert.Equal(t, domain.GroupStorage, items[0].Group)
	})

	t.Run("partial amount splits", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.inventory = []*domain.Item{stored(1, metaPotion, 5, 0)}
		require.NoError(t, env.mgr.Inventory.Load(ctx))

		require.NoError(t, env.mgr.Storage.Deposit(ctx, 1, 2, -1))

		original, _ := env.mgr.Inventory.Get(1)
		assert.Equal(t, 3, original.Amount)
		items := env.mgr.Storage.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 2, items[0].Amount)
		assert.NotEqual(t, int64(1), items[0].UID)
	})

	t.Run("stacks onto stored items", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.inventory = []*domain.Item{stored(1, metaPotion, 4, 0)}
		env.store.storage = []*domain.Item{stored(2, metaPotion, 3, 0)}
		require.NoError(t, env.mgr.Inventory.Load(ctx))
		require.NoError(t, env.mgr.Storage.Load(ctx))

		require.NoError(t, env.mgr.Storage.Deposit(ctx, 1, 4, -1))

		items := env.mgr.Storage.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 7, items[0].Amount)
		assert.Equal(t, []int64{1}, env.mgr.Storage.PendingDeletes())
	})

	t.Run("full storage", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.inventory = []*domain.Item{stored(1, metaSword, 1, 0)}
		for i := 0; i < StorageBaseSize; i++ {
			env.store.storage = append(env.store.storage, stored(int64(100+i), metaShield, 1, i))
		}
		require.NoError(t, env.mgr.Inventory.Load(ctx))
		require.NoError(t, env.mgr.Storage.Load(ctx))

		err := env.mgr.Storage.Deposit(ctx, 1, 1, -1)

		assert.ErrorIs(t, err, domain.ErrStorageFull)
		_, inBag := env.mgr.Inventory.Get(1)
		assert.True(t, inBag)
	})
}

func TestStorageWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("into the bag", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.storage = []*domain.Item{stored(2, metaPotion, 6, 0)}
		require.NoError(t, env.mgr.Storage.Load(ctx))

		require.NoError(t, env.mgr.Storage.Withdraw(ctx, 2, 6, 4))

		item, ok := env.mgr.Inventory.Get(2)
		require.True(t, ok)
		assert.Equal(t, 4, item.Slot)
		assert.Equal(t, domain.GroupInventory, item.Group)
		assert.Empty(t, env.mgr.Storage.Items())
	})

	t.Run("partial amount", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.storage = []*domain.Item{stored(2, metaPotion, 6, 0)}
		require.NoError(t, env.mgr.Storage.Load(ctx))

		require.NoError(t, env.mgr.Storage.Withdraw(ctx, 2, 2, -1))

		assert.Equal(t, 2, env.mgr.Inventory.CountItem(metaPotion.ItemID))
		assert.Equal(t, 4, env.mgr.Storage.Items()[0].Amount)
	})

	t.Run("bound to another character", func(t *testing.T) {
		env := newTestEnv(t)
		item := stored(2, metaSword, 1, 0)
		item.Binding = &domain.ItemBinding{CharacterID: 99, AccountID: testAccountID}
		env.store.storage = []*domain.Item{item}
		require.NoError(t, env.mgr.Storage.Load(ctx))

		err := env.mgr.Storage.Withdraw(ctx, 2, 1, -1)

		assert.ErrorIs(t, err, domain.ErrItemBoundToOther)
		assert.Len(t, env.mgr.Storage.Items(), 1)
	})

	t.Run("bag full", func(t *testing.T) {
		env := newTestEnv(t)
		env.store.storage = []*domain.Item{stored(2, metaSword, 1, 0)}
		require.NoError(t, env.mgr.Storage.Load(ctx))
		for env.mgr.Inventory.OpenSlots(domain.InventoryGear) > 0 {
			env.give(t, metaShirt, 1, 1)
		}

		err := env.mgr.Storage.Withdraw(ctx, 2, 1, -1)

		assert.ErrorIs(t, err, domain.ErrInventoryFull)
		assert.Len(t, env.mgr.Storage.Items(), 1)
	})
}

func TestStorageDepositMesos_OverMaximumRejected(t *testing.T) {
	env := newTestEnv(t, func(s *domain.AccountState) { s.StorageMesos = StorageMaxMesos - 10 })
	ctx := context.Background()

	// ACT
	err := env.mgr.Storage.DepositMesos(ctx, 11)

	// ASSERT
	require.ErrorIs(t, err, domain.ErrBalanceLimit)
	assert.Equal(t, domain.KindEconomy, domain.KindOf(err))
	assert.Equal(t, int64(5000), env.mgr.Storage.Wallet.Meso())
	assert.Equal(t, StorageMaxMesos-10, env.mgr.Storage.Mesos())
	assert.Empty(t, env.notes.ofType(domain.NotifyCurrency))
	errs := env.notes.ofType(domain.NotifyError)
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeBalanceLimit, errs[0].Code)
	assert.Equal(t, OpDepositMeso, errs[0].Operation)
}

func TestStorageMesos(t *testing.T) {
	tests := []struct {
		name        string
		deposit     int64
		withdraw    int64
		wantWallet  int64
		wantStorage int64
		wantErr     error
	}{
		// CASE 1: Best Case
		{"deposit", 2000, 0, 3000, 2000, nil},
		{"deposit then withdraw", 2000, 500, 3500, 1500, nil},

		// CASE 2: Boundary
		{"deposit everything", 5000, 0, 0, 5000, nil},

		// CASE 4: Invalid Case
		{"deposit more than held", 5001, 0, 5000, 0, domain.ErrInsufficientFunds},
		{"withdraw more than stored", 100, 101, 4900, 100, domain.ErrInsufficientFunds},
		{"negative deposit", -1, 0, 5000, 0, domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			err := env.mgr.Storage.DepositMesos(ctx, tt.deposit)
			if err == nil && tt.withdraw > 0 {
				err = env.mgr.Storage.WithdrawMesos(ctx, tt.withdraw)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantWallet, env.mgr.Storage.Wallet.Meso())
			assert.Equal(t, tt.wantStorage, env.mgr.Storage.Mesos())
			assert.Equal(t, tt.wantStorage, env.state.StorageMesos)
		})
	}
}

func TestStorageExpandAndSort(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.storage = []*domain.Item{stored(2, metaShield, 1, 5), stored(1, metaSword, 1, 9)}
	require.NoError(t, env.mgr.Storage.Load(ctx))
	env.accounts.On("PurchaseExpansion", mock.Anything, testAccountID, domain.ExpansionKeyStorage, StorageExpandStep, int64(1000)-StorageExpandCost).Return(nil)

	require.NoError(t, env.mgr.Storage.Expand(ctx))
	require.NoError(t, env.mgr.Storage.Sort(ctx))

	assert.Equal(t, StorageBaseSize+StorageExpandStep, env.mgr.Storage.Size())
	items := env.mgr.Storage.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].UID)
	assert.Equal(t, 0, items[0].Slot)
	env.accounts.AssertExpectations(t)
}

func TestStorageSave(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.storage = []*domain.Item{stored(2, metaShield, 1, 0)}
	require.NoError(t, env.mgr.Storage.Load(ctx))
	require.NoError(t, env.mgr.Storage.DepositMesos(ctx, 10))

	require.NoError(t, env.mgr.Storage.Save(ctx))

	assert.Len(t, env.store.saved[testAccountID], 1)
	assert.Equal(t, int64(10), env.state.StorageMesos)
}
