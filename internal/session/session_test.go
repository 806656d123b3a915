package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
	"github.com/osse101/ItemVault_Go/internal/items"
)

func newLoadedSession(t *testing.T) (*Session, *memStore, *MockAccountStore, *eventLog) {
	t.Helper()
	store := newMemStore()
	accounts := new(MockAccountStore)
	cfg, log := newTestConfig(store, accounts)
	s := New(cfg, newState(testAccountID, testCharacterID))
	require.NoError(t, s.Load(context.Background()))
	return s, store, accounts, log
}

func TestSession_RunPublishesItemNotifications(t *testing.T) {
	// ARRANGE
	s, _, _, log := newLoadedSession(t)
	ctx := context.Background()

	// ACT
	err := s.Run(ctx, func(m *items.Manager) error {
		return m.Inventory.Add(ctx, domain.NewItem(metaWood, 1, 30), true, false)
	})

	// ASSERT
	require.NoError(t, err)
	added := log.ofType(event.ItemEventType(domain.NotifyItemAdded))
	require.Len(t, added, 1)
	assert.Equal(t, "10", added[0].GetMetadataValue(event.MetadataKeyCharacterID))
}

func TestSession_InvariantViolationPoisons(t *testing.T) {
	s, _, accounts, _ := newLoadedSession(t)
	ctx := context.Background()

	// CASE 1: rejected commands leave the session usable
	err := s.Run(ctx, func(*items.Manager) error { return domain.ErrInventoryFull })
	assert.ErrorIs(t, err, domain.ErrInventoryFull)
	assert.False(t, s.Poisoned())

	// CASE 2: an invariant violation poisons it
	err = s.Run(ctx, func(*items.Manager) error {
		return fmt.Errorf("%w: uid 7 in two slots", domain.ErrInvariantViolation)
	})
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.True(t, s.Poisoned())

	// CASE 3: later commands do not run and nothing is saved
	ran := false
	err = s.Run(ctx, func(*items.Manager) error { ran = true; return nil })
	assert.ErrorIs(t, err, domain.ErrSessionPoisoned)
	assert.False(t, ran)

	assert.ErrorIs(t, s.Save(ctx), domain.ErrSessionPoisoned)
	accounts.AssertNotCalled(t, "SaveBalances", mock.Anything, mock.Anything)
	assert.Zero(t, s.RemoveExpired(ctx))
}

func TestSession_SaveWritesItemsThenBalances(t *testing.T) {
	// ARRANGE
	s, store, accounts, _ := newLoadedSession(t)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(m *items.Manager) error {
		return m.Inventory.Add(ctx, domain.NewItem(metaSword, 1, 1), true, false)
	}))
	require.NoError(t, s.Wallet().AddMeso(500))

	accounts.On("SaveBalances", mock.Anything, mock.MatchedBy(func(state *domain.AccountState) bool {
		return state.Meso == 2500 && state.Meret == 100 && state.CharacterID == testCharacterID
	})).Return(nil).Once()

	// ACT
	err := s.Save(ctx)

	// ASSERT
	require.NoError(t, err)
	assert.Equal(t, 1, store.savedCount(testCharacterID))
	assert.Equal(t, testNow, s.SavedAt())
	accounts.AssertExpectations(t)
}

func TestSession_SaveFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("item store", func(t *testing.T) {
		s, store, accounts, _ := newLoadedSession(t)
		require.NoError(t, s.Run(ctx, func(m *items.Manager) error {
			return m.Inventory.Add(ctx, domain.NewItem(metaWood, 1, 5), true, false)
		}))
		store.saveErr = errors.New("disk full")

		err := s.Save(ctx)

		assert.ErrorIs(t, err, domain.ErrStoreSaveFailed)
		accounts.AssertNotCalled(t, "SaveBalances", mock.Anything, mock.Anything)
		assert.True(t, s.SavedAt().IsZero())
		assert.False(t, s.Poisoned(), "persistence failures are recoverable")
	})

	t.Run("balances", func(t *testing.T) {
		s, _, accounts, _ := newLoadedSession(t)
		accounts.On("SaveBalances", mock.Anything, mock.Anything).Return(errors.New("timeout"))

		err := s.Save(ctx)

		assert.ErrorIs(t, err, domain.ErrStoreSaveFailed)
		assert.True(t, s.SavedAt().IsZero())
	})
}

func TestSession_RemoveExpired(t *testing.T) {
	s, store, _, _ := newLoadedSession(t)
	ctx := context.Background()

	expired := domain.NewItem(metaWood, 1, 3)
	expired.UID = 77
	expired.ExpiryTime = testNow.Unix() - 60
	store.inventory = []*domain.Item{expired}
	require.NoError(t, s.Load(ctx))

	assert.Equal(t, 1, s.RemoveExpired(ctx))
	assert.Zero(t, s.RemoveExpired(ctx))
}
