package items

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

func wornHair(uid int64, meta *domain.ItemMetadata) *domain.Item {
	hair := stored(uid, meta, 1, -1)
	hair.EquipSlot = domain.EquipHair
	return hair
}

func TestBeautyArchiveAndApply(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.groups[domain.GroupOutfit] = []*domain.Item{wornHair(1, metaHairA)}
	require.NoError(t, env.mgr.Equip.Load(ctx))

	// ARRANGE: archive the short hair, then switch to long hair from the archive
	archived, err := env.mgr.Beauty.Archive(ctx, domain.EquipHair)
	require.NoError(t, err)
	assert.NotZero(t, archived.UID)
	assert.NotEqual(t, int64(1), archived.UID)
	assert.Equal(t, domain.GroupBeauty, archived.Group)

	env.store.groups[domain.GroupBeauty] = []*domain.Item{archived, wornHair(2, metaHairB)}
	require.NoError(t, env.mgr.Beauty.Load(ctx))

	// ACT
	require.NoError(t, env.mgr.Beauty.Apply(ctx, 2))

	// ASSERT
	worn, ok := env.mgr.Equip.Get(domain.EquipHair, true)
	require.True(t, ok)
	assert.Equal(t, int64(2), worn.UID)
	assert.Equal(t, domain.GroupOutfit, worn.Group)

	uids := make([]int64, 0, 2)
	for _, item := range env.mgr.Beauty.Items() {
		uids = append(uids, item.UID)
	}
	assert.ElementsMatch(t, []int64{archived.UID, 1}, uids, "the replaced hair moves into the archive")
}

func TestBeautyArchive_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.mgr.Beauty.Archive(ctx, domain.EquipHat)
	assert.ErrorIs(t, err, domain.ErrInvalidEquipSlot)

	_, err = env.mgr.Beauty.Archive(ctx, domain.EquipHair)
	assert.ErrorIs(t, err, domain.ErrNothingEquipped)
}

func TestBeautyArchive_Full(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.groups[domain.GroupOutfit] = []*domain.Item{wornHair(1, metaHairA)}
	require.NoError(t, env.mgr.Equip.Load(ctx))
	for i := 0; i < BeautyBaseSize; i++ {
		_, err := env.mgr.Beauty.Archive(ctx, domain.EquipHair)
		require.NoError(t, err)
	}

	_, err := env.mgr.Beauty.Archive(ctx, domain.EquipHair)

	assert.ErrorIs(t, err, domain.ErrStorageFull)
	assert.Len(t, env.mgr.Beauty.Items(), BeautyBaseSize)
}

func TestBeautyDeleteAndExpand(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.store.groups[domain.GroupBeauty] = []*domain.Item{wornHair(5, metaHairA)}
	require.NoError(t, env.mgr.Beauty.Load(ctx))
	env.accounts.On("PurchaseExpansion", mock.Anything, testAccountID, domain.ExpansionKeyBeauty, BeautyExpandStep, int64(1000)-BeautyExpandCost).Return(nil)

	require.NoError(t, env.mgr.Beauty.Delete(ctx, 5, false))
	require.NoError(t, env.mgr.Beauty.Expand(ctx))

	assert.Empty(t, env.mgr.Beauty.Items())
	assert.Equal(t, []int64{5}, env.mgr.Beauty.PendingDeletes())
	assert.Equal(t, int64(1000)-BeautyExpandCost, env.mgr.Beauty.Wallet.Meret())
	assert.ErrorIs(t, env.mgr.Beauty.Delete(ctx, 5, false), domain.ErrItemNotFound)
}
