package item

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// countingSource counts lookups that reach the underlying catalog.
type countingSource struct {
	mu      sync.Mutex
	catalog *Catalog
	lookups int
}

func (s *countingSource) Get(itemID int) (*domain.ItemMetadata, bool) {
	s.mu.Lock()
	s.lookups++
	s.mu.Unlock()
	return s.catalog.Get(itemID)
}

func testDefs() []domain.ItemMetadata {
	return []domain.ItemMetadata{
		{ItemID: 100, Name: "Wood", Type: domain.InventoryMisc, StackLimit: 100},
		{ItemID: 200, Name: "Potion", Type: domain.InventoryConsumable, StackLimit: 10},
		{ItemID: 300, Name: "Sword", Type: domain.InventoryGear, StackLimit: 1},
	}
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog(testDefs())

	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, []int{100, 200, 300}, catalog.IDs())

	meta, ok := catalog.Get(200)
	require.True(t, ok)
	assert.Equal(t, "Potion", meta.Name)

	catalog.Replace(testDefs()[:1])
	_, ok = catalog.Get(200)
	assert.False(t, ok)
	assert.Equal(t, 1, catalog.Len())
}

func TestCachedProvider_CachesHits(t *testing.T) {
	source := &countingSource{catalog: NewCatalog(testDefs())}
	provider, err := NewCachedProvider(source, 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		meta, ok := provider.Get(100)
		require.True(t, ok)
		assert.Equal(t, "Wood", meta.Name)
	}

	assert.Equal(t, 1, source.lookups)
	assert.Equal(t, 1, provider.Len())
}

func TestCachedProvider_EvictsAndSkipsMisses(t *testing.T) {
	source := &countingSource{catalog: NewCatalog(testDefs())}
	provider, err := NewCachedProvider(source, 2)
	require.NoError(t, err)

	provider.Get(100)
	provider.Get(200)
	provider.Get(300) // evicts 100
	_, ok := provider.Get(999)
	assert.False(t, ok)
	assert.Equal(t, 2, provider.Len(), "misses are not cached")

	provider.Get(100)
	assert.Equal(t, 5, source.lookups)

	provider.Purge()
	assert.Zero(t, provider.Len())
}

func TestNewCachedProvider_RejectsZeroSize(t *testing.T) {
	_, err := NewCachedProvider(NewCatalog(nil), 0)
	assert.Error(t, err)
}
