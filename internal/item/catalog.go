package item

import (
	"sort"
	"sync"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// Catalog indexes item definitions by id. It is safe for concurrent use and
// can be swapped wholesale on reload.
type Catalog struct {
	mu    sync.RWMutex
	items map[int]*domain.ItemMetadata
}

// NewCatalog indexes defs. Later duplicates win; Loader.Validate rejects them
// before this point.
func NewCatalog(defs []domain.ItemMetadata) *Catalog {
	c := &Catalog{}
	c.Replace(defs)
	return c
}

// Get returns the definition for itemID.
func (c *Catalog) Get(itemID int) (*domain.ItemMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.items[itemID]
	return meta, ok
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// IDs returns every item id in ascending order.
func (c *Catalog) IDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Replace swaps in a new set of definitions.
func (c *Catalog) Replace(defs []domain.ItemMetadata) {
	items := make(map[int]*domain.ItemMetadata, len(defs))
	for i := range defs {
		meta := defs[i]
		items[meta.ItemID] = &meta
	}
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}
