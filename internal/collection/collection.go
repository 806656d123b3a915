// Package collection implements the slotted item container shared by every
// item manager: a fixed-capacity array of optional item slots plus a reverse
// uid -> slot index, safe for concurrent use.
package collection

import (
	"fmt"
	"sort"
	"sync"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// StackResult is one destination touched by a stack operation.
type StackResult struct {
	Item  *domain.Item
	Added int
}

// Collection is a thread-safe slotted item store with optional stacking.
//
// Every mutation holds the write lock for its whole duration; reads hold the
// read lock and return point-in-time snapshots.
type Collection struct {
	mu    sync.RWMutex
	slots []*domain.Item
	index map[int64]int
	count int
}

// New creates an empty collection with size slots.
func New(size int) *Collection {
	if size < 0 {
		size = 0
	}
	return &Collection{
		slots: make([]*domain.Item, size),
		index: make(map[int64]int, size),
	}
}

// Size returns the capacity of the collection.
func (c *Collection) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slots)
}

// Count returns the number of occupied slots.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// OpenSlots returns the number of empty slots.
func (c *Collection) OpenSlots() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.slots) - c.count
}

// Get returns the item in slot, or nil when the slot is empty or out of range.
func (c *Collection) Get(slot int) *domain.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.inRange(slot) {
		return nil
	}
	return c.slots[slot]
}

// Lookup returns the item with the given uid.
func (c *Collection) Lookup(uid int64) (*domain.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	slot, ok := c.index[uid]
	if !ok {
		return nil, false
	}
	return c.slots[slot], true
}

// Contains reports whether an item with the given uid is stored.
func (c *Collection) Contains(uid int64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[uid]
	return ok
}

// SlotOf returns the slot holding uid.
func (c *Collection) SlotOf(uid int64) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	slot, ok := c.index[uid]
	return slot, ok
}

// Items returns the occupied slots in slot order.
func (c *Collection) Items() []*domain.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]*domain.Item, 0, c.count)
	for _, item := range c.slots {
		if item != nil {
			items = append(items, item)
		}
	}
	return items
}

// Filter returns every stored item matching fn, in slot order.
func (c *Collection) Filter(fn func(*domain.Item) bool) []*domain.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var items []*domain.Item
	for _, item := range c.slots {
		if item != nil && fn(item) {
			items = append(items, item)
		}
	}
	return items
}

// Set places item into an empty, in-range slot.
func (c *Collection) Set(slot int, item *domain.Item) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item == nil {
		return fmt.Errorf("%w: nil item", domain.ErrInvalidInput)
	}
	if !c.inRange(slot) {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, slot)
	}
	if c.slots[slot] != nil {
		return fmt.Errorf("%w: %d", domain.ErrSlotOccupied, slot)
	}
	if c.indexed(item) {
		return fmt.Errorf("%w: uid %d", domain.ErrDuplicateItem, item.UID)
	}
	c.place(slot, item)
	return nil
}

// Stack merges item onto compatible stored items and returns the destinations
// touched. When slot is >= 0 only that slot's occupant is considered. The
// source item's Amount is reduced in place; no slot is ever created.
func (c *Collection) Stack(item *domain.Item, slot int) []StackResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack(item, slot)
}

// GetStackResult returns how much of amount could not be absorbed by
// existing compatible stacks. Nothing is mutated.
func (c *Collection) GetStackResult(item *domain.Item, amount int) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remainder(item, amount)
}

// Add stores item. An item that already names a valid empty slot is placed
// there directly. Otherwise the item is optionally stacked first and any
// remainder goes into the first free slot.
//
// Add is all-or-nothing: when a remainder would be left with no free slot,
// ErrCollectionFull is returned and neither the item nor the collection
// changes. A caller that gets a nil error and an item with Amount == 0 must
// discard the item.
func (c *Collection) Add(item *domain.Item, stack bool) ([]StackResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item == nil {
		return nil, fmt.Errorf("%w: nil item", domain.ErrInvalidInput)
	}
	if c.indexed(item) {
		return nil, fmt.Errorf("%w: uid %d", domain.ErrDuplicateItem, item.UID)
	}

	if c.inRange(item.Slot) && c.slots[item.Slot] == nil {
		c.place(item.Slot, item)
		return nil, nil
	}

	free := c.firstFree()
	if !stack {
		if free < 0 {
			return nil, domain.ErrCollectionFull
		}
		c.place(free, item)
		return nil, nil
	}

	if free < 0 && c.remainder(item, item.Amount) > 0 {
		return nil, domain.ErrCollectionFull
	}

	results := c.stack(item, -1)
	if item.Amount > 0 {
		c.place(free, item)
	}
	return results, nil
}

// Append places item into the first free slot and returns it.
func (c *Collection) Append(item *domain.Item) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item == nil {
		return -1, fmt.Errorf("%w: nil item", domain.ErrInvalidInput)
	}
	if c.indexed(item) {
		return -1, fmt.Errorf("%w: uid %d", domain.ErrDuplicateItem, item.UID)
	}
	free := c.firstFree()
	if free < 0 {
		return -1, domain.ErrCollectionFull
	}
	c.place(free, item)
	return free, nil
}

// Remove takes the item with uid out of the collection.
func (c *Collection) Remove(uid int64) (*domain.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot, ok := c.index[uid]
	if !ok {
		return nil, false
	}
	return c.clear(slot), true
}

// RemoveSlot takes the occupant of slot out of the collection.
func (c *Collection) RemoveSlot(slot int) (*domain.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inRange(slot) || c.slots[slot] == nil {
		return nil, false
	}
	return c.clear(slot), true
}

// Swap exchanges the occupants of two slots; either may be empty.
func (c *Collection) Swap(src, dst int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inRange(src) || !c.inRange(dst) {
		return fmt.Errorf("%w: %d -> %d", domain.ErrInvalidSlot, src, dst)
	}
	if src == dst {
		return nil
	}
	a, b := c.slots[src], c.slots[dst]
	c.slots[src], c.slots[dst] = b, a
	if a != nil {
		a.Slot = dst
		if a.UID != 0 {
			c.index[a.UID] = dst
		}
	}
	if b != nil {
		b.Slot = src
		if b.UID != 0 {
			c.index[b.UID] = src
		}
	}
	return nil
}

// Sort compacts the collection, ordering items by definition id, rarity and
// amount. Sorting an already sorted collection changes nothing.
func (c *Collection) Sort() {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]*domain.Item, 0, c.count)
	for _, item := range c.slots {
		if item != nil {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		if a.Rarity != b.Rarity {
			return a.Rarity < b.Rarity
		}
		return a.Amount < b.Amount
	})

	for i := range c.slots {
		c.slots[i] = nil
	}
	c.index = make(map[int64]int, len(c.slots))
	c.count = 0
	for i, item := range items {
		c.place(i, item)
	}
}

// Expand grows the collection to newSize slots.
func (c *Collection) Expand(newSize int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if newSize <= len(c.slots) {
		return fmt.Errorf("%w: %d <= %d", domain.ErrInvalidExpansion, newSize, len(c.slots))
	}
	grown := make([]*domain.Item, newSize)
	copy(grown, c.slots)
	c.slots = grown
	return nil
}

func (c *Collection) inRange(slot int) bool {
	return slot >= 0 && slot < len(c.slots)
}

func (c *Collection) indexed(item *domain.Item) bool {
	if item.UID == 0 {
		return false
	}
	_, ok := c.index[item.UID]
	return ok
}

func (c *Collection) firstFree() int {
	if c.count >= len(c.slots) {
		return -1
	}
	for i, item := range c.slots {
		if item == nil {
			return i
		}
	}
	return -1
}

// place assumes the write lock is held and slot is empty.
func (c *Collection) place(slot int, item *domain.Item) {
	item.Slot = slot
	c.slots[slot] = item
	if item.UID != 0 {
		c.index[item.UID] = slot
	}
	c.count++
}

// clear assumes the write lock is held and slot is occupied.
func (c *Collection) clear(slot int) *domain.Item {
	item := c.slots[slot]
	c.slots[slot] = nil
	if item.UID != 0 {
		delete(c.index, item.UID)
	}
	c.count--
	item.Slot = -1
	return item
}

func (c *Collection) stack(item *domain.Item, slot int) []StackResult {
	if item == nil || item.Amount <= 0 {
		return nil
	}
	if slot >= 0 {
		if !c.inRange(slot) {
			return nil
		}
		dst := c.slots[slot]
		if added := merge(dst, item); added > 0 {
			return []StackResult{{Item: dst, Added: added}}
		}
		return nil
	}

	var results []StackResult
	for _, dst := range c.slots {
		if item.Amount == 0 {
			break
		}
		if added := merge(dst, item); added > 0 {
			results = append(results, StackResult{Item: dst, Added: added})
		}
	}
	return results
}

func (c *Collection) remainder(item *domain.Item, amount int) int {
	if item == nil {
		return amount
	}
	for _, dst := range c.slots {
		if amount <= 0 {
			return 0
		}
		if dst == nil || !dst.CanStack(item) {
			continue
		}
		amount -= min(amount, dst.StackLimit()-dst.Amount)
	}
	return max(amount, 0)
}

// merge moves as much of src as fits onto dst and returns the amount moved.
func merge(dst, src *domain.Item) int {
	if dst == nil || !dst.CanStack(src) {
		return 0
	}
	added := min(src.Amount, dst.StackLimit()-dst.Amount)
	if added <= 0 {
		return 0
	}
	dst.Amount += added
	src.Amount -= added
	return added
}
