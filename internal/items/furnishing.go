package items

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/ItemVault_Go/internal/collection"
	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/metrics"
)

// FurnishingManager is the account's furnishing storage. Placing a unit
// keeps its stored record, even at zero amount, so the placed unit reuses
// the record's identity.
type FurnishingManager struct {
	base
	items         *collection.Collection
	placed        map[int64]*domain.Item
	nextPlacement int64
}

// NewFurnishingManager creates an empty furnishing storage sized from the
// account's expansions.
func NewFurnishingManager(deps Deps) *FurnishingManager {
	m := &FurnishingManager{
		base:   newBase(deps, ContainerFurnishing),
		placed: make(map[int64]*domain.Item),
	}
	m.items = collection.New(m.baseSize())
	return m
}

func (m *FurnishingManager) baseSize() int {
	return FurnishingBaseSize + m.State.Expansion(domain.ExpansionKeyFurnishing)
}

// Load replaces the furnishing storage with the account's stored records.
func (m *FurnishingManager) Load(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpLoad, m.load(ctx))
}

func (m *FurnishingManager) load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	groups, err := m.Store.GetItemGroups(ctx, m.accountID(), domain.GroupFurnishing)
	metrics.ObserveStore(StoreOpLoad, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreLoadFailed, err)
	}

	m.items = collection.New(m.baseSize())
	m.placed = make(map[int64]*domain.Item)
	m.pending = m.pending[:0]
	for _, item := range groups[domain.GroupFurnishing] {
		if !m.resolve(item) {
			log.Warn(LogMsgUnknownItem, "uid", item.UID, "item_id", item.ItemID)
			continue
		}
		item.Group = domain.GroupFurnishing
		if _, err := m.items.Add(item, false); err != nil {
			log.Warn(LogMsgLoadSkipped, "uid", item.UID, "item_id", item.ItemID, "error", err)
		}
	}
	m.notifyReset(ctx, ContainerFurnishing, m.items)
	return nil
}

// Save writes every stored record, zero-amount ones included, and flushes
// the pending-delete queue.
func (m *FurnishingManager) Save(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpSave, m.persist(ctx, m.accountID(), m.items.Items()))
}

// Items returns a snapshot of the stored records.
func (m *FurnishingManager) Items() []*domain.Item {
	defer m.lock()()
	return m.items.Items()
}

// Placed returns the units currently placed, keyed by placement id.
func (m *FurnishingManager) Placed() map[int64]*domain.Item {
	defer m.lock()()
	placed := make(map[int64]*domain.Item, len(m.placed))
	for id, item := range m.placed {
		placed[id] = item
	}
	return placed
}

// Add stores a furnishing item, stacking it onto an existing record first.
func (m *FurnishingManager) Add(ctx context.Context, item *domain.Item) error {
	defer m.lock()()
	return m.finish(ctx, OpAdd, m.add(ctx, item))
}

func (m *FurnishingManager) add(ctx context.Context, item *domain.Item) error {
	if item == nil || item.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if !m.resolve(item) {
		return fmt.Errorf("%w: unknown definition %d", domain.ErrItemNotFound, item.ItemID)
	}
	if !item.Metadata.Furnishing {
		return fmt.Errorf("%w: item %d is not a furnishing", domain.ErrWrongCategory, item.ItemID)
	}
	if item.UID != 0 && m.items.Contains(item.UID) {
		return fmt.Errorf("%w: uid %d", domain.ErrDuplicateItem, item.UID)
	}
	if m.items.GetStackResult(item, item.Amount) > 0 {
		if m.items.OpenSlots() == 0 {
			return fmt.Errorf("%w: furnishing storage", domain.ErrStorageFull)
		}
		if err := m.create(ctx, m.accountID(), item); err != nil {
			return err
		}
	}

	item.Slot = -1
	item.Group = domain.GroupFurnishing
	results, err := m.items.Add(item, true)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageFull, err)
	}
	for _, r := range results {
		m.notifyItem(ctx, domain.NotifyItemUpdated, r.Item, r.Added)
	}
	if item.Amount == 0 {
		return m.discard(ctx, item, false)
	}
	m.notifyItem(ctx, domain.NotifyItemAdded, item, 0)
	return nil
}

// Place withdraws one unit of a stored record and returns its placement id
// and the placed unit. The record stays in storage even when it reaches zero.
func (m *FurnishingManager) Place(ctx context.Context, uid int64) (int64, *domain.Item, error) {
	defer m.lock()()
	id, placed, err := m.place(ctx, uid)
	return id, placed, m.finish(ctx, OpPlace, err)
}

func (m *FurnishingManager) place(ctx context.Context, uid int64) (int64, *domain.Item, error) {
	item, ok := m.items.Lookup(uid)
	if !ok {
		return 0, nil, fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if item.Amount < 1 {
		return 0, nil, fmt.Errorf("%w: uid %d has none left", domain.ErrInsufficientQuantity, uid)
	}

	item.Amount--
	m.notifyItem(ctx, domain.NotifyItemUpdated, item, -1)

	placed := item.Clone()
	placed.Amount = 1
	placed.Slot = -1
	placed.Group = domain.GroupFurnishingPlaced
	m.nextPlacement++
	m.placed[m.nextPlacement] = placed

	view := placed.View()
	m.notify(ctx, domain.Notification{Type: domain.NotifyFurnishingPlace, Item: &view, UID: uid})
	return m.nextPlacement, placed, nil
}

// Retrieve returns a placed unit to storage, onto its original record when
// that record still exists.
func (m *FurnishingManager) Retrieve(ctx context.Context, placementID int64) error {
	defer m.lock()()
	return m.finish(ctx, OpRetrieve, m.retrieve(ctx, placementID))
}

func (m *FurnishingManager) retrieve(ctx context.Context, placementID int64) error {
	placed, ok := m.placed[placementID]
	if !ok {
		return fmt.Errorf("%w: placement %d", domain.ErrItemNotFound, placementID)
	}

	if source, ok := m.items.Lookup(placed.UID); ok && source.Amount < source.StackLimit() {
		source.Amount++
		delete(m.placed, placementID)
		m.notifyItem(ctx, domain.NotifyItemUpdated, source, 1)
		return nil
	}

	unit := placed.Clone()
	unit.UID = 0
	if err := m.add(ctx, unit); err != nil {
		return err
	}
	delete(m.placed, placementID)
	return nil
}

// Remove destroys a stored record. Units already placed from it lose their
// link and come back as new records when retrieved.
func (m *FurnishingManager) Remove(ctx context.Context, uid int64, commit bool) error {
	defer m.lock()()
	return m.finish(ctx, OpRemove, m.remove(ctx, uid, commit))
}

func (m *FurnishingManager) remove(ctx context.Context, uid int64, commit bool) error {
	item, ok := m.items.Remove(uid)
	if !ok {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	for _, placed := range m.placed {
		if placed.UID == uid {
			placed.UID = 0
		}
	}
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})
	return m.discard(ctx, item, commit)
}

// Expand buys one furnishing storage expansion step.
func (m *FurnishingManager) Expand(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpExpand, m.expand(ctx, m.items, expansionRule{
		key:  domain.ExpansionKeyFurnishing,
		base: FurnishingBaseSize,
		step: FurnishingExpandStep,
		max:  FurnishingMaxExpand,
		cost: FurnishingExpandCost,
	}))
}
