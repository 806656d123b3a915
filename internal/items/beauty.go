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

// BeautyManager archives worn hair and face cosmetics so they can be
// swapped back on later.
type BeautyManager struct {
	base
	equip *EquipManager
	items *collection.Collection
}

// NewBeautyManager creates an empty archive. deps must carry the same lock
// as equip.
func NewBeautyManager(deps Deps, equip *EquipManager) *BeautyManager {
	m := &BeautyManager{
		base:  newBase(deps, ContainerBeauty),
		equip: equip,
	}
	m.items = collection.New(m.baseSize())
	return m
}

func (m *BeautyManager) baseSize() int {
	return BeautyBaseSize + m.State.Expansion(domain.ExpansionKeyBeauty)
}

// Load replaces the archive with the character's stored records.
func (m *BeautyManager) Load(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpLoad, m.load(ctx))
}

func (m *BeautyManager) load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	groups, err := m.Store.GetItemGroups(ctx, m.characterID(), domain.GroupBeauty)
	metrics.ObserveStore(StoreOpLoad, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreLoadFailed, err)
	}

	m.items = collection.New(m.baseSize())
	m.pending = m.pending[:0]
	for _, item := range groups[domain.GroupBeauty] {
		if !m.resolve(item) || !isCosmeticSlot(item.EquipSlot) {
			log.Warn(LogMsgUnknownItem, "uid", item.UID, "item_id", item.ItemID)
			continue
		}
		item.Group = domain.GroupBeauty
		if _, err := m.items.Add(item, false); err != nil {
			log.Warn(LogMsgLoadSkipped, "uid", item.UID, "item_id", item.ItemID, "error", err)
		}
	}
	m.notifyReset(ctx, ContainerBeauty, m.items)
	return nil
}

// Save writes the archived records and flushes the pending-delete queue.
func (m *BeautyManager) Save(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpSave, m.persist(ctx, m.characterID(), m.items.Items()))
}

// Items returns a snapshot of the archive.
func (m *BeautyManager) Items() []*domain.Item {
	defer m.lock()()
	return m.items.Items()
}

// Archive stores a durable copy of the cosmetic worn in slot.
func (m *BeautyManager) Archive(ctx context.Context, slot domain.EquipSlot) (*domain.Item, error) {
	defer m.lock()()
	archived, err := m.archive(ctx, slot)
	return archived, m.finish(ctx, OpArchive, err)
}

func (m *BeautyManager) archive(ctx context.Context, slot domain.EquipSlot) (*domain.Item, error) {
	if !isCosmeticSlot(slot) {
		return nil, fmt.Errorf("%w: %s cannot be archived", domain.ErrInvalidEquipSlot, slot)
	}
	worn := m.equip.outfit[slot]
	if worn == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNothingEquipped, slot)
	}
	if m.items.OpenSlots() == 0 {
		return nil, fmt.Errorf("%w: cosmetic archive", domain.ErrStorageFull)
	}

	copied := worn.Clone()
	copied.UID = 0
	copied.Slot = -1
	copied.Group = domain.GroupBeauty
	copied.CreationTime = m.now().Unix()
	if err := m.create(ctx, m.characterID(), copied); err != nil {
		return nil, err
	}
	if _, err := m.items.Append(copied); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvariantViolation, err)
	}
	m.notifyItem(ctx, domain.NotifyItemAdded, copied, 0)
	return copied, nil
}

// Apply wears an archived cosmetic. The one it replaces takes its place in
// the archive.
func (m *BeautyManager) Apply(ctx context.Context, uid int64) error {
	defer m.lock()()
	return m.finish(ctx, OpApply, m.apply(ctx, uid))
}

func (m *BeautyManager) apply(ctx context.Context, uid int64) error {
	item, ok := m.items.Lookup(uid)
	if !ok {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if !m.resolve(item) {
		return fmt.Errorf("%w: unknown definition %d", domain.ErrItemNotFound, item.ItemID)
	}
	slot := item.EquipSlot
	if !isCosmeticSlot(slot) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidEquipSlot, slot)
	}
	if err := m.equip.validateSlot(item.Metadata, slot); err != nil {
		return err
	}
	if item.IsExpired(m.now()) {
		return fmt.Errorf("%w: uid %d", domain.ErrItemExpired, uid)
	}

	archiveSlot := item.Slot
	m.items.Remove(uid)
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})

	if worn := m.equip.outfit[slot]; worn != nil {
		m.equip.uninstall(worn, true)
		m.equip.notify(ctx, domain.Notification{Type: domain.NotifyItemUnequipped, UID: worn.UID})
		worn.Slot = archiveSlot
		worn.Group = domain.GroupBeauty
		if _, err := m.items.Add(worn, false); err != nil {
			return fmt.Errorf("%w: uid %d: %v", domain.ErrInvariantViolation, worn.UID, err)
		}
		m.notifyItem(ctx, domain.NotifyItemAdded, worn, 0)
	}

	m.equip.install(item, slot, true)
	view := item.View()
	m.equip.notify(ctx, domain.Notification{Type: domain.NotifyItemEquipped, Item: &view, UID: uid})
	return nil
}

// Delete destroys an archived record.
func (m *BeautyManager) Delete(ctx context.Context, uid int64, commit bool) error {
	defer m.lock()()
	item, ok := m.items.Remove(uid)
	if !ok {
		return m.fail(ctx, OpDelete, fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid))
	}
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})
	return m.finish(ctx, OpDelete, m.discard(ctx, item, commit))
}

// Expand buys one archive expansion step.
func (m *BeautyManager) Expand(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpExpand, m.expand(ctx, m.items, expansionRule{
		key:  domain.ExpansionKeyBeauty,
		base: BeautyBaseSize,
		step: BeautyExpandStep,
		max:  BeautyMaxExpand,
		cost: BeautyExpandCost,
	}))
}

func isCosmeticSlot(slot domain.EquipSlot) bool {
	return slot.Valid() && !slot.InventoryStorable()
}
