package items

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/metrics"
)

// BadgeHook runs after a badge is equipped (equipped=true) or removed.
// Failures are logged; they never undo the badge change.
type BadgeHook func(ctx context.Context, badge *domain.Item, equipped bool) error

// equipSet holds one item per equip slot. An item filling several slots is
// stored in each of them.
type equipSet [domain.EquipSlotCount]*domain.Item

// EquipManager holds the worn gear, the cosmetic overlay and the badges.
type EquipManager struct {
	base
	inventory *InventoryManager
	gear      equipSet
	outfit    equipSet
	badges    [domain.BadgeTypeCount]*domain.Item
	badgeHook BadgeHook
}

// NewEquipManager creates an empty equipment set backed by inventory. deps
// must carry the same lock as the inventory.
func NewEquipManager(deps Deps, inventory *InventoryManager, hook BadgeHook) *EquipManager {
	return &EquipManager{
		base:      newBase(deps, ContainerEquip),
		inventory: inventory,
		badgeHook: hook,
	}
}

// Load installs the character's stored gear, outfit and badges. Items whose
// recorded slot is invalid or already taken are skipped.
func (m *EquipManager) Load(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpLoad, m.load(ctx))
}

func (m *EquipManager) load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	groups, err := m.Store.GetItemGroups(ctx, m.characterID(), domain.GroupGear, domain.GroupOutfit, domain.GroupBadge)
	metrics.ObserveStore(StoreOpLoad, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreLoadFailed, err)
	}

	m.gear, m.outfit = equipSet{}, equipSet{}
	m.badges = [domain.BadgeTypeCount]*domain.Item{}
	m.pending = m.pending[:0]

	for _, group := range []domain.ItemGroup{domain.GroupGear, domain.GroupOutfit} {
		skin := group == domain.GroupOutfit
		for _, item := range groups[group] {
			if !m.resolve(item) {
				log.Warn(LogMsgUnknownItem, "uid", item.UID, "item_id", item.ItemID)
				continue
			}
			if err := m.validateSlot(item.Metadata, item.EquipSlot); err != nil {
				log.Warn(LogMsgLoadSkipped, "uid", item.UID, "slot", item.EquipSlot, "error", err)
				continue
			}
			set := m.set(skin)
			targets := item.Metadata.OccupiedSlots(item.EquipSlot)
			if len(occupants(set, targets)) > 0 {
				log.Warn(LogMsgLoadSkipped, "uid", item.UID, "slot", item.EquipSlot, "error", domain.ErrSlotOccupied)
				continue
			}
			m.install(item, item.EquipSlot, skin)
		}
	}

	for _, item := range groups[domain.GroupBadge] {
		if !m.resolve(item) || !item.Metadata.Badge.Valid() || m.badges[item.Metadata.Badge] != nil {
			log.Warn(LogMsgLoadSkipped, "uid", item.UID, "item_id", item.ItemID)
			continue
		}
		item.Group = domain.GroupBadge
		m.badges[item.Metadata.Badge] = item
	}

	m.notify(ctx, domain.Notification{Type: domain.NotifyTabReset, Items: domain.Views(m.all())})
	return nil
}

// Save writes every equipped item and flushes the pending-delete queue.
func (m *EquipManager) Save(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpSave, m.persist(ctx, m.characterID(), m.all()))
}

// Get returns the item worn in slot of the gear (or cosmetic) set.
func (m *EquipManager) Get(slot domain.EquipSlot, skin bool) (*domain.Item, bool) {
	defer m.lock()()
	if !slot.Valid() {
		return nil, false
	}
	item := m.set(skin)[slot]
	return item, item != nil
}

// Badge returns the badge equipped in category t.
func (m *EquipManager) Badge(t domain.BadgeType) (*domain.Item, bool) {
	defer m.lock()()
	if !t.Valid() {
		return nil, false
	}
	item := m.badges[t]
	return item, item != nil
}

// Equipped returns every worn item of one set, once each.
func (m *EquipManager) Equipped(skin bool) []*domain.Item {
	defer m.lock()()
	return unique(m.set(skin)[:])
}

// Equip wears a bag item in slot. Whatever occupies the slots it fills goes
// back to the bag, or is destroyed when its slot cannot be stored in the bag.
// Items filling several slots at once require bag room for every displaced
// item up front; nothing changes when that room is missing.
func (m *EquipManager) Equip(ctx context.Context, uid int64, slot domain.EquipSlot, skin bool) error {
	defer m.lock()()
	return m.finish(ctx, OpEquip, m.equip(ctx, uid, slot, skin))
}

func (m *EquipManager) equip(ctx context.Context, uid int64, slot domain.EquipSlot, skin bool) error {
	item, _ := m.inventory.find(uid)
	if item == nil {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if err := m.validateWearable(item); err != nil {
		return err
	}
	meta := item.Metadata
	if !meta.IsEquipment() || meta.IsSkin != skin {
		return fmt.Errorf("%w: item %d is not %s", domain.ErrWrongCategory, item.ItemID, setName(skin))
	}
	if err := m.validateSlot(meta, slot); err != nil {
		return err
	}
	if meta.TwoHanded {
		slot = domain.EquipRightHand
	}

	set := m.set(skin)
	targets := meta.OccupiedSlots(slot)
	displaced := occupants(set, targets)

	var storable []*domain.Item
	for _, d := range displaced {
		if d.EquipSlot.InventoryStorable() {
			storable = append(storable, d)
		}
	}
	if len(targets) > 1 {
		if !m.inventory.canHold(storable...) {
			return fmt.Errorf("%w: %d displaced items need room", domain.ErrInventoryFull, len(storable))
		}
	} else {
		for _, d := range storable {
			if d.Type() != item.Type() && !m.inventory.canHold(d) {
				return fmt.Errorf("%w: no room for uid %d", domain.ErrInventoryFull, d.UID)
			}
		}
	}

	if _, err := m.inventory.take(ctx, uid); err != nil {
		return err
	}
	freed := item.Slot

	for _, d := range displaced {
		m.uninstall(d, skin)
		if !d.EquipSlot.InventoryStorable() {
			m.notify(ctx, domain.Notification{Type: domain.NotifyItemUnequipped, UID: d.UID})
			if err := m.discard(ctx, d, false); err != nil {
				return err
			}
			continue
		}
		if len(targets) == 1 {
			d.Slot = freed
		}
		d.EquipSlot = domain.EquipNone
		if err := m.inventory.place(ctx, d); err != nil {
			return fmt.Errorf("%w: displaced uid %d: %v", domain.ErrInvariantViolation, d.UID, err)
		}
		m.notify(ctx, domain.Notification{Type: domain.NotifyItemUnequipped, UID: d.UID})
	}

	m.bindOnEquip(item)
	m.install(item, slot, skin)
	view := item.View()
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemEquipped, Item: &view, UID: item.UID})
	return nil
}

// Unequip returns a worn item to the bag, to its last bag slot when free.
func (m *EquipManager) Unequip(ctx context.Context, uid int64) error {
	defer m.lock()()
	return m.finish(ctx, OpUnequip, m.unequip(ctx, uid))
}

func (m *EquipManager) unequip(ctx context.Context, uid int64) error {
	item, skin := m.findEquipped(uid)
	if item == nil {
		return fmt.Errorf("%w: uid %d", domain.ErrNothingEquipped, uid)
	}
	if !item.EquipSlot.InventoryStorable() {
		return fmt.Errorf("%w: %s cannot be stored", domain.ErrInvalidEquipSlot, item.EquipSlot)
	}
	if !m.inventory.canHold(item) {
		return fmt.Errorf("%w: %s", domain.ErrInventoryFull, item.Type())
	}

	m.uninstall(item, skin)
	item.EquipSlot = domain.EquipNone
	if err := m.inventory.place(ctx, item); err != nil {
		return fmt.Errorf("%w: uid %d: %v", domain.ErrInvariantViolation, uid, err)
	}
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemUnequipped, UID: uid})
	return nil
}

// EquipBadge wears a bag badge in its category, swapping out the current one.
func (m *EquipManager) EquipBadge(ctx context.Context, uid int64) error {
	defer m.lock()()
	return m.finish(ctx, OpEquipBadge, m.equipBadge(ctx, uid))
}

func (m *EquipManager) equipBadge(ctx context.Context, uid int64) error {
	item, _ := m.inventory.find(uid)
	if item == nil {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if err := m.validateWearable(item); err != nil {
		return err
	}
	t := item.Metadata.Badge
	if !t.Valid() {
		return fmt.Errorf("%w: item %d", domain.ErrInvalidBadge, item.ItemID)
	}

	if _, err := m.inventory.take(ctx, uid); err != nil {
		return err
	}
	if old := m.badges[t]; old != nil {
		m.badges[t] = nil
		old.Slot = item.Slot
		if err := m.inventory.place(ctx, old); err != nil {
			return fmt.Errorf("%w: badge uid %d: %v", domain.ErrInvariantViolation, old.UID, err)
		}
		m.notify(ctx, domain.Notification{Type: domain.NotifyBadgeUnequipped, UID: old.UID})
		m.runBadgeHook(ctx, old, false)
	}

	m.bindOnEquip(item)
	item.Group = domain.GroupBadge
	m.badges[t] = item
	view := item.View()
	m.notify(ctx, domain.Notification{Type: domain.NotifyBadgeEquipped, Item: &view, UID: item.UID})
	m.runBadgeHook(ctx, item, true)
	return nil
}

// UnequipBadge returns the badge of category t to the bag.
func (m *EquipManager) UnequipBadge(ctx context.Context, t domain.BadgeType) error {
	defer m.lock()()
	return m.finish(ctx, OpUnequipBadge, m.unequipBadge(ctx, t))
}

func (m *EquipManager) unequipBadge(ctx context.Context, t domain.BadgeType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidBadge, int(t))
	}
	item := m.badges[t]
	if item == nil {
		return fmt.Errorf("%w: %s", domain.ErrNothingEquipped, t)
	}
	if !m.inventory.canHold(item) {
		return fmt.Errorf("%w: %s", domain.ErrInventoryFull, item.Type())
	}
	m.badges[t] = nil
	if err := m.inventory.place(ctx, item); err != nil {
		return fmt.Errorf("%w: badge uid %d: %v", domain.ErrInvariantViolation, item.UID, err)
	}
	m.notify(ctx, domain.Notification{Type: domain.NotifyBadgeUnequipped, UID: item.UID})
	m.runBadgeHook(ctx, item, false)
	return nil
}

func (m *EquipManager) runBadgeHook(ctx context.Context, badge *domain.Item, equipped bool) {
	if badge.Metadata != nil && badge.Metadata.Badge == domain.BadgePetSkin {
		n := domain.Notification{Type: domain.NotifyPetSkinChanged, UID: badge.UID}
		if equipped {
			view := badge.View()
			n.Item = &view
		}
		m.notify(ctx, n)
	}
	if m.badgeHook == nil {
		return
	}
	if err := m.badgeHook(ctx, badge, equipped); err != nil {
		logger.FromContext(ctx).Error(LogMsgBadgeHookFailed, "uid", badge.UID, "equipped", equipped, "error", err)
	}
}

func (m *EquipManager) validateWearable(item *domain.Item) error {
	if !m.resolve(item) {
		return fmt.Errorf("%w: unknown definition %d", domain.ErrItemNotFound, item.ItemID)
	}
	if item.IsExpired(m.now()) {
		return fmt.Errorf("%w: uid %d", domain.ErrItemExpired, item.UID)
	}
	if item.IsBoundToOther(m.characterID()) {
		return fmt.Errorf("%w: uid %d", domain.ErrItemBoundToOther, item.UID)
	}
	return nil
}

// validateSlot accepts the item's own slots, and either hand for an item
// that fits one of them.
func (m *EquipManager) validateSlot(meta *domain.ItemMetadata, slot domain.EquipSlot) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidEquipSlot, int(slot))
	}
	if meta.AcceptsSlot(slot) {
		return nil
	}
	if isHand(slot) && (meta.AcceptsSlot(domain.EquipRightHand) || meta.AcceptsSlot(domain.EquipLeftHand)) {
		return nil
	}
	return fmt.Errorf("%w: item %d cannot be worn in %s", domain.ErrInvalidEquipSlot, meta.ItemID, slot)
}

func (m *EquipManager) bindOnEquip(item *domain.Item) {
	if item.Metadata.TransferType != domain.TransferTypeBindOnEquip || item.Binding != nil {
		return
	}
	item.Binding = &domain.ItemBinding{CharacterID: m.characterID(), AccountID: m.accountID()}
	item.Transfer.Flag = (item.Transfer.Flag | domain.TransferBound) &^ domain.TransferTradable
}

// install puts item into every slot it fills. The item keeps its last bag
// slot in Slot.
func (m *EquipManager) install(item *domain.Item, slot domain.EquipSlot, skin bool) {
	set := m.set(skin)
	for _, s := range item.Metadata.OccupiedSlots(slot) {
		set[s] = item
	}
	item.EquipSlot = slot
	item.Group = domain.GroupGear
	if skin {
		item.Group = domain.GroupOutfit
	}
}

func (m *EquipManager) uninstall(item *domain.Item, skin bool) {
	set := m.set(skin)
	for s := range set {
		if set[s] == item {
			set[s] = nil
		}
	}
	item.Group = domain.GroupNone
}

func (m *EquipManager) set(skin bool) *equipSet {
	if skin {
		return &m.outfit
	}
	return &m.gear
}

func (m *EquipManager) findEquipped(uid int64) (*domain.Item, bool) {
	for _, skin := range []bool{false, true} {
		for _, item := range m.set(skin) {
			if item != nil && item.UID == uid {
				return item, skin
			}
		}
	}
	return nil, false
}

func (m *EquipManager) all() []*domain.Item {
	items := unique(m.gear[:])
	items = append(items, unique(m.outfit[:])...)
	for _, badge := range m.badges {
		if badge != nil {
			items = append(items, badge)
		}
	}
	return items
}

// occupants returns the distinct items currently filling any of slots.
func occupants(set *equipSet, slots []domain.EquipSlot) []*domain.Item {
	var items []*domain.Item
	for _, s := range slots {
		if item := set[s]; item != nil && !contains(items, item) {
			items = append(items, item)
		}
	}
	return items
}

func unique(slots []*domain.Item) []*domain.Item {
	var items []*domain.Item
	for _, item := range slots {
		if item != nil && !contains(items, item) {
			items = append(items, item)
		}
	}
	return items
}

func contains(items []*domain.Item, item *domain.Item) bool {
	for _, i := range items {
		if i == item {
			return true
		}
	}
	return false
}

func isHand(slot domain.EquipSlot) bool {
	return slot == domain.EquipRightHand || slot == domain.EquipLeftHand
}

func setName(skin bool) string {
	if skin {
		return "a cosmetic"
	}
	return "gear"
}
