package items

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/osse101/ItemVault_Go/internal/collection"
	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/metrics"
)

// InventoryManager owns the character's bag: one collection per active tab.
type InventoryManager struct {
	base
	tabs map[domain.InventoryType]*collection.Collection
}

// NewInventoryManager creates empty tabs sized from the account's expansions.
func NewInventoryManager(deps Deps) *InventoryManager {
	m := &InventoryManager{
		base: newBase(deps, ContainerInventory),
		tabs: make(map[domain.InventoryType]*collection.Collection, len(inventoryTabs)),
	}
	m.resetTabs()
	return m
}

func (m *InventoryManager) resetTabs() {
	for t, rule := range inventoryTabs {
		if !rule.active {
			continue
		}
		m.tabs[t] = collection.New(rule.base + m.State.Expansion(domain.InventoryExpansionKey(t)))
	}
}

// Load replaces every tab with the character's stored bag items. Items that
// no longer fit their tab, or whose definition is unknown, are skipped.
func (m *InventoryManager) Load(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpLoad, m.load(ctx))
}

func (m *InventoryManager) load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	items, err := m.Store.GetInventory(ctx, m.characterID())
	metrics.ObserveStore(StoreOpLoad, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreLoadFailed, err)
	}

	m.resetTabs()
	m.pending = m.pending[:0]
	for _, item := range items {
		if !m.resolve(item) {
			log.Warn(LogMsgUnknownItem, "uid", item.UID, "item_id", item.ItemID)
			continue
		}
		tab, err := m.tab(item.Type())
		if err != nil {
			log.Warn(LogMsgLoadSkipped, "uid", item.UID, "item_id", item.ItemID, "error", err)
			continue
		}
		item.Group = domain.GroupInventory
		if _, err := tab.Add(item, false); err != nil {
			log.Warn(LogMsgLoadSkipped, "uid", item.UID, "item_id", item.ItemID, "error", err)
		}
	}

	for _, t := range m.activeTypes() {
		m.notifyReset(ctx, t.String(), m.tabs[t])
	}
	return nil
}

// Save writes every bag item and flushes the pending-delete queue.
func (m *InventoryManager) Save(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpSave, m.save(ctx))
}

func (m *InventoryManager) save(ctx context.Context) error {
	var items []*domain.Item
	for _, t := range m.activeTypes() {
		items = append(items, m.tabs[t].Items()...)
	}
	return m.persist(ctx, m.characterID(), items)
}

// Get returns the bag item with uid.
func (m *InventoryManager) Get(uid int64) (*domain.Item, bool) {
	defer m.lock()()
	item, _ := m.find(uid)
	return item, item != nil
}

// Find returns the first bag item with the given definition and rarity.
// A rarity of 0 matches any rarity.
func (m *InventoryManager) Find(itemID, rarity int) (*domain.Item, bool) {
	defer m.lock()()
	for _, t := range m.activeTypes() {
		found := m.tabs[t].Filter(func(item *domain.Item) bool {
			return item.ItemID == itemID && (rarity == 0 || item.Rarity == rarity)
		})
		if len(found) > 0 {
			return found[0], true
		}
	}
	return nil, false
}

// CountItem returns the total amount held of a definition across all stacks.
func (m *InventoryManager) CountItem(itemID int) int {
	defer m.lock()()
	total := 0
	for _, item := range m.filter(func(item *domain.Item) bool { return item.ItemID == itemID }) {
		total += item.Amount
	}
	return total
}

// Filter returns every bag item matching fn, tab by tab in slot order.
func (m *InventoryManager) Filter(fn func(*domain.Item) bool) []*domain.Item {
	defer m.lock()()
	return m.filter(fn)
}

func (m *InventoryManager) filter(fn func(*domain.Item) bool) []*domain.Item {
	var items []*domain.Item
	for _, t := range m.activeTypes() {
		items = append(items, m.tabs[t].Filter(fn)...)
	}
	return items
}

// Items returns a snapshot of one tab.
func (m *InventoryManager) Items(t domain.InventoryType) ([]*domain.Item, error) {
	defer m.lock()()
	tab, err := m.tab(t)
	if err != nil {
		return nil, err
	}
	return tab.Items(), nil
}

// Size returns the capacity of one tab.
func (m *InventoryManager) Size(t domain.InventoryType) int {
	defer m.lock()()
	tab, err := m.tab(t)
	if err != nil {
		return 0
	}
	return tab.Size()
}

// OpenSlots returns the number of free slots in one tab.
func (m *InventoryManager) OpenSlots(t domain.InventoryType) int {
	defer m.lock()()
	return m.openSlots(t)
}

func (m *InventoryManager) openSlots(t domain.InventoryType) int {
	tab, err := m.tab(t)
	if err != nil {
		return 0
	}
	return tab.OpenSlots()
}

// Add puts item into its tab, stacking onto compatible items first. An
// ephemeral item only gets a durable identity when part of it needs a slot
// of its own. If the item is fully absorbed it is discarded, immediately when
// commit is set.
func (m *InventoryManager) Add(ctx context.Context, item *domain.Item, notifyNew, commit bool) error {
	defer m.lock()()
	if item != nil {
		item.Slot = -1
	}
	return m.finish(ctx, OpAdd, m.add(ctx, item, notifyNew, commit))
}

func (m *InventoryManager) add(ctx context.Context, item *domain.Item, notifyNew, commit bool) error {
	if item == nil || item.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if !m.resolve(item) {
		return fmt.Errorf("%w: unknown definition %d", domain.ErrItemNotFound, item.ItemID)
	}
	tab, err := m.tab(item.Type())
	if err != nil {
		return err
	}
	if item.UID != 0 && tab.Contains(item.UID) {
		return fmt.Errorf("%w: uid %d", domain.ErrDuplicateItem, item.UID)
	}

	remainder := tab.GetStackResult(item, item.Amount)
	if remainder > 0 {
		if tab.OpenSlots() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrInventoryFull, item.Type())
		}
		if err := m.create(ctx, m.characterID(), item); err != nil {
			return err
		}
	}

	item.Group = domain.GroupInventory
	results, err := tab.Add(item, true)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInventoryFull, err)
	}
	for _, r := range results {
		m.notifyItem(ctx, domain.NotifyItemUpdated, r.Item, r.Added)
	}
	if item.Amount == 0 {
		return m.discard(ctx, item, commit)
	}

	view := item.View()
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemAdded, Item: &view, UID: item.UID, IsNew: notifyNew})
	return nil
}

// Move relocates a bag item within its tab. It first tries to merge onto the
// destination stack; a fully merged source is discarded. Otherwise the two
// slots swap occupants.
func (m *InventoryManager) Move(ctx context.Context, uid int64, dstSlot int) error {
	defer m.lock()()
	return m.finish(ctx, OpMove, m.move(ctx, uid, dstSlot))
}

func (m *InventoryManager) move(ctx context.Context, uid int64, dstSlot int) error {
	item, tab := m.find(uid)
	if item == nil {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if dstSlot < 0 || dstSlot >= tab.Size() {
		return fmt.Errorf("%w: %d", domain.ErrInvalidSlot, dstSlot)
	}
	src := item.Slot
	if src == dstSlot {
		return nil
	}

	dst := tab.Get(dstSlot)
	if dst != nil && dst.CanStack(item) {
		results := tab.Stack(item, dstSlot)
		added := 0
		for _, r := range results {
			added += r.Added
			m.notifyItem(ctx, domain.NotifyItemUpdated, r.Item, r.Added)
		}
		if item.Amount == 0 {
			tab.Remove(uid)
			m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})
			return m.discard(ctx, item, false)
		}
		m.notifyItem(ctx, domain.NotifyItemUpdated, item, -added)
	}

	if err := tab.Swap(src, dstSlot); err != nil {
		return err
	}
	n := domain.Notification{Type: domain.NotifyItemMoved, UID: uid, FromSlot: src, ToSlot: dstSlot}
	if dst != nil {
		n.SwappedUID = dst.UID
	}
	m.notify(ctx, n)
	return nil
}

// Remove takes amount units of a bag item out of the inventory and returns
// them as a standalone item. Removing less than the whole stack splits off a
// new detached record first and decrements the original in place. Removing the
// whole stack stores the record detached before it leaves the bag. Detached
// records are never loaded back into a container.
func (m *InventoryManager) Remove(ctx context.Context, uid int64, amount int) (*domain.Item, error) {
	defer m.lock()()
	removed, err := m.remove(ctx, uid, amount)
	return removed, m.finish(ctx, OpRemove, err)
}

func (m *InventoryManager) remove(ctx context.Context, uid int64, amount int) (*domain.Item, error) {
	item, tab := m.find(uid)
	if item == nil {
		return nil, fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if amount > item.Amount {
		return nil, fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientQuantity, item.Amount, amount)
	}
	if amount == item.Amount {
		if err := m.detach(ctx, item); err != nil {
			return nil, err
		}
		tab.Remove(uid)
		item.Group = domain.GroupNone
		item.Slot = -1
		m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})
		return item, nil
	}

	split, err := m.split(ctx, m.characterID(), item, amount, domain.GroupNone)
	if err != nil {
		return nil, err
	}
	m.notifyItem(ctx, domain.NotifyItemUpdated, item, -amount)
	return split, nil
}

// detach stores item outside every container so a reload no longer finds it
// in the bag.
func (m *InventoryManager) detach(ctx context.Context, item *domain.Item) error {
	if item.UID == 0 {
		return nil
	}
	detached := item.Clone()
	detached.Group = domain.GroupNone
	detached.Slot = -1
	start := time.Now()
	err := m.Store.SaveItems(ctx, m.characterID(), detached)
	metrics.ObserveStore(StoreOpSave, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreSaveFailed, err)
	}
	return nil
}

// Consume destroys amount units of one bag item.
func (m *InventoryManager) Consume(ctx context.Context, uid int64, amount int) error {
	defer m.lock()()
	return m.finish(ctx, OpConsume, m.consume(ctx, uid, amount))
}

func (m *InventoryManager) consume(ctx context.Context, uid int64, amount int) error {
	item, tab := m.find(uid)
	if item == nil {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if amount > item.Amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientQuantity, item.Amount, amount)
	}
	return m.decrement(ctx, tab, item, amount)
}

// decrement reduces item by amount, discarding it when it reaches zero.
func (m *InventoryManager) decrement(ctx context.Context, tab *collection.Collection, item *domain.Item, amount int) error {
	item.Amount -= amount
	if item.Amount > 0 {
		m.notifyItem(ctx, domain.NotifyItemUpdated, item, -amount)
		return nil
	}
	tab.Remove(item.UID)
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: item.UID})
	return m.discard(ctx, item, false)
}

// ConsumeIngredients destroys every listed requirement or nothing at all.
// All matching stacks are verified first; decrements are applied only when
// every ingredient is fully available.
func (m *InventoryManager) ConsumeIngredients(ctx context.Context, ingredients []domain.Ingredient) error {
	defer m.lock()()
	return m.finish(ctx, OpConsumeRecipe, m.consumeIngredients(ctx, ingredients))
}

type reservation struct {
	item   *domain.Item
	tab    *collection.Collection
	amount int
}

func (m *InventoryManager) consumeIngredients(ctx context.Context, ingredients []domain.Ingredient) error {
	if len(ingredients) == 0 {
		return fmt.Errorf("%w: no ingredients", domain.ErrInvalidInput)
	}

	reserved := make(map[int64]int)
	var plan []reservation
	for _, in := range ingredients {
		if in.Amount <= 0 {
			return fmt.Errorf("%w: ingredient amount %d", domain.ErrInvalidAmount, in.Amount)
		}
		need := in.Amount
		for _, t := range m.activeTypes() {
			tab := m.tabs[t]
			for _, item := range tab.Filter(in.Matches) {
				if need == 0 {
					break
				}
				free := item.Amount - reserved[item.UID]
				if free <= 0 {
					continue
				}
				take := min(free, need)
				reserved[item.UID] += take
				plan = append(plan, reservation{item: item, tab: tab, amount: take})
				need -= take
			}
		}
		if need > 0 {
			return fmt.Errorf("%w: %s short by %d", domain.ErrInsufficientQuantity, ingredientName(in), need)
		}
	}

	for _, r := range plan {
		if r.item.Amount < r.amount {
			return fmt.Errorf("%w: uid %d has %d, reserved %d", domain.ErrInvariantViolation,
				r.item.UID, r.item.Amount, r.amount)
		}
		if err := m.decrement(ctx, r.tab, r.item, r.amount); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvariantViolation, err)
		}
	}
	return nil
}

func ingredientName(in domain.Ingredient) string {
	if in.Tag != "" {
		return in.Tag
	}
	return fmt.Sprintf("item %d", in.ItemID)
}

// Discard destroys a whole bag item.
func (m *InventoryManager) Discard(ctx context.Context, uid int64, commit bool) error {
	defer m.lock()()
	return m.finish(ctx, OpDiscard, m.discardUID(ctx, uid, commit))
}

func (m *InventoryManager) discardUID(ctx context.Context, uid int64, commit bool) error {
	item, tab := m.find(uid)
	if item == nil {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	tab.Remove(uid)
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})
	return m.discard(ctx, item, commit)
}

// Sort compacts and orders one tab, then resends it whole.
func (m *InventoryManager) Sort(ctx context.Context, t domain.InventoryType) error {
	defer m.lock()()
	tab, err := m.tab(t)
	if err != nil {
		return m.fail(ctx, OpSort, err)
	}
	tab.Sort()
	m.notifyReset(ctx, t.String(), tab)
	m.succeed(ctx, OpSort)
	return nil
}

// Expand buys one expansion step for a tab.
func (m *InventoryManager) Expand(ctx context.Context, t domain.InventoryType) error {
	defer m.lock()()
	tab, err := m.tab(t)
	if err != nil {
		return m.fail(ctx, OpExpand, err)
	}
	rule := inventoryTabs[t]
	return m.finish(ctx, OpExpand, m.expand(ctx, tab, expansionRule{
		key:  domain.InventoryExpansionKey(t),
		base: rule.base,
		step: InventoryExpandStep,
		max:  rule.maxExpand,
		cost: InventoryExpandCost,
	}))
}

// RemoveExpired discards every bag item whose expiry time has passed and
// returns how many were removed.
func (m *InventoryManager) RemoveExpired(ctx context.Context, now time.Time) int {
	defer m.lock()()
	removed := 0
	for _, t := range m.activeTypes() {
		tab := m.tabs[t]
		for _, item := range tab.Filter(func(item *domain.Item) bool { return item.IsExpired(now) }) {
			tab.Remove(item.UID)
			m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: item.UID})
			_ = m.discard(ctx, item, false)
			removed++
		}
	}
	if removed > 0 {
		metrics.ExpiredItemsRemoved.Add(float64(removed))
		m.succeed(ctx, OpExpire)
	}
	return removed
}

// take removes a whole bag item for another manager.
func (m *InventoryManager) take(ctx context.Context, uid int64) (*domain.Item, error) {
	item, tab := m.find(uid)
	if item == nil {
		return nil, fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	slot := item.Slot
	tab.Remove(uid)
	item.Slot = slot
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})
	return item, nil
}

// place returns an unstackable item to the bag, preferring the slot it
// names. The item's Slot is overwritten by the slot actually used.
func (m *InventoryManager) place(ctx context.Context, item *domain.Item) error {
	if !m.resolve(item) {
		return fmt.Errorf("%w: unknown definition %d", domain.ErrItemNotFound, item.ItemID)
	}
	tab, err := m.tab(item.Type())
	if err != nil {
		return err
	}
	item.Group = domain.GroupInventory
	if _, err := tab.Add(item, false); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInventoryFull, err)
	}
	view := item.View()
	m.notify(ctx, domain.Notification{Type: domain.NotifyItemAdded, Item: &view, UID: item.UID})
	return nil
}

// canHold reports whether the bag has room for every item in items.
func (m *InventoryManager) canHold(items ...*domain.Item) bool {
	need := make(map[domain.InventoryType]int)
	for _, item := range items {
		if !m.resolve(item) {
			return false
		}
		tab, err := m.tab(item.Type())
		if err != nil {
			return false
		}
		if tab.GetStackResult(item, item.Amount) > 0 {
			need[item.Type()]++
		}
	}
	for t, n := range need {
		if m.tabs[t].OpenSlots() < n {
			return false
		}
	}
	return true
}

func (m *InventoryManager) tab(t domain.InventoryType) (*collection.Collection, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidInventoryType, int(t))
	}
	tab, ok := m.tabs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInactiveTab, t)
	}
	return tab, nil
}

func (m *InventoryManager) find(uid int64) (*domain.Item, *collection.Collection) {
	if uid == 0 {
		return nil, nil
	}
	for _, tab := range m.tabs {
		if item, ok := tab.Lookup(uid); ok {
			return item, tab
		}
	}
	return nil, nil
}

func (m *InventoryManager) activeTypes() []domain.InventoryType {
	types := make([]domain.InventoryType, 0, len(m.tabs))
	for t := range m.tabs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
