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

// StorageManager is the account-wide item storage plus its meso balance.
type StorageManager struct {
	base
	inventory *InventoryManager
	items     *collection.Collection
	mesos     int64
}

// NewStorageManager creates an empty storage sized from the account's
// expansions. deps must carry the same lock as the inventory.
func NewStorageManager(deps Deps, inventory *InventoryManager) *StorageManager {
	m := &StorageManager{
		base:      newBase(deps, ContainerStorage),
		inventory: inventory,
	}
	m.items = collection.New(m.baseSize())
	m.mesos = m.State.StorageMesos
	return m
}

func (m *StorageManager) baseSize() int {
	return StorageBaseSize + m.State.Expansion(domain.ExpansionKeyStorage)
}

// Load replaces the storage content with the account's stored items.
func (m *StorageManager) Load(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpLoad, m.load(ctx))
}

func (m *StorageManager) load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	start := time.Now()
	items, err := m.Store.GetStorage(ctx, m.accountID())
	metrics.ObserveStore(StoreOpLoad, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreLoadFailed, err)
	}

	m.items = collection.New(m.baseSize())
	m.mesos = m.State.StorageMesos
	m.pending = m.pending[:0]
	for _, item := range items {
		if !m.resolve(item) {
			log.Warn(LogMsgUnknownItem, "uid", item.UID, "item_id", item.ItemID)
			continue
		}
		item.Group = domain.GroupStorage
		if _, err := m.items.Add(item, false); err != nil {
			log.Warn(LogMsgLoadSkipped, "uid", item.UID, "item_id", item.ItemID, "error", err)
		}
	}
	m.notifyReset(ctx, ContainerStorage, m.items)
	return nil
}

// Save writes the stored items, flushes the pending-delete queue and copies
// the meso balance into the account state.
func (m *StorageManager) Save(ctx context.Context) error {
	defer m.lock()()
	m.State.StorageMesos = m.mesos
	return m.finish(ctx, OpSave, m.persist(ctx, m.accountID(), m.items.Items()))
}

// Items returns a snapshot of the stored items.
func (m *StorageManager) Items() []*domain.Item {
	defer m.lock()()
	return m.items.Items()
}

// Size returns the storage capacity.
func (m *StorageManager) Size() int {
	defer m.lock()()
	return m.items.Size()
}

// Mesos returns the stored meso balance.
func (m *StorageManager) Mesos() int64 {
	defer m.lock()()
	return m.mesos
}

// Deposit moves amount units of a bag item into storage, into slot when it
// is a free storage slot. A partial deposit splits off a new record.
func (m *StorageManager) Deposit(ctx context.Context, uid int64, amount, slot int) error {
	defer m.lock()()
	return m.finish(ctx, OpDeposit, m.deposit(ctx, uid, amount, slot))
}

func (m *StorageManager) deposit(ctx context.Context, uid int64, amount, slot int) error {
	item, _ := m.inventory.find(uid)
	if item == nil {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if amount > item.Amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientQuantity, item.Amount, amount)
	}
	if !m.fits(m.items, item, amount, slot) {
		return fmt.Errorf("%w: uid %d", domain.ErrStorageFull, uid)
	}

	var moved *domain.Item
	if amount == item.Amount {
		taken, err := m.inventory.take(ctx, uid)
		if err != nil {
			return err
		}
		moved = taken
	} else {
		split, err := m.split(ctx, m.accountID(), item, amount, domain.GroupStorage)
		if err != nil {
			return err
		}
		m.inventory.notifyItem(ctx, domain.NotifyItemUpdated, item, -amount)
		moved = split
	}

	moved.Slot = slot
	moved.Group = domain.GroupStorage
	return m.store(ctx, moved)
}

// store adds an item that has already left the bag.
func (m *StorageManager) store(ctx context.Context, item *domain.Item) error {
	results, err := m.items.Add(item, true)
	if err != nil {
		return fmt.Errorf("%w: uid %d: %v", domain.ErrInvariantViolation, item.UID, err)
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

// Withdraw moves amount units of a stored item into the bag, into slot when
// it is a free bag slot. Items bound to another character stay in storage.
func (m *StorageManager) Withdraw(ctx context.Context, uid int64, amount, slot int) error {
	defer m.lock()()
	return m.finish(ctx, OpWithdraw, m.withdraw(ctx, uid, amount, slot))
}

func (m *StorageManager) withdraw(ctx context.Context, uid int64, amount, slot int) error {
	item, ok := m.items.Lookup(uid)
	if !ok {
		return fmt.Errorf("%w: uid %d", domain.ErrItemNotFound, uid)
	}
	if item.IsBoundToOther(m.characterID()) {
		return fmt.Errorf("%w: uid %d", domain.ErrItemBoundToOther, uid)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if amount > item.Amount {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientQuantity, item.Amount, amount)
	}
	if !m.resolve(item) {
		return fmt.Errorf("%w: unknown definition %d", domain.ErrItemNotFound, item.ItemID)
	}
	tab, err := m.inventory.tab(item.Type())
	if err != nil {
		return err
	}
	if !m.fits(tab, item, amount, slot) {
		return fmt.Errorf("%w: %s", domain.ErrInventoryFull, item.Type())
	}

	var moved *domain.Item
	if amount == item.Amount {
		m.items.Remove(uid)
		m.notify(ctx, domain.Notification{Type: domain.NotifyItemRemoved, UID: uid})
		moved = item
	} else {
		split, err := m.split(ctx, m.characterID(), item, amount, domain.GroupInventory)
		if err != nil {
			return err
		}
		m.notifyItem(ctx, domain.NotifyItemUpdated, item, -amount)
		moved = split
	}

	moved.Slot = slot
	if err := m.inventory.add(ctx, moved, false, false); err != nil {
		return fmt.Errorf("%w: uid %d: %v", domain.ErrInvariantViolation, moved.UID, err)
	}
	return nil
}

// fits reports whether amount units of item can enter c, either into the
// free slot it names or by stacking plus one free slot.
func (m *StorageManager) fits(c *collection.Collection, item *domain.Item, amount, slot int) bool {
	if slot >= 0 && slot < c.Size() && c.Get(slot) == nil {
		return true
	}
	return c.GetStackResult(item, amount) == 0 || c.OpenSlots() > 0
}

// DepositMesos moves mesos from the character's wallet into storage.
func (m *StorageManager) DepositMesos(ctx context.Context, amount int64) error {
	defer m.lock()()
	return m.finish(ctx, OpDepositMeso, m.depositMesos(ctx, amount))
}

func (m *StorageManager) depositMesos(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if !m.Wallet.CanAddMeso(-amount) {
		return fmt.Errorf("%w: deposit of %d mesos", domain.ErrInsufficientFunds, amount)
	}
	if amount > StorageMaxMesos-m.mesos {
		return fmt.Errorf("%w: storage holds %d of %d mesos", domain.ErrBalanceLimit, m.mesos, StorageMaxMesos)
	}
	if err := m.Wallet.AddMeso(-amount); err != nil {
		return err
	}
	m.mesos += amount
	m.State.StorageMesos = m.mesos
	m.notifyMesos(ctx)
	return nil
}

// WithdrawMesos moves mesos from storage into the character's wallet.
func (m *StorageManager) WithdrawMesos(ctx context.Context, amount int64) error {
	defer m.lock()()
	return m.finish(ctx, OpWithdrawMeso, m.withdrawMesos(ctx, amount))
}

func (m *StorageManager) withdrawMesos(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidAmount, amount)
	}
	if amount > m.mesos {
		return fmt.Errorf("%w: storage holds %d mesos", domain.ErrInsufficientFunds, m.mesos)
	}
	if err := m.Wallet.AddMeso(amount); err != nil {
		return err
	}
	m.mesos -= amount
	m.State.StorageMesos = m.mesos
	m.notifyMesos(ctx)
	return nil
}

func (m *StorageManager) notifyMesos(ctx context.Context) {
	m.notify(ctx, domain.Notification{Type: domain.NotifyCurrency, Meso: m.Wallet.Meso(), StoredMeso: m.mesos})
}

// Sort compacts and orders the storage, then resends it whole.
func (m *StorageManager) Sort(ctx context.Context) error {
	defer m.lock()()
	m.items.Sort()
	m.notifyReset(ctx, ContainerStorage, m.items)
	m.succeed(ctx, OpSort)
	return nil
}

// Expand buys one storage expansion step.
func (m *StorageManager) Expand(ctx context.Context) error {
	defer m.lock()()
	return m.finish(ctx, OpExpand, m.expand(ctx, m.items, expansionRule{
		key:  domain.ExpansionKeyStorage,
		base: StorageBaseSize,
		step: StorageExpandStep,
		max:  StorageMaxExpand,
		cost: StorageExpandCost,
	}))
}
