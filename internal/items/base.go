// Package items implements the per-session item managers: inventory tabs,
// equipped gear, account storage, furnishing storage and the cosmetic
// archive. Every manager of one session shares a single injected mutex, so an
// operation spanning two managers is atomic to any observer.
//
// Exported methods acquire the session lock. Unexported methods assume it is
// already held; managers call each other only through those.
package items

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/ItemVault_Go/internal/collection"
	"github.com/osse101/ItemVault_Go/internal/currency"
	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/metrics"
	"github.com/osse101/ItemVault_Go/internal/repository"
)

// Notifier receives the state deltas produced by item operations.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n domain.Notification)

// Notify calls f(ctx, n).
func (f NotifierFunc) Notify(ctx context.Context, n domain.Notification) { f(ctx, n) }

// MetadataProvider resolves item definitions by id.
type MetadataProvider interface {
	Get(itemID int) (*domain.ItemMetadata, bool)
}

// Deps are the collaborators shared by every manager of one session.
type Deps struct {
	Lock     *sync.Mutex
	State    *domain.AccountState
	Wallet   *currency.Wallet
	Store    repository.ItemStore
	Accounts repository.AccountStore
	Metadata MetadataProvider
	Notifier Notifier
	Clock    func() time.Time
}

// expansionRule prices and caps the purchasable extra slots of a container.
type expansionRule struct {
	key  string
	base int
	step int
	max  int
	cost int64
}

// base carries the shared dependencies plus the pending-delete queue of one
// manager.
type base struct {
	Deps
	container string
	pending   []int64
}

func newBase(deps Deps, container string) base {
	if deps.Lock == nil {
		deps.Lock = &sync.Mutex{}
	}
	if deps.State == nil {
		deps.State = &domain.AccountState{}
	}
	if deps.Wallet == nil {
		deps.Wallet = currency.NewWallet(deps.State.Meret, deps.State.Meso)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return base{Deps: deps, container: container}
}

func (b *base) lock() func() {
	b.Lock.Lock()
	return b.Lock.Unlock
}

func (b *base) characterID() int64 { return b.State.CharacterID }

func (b *base) accountID() int64 { return b.State.AccountID }

func (b *base) now() time.Time { return b.Clock() }

func (b *base) notify(ctx context.Context, n domain.Notification) {
	if b.Notifier == nil {
		return
	}
	n.CharacterID = b.characterID()
	if n.Container == "" {
		n.Container = b.container
	}
	b.Notifier.Notify(ctx, n)
}

func (b *base) notifyItem(ctx context.Context, t domain.NotificationType, item *domain.Item, delta int) {
	view := item.View()
	b.notify(ctx, domain.Notification{Type: t, Item: &view, UID: item.UID, Delta: delta})
}

func (b *base) notifyReset(ctx context.Context, container string, c *collection.Collection) {
	b.notify(ctx, domain.Notification{
		Type:      domain.NotifyTabReset,
		Container: container,
		Items:     domain.Views(c.Items()),
		Size:      c.Size(),
	})
}

// fail logs and reports a failed operation, then returns err unchanged.
func (b *base) fail(ctx context.Context, op string, err error) error {
	log := logger.FromContext(ctx)
	attrs := []any{"container", b.container, "operation", op, "character_id", b.characterID(), "error", err}
	switch domain.KindOf(err) {
	case domain.KindPersistence, domain.KindInvariant, domain.KindUnknown:
		log.Error(LogMsgOperationFailed, attrs...)
	default:
		log.Warn(LogMsgOperationRejected, attrs...)
	}
	metrics.ItemOperations.WithLabelValues(b.container, op, metrics.ResultError).Inc()
	b.notify(ctx, domain.Notification{
		Type:      domain.NotifyError,
		Operation: op,
		Code:      domain.CodeOf(err),
		Message:   domain.MessageOf(err),
	})
	return err
}

func (b *base) succeed(ctx context.Context, op string) {
	metrics.ItemOperations.WithLabelValues(b.container, op, metrics.ResultOK).Inc()
	logger.FromContext(ctx).Debug(LogMsgOperationApplied, "container", b.container, "operation", op,
		"character_id", b.characterID())
}

// finish records the outcome of op and returns err.
func (b *base) finish(ctx context.Context, op string, err error) error {
	if err != nil {
		return b.fail(ctx, op, err)
	}
	b.succeed(ctx, op)
	return nil
}

// resolve attaches the item definition, reporting false when it is unknown.
func (b *base) resolve(item *domain.Item) bool {
	if item.Metadata != nil {
		return true
	}
	if b.Metadata == nil {
		return false
	}
	meta, ok := b.Metadata.Get(item.ItemID)
	if !ok {
		return false
	}
	item.Metadata = meta
	return true
}

// create assigns a durable identity to an ephemeral item.
func (b *base) create(ctx context.Context, ownerID int64, item *domain.Item) error {
	if item.UID != 0 {
		return nil
	}
	start := time.Now()
	created, err := b.Store.CreateItem(ctx, ownerID, item)
	metrics.ObserveStore(StoreOpCreate, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreCreateFailed, err)
	}
	if created == nil || created.UID == 0 {
		return fmt.Errorf("%w: store returned no uid", domain.ErrStoreCreateFailed)
	}
	item.UID = created.UID
	if item.CreationTime == 0 {
		item.CreationTime = created.CreationTime
	}
	return nil
}

// split carves amount off item into a new durable record stored in group,
// so the split portion reloads from its destination if the session is lost
// before the next save. The original is decremented in place only after the
// store has acknowledged the split.
func (b *base) split(ctx context.Context, ownerID int64, item *domain.Item, amount int, group domain.ItemGroup) (*domain.Item, error) {
	start := time.Now()
	split, err := b.Store.SplitItem(ctx, ownerID, item, amount, group)
	metrics.ObserveStore(StoreOpSplit, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreSplitFailed, err)
	}
	if split == nil || split.UID == 0 || split.UID == item.UID {
		return nil, fmt.Errorf("%w: store returned no new uid", domain.ErrStoreSplitFailed)
	}
	item.Amount -= amount
	split.Amount = amount
	split.Slot = -1
	split.Group = group
	split.Metadata = item.Metadata
	return split, nil
}

// discard destroys an item already taken out of every container. Ephemeral
// items are simply dropped; persisted ones are queued, or deleted at once
// when commit is set.
func (b *base) discard(ctx context.Context, item *domain.Item, commit bool) error {
	item.Amount = 0
	item.Slot = -1
	if item.UID == 0 {
		return nil
	}
	if !commit {
		b.pending = append(b.pending, item.UID)
		return nil
	}
	return b.delete(ctx, item.UID)
}

func (b *base) delete(ctx context.Context, uids ...int64) error {
	if len(uids) == 0 {
		return nil
	}
	start := time.Now()
	err := b.Store.DeleteItems(ctx, uids...)
	metrics.ObserveStore(StoreOpDelete, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreDeleteFailed, err)
	}
	return nil
}

// persist writes items and then flushes the pending-delete queue. The queue
// is only cleared once the store has accepted the deletes.
func (b *base) persist(ctx context.Context, ownerID int64, items []*domain.Item) error {
	if len(items) > 0 {
		start := time.Now()
		err := b.Store.SaveItems(ctx, ownerID, items...)
		metrics.ObserveStore(StoreOpSave, start)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreSaveFailed, err)
		}
	}
	if err := b.delete(ctx, b.pending...); err != nil {
		return err
	}
	b.pending = b.pending[:0]
	return nil
}

// PendingDeletes returns the uids queued for deletion at the next save.
func (b *base) PendingDeletes() []int64 {
	defer b.lock()()
	return append([]int64(nil), b.pending...)
}

// expand buys one expansion step for c under rule, charging meret. The
// store records the slots and the new balance before anything in memory
// changes.
func (b *base) expand(ctx context.Context, c *collection.Collection, rule expansionRule) error {
	extra := b.State.Expansion(rule.key) + rule.step
	if extra > rule.max {
		return fmt.Errorf("%w: %s at %d extra slots", domain.ErrExpansionLimit, rule.key, extra-rule.step)
	}
	if !b.Wallet.CanAddMeret(-rule.cost) {
		return fmt.Errorf("%w: expansion costs %d meret", domain.ErrInsufficientFunds, rule.cost)
	}
	// The charge is stored with the expansion so a lost session cannot keep
	// the slots and refund the meret.
	start := time.Now()
	err := b.Accounts.PurchaseExpansion(ctx, b.accountID(), rule.key, extra, b.Wallet.Meret()-rule.cost)
	metrics.ObserveStore(StoreOpPurchaseExpansion, start)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAccountUpdateFailed, err)
	}
	if err := c.Expand(rule.base + extra); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvariantViolation, err)
	}
	if err := b.Wallet.AddMeret(-rule.cost); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvariantViolation, err)
	}
	b.State.SetExpansion(rule.key, extra)
	b.notify(ctx, domain.Notification{Type: domain.NotifyExpanded, Size: c.Size(), Meret: b.Wallet.Meret()})
	return nil
}
