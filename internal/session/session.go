// Package session owns the per-character item state: one coarse lock, the
// wallet and account state, and the item managers that share them.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osse101/ItemVault_Go/internal/currency"
	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
	"github.com/osse101/ItemVault_Go/internal/items"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/metrics"
	"github.com/osse101/ItemVault_Go/internal/repository"
)

// Config carries the dependencies shared by every session.
type Config struct {
	Store     repository.ItemStore
	Accounts  repository.AccountStore
	Metadata  items.MetadataProvider
	Bus       event.Bus
	BadgeHook items.BadgeHook
	Clock     func() time.Time
}

func (c Config) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

// Session is one character's loaded item state.
type Session struct {
	cfg      Config
	lock     *sync.Mutex
	state    *domain.AccountState
	wallet   *currency.Wallet
	items    *items.Manager
	poisoned atomic.Bool
	savedAt  atomic.Int64
}

// New builds a session around an already loaded account state. Items are not
// loaded until Load.
func New(cfg Config, state *domain.AccountState) *Session {
	lock := &sync.Mutex{}
	wallet := currency.NewWallet(state.Meret, state.Meso)
	s := &Session{
		cfg:    cfg,
		lock:   lock,
		state:  state,
		wallet: wallet,
	}
	s.items = items.NewManager(items.Deps{
		Lock:     lock,
		State:    state,
		Wallet:   wallet,
		Store:    cfg.Store,
		Accounts: cfg.Accounts,
		Metadata: cfg.Metadata,
		Notifier: busNotifier{bus: cfg.Bus},
		Clock:    cfg.Clock,
	}, cfg.BadgeHook)
	return s
}

// AccountID returns the owning account.
func (s *Session) AccountID() int64 { return s.state.AccountID }

// CharacterID returns the owning character.
func (s *Session) CharacterID() int64 { return s.state.CharacterID }

// Wallet returns the session's balances.
func (s *Session) Wallet() *currency.Wallet { return s.wallet }

// Poisoned reports whether an invariant violation has disabled the session.
func (s *Session) Poisoned() bool { return s.poisoned.Load() }

// SavedAt returns the time of the last successful save, zero if never saved.
func (s *Session) SavedAt() time.Time {
	ns := s.savedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Load materializes every container from the store.
func (s *Session) Load(ctx context.Context) error {
	return s.items.Load(ctx)
}

// Run executes one command against the item managers. Commands on a poisoned
// session fail without running; an invariant violation poisons the session
// for every later command.
func (s *Session) Run(ctx context.Context, fn func(*items.Manager) error) error {
	if s.poisoned.Load() {
		return domain.ErrSessionPoisoned
	}
	err := fn(s.items)
	if domain.IsFatal(err) && s.poisoned.CompareAndSwap(false, true) {
		logger.FromContext(ctx).Error(LogMsgSessionPoisoned,
			"character_id", s.CharacterID(),
			"error", err)
	}
	return err
}

// Save writes every container and then the balances. A poisoned session is
// never saved, so a corrupted in-memory state cannot reach the store.
func (s *Session) Save(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if s.poisoned.Load() {
		log.Warn(LogMsgSkipPoisonedSave, "character_id", s.CharacterID())
		return domain.ErrSessionPoisoned
	}

	if err := s.items.Save(ctx); err != nil {
		log.Error(LogMsgSessionSaveFailed, "character_id", s.CharacterID(), "error", err)
		return err
	}

	// StorageManager.Save updates StorageMesos under the same lock
	s.lock.Lock()
	s.wallet.Snapshot(s.state)
	snapshot := *s.state
	s.lock.Unlock()

	start := time.Now()
	err := s.cfg.Accounts.SaveBalances(ctx, &snapshot)
	metrics.ObserveStore(items.StoreOpSaveBalances, start)
	if err != nil {
		log.Error(LogMsgSessionSaveFailed, "character_id", s.CharacterID(), "error", err)
		return fmt.Errorf("%w: %v", domain.ErrStoreSaveFailed, err)
	}

	s.savedAt.Store(s.cfg.now().UnixNano())
	log.Debug(LogMsgSessionSaved, "character_id", s.CharacterID())
	return nil
}

// RemoveExpired sweeps expired items out of the bag.
func (s *Session) RemoveExpired(ctx context.Context) int {
	if s.poisoned.Load() {
		return 0
	}
	removed := s.items.RemoveExpired(ctx, s.cfg.now())
	if removed > 0 {
		logger.FromContext(ctx).Debug(LogMsgExpiredRemoved, "character_id", s.CharacterID(), "count", removed)
	}
	return removed
}
