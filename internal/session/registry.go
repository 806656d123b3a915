package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/osse101/ItemVault_Go/internal/concurrency"
	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
	"github.com/osse101/ItemVault_Go/internal/items"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/metrics"
)

// Registry tracks the open sessions of the process, keyed by character.
// An account has at most one open session, since account storage and meret
// are loaded into it. Open and Close for one account are serialized;
// different accounts proceed in parallel.
type Registry struct {
	cfg      Config
	locks    *concurrency.LockManager
	mu       sync.RWMutex
	sessions map[int64]*Session
	accounts map[int64]int64 // account -> character with the open session
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:      cfg,
		locks:    concurrency.NewLockManager(),
		sessions: make(map[int64]*Session),
		accounts: make(map[int64]int64),
	}
}

func lockKey(accountID int64) string {
	return lockKeyPrefix + strconv.FormatInt(accountID, 10)
}

// Open returns the character's session, loading it from the store when it
// is not open yet. It fails with ErrAccountInUse while another character of
// the same account has a session open.
func (r *Registry) Open(ctx context.Context, accountID, characterID int64) (*Session, error) {
	var opened *Session
	err := r.locks.WithLock(lockKey(accountID), func() error {
		if s, ok := r.lookup(characterID); ok {
			if s.AccountID() != accountID {
				return fmt.Errorf("%w: character %d belongs to another account", domain.ErrInvalidInput, characterID)
			}
			opened = s
			return nil
		}
		if other, ok := r.openCharacter(accountID); ok {
			return fmt.Errorf("%w: account %d is in use by character %d", domain.ErrAccountInUse, accountID, other)
		}

		start := time.Now()
		state, err := r.cfg.Accounts.GetAccountState(ctx, accountID, characterID)
		metrics.ObserveStore(items.StoreOpLoadAccount, start)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStoreLoadFailed, err)
		}

		s := New(r.cfg, state)
		if err := s.Load(ctx); err != nil {
			return err
		}

		r.mu.Lock()
		if _, taken := r.sessions[characterID]; taken {
			r.mu.Unlock()
			return fmt.Errorf("%w: character %d belongs to another account", domain.ErrInvalidInput, characterID)
		}
		r.sessions[characterID] = s
		r.accounts[accountID] = characterID
		r.mu.Unlock()
		metrics.ActiveSessions.Inc()

		r.publish(ctx, event.SessionOpened, s)
		logger.FromContext(ctx).Info(LogMsgSessionOpened, "account_id", accountID, "character_id", characterID)
		opened = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opened, nil
}

// Get returns an open session.
func (r *Registry) Get(characterID int64) (*Session, error) {
	if s, ok := r.lookup(characterID); ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: character %d", domain.ErrSessionNotFound, characterID)
}

// Close saves and forgets a session. A poisoned session is dropped without
// saving. A failed save keeps the session open so the caller can retry.
func (r *Registry) Close(ctx context.Context, characterID int64) error {
	s, ok := r.lookup(characterID)
	if !ok {
		return fmt.Errorf("%w: character %d", domain.ErrSessionNotFound, characterID)
	}

	return r.locks.WithLock(lockKey(s.AccountID()), func() error {
		// a concurrent Close may have won the lock
		if current, ok := r.lookup(characterID); !ok || current != s {
			return fmt.Errorf("%w: character %d", domain.ErrSessionNotFound, characterID)
		}

		if !s.Poisoned() {
			if err := s.Save(ctx); err != nil {
				return err
			}
		}

		r.mu.Lock()
		delete(r.sessions, characterID)
		if r.accounts[s.AccountID()] == characterID {
			delete(r.accounts, s.AccountID())
		}
		r.mu.Unlock()
		metrics.ActiveSessions.Dec()

		r.publish(ctx, event.SessionClosed, s)
		logger.FromContext(ctx).Info(LogMsgSessionClosed, "character_id", characterID, "poisoned", s.Poisoned())
		return nil
	})
}

// Save saves one open session.
func (r *Registry) Save(ctx context.Context, characterID int64) error {
	s, err := r.Get(characterID)
	if err != nil {
		return err
	}
	if err := s.Save(ctx); err != nil {
		return err
	}
	r.publish(ctx, event.SessionSaved, s)
	return nil
}

// SaveAll saves every healthy open session, attempting all of them.
func (r *Registry) SaveAll(ctx context.Context) error {
	var errs []error
	for _, s := range r.Sessions() {
		if s.Poisoned() {
			continue
		}
		if err := s.Save(ctx); err != nil {
			errs = append(errs, fmt.Errorf("character %d: %w", s.CharacterID(), err))
		}
	}
	return errors.Join(errs...)
}

// RemoveExpiredAll sweeps expired items out of every open session and
// returns the total removed.
func (r *Registry) RemoveExpiredAll(ctx context.Context) int {
	total := 0
	for _, s := range r.Sessions() {
		total += s.RemoveExpired(ctx)
	}
	return total
}

// CloseAll saves and closes every session, used on shutdown.
func (r *Registry) CloseAll(ctx context.Context) error {
	var errs []error
	for _, s := range r.Sessions() {
		if err := r.Close(ctx, s.CharacterID()); err != nil {
			errs = append(errs, fmt.Errorf("character %d: %w", s.CharacterID(), err))
		}
	}
	return errors.Join(errs...)
}

// Sessions returns the open sessions ordered by character id.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CharacterID() < out[j].CharacterID() })
	return out
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) lookup(characterID int64) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[characterID]
	return s, ok
}

func (r *Registry) openCharacter(accountID int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	characterID, ok := r.accounts[accountID]
	return characterID, ok
}

func (r *Registry) publish(ctx context.Context, t event.Type, s *Session) {
	if r.cfg.Bus == nil {
		return
	}
	evt := event.NewSessionEvent(t, s.AccountID(), s.CharacterID(), r.cfg.now().Unix())
	if err := r.cfg.Bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgNotifyPublishError, "type", t, "error", err)
	}
}
