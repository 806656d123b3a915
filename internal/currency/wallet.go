// Package currency holds the per-session currency balances that item
// operations read and mutate.
package currency

import (
	"fmt"
	"sync"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// Balance limits
const (
	DefaultMaxMeso  int64 = 100_000_000_000
	DefaultMaxMeret int64 = 10_000_000_000
)

// LimitFunc reports whether delta may be added to balance. It is only
// consulted for positive deltas; spending is bounded by the balance itself.
type LimitFunc func(balance, delta int64) bool

// MaxLimit returns a LimitFunc that caps a balance at maxBalance.
func MaxLimit(maxBalance int64) LimitFunc {
	return func(balance, delta int64) bool {
		return delta <= maxBalance-balance
	}
}

// Wallet is a session's premium (meret) and soft (meso) balances.
type Wallet struct {
	mu         sync.Mutex
	meret      int64
	meso       int64
	canAddMeso LimitFunc
	canAddMrt  LimitFunc
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithMesoLimit overrides the meso "can add" predicate.
func WithMesoLimit(fn LimitFunc) Option {
	return func(w *Wallet) { w.canAddMeso = fn }
}

// WithMeretLimit overrides the meret "can add" predicate.
func WithMeretLimit(fn LimitFunc) Option {
	return func(w *Wallet) { w.canAddMrt = fn }
}

// NewWallet creates a wallet with the given starting balances.
func NewWallet(meret, meso int64, opts ...Option) *Wallet {
	w := &Wallet{
		meret:      meret,
		meso:       meso,
		canAddMeso: MaxLimit(DefaultMaxMeso),
		canAddMrt:  MaxLimit(DefaultMaxMeret),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Meret returns the premium balance.
func (w *Wallet) Meret() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.meret
}

// Meso returns the soft balance.
func (w *Wallet) Meso() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.meso
}

// CanAddMeret reports whether AddMeret(delta) would succeed.
func (w *Wallet) CanAddMeret(delta int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return check(w.meret, delta, w.canAddMrt) == nil
}

// CanAddMeso reports whether AddMeso(delta) would succeed.
func (w *Wallet) CanAddMeso(delta int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return check(w.meso, delta, w.canAddMeso) == nil
}

// AddMeret adds delta (negative to spend) to the premium balance.
func (w *Wallet) AddMeret(delta int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := check(w.meret, delta, w.canAddMrt); err != nil {
		return fmt.Errorf("%w: meret %d%+d", err, w.meret, delta)
	}
	w.meret += delta
	return nil
}

// AddMeso adds delta (negative to spend) to the soft balance.
func (w *Wallet) AddMeso(delta int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := check(w.meso, delta, w.canAddMeso); err != nil {
		return fmt.Errorf("%w: meso %d%+d", err, w.meso, delta)
	}
	w.meso += delta
	return nil
}

// Snapshot copies the balances into state for persistence.
func (w *Wallet) Snapshot(state *domain.AccountState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	state.Meret = w.meret
	state.Meso = w.meso
}

func check(balance, delta int64, canAdd LimitFunc) error {
	switch {
	case delta < 0 && balance+delta < 0:
		return domain.ErrInsufficientFunds
	case delta > 0 && canAdd != nil && !canAdd(balance, delta):
		return domain.ErrBalanceLimit
	}
	return nil
}
