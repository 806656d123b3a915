// Package memory is a process-local ItemStore and AccountStore. It backs
// handler tests and STORE_DRIVER=memory for running without PostgreSQL.
// Nothing survives a restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/repository"
)

var (
	ErrUnsavedItem      = errors.New("item has no uid")
	ErrUnknownItem      = errors.New("item record not found")
	ErrAccountMismatch  = errors.New("character belongs to another account")
	ErrInsufficientRows = errors.New("split amount exceeds stored amount")
	ErrUnknownAccount   = errors.New("account not found")
)

type record struct {
	ownerID int64
	item    *domain.Item
}

type account struct {
	meret        int64
	storageMesos int64
	expansions   map[string]int
}

// Store keeps items and account balances in maps guarded by one mutex.
// Items cross the boundary as clones, so callers never share memory with
// the store.
type Store struct {
	mu         sync.Mutex
	nextUID    int64
	items      map[int64]record
	accounts   map[int64]*account
	characters map[int64]int64 // character -> account
	meso       map[int64]int64 // character -> meso
}

// NewStore creates an empty store. UIDs start above firstUID.
func NewStore(firstUID int64) *Store {
	return &Store{
		nextUID:    firstUID,
		items:      make(map[int64]record),
		accounts:   make(map[int64]*account),
		characters: make(map[int64]int64),
		meso:       make(map[int64]int64),
	}
}

var (
	_ repository.ItemStore    = (*Store)(nil)
	_ repository.AccountStore = (*Store)(nil)
)

func (s *Store) CreateItem(_ context.Context, ownerID int64, item *domain.Item) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUID++
	created := item.Clone()
	created.UID = s.nextUID
	s.items[created.UID] = record{ownerID: ownerID, item: created.Clone()}
	return created, nil
}

func (s *Store) SplitItem(_ context.Context, ownerID int64, item *domain.Item, amount int, group domain.ItemGroup) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.UID == 0 {
		return nil, ErrUnsavedItem
	}
	src, ok := s.items[item.UID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownItem, item.UID)
	}
	if amount <= 0 || amount > item.Amount {
		return nil, ErrInsufficientRows
	}

	// the in-memory amount is authoritative over the stored one
	src.item.Amount = item.Amount - amount
	s.items[item.UID] = src

	s.nextUID++
	split := item.Clone()
	split.UID = s.nextUID
	split.Amount = amount
	split.Slot = -1
	split.Group = group
	s.items[split.UID] = record{ownerID: ownerID, item: split.Clone()}
	return split, nil
}

func (s *Store) SaveItems(_ context.Context, ownerID int64, items ...*domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range items {
		if item.UID == 0 {
			return ErrUnsavedItem
		}
	}
	for _, item := range items {
		s.items[item.UID] = record{ownerID: ownerID, item: item.Clone()}
	}
	return nil
}

func (s *Store) DeleteItems(_ context.Context, uids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, uid := range uids {
		delete(s.items, uid)
	}
	return nil
}

func (s *Store) GetInventory(_ context.Context, characterID int64) ([]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectGroup(characterID, domain.GroupInventory), nil
}

func (s *Store) GetItemGroups(_ context.Context, ownerID int64, groups ...domain.ItemGroup) (map[domain.ItemGroup][]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.ItemGroup][]*domain.Item, len(groups))
	for _, g := range groups {
		out[g] = s.selectGroup(ownerID, g)
	}
	return out, nil
}

func (s *Store) GetStorage(_ context.Context, accountID int64) ([]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectGroup(accountID, domain.GroupStorage), nil
}

// selectGroup returns clones ordered by uid. Caller holds s.mu.
func (s *Store) selectGroup(ownerID int64, group domain.ItemGroup) []*domain.Item {
	var out []*domain.Item
	for _, rec := range s.items {
		if rec.ownerID == ownerID && rec.item.Group == group {
			out = append(out, rec.item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}

// Len returns the number of stored item records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// GetAccountState creates the account and character on first sight.
func (s *Store) GetAccountState(_ context.Context, accountID, characterID int64) (*domain.AccountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		acc = &account{expansions: make(map[string]int)}
		s.accounts[accountID] = acc
	}
	owner, ok := s.characters[characterID]
	if !ok {
		s.characters[characterID] = accountID
		owner = accountID
	}
	if owner != accountID {
		return nil, fmt.Errorf("%w: character %d, account %d", ErrAccountMismatch, characterID, accountID)
	}

	state := &domain.AccountState{
		AccountID:    accountID,
		CharacterID:  characterID,
		Meret:        acc.meret,
		Meso:         s.meso[characterID],
		StorageMesos: acc.storageMesos,
		Expansions:   make(map[string]int, len(acc.expansions)),
	}
	for k, v := range acc.expansions {
		state.Expansions[k] = v
	}
	return state, nil
}

func (s *Store) PurchaseExpansion(_ context.Context, accountID int64, key string, extra int, meret int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAccount, accountID)
	}
	acc.expansions[key] = extra
	acc.meret = meret
	return nil
}

func (s *Store) SaveBalances(_ context.Context, state *domain.AccountState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[state.AccountID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAccount, state.AccountID)
	}
	acc.meret = state.Meret
	acc.storageMesos = state.StorageMesos
	s.meso[state.CharacterID] = state.Meso
	return nil
}

// SeedBalances sets starting balances, creating the account when needed.
func (s *Store) SeedBalances(accountID, characterID, meret, meso int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		acc = &account{expansions: make(map[string]int)}
		s.accounts[accountID] = acc
	}
	acc.meret = meret
	s.characters[characterID] = accountID
	s.meso[characterID] = meso
}
