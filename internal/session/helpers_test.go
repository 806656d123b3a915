package session

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
)

const (
	testAccountID   int64 = 1
	testCharacterID int64 = 10
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

var (
	metaWood  = &domain.ItemMetadata{ItemID: 100, Name: "Wood", Type: domain.InventoryMisc, StackLimit: 100, Tag: "Wood"}
	metaSword = &domain.ItemMetadata{ItemID: 300, Name: "Sword", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipRightHand}}
)

type testCatalog map[int]*domain.ItemMetadata

func (c testCatalog) Get(itemID int) (*domain.ItemMetadata, bool) {
	meta, ok := c[itemID]
	return meta, ok
}

// memStore is an in-memory ItemStore.
type memStore struct {
	mu        sync.Mutex
	nextUID   int64
	inventory []*domain.Item
	saved     map[int64][]*domain.Item
	deleted   []int64
	saveErr   error
	loadErr   error
}

func newMemStore() *memStore {
	return &memStore{nextUID: 5000, saved: make(map[int64][]*domain.Item)}
}

func (s *memStore) CreateItem(_ context.Context, _ int64, item *domain.Item) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUID++
	created := item.Clone()
	created.UID = s.nextUID
	return created, nil
}

func (s *memStore) SplitItem(_ context.Context, _ int64, item *domain.Item, amount int, group domain.ItemGroup) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUID++
	split := item.Clone()
	split.UID = s.nextUID
	split.Amount = amount
	split.Group = group
	return split, nil
}

func (s *memStore) SaveItems(_ context.Context, ownerID int64, items ...*domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[ownerID] = append(s.saved[ownerID], items...)
	return nil
}

func (s *memStore) DeleteItems(_ context.Context, uids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, uids...)
	return nil
}

func (s *memStore) GetInventory(_ context.Context, _ int64) ([]*domain.Item, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]*domain.Item, 0, len(s.inventory))
	for _, item := range s.inventory {
		out = append(out, item.Clone())
	}
	return out, nil
}

func (s *memStore) GetItemGroups(_ context.Context, _ int64, groups ...domain.ItemGroup) (map[domain.ItemGroup][]*domain.Item, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return make(map[domain.ItemGroup][]*domain.Item, len(groups)), nil
}

func (s *memStore) GetStorage(_ context.Context, _ int64) ([]*domain.Item, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return nil, nil
}

func (s *memStore) savedCount(ownerID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved[ownerID])
}

// MockAccountStore is a mock implementation of repository.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetAccountState(ctx context.Context, accountID, characterID int64) (*domain.AccountState, error) {
	args := m.Called(ctx, accountID, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountState), args.Error(1)
}

func (m *MockAccountStore) PurchaseExpansion(ctx context.Context, accountID int64, key string, extra int, meret int64) error {
	args := m.Called(ctx, accountID, key, extra, meret)
	return args.Error(0)
}

func (m *MockAccountStore) SaveBalances(ctx context.Context, state *domain.AccountState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// eventLog records every event published on a bus.
type eventLog struct {
	mu     sync.Mutex
	events []event.Event
}

func (l *eventLog) handle(_ context.Context, evt event.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
	return nil
}

func (l *eventLog) ofType(t event.Type) []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []event.Event
	for _, evt := range l.events {
		if evt.Type == t {
			out = append(out, evt)
		}
	}
	return out
}

func newState(accountID, characterID int64) *domain.AccountState {
	return &domain.AccountState{AccountID: accountID, CharacterID: characterID, Meret: 100, Meso: 2000}
}

func newTestConfig(store *memStore, accounts *MockAccountStore) (Config, *eventLog) {
	bus := event.NewMemoryBus()
	log := &eventLog{}
	bus.SubscribeAll(append(event.ItemEventTypes(), event.SessionOpened, event.SessionClosed, event.SessionSaved), log.handle)
	return Config{
		Store:    store,
		Accounts: accounts,
		Metadata: testCatalog{metaWood.ItemID: metaWood, metaSword.ItemID: metaSword},
		Bus:      bus,
		Clock:    func() time.Time { return testNow },
	}, log
}
