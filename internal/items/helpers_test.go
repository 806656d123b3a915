package items

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

const (
	testAccountID   int64 = 1
	testCharacterID int64 = 10
)

var errStoreDown = errors.New("store unavailable")

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// Item definitions used across the manager tests
var (
	metaWood       = &domain.ItemMetadata{ItemID: 100, Name: "Wood", Type: domain.InventoryMisc, StackLimit: 100, Tag: "Wood"}
	metaPotion     = &domain.ItemMetadata{ItemID: 200, Name: "Potion", Type: domain.InventoryConsumable, StackLimit: 10}
	metaFragment   = &domain.ItemMetadata{ItemID: 250, Name: "Shard", Type: domain.InventoryFragment, StackLimit: 99}
	metaSword      = &domain.ItemMetadata{ItemID: 300, Name: "Sword", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipRightHand}}
	metaShield     = &domain.ItemMetadata{ItemID: 301, Name: "Shield", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipLeftHand}}
	metaGreatsword = &domain.ItemMetadata{ItemID: 302, Name: "Greatsword", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipRightHand}, TwoHanded: true}
	metaRobe       = &domain.ItemMetadata{ItemID: 303, Name: "Robe", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipClothes}, FullBody: true}
	metaShirt      = &domain.ItemMetadata{ItemID: 304, Name: "Shirt", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipClothes}}
	metaPants      = &domain.ItemMetadata{ItemID: 305, Name: "Pants", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipPants}}
	metaRing       = &domain.ItemMetadata{ItemID: 306, Name: "Ring", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipRing}, TransferType: domain.TransferTypeBindOnEquip}
	metaHat        = &domain.ItemMetadata{ItemID: 310, Name: "Party Hat", Type: domain.InventoryOutfit, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipHat}, IsSkin: true}
	metaHairA      = &domain.ItemMetadata{ItemID: 400, Name: "Short Hair", Type: domain.InventoryOutfit, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipHair}, IsSkin: true}
	metaHairB      = &domain.ItemMetadata{ItemID: 401, Name: "Long Hair", Type: domain.InventoryOutfit, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipHair}, IsSkin: true}
	metaPetBadge   = &domain.ItemMetadata{ItemID: 500, Name: "Pet Skin", Type: domain.InventoryBadge, StackLimit: 1, Badge: domain.BadgePetSkin}
	metaPetBadge2  = &domain.ItemMetadata{ItemID: 502, Name: "Pet Skin II", Type: domain.InventoryBadge, StackLimit: 1, Badge: domain.BadgePetSkin}
	metaChatBadge  = &domain.ItemMetadata{ItemID: 501, Name: "Chat Bubble", Type: domain.InventoryBadge, StackLimit: 1, Badge: domain.BadgeChatBubble}
	metaSofa       = &domain.ItemMetadata{ItemID: 600, Name: "Sofa", Type: domain.InventoryMisc, StackLimit: 50, Furnishing: true}
)

type testCatalog map[int]*domain.ItemMetadata

func (c testCatalog) Get(itemID int) (*domain.ItemMetadata, bool) {
	meta, ok := c[itemID]
	return meta, ok
}

func newTestCatalog() testCatalog {
	c := testCatalog{}
	for _, meta := range []*domain.ItemMetadata{
		metaWood, metaPotion, metaFragment, metaSword, metaShield, metaGreatsword, metaRobe, metaShirt,
		metaPants, metaRing, metaHat, metaHairA, metaHairB, metaPetBadge, metaPetBadge2, metaChatBadge, metaSofa,
	} {
		c[meta.ItemID] = meta
	}
	return c
}

// fakeStore is an in-memory ItemStore handing out sequential uids.
type fakeStore struct {
	mu        sync.Mutex
	nextUID   int64
	created   []*domain.Item
	splits    []*domain.Item
	saved     map[int64][]*domain.Item
	deleted   []int64
	inventory []*domain.Item
	groups    map[domain.ItemGroup][]*domain.Item
	storage   []*domain.Item

	createErr error
	splitErr  error
	saveErr   error
	deleteErr error
	loadErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextUID: 1000,
		saved:   make(map[int64][]*domain.Item),
		groups:  make(map[domain.ItemGroup][]*domain.Item),
	}
}

func (s *fakeStore) CreateItem(_ context.Context, _ int64, item *domain.Item) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextUID++
	created := item.Clone()
	created.UID = s.nextUID
	s.created = append(s.created, created)
	return created, nil
}

func (s *fakeStore) SplitItem(_ context.Context, _ int64, item *domain.Item, amount int, group domain.ItemGroup) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.splitErr != nil {
		return nil, s.splitErr
	}
	s.nextUID++
	split := item.Clone()
	split.UID = s.nextUID
	split.Amount = amount
	split.Group = group
	s.splits = append(s.splits, split)
	return split, nil
}

func (s *fakeStore) SaveItems(_ context.Context, ownerID int64, items ...*domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved[ownerID] = append(s.saved[ownerID], items...)
	return nil
}

func (s *fakeStore) DeleteItems(_ context.Context, uids ...int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, uids...)
	return nil
}

func (s *fakeStore) GetInventory(_ context.Context, _ int64) ([]*domain.Item, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.inventory, nil
}

func (s *fakeStore) GetItemGroups(_ context.Context, _ int64, groups ...domain.ItemGroup) (map[domain.ItemGroup][]*domain.Item, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[domain.ItemGroup][]*domain.Item, len(groups))
	for _, g := range groups {
		out[g] = s.groups[g]
	}
	return out, nil
}

func (s *fakeStore) GetStorage(_ context.Context, _ int64) ([]*domain.Item, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.storage, nil
}

func (s *fakeStore) createCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
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

// recorder collects every notification.
type recorder struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recorder) Notify(_ context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) ofType(t domain.NotificationType) []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Notification
	for _, n := range r.notes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = nil
}

type testEnv struct {
	mgr      *Manager
	store    *fakeStore
	accounts *MockAccountStore
	notes    *recorder
	state    *domain.AccountState
	hook     *hookCalls
}

type hookCalls struct {
	mu    sync.Mutex
	calls []bool
}

func (h *hookCalls) run(_ context.Context, _ *domain.Item, equipped bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, equipped)
	return nil
}

func newTestEnv(t *testing.T, mutate ...func(*domain.AccountState)) *testEnv {
	t.Helper()
	state := &domain.AccountState{
		AccountID:   testAccountID,
		CharacterID: testCharacterID,
		Meret:       1000,
		Meso:        5000,
	}
	for _, fn := range mutate {
		fn(state)
	}
	env := &testEnv{
		store:    newFakeStore(),
		accounts: new(MockAccountStore),
		notes:    &recorder{},
		state:    state,
		hook:     &hookCalls{},
	}
	env.mgr = NewManager(Deps{
		State:    state,
		Store:    env.store,
		Accounts: env.accounts,
		Metadata: newTestCatalog(),
		Notifier: env.notes,
		Clock:    func() time.Time { return testNow },
	}, env.hook.run)
	return env
}

// give adds a fresh item to the bag and returns it.
func (e *testEnv) give(t *testing.T, meta *domain.ItemMetadata, rarity, amount int) *domain.Item {
	t.Helper()
	item := domain.NewItem(meta, rarity, amount)
	require.NoError(t, e.mgr.Inventory.Add(context.Background(), item, true, false))
	return item
}

// stored builds an already persisted item at slot.
func stored(uid int64, meta *domain.ItemMetadata, amount, slot int) *domain.Item {
	item := domain.NewItem(meta, 1, amount)
	item.UID = uid
	item.Slot = slot
	return item
}
