package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
	"github.com/osse101/ItemVault_Go/internal/item"
	"github.com/osse101/ItemVault_Go/internal/repository/memory"
	"github.com/osse101/ItemVault_Go/internal/session"
)

const (
	testAccountID   int64 = 1
	testCharacterID int64 = 10
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testCatalog() *item.Catalog {
	return item.NewCatalog([]domain.ItemMetadata{
		{ItemID: 100, Name: "Wood", Type: domain.InventoryMisc, StackLimit: 100, Tag: "Wood"},
		{ItemID: 300, Name: "Sword", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipRightHand}},
		{ItemID: 400, Name: "Chair", Type: domain.InventoryMisc, StackLimit: 10, Furnishing: true},
	})
}

type testServer struct {
	router   http.Handler
	store    *memory.Store
	registry *session.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore(1000)
	store.SeedBalances(testAccountID, testCharacterID, 0, 1000)

	registry := session.NewRegistry(session.Config{
		Store:    store,
		Accounts: store,
		Metadata: testCatalog(),
		Bus:      event.NewMemoryBus(),
		Clock:    func() time.Time { return testNow },
	})

	r := chi.NewRouter()
	r.Route("/api/v1", NewItemHandler(registry, testCatalog()).Routes)
	return &testServer{router: r, store: store, registry: registry}
}

// do sends a JSON request and returns the recorder.
func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) open(t *testing.T) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/sessions", OpenSessionRequest{AccountID: testAccountID, CharacterID: testCharacterID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
