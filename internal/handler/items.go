package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/items"
)

// ItemRequest names a definition to materialize.
type ItemRequest struct {
	ItemID int `json:"item_id" validate:"required,gt=0"`
	Rarity int `json:"rarity" validate:"gte=0,lte=6"`
	Amount int `json:"amount" validate:"required,gt=0"`
}

// UIDRequest targets one item instance.
type UIDRequest struct {
	UID int64 `json:"uid" validate:"required,gt=0"`
}

// AmountRequest targets part of a stack.
type AmountRequest struct {
	UID    int64 `json:"uid" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"required,gt=0"`
}

// MoveItemRequest relocates a bag item.
type MoveItemRequest struct {
	UID  int64 `json:"uid" validate:"required,gt=0"`
	Slot int   `json:"slot" validate:"gte=0"`
}

// ConsumeIngredientsRequest consumes every ingredient or none.
type ConsumeIngredientsRequest struct {
	Ingredients []domain.Ingredient `json:"ingredients" validate:"required,min=1,max=20,dive"`
}

// TabRequest names an inventory tab.
type TabRequest struct {
	Tab domain.InventoryType `json:"tab" validate:"inventory_type"`
}

// EquipRequest wears a bag item.
type EquipRequest struct {
	UID  int64            `json:"uid" validate:"required,gt=0"`
	Slot domain.EquipSlot `json:"slot" validate:"equip_slot"`
	Skin bool             `json:"skin"`
}

// BadgeRequest names a badge category.
type BadgeRequest struct {
	Badge domain.BadgeType `json:"badge" validate:"required,badge_type"`
}

// TransferRequest moves part of a stack between the bag and storage. Slot
// is optional; without it the item goes to the first fitting slot.
type TransferRequest struct {
	UID    int64 `json:"uid" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"required,gt=0"`
	Slot   *int  `json:"slot,omitempty" validate:"omitempty,gte=0"`
}

// MesosRequest moves mesos between the wallet and storage.
type MesosRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// PlacementRequest names a placed furnishing.
type PlacementRequest struct {
	PlacementID int64 `json:"placement_id" validate:"required,gt=0"`
}

// SlotRequest names a worn cosmetic slot.
type SlotRequest struct {
	Slot domain.EquipSlot `json:"slot" validate:"equip_slot"`
}

// ItemResponse carries the item a command produced.
type ItemResponse struct {
	Item domain.ItemView `json:"item"`
}

// PlacementResponse carries a placed furnishing.
type PlacementResponse struct {
	PlacementID int64           `json:"placement_id"`
	Item        domain.ItemView `json:"item"`
}

// TabResponse lists one inventory tab.
type TabResponse struct {
	Tab       domain.InventoryType `json:"tab"`
	Size      int                  `json:"size"`
	OpenSlots int                  `json:"open_slots"`
	Items     []domain.ItemView    `json:"items"`
}

// Routes mounts every session endpoint under the current router.
func (h *ItemHandler) Routes(r chi.Router) {
	r.Post("/sessions", h.HandleOpenSession)
	r.Route("/sessions/{characterID}", func(r chi.Router) {
		r.Get("/", h.HandleGetSession)
		r.Delete("/", h.HandleCloseSession)
		r.Post("/save", h.HandleSaveSession)

		r.Get("/inventory/{tab}", h.HandleListTab)
		r.Post("/inventory/add", h.HandleAddItem())
		r.Post("/inventory/move", h.HandleMoveItem())
		r.Post("/inventory/remove", h.HandleRemoveItem())
		r.Post("/inventory/consume", h.HandleConsumeItem())
		r.Post("/inventory/consume-ingredients", h.HandleConsumeIngredients())
		r.Post("/inventory/discard", h.HandleDiscardItem())
		r.Post("/inventory/sort", h.HandleSortInventory())
		r.Post("/inventory/expand", h.HandleExpandInventory())

		r.Post("/equip", h.HandleEquip())
		r.Post("/unequip", h.HandleUnequip())
		r.Post("/badges/equip", h.HandleEquipBadge())
		r.Post("/badges/unequip", h.HandleUnequipBadge())

		r.Post("/storage/deposit", h.HandleDeposit())
		r.Post("/storage/withdraw", h.HandleWithdraw())
		r.Post("/storage/mesos/deposit", h.HandleDepositMesos())
		r.Post("/storage/mesos/withdraw", h.HandleWithdrawMesos())
		r.Post("/storage/sort", h.HandleSortStorage())
		r.Post("/storage/expand", h.HandleExpandStorage())

		r.Post("/furnishing/add", h.HandleAddFurnishing())
		r.Post("/furnishing/place", h.HandlePlaceFurnishing())
		r.Post("/furnishing/retrieve", h.HandleRetrieveFurnishing())
		r.Post("/furnishing/remove", h.HandleRemoveFurnishing())
		r.Post("/furnishing/expand", h.HandleExpandFurnishing())

		r.Post("/beauty/archive", h.HandleArchiveCosmetic())
		r.Post("/beauty/apply", h.HandleApplyCosmetic())
		r.Post("/beauty/delete", h.HandleDeleteCosmetic())
		r.Post("/beauty/expand", h.HandleExpandBeauty())
	})
}

// newItem materializes an ephemeral item from its definition.
func (h *ItemHandler) newItem(req *ItemRequest) (*domain.Item, error) {
	meta, ok := h.metadata.Get(req.ItemID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown definition %d", domain.ErrItemNotFound, req.ItemID)
	}
	return domain.NewItem(meta, req.Rarity, req.Amount), nil
}

// HandleListTab lists one inventory tab, named by the {tab} route parameter.
func (h *ItemHandler) HandleListTab(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, OpListTab)
	if !ok {
		return
	}
	t, err := domain.ParseInventoryType(chi.URLParam(r, "tab"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrMsgUnknownTab)
		return
	}

	var resp TabResponse
	err = s.Run(r.Context(), func(m *items.Manager) error {
		tab, err := m.Inventory.Items(t)
		if err != nil {
			return err
		}
		resp = TabResponse{
			Tab:       t,
			Size:      m.Inventory.Size(t),
			OpenSlots: m.Inventory.OpenSlots(t),
			Items:     domain.Views(tab),
		}
		return nil
	})
	if err != nil {
		respondServiceError(w, r, OpListTab, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleAddItem grants a new item, stacking it where possible.
func (h *ItemHandler) HandleAddItem() http.HandlerFunc {
	return command(h, OpAddItem, func(ctx context.Context, m *items.Manager, req *ItemRequest) (interface{}, error) {
		item, err := h.newItem(req)
		if err != nil {
			return nil, err
		}
		return nil, m.Inventory.Add(ctx, item, true, false)
	})
}

func (h *ItemHandler) HandleMoveItem() http.HandlerFunc {
	return command(h, OpMoveItem, func(ctx context.Context, m *items.Manager, req *MoveItemRequest) (interface{}, error) {
		return nil, m.Inventory.Move(ctx, req.UID, req.Slot)
	})
}

// HandleRemoveItem takes part or all of a stack out of the bag and returns
// the removed item, which is stored detached from every container.
func (h *ItemHandler) HandleRemoveItem() http.HandlerFunc {
	return command(h, OpRemoveItem, func(ctx context.Context, m *items.Manager, req *AmountRequest) (interface{}, error) {
		removed, err := m.Inventory.Remove(ctx, req.UID, req.Amount)
		if err != nil {
			return nil, err
		}
		return ItemResponse{Item: removed.View()}, nil
	})
}

func (h *ItemHandler) HandleConsumeItem() http.HandlerFunc {
	return command(h, OpConsumeItem, func(ctx context.Context, m *items.Manager, req *AmountRequest) (interface{}, error) {
		return nil, m.Inventory.Consume(ctx, req.UID, req.Amount)
	})
}

func (h *ItemHandler) HandleConsumeIngredients() http.HandlerFunc {
	return command(h, OpConsumeIngredients, func(ctx context.Context, m *items.Manager, req *ConsumeIngredientsRequest) (interface{}, error) {
		return nil, m.Inventory.ConsumeIngredients(ctx, req.Ingredients)
	})
}

func (h *ItemHandler) HandleDiscardItem() http.HandlerFunc {
	return command(h, OpDiscardItem, func(ctx context.Context, m *items.Manager, req *UIDRequest) (interface{}, error) {
		return nil, m.Inventory.Discard(ctx, req.UID, true)
	})
}

func (h *ItemHandler) HandleSortInventory() http.HandlerFunc {
	return command(h, OpSortInventory, func(ctx context.Context, m *items.Manager, req *TabRequest) (interface{}, error) {
		return nil, m.Inventory.Sort(ctx, req.Tab)
	})
}

func (h *ItemHandler) HandleExpandInventory() http.HandlerFunc {
	return command(h, OpExpandInventory, func(ctx context.Context, m *items.Manager, req *TabRequest) (interface{}, error) {
		return nil, m.Inventory.Expand(ctx, req.Tab)
	})
}

func (h *ItemHandler) HandleEquip() http.HandlerFunc {
	return command(h, OpEquip, func(ctx context.Context, m *items.Manager, req *EquipRequest) (interface{}, error) {
		return nil, m.Equip.Equip(ctx, req.UID, req.Slot, req.Skin)
	})
}

func (h *ItemHandler) HandleUnequip() http.HandlerFunc {
	return command(h, OpUnequip, func(ctx context.Context, m *items.Manager, req *UIDRequest) (interface{}, error) {
		return nil, m.Equip.Unequip(ctx, req.UID)
	})
}

func (h *ItemHandler) HandleEquipBadge() http.HandlerFunc {
	return command(h, OpEquipBadge, func(ctx context.Context, m *items.Manager, req *UIDRequest) (interface{}, error) {
		return nil, m.Equip.EquipBadge(ctx, req.UID)
	})
}

func (h *ItemHandler) HandleUnequipBadge() http.HandlerFunc {
	return command(h, OpUnequipBadge, func(ctx context.Context, m *items.Manager, req *BadgeRequest) (interface{}, error) {
		return nil, m.Equip.UnequipBadge(ctx, req.Badge)
	})
}

func slotOrAny(slot *int) int {
	if slot == nil {
		return -1
	}
	return *slot
}

func (h *ItemHandler) HandleDeposit() http.HandlerFunc {
	return command(h, OpDeposit, func(ctx context.Context, m *items.Manager, req *TransferRequest) (interface{}, error) {
		return nil, m.Storage.Deposit(ctx, req.UID, req.Amount, slotOrAny(req.Slot))
	})
}

func (h *ItemHandler) HandleWithdraw() http.HandlerFunc {
	return command(h, OpWithdraw, func(ctx context.Context, m *items.Manager, req *TransferRequest) (interface{}, error) {
		return nil, m.Storage.Withdraw(ctx, req.UID, req.Amount, slotOrAny(req.Slot))
	})
}

func (h *ItemHandler) HandleDepositMesos() http.HandlerFunc {
	return command(h, OpDepositMesos, func(ctx context.Context, m *items.Manager, req *MesosRequest) (interface{}, error) {
		return nil, m.Storage.DepositMesos(ctx, req.Amount)
	})
}

func (h *ItemHandler) HandleWithdrawMesos() http.HandlerFunc {
	return command(h, OpWithdrawMesos, func(ctx context.Context, m *items.Manager, req *MesosRequest) (interface{}, error) {
		return nil, m.Storage.WithdrawMesos(ctx, req.Amount)
	})
}

func (h *ItemHandler) HandleSortStorage() http.HandlerFunc {
	return command(h, OpSortStorage, func(ctx context.Context, m *items.Manager, _ *struct{}) (interface{}, error) {
		return nil, m.Storage.Sort(ctx)
	})
}

func (h *ItemHandler) HandleExpandStorage() http.HandlerFunc {
	return command(h, OpExpandStorage, func(ctx context.Context, m *items.Manager, _ *struct{}) (interface{}, error) {
		return nil, m.Storage.Expand(ctx)
	})
}

// HandleAddFurnishing grants a furnishing straight into furnishing storage.
func (h *ItemHandler) HandleAddFurnishing() http.HandlerFunc {
	return command(h, OpAddFurnishing, func(ctx context.Context, m *items.Manager, req *ItemRequest) (interface{}, error) {
		item, err := h.newItem(req)
		if err != nil {
			return nil, err
		}
		return nil, m.Furnishing.Add(ctx, item)
	})
}

func (h *ItemHandler) HandlePlaceFurnishing() http.HandlerFunc {
	return command(h, OpPlaceFurnishing, func(ctx context.Context, m *items.Manager, req *UIDRequest) (interface{}, error) {
		id, placed, err := m.Furnishing.Place(ctx, req.UID)
		if err != nil {
			return nil, err
		}
		return PlacementResponse{PlacementID: id, Item: placed.View()}, nil
	})
}

func (h *ItemHandler) HandleRetrieveFurnishing() http.HandlerFunc {
	return command(h, OpRetrieveFurnishing, func(ctx context.Context, m *items.Manager, req *PlacementRequest) (interface{}, error) {
		return nil, m.Furnishing.Retrieve(ctx, req.PlacementID)
	})
}

func (h *ItemHandler) HandleRemoveFurnishing() http.HandlerFunc {
	return command(h, OpRemoveFurnishing, func(ctx context.Context, m *items.Manager, req *UIDRequest) (interface{}, error) {
		return nil, m.Furnishing.Remove(ctx, req.UID, true)
	})
}

func (h *ItemHandler) HandleExpandFurnishing() http.HandlerFunc {
	return command(h, OpExpandFurnishing, func(ctx context.Context, m *items.Manager, _ *struct{}) (interface{}, error) {
		return nil, m.Furnishing.Expand(ctx)
	})
}

func (h *ItemHandler) HandleArchiveCosmetic() http.HandlerFunc {
	return command(h, OpArchiveCosmetic, func(ctx context.Context, m *items.Manager, req *SlotRequest) (interface{}, error) {
		archived, err := m.Beauty.Archive(ctx, req.Slot)
		if err != nil {
			return nil, err
		}
		return ItemResponse{Item: archived.View()}, nil
	})
}

func (h *ItemHandler) HandleApplyCosmetic() http.HandlerFunc {
	return command(h, OpApplyCosmetic, func(ctx context.Context, m *items.Manager, req *UIDRequest) (interface{}, error) {
		return nil, m.Beauty.Apply(ctx, req.UID)
	})
}

func (h *ItemHandler) HandleDeleteCosmetic() http.HandlerFunc {
	return command(h, OpDeleteCosmetic, func(ctx context.Context, m *items.Manager, req *UIDRequest) (interface{}, error) {
		return nil, m.Beauty.Delete(ctx, req.UID, true)
	})
}

func (h *ItemHandler) HandleExpandBeauty() http.HandlerFunc {
	return command(h, OpExpandBeauty, func(ctx context.Context, m *items.Manager, _ *struct{}) (interface{}, error) {
		return nil, m.Beauty.Expand(ctx)
	})
}
