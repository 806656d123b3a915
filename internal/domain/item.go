package domain

import "time"

// ItemGroup names the logical container an item instance currently belongs to.
type ItemGroup int

const (
	GroupNone ItemGroup = iota
	GroupInventory
	GroupGear
	GroupOutfit
	GroupBadge
	GroupStorage
	GroupFurnishing
	GroupFurnishingPlaced
	GroupBeauty
)

var itemGroupNames = map[ItemGroup]string{
	GroupNone:             "none",
	GroupInventory:        "inventory",
	GroupGear:             "gear",
	GroupOutfit:           "outfit",
	GroupBadge:            "badge",
	GroupStorage:          "storage",
	GroupFurnishing:       "furnishing",
	GroupFurnishingPlaced: "furnishing_placed",
	GroupBeauty:           "beauty",
}

func (g ItemGroup) String() string {
	if name, ok := itemGroupNames[g]; ok {
		return name
	}
	return "unknown"
}

// TransferFlag restricts how an item may change hands.
type TransferFlag int

const (
	TransferTradable TransferFlag = 1 << iota
	TransferSplittable
	TransferBound
	TransferLimitTrade
)

// ItemTransfer holds the trade restrictions of one stack. Two stacks may only
// merge when their transfer restrictions are identical.
type ItemTransfer struct {
	Flag         TransferFlag `json:"flag"`
	RemainTrades int          `json:"remain_trades"`
}

// ItemBinding locks an item to a character.
type ItemBinding struct {
	CharacterID int64 `json:"character_id"`
	AccountID   int64 `json:"account_id"`
}

// Item represents one stack of a game item.
//
// UID is the durable identity assigned by the store; 0 means the item is
// ephemeral and has never been persisted. Slot is the position inside the
// item's current container, -1 when unassigned. Equipped items keep the last
// inventory slot they occupied so they can be returned there.
type Item struct {
	UID          int64         `json:"uid"`
	ItemID       int           `json:"item_id"`
	Rarity       int           `json:"rarity"`
	Amount       int           `json:"amount"`
	Slot         int           `json:"slot"`
	Group        ItemGroup     `json:"group"`
	EquipSlot    EquipSlot     `json:"equip_slot,omitempty"`
	Binding      *ItemBinding  `json:"binding,omitempty"`
	Transfer     ItemTransfer  `json:"transfer"`
	ExpiryTime   int64         `json:"expiry_time,omitempty"` // unix seconds, 0 = never
	CreationTime int64         `json:"creation_time"`
	Metadata     *ItemMetadata `json:"-"`
}

// NewItem creates an ephemeral item for the given definition.
func NewItem(meta *ItemMetadata, rarity, amount int) *Item {
	return &Item{
		ItemID:       meta.ItemID,
		Rarity:       rarity,
		Amount:       amount,
		Slot:         -1,
		Transfer:     meta.DefaultTransfer(),
		CreationTime: time.Now().Unix(),
		Metadata:     meta,
	}
}

// StackLimit returns the per-stack maximum amount for this item.
func (i *Item) StackLimit() int {
	if i.Metadata == nil || i.Metadata.StackLimit <= 0 {
		return 1
	}
	return i.Metadata.StackLimit
}

// Type returns the inventory tab the item's definition belongs to.
func (i *Item) Type() InventoryType {
	if i.Metadata == nil {
		return InventoryNone
	}
	return i.Metadata.Type
}

// CanStack reports whether other can be merged onto i: same definition, same
// rarity, same transfer restrictions and room left under the stack limit.
func (i *Item) CanStack(other *Item) bool {
	if i == nil || other == nil || i == other {
		return false
	}
	return i.ItemID == other.ItemID &&
		i.Rarity == other.Rarity &&
		i.Transfer == other.Transfer &&
		i.Amount < i.StackLimit()
}

// IsExpired reports whether the item has an expiry time that has passed.
func (i *Item) IsExpired(now time.Time) bool {
	return i.ExpiryTime > 0 && i.ExpiryTime <= now.Unix()
}

// IsBoundToOther reports whether the item is bound to a character other than characterID.
func (i *Item) IsBoundToOther(characterID int64) bool {
	return i.Binding != nil && i.Binding.CharacterID != 0 && i.Binding.CharacterID != characterID
}

// Clone returns a copy of the item sharing the same definition pointer.
func (i *Item) Clone() *Item {
	c := *i
	if i.Binding != nil {
		b := *i.Binding
		c.Binding = &b
	}
	return &c
}

// ItemView is the notification-safe snapshot of an item.
type ItemView struct {
	UID       int64     `json:"uid"`
	ItemID    int       `json:"item_id"`
	Rarity    int       `json:"rarity"`
	Amount    int       `json:"amount"`
	Slot      int       `json:"slot"`
	Group     string    `json:"group"`
	EquipSlot EquipSlot `json:"equip_slot,omitempty"`
}

// View snapshots the item for outbound notifications.
func (i *Item) View() ItemView {
	return ItemView{
		UID:       i.UID,
		ItemID:    i.ItemID,
		Rarity:    i.Rarity,
		Amount:    i.Amount,
		Slot:      i.Slot,
		Group:     i.Group.String(),
		EquipSlot: i.EquipSlot,
	}
}
