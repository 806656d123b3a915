package domain

import (
	"fmt"
	"strings"
)

// InventoryType identifies an inventory tab.
type InventoryType int

const (
	InventoryNone InventoryType = iota
	InventoryGear
	InventoryOutfit
	InventoryMount
	InventoryCatalyst
	InventoryFishingMusic
	InventoryQuest
	InventoryGemstone
	InventoryMisc
	InventoryLifeSkill
	InventoryPets
	InventoryConsumable
	InventoryCurrency
	InventoryBadge
	InventoryLapenshard
	InventoryFragment
	inventoryTypeCount
)

var inventoryTypeNames = [...]string{
	InventoryNone:         "None",
	InventoryGear:         "Gear",
	InventoryOutfit:       "Outfit",
	InventoryMount:        "Mount",
	InventoryCatalyst:     "Catalyst",
	InventoryFishingMusic: "FishingMusic",
	InventoryQuest:        "Quest",
	InventoryGemstone:     "Gemstone",
	InventoryMisc:         "Misc",
	InventoryLifeSkill:    "LifeSkill",
	InventoryPets:         "Pets",
	InventoryConsumable:   "Consumable",
	InventoryCurrency:     "Currency",
	InventoryBadge:        "Badge",
	InventoryLapenshard:   "Lapenshard",
	InventoryFragment:     "Fragment",
}

// InventoryTypes lists every real inventory tab.
func InventoryTypes() []InventoryType {
	types := make([]InventoryType, 0, inventoryTypeCount-1)
	for t := InventoryGear; t < inventoryTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Valid reports whether t names a real tab.
func (t InventoryType) Valid() bool {
	return t > InventoryNone && t < inventoryTypeCount
}

func (t InventoryType) String() string {
	if t >= 0 && t < inventoryTypeCount {
		return inventoryTypeNames[t]
	}
	return fmt.Sprintf("InventoryType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t InventoryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *InventoryType) UnmarshalText(b []byte) error {
	parsed, err := ParseInventoryType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseInventoryType resolves a tab by name, case-insensitively.
func ParseInventoryType(s string) (InventoryType, error) {
	for i, name := range inventoryTypeNames {
		if strings.EqualFold(name, s) {
			return InventoryType(i), nil
		}
	}
	return InventoryNone, fmt.Errorf("%w: unknown inventory type %q", ErrInvalidInventoryType, s)
}

// EquipSlot identifies a gear or cosmetic slot.
type EquipSlot int

const (
	EquipNone EquipSlot = iota
	EquipHat
	EquipClothes
	EquipPants
	EquipGloves
	EquipShoes
	EquipCape
	EquipEarring
	EquipPendant
	EquipRing
	EquipBelt
	EquipRightHand
	EquipLeftHand
	EquipHair
	EquipFace
	EquipFaceDecor
	EquipSlotCount
)

var equipSlotNames = [...]string{
	EquipNone:      "None",
	EquipHat:       "CP",
	EquipClothes:   "CL",
	EquipPants:     "PA",
	EquipGloves:    "GL",
	EquipShoes:     "SH",
	EquipCape:      "MT",
	EquipEarring:   "EA",
	EquipPendant:   "PD",
	EquipRing:      "RI",
	EquipBelt:      "BE",
	EquipRightHand: "RH",
	EquipLeftHand:  "LH",
	EquipHair:      "HR",
	EquipFace:      "FA",
	EquipFaceDecor: "FD",
}

// Valid reports whether s names a real slot.
func (s EquipSlot) Valid() bool {
	return s > EquipNone && s < EquipSlotCount
}

// InventoryStorable reports whether items removed from this slot may return to
// the inventory. Hair and face items only exist while worn.
func (s EquipSlot) InventoryStorable() bool {
	switch s {
	case EquipHair, EquipFace, EquipFaceDecor:
		return false
	default:
		return true
	}
}

func (s EquipSlot) String() string {
	if s >= 0 && s < EquipSlotCount {
		return equipSlotNames[s]
	}
	return fmt.Sprintf("EquipSlot(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s EquipSlot) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EquipSlot) UnmarshalText(b []byte) error {
	parsed, err := ParseEquipSlot(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseEquipSlot resolves a slot by its short name.
func ParseEquipSlot(name string) (EquipSlot, error) {
	for i, n := range equipSlotNames {
		if strings.EqualFold(n, name) {
			return EquipSlot(i), nil
		}
	}
	return EquipNone, fmt.Errorf("%w: unknown equip slot %q", ErrInvalidEquipSlot, name)
}

// BadgeType is the category of an equipped badge.
type BadgeType int

const (
	BadgeNone BadgeType = iota
	BadgeTransparency
	BadgePetSkin
	BadgeChatBubble
	BadgeNameTag
	BadgeEffect
	BadgeTypeCount
)

var badgeTypeNames = [...]string{
	BadgeNone:         "None",
	BadgeTransparency: "Transparency",
	BadgePetSkin:      "PetSkin",
	BadgeChatBubble:   "ChatBubble",
	BadgeNameTag:      "NameTag",
	BadgeEffect:       "Effect",
}

// Valid reports whether b names a real badge category.
func (b BadgeType) Valid() bool {
	return b > BadgeNone && b < BadgeTypeCount
}

func (b BadgeType) String() string {
	if b >= 0 && b < BadgeTypeCount {
		return badgeTypeNames[b]
	}
	return fmt.Sprintf("BadgeType(%d)", int(b))
}

// MarshalText implements encoding.TextMarshaler.
func (b BadgeType) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BadgeType) UnmarshalText(text []byte) error {
	for i, n := range badgeTypeNames {
		if strings.EqualFold(n, string(text)) {
			*b = BadgeType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown badge type %q", ErrInvalidBadge, string(text))
}

// TransferType is the binding rule of an item definition.
type TransferType string

const (
	TransferTypeTradable    TransferType = "tradable"
	TransferTypeBindOnLoot  TransferType = "bind_on_loot"
	TransferTypeBindOnEquip TransferType = "bind_on_equip"
	TransferTypeBindOnUse   TransferType = "bind_on_use"
	TransferTypeUntradeable TransferType = "untradeable"
)

// ItemMetadata is the definition of an item, shared by every instance of it.
type ItemMetadata struct {
	ItemID       int           `json:"item_id" validate:"required,gt=0"`
	Name         string        `json:"name" validate:"required,max=100"`
	Type         InventoryType `json:"inventory_type" validate:"inventory_type"`
	StackLimit   int           `json:"stack_limit" validate:"gte=0"`
	Slots        []EquipSlot   `json:"slots,omitempty" validate:"dive,equip_slot"`
	TwoHanded    bool          `json:"two_handed,omitempty"`
	FullBody     bool          `json:"full_body,omitempty"`
	IsSkin       bool          `json:"is_skin,omitempty"`
	Furnishing   bool          `json:"furnishing,omitempty"`
	Badge        BadgeType     `json:"badge,omitempty" validate:"badge_type"`
	Tag          string        `json:"tag,omitempty" validate:"max=50"`
	TransferType TransferType  `json:"transfer_type,omitempty" validate:"omitempty,oneof=tradable bind_on_loot bind_on_equip bind_on_use untradeable"`
	TradeCount   int           `json:"trade_count,omitempty" validate:"gte=0"`
}

// DefaultTransfer derives the initial transfer restrictions of a new instance.
func (m *ItemMetadata) DefaultTransfer() ItemTransfer {
	switch m.TransferType {
	case TransferTypeUntradeable, TransferTypeBindOnLoot:
		return ItemTransfer{Flag: TransferSplittable | TransferBound}
	case TransferTypeBindOnEquip, TransferTypeBindOnUse:
		return ItemTransfer{Flag: TransferTradable | TransferSplittable, RemainTrades: m.TradeCount}
	default:
		return ItemTransfer{Flag: TransferTradable | TransferSplittable, RemainTrades: m.TradeCount}
	}
}

// AcceptsSlot reports whether the item may be equipped into slot.
func (m *ItemMetadata) AcceptsSlot(slot EquipSlot) bool {
	for _, s := range m.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// OccupiedSlots returns every slot the item fills when equipped into slot.
// Two-handed weapons fill both hands; full-body outfits fill clothes and pants.
func (m *ItemMetadata) OccupiedSlots(slot EquipSlot) []EquipSlot {
	switch {
	case m.TwoHanded:
		return []EquipSlot{EquipRightHand, EquipLeftHand}
	case m.FullBody:
		return []EquipSlot{EquipClothes, EquipPants}
	default:
		return []EquipSlot{slot}
	}
}

// IsEquipment reports whether the definition can be worn at all.
func (m *ItemMetadata) IsEquipment() bool {
	return len(m.Slots) > 0
}
