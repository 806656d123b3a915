package domain

import "fmt"

// AccountState is the persisted account-level data an item session needs:
// currency balances and purchased container expansions.
type AccountState struct {
	AccountID    int64          `json:"account_id"`
	CharacterID  int64          `json:"character_id"`
	Meret        int64          `json:"meret"`
	Meso         int64          `json:"meso"`
	StorageMesos int64          `json:"storage_mesos"`
	Expansions   map[string]int `json:"expansions"`
}

// Expansion returns the extra slots purchased for a container key.
func (s *AccountState) Expansion(key string) int {
	if s == nil || s.Expansions == nil {
		return 0
	}
	return s.Expansions[key]
}

// SetExpansion records the extra slots purchased for a container key.
func (s *AccountState) SetExpansion(key string, extra int) {
	if s.Expansions == nil {
		s.Expansions = make(map[string]int)
	}
	s.Expansions[key] = extra
}

// Expansion keys of the account-scoped containers.
const (
	ExpansionKeyStorage    = "storage"
	ExpansionKeyFurnishing = "furnishing"
	ExpansionKeyBeauty     = "beauty"
)

// InventoryExpansionKey is the expansion key of an inventory tab.
func InventoryExpansionKey(t InventoryType) string {
	return fmt.Sprintf("inventory:%s", t)
}

// Ingredient is one requirement of a multi-item consumption. Items match by
// Tag when it is set, otherwise by ItemID (and Rarity when non-zero).
type Ingredient struct {
	Tag    string `json:"tag,omitempty" validate:"required_without=ItemID,max=50"`
	ItemID int    `json:"item_id,omitempty" validate:"required_without=Tag,gte=0"`
	Rarity int    `json:"rarity,omitempty" validate:"gte=0,lte=6"`
	Amount int    `json:"amount" validate:"required,gt=0"`
}

// Matches reports whether item satisfies the ingredient.
func (in Ingredient) Matches(item *Item) bool {
	if item == nil || item.Amount <= 0 {
		return false
	}
	if in.Tag != "" {
		return item.Metadata != nil && item.Metadata.Tag == in.Tag
	}
	if item.ItemID != in.ItemID {
		return false
	}
	return in.Rarity == 0 || item.Rarity == in.Rarity
}
