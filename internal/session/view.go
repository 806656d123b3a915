package session

import (
	"time"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// View is a read-only snapshot of a session for clients.
type View struct {
	AccountID    int64                        `json:"account_id"`
	CharacterID  int64                        `json:"character_id"`
	Meret        int64                        `json:"meret"`
	Meso         int64                        `json:"meso"`
	StorageMesos int64                        `json:"storage_mesos"`
	Inventory    map[string][]domain.ItemView `json:"inventory"`
	Equipped     []domain.ItemView            `json:"equipped"`
	Skins        []domain.ItemView            `json:"skins"`
	Badges       []domain.ItemView            `json:"badges"`
	Storage      []domain.ItemView            `json:"storage"`
	Furnishing   []domain.ItemView            `json:"furnishing"`
	Placed       map[int64]domain.ItemView    `json:"placed"`
	Beauty       []domain.ItemView            `json:"beauty"`
	Poisoned     bool                         `json:"poisoned"`
	SavedAt      *time.Time                   `json:"saved_at,omitempty"`
}

// Snapshot captures every container. Each container is read under the
// session lock, so the snapshot is consistent per container but may straddle
// a concurrent command.
func (s *Session) Snapshot() View {
	m := s.items
	v := View{
		AccountID:    s.AccountID(),
		CharacterID:  s.CharacterID(),
		Meret:        s.wallet.Meret(),
		Meso:         s.wallet.Meso(),
		StorageMesos: m.Storage.Mesos(),
		Inventory:    make(map[string][]domain.ItemView),
		Equipped:     domain.Views(m.Equip.Equipped(false)),
		Skins:        domain.Views(m.Equip.Equipped(true)),
		Badges:       []domain.ItemView{},
		Storage:      domain.Views(m.Storage.Items()),
		Furnishing:   domain.Views(m.Furnishing.Items()),
		Placed:       make(map[int64]domain.ItemView),
		Beauty:       domain.Views(m.Beauty.Items()),
		Poisoned:     s.Poisoned(),
	}

	for _, t := range domain.InventoryTypes() {
		tab, err := m.Inventory.Items(t)
		if err != nil {
			continue
		}
		v.Inventory[t.String()] = domain.Views(tab)
	}
	for b := domain.BadgeNone + 1; b < domain.BadgeTypeCount; b++ {
		if badge, ok := m.Equip.Badge(b); ok {
			v.Badges = append(v.Badges, badge.View())
		}
	}
	for id, item := range m.Furnishing.Placed() {
		v.Placed[id] = item.View()
	}
	if saved := s.SavedAt(); !saved.IsZero() {
		v.SavedAt = &saved
	}
	return v
}
