package items

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Manager bundles the item managers of one session around a single lock.
type Manager struct {
	Inventory  *InventoryManager
	Equip      *EquipManager
	Storage    *StorageManager
	Furnishing *FurnishingManager
	Beauty     *BeautyManager
}

// NewManager wires every item manager of a session to one shared mutex,
// creating it when deps carries none.
func NewManager(deps Deps, hook BadgeHook) *Manager {
	if deps.Lock == nil {
		deps.Lock = &sync.Mutex{}
	}
	shared := newBase(deps, "").Deps

	inventory := NewInventoryManager(shared)
	equip := NewEquipManager(shared, inventory, hook)
	return &Manager{
		Inventory:  inventory,
		Equip:      equip,
		Storage:    NewStorageManager(shared, inventory),
		Furnishing: NewFurnishingManager(shared),
		Beauty:     NewBeautyManager(shared, equip),
	}
}

type loadSaver interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
}

func (m *Manager) parts() []loadSaver {
	return []loadSaver{m.Inventory, m.Equip, m.Storage, m.Furnishing, m.Beauty}
}

// Load materializes every container from the store. It stops at the first
// failure.
func (m *Manager) Load(ctx context.Context) error {
	for _, p := range m.parts() {
		if err := p.Load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Save writes every container, attempting all of them, and joins the
// failures.
func (m *Manager) Save(ctx context.Context) error {
	var errs []error
	for _, p := range m.parts() {
		if err := p.Save(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RemoveExpired sweeps expired items out of the bag.
func (m *Manager) RemoveExpired(ctx context.Context, now time.Time) int {
	return m.Inventory.RemoveExpired(ctx, now)
}
