package item

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

const (
	repoItemsPath  = "../../configs/items/items.json"
	repoSchemaPath = "../../configs/schemas/items.schema.json"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestItemLoader_Load(t *testing.T) {
	loader := NewLoader(repoSchemaPath)

	t.Run("valid JSON file", func(t *testing.T) {
		path := createTempFile(t, `{
			"version": "1.0",
			"description": "Test items",
			"items": [
				{"item_id": 300, "name": "Sword", "inventory_type": "Gear", "stack_limit": 1, "slots": ["RH"]},
				{"item_id": 500, "name": "Pet Skin", "inventory_type": "Badge", "stack_limit": 1, "badge": "PetSkin"}
			]
		}`)

		config, err := loader.Load(path)

		require.NoError(t, err)
		assert.Equal(t, "1.0", config.Version)
		require.Len(t, config.Items, 2)
		assert.Equal(t, domain.InventoryGear, config.Items[0].Type)
		assert.Equal(t, []domain.EquipSlot{domain.EquipRightHand}, config.Items[0].Slots)
		assert.Equal(t, domain.BadgePetSkin, config.Items[1].Badge)
	})

	t.Run("file not found", func(t *testing.T) {
		_, err := loader.Load("/nonexistent/path.json")
		assert.ErrorContains(t, err, "failed to read items config file")
	})

	t.Run("schema violation", func(t *testing.T) {
		path := createTempFile(t, `{"version": "1.0", "items": [{"item_id": 1, "name": "x", "inventory_type": "Hats", "stack_limit": 1}]}`)

		_, err := loader.Load(path)

		assert.ErrorContains(t, err, "schema validation failed")
	})

	t.Run("invalid JSON without schema", func(t *testing.T) {
		path := createTempFile(t, `{invalid json}`)

		_, err := NewLoader("").Load(path)

		assert.ErrorContains(t, err, "failed to parse items config")
	})
}

func TestItemLoader_Validate(t *testing.T) {
	loader := NewLoader("")
	sword := domain.ItemMetadata{ItemID: 300, Name: "Sword", Type: domain.InventoryGear, StackLimit: 1, Slots: []domain.EquipSlot{domain.EquipRightHand}}

	tests := []struct {
		name    string
		items   []domain.ItemMetadata
		wantErr error
		msg     string
	}{
		// CASE 1: Best Case
		{"valid", []domain.ItemMetadata{sword}, nil, ""},

		// CASE 4: Invalid Case
		{"empty", nil, ErrInvalidConfig, ErrMsgNoItemsDefined},
		{"duplicate id", []domain.ItemMetadata{sword, sword}, ErrDuplicateItemID, "300"},
		{"struct rule", []domain.ItemMetadata{{ItemID: 1, Type: domain.InventoryMisc}}, ErrInvalidConfig, "Name"},
		{
			"two-handed off hand",
			[]domain.ItemMetadata{{ItemID: 2, Name: "Bow", Type: domain.InventoryGear, TwoHanded: true, Slots: []domain.EquipSlot{domain.EquipCape}}},
			ErrInvalidConfig, "two-handed",
		},
		{
			"full body without clothes",
			[]domain.ItemMetadata{{ItemID: 3, Name: "Suit", Type: domain.InventoryGear, FullBody: true, Slots: []domain.EquipSlot{domain.EquipPants}}},
			ErrInvalidConfig, "full-body",
		},
		{
			"badge outside tab",
			[]domain.ItemMetadata{{ItemID: 4, Name: "Skin", Type: domain.InventoryMisc, Badge: domain.BadgePetSkin}},
			ErrInvalidConfig, "PetSkin",
		},
		{
			"badge tab without badge",
			[]domain.ItemMetadata{{ItemID: 5, Name: "Blank", Type: domain.InventoryBadge}},
			ErrInvalidConfig, "without a badge",
		},
		{
			"skin without slot",
			[]domain.ItemMetadata{{ItemID: 6, Name: "Hair", Type: domain.InventoryOutfit, IsSkin: true}},
			ErrInvalidConfig, "skin",
		},
		{
			"wearable furnishing",
			[]domain.ItemMetadata{{ItemID: 7, Name: "Hat Stand", Type: domain.InventoryMisc, Furnishing: true, Slots: []domain.EquipSlot{domain.EquipHat}}},
			ErrInvalidConfig, "furnishing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.Validate(&Config{Version: "1.0", Items: tt.items})

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, tt.msg)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		assert.ErrorIs(t, loader.Validate(nil), ErrInvalidConfig)
	})
}

func TestLoadCatalog_RepositoryDefinitions(t *testing.T) {
	catalog, err := LoadCatalog(context.Background(), NewLoader(repoSchemaPath), repoItemsPath)

	require.NoError(t, err)
	assert.Positive(t, catalog.Len())

	greatsword, ok := catalog.Get(11000003)
	require.True(t, ok)
	assert.True(t, greatsword.TwoHanded)
	assert.Equal(t, domain.TransferTypeBindOnEquip, greatsword.TransferType)

	_, ok = catalog.Get(1)
	assert.False(t, ok)
}
