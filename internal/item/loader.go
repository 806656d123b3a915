package item

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
	"github.com/osse101/ItemVault_Go/internal/validation"
)

// Sentinel errors for item loader
var (
	ErrDuplicateItemID = errors.New("duplicate item id")

	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config represents the JSON configuration for item definitions
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []domain.ItemMetadata `json:"items"`
}

// Loader reads and validates item definition files
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
}

type itemLoader struct {
	schemaPath string
}

// NewLoader creates a Loader. An empty schemaPath skips JSON schema checks
// and relies on struct validation alone.
func NewLoader(schemaPath string) Loader {
	return &itemLoader{schemaPath: schemaPath}
}

// Load reads and parses an items JSON file
func (l *itemLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadConfigFileFailed, err)
	}

	if l.schemaPath != "" {
		schema, err := validation.LoadSchema(l.schemaPath)
		if err != nil {
			return nil, err
		}
		if err := schema.Validate(data); err != nil {
			return nil, fmt.Errorf(ErrMsgSchemaFailed, path, err)
		}
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(ErrMsgParseConfigFailed, err)
	}

	return &config, nil
}

// Validate checks the item configuration for errors
func (l *itemLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgConfigNil)
	}

	if len(config.Items) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, ErrMsgNoItemsDefined)
	}

	ids := make(map[int]bool, len(config.Items))
	for i := range config.Items {
		meta := &config.Items[i]

		if err := validation.Struct(meta); err != nil {
			return fmt.Errorf(ErrFmtItemInvalid, ErrInvalidConfig, i, validation.Summary(err))
		}
		if ids[meta.ItemID] {
			return fmt.Errorf(ErrFmtDuplicateItemID, ErrDuplicateItemID, meta.ItemID)
		}
		ids[meta.ItemID] = true

		if err := validateRules(meta); err != nil {
			return err
		}
	}

	return nil
}

// validateRules checks the cross-field rules tags cannot express.
func validateRules(meta *domain.ItemMetadata) error {
	switch {
	case meta.TwoHanded && !meta.AcceptsSlot(domain.EquipRightHand) && !meta.AcceptsSlot(domain.EquipLeftHand):
		return fmt.Errorf(ErrFmtTwoHandedNeedsHand, ErrInvalidConfig, meta.ItemID)
	case meta.FullBody && !meta.AcceptsSlot(domain.EquipClothes):
		return fmt.Errorf(ErrFmtFullBodyNeedsClothes, ErrInvalidConfig, meta.ItemID)
	case meta.Badge != domain.BadgeNone && meta.Type != domain.InventoryBadge:
		return fmt.Errorf(ErrFmtBadgeOutsideTab, ErrInvalidConfig, meta.ItemID, meta.Badge)
	case meta.Type == domain.InventoryBadge && meta.Badge == domain.BadgeNone:
		return fmt.Errorf(ErrFmtBadgeTabNeedsBadge, ErrInvalidConfig, meta.ItemID)
	case meta.IsSkin && len(meta.Slots) == 0:
		return fmt.Errorf(ErrFmtSkinNeedsSlot, ErrInvalidConfig, meta.ItemID)
	case meta.Furnishing && len(meta.Slots) > 0:
		return fmt.Errorf(ErrFmtFurnishingWearable, ErrInvalidConfig, meta.ItemID)
	}
	return nil
}

// LoadCatalog loads, validates and indexes an item definition file.
func LoadCatalog(ctx context.Context, loader Loader, path string) (*Catalog, error) {
	config, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	if err := loader.Validate(config); err != nil {
		return nil, err
	}

	catalog := NewCatalog(config.Items)
	logger.FromContext(ctx).Info(LogMsgItemsLoaded, "path", path, "count", catalog.Len(), "version", config.Version)
	return catalog, nil
}
