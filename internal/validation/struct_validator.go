package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

var (
	structOnce     sync.Once
	structValidate *validator.Validate
)

// Validator returns the shared struct validator with the item enum rules
// registered.
func Validator() *validator.Validate {
	structOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("inventory_type", func(fl validator.FieldLevel) bool {
			return domain.InventoryType(fl.Field().Int()).Valid()
		})
		_ = v.RegisterValidation("equip_slot", func(fl validator.FieldLevel) bool {
			return domain.EquipSlot(fl.Field().Int()).Valid()
		})
		// BadgeNone is allowed: most items are not badges
		_ = v.RegisterValidation("badge_type", func(fl validator.FieldLevel) bool {
			b := domain.BadgeType(fl.Field().Int())
			return b == domain.BadgeNone || b.Valid()
		})
		structValidate = v
	})
	return structValidate
}

// Struct validates s against its validate tags.
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

// FieldErrors flattens validation errors into field -> message pairs, keeping
// internal struct names out of client responses.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required", "required_without":
			errs[field] = "This field is required"
		case "max", "lte":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min", "gte", "gt":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "inventory_type":
			errs[field] = "Unknown inventory type"
		case "equip_slot":
			errs[field] = "Unknown equip slot"
		case "badge_type":
			errs[field] = "Unknown badge type"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// Summary renders validation errors as one line, for logs and config errors.
func Summary(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		parts = append(parts, fmt.Sprintf("%s failed %s", e.Namespace(), e.Tag()))
	}
	return strings.Join(parts, "; ")
}
