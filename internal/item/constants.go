package item

// ==================== Configuration File Names ====================

// Item configuration file names
const (
	// ConfigFileName is the name of the items configuration file
	ConfigFileName = "items.json"
)

// ==================== Error Messages ====================

// File operation error messages
const (
	ErrMsgReadConfigFileFailed = "failed to read items config file: %w"
	ErrMsgParseConfigFailed    = "failed to parse items config: %w"
	ErrMsgSchemaFailed         = "schema validation failed for %s: %w"
)

// Validation error messages (fragments used with error wrapping)
const (
	ErrMsgConfigNil      = "config is nil"
	ErrMsgNoItemsDefined = "no items defined"
)

// ==================== Format Strings for Error Construction ====================

// These format strings are used with fmt.Errorf for detailed error messages
const (
	ErrFmtItemInvalid          = "%w: item at index %d: %s"
	ErrFmtDuplicateItemID      = "%w: %d"
	ErrFmtTwoHandedNeedsHand   = "%w: item %d is two-handed but accepts no hand slot"
	ErrFmtFullBodyNeedsClothes = "%w: item %d is full-body but does not accept clothes"
	ErrFmtBadgeOutsideTab      = "%w: item %d has badge %s outside the badge tab"
	ErrFmtBadgeTabNeedsBadge   = "%w: item %d sits in the badge tab without a badge type"
	ErrFmtSkinNeedsSlot        = "%w: item %d is a skin but accepts no slot"
	ErrFmtFurnishingWearable   = "%w: item %d is furnishing and wearable"
)

// ==================== Log Messages ====================

const (
	LogMsgItemsLoaded     = "Item definitions loaded"
	LogMsgCacheMiss       = "Item definition cache miss"
	LogMsgUnknownItemID   = "Unknown item definition requested"
	LogMsgCatalogReplaced = "Item catalog replaced"
)
