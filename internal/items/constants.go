package items

import "github.com/osse101/ItemVault_Go/internal/domain"

// Container names used in notifications and metrics
const (
	ContainerInventory  = "inventory"
	ContainerEquip      = "equip"
	ContainerStorage    = "storage"
	ContainerFurnishing = "furnishing"
	ContainerBeauty     = "beauty"
)

// Operation names
const (
	OpLoad          = "load"
	OpSave          = "save"
	OpAdd           = "add"
	OpMove          = "move"
	OpRemove        = "remove"
	OpConsume       = "consume"
	OpConsumeRecipe = "consume_ingredients"
	OpDiscard       = "discard"
	OpSort          = "sort"
	OpExpand        = "expand"
	OpExpire        = "remove_expired"
	OpEquip         = "equip"
	OpUnequip       = "unequip"
	OpEquipBadge    = "equip_badge"
	OpUnequipBadge  = "unequip_badge"
	OpDeposit       = "deposit"
	OpWithdraw      = "withdraw"
	OpDepositMeso   = "deposit_mesos"
	OpWithdrawMeso  = "withdraw_mesos"
	OpPlace         = "place"
	OpRetrieve      = "retrieve"
	OpArchive       = "archive"
	OpApply         = "apply"
	OpDelete        = "delete"
)

// Store operation labels for latency metrics
const (
	StoreOpCreate            = "create_item"
	StoreOpSplit             = "split_item"
	StoreOpSave              = "save_items"
	StoreOpDelete            = "delete_items"
	StoreOpLoad              = "load_items"
	StoreOpLoadAccount       = "load_account"
	StoreOpPurchaseExpansion = "purchase_expansion"
	StoreOpSaveBalances      = "save_balances"
)

// Inventory expansion pricing
const (
	InventoryExpandStep       = 6
	InventoryExpandCost int64 = 390
)

// Storage sizing and pricing
const (
	StorageBaseSize         = 36
	StorageExpandStep       = 6
	StorageMaxExpand        = 72
	StorageExpandCost int64 = 330
	StorageMaxMesos   int64 = 10_000_000_000
)

// Furnishing storage sizing and pricing
const (
	FurnishingBaseSize         = 80
	FurnishingExpandStep       = 10
	FurnishingMaxExpand        = 120
	FurnishingExpandCost int64 = 200
)

// Cosmetic archive sizing and pricing
const (
	BeautyBaseSize         = 3
	BeautyExpandStep       = 1
	BeautyMaxExpand        = 7
	BeautyExpandCost int64 = 500
)

// tabRule is the capacity tier of one inventory tab.
type tabRule struct {
	base      int
	maxExpand int
	active    bool
}

var inventoryTabs = map[domain.InventoryType]tabRule{
	domain.InventoryGear:         {base: 48, maxExpand: 36, active: true},
	domain.InventoryOutfit:       {base: 150, maxExpand: 36, active: true},
	domain.InventoryMount:        {base: 48, maxExpand: 36, active: true},
	domain.InventoryCatalyst:     {base: 48, maxExpand: 36, active: true},
	domain.InventoryFishingMusic: {base: 48, maxExpand: 36, active: true},
	domain.InventoryQuest:        {base: 48, maxExpand: 36, active: true},
	domain.InventoryGemstone:     {base: 48, maxExpand: 36, active: true},
	domain.InventoryMisc:         {base: 84, maxExpand: 36, active: true},
	domain.InventoryLifeSkill:    {base: 126, maxExpand: 36, active: true},
	domain.InventoryPets:         {base: 60, maxExpand: 36, active: true},
	domain.InventoryConsumable:   {base: 84, maxExpand: 36, active: true},
	domain.InventoryCurrency:     {base: 48, maxExpand: 36, active: true},
	domain.InventoryBadge:        {base: 60, maxExpand: 36, active: true},
	domain.InventoryLapenshard:   {base: 48, maxExpand: 36, active: true},
	domain.InventoryFragment:     {base: 48, maxExpand: 0, active: false},
}

// TabSize returns the base capacity of an inventory tab, or 0 for an
// unknown or inactive tab.
func TabSize(t domain.InventoryType) int {
	rule, ok := inventoryTabs[t]
	if !ok || !rule.active {
		return 0
	}
	return rule.base
}

// Log messages
const (
	LogMsgOperationFailed   = "Item operation failed"
	LogMsgOperationRejected = "Item operation rejected"
	LogMsgOperationApplied  = "Item operation applied"
	LogMsgLoadSkipped       = "Item does not fit its container, skipping"
	LogMsgUnknownItem       = "Unknown item definition, skipping"
	LogMsgBadgeHookFailed   = "Badge hook failed"
)
