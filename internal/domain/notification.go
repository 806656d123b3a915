package domain

// NotificationType names the kind of state delta sent to a client.
type NotificationType string

const (
	NotifyItemAdded       NotificationType = "item.added"
	NotifyItemRemoved     NotificationType = "item.removed"
	NotifyItemUpdated     NotificationType = "item.amount_updated"
	NotifyItemMoved       NotificationType = "item.moved"
	NotifyTabReset        NotificationType = "item.tab_reset"
	NotifyItemEquipped    NotificationType = "item.equipped"
	NotifyItemUnequipped  NotificationType = "item.unequipped"
	NotifyBadgeEquipped   NotificationType = "item.badge_equipped"
	NotifyBadgeUnequipped NotificationType = "item.badge_unequipped"
	NotifyPetSkinChanged  NotificationType = "item.pet_skin_changed"
	NotifyExpanded        NotificationType = "item.expanded"
	NotifyCurrency        NotificationType = "item.currency_updated"
	NotifyFurnishingPlace NotificationType = "item.furnishing_placed"
	NotifyError           NotificationType = "item.error"
)

// NotificationTypes lists every notification type, used by subscribers that
// want all item deltas.
func NotificationTypes() []NotificationType {
	return []NotificationType{
		NotifyItemAdded,
		NotifyItemRemoved,
		NotifyItemUpdated,
		NotifyItemMoved,
		NotifyTabReset,
		NotifyItemEquipped,
		NotifyItemUnequipped,
		NotifyBadgeEquipped,
		NotifyBadgeUnequipped,
		NotifyPetSkinChanged,
		NotifyExpanded,
		NotifyCurrency,
		NotifyFurnishingPlace,
		NotifyError,
	}
}

// Notification describes one state delta produced by an item operation.
// Reset notifications carry the whole container in Items; every other type
// carries the single affected Item.
type Notification struct {
	Type        NotificationType `json:"type"`
	CharacterID int64            `json:"character_id"`
	Container   string           `json:"container,omitempty"`
	Item        *ItemView        `json:"item,omitempty"`
	Items       []ItemView       `json:"items,omitempty"`
	UID         int64            `json:"uid,omitempty"`
	Delta       int              `json:"delta,omitempty"`
	FromSlot    int              `json:"from_slot"`
	ToSlot      int              `json:"to_slot"`
	SwappedUID  int64            `json:"swapped_uid,omitempty"`
	IsNew       bool             `json:"is_new,omitempty"`
	Size        int              `json:"size,omitempty"`
	Meret       int64            `json:"meret,omitempty"`
	Meso        int64            `json:"meso,omitempty"`
	StoredMeso  int64            `json:"stored_meso,omitempty"`
	Operation   string           `json:"operation,omitempty"`
	Code        ErrorCode        `json:"code,omitempty"`
	Message     string           `json:"message,omitempty"`
}

// Views snapshots a list of items for a reset notification.
func Views(items []*Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, item.View())
	}
	return views
}
