package event

import (
	"encoding/json"
	"fmt"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

// NotificationFrom extracts the item notification an event carries. In-process
// events hold the struct itself; events read back from a dead-letter file or
// the wire hold its decoded JSON form.
func NotificationFrom(evt Event) (domain.Notification, error) {
	switch p := evt.Payload.(type) {
	case domain.Notification:
		return p, nil
	case *domain.Notification:
		if p != nil {
			return *p, nil
		}
	case map[string]interface{}, json.RawMessage:
		data, err := json.Marshal(p)
		if err != nil {
			return domain.Notification{}, err
		}
		var n domain.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			return domain.Notification{}, err
		}
		if n.Type == "" {
			n.Type = domain.NotificationType(evt.Type)
		}
		return n, nil
	}
	return domain.Notification{}, fmt.Errorf("%s: %T", ErrMsgNotNotification, evt.Payload)
}
