package session

import (
	"context"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/event"
	"github.com/osse101/ItemVault_Go/internal/logger"
)

// busNotifier turns item notifications into bus events.
type busNotifier struct {
	bus event.Bus
}

func (n busNotifier) Notify(ctx context.Context, note domain.Notification) {
	if n.bus == nil {
		return
	}
	if err := n.bus.Publish(ctx, event.NewItemNotificationEvent(note)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgNotifyPublishError, "type", note.Type, "error", err)
	}
}
