package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemVault_Go/internal/domain"
)

func TestMemoryBus_Publish(t *testing.T) {
	added := ItemEventType(domain.NotifyItemAdded)

	t.Run("handlers run in subscription order", func(t *testing.T) {
		// CASE 1: Best Case
		bus := NewMemoryBus()
		var order []string
		bus.Subscribe(added, func(ctx context.Context, e Event) error { order = append(order, "metrics"); return nil })
		bus.Subscribe(added, func(ctx context.Context, e Event) error { order = append(order, "nats"); return nil })

		require.NoError(t, bus.Publish(context.Background(), NewItemNotificationEvent(domain.Notification{Type: domain.NotifyItemAdded})))
		assert.Equal(t, []string{"metrics", "nats"}, order)
	})

	t.Run("no subscribers", func(t *testing.T) {
		// CASE 2: Boundary Case
		assert.NoError(t, NewMemoryBus().Publish(context.Background(), Event{Type: added}))
	})

	t.Run("failures are joined and later handlers still run", func(t *testing.T) {
		// CASE 4: Invalid Case
		bus := NewMemoryBus()
		errFirst := errors.New("first")
		ran := false
		bus.Subscribe(added, func(ctx context.Context, e Event) error { return errFirst })
		bus.Subscribe(added, func(ctx context.Context, e Event) error { panic("boom") })
		bus.Subscribe(added, func(ctx context.Context, e Event) error { ran = true; return nil })

		err := bus.Publish(context.Background(), Event{Type: added})

		require.Error(t, err)
		assert.ErrorIs(t, err, errFirst)
		assert.ErrorIs(t, err, ErrHandlerPanic)
		assert.Contains(t, err.Error(), "2 handlers failed")
		assert.True(t, ran)
	})
}

func TestMemoryBus_SubscribeAll(t *testing.T) {
	bus := NewMemoryBus()
	seen := map[Type]int{}
	bus.SubscribeAll(ItemEventTypes(), func(ctx context.Context, event Event) error {
		seen[event.Type]++
		return nil
	})

	for _, nt := range domain.NotificationTypes() {
		require.NoError(t, bus.Publish(context.Background(), NewItemNotificationEvent(domain.Notification{Type: nt})))
	}
	require.NoError(t, bus.Publish(context.Background(), NewSessionEvent(SessionOpened, 1, 2, 0)))

	assert.Len(t, seen, len(domain.NotificationTypes()))
	assert.Zero(t, seen[SessionOpened])
}

func TestNewItemNotificationEvent(t *testing.T) {
	n := domain.Notification{Type: domain.NotifyItemAdded, CharacterID: 12, UID: 5}

	evt := NewItemNotificationEvent(n)

	assert.Equal(t, Type("item.added"), evt.Type)
	assert.Equal(t, EventSchemaVersion, evt.Version)
	assert.Equal(t, "12", evt.GetMetadataValue(MetadataKeyCharacterID))
	assert.Nil(t, evt.GetMetadataValue("missing"))
}

func TestNotificationFrom(t *testing.T) {
	n := domain.Notification{Type: domain.NotifyItemMoved, CharacterID: 12, UID: 5, FromSlot: 1, ToSlot: 4}

	raw, err := json.Marshal(NewItemNotificationEvent(n))
	require.NoError(t, err)
	var decoded Event
	require.NoError(t, json.Unmarshal(raw, &decoded))

	tests := []struct {
		name    string
		evt     Event
		want    domain.Notification
		wantErr bool
	}{
		// CASE 1: Best Case
		{"in-process value", NewItemNotificationEvent(n), n, false},
		{"pointer", Event{Payload: &n}, n, false},
		// CASE 3: Edge Case
		{"decoded from JSON", decoded, n, false},
		{
			"type taken from event when payload omits it",
			Event{Type: ItemEventType(domain.NotifyTabReset), Payload: map[string]interface{}{"character_id": 3}},
			domain.Notification{Type: domain.NotifyTabReset, CharacterID: 3},
			false,
		},
		// CASE 4: Invalid Case
		{"session payload", NewSessionEvent(SessionSaved, 1, 2, 0), domain.Notification{}, true},
		{"nil pointer", Event{Payload: (*domain.Notification)(nil)}, domain.Notification{}, true},
		{"wrong field types", Event{Payload: map[string]interface{}{"uid": "five"}}, domain.Notification{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NotificationFrom(tt.evt)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
