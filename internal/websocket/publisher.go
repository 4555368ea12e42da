package websocket

import (
	"context"

	"github.com/google/uuid"

	"github.com/caloria-app/caloria-backend/internal/events"
)

// EventPublisher defines the interface for publishing events to WebSocket clients
type EventPublisher interface {
	// Publish sends an event to all connections of the specified user
	Publish(userID uuid.UUID, event Event)
}

// Ensure Hub implements EventPublisher
var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting the event to the user
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	h.Broadcast(userID, event)
}

// NoOpPublisher is a publisher that does nothing (for testing or when WebSocket is disabled)
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(userID uuid.UUID, event Event) {}

// BindEventBus subscribes the hub to the domain event bus so diary and food
// events reach connected clients.
func BindEventBus(bus *events.Bus, publisher EventPublisher) {
	bus.Subscribe(events.DiaryCreatedName, func(ctx context.Context, event events.Event) error {
		e := event.(events.DiaryCreated)
		publisher.Publish(e.UserID, DiaryCreated(e.Diary))
		return nil
	})
	bus.Subscribe(events.DiaryUpdatedName, func(ctx context.Context, event events.Event) error {
		e := event.(events.DiaryUpdated)
		publisher.Publish(e.UserID, DiaryUpdated(e.Diary))
		return nil
	})
	bus.Subscribe(events.DiaryDeletedName, func(ctx context.Context, event events.Event) error {
		e := event.(events.DiaryDeleted)
		publisher.Publish(e.UserID, DiaryDeleted(map[string]any{"id": e.DiaryID}))
		return nil
	})
	bus.Subscribe(events.FoodAnalyzedName, func(ctx context.Context, event events.Event) error {
		e := event.(events.FoodAnalyzed)
		publisher.Publish(e.UserID, FoodAnalyzed(e.Analysis))
		return nil
	})
}
