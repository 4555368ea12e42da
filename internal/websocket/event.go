package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted)
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeDeleted  EventType = "deleted"
	EventTypeAnalyzed EventType = "analyzed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeDiary EntityType = "diary"
	EntityTypeFood  EntityType = "food"
)

// Event represents a WebSocket event message sent to clients
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "diary.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "diary"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DiaryCreated creates a diary.created event
func DiaryCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeDiary, payload)
}

// DiaryUpdated creates a diary.updated event
func DiaryUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeDiary, payload)
}

// DiaryDeleted creates a diary.deleted event
func DiaryDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeDiary, payload)
}

// FoodAnalyzed creates a food.analyzed event
func FoodAnalyzed(payload interface{}) Event {
	return NewEvent(EventTypeAnalyzed, EntityTypeFood, payload)
}
