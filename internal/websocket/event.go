package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is the action a change event describes.
type EventType string

const (
	EventTypeCreated EventType = "created"
	EventTypeUpdated EventType = "updated"
	EventTypeDeleted EventType = "deleted"
	EventTypeSynced  EventType = "synced"
	EventTypeRenewed EventType = "renewed"
)

// EntityType is the domain entity a change event is about.
type EntityType string

const (
	EntityTypeEntry       EntityType = "entry"
	EntityTypeBudget      EntityType = "budget"
	EntityTypeSavingsGoal EntityType = "savings_goal"
	EntityTypeProjection  EntityType = "projection"
)

// Event is a WebSocket change-notification message: { type, entity,
// payload, timestamp }. type combines entity and action, e.g.
// "budget.updated".
type Event struct {
	Type      string      `json:"type"`
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent builds an Event with the given action, entity and payload.
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EntryCreated(payload interface{}) Event { return NewEvent(EventTypeCreated, EntityTypeEntry, payload) }
func EntryUpdated(payload interface{}) Event { return NewEvent(EventTypeUpdated, EntityTypeEntry, payload) }
func EntryDeleted(payload interface{}) Event { return NewEvent(EventTypeDeleted, EntityTypeEntry, payload) }

func BudgetCreated(payload interface{}) Event { return NewEvent(EventTypeCreated, EntityTypeBudget, payload) }
func BudgetUpdated(payload interface{}) Event { return NewEvent(EventTypeUpdated, EntityTypeBudget, payload) }
func BudgetRenewed(payload interface{}) Event { return NewEvent(EventTypeRenewed, EntityTypeBudget, payload) }
func BudgetSynced(payload interface{}) Event  { return NewEvent(EventTypeSynced, EntityTypeBudget, payload) }

func SavingsGoalCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeSavingsGoal, payload)
}
func SavingsGoalUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeSavingsGoal, payload)
}
func SavingsGoalDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeSavingsGoal, payload)
}

func ProjectionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeProjection, payload)
}
func ProjectionUpdated(payload interface{}) Event {
	return NewEvent(EventTypeUpdated, EntityTypeProjection, payload)
}
func ProjectionDeleted(payload interface{}) Event {
	return NewEvent(EventTypeDeleted, EntityTypeProjection, payload)
}
