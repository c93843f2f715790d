package websocket

// EventPublisher publishes change events to clients scoped to one owner.
type EventPublisher interface {
	Publish(ownerID int64, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish implements EventPublisher by broadcasting to the owner's clients.
func (h *Hub) Publish(ownerID int64, event Event) {
	h.Broadcast(ownerID, event)
}

// NoOpPublisher discards every event. Used when the WebSocket surface is
// disabled or in tests that don't care about notifications.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(ownerID int64, event Event) {}
