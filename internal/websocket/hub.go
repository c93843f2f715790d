package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client.
var ErrClientClosed = errors.New("client is closed")

// ClientInterface defines the interface that clients must implement.
type ClientInterface interface {
	ID() string
	OwnerID() int64
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections organized by owner. It is safe for
// concurrent use. Scoping by owner (rather than workspace, as upstream
// scopes by workspace) keeps every pushed event inside the same
// per-user boundary the REST surface enforces (spec §7 ownership).
type Hub struct {
	owners map[int64]map[string]ClientInterface
	mu     sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{owners: make(map[int64]map[string]ClientInterface)}
}

// Register adds a client to the hub under its owner.
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	clientID := client.ID()

	if h.owners[ownerID] == nil {
		h.owners[ownerID] = make(map[string]ClientInterface)
	}
	h.owners[ownerID][clientID] = client

	log.Debug().Int64("owner_id", ownerID).Str("client_id", clientID).Msg("websocket client registered")
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ownerID := client.OwnerID()
	clientID := client.ID()

	if clients, ok := h.owners[ownerID]; ok {
		if _, exists := clients[clientID]; exists {
			delete(clients, clientID)
			if len(clients) == 0 {
				delete(h.owners, ownerID)
			}
			log.Debug().Int64("owner_id", ownerID).Str("client_id", clientID).Msg("websocket client unregistered")
		}
	}
}

// Broadcast sends an event to all clients owned by ownerID.
func (h *Hub) Broadcast(ownerID int64, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Int64("owner_id", ownerID).Str("event_type", event.Type).Msg("failed to serialize event")
		return
	}

	h.mu.RLock()
	clients, ok := h.owners[ownerID]
	if !ok || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}
	clientsCopy := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	h.mu.RUnlock()

	for _, client := range clientsCopy {
		go func(c ClientInterface) {
			if err := c.Send(data); err != nil {
				log.Warn().Err(err).Int64("owner_id", ownerID).Str("client_id", c.ID()).Msg("failed to send to client")
			}
		}(client)
	}
}

// ClientCount returns the number of clients connected for an owner.
func (h *Hub) ClientCount(ownerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.owners[ownerID]; ok {
		return len(clients)
	}
	return 0
}

// TotalClientCount returns the total number of connected clients.
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, clients := range h.owners {
		total += len(clients)
	}
	return total
}
