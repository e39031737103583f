package ws

import (
	"encoding/json"
	"sync"

	"learnhub_backend/internal/logger"
)

// Hub fans progression events out to every connected client. Broadcast
// never blocks the caller: slow clients get dropped, not waited on.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	logger.Debug("ws client connected", "user_id", c.UserID)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
	logger.Debug("ws client disconnected", "user_id", c.UserID)
}

// Broadcast pushes one event to all clients.
func (h *Hub) Broadcast(e Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		logger.Error("failed to marshal ws event", "type", e.Type, "error", err)
		return
	}

	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
		select {
		case c.Send <- raw:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.Unregister(c)
	}
}

// ClientCount is used by tests and the readiness probe.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
