package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

type wsClient struct {
	email string
	conn  *websocket.Conn

	mu sync.Mutex // serializes writes to conn
}

func (c *wsClient) writeJSON(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(payload)
}

// Hub fans change notifications out to each user's open event
// sockets.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*wsClient]struct{})}
}

func (h *Hub) Register(c *wsClient) {
	h.mu.Lock()
	if h.clients[c.email] == nil {
		h.clients[c.email] = make(map[*wsClient]struct{})
	}
	h.clients[c.email][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *wsClient) {
	h.mu.Lock()
	if set := h.clients[c.email]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.email)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Broadcast sends the payload to every socket of one user. Write
// failures are ignored; a dead socket is cleaned up by its read loop.
func (h *Hub) Broadcast(email string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[email] {
		_ = c.writeJSON(payload)
	}
}
