package api

import (
	"sync"

	"github.com/gofiber/websocket/v2"

	"github.com/sweets9/SOC-ThreatViz/internal/util"
)

// Hub fans accepted threat records out to connected websocket clients, so a
// map view can paint new arcs without polling. Clients are read from only to
// detect disconnects; this is a one-way feed.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

// Handle runs for the lifetime of one websocket connection
func (h *Hub) Handle(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	util.PrintDebug("websocket client connected")

	// Block on reads until the client goes away. Inbound messages are
	// discarded.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.Close()
}

// Broadcast sends a JSON message to every connected client. A client that
// fails a write is dropped.
func (h *Hub) Broadcast(v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		if err := c.WriteJSON(v); err != nil {
			delete(h.conns, c)
			c.Close()
		}
	}
}

// Clients returns how many clients are connected
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
