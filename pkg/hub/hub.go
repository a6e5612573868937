package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub maintains the set of active clients and broadcasts events to them.
// Delivery is fire-and-forget: clients that cannot keep up are dropped.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for client count (read-only access from outside)
	mu sync.RWMutex

	logger *slog.Logger
}

// New creates a new Hub.
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     slog.Default().With("component", "hub"),
	}
}

// Run starts the hub's main loop.
// This should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			client.greet()
			h.logger.Info("client connected", "client_id", client.ID, "total", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client disconnected", "client_id", client.ID, "remaining", count)

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's buffer is full - they're too slow
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("dropped slow client", "client_id", client.ID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastEvent encodes and broadcasts an event.
func (h *Hub) BroadcastEvent(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("event encode failed", "type", ev.Type, "error", err)
		return
	}
	h.Broadcast(Message{Data: data})
}

// ToolCalled broadcasts a tool_called event. It lets the hub stand in
// wherever a tool notifier is needed.
func (h *Hub) ToolCalled(tool, message string) {
	h.BroadcastEvent(Event{Type: EventToolCalled, Tool: tool, Message: message})
}

// AudioStopped broadcasts a stop_audio event.
func (h *Hub) AudioStopped(message string) {
	h.BroadcastEvent(Event{Type: EventStopAudio, Message: message})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
