package hub

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum inbound message size allowed
	maxMessageSize = 64 * 1024
)

// Client represents a single websocket connection.
type Client struct {
	// ID identifies the connection in logs and the welcome event.
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewClient creates a new client and registers it with the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	client := &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan Message, 256),
	}
	hub.register <- client
	return client
}

// Run starts the client's read and write pumps.
// This should be called in the websocket handler.
func (c *Client) Run() {
	go c.writePump()
	c.readPump() // Blocks until connection closes
}

// greet queues a welcome event for this client only.
func (c *Client) greet() {
	data, err := json.Marshal(Event{
		Type:     EventWelcome,
		ClientID: c.ID,
		Message:  "connected",
	})
	if err != nil {
		return
	}
	select {
	case c.send <- Message{Data: data}:
	default:
	}
}

// readPump reads messages from the websocket connection. Text frames are
// echoed back to the sender; anything else just keeps the connection alive
// and detects disconnection.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, payload, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		data, err := json.Marshal(Event{Type: EventEcho, Message: string(payload)})
		if err != nil {
			continue
		}
		select {
		case c.send <- Message{Data: data}:
		default:
			// Echo is best effort; drop when the client is backed up.
		}
	}
}

// writePump writes messages to the websocket connection.
// Only this goroutine writes to the connection - no race conditions!
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel - send close frame
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
