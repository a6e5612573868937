// Package hub pushes assistant events to connected browser extensions
// over websockets, using a channel-based fan-out.
package hub

// Event types pushed to clients.
const (
	// EventWelcome greets a client right after it connects.
	EventWelcome = "welcome"

	// EventToolCalled announces that a tool was invoked for a transcript.
	EventToolCalled = "tool_called"

	// EventStopAudio tells clients to stop any audio they are playing.
	EventStopAudio = "stop_audio"

	// EventEcho mirrors a text frame back to the client that sent it.
	EventEcho = "echo"
)

// Event is the JSON payload of every pushed message.
type Event struct {
	Type     string `json:"type"`
	Tool     string `json:"tool,omitempty"`
	Message  string `json:"message,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// Message is a pre-encoded frame queued for delivery.
type Message struct {
	Data []byte
}
