package hub

import (
	"encoding/json"
	"testing"
	"time"
)

// testClient registers a bare client with the hub. The pumps never run, so
// tests read frames straight off the send channel.
func testClient(t *testing.T, h *Hub, buffer int) *Client {
	t.Helper()
	c := &Client{
		ID:   "test-client",
		hub:  h,
		send: make(chan Message, buffer),
	}
	h.register <- c
	return c
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.send:
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHubWelcomeOnConnect(t *testing.T) {
	h := New()
	go h.Run()

	c := testClient(t, h, 4)

	ev := receiveEvent(t, c)
	if ev.Type != EventWelcome {
		t.Errorf("expected welcome event, got %q", ev.Type)
	}
	if ev.ClientID != c.ID {
		t.Errorf("expected client id %q, got %q", c.ID, ev.ClientID)
	}
	if h.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", h.ClientCount())
	}
}

func TestHubToolCalledFanOut(t *testing.T) {
	h := New()
	go h.Run()

	a := testClient(t, h, 4)
	b := testClient(t, h, 4)
	receiveEvent(t, a)
	receiveEvent(t, b)

	h.ToolCalled("summarize", "Tool summarize invoked")

	for _, c := range []*Client{a, b} {
		ev := receiveEvent(t, c)
		if ev.Type != EventToolCalled || ev.Tool != "summarize" {
			t.Errorf("unexpected event: %+v", ev)
		}
	}
}

func TestHubAudioStopped(t *testing.T) {
	h := New()
	go h.Run()

	c := testClient(t, h, 4)
	receiveEvent(t, c)

	h.AudioStopped("audio stopped")

	ev := receiveEvent(t, c)
	if ev.Type != EventStopAudio {
		t.Errorf("expected stop_audio event, got %q", ev.Type)
	}
	if ev.Message != "audio stopped" {
		t.Errorf("unexpected message: %q", ev.Message)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := New()
	go h.Run()

	// Buffer of one, filled by the welcome event and never drained.
	c := testClient(t, h, 1)

	h.BroadcastEvent(Event{Type: EventToolCalled, Tool: "translate"})

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The hub closes the channel when it drops the client.
	receiveEvent(t, c)
	if _, ok := <-c.send; ok {
		t.Error("expected send channel closed")
	}
}

func TestHubUnregister(t *testing.T) {
	h := New()
	go h.Run()

	c := testClient(t, h, 4)
	receiveEvent(t, c)

	h.unregister <- c

	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not unregistered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
