package inference

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// ChatFunc is called when Chat is invoked.
	// If nil, returns a canned assistant reply.
	ChatFunc func(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// VisionFunc is called when Vision is invoked.
	// If nil, returns a canned description.
	VisionFunc func(ctx context.Context, req *VisionRequest) (*VisionResponse, error)

	// HealthFunc is called when Health is invoked. If nil, returns nil.
	HealthFunc func(ctx context.Context) error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Prompt string
	Time   time.Time
}

// NewMock creates a mock provider with canned replies.
func NewMock() *Mock {
	return &Mock{
		ChatFunc: func(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
			return &ChatResponse{
				Message:      NewAssistantMessage("ok"),
				FinishReason: "stop",
			}, nil
		},
		VisionFunc: func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
			return &VisionResponse{Content: "an image"}, nil
		},
	}
}

// MockReply creates a mock whose Chat always returns the given content.
func MockReply(content string) *Mock {
	m := NewMock()
	m.ChatFunc = func(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
		return &ChatResponse{
			Message:      NewAssistantMessage(content),
			FinishReason: "stop",
		}, nil
	}
	return m
}

// MockError creates a mock whose methods all return err.
func MockError(err error) *Mock {
	return &Mock{
		ChatFunc: func(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
			return nil, err
		},
		VisionFunc: func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Chat calls ChatFunc and records the call.
func (m *Mock) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[len(req.Messages)-1].Content
	}
	m.recordCall("Chat", prompt)
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return nil, WrapError("mock", ErrNotConfigured)
}

// Vision calls VisionFunc and records the call.
func (m *Mock) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	m.recordCall("Vision", req.Prompt)
	if m.VisionFunc != nil {
		return m.VisionFunc(ctx, req)
	}
	return nil, WrapError("mock", ErrNotConfigured)
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.recordCall("Health", "")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close records the call and returns nil.
func (m *Mock) Close() error {
	m.recordCall("Close", "")
	return nil
}

// Calls returns a copy of all recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of calls to the named method.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears recorded calls.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

func (m *Mock) recordCall(method, prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Prompt: prompt, Time: time.Now()})
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
