package tts

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
// All methods can be customized via function fields.
type Mock struct {
	// SynthesizeFunc is called when Synthesize is invoked.
	// If nil, returns deterministic fake audio derived from the input,
	// so identical requests produce byte-identical results.
	SynthesizeFunc func(ctx context.Context, text, voice string) (*AudioResult, error)

	// HealthFunc is called when Health is invoked. If nil, returns nil.
	HealthFunc func(ctx context.Context) error

	// Tracking
	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation for verification.
type MockCall struct {
	Method string
	Text   string
	Voice  string
	Time   time.Time
}

// NewMock creates a new mock provider with deterministic fake audio.
func NewMock() *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text, voice string) (*AudioResult, error) {
			text = Truncate(text)
			audio := []byte("mp3:" + voice + ":" + text)
			return &AudioResult{
				Audio:     audio,
				MIMEType:  "audio/mpeg",
				Voice:     voice,
				CharCount: len(text),
				LatencyMs: 1,
			}, nil
		},
	}
}

// MockError creates a mock whose methods all return err.
func MockError(err error) *Mock {
	return &Mock{
		SynthesizeFunc: func(ctx context.Context, text, voice string) (*AudioResult, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Synthesize calls SynthesizeFunc and records the call.
func (m *Mock) Synthesize(ctx context.Context, text, voice string) (*AudioResult, error) {
	m.recordCall("Synthesize", text, voice)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, voice)
	}
	return nil, WrapError("mock", ErrNotConfigured)
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.recordCall("Health", "", "")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close records the call and returns nil.
func (m *Mock) Close() error {
	m.recordCall("Close", "", "")
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

func (m *Mock) recordCall(method, text, voice string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Text: text, Voice: voice, Time: time.Now()})
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
