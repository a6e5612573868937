package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dei-labs/voicebridge/pkg/inference"
)

// scriptedMock returns a mock whose Chat pops one canned response per call.
func scriptedMock(t *testing.T, responses ...*inference.ChatResponse) *inference.Mock {
	t.Helper()
	m := inference.NewMock()
	i := 0
	m.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		if i >= len(responses) {
			t.Fatalf("unexpected chat call %d", i+1)
		}
		resp := responses[i]
		i++
		return resp, nil
	}
	return m
}

func toolCallResponse(calls ...inference.ToolCall) *inference.ChatResponse {
	return &inference.ChatResponse{
		Message:      inference.Message{Role: inference.RoleAssistant, ToolCalls: calls},
		FinishReason: "tool_calls",
	}
}

func textResponse(content string) *inference.ChatResponse {
	return &inference.ChatResponse{
		Message:      inference.NewAssistantMessage(content),
		FinishReason: "stop",
	}
}

func TestCalculateWithToolCall(t *testing.T) {
	mock := scriptedMock(t,
		toolCallResponse(inference.ToolCall{ID: "call_1", Name: "multiply", Arguments: `{"a": 6, "b": 7}`}),
		textResponse("42"),
	)
	a := New(mock)

	answer, err := a.Calculate(context.Background(), "what is 6 times 7?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "42" {
		t.Errorf("expected 42, got %q", answer)
	}
	if n := mock.CallCount("Chat"); n != 2 {
		t.Errorf("expected 2 chat rounds, got %d", n)
	}
}

func TestCalculateFeedsProductBack(t *testing.T) {
	var second *inference.ChatRequest
	m := inference.NewMock()
	round := 0
	m.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		round++
		if round == 1 {
			return toolCallResponse(inference.ToolCall{ID: "call_1", Name: "multiply", Arguments: `{"a": 3, "b": 4}`}), nil
		}
		second = req
		return textResponse("12"), nil
	}
	a := New(m)

	if _, err := a.Calculate(context.Background(), "3 times 4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second == nil {
		t.Fatal("expected a second chat round")
	}
	last := second.Messages[len(second.Messages)-1]
	if last.Role != inference.RoleTool || last.ToolCallID != "call_1" {
		t.Errorf("expected tool result message, got %+v", last)
	}
	if last.Content != "12" {
		t.Errorf("expected product fed back, got %q", last.Content)
	}
}

func TestCalculateDirectAnswer(t *testing.T) {
	a := New(inference.MockReply("9"))

	answer, err := a.Calculate(context.Background(), "what is 3 squared?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "9" {
		t.Errorf("expected 9, got %q", answer)
	}
}

func TestCalculateBadArguments(t *testing.T) {
	mock := scriptedMock(t,
		toolCallResponse(inference.ToolCall{ID: "call_1", Name: "multiply", Arguments: `not json`}),
		textResponse("I could not compute that."),
	)
	a := New(mock)

	answer, err := a.Calculate(context.Background(), "multiply things")
	if err != nil {
		t.Fatalf("tool-level failure must not abort the loop: %v", err)
	}
	if answer == "" {
		t.Error("expected a final answer after the error was fed back")
	}
}

func TestCalculateIterationBound(t *testing.T) {
	m := inference.NewMock()
	m.ChatFunc = func(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
		return toolCallResponse(inference.ToolCall{ID: "loop", Name: "multiply", Arguments: `{"a": 1, "b": 1}`}), nil
	}
	a := New(m)

	_, err := a.Calculate(context.Background(), "loop forever")
	if err == nil || !strings.Contains(err.Error(), "no final answer") {
		t.Errorf("expected iteration bound error, got %v", err)
	}
	if n := m.CallCount("Chat"); n != maxIterations {
		t.Errorf("expected exactly %d rounds, got %d", maxIterations, n)
	}
}

func TestCalculateUpstreamError(t *testing.T) {
	wantErr := errors.New("provider down")
	a := New(inference.MockError(wantErr))

	if _, err := a.Calculate(context.Background(), "anything"); !errors.Is(err, wantErr) {
		t.Errorf("expected provider error surfaced, got %v", err)
	}
}
