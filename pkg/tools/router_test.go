package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/dei-labs/voicebridge/pkg/inference"
)

func TestRouteSelectsTool(t *testing.T) {
	mock := inference.MockReply(`{"tool": "summarize"}`)
	notifier := &recordingNotifier{}
	r := NewRouter(mock, NewDispatcher(mock, notifier))

	tool, result, err := r.Route(context.Background(), "give me the gist of this page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tool != ToolSummarize {
		t.Errorf("expected summarize selected, got %q", tool)
	}
	if result.Status != StatusInitiated {
		t.Errorf("expected initiated result, got %+v", result)
	}
	if events := notifier.Events(); len(events) != 1 {
		t.Errorf("expected one push event, got %v", events)
	}
}

func TestRouteProseWrappedSelection(t *testing.T) {
	mock := inference.MockReply("The best match is:\n```json\n{\"tool\": \"fill_form\"}\n```")
	r := NewRouter(mock, NewDispatcher(mock, nil))

	tool, _, err := r.Route(context.Background(), "help me with this application")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tool != ToolFillForm {
		t.Errorf("expected fill_form selected, got %q", tool)
	}
}

func TestRouteUnparseableSelection(t *testing.T) {
	for name, reply := range map[string]string{
		"prose":        "I would use the summarize tool here.",
		"empty object": `{}`,
		"wrong key":    `{"choice": "summarize"}`,
	} {
		t.Run(name, func(t *testing.T) {
			mock := inference.MockReply(reply)
			r := NewRouter(mock, NewDispatcher(mock, nil))

			_, _, err := r.Route(context.Background(), "anything")
			if !errors.Is(err, ErrToolSelection) {
				t.Errorf("expected ErrToolSelection, got %v", err)
			}
		})
	}
}

func TestRouteUnknownSelectionDispatchedVerbatim(t *testing.T) {
	mock := inference.MockReply(`{"tool": "order_pizza"}`)
	r := NewRouter(mock, NewDispatcher(mock, nil))

	tool, result, err := r.Route(context.Background(), "I'm hungry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tool != "order_pizza" {
		t.Errorf("expected model's choice passed through, got %q", tool)
	}
	if result.Error == "" {
		t.Error("expected unknown-tool error in result")
	}
}

func TestRouteUpstreamError(t *testing.T) {
	mock := inference.MockError(&inference.APIError{StatusCode: 429, Message: "slow down", Provider: "client"})
	r := NewRouter(mock, NewDispatcher(mock, nil))

	_, _, err := r.Route(context.Background(), "anything")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *inference.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("expected APIError passed through, got %v", err)
	}
}
