package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dei-labs/voicebridge/internal/jsonx"
	"github.com/dei-labs/voicebridge/pkg/inference"
)

// ErrToolSelection is returned when the model's tool choice cannot be
// parsed. The caller surfaces it as an error response; routing is never
// retried.
var ErrToolSelection = errors.New("tools: could not parse tool selection")

// Router asks the model to pick one tool for a transcript and dispatches
// to it.
type Router struct {
	llm        inference.Provider
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewRouter creates a router that delegates execution to dispatcher.
func NewRouter(llm inference.Provider, dispatcher *Dispatcher) *Router {
	return &Router{
		llm:        llm,
		dispatcher: dispatcher,
		logger:     slog.Default().With("component", "tools.router"),
	}
}

// Route selects a tool for the transcript via a single classification call
// and dispatches it. The model's answer is trusted verbatim: an unknown
// name still goes to the dispatcher, which reports it as an unknown-tool
// result.
func (r *Router) Route(ctx context.Context, transcript string) (string, *Result, error) {
	resp, err := r.llm.Chat(ctx, &inference.ChatRequest{
		Messages: []inference.Message{
			inference.NewSystemMessage(RouterPrompt()),
			inference.NewUserMessage(transcript),
		},
		Temperature: 0,
		MaxTokens:   32,
	})
	if err != nil {
		return "", nil, err
	}

	raw := jsonx.ExtractObject(resp.Message.Content)
	if raw == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrToolSelection, resp.Message.Content)
	}

	var selection struct {
		Tool string `json:"tool"`
	}
	if err := json.Unmarshal([]byte(raw), &selection); err != nil || selection.Tool == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrToolSelection, resp.Message.Content)
	}

	r.logger.Info("tool selected", "tool", selection.Tool)

	return selection.Tool, r.dispatcher.Dispatch(ctx, selection.Tool, transcript), nil
}
