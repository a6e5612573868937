package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dei-labs/voicebridge/internal/jsonx"
	"github.com/dei-labs/voicebridge/pkg/inference"
)

// maxToolTokens is the fixed token budget for tool completions.
const maxToolTokens = 512

// Notifier receives tool lifecycle events for the push channel.
// The hub satisfies this; tests use a recording stub.
type Notifier interface {
	ToolCalled(tool, message string)
}

// NopNotifier discards events.
type NopNotifier struct{}

// ToolCalled implements Notifier.
func (NopNotifier) ToolCalled(tool, message string) {}

// Dispatcher routes a tool name plus transcript to its handler.
type Dispatcher struct {
	llm      inference.Provider
	notifier Notifier
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil notifier discards events.
func NewDispatcher(llm inference.Provider, notifier Notifier) *Dispatcher {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Dispatcher{
		llm:      llm,
		notifier: notifier,
		logger:   slog.Default().With("component", "tools.dispatcher"),
	}
}

// Dispatch runs the named tool against the transcript. It never returns a
// Go error for tool-level failures: unknown tools, upstream errors, and
// parse failures all come back inside the Result so the HTTP layer can
// answer 200 and let the payload carry the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, toolName, transcript string) *Result {
	if _, ok := Lookup(toolName); !ok {
		d.logger.Warn("unknown tool requested", "tool", toolName)
		return errorResult(toolName, fmt.Sprintf("unknown tool: %q", toolName))
	}

	if IsFrontendTool(toolName) {
		d.notifier.ToolCalled(toolName, fmt.Sprintf("Tool %s invoked", toolName))
		return initiatedResult(toolName)
	}

	switch toolName {
	case ToolFind:
		return d.find(ctx, transcript)
	case ToolExtractEntities:
		return d.extractEntities(ctx, transcript)
	case ToolAnalyzeSentiment:
		return d.analyzeSentiment(ctx, transcript)
	case ToolTranslate:
		return d.translate(ctx, transcript)
	default:
		// Registry and switch disagree; treat as unknown.
		return errorResult(toolName, fmt.Sprintf("no handler for tool: %q", toolName))
	}
}

func (d *Dispatcher) find(ctx context.Context, transcript string) *Result {
	reply, err := d.complete(ctx, fmt.Sprintf(findPrompt, transcript))
	if err != nil {
		return errorResult(ToolFind, err.Error())
	}

	var payload struct {
		KeyInformation string `json:"key_information"`
	}
	if !d.parseReply(reply, &payload) || payload.KeyInformation == "" {
		return degradedResult(ToolFind, reply)
	}
	return &Result{Tool: ToolFind, KeyInformation: payload.KeyInformation}
}

func (d *Dispatcher) extractEntities(ctx context.Context, transcript string) *Result {
	reply, err := d.complete(ctx, fmt.Sprintf(extractEntitiesPrompt, transcript))
	if err != nil {
		return errorResult(ToolExtractEntities, err.Error())
	}

	var entities map[string][]string
	if !d.parseReply(reply, &entities) || len(entities) == 0 {
		return degradedResult(ToolExtractEntities, reply)
	}
	return &Result{Tool: ToolExtractEntities, Entities: entities}
}

func (d *Dispatcher) analyzeSentiment(ctx context.Context, transcript string) *Result {
	reply, err := d.complete(ctx, fmt.Sprintf(analyzeSentimentPrompt, transcript))
	if err != nil {
		return errorResult(ToolAnalyzeSentiment, err.Error())
	}

	var sentiment Sentiment
	if !d.parseReply(reply, &sentiment) || sentiment.Label == "" {
		return degradedResult(ToolAnalyzeSentiment, reply)
	}
	return &Result{Tool: ToolAnalyzeSentiment, Sentiment: &sentiment}
}

func (d *Dispatcher) translate(ctx context.Context, transcript string) *Result {
	reply, err := d.complete(ctx, fmt.Sprintf(translatePrompt, transcript))
	if err != nil {
		return errorResult(ToolTranslate, err.Error())
	}

	var payload struct {
		Translation string `json:"translation"`
	}
	if !d.parseReply(reply, &payload) || payload.Translation == "" {
		return degradedResult(ToolTranslate, reply)
	}
	return &Result{Tool: ToolTranslate, Translation: payload.Translation}
}

// complete runs one deterministic completion with the fixed token budget.
func (d *Dispatcher) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := d.llm.Chat(ctx, &inference.ChatRequest{
		Messages:    []inference.Message{inference.NewUserMessage(prompt)},
		Temperature: 0,
		MaxTokens:   maxToolTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}

// parseReply extracts the first JSON object from the reply and unmarshals
// it into v. Returns false when no parseable object is present.
func (d *Dispatcher) parseReply(reply string, v interface{}) bool {
	raw := jsonx.ExtractObject(reply)
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		d.logger.Debug("tool reply parse failed", "error", err)
		return false
	}
	return true
}
