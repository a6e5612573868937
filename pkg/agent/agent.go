// Package agent runs a small tool-calling loop for math queries. The model
// is given a multiply function and iterates until it produces a final text
// answer.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dei-labs/voicebridge/pkg/inference"
)

// maxIterations bounds the tool-call loop. A well-behaved model finishes a
// multiplication chain in two or three rounds.
const maxIterations = 5

const systemPrompt = `You are a calculator assistant. Use the multiply tool for any multiplication instead of computing it yourself. When you have the final answer, reply with just the number.`

// Agent answers arithmetic queries via model tool calls.
type Agent struct {
	llm    inference.Provider
	logger *slog.Logger
}

// New creates an agent backed by llm.
func New(llm inference.Provider) *Agent {
	return &Agent{
		llm:    llm,
		logger: slog.Default().With("component", "agent"),
	}
}

// Calculate answers the query, executing any multiply calls the model
// requests. Returns the model's final text answer.
func (a *Agent) Calculate(ctx context.Context, query string) (string, error) {
	messages := []inference.Message{
		inference.NewSystemMessage(systemPrompt),
		inference.NewUserMessage(query),
	}

	tools := []inference.Tool{multiplyTool()}

	for i := 0; i < maxIterations; i++ {
		resp, err := a.llm.Chat(ctx, &inference.ChatRequest{
			Messages:    messages,
			Temperature: 0,
			MaxTokens:   256,
			Tools:       tools,
		})
		if err != nil {
			return "", err
		}

		if len(resp.Message.ToolCalls) == 0 {
			return resp.Message.Content, nil
		}

		messages = append(messages, resp.Message)
		for _, call := range resp.Message.ToolCalls {
			result, err := a.execute(call)
			if err != nil {
				result = fmt.Sprintf("error: %v", err)
			}
			a.logger.Debug("tool call executed", "tool", call.Name, "result", result)
			messages = append(messages, inference.NewToolMessage(call.ID, result))
		}
	}

	return "", fmt.Errorf("agent: no final answer after %d iterations", maxIterations)
}

func (a *Agent) execute(call inference.ToolCall) (string, error) {
	if call.Name != "multiply" {
		return "", fmt.Errorf("agent: unknown tool %q", call.Name)
	}

	var args struct {
		A float64 `json:"a"`
		B float64 `json:"b"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return "", fmt.Errorf("agent: bad multiply arguments: %w", err)
	}
	return strconv.FormatFloat(args.A*args.B, 'f', -1, 64), nil
}

func multiplyTool() inference.Tool {
	return inference.NewTool("multiply", "Multiply two numbers and return the product.", map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"a": map[string]interface{}{"type": "number", "description": "first factor"},
			"b": map[string]interface{}{"type": "number", "description": "second factor"},
		},
		"required": []string{"a", "b"},
	})
}
