package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dei-labs/voicebridge/internal/httpc"
)

const providerGemini = "gemini"

// Gemini implements the Provider interface for Google's Gemini API.
// Note: Gemini uses a different API format than OpenAI, so we implement it directly.
type Gemini struct {
	apiKey string
	config *Config
	http   *http.Client
	logger *slog.Logger
}

// NewGemini creates a Gemini provider.
func NewGemini(opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	cfg.Model = "gemini-2.0-flash"
	cfg.VisionModel = "gemini-2.0-flash"
	cfg.Apply(opts...)

	if cfg.APIKey == "" {
		return nil, WrapError(providerGemini, ErrNoAPIKey)
	}

	return &Gemini{
		apiKey: cfg.APIKey,
		config: cfg,
		http:   httpc.NewClient(cfg.Timeout),
		logger: cfg.Logger.With("component", "inference.gemini"),
	}, nil
}

// Chat generates a chat completion using Gemini.
func (g *Gemini) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = g.config.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.config.MaxTokens
	}

	payload := map[string]interface{}{
		"contents": g.convertMessages(req.Messages),
		"generationConfig": map[string]interface{}{
			"temperature":     req.Temperature,
			"maxOutputTokens": maxTokens,
		},
	}

	result, err := g.generate(ctx, model, payload)
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Message: Message{
			Role:    RoleAssistant,
			Content: result.Candidates[0].Content.Parts[0].Text,
		},
		FinishReason: result.Candidates[0].FinishReason,
		Model:        model,
		LatencyMs:    time.Since(start).Milliseconds(),
	}, nil
}

// Vision analyzes a base64-encoded image using Gemini.
func (g *Gemini) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	start := time.Now()

	model := req.Model
	if model == "" {
		model = g.config.VisionModel
	}

	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "image/png"
	}

	parts := []map[string]interface{}{
		{"text": req.Prompt},
	}
	if req.ImageB64 != "" {
		parts = append(parts, map[string]interface{}{
			"inline_data": map[string]string{
				"mime_type": mediaType,
				"data":      req.ImageB64,
			},
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     req.Temperature,
			"maxOutputTokens": maxTokens,
		},
	}

	result, err := g.generate(ctx, model, payload)
	if err != nil {
		return nil, err
	}

	return &VisionResponse{
		Content:   result.Candidates[0].Content.Parts[0].Text,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}

// Health checks API connectivity with a minimal generation call.
func (g *Gemini) Health(ctx context.Context) error {
	_, err := g.Chat(ctx, &ChatRequest{
		Messages:  []Message{NewUserMessage("test")},
		MaxTokens: 1,
	})
	return err
}

// Close releases resources.
func (g *Gemini) Close() error {
	g.http.CloseIdleConnections()
	return nil
}

// generate posts a generateContent request and validates the reply shape.
func (g *Gemini) generate(ctx context.Context, model string, payload map[string]interface{}) (*geminiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerGemini, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.config.BaseURL, model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerGemini, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, WrapError(providerGemini, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, g.parseError(resp)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, WrapError(providerGemini, fmt.Errorf("decode response: %w", err))
	}

	if result.Error.Message != "" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    result.Error.Message,
			Provider:   providerGemini,
		}
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, WrapError(providerGemini, ErrNoChoices)
	}

	return &result, nil
}

// convertMessages maps chat roles onto Gemini's user/model content format.
// System messages become user turns at the front of the conversation.
func (g *Gemini) convertMessages(messages []Message) []map[string]interface{} {
	contents := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, map[string]interface{}{
			"role": role,
			"parts": []map[string]string{
				{"text": msg.Content},
			},
		})
	}
	return contents
}

// parseError reads and parses an error response.
func (g *Gemini) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	message := string(body)
	code := ""
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = errResp.Error.Status
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       code,
		Provider:   providerGemini,
	}
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Verify Gemini implements Provider at compile time.
var _ Provider = (*Gemini)(nil)
