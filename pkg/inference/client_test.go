package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatReply(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":    "test-id",
		"model": "gpt-4o-mini",
		"choices": []map[string]interface{}{{
			"message": map[string]interface{}{
				"role":    "assistant",
				"content": content,
			},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}
}

func TestClientChat(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("expected Bearer test-key, got %s", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatReply("Hello! How can I help?"))
	}))
	defer server.Close()

	client, err := NewClient(
		WithBaseURL(server.URL),
		WithAPIKey("test-key"),
		WithModel("gpt-4o-mini"),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages:    []Message{NewUserMessage("Hello")},
		Temperature: 0,
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	if resp.Message.Content != "Hello! How can I help?" {
		t.Errorf("unexpected content: %s", resp.Message.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected 15 tokens, got %d", resp.Usage.TotalTokens)
	}

	// Explicit zero temperature must be sent, not omitted.
	temp, ok := captured["temperature"]
	if !ok {
		t.Fatal("temperature missing from payload")
	}
	if temp.(float64) != 0 {
		t.Errorf("expected temperature 0, got %v", temp)
	}
}

func TestClientChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Invalid API key", "code": "invalid_api_key"}}`))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL), WithAPIKey("bad-key"))
	defer client.Close()

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("Hello")},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("expected unauthorized, got status %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Message, "Invalid API key") {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
}

func TestClientVision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Messages) != 1 || len(payload.Messages[0].Content) != 2 {
			t.Fatalf("expected text+image content, got %+v", payload.Messages)
		}
		url := payload.Messages[0].Content[1].ImageURL.URL
		if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
			t.Errorf("unexpected data URL: %.40s", url)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatReply("A screenshot of a login form."))
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))
	defer client.Close()

	resp, err := client.Vision(context.Background(), &VisionRequest{
		ImageB64:  "aGVsbG8=",
		MediaType: "image/jpeg",
		Prompt:    "What is this?",
	})
	if err != nil {
		t.Fatalf("vision failed: %v", err)
	}
	if resp.Content != "A screenshot of a login form." {
		t.Errorf("unexpected content: %s", resp.Content)
	}
}

func TestClientChatWithTools(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"id":    "test-id",
			"model": "gpt-4o-mini",
			"choices": []map[string]interface{}{{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": "",
					"tool_calls": []map[string]interface{}{{
						"id":   "call_1",
						"type": "function",
						"function": map[string]string{
							"name":      "multiply",
							"arguments": `{"a": 6, "b": 7}`,
						},
					}},
				},
				"finish_reason": "tool_calls",
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, _ := NewClient(WithBaseURL(server.URL), WithAPIKey("test-key"))
	defer client.Close()

	resp, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{NewUserMessage("what is 6 times 7")},
		Tools: []Tool{NewTool("multiply", "Multiply two numbers", map[string]interface{}{
			"type": "object",
		})},
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	if resp.FinishReason != "tool_calls" {
		t.Errorf("expected tool_calls finish, got %s", resp.FinishReason)
	}
	if len(resp.Message.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.Message.ToolCalls))
	}
	if resp.Message.ToolCalls[0].Name != "multiply" {
		t.Errorf("unexpected tool: %s", resp.Message.ToolCalls[0].Name)
	}
}
