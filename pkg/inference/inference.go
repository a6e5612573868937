// Package inference provides a unified interface for LLM chat and vision
// inference.
//
// The package abstracts chat completions and image analysis behind a single
// Provider interface, enabling seamless switching between providers like
// OpenAI, Ollama, vLLM, Together, and Gemini.
//
// Example usage:
//
//	client, _ := inference.NewClient(
//	    inference.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    inference.WithModel("gpt-4o-mini"),
//	)
//	defer client.Close()
//
//	resp, _ := client.Chat(ctx, &inference.ChatRequest{
//	    Messages: []inference.Message{
//	        inference.NewUserMessage("Hello!"),
//	    },
//	})
package inference

import "context"

// Provider is the unified inference interface for chat and vision.
type Provider interface {
	// Chat generates a response from a sequence of messages.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Vision analyzes an image with a text prompt.
	Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// ChatRequest for chat completions.
type ChatRequest struct {
	// Messages is the conversation history.
	Messages []Message

	// Model overrides the default model.
	Model string

	// MaxTokens limits the response length. Zero uses the config default.
	MaxTokens int

	// Temperature controls randomness (0.0-2.0). Always sent to the
	// provider, so zero means fully deterministic sampling rather than
	// "use the provider default".
	Temperature float64

	// Stop sequences that halt generation.
	Stop []string

	// Tools available for the model to call.
	Tools []Tool

	// ToolChoice controls tool use: "auto", "none", "required".
	ToolChoice string
}

// ChatResponse from chat completion.
type ChatResponse struct {
	// Message is the assistant's response.
	Message Message

	// FinishReason indicates why generation stopped (stop, length, tool_calls).
	FinishReason string

	// Usage tracks token consumption.
	Usage Usage

	// Model used for generation.
	Model string

	// LatencyMs is the response time in milliseconds.
	LatencyMs int64
}

// VisionRequest for image analysis. Images arrive from the browser client
// as base64 payloads, so the request carries the encoded bytes directly
// rather than a decoded image.
type VisionRequest struct {
	// ImageB64 is the base64-encoded image, without any data-URL prefix.
	ImageB64 string

	// MediaType is the image MIME type (e.g. "image/png").
	MediaType string

	// Prompt describes what to analyze or ask about the image.
	Prompt string

	// Model overrides the default vision model.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int

	// Temperature controls randomness.
	Temperature float64
}

// VisionResponse from image analysis.
type VisionResponse struct {
	// Content is the natural language response.
	Content string

	// Usage tracks token consumption.
	Usage Usage

	// Model used for analysis.
	Model string

	// LatencyMs is the response time in milliseconds.
	LatencyMs int64
}

// Usage tracks token consumption for billing and limits.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
