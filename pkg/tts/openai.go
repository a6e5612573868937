package tts

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

const (
	openAITTSURL   = "https://api.openai.com/v1/audio/speech"
	providerOpenAI = "openai"
)

// OpenAI model options
const (
	ModelTTS1   = "tts-1"    // Standard quality, faster
	ModelTTS1HD = "tts-1-hd" // Higher quality, slower
)

// OpenAI implements Provider for OpenAI TTS.
type OpenAI struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewOpenAI creates a new OpenAI TTS provider.
func NewOpenAI(opts ...Option) (*OpenAI, error) {
	cfg := DefaultConfig()
	cfg.ModelID = ModelTTS1
	cfg.DefaultVoice = DefaultOpenAIVoice
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAITTSURL
	}

	return &OpenAI{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "tts.openai"),
		baseURL: baseURL,
	}, nil
}

// Synthesize converts text to MP3 audio with the named voice. Text beyond
// MaxTextLen is truncated; unknown voices fall back to the default.
func (o *OpenAI) Synthesize(ctx context.Context, text, voice string) (*AudioResult, error) {
	if text == "" {
		return nil, WrapError(providerOpenAI, ErrEmptyText)
	}
	text = Truncate(text)

	resolved := o.resolveVoice(voice)
	start := time.Now()

	payload := map[string]interface{}{
		"model": o.config.ModelID,
		"voice": resolved,
		"input": text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.doWithRetry(ctx, req, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, o.parseError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerOpenAI, fmt.Errorf("read response: %w", err))
	}

	o.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
		"voice", resolved,
	)

	return &AudioResult{
		Audio:     audio,
		MIMEType:  "audio/mpeg",
		Voice:     resolved,
		CharCount: len(text),
		LatencyMs: latency,
	}, nil
}

// Health verifies the API key with a minimal synthesis request.
func (o *OpenAI) Health(ctx context.Context) error {
	_, err := o.Synthesize(ctx, "ok", o.config.DefaultVoice)
	return err
}

// Close releases resources held by the provider.
func (o *OpenAI) Close() error {
	o.client.CloseIdleConnections()
	return nil
}

// resolveVoice maps a requested voice onto the fixed voice set.
func (o *OpenAI) resolveVoice(name string) string {
	if OpenAIVoices[name] {
		return name
	}
	if OpenAIVoices[o.config.DefaultVoice] {
		return o.config.DefaultVoice
	}
	return DefaultOpenAIVoice
}

// doWithRetry performs the request with retry logic.
func (o *OpenAI) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= o.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.config.RetryDelay * time.Duration(attempt)):
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := o.client.Do(req)
		if err != nil {
			lastErr = WrapError(providerOpenAI, err)
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = o.parseError(resp)
			o.logger.Warn("retrying request",
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// parseError reads and parses an error response. It closes the body.
func (o *OpenAI) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerOpenAI,
	}
}

// Verify OpenAI implements Provider at compile time.
var _ Provider = (*OpenAI)(nil)
