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
	elevenLabsBaseURL  = "https://api.elevenlabs.io/v1"
	providerElevenLabs = "elevenlabs"
)

// ElevenLabs model IDs
const (
	// ModelTurboV2_5 is the fastest English model (~200ms latency).
	ModelTurboV2_5 = "eleven_turbo_v2_5"

	// ModelFlashV2_5 is the fastest multilingual model (~150ms latency).
	ModelFlashV2_5 = "eleven_flash_v2_5"

	// ModelMultilingualV2 is the highest quality multilingual model (~300ms latency).
	ModelMultilingualV2 = "eleven_multilingual_v2"
)

// ElevenLabs implements Provider for ElevenLabs TTS over REST.
// Output is MP3, which browsers play natively.
type ElevenLabs struct {
	config  *Config
	client  *http.Client
	logger  *slog.Logger
	baseURL string
}

// NewElevenLabs creates a new ElevenLabs TTS provider.
func NewElevenLabs(opts ...Option) (*ElevenLabs, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	return &ElevenLabs{
		config:  cfg,
		client:  httpc.NewClient(cfg.Timeout),
		logger:  cfg.Logger.With("component", "tts.elevenlabs"),
		baseURL: baseURL,
	}, nil
}

// Synthesize converts text to MP3 audio with the named voice. Text beyond
// MaxTextLen is truncated; unknown voices fall back to the default preset.
func (e *ElevenLabs) Synthesize(ctx context.Context, text, voice string) (*AudioResult, error) {
	if text == "" {
		return nil, WrapError(providerElevenLabs, ErrEmptyText)
	}
	text = Truncate(text)

	preset, voiceID := e.resolveVoice(voice)
	start := time.Now()

	url := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL, voiceID)

	body, err := json.Marshal(e.buildPayload(text))
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("xi-api-key", e.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.doWithRetry(ctx, req, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	latency := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, e.parseError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapError(providerElevenLabs, fmt.Errorf("read response: %w", err))
	}

	e.logger.Debug("synthesized audio",
		"chars", len(text),
		"bytes", len(audio),
		"latency_ms", latency,
		"voice", preset,
		"model", e.config.ModelID,
	)

	return &AudioResult{
		Audio:     audio,
		MIMEType:  "audio/mpeg",
		Voice:     preset,
		CharCount: len(text),
		LatencyMs: latency,
	}, nil
}

// Health checks API connectivity and API key validity.
func (e *ElevenLabs) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", e.baseURL+"/user", nil)
	if err != nil {
		return WrapError(providerElevenLabs, err)
	}

	req.Header.Set("xi-api-key", e.config.APIKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return WrapError(providerElevenLabs, fmt.Errorf("health check: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return e.parseError(resp)
	}

	return nil
}

// Close releases resources held by the provider.
func (e *ElevenLabs) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// resolveVoice maps a requested voice onto the fixed preset set, falling
// back to the configured default and then the package default.
func (e *ElevenLabs) resolveVoice(name string) (preset, id string) {
	if voiceID, ok := ElevenLabsVoices[name]; ok {
		return name, voiceID
	}
	if voiceID, ok := ElevenLabsVoices[e.config.DefaultVoice]; ok {
		return e.config.DefaultVoice, voiceID
	}
	return DefaultElevenLabsVoice, ElevenLabsVoices[DefaultElevenLabsVoice]
}

// buildPayload constructs the API request payload.
func (e *ElevenLabs) buildPayload(text string) map[string]interface{} {
	return map[string]interface{}{
		"text":     text,
		"model_id": e.config.ModelID,
		"voice_settings": map[string]interface{}{
			"stability":         e.config.VoiceSettings.Stability,
			"similarity_boost":  e.config.VoiceSettings.SimilarityBoost,
			"style":             e.config.VoiceSettings.Style,
			"use_speaker_boost": e.config.VoiceSettings.SpeakerBoost,
		},
	}
}

// doWithRetry performs the request with retry logic.
func (e *ElevenLabs) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= e.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.config.RetryDelay * time.Duration(attempt)):
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
		}

		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = WrapError(providerElevenLabs, err)
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			lastErr = e.parseError(resp)
			e.logger.Warn("retrying request",
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
func (e *ElevenLabs) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	var errResp struct {
		Detail struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"detail"`
	}

	message := string(body)
	if json.Unmarshal(body, &errResp) == nil && errResp.Detail.Message != "" {
		message = errResp.Detail.Message
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Provider:   providerElevenLabs,
	}
}

// Verify ElevenLabs implements Provider at compile time.
var _ Provider = (*ElevenLabs)(nil)
