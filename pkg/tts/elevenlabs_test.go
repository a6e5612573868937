package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestElevenLabsSynthesize(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if key := r.Header.Get("xi-api-key"); key != "test-key" {
			t.Errorf("expected xi-api-key test-key, got %s", key)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("fake-mp3"))
	}))
	defer server.Close()

	p, err := NewElevenLabs(
		WithAPIKey("test-key"),
		WithBaseURL(server.URL),
	)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer p.Close()

	result, err := p.Synthesize(context.Background(), "Hello world", "rachel")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}

	if string(result.Audio) != "fake-mp3" {
		t.Errorf("unexpected audio: %q", result.Audio)
	}
	if result.Voice != "rachel" {
		t.Errorf("expected voice rachel, got %s", result.Voice)
	}
	if result.MIMEType != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %s", result.MIMEType)
	}
	if !strings.Contains(gotPath, ElevenLabsVoices["rachel"]) {
		t.Errorf("expected voice ID in path, got %s", gotPath)
	}
	if gotPayload["text"] != "Hello world" {
		t.Errorf("unexpected text: %v", gotPayload["text"])
	}
}

func TestElevenLabsVoiceFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ElevenLabsVoices[DefaultElevenLabsVoice]) {
			t.Errorf("expected default voice ID in path, got %s", r.URL.Path)
		}
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	p, _ := NewElevenLabs(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer p.Close()

	result, err := p.Synthesize(context.Background(), "Hello", "bogus-voice")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if result.Voice != DefaultElevenLabsVoice {
		t.Errorf("expected fallback to %s, got %s", DefaultElevenLabsVoice, result.Voice)
	}
}

func TestElevenLabsTruncates(t *testing.T) {
	var gotText string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		gotText, _ = payload["text"].(string)
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	p, _ := NewElevenLabs(WithAPIKey("test-key"), WithBaseURL(server.URL))
	defer p.Close()

	long := strings.Repeat("x", MaxTextLen+100)
	result, err := p.Synthesize(context.Background(), long, "rachel")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if len(gotText) != MaxTextLen {
		t.Errorf("expected upstream text of %d bytes, got %d", MaxTextLen, len(gotText))
	}
	if result.CharCount != MaxTextLen {
		t.Errorf("expected CharCount %d, got %d", MaxTextLen, result.CharCount)
	}
}

func TestElevenLabsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": {"message": "Invalid API key", "status": "invalid_api_key"}}`))
	}))
	defer server.Close()

	p, _ := NewElevenLabs(WithAPIKey("bad-key"), WithBaseURL(server.URL))
	defer p.Close()

	_, err := p.Synthesize(context.Background(), "Hello", "rachel")
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if !apiErr.IsUnauthorized() {
		t.Errorf("expected 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid API key" {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
}

func TestElevenLabsRequiresKey(t *testing.T) {
	_, err := NewElevenLabs()
	if err != ErrNoAPIKey {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestElevenLabsEmptyText(t *testing.T) {
	p, _ := NewElevenLabs(WithAPIKey("test-key"))
	defer p.Close()

	_, err := p.Synthesize(context.Background(), "", "rachel")
	if err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestResolveOpenAIVoice(t *testing.T) {
	if got := ResolveOpenAIVoice("nova"); got != "nova" {
		t.Errorf("expected nova, got %s", got)
	}
	if got := ResolveOpenAIVoice("bogus"); got != DefaultOpenAIVoice {
		t.Errorf("expected default, got %s", got)
	}
}
