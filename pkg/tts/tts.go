// Package tts provides a unified interface for text-to-speech providers.
//
// The package supports ElevenLabs (REST and websocket streaming) and OpenAI
// backends. All providers implement the Provider interface, enabling
// seamless switching without changing caller code. Wrap any provider with
// NewCachingProvider to reuse recently synthesized audio.
//
// Example usage:
//
//	provider, _ := tts.NewElevenLabs(
//	    tts.WithAPIKey(os.Getenv("ELEVENLABS_API_KEY")),
//	)
//	defer provider.Close()
//
//	result, _ := provider.Synthesize(ctx, "Hello world", "rachel")
//	// result.Audio contains MP3 audio bytes
package tts

import "context"

// MaxTextLen is the maximum text length accepted for synthesis. Longer
// input is truncated before the provider call and before cache keying, so
// the cache key always matches the audio that was actually synthesized.
const MaxTextLen = 4096

// Provider defines the TTS provider interface.
type Provider interface {
	// Synthesize converts text to audio with the named voice, returning
	// the complete audio buffer. Unknown voices fall back to the
	// provider's default.
	Synthesize(ctx context.Context, text, voice string) (*AudioResult, error)

	// Health checks provider connectivity and API key validity.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// AudioResult represents a complete audio synthesis result.
type AudioResult struct {
	// Audio contains the raw audio data.
	Audio []byte

	// MIMEType describes the audio encoding (e.g. "audio/mpeg").
	MIMEType string

	// Voice is the voice the audio was synthesized with, after any
	// fallback substitution.
	Voice string

	// CharCount is the number of characters synthesized.
	CharCount int

	// LatencyMs is the time to first byte in milliseconds.
	LatencyMs int64
}

// Truncate returns text clipped to MaxTextLen.
func Truncate(text string) string {
	if len(text) > MaxTextLen {
		return text[:MaxTextLen]
	}
	return text
}

// VoiceSettings controls voice characteristics for providers that support it.
type VoiceSettings struct {
	// Stability controls voice consistency (0.0-1.0).
	// Lower values = more expressive/variable, higher = more consistent.
	Stability float64

	// SimilarityBoost controls how closely the voice matches the original (0.0-1.0).
	SimilarityBoost float64

	// Style controls style exaggeration (0.0-1.0).
	Style float64

	// SpeakerBoost enhances speaker clarity.
	SpeakerBoost bool
}

// DefaultVoiceSettings returns sensible defaults for voice synthesis.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.75,
		Style:           0.0,
		SpeakerBoost:    true,
	}
}
