package tts

// ElevenLabsVoices maps friendly preset names to ElevenLabs voice IDs.
// This is the fixed set accepted by the service; anything else falls back
// to the default.
var ElevenLabsVoices = map[string]string{
	"charlotte": "XB0fDUnXU5powFXDhCwa", // British female, warm
	"aria":      "9BWtsMINqrJLrRacOk9x", // American female, expressive
	"sarah":     "EXAVITQu4vr4xnSDxMaL", // American female, soft
	"lily":      "pFZP5JQG7iQjIQuC4Bku", // British female, warm
	"rachel":    "21m00Tcm4TlvDq8ikWAM", // American female, calm
	"domi":      "AZnzlk1XvdvUeBnXmlld", // American female, strong
	"elli":      "MF3mGyEYCl7XYWbV9V6O", // American female, young
	"josh":      "TxGEqnHWrfWFTfGW9XjX", // American male, deep
	"adam":      "pNInz6obpgDQGcFmaJgB", // American male, deep
	"sam":       "yoZ06aMxZJJ28mfd3POQ", // American male, raspy
}

// DefaultElevenLabsVoice is the preset used when a request names an
// unknown voice.
const DefaultElevenLabsVoice = "rachel"

// OpenAIVoices is the fixed set of OpenAI built-in voices.
var OpenAIVoices = map[string]bool{
	VoiceAlloy:   true,
	VoiceEcho:    true,
	VoiceFable:   true,
	VoiceOnyx:    true,
	VoiceNova:    true,
	VoiceShimmer: true,
}

// OpenAI voice names.
const (
	VoiceAlloy   = "alloy"   // Neutral voice
	VoiceEcho    = "echo"    // Male voice
	VoiceFable   = "fable"   // British accent
	VoiceOnyx    = "onyx"    // Deep male voice
	VoiceNova    = "nova"    // Female voice
	VoiceShimmer = "shimmer" // Soft female voice
)

// DefaultOpenAIVoice is used when a request names an unknown voice.
const DefaultOpenAIVoice = VoiceShimmer

// ResolveElevenLabsVoice returns the preset name and voice ID for the
// requested voice, substituting the default preset when the name is not in
// the fixed set.
func ResolveElevenLabsVoice(name string) (preset, id string) {
	if voiceID, ok := ElevenLabsVoices[name]; ok {
		return name, voiceID
	}
	return DefaultElevenLabsVoice, ElevenLabsVoices[DefaultElevenLabsVoice]
}

// ResolveOpenAIVoice returns the requested voice when it is in the fixed
// set, the default otherwise.
func ResolveOpenAIVoice(name string) string {
	if OpenAIVoices[name] {
		return name
	}
	return DefaultOpenAIVoice
}

// IsElevenLabsPreset returns true if the name is a known preset.
func IsElevenLabsPreset(name string) bool {
	_, ok := ElevenLabsVoices[name]
	return ok
}
