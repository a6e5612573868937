// voicebridge is the backend for a voice-controlled browser assistant.
// It routes spoken transcripts to LLM-backed tools, fills forms, plans
// browser navigation, and synthesizes speech, pushing events to connected
// extensions over a websocket.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dei-labs/voicebridge/internal/config"
	"github.com/dei-labs/voicebridge/internal/log"
	"github.com/dei-labs/voicebridge/pkg/hub"
	"github.com/dei-labs/voicebridge/pkg/inference"
	"github.com/dei-labs/voicebridge/pkg/speech"
	"github.com/dei-labs/voicebridge/pkg/tts"
	"github.com/dei-labs/voicebridge/pkg/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log.Level)
	logger := log.L().With("component", "main")

	llm := buildLLM(cfg)
	if llm == nil {
		logger.Warn("no LLM API key, language endpoints disabled")
	}
	ttsProvider := buildTTS(cfg)
	if ttsProvider == nil {
		logger.Warn("no TTS API key, speech endpoints disabled")
	} else {
		defer ttsProvider.Close()
	}

	pushHub := hub.New()
	go pushHub.Run()

	server := web.NewServer(web.Deps{
		LLM:          llm,
		TTS:          ttsProvider,
		Hub:          pushHub,
		Speech:       speech.NewController(),
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		server.Shutdown()
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	if err := server.Listen(addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// buildLLM constructs the configured chat/vision provider, or nil when no
// API key is present.
func buildLLM(cfg *config.Config) inference.Provider {
	if cfg.LLM.APIKey == "" {
		return nil
	}

	opts := []inference.Option{
		inference.WithAPIKey(cfg.LLM.APIKey),
		inference.WithModel(cfg.LLM.Model),
		inference.WithVisionModel(cfg.LLM.VisionModel),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, inference.WithBaseURL(cfg.LLM.BaseURL))
	}

	var provider inference.Provider
	var err error
	switch cfg.LLM.Provider {
	case "gemini":
		provider, err = inference.NewGemini(opts...)
	default:
		provider, err = inference.NewClient(opts...)
	}
	if err != nil {
		log.Error("LLM provider init failed", "provider", cfg.LLM.Provider, "error", err)
		return nil
	}
	return provider
}

// buildTTS constructs the configured speech provider wrapped in the audio
// cache, or nil when no API key is present.
func buildTTS(cfg *config.Config) tts.Provider {
	if cfg.TTS.APIKey == "" {
		return nil
	}

	opts := []tts.Option{tts.WithAPIKey(cfg.TTS.APIKey)}
	if cfg.TTS.Voice != "" {
		opts = append(opts, tts.WithDefaultVoice(cfg.TTS.Voice))
	}
	if cfg.TTS.ModelID != "" {
		opts = append(opts, tts.WithModel(cfg.TTS.ModelID))
	}

	var provider tts.Provider
	var err error
	switch cfg.TTS.Provider {
	case "openai":
		provider, err = tts.NewOpenAI(opts...)
	case "elevenlabs-ws":
		provider, err = tts.NewElevenLabsWS(opts...)
	default:
		provider, err = tts.NewElevenLabs(opts...)
	}
	if err != nil {
		log.Error("TTS provider init failed", "provider", cfg.TTS.Provider, "error", err)
		return nil
	}

	return tts.NewCachingProvider(provider, tts.NewCache(0, 0))
}
