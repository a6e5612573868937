// Package config loads voicebridge configuration from YAML files with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration, loaded per environment.
type Config struct {
	Server ServerConfig `yaml:"server"`
	LLM    LLMConfig    `yaml:"llm"`
	TTS    TTSConfig    `yaml:"tts"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	AllowOrigins string `yaml:"allow_origins"`
}

// LLMConfig configures the chat/vision provider.
type LLMConfig struct {
	Provider    string `yaml:"provider"` // openai (any OpenAI-compatible API), gemini
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	VisionModel string `yaml:"vision_model"`
}

// TTSConfig configures the speech-synthesis provider.
type TTSConfig struct {
	Provider string `yaml:"provider"` // elevenlabs, elevenlabs-ws, openai
	APIKey   string `yaml:"api_key"`
	Voice    string `yaml:"voice"`
	ModelID  string `yaml:"model_id"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads config/<APP_ENV>.yaml (APP_ENV defaults to "local").
// A missing config file is not fatal: the service falls back to defaults
// plus environment variables, so a bare container still boots. A missing
// API key is also not fatal here; the dependent endpoints report a
// configuration error instead (the process must not crash at startup).
func Load() (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	cfg := Default()

	path := fmt.Sprintf("config/%s.yaml", env)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	overrideFromEnv(cfg)
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         5000,
			AllowOrigins: "*",
		},
		LLM: LLMConfig{
			Provider:    "openai",
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o-mini",
			VisionModel: "gpt-4o",
		},
		TTS: TTSConfig{
			Provider: "elevenlabs",
		},
		Log: LogConfig{Level: "info"},
	}
}

// overrideFromEnv lets environment variables override sensitive values so
// keys never have to live in the YAML files.
func overrideFromEnv(c *Config) {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("TTS_API_KEY"); v != "" {
		c.TTS.APIKey = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" && c.TTS.APIKey == "" {
		c.TTS.APIKey = v
	}
	if v := os.Getenv("TTS_VOICE"); v != "" {
		c.TTS.Voice = v
	}
	if v := os.Getenv("PORT"); v != "" {
		var port int
		if _, err := fmt.Sscanf(v, "%d", &port); err == nil && port > 0 {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}
