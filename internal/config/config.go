package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Config holds environment-provided settings for both services. Values are
// read once at startup; nothing here changes at runtime.
type Config struct {
	// Text service
	GeminiAPIKey string
	TextPort     string

	// Voice gateway
	UltravoxAPIKey string
	VoicePort      string
	BackendURL     string

	LogLevel zapcore.Level
}

// Load reads configuration from the environment, with an optional .env
// file for local development.
func Load() (*Config, error) {
	// Missing .env is fine outside local development.
	_ = godotenv.Load()

	level, err := zapcore.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		TextPort:       getEnv("TEXT_PORT", "8002"),
		UltravoxAPIKey: getEnv("ULTRAVOX_API_KEY", ""),
		VoicePort:      getEnv("VOICE_PORT", "8003"),
		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8002"),
		LogLevel:       level,
	}

	for name, port := range map[string]string{"TEXT_PORT": cfg.TextPort, "VOICE_PORT": cfg.VoicePort} {
		if _, err := strconv.Atoi(port); err != nil {
			return nil, fmt.Errorf("%s must be numeric, got %q", name, port)
		}
	}

	return cfg, nil
}

// UltravoxEnabled reports whether call creation against the voice provider
// is configured.
func (c *Config) UltravoxEnabled() bool {
	return c.UltravoxAPIKey != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
