// Package config loads runtime configuration from environment variables.
//
// A .env file in the working directory is loaded first if present (handy in
// development), then real environment variables take over. Nothing here
// validates business rules — main decides what is fatal and what merely
// disables a feature.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port   string // HTTP listen port
	DBPath string // SQLite database file

	// SecretKey signs the session-token cookie. Must be long and random in
	// production: SECRET_KEY=$(openssl rand -hex 32)
	SecretKey string

	// Completion model (OpenAI-compatible chat API).
	OpenAIKey      string
	OpenAIEndpoint string
	OpenAIModel    string

	// Transcription model. Defaults point at a local faster-whisper server
	// exposing the OpenAI /audio/transcriptions API.
	WhisperEndpoint string
	WhisperKey      string
	WhisperModel    string

	// Google OAuth (optional — routes are only registered when configured).
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// Load reads configuration from the environment, providing sensible defaults.
func Load() Config {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()

	return Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "data/flashcards.db"),

		SecretKey: os.Getenv("SECRET_KEY"),

		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIEndpoint: getEnv("OPENAI_API_ENDPOINT", "https://api.openai.com/v1"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		WhisperEndpoint: getEnv("WHISPER_API_ENDPOINT", "http://localhost:8000/v1"),
		WhisperKey:      getEnv("WHISPER_API_KEY", "local"),
		WhisperModel:    getEnv("WHISPER_MODEL", "base"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
