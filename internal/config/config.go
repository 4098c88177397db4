package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// Snapshot store backends. Redis wins when both are set; with neither the
	// engine runs on a non-durable in-memory store (local development only).
	RedisURL    string
	DatabaseURL string

	// Session tokens.
	JWTSecret string

	// The single configured admin identity. This is configuration, not user
	// data; there is no admin account management.
	AdminEmail    string
	AdminPassword string

	// Optional text generation. Empty key degrades to fallback strings.
	GeminiAPIKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:5174")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		RedisURL:       getEnv("REDIS_URL", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev-only-secret"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@evote.local"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "change-me"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseOrigins parses comma-separated origins into a slice
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
