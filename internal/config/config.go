// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// Session settings
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	SessionTTL         time.Duration
	SessionMaxMessages int
	ContextWindow      int

	// Catalog settings
	DatabaseURL       string
	CatalogStaleAfter time.Duration
	MatchTopK         int
	ClarifyThreshold  float64

	// OpenAI settings
	OpenAIAPIKey   string
	EmbeddingModel string
	ChatModel      string

	// Directory settings
	DirectoryBaseURL string
	DirectoryAPIKey  string

	// Outbound gateway settings
	OutboundBaseURL string
	OutboundToken   string

	// Media settings
	MediaStorageBaseURL string

	// Pipeline timeouts
	CollaboratorTimeout time.Duration
	TurnTimeout         time.Duration

	// NATS settings (audit stream; optional)
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Admin auth and rate limiting
	JWTSecret         string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),

		// Session
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),
		SessionTTL:         getDurationEnv("SESSION_TTL", 6*time.Hour),
		SessionMaxMessages: getIntEnv("SESSION_MAX_MESSAGES", 40),
		ContextWindow:      getIntEnv("CONTEXT_WINDOW", 12),

		// Catalog
		DatabaseURL:       getEnv("DATABASE_URL", "postgres://localhost:5432/catalog"),
		CatalogStaleAfter: getDurationEnv("CATALOG_STALE_AFTER", 10*time.Minute),
		MatchTopK:         getIntEnv("MATCH_TOP_K", 5),
		ClarifyThreshold:  getFloatEnv("CLARIFY_THRESHOLD", 0.82),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4o-mini"),

		// Directory
		DirectoryBaseURL: getEnv("DIRECTORY_BASE_URL", ""),
		DirectoryAPIKey:  getEnv("DIRECTORY_API_KEY", ""),

		// Outbound gateway
		OutboundBaseURL: getEnv("OUTBOUND_BASE_URL", ""),
		OutboundToken:   getEnv("OUTBOUND_TOKEN", ""),

		// Media
		MediaStorageBaseURL: getEnv("MEDIA_STORAGE_BASE_URL", ""),

		// Timeouts
		CollaboratorTimeout: getDurationEnv("COLLABORATOR_TIMEOUT", 10*time.Second),
		TurnTimeout:         getDurationEnv("TURN_TIMEOUT", 60*time.Second),

		// NATS
		NATSURL:      getEnv("NATS_URL", ""),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Admin
		JWTSecret:         getEnv("JWT_SECRET", "development-secret-change-in-production"),
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
