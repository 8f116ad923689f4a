package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Media service credentials
	APIKey    string
	APISecret string
	WSURL     string

	TokenTTL     time.Duration
	IssueTimeout time.Duration

	// Optional backends
	RedisURL    string
	DatabaseURL string
	SQLitePath  string

	PublicDir string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // Enable auto-blocking after repeated violations
}

// Load reads configuration from environment variables.
// It loads a .env file first if one is present.
// Missing media service credentials are not fatal; see Configured.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		Env:              getEnv("ENV", "development"),
		APIKey:           firstEnv("API_KEY", "LIVEKIT_API_KEY"),
		APISecret:        firstEnv("API_SECRET", "LIVEKIT_API_SECRET"),
		WSURL:            firstEnv("WS_URL", "LIVEKIT_WS_URL"),
		TokenTTL:         getDuration("TOKEN_TTL", 2*time.Hour),
		IssueTimeout:     getDuration("ISSUE_TIMEOUT", 5*time.Second),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		PublicDir:        getEnv("PUBLIC_DIR", "public"),
		AutoBlockEnabled: getEnv("AUTO_BLOCK_ENABLED", "false") == "true",
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Configured reports whether tokens can be issued: the API key pair and
// the endpoint handed to clients are all set.
func (c *Config) Configured() bool {
	return c.APIKey != "" && c.APISecret != "" && c.WSURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty variable among keys.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
