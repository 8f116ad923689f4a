package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "API_KEY", "API_SECRET", "WS_URL",
		"LIVEKIT_API_KEY", "LIVEKIT_API_SECRET", "LIVEKIT_WS_URL",
		"TOKEN_TTL", "ISSUE_TIMEOUT", "REDIS_URL", "DATABASE_URL", "SQLITE_PATH",
		"PUBLIC_DIR", "RATE_LIMIT_WHITELIST", "AUTO_BLOCK_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.IssueTimeout)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.False(t, cfg.Configured())
	assert.Empty(t, cfg.RateLimitWhitelist)
}

func TestLoadCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "key")
	t.Setenv("API_SECRET", "secret")
	t.Setenv("WS_URL", "wss://example.livekit.cloud")

	cfg := Load()
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "secret", cfg.APISecret)
	assert.True(t, cfg.Configured())
}

func TestLoadLegacyCredentialNames(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIVEKIT_API_KEY", "legacy-key")
	t.Setenv("LIVEKIT_API_SECRET", "legacy-secret")
	t.Setenv("LIVEKIT_WS_URL", "wss://legacy")
	t.Setenv("API_KEY", "key")

	cfg := Load()
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "legacy-secret", cfg.APISecret)
	assert.Equal(t, "wss://legacy", cfg.WSURL)
}

func TestConfiguredRequiresEndpoint(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "key")
	t.Setenv("API_SECRET", "secret")

	assert.False(t, Load().Configured())
}

func TestLoadDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("ISSUE_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.IssueTimeout)
}

func TestLoadWhitelist(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_WHITELIST", " 10.0.0.1, 192.168.0.0/16 ,,")

	cfg := Load()
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.RateLimitWhitelist)
}
