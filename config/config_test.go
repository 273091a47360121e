package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1, cfg.MinHash.HashBit)
	assert.Equal(t, uint32(0), cfg.MinHash.Seed)
	assert.Equal(t, 128, cfg.MinHash.NumFuncs)
	assert.Equal(t, "whitespace", cfg.MinHash.Tokenizer)
	assert.True(t, cfg.Auth.Enabled)
	assert.Empty(t, cfg.Auth.APIKeys)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MINHASH_PORT", "9090")
	t.Setenv("MINHASH_HASH_BIT", "2")
	t.Setenv("MINHASH_SEED", "100")
	t.Setenv("MINHASH_NUM_FUNCS", "256")
	t.Setenv("MINHASH_API_KEYS", " k1, ,k2 ")
	t.Setenv("MINHASH_AUTH_ENABLED", "false")
	t.Setenv("MINHASH_CACHE_TTL", "90s")
	t.Setenv("MINHASH_RATE_RPS", "2.5")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.MinHash.HashBit)
	assert.Equal(t, uint32(100), cfg.MinHash.Seed)
	assert.Equal(t, 256, cfg.MinHash.NumFuncs)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("MINHASH_PORT", "eighty")
	t.Setenv("MINHASH_SEED", "-1")
	t.Setenv("MINHASH_AUTH_ENABLED", "maybe")
	t.Setenv("MINHASH_CACHE_TTL", "soon")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, uint32(0), cfg.MinHash.Seed)
	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}
