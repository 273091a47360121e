package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
	MinHash   MinHashConfig
	Batch     BatchConfig
	Webhook   WebhookConfig
}

// MinHashConfig holds the signature parameters used when a request omits them.
type MinHashConfig struct {
	// HashBit is the number of low-order bits kept per hash function.
	HashBit int // default: 1

	// Seed is the base seed of the hash family.
	Seed uint32 // default: 0

	// NumFuncs is the number of hash functions.
	NumFuncs int // default: 128

	// MaxNumFuncs caps NumFuncs accepted from clients.
	MaxNumFuncs int // default: 4096

	// MaxHashBit caps HashBit accepted from clients.
	MaxHashBit int // default: 64

	// MaxTextBytes caps the size of a single input text.
	MaxTextBytes int // default: 1 MiB

	// Tokenizer is the default tokenizer name.
	Tokenizer string // default: "whitespace"
}

// BatchConfig controls asynchronous batch signing.
type BatchConfig struct {
	// MaxDocuments is the largest accepted batch.
	MaxDocuments int // default: 1000

	// Workers is the number of concurrent signing workers per batch.
	Workers int // default: 8

	// JobTTL is how long finished jobs stay queryable.
	JobTTL time.Duration // default: 1h
}

// WebhookConfig controls batch completion notifications.
type WebhookConfig struct {
	// Secret signs webhook bodies with HMAC-SHA256 when non-empty.
	Secret string
}

// CacheConfig controls the signature response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached signatures.
	MaxEntries int // default: 1000

	// TTL is how long a cached signature stays valid.
	TTL time.Duration // default: 1h
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 50

	// Burst is the maximum burst size per API key.
	Burst int // default: 100
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MINHASH_HOST", "0.0.0.0"),
			Port: envIntOr("MINHASH_PORT", 8080),
			Mode: envOr("MINHASH_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("MINHASH_AUTH_ENABLED", true),
			APIKeys: envSliceOr("MINHASH_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MINHASH_RATE_RPS", 50.0),
			Burst:             envIntOr("MINHASH_RATE_BURST", 100),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("MINHASH_CACHE_MAX_ENTRIES", 1000),
			TTL:        envDurationOr("MINHASH_CACHE_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  envOr("MINHASH_LOG_LEVEL", "info"),
			Format: envOr("MINHASH_LOG_FORMAT", "json"),
		},
		MinHash: MinHashConfig{
			HashBit:      envIntOr("MINHASH_HASH_BIT", 1),
			Seed:         envUint32Or("MINHASH_SEED", 0),
			NumFuncs:     envIntOr("MINHASH_NUM_FUNCS", 128),
			MaxNumFuncs:  envIntOr("MINHASH_MAX_NUM_FUNCS", 4096),
			MaxHashBit:   envIntOr("MINHASH_MAX_HASH_BIT", 64),
			MaxTextBytes: envIntOr("MINHASH_MAX_TEXT_BYTES", 1<<20),
			Tokenizer:    envOr("MINHASH_TOKENIZER", "whitespace"),
		},
		Batch: BatchConfig{
			MaxDocuments: envIntOr("MINHASH_BATCH_MAX_DOCS", 1000),
			Workers:      envIntOr("MINHASH_BATCH_WORKERS", 8),
			JobTTL:       envDurationOr("MINHASH_BATCH_JOB_TTL", time.Hour),
		},
		Webhook: WebhookConfig{
			Secret: os.Getenv("MINHASH_WEBHOOK_SECRET"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envUint32Or(key string, fallback uint32) uint32 {
	if v := os.Getenv(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(u)
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
