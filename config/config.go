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
	Search    SearchConfig
	Render    RenderConfig
	Fetch     FetchConfig
	Discovery DiscoveryConfig
	Sink      SinkConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// SearchConfig controls the web search provider.
type SearchConfig struct {
	// Endpoint is the search API URL.
	Endpoint string // default: "https://google.serper.dev/search"

	// APIKey authenticates against the provider. Required.
	APIKey string

	// Timeout is the deadline for one search call.
	Timeout time.Duration // default: 15s
}

// RenderConfig controls the external page rendering service used as the
// fallback for JavaScript-shell pages.
type RenderConfig struct {
	// Endpoint is the render API URL. Empty disables the fallback tier.
	Endpoint string

	// APIKey authenticates against the render service.
	APIKey string

	// Timeout is the deadline for one render call.
	Timeout time.Duration // default: 60s
}

// FetchConfig controls direct page fetching.
type FetchConfig struct {
	// Timeout is the per-page fetch deadline.
	Timeout time.Duration // default: 15s

	// MinTextLen is the visible-text threshold below which a page counts
	// as a JavaScript shell.
	MinTextLen int // default: 200
}

// DiscoveryConfig controls the discovery pipeline.
type DiscoveryConfig struct {
	// MaxConcurrent bounds parallel page fetches per run.
	MaxConcurrent int // default: 5

	// PerHostRPS is the sustained request rate against one host.
	PerHostRPS float64 // default: 1

	// PerHostBurst is the burst size against one host.
	PerHostBurst int // default: 2

	// SearchMultiplier scales max_results into requested search hits.
	SearchMultiplier int // default: 2

	// MaxProfilesPerListing caps profile links followed per listing page.
	MaxProfilesPerListing int // default: 10

	// SimhashThreshold is the near-duplicate Hamming distance cutoff.
	SimhashThreshold int // default: 3

	// CacheMaxAge is how stale a cached page fetch may be.
	CacheMaxAge time.Duration // default: 15m

	// RunTimeout bounds one background discovery run end to end.
	// Expiry mid-run completes the job with partial results.
	RunTimeout time.Duration // default: 5m
}

// SinkConfig controls prospect persistence delivery.
type SinkConfig struct {
	// Endpoint receives finished prospect batches. Empty disables delivery.
	Endpoint string

	// Secret signs delivery payloads with HMAC-SHA256.
	Secret string

	// Timeout is the deadline for one delivery.
	Timeout time.Duration // default: 30s
}

// CacheConfig controls the page fetch cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached fetch results.
	MaxEntries int // default: 1000
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys (for MVP; replace with DB later).
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
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
			Host: envOr("PROSPECTOR_HOST", "0.0.0.0"),
			Port: envIntOr("PROSPECTOR_PORT", 8080),
			Mode: envOr("PROSPECTOR_MODE", "release"),
		},
		Search: SearchConfig{
			Endpoint: envOr("PROSPECTOR_SEARCH_ENDPOINT", "https://google.serper.dev/search"),
			APIKey:   os.Getenv("PROSPECTOR_SEARCH_API_KEY"),
			Timeout:  envDurationOr("PROSPECTOR_SEARCH_TIMEOUT", 15*time.Second),
		},
		Render: RenderConfig{
			Endpoint: os.Getenv("PROSPECTOR_RENDER_ENDPOINT"),
			APIKey:   os.Getenv("PROSPECTOR_RENDER_API_KEY"),
			Timeout:  envDurationOr("PROSPECTOR_RENDER_TIMEOUT", 60*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:    envDurationOr("PROSPECTOR_FETCH_TIMEOUT", 15*time.Second),
			MinTextLen: envIntOr("PROSPECTOR_MIN_TEXT_LEN", 200),
		},
		Discovery: DiscoveryConfig{
			MaxConcurrent:         envIntOr("PROSPECTOR_MAX_CONCURRENT", 5),
			PerHostRPS:            envFloatOr("PROSPECTOR_PER_HOST_RPS", 1.0),
			PerHostBurst:          envIntOr("PROSPECTOR_PER_HOST_BURST", 2),
			SearchMultiplier:      envIntOr("PROSPECTOR_SEARCH_MULTIPLIER", 2),
			MaxProfilesPerListing: envIntOr("PROSPECTOR_MAX_PROFILES", 10),
			SimhashThreshold:      envIntOr("PROSPECTOR_SIMHASH_THRESHOLD", 3),
			CacheMaxAge:           envDurationOr("PROSPECTOR_CACHE_MAX_AGE", 15*time.Minute),
			RunTimeout:            envDurationOr("PROSPECTOR_RUN_TIMEOUT", 5*time.Minute),
		},
		Sink: SinkConfig{
			Endpoint: os.Getenv("PROSPECTOR_SINK_ENDPOINT"),
			Secret:   os.Getenv("PROSPECTOR_SINK_SECRET"),
			Timeout:  envDurationOr("PROSPECTOR_SINK_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("PROSPECTOR_AUTH_ENABLED", true),
			APIKeys: envSliceOr("PROSPECTOR_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PROSPECTOR_RATE_RPS", 5.0),
			Burst:             envIntOr("PROSPECTOR_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("PROSPECTOR_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("PROSPECTOR_LOG_LEVEL", "info"),
			Format: envOr("PROSPECTOR_LOG_FORMAT", "json"),
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
