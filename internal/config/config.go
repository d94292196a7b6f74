// Package config provides configuration management for the study-buddy server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Model providers
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Conversation history backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
	SessionStoreFS     = "fs"
)

// Audit log backends
const (
	AuditStoreGCS      = "gcs"
	AuditStoreSupabase = "supabase"
	AuditStoreFS       = "fs"
	AuditStoreNone     = "none"
)

const (
	DefaultListenAddr     = "0.0.0.0:5000"
	DefaultAuditBucket    = "ai-interactive-dashboard-data"
	DefaultMaxUploadBytes = 32 << 20
)

// Config holds the configuration for the server
type Config struct {
	// Model provider
	ModelProvider string
	ModelName     string // Empty means the provider's default model
	APIKey        string // Key for the selected provider

	ListenAddr     string
	MaxUploadBytes int64

	// Sessions
	SessionSecret    string // Cookie signing key. Empty means a random per-process key
	SessionStore     string
	SessionTTL       time.Duration
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ConversationsDir string

	// Audit logging
	AuditStore     string
	AuditBucket    string
	AuditDir       string
	GCSAccessToken string
	SupabaseURL    string
	SupabaseKey    string

	// Telemetry
	TelemetryEnabled bool
	OTLPEndpoint     string
}

// apiKeyVars maps each provider to the environment variable holding its API key
var apiKeyVars = map[string]string{
	ProviderGemini:    "GOOGLE_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
}

// Load loads configuration from environment variables, applying defaults for anything unset
func Load() (Config, error) {
	config := Config{
		ModelProvider:  ProviderGemini,
		ListenAddr:     DefaultListenAddr,
		MaxUploadBytes: DefaultMaxUploadBytes,
		SessionStore:   SessionStoreMemory,
		SessionTTL:     24 * time.Hour,
		RedisAddr:      "localhost:6379",
		AuditStore:     AuditStoreGCS,
		AuditBucket:    DefaultAuditBucket,
		OTLPEndpoint:   "localhost:4318",
	}

	loadOptionalFromEnv(&config.ModelProvider, "MODEL_PROVIDER")
	loadOptionalFromEnv(&config.ModelName, "MODEL_NAME")
	if keyVar, ok := apiKeyVars[config.ModelProvider]; ok {
		loadOptionalFromEnv(&config.APIKey, keyVar)
	}

	loadOptionalFromEnv(&config.ListenAddr, "LISTEN_ADDR")
	loadOptionalFromEnv(&config.SessionSecret, "SESSION_SECRET")
	loadOptionalFromEnv(&config.SessionStore, "SESSION_STORE")
	loadOptionalFromEnv(&config.RedisAddr, "REDIS_ADDR")
	loadOptionalFromEnv(&config.RedisPassword, "REDIS_PASSWORD")
	loadOptionalFromEnv(&config.ConversationsDir, "CONVERSATIONS_DIR")
	loadOptionalFromEnv(&config.AuditStore, "AUDIT_STORE")
	loadOptionalFromEnv(&config.AuditBucket, "AUDIT_BUCKET")
	loadOptionalFromEnv(&config.AuditDir, "AUDIT_DIR")
	loadOptionalFromEnv(&config.GCSAccessToken, "GCS_ACCESS_TOKEN")
	loadOptionalFromEnv(&config.SupabaseURL, "SUPABASE_URL")
	loadOptionalFromEnv(&config.SupabaseKey, "SUPABASE_KEY")
	loadOptionalFromEnv(&config.OTLPEndpoint, "OTLP_ENDPOINT")

	parsers := []error{
		parseOptionalFromEnv(&config.RedisDB, "REDIS_DB", strconv.Atoi),
		parseOptionalFromEnv(&config.SessionTTL, "SESSION_TTL", time.ParseDuration),
		parseOptionalFromEnv(&config.MaxUploadBytes, "MAX_UPLOAD_BYTES", func(v string) (int64, error) {
			return strconv.ParseInt(v, 10, 64)
		}),
		parseOptionalFromEnv(&config.TelemetryEnabled, "TELEMETRY_ENABLED", strconv.ParseBool),
	}
	for _, err := range parsers {
		if err != nil {
			return Config{}, err
		}
	}

	return config, nil
}

// Validate checks if the required configuration is present
func (c Config) Validate() error {
	keyVar, ok := apiKeyVars[c.ModelProvider]
	if !ok {
		return fmt.Errorf("unsupported MODEL_PROVIDER '%s'", c.ModelProvider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("missing required environment variable: %s", keyVar)
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	case SessionStoreFS:
		if c.ConversationsDir == "" {
			return fmt.Errorf("missing required environment variable: CONVERSATIONS_DIR")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE '%s'", c.SessionStore)
	}

	switch c.AuditStore {
	case AuditStoreNone, AuditStoreGCS:
	case AuditStoreSupabase:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("missing required environment variables: SUPABASE_URL and SUPABASE_KEY")
		}
	case AuditStoreFS:
		if c.AuditDir == "" {
			return fmt.Errorf("missing required environment variable: AUDIT_DIR")
		}
	default:
		return fmt.Errorf("unsupported AUDIT_STORE '%s'", c.AuditStore)
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

func loadOptionalFromEnv(dest *string, key string) {
	// Identity parsing cannot fail
	_ = parseOptionalFromEnv(dest, key, func(v string) (string, error) { return v, nil })
}

func parseOptionalFromEnv[T any](dest *T, key string, parseFn func(string) (T, error)) error {
	str := os.Getenv(key)
	if str == "" {
		return nil // Leave default value
	}
	v, err := parseFn(str)
	if err != nil {
		return fmt.Errorf("failed to parse environment variable '%s' value '%s' as '%T': %w", key, str, *dest, err)
	}
	*dest = v
	return nil
}
