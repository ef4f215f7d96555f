// Package config provides configuration for the chat core.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chatstack/chatcore/internal/domain"
)

// ProviderSettings holds one backend's connection settings.
type ProviderSettings struct {
	BaseURL string
	APIKey  string
	Model   string // default model; empty means auto-detect via discovery
}

// Config holds the chat core configuration. It is constructed once at
// process start and passed into each component's constructor; components
// never read ambient globals.
type Config struct {
	// Server settings
	HTTPPort int

	// Provider selection
	DefaultProvider string // provider name or "auto"
	Providers       map[domain.ProviderType]ProviderSettings

	// Token budgets for the final model call
	MaxTokens     int
	ReserveTokens int

	// History processing
	HistoryMaxTurns  int
	HistoryMaxTokens int
	SummaryThreshold int
	SummaryKeepLast  int

	// Conversation store
	StoreDriver string // memory, redis, sqlite
	RedisAddr   string
	RedisTTL    time.Duration
	SQLitePath  string

	// Timeouts
	LLMTimeout    time.Duration
	HealthTimeout time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("HTTP_PORT", 8080),
		DefaultProvider:  getEnv("LLM_PROVIDER", "auto"),
		MaxTokens:        getEnvInt("MAX_TOKENS", 8192),
		ReserveTokens:    getEnvInt("RESERVE_TOKENS", 1024),
		HistoryMaxTurns:  getEnvInt("HISTORY_MAX_TURNS", 20),
		HistoryMaxTokens: getEnvInt("HISTORY_MAX_TOKENS", 4096),
		SummaryThreshold: getEnvInt("SUMMARY_THRESHOLD", 20),
		SummaryKeepLast:  getEnvInt("SUMMARY_KEEP_LAST", 6),
		StoreDriver:      getEnv("STORE_DRIVER", "memory"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisTTL:         time.Duration(getEnvInt("REDIS_TTL_HOURS", 24)) * time.Hour,
		SQLitePath:       getEnv("SQLITE_PATH", "file:chatcore.db?cache=shared&mode=rwc"),
		LLMTimeout:       time.Duration(getEnvInt("LLM_TIMEOUT_MS", 300000)) * time.Millisecond,
		HealthTimeout:    time.Duration(getEnvInt("HEALTH_TIMEOUT_MS", 10000)) * time.Millisecond,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	cfg.Providers = map[domain.ProviderType]ProviderSettings{
		domain.ProviderOpenAI: {
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		domain.ProviderLMStudio: {
			BaseURL: getEnv("LMSTUDIO_BASE_URL", "http://localhost:1234"),
			Model:   getEnv("LMSTUDIO_MODEL", ""),
		},
		domain.ProviderOllama: {
			BaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   getEnv("OLLAMA_MODEL", ""),
		},
		domain.ProviderLlamaCpp: {
			BaseURL: getEnv("LLAMACPP_BASE_URL", "http://localhost:8081"),
			Model:   getEnv("LLAMACPP_MODEL", ""),
		},
	}

	return cfg
}

// Provider returns the settings for a provider type.
func (c *Config) Provider(pt domain.ProviderType) (ProviderSettings, bool) {
	s, ok := c.Providers[pt]
	return s, ok
}

// Validate checks for configuration errors that should stop startup.
func (c *Config) Validate() error {
	if c.MaxTokens <= c.ReserveTokens {
		return fmt.Errorf("MAX_TOKENS (%d) must exceed RESERVE_TOKENS (%d)", c.MaxTokens, c.ReserveTokens)
	}
	if c.SummaryKeepLast >= c.SummaryThreshold {
		return fmt.Errorf("SUMMARY_KEEP_LAST (%d) must be below SUMMARY_THRESHOLD (%d)", c.SummaryKeepLast, c.SummaryThreshold)
	}
	switch c.StoreDriver {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.DefaultProvider != string(domain.ProviderAuto) {
		if _, ok := c.Providers[domain.ProviderType(c.DefaultProvider)]; !ok {
			return fmt.Errorf("unknown LLM_PROVIDER %q", c.DefaultProvider)
		}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
