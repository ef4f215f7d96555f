package config

import (
	"testing"
	"time"

	"github.com/chatstack/chatcore/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.DefaultProvider != "auto" {
		t.Errorf("expected default provider auto, got %q", cfg.DefaultProvider)
	}
	if cfg.MaxTokens != 8192 || cfg.ReserveTokens != 1024 {
		t.Errorf("unexpected token budgets: %d/%d", cfg.MaxTokens, cfg.ReserveTokens)
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("expected memory store driver, got %q", cfg.StoreDriver)
	}
	if _, ok := cfg.Provider(domain.ProviderOllama); !ok {
		t.Errorf("expected ollama settings present")
	}
	if cfg.LLMTimeout != 300*time.Second {
		t.Errorf("unexpected LLM timeout: %v", cfg.LLMTimeout)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("OLLAMA_MODEL", "llama3:latest")
	t.Setenv("SUMMARY_THRESHOLD", "30")

	cfg := Load()
	if cfg.HTTPPort != 9999 {
		t.Errorf("expected port override, got %d", cfg.HTTPPort)
	}
	if cfg.DefaultProvider != "ollama" {
		t.Errorf("expected provider override, got %q", cfg.DefaultProvider)
	}
	settings, _ := cfg.Provider(domain.ProviderOllama)
	if settings.Model != "llama3:latest" {
		t.Errorf("expected model override, got %q", settings.Model)
	}
	if cfg.SummaryThreshold != 30 {
		t.Errorf("expected threshold override, got %d", cfg.SummaryThreshold)
	}
}

func TestValidate(t *testing.T) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}

	bad := Load()
	bad.ReserveTokens = bad.MaxTokens
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error when reserve consumes the whole budget")
	}

	bad = Load()
	bad.SummaryKeepLast = bad.SummaryThreshold
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error when keep-last reaches the threshold")
	}

	bad = Load()
	bad.StoreDriver = "cassandra"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}

	bad = Load()
	bad.DefaultProvider = "bogus"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown default provider")
	}
}
