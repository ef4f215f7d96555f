// Package provider resolves logical provider names to configured model
// clients and probes backend health.
package provider

import (
	"fmt"
	"time"

	"github.com/chatstack/chatcore/internal/config"
	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
)

// Spec describes one provider type's wire surface. The table below is the
// single dispatch point: no string-keyed duck typing elsewhere.
type Spec struct {
	Type          domain.ProviderType
	DiscoveryPath string
	ChatPath      string
	RequiresKey   bool
	NewClient     func(settings config.ProviderSettings, timeout time.Duration) llm.Client
}

var specs = map[domain.ProviderType]Spec{
	domain.ProviderOpenAI: {
		Type:          domain.ProviderOpenAI,
		DiscoveryPath: "/v1/models",
		ChatPath:      "/v1/chat/completions",
		RequiresKey:   true,
		NewClient: func(s config.ProviderSettings, timeout time.Duration) llm.Client {
			return llm.NewOpenAIClient(s.BaseURL, s.APIKey, timeout)
		},
	},
	domain.ProviderLMStudio: {
		Type:          domain.ProviderLMStudio,
		DiscoveryPath: "/v1/models",
		ChatPath:      "/v1/chat/completions",
		NewClient: func(s config.ProviderSettings, timeout time.Duration) llm.Client {
			return llm.NewOpenAIClient(s.BaseURL, s.APIKey, timeout)
		},
	},
	domain.ProviderOllama: {
		Type:          domain.ProviderOllama,
		DiscoveryPath: "/api/tags",
		ChatPath:      "/v1/chat/completions",
		NewClient: func(s config.ProviderSettings, timeout time.Duration) llm.Client {
			return llm.NewOllamaClient(s.BaseURL, timeout)
		},
	},
	domain.ProviderLlamaCpp: {
		Type:          domain.ProviderLlamaCpp,
		DiscoveryPath: "/v1/models",
		ChatPath:      "/v1/chat/completions",
		NewClient: func(s config.ProviderSettings, timeout time.Duration) llm.Client {
			return llm.NewOpenAIClient(s.BaseURL, s.APIKey, timeout)
		},
	},
}

// SpecFor returns the wire spec for a provider type.
func SpecFor(pt domain.ProviderType) (Spec, bool) {
	s, ok := specs[pt]
	return s, ok
}

// HealthStatus is a snapshot of one backend's reachability. It is created
// fresh on every probe and consumed immediately; never cached long-term.
type HealthStatus struct {
	Provider      domain.ProviderType `json:"provider"`
	BaseURL       string              `json:"base_url"`
	Connected     bool                `json:"connected"`
	ModelDetected bool                `json:"model_detected"`
	ModelID       string              `json:"model_id,omitempty"`
	Error         string              `json:"error,omitempty"`
	ErrorKind     ErrorKind           `json:"error_kind,omitempty"`
	Metadata      map[string]string   `json:"metadata,omitempty"`
}

// ErrorKind classifies a probe failure so callers can distinguish "server
// rejected us" from "server unreachable".
type ErrorKind string

const (
	ErrorKindTransport  ErrorKind = "transport"
	ErrorKindHTTPStatus ErrorKind = "http_status"
	ErrorKindProtocol   ErrorKind = "protocol"
	ErrorKindUnexpected ErrorKind = "unexpected"
)

// ConfigurationError indicates an invalid or unresolvable provider
// selection. It is always fatal to the current request.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string { return e.msg }

func configErrorf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}
