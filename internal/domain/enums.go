// Package domain defines the core domain models for the chat core.
package domain

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ProviderType identifies a configured LLM backend.
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderOllama   ProviderType = "ollama"
	ProviderLMStudio ProviderType = "lmstudio"
	ProviderLlamaCpp ProviderType = "llamacpp"

	// ProviderAuto is not a concrete backend: it asks the factory to probe
	// configured providers in priority order and bind the first healthy one.
	ProviderAuto ProviderType = "auto"
)

// KnownProviders lists the concrete provider types in auto-resolution
// priority order: cloud first when credentials are present, then local
// servers.
var KnownProviders = []ProviderType{
	ProviderOpenAI,
	ProviderLMStudio,
	ProviderOllama,
	ProviderLlamaCpp,
}
