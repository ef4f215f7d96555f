// Package llm provides clients for OpenAI-compatible LLM provider APIs.
package llm

import "context"

// Client defines the interface for LLM provider operations.
type Client interface {
	// CreateChatCompletion sends a chat completion request (non-streaming).
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)

	// CreateChatCompletionStream sends a streaming chat completion request.
	// The callback is called for each chunk received, in arrival order.
	CreateChatCompletionStream(ctx context.Context, req *ChatCompletionRequest, callback StreamCallback) (*Usage, error)

	// ListModels retrieves the list of models the provider serves. This is
	// also the discovery probe used by health checks.
	ListModels(ctx context.Context) ([]Model, error)
}

// Ensure implementations satisfy the Client interface.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*OllamaClient)(nil)
	_ Client = (*MockClient)(nil)
)
