package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is a scriptable implementation of Client for testing. Zero
// value responds with a canned reply and two mock models.
type MockClient struct {
	mu sync.Mutex

	// Response is returned as the assistant content. When empty, a canned
	// reply echoing the last user message is generated.
	Response string

	// Models is returned from ListModels when non-nil.
	Models []Model

	// Err, when set, is returned from every call.
	Err error

	// Requests records every chat completion request received.
	Requests []*ChatCompletionRequest
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// CreateChatCompletion returns a scripted or canned response.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	m.Requests = append(m.Requests, req)

	content := m.response(req)
	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     m.estimateTokens(req),
			CompletionTokens: len(content) / 4,
			TotalTokens:      m.estimateTokens(req) + len(content)/4,
		},
	}, nil
}

// CreateChatCompletionStream simulates a streaming response by delivering
// the scripted content in small chunks.
func (m *MockClient) CreateChatCompletionStream(ctx context.Context, req *ChatCompletionRequest, callback StreamCallback) (*Usage, error) {
	m.mu.Lock()
	if m.Err != nil {
		err := m.Err
		m.mu.Unlock()
		return nil, err
	}
	m.Requests = append(m.Requests, req)
	content := m.response(req)
	m.mu.Unlock()

	id := fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano())
	created := time.Now().Unix()
	chunks := splitIntoChunks(content, 10)

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		finishReason := ""
		if i == len(chunks)-1 {
			finishReason = "stop"
		}

		streamChunk := &StreamChunk{
			ID:      id,
			Object:  "chat.completion.chunk",
			Created: created,
			Model:   req.Model,
			Choices: []Choice{
				{
					Index: 0,
					Delta: &ChatMessage{
						Role:    "assistant",
						Content: chunk,
					},
					FinishReason: finishReason,
				},
			},
		}

		if err := callback(streamChunk); err != nil {
			return nil, err
		}
	}

	return &Usage{
		PromptTokens:     m.estimateTokens(req),
		CompletionTokens: len(content) / 4,
		TotalTokens:      m.estimateTokens(req) + len(content)/4,
	}, nil
}

// ListModels returns the scripted model list, or two mock models.
func (m *MockClient) ListModels(ctx context.Context) ([]Model, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Models != nil {
		return m.Models, nil
	}
	return []Model{
		{ID: "mock-model-a", Object: "model", Created: time.Now().Unix(), OwnedBy: "mock"},
		{ID: "mock-model-b", Object: "model", Created: time.Now().Unix(), OwnedBy: "mock"},
	}, nil
}

// response picks the scripted response or generates a canned one.
func (m *MockClient) response(req *ChatCompletionRequest) string {
	if m.Response != "" {
		return m.Response
	}

	var lastUserMessage string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUserMessage = req.Messages[i].Content
			break
		}
	}
	if lastUserMessage == "" {
		return "[MOCK] This is a mock response."
	}
	return fmt.Sprintf("[MOCK] Received your message: %q.", truncate(lastUserMessage, 100))
}

// estimateTokens provides a rough token count estimate.
func (m *MockClient) estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}

// splitIntoChunks splits a string into chunks of approximately the given size.
func splitIntoChunks(s string, chunkSize int) []string {
	if len(s) == 0 {
		return []string{""}
	}

	var chunks []string
	for i := 0; i < len(s); i += chunkSize {
		end := i + chunkSize
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
