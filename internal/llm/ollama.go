package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaClient talks to a local Ollama server. Chat goes through Ollama's
// OpenAI-compatible /v1 surface; model discovery uses the native /api/tags
// endpoint, which is available even on older Ollama builds.
type OllamaClient struct {
	*OpenAIClient
	baseURL    string
	httpClient *http.Client
}

// NewOllamaClient creates a client for a local Ollama server.
func NewOllamaClient(baseURL string, timeout time.Duration) *OllamaClient {
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &OllamaClient{
		OpenAIClient: NewOpenAIClient(baseURL, "", timeout),
		baseURL:      baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ollamaTagsResponse represents the response from /api/tags.
type ollamaTagsResponse struct {
	Models []ollamaModel `json:"models"`
}

// ollamaModel represents one locally pulled model.
type ollamaModel struct {
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
}

// ListModels retrieves the locally pulled models via the native tags API.
func (c *OllamaClient) ListModels(ctx context.Context) ([]Model, error) {
	url := c.baseURL + "/api/tags"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(url, resp.StatusCode, respBody)
	}

	var result ollamaTagsResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &ProtocolError{URL: url, Err: err}
	}

	models := make([]Model, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, Model{
			ID:      m.Name,
			Object:  "model",
			Created: m.ModifiedAt.Unix(),
			OwnedBy: "ollama",
		})
	}
	return models, nil
}
