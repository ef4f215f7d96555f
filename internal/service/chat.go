package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
	"github.com/chatstack/chatcore/internal/memory"
	"github.com/chatstack/chatcore/internal/provider"
)

// ChatRequest is one inbound chat turn.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Provider  string `json:"provider,omitempty"` // provider name or "auto"; empty uses the configured default
	Model     string `json:"model,omitempty"`
}

// ChatResponse is the committed assistant turn plus resolution metadata.
type ChatResponse struct {
	SessionID string              `json:"session_id"`
	Message   domain.Message      `json:"message"`
	Provider  domain.ProviderType `json:"provider"`
	Model     string              `json:"model"`
	Usage     *llm.Usage          `json:"usage,omitempty"`
}

// Chat handles one non-streaming chat turn: append the user message, trim
// history to budget, resolve a provider, call it, commit the response.
func (s *Service) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	sessionID, handle, modelMsgs, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := handle.Client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:    handle.Model,
		Messages: modelMsgs,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return nil, &llm.ProtocolError{URL: handle.BaseURL, Err: fmt.Errorf("response has no choices")}
	}

	assistant := domain.Message{
		Role:      domain.RoleAssistant,
		Content:   resp.Choices[0].Message.Content,
		ToolCalls: parseToolCalls(resp.Choices[0].Message.ToolCalls),
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMessage(ctx, sessionID, assistant); err != nil {
		return nil, fmt.Errorf("failed to commit assistant message: %w", err)
	}

	return &ChatResponse{
		SessionID: sessionID,
		Message:   assistant,
		Provider:  handle.Provider,
		Model:     handle.Model,
		Usage:     resp.Usage,
	}, nil
}

// ChatStream handles one streaming chat turn. onDelta receives each text
// chunk in arrival order. If the stream is cancelled or fails after some
// output arrived, the partial content is committed as a truncated message
// on a best-effort basis so conversational context is not silently lost.
func (s *Service) ChatStream(ctx context.Context, req *ChatRequest, onDelta func(delta string) error) (*ChatResponse, error) {
	sessionID, handle, modelMsgs, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	var content string
	usage, err := handle.Client.CreateChatCompletionStream(ctx, &llm.ChatCompletionRequest{
		Model:    handle.Model,
		Messages: modelMsgs,
	}, func(chunk *llm.StreamChunk) error {
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta == nil {
			return nil
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			return nil
		}
		content += delta
		return onDelta(delta)
	})
	if err != nil {
		if content != "" {
			s.commitPartial(ctx, sessionID, content)
		}
		return nil, fmt.Errorf("streaming chat completion failed: %w", err)
	}

	assistant := domain.Message{
		Role:      domain.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMessage(ctx, sessionID, assistant); err != nil {
		return nil, fmt.Errorf("failed to commit assistant message: %w", err)
	}

	return &ChatResponse{
		SessionID: sessionID,
		Message:   assistant,
		Provider:  handle.Provider,
		Model:     handle.Model,
		Usage:     usage,
	}, nil
}

// prepare runs the shared front half of a chat turn: session id, user
// message commit, history processing and provider resolution.
func (s *Service) prepare(ctx context.Context, req *ChatRequest) (string, *provider.Handle, []llm.ChatMessage, error) {
	if req.Content == "" {
		return "", nil, nil, fmt.Errorf("content must not be empty")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	user := domain.Message{
		Role:      domain.RoleUser,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMessage(ctx, sessionID, user); err != nil {
		return "", nil, nil, fmt.Errorf("failed to commit user message: %w", err)
	}

	msgs, err := s.store.GetMessages(ctx, sessionID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	msgs, err = s.chain.Process(ctx, msgs)
	if err != nil {
		return "", nil, nil, fmt.Errorf("history processing failed: %w", err)
	}
	msgs = s.window.Fit(msgs)

	handle, err := s.factory.ResolveRequest(ctx, req.Provider, req.Model)
	if err != nil {
		return "", nil, nil, err
	}

	return sessionID, handle, memory.ToModelMessages(msgs), nil
}

// commitPartial stores truncated assistant output after a failed or
// cancelled stream. Best effort only: a failure here is logged, never
// escalated past the already-failing request.
func (s *Service) commitPartial(ctx context.Context, sessionID, content string) {
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	msg := domain.Message{
		Role:      domain.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddMessage(commitCtx, sessionID, msg); err != nil {
		log.Printf("WARN: failed to commit partial assistant output for session %s: %v", sessionID, err)
	}
}

// parseToolCalls converts provider tool invocations into records.
// Invocations without a call id cannot be matched to a result and are
// dropped from reporting.
func parseToolCalls(calls []llm.ToolCall) []domain.ToolCallRecord {
	var records []domain.ToolCallRecord
	for _, tc := range calls {
		if tc.ID == "" {
			continue
		}
		records = append(records, domain.ToolCallRecord{
			CallID:    tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return records
}
