package service

import (
	"context"
	"fmt"

	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
	"github.com/chatstack/chatcore/internal/memory"
	"github.com/chatstack/chatcore/internal/provider"
)

// GetMessages returns a session's messages in the simple role/content view.
func (s *Service) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return s.store.GetMessages(ctx, sessionID)
}

// GetModelMessages returns a session's messages in provider-native shape.
func (s *Service) GetModelMessages(ctx context.Context, sessionID string) ([]llm.ChatMessage, error) {
	msgs, err := s.store.GetMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return memory.ToModelMessages(msgs), nil
}

// ClearSession removes a session's history. Idempotent.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

// ProviderHealth probes one provider by name.
func (s *Service) ProviderHealth(ctx context.Context, name string) (provider.HealthStatus, error) {
	pt := domain.ProviderType(name)
	if _, ok := provider.SpecFor(pt); !ok {
		return provider.HealthStatus{}, fmt.Errorf("unknown provider %q", name)
	}
	return s.checker.Check(ctx, pt), nil
}

// ProviderHealthAll probes every known provider.
func (s *Service) ProviderHealthAll(ctx context.Context) []provider.HealthStatus {
	return s.checker.CheckAll(ctx)
}
