package memory

import (
	"context"
	"sync"
	"time"

	"github.com/chatstack/chatcore/internal/domain"
)

// inMemoryStore implements Store with an in-process map. Intended for
// tests and single-process development; state is lost on restart.
type inMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	messages map[string][]domain.Message
}

// NewInMemoryStore creates an in-memory conversation store.
func NewInMemoryStore() Store {
	return &inMemoryStore{
		sessions: make(map[string]*domain.Session),
		messages: make(map[string][]domain.Message),
	}
}

// AddMessage implements Store.
func (s *inMemoryStore) AddMessage(ctx context.Context, sessionID string, msg domain.Message) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionID]; !exists {
		s.sessions[sessionID] = &domain.Session{
			SessionID: sessionID,
			CreatedAt: time.Now(),
		}
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	s.messages[sessionID] = append(s.messages[sessionID], msg)
	return nil
}

// GetMessages implements Store.
func (s *inMemoryStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.messages[sessionID]
	out := make([]domain.Message, len(stored))
	copy(out, stored)
	return out, nil
}

// GetSession implements Store.
func (s *inMemoryStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[sessionID]
	if !exists {
		return nil, nil
	}
	copied := *sess
	return &copied, nil
}

// Clear implements Store.
func (s *inMemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	delete(s.messages, sessionID)
	return nil
}

// Close implements Store.
func (s *inMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	s.messages = nil
	return nil
}
