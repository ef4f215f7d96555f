// Package memory stores per-session conversation history behind pluggable
// backing drivers.
package memory

import (
	"context"
	"errors"

	"github.com/chatstack/chatcore/internal/domain"
)

// Common errors for conversation store operations.
var (
	ErrInvalidConfig  = errors.New("invalid store configuration")
	ErrUnknownDriver  = errors.New("unknown store driver")
	ErrEmptySessionID = errors.New("session id must not be empty")
)

// Store is an append-only per-session message log. Appends for different
// session ids are always safe to run concurrently. Concurrent appends to
// the same session id are safe only when the backing driver provides
// atomic list-append (the Redis and SQLite drivers do; the in-memory
// driver serializes with a mutex).
type Store interface {
	// AddMessage appends a message to the session's log, creating the
	// session on first append.
	AddMessage(ctx context.Context, sessionID string, msg domain.Message) error

	// GetMessages returns the session's messages in append order. A
	// nonexistent session yields an empty list, not an error.
	GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error)

	// GetSession returns session metadata, or nil if the session does not
	// exist.
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// Clear removes the session and its messages. Clearing an empty or
	// nonexistent session is a no-op, not an error.
	Clear(ctx context.Context, sessionID string) error

	// Close releases driver resources.
	Close() error
}
