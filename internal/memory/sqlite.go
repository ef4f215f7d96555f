package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/chatstack/chatcore/internal/domain"
)

// sqliteStore implements Store using SQLite. Single-statement inserts give
// the atomic append the Store contract requires.
type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed conversation store.
func NewSQLiteStore(dsn string) (Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &sqliteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate creates the schema.
func (s *sqliteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			agent_name TEXT,
			model_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			images TEXT,
			tool_calls TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// AddMessage implements Store.
func (s *sqliteStore) AddMessage(ctx context.Context, sessionID string, msg domain.Message) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	var images, toolCalls []byte
	var err error
	if len(msg.Images) > 0 {
		if images, err = json.Marshal(msg.Images); err != nil {
			return fmt.Errorf("failed to marshal images: %w", err)
		}
	}
	if len(msg.ToolCalls) > 0 {
		if toolCalls, err = json.Marshal(msg.ToolCalls); err != nil {
			return fmt.Errorf("failed to marshal tool calls: %w", err)
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (session_id, created_at) VALUES (?, ?)`,
		sessionID, time.Now()); err != nil {
		return fmt.Errorf("failed to ensure session: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, images, tool_calls, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, string(msg.Role), msg.Content, nullable(images), nullable(toolCalls), msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// GetMessages implements Store.
func (s *sqliteStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, images, tool_calls, created_at FROM messages WHERE session_id = ? ORDER BY id`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		var role string
		var images, toolCalls sql.NullString
		if err := rows.Scan(&role, &msg.Content, &images, &toolCalls, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.Role = domain.Role(role)
		if images.Valid {
			if err := json.Unmarshal([]byte(images.String), &msg.Images); err != nil {
				return nil, fmt.Errorf("failed to unmarshal images: %w", err)
			}
		}
		if toolCalls.Valid {
			if err := json.Unmarshal([]byte(toolCalls.String), &msg.ToolCalls); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tool calls: %w", err)
			}
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// GetSession implements Store.
func (s *sqliteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess domain.Session
	var agentName, modelID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, created_at, agent_name, model_id FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&sess.SessionID, &sess.CreatedAt, &agentName, &modelID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	sess.AgentName = agentName.String
	sess.ModelID = modelID.String
	return &sess, nil
}

// Clear implements Store.
func (s *sqliteStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func nullable(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
