package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatstack/chatcore/internal/domain"
)

const (
	sessionKeyPrefix  = "chat:session:"
	messagesKeySuffix = ":messages"
	// Default TTL for session keys (24 hours)
	defaultTTL = 24 * time.Hour
)

// redisStore implements Store on Redis. Messages live in a list keyed by
// session id; RPUSH gives the atomic list-append the Store contract
// requires for same-session concurrency. Both keys carry a TTL refreshed
// on every append and read.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed conversation store.
func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &redisStore{client: client, ttl: ttl}
}

// AddMessage implements Store.
func (s *redisStore) AddMessage(ctx context.Context, sessionID string, msg domain.Message) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	val, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	sessKey := s.sessionKey(sessionID)
	msgKey := s.messagesKey(sessionID)

	// Create the session record on first append; SetNX keeps it atomic.
	sess := domain.Session{SessionID: sessionID, CreatedAt: time.Now()}
	sessVal, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.SetNX(ctx, sessKey, sessVal, s.ttl)
	pipe.RPush(ctx, msgKey, val)
	pipe.Expire(ctx, sessKey, s.ttl)
	pipe.Expire(ctx, msgKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// GetMessages implements Store.
func (s *redisStore) GetMessages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	vals, err := s.client.LRange(ctx, s.messagesKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	msgs := make([]domain.Message, 0, len(vals))
	for _, val := range vals {
		var msg domain.Message
		if err := json.Unmarshal([]byte(val), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		msgs = append(msgs, msg)
	}

	// Refresh TTL on read
	if len(msgs) > 0 {
		_ = s.client.Expire(ctx, s.messagesKey(sessionID), s.ttl).Err()
	}
	return msgs, nil
}

// GetSession implements Store.
func (s *redisStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Clear implements Store. DEL on missing keys is already a no-op.
func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.sessionKey(sessionID), s.messagesKey(sessionID)).Err()
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}

func (s *redisStore) sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (s *redisStore) messagesKey(id string) string {
	return sessionKeyPrefix + id + messagesKeySuffix
}
