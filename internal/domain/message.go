package domain

import (
	"time"
)

// Message represents a single conversation turn. Messages are immutable
// once stored; the only exception is in-place accumulation of Content
// while an assistant response is streaming.
type Message struct {
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Images    []string         `json:"images,omitempty"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ToolCallRecord pairs a tool invocation with its result. Records are
// created while parsing a provider response and attached to the assistant
// message that triggered them. A record's CallID matches exactly one
// invocation; invocations without a result are dropped from reporting.
type ToolCallRecord struct {
	CallID    string        `json:"call_id"`
	Name      string        `json:"name"`
	Arguments string        `json:"arguments"`
	Content   string        `json:"content,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// Session identifies one conversation. A session owns an ordered,
// append-only sequence of messages; it is created on first message and
// destroyed by explicit deletion or TTL expiry in the backing store.
type Session struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	AgentName string    `json:"agent_name,omitempty"`
	ModelID   string    `json:"model_id,omitempty"`
}
