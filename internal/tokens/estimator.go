// Package tokens estimates token costs for budgeting conversation history.
package tokens

import "github.com/chatstack/chatcore/internal/domain"

// Per-message framing overhead: roles and message boundaries cost a few
// tokens on every chat-format request.
const messageOverhead = 4

// Estimator produces deterministic, monotonic token estimates. The
// heuristic is accurate to roughly ±20% against common BPE tokenizers,
// erring on the high side so downstream budgeting stays safe.
type Estimator struct{}

// NewEstimator creates a token estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// EstimateText estimates the token count of a text string using a
// Unicode-aware heuristic: ASCII characters weigh ~4 per token, non-ASCII
// (CJK, Cyrillic, Arabic, emoji) ~1 per token.
func (e *Estimator) EstimateText(text string) int {
	weight := 0
	for _, r := range text {
		switch {
		case r <= 127: // ASCII
			weight += 1 // ~4 ASCII chars = 1 token
		default:
			weight += 4 // ~1 non-ASCII char = 1 token (conservative)
		}
	}
	return (weight + 3) / 4
}

// EstimateMessage estimates one message's cost including framing overhead.
func (e *Estimator) EstimateMessage(msg domain.Message) int {
	return e.EstimateText(msg.Content) + messageOverhead
}

// EstimateMessages sums per-message estimates over a message list.
func (e *Estimator) EstimateMessages(msgs []domain.Message) int {
	total := 0
	for _, msg := range msgs {
		total += e.EstimateMessage(msg)
	}
	return total
}
