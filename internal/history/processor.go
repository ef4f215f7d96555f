package history

import (
	"context"
	"fmt"

	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/tokens"
)

// Processor transforms conversation history before it is sent to a model.
// Implementations must not assume knowledge of neighboring stages.
type Processor interface {
	Process(ctx context.Context, msgs []domain.Message) ([]domain.Message, error)
}

// Chain applies processors in declared order; each stage receives the
// previous stage's output.
type Chain struct {
	processors []Processor
}

// NewChain composes processors into a pipeline.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Process implements Processor.
func (c *Chain) Process(ctx context.Context, msgs []domain.Message) ([]domain.Message, error) {
	var err error
	for _, p := range c.processors {
		msgs, err = p.Process(ctx, msgs)
		if err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

// Recency keeps only the last maxTurns request/response pairs. A turn
// starts at a user message; older turns are dropped entirely, with no
// summarization.
type Recency struct {
	maxTurns int
}

// NewRecency creates a recency processor keeping the last maxTurns turns.
func NewRecency(maxTurns int) (*Recency, error) {
	if maxTurns <= 0 {
		return nil, fmt.Errorf("max turns must be positive, got %d", maxTurns)
	}
	return &Recency{maxTurns: maxTurns}, nil
}

// Process implements Processor.
func (r *Recency) Process(ctx context.Context, msgs []domain.Message) ([]domain.Message, error) {
	seen := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleUser {
			seen++
			if seen == r.maxTurns {
				return msgs[i:], nil
			}
		}
	}
	return msgs, nil
}

// TokenLimit caps history at a token ceiling. It delegates to a Window
// with no reserve, so it can act as a mid-pipeline filter independent of
// the final model-call budget.
type TokenLimit struct {
	window *Window
}

// NewTokenLimit creates a token-limit processor.
func NewTokenLimit(maxTokens int, estimator *tokens.Estimator) (*TokenLimit, error) {
	window, err := NewWindow(maxTokens, 0, estimator)
	if err != nil {
		return nil, err
	}
	return &TokenLimit{window: window}, nil
}

// Process implements Processor.
func (t *TokenLimit) Process(ctx context.Context, msgs []domain.Message) ([]domain.Message, error) {
	return t.window.Fit(msgs), nil
}
