// Package history trims and summarizes conversation history so it fits a
// model's context window.
package history

import (
	"fmt"

	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/tokens"
)

// Window selects the suffix of a conversation that fits within a token
// budget, reserving headroom for the model's own response.
type Window struct {
	maxTokens     int
	reserveTokens int
	estimator     *tokens.Estimator
}

// NewWindow creates a context window manager. maxTokens must exceed
// reserveTokens; anything else is a configuration error caught here, not
// at fit time.
func NewWindow(maxTokens, reserveTokens int, estimator *tokens.Estimator) (*Window, error) {
	if maxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", maxTokens)
	}
	if reserveTokens < 0 {
		return nil, fmt.Errorf("reserve tokens must not be negative, got %d", reserveTokens)
	}
	if maxTokens <= reserveTokens {
		return nil, fmt.Errorf("max tokens (%d) must exceed reserve tokens (%d)", maxTokens, reserveTokens)
	}
	if estimator == nil {
		estimator = tokens.NewEstimator()
	}
	return &Window{
		maxTokens:     maxTokens,
		reserveTokens: reserveTokens,
		estimator:     estimator,
	}, nil
}

// Budget returns the token budget available to history.
func (w *Window) Budget() int {
	return w.maxTokens - w.reserveTokens
}

// Fit returns the longest suffix of msgs whose estimated token count stays
// within the budget. Messages are never split. If even the single
// most-recent message exceeds the budget, that one message is returned
// anyway: dropping the user's latest turn silently is worse than
// overrunning the budget.
func (w *Window) Fit(msgs []domain.Message) []domain.Message {
	if len(msgs) == 0 {
		return msgs
	}

	budget := w.Budget()
	total := 0
	start := len(msgs)

	for i := len(msgs) - 1; i >= 0; i-- {
		cost := w.estimator.EstimateMessage(msgs[i])
		if total+cost > budget {
			break
		}
		total += cost
		start = i
	}

	if start == len(msgs) {
		// Even the newest message alone is over budget.
		return msgs[len(msgs)-1:]
	}
	return msgs[start:]
}
