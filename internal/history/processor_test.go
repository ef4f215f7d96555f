package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/tokens"
)

// pairs builds k alternating (user, assistant) turns.
func pairs(k int) []domain.Message {
	var msgs []domain.Message
	for i := 0; i < k; i++ {
		msgs = append(msgs, msg(domain.RoleUser, fmt.Sprintf("question %d", i)))
		msgs = append(msgs, msg(domain.RoleAssistant, fmt.Sprintf("answer %d", i)))
	}
	return msgs
}

func TestRecencyKeepsLastTurns(t *testing.T) {
	r, err := NewRecency(3)
	if err != nil {
		t.Fatalf("NewRecency failed: %v", err)
	}

	msgs := pairs(10)
	got, err := r.Process(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 messages (3 turns), got %d", len(got))
	}
	// Last 3 pairs in original order
	for i, want := range msgs[len(msgs)-6:] {
		if got[i].Content != want.Content {
			t.Fatalf("message %d: expected %q, got %q", i, want.Content, got[i].Content)
		}
	}
}

func TestRecencyPassesShortHistory(t *testing.T) {
	r, err := NewRecency(20)
	if err != nil {
		t.Fatalf("NewRecency failed: %v", err)
	}

	msgs := pairs(5)
	got, err := r.Process(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(got) != len(msgs) {
		t.Fatalf("expected %d messages, got %d", len(msgs), len(got))
	}
}

func TestRecencyRejectsNonPositiveTurns(t *testing.T) {
	if _, err := NewRecency(0); err == nil {
		t.Fatalf("expected error for zero max turns")
	}
}

func TestTokenLimitCapsHistory(t *testing.T) {
	est := tokens.NewEstimator()
	tl, err := NewTokenLimit(50, est)
	if err != nil {
		t.Fatalf("NewTokenLimit failed: %v", err)
	}

	msgs := pairs(50)
	got, err := tl.Process(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if est.EstimateMessages(got) > 50 {
		t.Fatalf("token limit exceeded: %d", est.EstimateMessages(got))
	}
	if len(got) == 0 {
		t.Fatalf("expected non-empty result")
	}
}

func TestChainAppliesStagesInOrder(t *testing.T) {
	est := tokens.NewEstimator()
	r, err := NewRecency(20)
	if err != nil {
		t.Fatalf("NewRecency failed: %v", err)
	}
	tl, err := NewTokenLimit(500, est)
	if err != nil {
		t.Fatalf("NewTokenLimit failed: %v", err)
	}
	chain := NewChain(r, tl)

	msgs := pairs(50) // 100 messages
	got, err := chain.Process(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(got) > 40 {
		t.Fatalf("recency stage should cap at 40 messages, got %d", len(got))
	}
	if est.EstimateMessages(got) > 500 {
		t.Fatalf("token stage should cap at 500 tokens, got %d", est.EstimateMessages(got))
	}
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain()
	msgs := pairs(2)
	got, err := chain.Process(context.Background(), msgs)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(got) != len(msgs) {
		t.Fatalf("empty chain must pass input through")
	}
}
