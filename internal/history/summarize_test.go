package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chatstack/chatcore/internal/llm"
)

func mockFactory(client llm.Client) ClientFactory {
	return func(ctx context.Context) (llm.Client, string, error) {
		return client, "mock-model", nil
	}
}

func TestNewSummarizerValidatesConfig(t *testing.T) {
	factory := mockFactory(llm.NewMockClient())
	if _, err := NewSummarizer(0, 1, factory); err == nil {
		t.Fatalf("expected error for zero threshold")
	}
	if _, err := NewSummarizer(10, 0, factory); err == nil {
		t.Fatalf("expected error for zero keep-recent")
	}
	if _, err := NewSummarizer(10, 10, factory); err == nil {
		t.Fatalf("expected error when keep-recent reaches threshold")
	}
	if _, err := NewSummarizer(10, 4, nil); err == nil {
		t.Fatalf("expected error for nil client factory")
	}
}

func TestSummarizeBelowThresholdPassesThrough(t *testing.T) {
	mock := llm.NewMockClient()
	s, err := NewSummarizer(10, 4, mockFactory(mock))
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	msgs := pairs(5) // 10 messages, equal to threshold
	out := s.Summarize(context.Background(), msgs)
	if out.Summarized {
		t.Fatalf("expected passthrough below threshold")
	}
	if len(out.Messages) != len(msgs) {
		t.Fatalf("expected %d messages, got %d", len(msgs), len(out.Messages))
	}
	if len(mock.Requests) != 0 {
		t.Fatalf("passthrough must not call the model, saw %d requests", len(mock.Requests))
	}
}

func TestSummarizeReplacesOldMessages(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Response = `{"summary":"talked about capitals","key_points":["paris","rome"],"preserved_context":"user prefers short answers"}`

	s, err := NewSummarizer(10, 4, mockFactory(mock))
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	msgs := pairs(8) // 16 messages, over threshold
	out := s.Summarize(context.Background(), msgs)
	if !out.Summarized {
		t.Fatalf("expected summarization, got passthrough: %s", out.Reason)
	}
	if len(out.Messages) != 5 {
		t.Fatalf("expected keep_recent+1 = 5 messages, got %d", len(out.Messages))
	}

	summary := out.Messages[0]
	if !strings.HasPrefix(summary.Content, "[CONVERSATION SUMMARY]") ||
		!strings.HasSuffix(summary.Content, "[END SUMMARY]") {
		t.Fatalf("summary message missing labels: %q", summary.Content)
	}
	if !strings.Contains(summary.Content, "talked about capitals") {
		t.Fatalf("summary body missing: %q", summary.Content)
	}
	if !strings.Contains(summary.Content, "- paris") {
		t.Fatalf("key points missing: %q", summary.Content)
	}

	// Last keep_recent messages preserved verbatim
	for i, want := range msgs[len(msgs)-4:] {
		if out.Messages[i+1].Content != want.Content {
			t.Fatalf("recent message %d altered: %q != %q", i, out.Messages[i+1].Content, want.Content)
		}
	}
}

func TestSummarizeFailurePassesThrough(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = errors.New("connection refused")

	s, err := NewSummarizer(10, 4, mockFactory(mock))
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	msgs := pairs(8)
	out := s.Summarize(context.Background(), msgs)
	if out.Summarized {
		t.Fatalf("expected passthrough on failure")
	}
	if out.Reason == "" {
		t.Fatalf("expected a reason for the passthrough")
	}
	if len(out.Messages) != len(msgs) {
		t.Fatalf("input must be unchanged on failure")
	}
}

func TestSummarizeMalformedStructuredOutputPassesThrough(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Response = "this is not json"

	s, err := NewSummarizer(10, 4, mockFactory(mock))
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	msgs := pairs(8)
	out := s.Summarize(context.Background(), msgs)
	if out.Summarized {
		t.Fatalf("expected passthrough on malformed output")
	}
	if len(out.Messages) != len(msgs) {
		t.Fatalf("input must be unchanged on malformed output")
	}
}

func TestSummarizeClientInitFailurePassesThrough(t *testing.T) {
	failing := func(ctx context.Context) (llm.Client, string, error) {
		return nil, "", errors.New("no backend available")
	}
	s, err := NewSummarizer(10, 4, failing)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	msgs := pairs(8)
	out := s.Summarize(context.Background(), msgs)
	if out.Summarized {
		t.Fatalf("expected passthrough when client init fails")
	}
}

func TestSummarizerClientInitializedOnce(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Response = `{"summary":"s","key_points":[],"preserved_context":""}`
	calls := 0
	factory := func(ctx context.Context) (llm.Client, string, error) {
		calls++
		return mock, "mock-model", nil
	}

	s, err := NewSummarizer(10, 4, factory)
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	msgs := pairs(8)
	s.Summarize(context.Background(), msgs)
	s.Summarize(context.Background(), msgs)
	if calls != 1 {
		t.Fatalf("expected client factory to run once, ran %d times", calls)
	}
}

func TestProcessSyncNeverSummarizes(t *testing.T) {
	mock := llm.NewMockClient()
	s, err := NewSummarizer(10, 4, mockFactory(mock))
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	msgs := pairs(8)
	got := s.ProcessSync(msgs)
	if len(got) != len(msgs) {
		t.Fatalf("sync path must pass input through unchanged")
	}
	if len(mock.Requests) != 0 {
		t.Fatalf("sync path must not perform network I/O")
	}
}
