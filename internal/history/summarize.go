package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
)

const summarySystemPrompt = `You compress chat transcripts. Summarize the conversation you are given, keeping facts, names, decisions and unresolved questions. Respond with a single JSON object with exactly these fields: "summary" (string), "key_points" (array of strings), "preserved_context" (string). No other text.`

// SummaryResult is the structured output requested from the summarization
// model.
type SummaryResult struct {
	Summary          string   `json:"summary"`
	KeyPoints        []string `json:"key_points"`
	PreservedContext string   `json:"preserved_context"`
}

// Outcome is the tagged result of a summarization attempt. Summarized is
// true when older turns were actually replaced by a summary message;
// otherwise Reason says why the input passed through unchanged.
type Outcome struct {
	Messages   []domain.Message
	Summarized bool
	Reason     string
}

// ClientFactory constructs the summarization client on first use. It
// returns the client and the model id to summarize with.
type ClientFactory func(ctx context.Context) (llm.Client, string, error)

// Summarizer replaces a contiguous prefix of old messages with one
// synthetic summary message once a conversation grows past a threshold.
// Summarization is a best-effort optimization: any failure degrades to
// passing the input through unchanged, never to an error on the chat path.
type Summarizer struct {
	threshold  int
	keepRecent int
	newClient  ClientFactory

	mu          sync.Mutex
	initialized bool
	client      llm.Client
	model       string
}

// NewSummarizer creates a summarization processor. The client is not
// constructed until the first over-threshold call.
func NewSummarizer(threshold, keepRecent int, newClient ClientFactory) (*Summarizer, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("summary threshold must be positive, got %d", threshold)
	}
	if keepRecent <= 0 {
		return nil, fmt.Errorf("keep-recent count must be positive, got %d", keepRecent)
	}
	if keepRecent >= threshold {
		return nil, fmt.Errorf("keep-recent count (%d) must be below the summary threshold (%d)", keepRecent, threshold)
	}
	if newClient == nil {
		return nil, fmt.Errorf("summarization client factory is required")
	}
	return &Summarizer{
		threshold:  threshold,
		keepRecent: keepRecent,
		newClient:  newClient,
	}, nil
}

// Summarize condenses msgs when they exceed the threshold. The returned
// outcome always carries a usable message list; the last keepRecent
// messages are preserved verbatim when summarization succeeds.
func (s *Summarizer) Summarize(ctx context.Context, msgs []domain.Message) Outcome {
	if len(msgs) <= s.threshold {
		return Outcome{Messages: msgs, Reason: "below threshold"}
	}

	client, model, err := s.ensureClient(ctx)
	if err != nil {
		log.Printf("WARN: summarization skipped, client init failed: %v", err)
		return Outcome{Messages: msgs, Reason: fmt.Sprintf("client init failed: %v", err)}
	}

	old := msgs[:len(msgs)-s.keepRecent]
	recent := msgs[len(msgs)-s.keepRecent:]

	result, err := s.summarizeTranscript(ctx, client, model, old)
	if err != nil {
		log.Printf("WARN: summarization failed, keeping full history: %v", err)
		return Outcome{Messages: msgs, Reason: fmt.Sprintf("summarization call failed: %v", err)}
	}

	out := make([]domain.Message, 0, s.keepRecent+1)
	out = append(out, domain.Message{
		Role:      domain.RoleSystem,
		Content:   renderSummaryBlock(result),
		CreatedAt: old[len(old)-1].CreatedAt,
	})
	out = append(out, recent...)
	return Outcome{Messages: out, Summarized: true}
}

// Process implements Processor using the asynchronous summarization path.
func (s *Summarizer) Process(ctx context.Context, msgs []domain.Message) ([]domain.Message, error) {
	return s.Summarize(ctx, msgs).Messages, nil
}

// ProcessSync is the synchronous fallback: it never performs network I/O.
// Over-threshold input is returned unchanged with a logged warning.
func (s *Summarizer) ProcessSync(msgs []domain.Message) []domain.Message {
	if len(msgs) > s.threshold {
		log.Printf("WARN: summarization skipped for %d messages (sync path does no network I/O)", len(msgs))
	}
	return msgs
}

// ensureClient materializes the summarization client on first use and
// caches it for the processor's lifetime.
func (s *Summarizer) ensureClient(ctx context.Context) (llm.Client, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return s.client, s.model, nil
	}

	client, model, err := s.newClient(ctx)
	if err != nil {
		return nil, "", err
	}

	s.client = client
	s.model = model
	s.initialized = true
	return s.client, s.model, nil
}

// summarizeTranscript flattens old messages into a transcript and asks the
// model for a structured summary.
func (s *Summarizer) summarizeTranscript(ctx context.Context, client llm.Client, model string, old []domain.Message) (*SummaryResult, error) {
	resp, err := client.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model: model,
		Messages: []llm.ChatMessage{
			{Role: string(domain.RoleSystem), Content: summarySystemPrompt},
			{Role: string(domain.RoleUser), Content: renderTranscript(old)},
		},
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return nil, fmt.Errorf("summarization response has no choices")
	}

	var result SummaryResult
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, fmt.Errorf("malformed structured summary: %w", err)
	}
	if result.Summary == "" {
		return nil, fmt.Errorf("structured summary is missing the summary field")
	}
	return &result, nil
}

// renderTranscript flattens messages into a plain-text transcript.
func renderTranscript(msgs []domain.Message) string {
	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(strings.ToUpper(string(msg.Role)))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// renderSummaryBlock embeds the structured result as a labeled block.
func renderSummaryBlock(result *SummaryResult) string {
	var b strings.Builder
	b.WriteString("[CONVERSATION SUMMARY]\n")
	b.WriteString(result.Summary)
	if len(result.KeyPoints) > 0 {
		b.WriteString("\n\nKey points:\n")
		for _, p := range result.KeyPoints {
			b.WriteString("- ")
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	if result.PreservedContext != "" {
		b.WriteString("\nPreserved context: ")
		b.WriteString(result.PreservedContext)
		b.WriteString("\n")
	}
	b.WriteString("[END SUMMARY]")
	return b.String()
}
