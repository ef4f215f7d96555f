package memory

import (
	"github.com/chatstack/chatcore/internal/domain"
	"github.com/chatstack/chatcore/internal/llm"
)

// ToModelMessages converts stored messages to the provider-native shape.
// The conversion is lossless for role and content: round-tripping through
// FromModelMessages reproduces them exactly.
func ToModelMessages(msgs []domain.Message) []llm.ChatMessage {
	out := make([]llm.ChatMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = llm.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
			Images:  msg.Images,
		}
		for _, tc := range msg.ToolCalls {
			out[i].ToolCalls = append(out[i].ToolCalls, llm.ToolCall{
				ID:   tc.CallID,
				Type: "function",
				Function: llm.ToolCallFunction{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
	}
	return out
}

// FromModelMessages converts provider-native messages back to the stored
// shape.
func FromModelMessages(msgs []llm.ChatMessage) []domain.Message {
	out := make([]domain.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = domain.Message{
			Role:    domain.Role(msg.Role),
			Content: msg.Content,
			Images:  msg.Images,
		}
		for _, tc := range msg.ToolCalls {
			out[i].ToolCalls = append(out[i].ToolCalls, domain.ToolCallRecord{
				CallID:    tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			})
		}
	}
	return out
}
