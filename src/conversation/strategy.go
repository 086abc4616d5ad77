package conversation

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// defaultNLUTurns is how many recent messages feed the NLU prompt when no
// limit is configured.
const defaultNLUTurns = 5

// ContextStrategy turns a message history into the context block a model
// consumer needs.
type ContextStrategy interface {
	BuildContext(messages []*schema.Message) string
	GetMaxTurns() int
}

// NLUContextStrategy renders the most recent turns for intent and slot
// extraction.
type NLUContextStrategy struct {
	maxTurns int
}

func NewNLUContextStrategy(maxTurns int) *NLUContextStrategy {
	if maxTurns <= 0 {
		maxTurns = defaultNLUTurns
	}
	return &NLUContextStrategy{maxTurns: maxTurns}
}

func (s *NLUContextStrategy) GetMaxTurns() int {
	return s.maxTurns
}

func (s *NLUContextStrategy) BuildContext(messages []*schema.Message) string {
	recentMessages := trimTail(messages, s.maxTurns)

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range recentMessages {
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

// trimTail keeps the last maxTurns messages.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
