package conversation

import (
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestBuildContextRendersUserAndAssistantTurns(t *testing.T) {
	strategy := NewNLUContextStrategy(5)
	messages := []*schema.Message{
		schema.UserMessage("I need a flight to Paris"),
		schema.AssistantMessage("Where will you be flying from?", nil),
		schema.UserMessage("Rome"),
	}

	block := strategy.BuildContext(messages)

	expected := "<conversation_context>\n" +
		"UserMessage(I need a flight to Paris)\n" +
		"AssistantMessage(Where will you be flying from?)\n" +
		"UserMessage(Rome)\n" +
		"</conversation_context>"
	if block != expected {
		t.Errorf("Expected %q, got %q", expected, block)
	}
}

func TestBuildContextSkipsSystemMessages(t *testing.T) {
	strategy := NewNLUContextStrategy(5)
	messages := []*schema.Message{
		schema.SystemMessage("you are a travel assistant"),
		schema.UserMessage("hello"),
	}

	block := strategy.BuildContext(messages)
	if strings.Contains(block, "travel assistant") {
		t.Errorf("Expected system messages to be excluded, got %q", block)
	}
	if !strings.Contains(block, "UserMessage(hello)") {
		t.Errorf("Expected the user turn to be kept, got %q", block)
	}
}

func TestBuildContextKeepsOnlyRecentTurns(t *testing.T) {
	strategy := NewNLUContextStrategy(2)
	messages := []*schema.Message{
		schema.UserMessage("first"),
		schema.AssistantMessage("second", nil),
		schema.UserMessage("third"),
	}

	block := strategy.BuildContext(messages)
	if strings.Contains(block, "first") {
		t.Errorf("Expected the oldest turn to be trimmed, got %q", block)
	}
	if !strings.Contains(block, "AssistantMessage(second)") || !strings.Contains(block, "UserMessage(third)") {
		t.Errorf("Expected the last two turns, got %q", block)
	}
}

func TestBuildContextEmptyHistory(t *testing.T) {
	strategy := NewNLUContextStrategy(5)
	block := strategy.BuildContext(nil)
	if block != "<conversation_context>\n</conversation_context>" {
		t.Errorf("Expected an empty context block, got %q", block)
	}
}

func TestNewNLUContextStrategyDefaultsMaxTurns(t *testing.T) {
	if got := NewNLUContextStrategy(0).GetMaxTurns(); got != defaultNLUTurns {
		t.Errorf("Expected default max turns %d, got %d", defaultNLUTurns, got)
	}
	if got := NewNLUContextStrategy(8).GetMaxTurns(); got != 8 {
		t.Errorf("Expected configured max turns 8, got %d", got)
	}
}
