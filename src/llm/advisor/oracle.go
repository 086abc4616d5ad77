// Package advisor implements the model-backed action oracle consulted by
// the advisory dialogue strategy.
package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"travel_dialogue_engine/src/dialogue"
	"travel_dialogue_engine/src/logger"
)

// ----------------------------------------------------
// Prompt templates
// ----------------------------------------------------

func getSystemTemplate() string {
	return `You review the next step of a travel booking assistant. Given the conversation state and the analysis of the user's latest message, answer with the single action the assistant should take.

Valid actions:
- GOODBYE: the user is done with the conversation
- ASK_CLARIFICATION: the request is unclear or outside flights, accommodation, activities and city comparison
- REQUEST_MISSING_SLOT(<slot>): ask for one still-missing detail, e.g. REQUEST_MISSING_SLOT(destination)
- ASK_CONFIRMATION: all details are collected, recap them and ask for a go-ahead
- REQUEST_SLOT_CHANGE: the user rejected the recap, ask which detail to change
- OFFER_SLOT_CARRYOVER: offer to reuse details from the previous booking
- COMPLETE_FLIGHT_BOOKING: finalize a confirmed flight booking
- COMPLETE_ACCOMMODATION_BOOKING: finalize a confirmed accommodation booking
- COMPLETE_ACTIVITY_BOOKING: finalize a confirmed activity booking
- COMPARE_CITIES_RESULT: both cities and the activity category are known, present the comparison

Rules:
1. Answer with exactly one action token and nothing else.
2. Never invent slot names: use the ones listed as missing in the state.
3. Only finalize a booking when the state says it is confirmed.`
}

func getUserTemplate() string {
	return `state:
{state_summary}

intent: {intent}
slots: {slots}
message: {input_text}

Action:`
}

func createAdvisorTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(getSystemTemplate()),
		schema.UserMessage(getUserTemplate()),
	)
}

// ----------------------------------------------------
// Oracle
// ----------------------------------------------------

// Oracle asks a chat model for the next dialogue action. It satisfies
// dialogue.Oracle; admissibility checks stay with the strategy.
type Oracle struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewOracle compiles the advisor chain for the given chat model.
func NewOracle(ctx context.Context, chatModel einomodel.BaseChatModel) (*Oracle, error) {
	chain, err := compose.NewChain[map[string]any, *schema.Message]().
		AppendChatTemplate(createAdvisorTemplate()).
		AppendChatModel(chatModel).
		Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating Eino chain: %v", err)
	}
	return &Oracle{chain: chain}, nil
}

// SuggestAction renders the state for the model and returns its raw
// action token.
func (o *Oracle) SuggestAction(ctx context.Context, state *dialogue.State, turn dialogue.TurnInput) (string, error) {
	variables := map[string]any{
		"state_summary": formatStateSummary(state),
		"intent":        turn.Intent,
		"slots":         formatSlots(turn.Slots),
		"input_text":    turn.Utterance,
	}

	message, err := o.chain.Invoke(ctx, variables)
	if err != nil {
		return "", fmt.Errorf("error invoking advisor chain: %v", err)
	}

	suggestion := firstLine(message.Content)

	logger.Debug().
		Str("suggestion", suggestion).
		Msg("Advisor oracle replied")

	return suggestion, nil
}

// formatStateSummary renders the state summary as stable key: value lines.
func formatStateSummary(state *dialogue.State) string {
	if state == nil {
		state = dialogue.NewState()
	}
	summary := state.Summary()

	var sb strings.Builder
	for i, key := range []string{
		"active_task",
		"last_action",
		"filled_slots",
		"missing_slots",
		"confirmed",
		"pending_carryover",
		"awaiting_carryover",
		"completed_bookings",
	} {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(key)
		sb.WriteString(": ")
		switch value := summary[key].(type) {
		case map[string]string:
			sb.WriteString(formatSlots(value))
		default:
			sb.WriteString(fmt.Sprintf("%v", value))
		}
	}
	return sb.String()
}

// formatSlots renders a slot map as "name=value" pairs in name order.
func formatSlots(slots map[string]string) string {
	if len(slots) == 0 {
		return "none"
	}

	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+slots[name])
	}
	return strings.Join(pairs, ", ")
}

// firstLine trims the reply down to its first non-empty line.
func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"'")
		if line != "" {
			return line
		}
	}
	return ""
}
