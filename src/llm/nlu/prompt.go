package nlu

import (
	"fmt"
	"strings"

	"travel_dialogue_engine/src/dialogue"
	"travel_dialogue_engine/src/model"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

func getSystemTemplate() string {
	return `You are an expert NLU system for a travel booking assistant. Follow the instructions precisely and return structured output.

			-Goal-
			Given a user utterance and the current dialogue situation, detect the user's **intent** and extract every **slot** value explicitly present in the utterance.

			STRICT RULES:
			1. The intent MUST be exactly one of: BOOK_FLIGHT, BOOK_ACCOMMODATION, BOOK_ACTIVITY, COMPARE_CITIES, END_DIALOGUE, OOD
			2. Slot names MUST come from: origin, destination, departure_date, return_date, num_passengers, budget_level, check_in_date, check_out_date, num_guests, activity_category, city1, city2, confirmation, slot_name
			3. Use OOD when the utterance is unrelated to travel planning; use END_DIALOGUE only for goodbyes
			4. Only extract slot values that are EXPLICITLY mentioned in the current message. Do NOT infer values from conversation context
			5. Dates are formatted YYYY-MM-DD when the user gives a full date; otherwise keep the user's words
			6. budget_level is one of: low, medium, high
			7. Follow the dialogue situation instructions: during a confirmation the reply maps to a confirmation slot (value yes or no), after a change request the reply maps to a slot_name slot, and a bare answer to a slot question maps to that slot
			8. While a sub-dialogue is open, keep emitting the active task intent unless the user clearly starts a different task or says goodbye

			-Steps-
			1. Identify the **top intent(s)** for the message, at most 3.
			Format each intent as:
			(intent{TD}<INTENT_NAME>{TD}<confidence>)

			2. Extract every **slot** literally present in the message.
			Format each slot as:
			(slot{TD}<slot_name>{TD}<value>{TD}<confidence>)

			3. Return the output as a list separated by **{RD}**

			4. When complete, return {CD}

			######################
			-Examples-
			######################

			Example 1:
			situation: No task is active yet.
			text: I want to fly from Rome to Paris on 2026-03-15 with my wife
			######################
			Output:
			(intent{TD}BOOK_FLIGHT{TD}0.96)
			{RD}
			(slot{TD}origin{TD}Rome{TD}0.93)
			{RD}
			(slot{TD}destination{TD}Paris{TD}0.94)
			{RD}
			(slot{TD}departure_date{TD}2026-03-15{TD}0.91)
			{RD}
			(slot{TD}num_passengers{TD}2{TD}0.72)
			{CD}

			Example 2:
			situation: Active task is BOOK_FLIGHT. The assistant asked the user to confirm the collected details.
			text: yes, that's right
			######################
			Output:
			(intent{TD}BOOK_FLIGHT{TD}0.90)
			{RD}
			(slot{TD}confirmation{TD}yes{TD}0.97)
			{CD}

			Example 3:
			situation: Active task is BOOK_FLIGHT. The assistant asked which detail the user wants to change.
			text: the departure date is wrong
			######################
			Output:
			(intent{TD}BOOK_FLIGHT{TD}0.88)
			{RD}
			(slot{TD}slot_name{TD}departure_date{TD}0.95)
			{CD}

			Example 4:
			situation: Active task is BOOK_ACCOMMODATION. The assistant just asked for check_in_date.
			text: March 20th
			######################
			Output:
			(intent{TD}BOOK_ACCOMMODATION{TD}0.85)
			{RD}
			(slot{TD}check_in_date{TD}March 20th{TD}0.90)
			{CD}`
}

func getUserTemplate() string {
	return `situation: {dialogue_situation}
			text: {input_text}

			Output:`
}

// createNLUTemplate builds the chat template with delimiters from config.
// The dialogue situation and input text stay as chain variables.
func createNLUTemplate(nluConfig *model.NLUConfig) prompt.ChatTemplate {
	systemText := getSystemTemplate()
	// Use strings.Replacer for multiple replacements - more efficient than multiple ReplaceAll calls
	replacerSystem := strings.NewReplacer(
		"{TD}", nluConfig.TupleDelimiter,
		"{RD}", nluConfig.RecordDelimiter,
		"{CD}", nluConfig.CompletionDelimiter,
	)
	systemText = replacerSystem.Replace(systemText)

	// Create messages for the template - SystemMessage for instructions, UserMessage for data
	messages := []schema.MessagesTemplate{
		schema.SystemMessage(systemText),
		schema.UserMessage(getUserTemplate()),
	}

	// Create the ChatTemplate with proper format type
	template := prompt.FromMessages(schema.FString, messages...)

	return template
}

// buildSituation renders the dialogue position so extraction can be
// state-aware. Four modes: confirmation pending, carryover offer pending,
// change request pending, and plain slot collection.
func buildSituation(state *dialogue.State) string {
	if state == nil {
		return "No task is active yet."
	}

	var sb strings.Builder
	if state.ActiveTask == "" {
		sb.WriteString("No task is active yet.")
	} else {
		fmt.Fprintf(&sb, "Active task is %s.", state.ActiveTask)
	}

	switch state.LastAction.Type {
	case dialogue.ActionAskConfirmation:
		sb.WriteString(" The assistant asked the user to confirm the collected details. Classify the reply into a confirmation slot with value yes or no.")
	case dialogue.ActionOfferSlotCarryover:
		sb.WriteString(" The assistant offered to reuse values from the previous booking. Classify the reply into a confirmation slot with value yes or no.")
	case dialogue.ActionRequestSlotChange:
		sb.WriteString(" The assistant asked which detail the user wants to change. Map the reply to a slot_name slot naming one of the task's slots.")
	case dialogue.ActionRequestMissingSlot:
		fmt.Fprintf(&sb, " The assistant just asked for %s. A bare answer maps to that slot.", state.LastAction.Slot)
	default:
		if missing := state.MissingSlots(); len(missing) > 0 {
			fmt.Fprintf(&sb, " Still missing: %s.", strings.Join(missing, ", "))
		}
	}

	return sb.String()
}
