package nlu

import (
	"strings"
	"unicode"

	"travel_dialogue_engine/src/dialogue"
	"travel_dialogue_engine/src/model"
	"travel_dialogue_engine/src/travel"
)

// fallbackConfidence is reported for every keyword-derived reading.
const fallbackConfidence = 0.5

var intentKeywords = []struct {
	intent   string
	keywords []string
}{
	{dialogue.IntentEndDialogue, []string{"goodbye", "bye", "quit", "exit", "that's all", "see you"}},
	{string(dialogue.TaskCompareCities), []string{"compare", "versus", " vs ", "which city", "which one is better"}},
	{string(dialogue.TaskBookFlight), []string{"flight", "fly", "plane", "airport"}},
	{string(dialogue.TaskBookAccommodation), []string{"hotel", "accommodation", "hostel", "apartment", "room", "place to stay", "somewhere to stay"}},
	{string(dialogue.TaskBookActivity), []string{"activity", "activities", "tour", "excursion", "things to do", "something to do", "something fun"}},
}

var budgetKeywords = []struct {
	level    string
	keywords []string
}{
	{"low", []string{"cheap", "budget", "low cost", "low-cost", "economy", "inexpensive"}},
	{"high", []string{"luxury", "expensive", "high end", "high-end", "premium", "five star"}},
	{"medium", []string{"medium", "moderate", "mid range", "mid-range", "standard"}},
}

// KeywordExtractor is the no-model fallback. It reads the utterance with
// keyword tables so the dialogue keeps moving when the chain is unavailable.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// Extract derives an NLU reading from keywords alone. During an open
// sub-dialogue the active task intent is preserved, matching the behavior
// the policy expects from the model path.
func (k *KeywordExtractor) Extract(utterance string, state *dialogue.State) *model.NLUResult {
	lowered := strings.ToLower(utterance)
	result := &model.NLUResult{
		Slots:      make(map[string]string),
		Confidence: fallbackConfidence,
		Source:     model.NLUSourceFallback,
	}

	result.Intent = matchIntent(lowered)
	if result.Intent == "" {
		if state != nil && state.ActiveTask != "" {
			result.Intent = string(state.ActiveTask)
		} else {
			result.Intent = dialogue.IntentOutOfDomain
		}
	}
	if result.Intent == dialogue.IntentEndDialogue {
		return result
	}

	if level := matchBudget(lowered); level != "" {
		result.Slots[dialogue.SlotBudgetLevel] = level
	}
	if category := travel.CategorizeText(lowered); category != "" {
		result.Slots[dialogue.SlotActivityCategory] = category
	}

	if state != nil {
		k.applySituation(utterance, lowered, state, result)
	}

	return result
}

// applySituation folds sub-dialogue expectations into the reading: change
// requests map to slot_name, and a short answer to a slot question maps to
// that slot.
func (k *KeywordExtractor) applySituation(utterance, lowered string, state *dialogue.State, result *model.NLUResult) {
	switch state.LastAction.Type {
	case dialogue.ActionRequestSlotChange:
		if name := matchSlotName(lowered, state.ActiveTask); name != "" {
			result.Slots[dialogue.SlotSlotName] = name
		}
		return
	case dialogue.ActionRequestMissingSlot:
		// A reply to a slot question answers that slot alone; a date like
		// 2026-04-10 must not leak its digits into a passenger count.
		k.fillRequestedSlot(utterance, lowered, state.LastAction.Slot, result)
		return
	}

	if number := firstNumber(lowered); number != "" {
		switch state.ActiveTask {
		case dialogue.TaskBookFlight:
			result.Slots[dialogue.SlotNumPassengers] = number
		case dialogue.TaskBookAccommodation:
			result.Slots[dialogue.SlotNumGuests] = number
		}
	}
}

// fillRequestedSlot maps a short free-form answer onto the slot that was
// just asked for.
func (k *KeywordExtractor) fillRequestedSlot(utterance, lowered, slot string, result *model.NLUResult) {
	if slot == "" {
		return
	}
	switch slot {
	case dialogue.SlotBudgetLevel:
		if level := matchBudget(lowered); level != "" {
			result.Slots[slot] = level
			return
		}
	case dialogue.SlotNumPassengers, dialogue.SlotNumGuests:
		if number := firstNumber(lowered); number != "" {
			result.Slots[slot] = number
			return
		}
	case dialogue.SlotActivityCategory:
		if category := travel.CategorizeText(lowered); category != "" {
			result.Slots[slot] = category
			return
		}
	}

	trimmed := strings.TrimSpace(utterance)
	if trimmed != "" && len(strings.Fields(trimmed)) <= 5 {
		result.Slots[slot] = trimmed
	}
}

func matchIntent(lowered string) string {
	for _, entry := range intentKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.intent
			}
		}
	}
	return ""
}

func matchBudget(lowered string) string {
	for _, entry := range budgetKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.level
			}
		}
	}
	return ""
}

// matchSlotName looks for a mention of one of the active task's slot names,
// tolerating spaces instead of underscores.
func matchSlotName(lowered string, task dialogue.Task) string {
	for _, slot := range dialogue.SlotOrder(task) {
		spoken := strings.ReplaceAll(slot, "_", " ")
		if strings.Contains(lowered, spoken) {
			return slot
		}
	}
	// Common shorthand: "date" alone points at the task's first date slot.
	if strings.Contains(lowered, "date") {
		for _, slot := range dialogue.SlotOrder(task) {
			if strings.Contains(slot, "date") {
				return slot
			}
		}
	}
	if strings.Contains(lowered, "city") || strings.Contains(lowered, "where") {
		for _, slot := range dialogue.SlotOrder(task) {
			if slot == dialogue.SlotDestination {
				return slot
			}
		}
	}
	if strings.Contains(lowered, "budget") || strings.Contains(lowered, "price") {
		for _, slot := range dialogue.SlotOrder(task) {
			if slot == dialogue.SlotBudgetLevel {
				return slot
			}
		}
	}
	if strings.Contains(lowered, "people") || strings.Contains(lowered, "passengers") || strings.Contains(lowered, "guests") {
		for _, slot := range dialogue.SlotOrder(task) {
			if slot == dialogue.SlotNumPassengers || slot == dialogue.SlotNumGuests {
				return slot
			}
		}
	}
	return ""
}

// firstNumber returns the first run of digits, or "".
func firstNumber(s string) string {
	start := -1
	for i, r := range s {
		if unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return s[start:i]
		}
	}
	if start >= 0 {
		return s[start:]
	}
	return ""
}
