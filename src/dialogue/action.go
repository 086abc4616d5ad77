package dialogue

import "strings"

// ----------------------------------------------------
// ================ Action tokens ================

// ActionType enumerates every action the engine can emit.
type ActionType string

const (
	ActionGoodbye               ActionType = "GOODBYE"
	ActionAskClarification      ActionType = "ASK_CLARIFICATION"
	ActionRequestMissingSlot    ActionType = "REQUEST_MISSING_SLOT"
	ActionAskConfirmation       ActionType = "ASK_CONFIRMATION"
	ActionRequestSlotChange     ActionType = "REQUEST_SLOT_CHANGE"
	ActionOfferSlotCarryover    ActionType = "OFFER_SLOT_CARRYOVER"
	ActionCompleteFlight        ActionType = "COMPLETE_FLIGHT_BOOKING"
	ActionCompleteAccommodation ActionType = "COMPLETE_ACCOMMODATION_BOOKING"
	ActionCompleteActivity      ActionType = "COMPLETE_ACTIVITY_BOOKING"
	ActionCompareCitiesResult   ActionType = "COMPARE_CITIES_RESULT"
)

var actionTypes = map[ActionType]bool{
	ActionGoodbye:               true,
	ActionAskClarification:      true,
	ActionRequestMissingSlot:    true,
	ActionAskConfirmation:       true,
	ActionRequestSlotChange:     true,
	ActionOfferSlotCarryover:    true,
	ActionCompleteFlight:        true,
	ActionCompleteAccommodation: true,
	ActionCompleteActivity:      true,
	ActionCompareCitiesResult:   true,
}

// ----------------------------------------------------
// ================ Action ================

// Action is one engine decision for one turn. Slot is set only for
// REQUEST_MISSING_SLOT.
type Action struct {
	Type ActionType `json:"type"`
	Slot string     `json:"slot,omitempty"`
}

// RequestMissingSlot builds the parameterized slot request.
func RequestMissingSlot(slot string) Action {
	return Action{Type: ActionRequestMissingSlot, Slot: slot}
}

func (a Action) String() string {
	if a.Type == ActionRequestMissingSlot && a.Slot != "" {
		return string(a.Type) + "(" + a.Slot + ")"
	}
	return string(a.Type)
}

// IsZero reports whether no action has been emitted yet.
func (a Action) IsZero() bool {
	return a.Type == ""
}

// IsCompletion reports whether the action finalizes a booking task.
func (a Action) IsCompletion() bool {
	switch a.Type {
	case ActionCompleteFlight, ActionCompleteAccommodation, ActionCompleteActivity:
		return true
	}
	return false
}

// completionActions maps each booking task to its completion action.
var completionActions = map[Task]ActionType{
	TaskBookFlight:        ActionCompleteFlight,
	TaskBookAccommodation: ActionCompleteAccommodation,
	TaskBookActivity:      ActionCompleteActivity,
}

// completionAction resolves the completion action for a task, degrading to
// ASK_CLARIFICATION when the task has none.
func completionAction(task Task) Action {
	if t, ok := completionActions[task]; ok {
		return Action{Type: t}
	}
	return Action{Type: ActionAskClarification}
}

// ParseAction parses the textual form produced by Action.String. It rejects
// unknown tokens, a bare REQUEST_MISSING_SLOT, and unrecognized slot
// parameters, so invalid oracle output never becomes an Action.
func ParseAction(s string) (Action, bool) {
	s = strings.TrimSpace(s)
	prefix := string(ActionRequestMissingSlot) + "("
	if strings.HasPrefix(s, prefix) && strings.HasSuffix(s, ")") {
		slot := strings.TrimSpace(s[len(prefix) : len(s)-1])
		if !recognizedSlots[slot] {
			return Action{}, false
		}
		return RequestMissingSlot(slot), true
	}
	t := ActionType(s)
	if !actionTypes[t] || t == ActionRequestMissingSlot {
		return Action{}, false
	}
	return Action{Type: t}, true
}
