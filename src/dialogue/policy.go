package dialogue

import "strings"

// TurnInput carries one turn's NLU reading plus the raw utterance. Empty
// slot values are treated as absent.
type TurnInput struct {
	Intent    string            `json:"intent"`
	Slots     map[string]string `json:"slots"`
	Utterance string            `json:"utterance"`
}

func (t TurnInput) slot(name string) string {
	return strings.TrimSpace(t.Slots[name])
}

// Engine is the deterministic dialogue policy. One Decide call fully
// resolves one turn, reading and mutating exactly one State. It never
// returns an error: malformed input degrades to the nearest safe action.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Decide picks the next action and updates state accordingly. Rules run in
// fixed priority order; the first matching rule wins, and every path
// assigns state.LastAction before returning.
func (e *Engine) Decide(state *State, turn TurnInput) Action {
	if state.Trip == nil {
		state.Trip = NewTripContext()
	}

	// Rule 1: an explicit goodbye ends the dialogue over anything pending.
	if turn.Intent == IntentEndDialogue {
		return e.emit(state, Action{Type: ActionGoodbye})
	}

	// Rule 2: out-of-domain, empty, or unrecognized intent.
	task, ok := taskFromIntent(turn.Intent)
	if !ok {
		return e.emit(state, Action{Type: ActionAskClarification})
	}

	// Rule 3: city comparison collects its scratch slots outside the
	// booking flow and has no confirmation step.
	if task == TaskCompareCities {
		state.ActiveTask = TaskCompareCities
		state.Trip.MergeCompareSlots(turn.Slots)
		if missing := state.Trip.MissingCompareSlots(); len(missing) > 0 {
			return e.emit(state, RequestMissingSlot(missing[0]))
		}
		return e.emit(state, Action{Type: ActionCompareCitiesResult})
	}

	// Rule 4: answer to a pending confirmation question.
	if state.LastAction.Type == ActionAskConfirmation {
		switch normalizeConfirmation(turn.slot(SlotConfirmation), turn.Utterance) {
		case replyNo:
			return e.emit(state, Action{Type: ActionRequestSlotChange})
		case replyYes:
			state.Confirmed = true
			state.Trip.MarkCompleted(state.ActiveTask)
			return e.emit(state, completionAction(state.ActiveTask))
		default:
			return e.emit(state, Action{Type: ActionAskConfirmation})
		}
	}

	// Rule 5: answer to a pending carryover offer. Accepting or declining
	// consumes the whole turn: the turn's own intent and slots are not
	// applied.
	if state.LastAction.Type == ActionOfferSlotCarryover {
		switch normalizeConfirmation(turn.slot(SlotConfirmation), turn.Utterance) {
		case replyYes:
			if booking := state.ActiveBooking(); booking != nil && state.PendingCarryover != nil {
				booking.ApplySlots(state.PendingCarryover)
			}
			state.PendingCarryover = nil
			state.AwaitingCarryover = false
			return e.resolveActiveTask(state)
		case replyNo:
			state.PendingCarryover = nil
			state.AwaitingCarryover = false
			return e.resolveActiveTask(state)
		default:
			return e.emit(state, Action{Type: ActionOfferSlotCarryover})
		}
	}

	// Rule 6: answer to a slot-change request. An unknown or other-task
	// slot name counts as not provided.
	if state.LastAction.Type == ActionRequestSlotChange {
		name := turn.slot(SlotSlotName)
		if booking := state.ActiveBooking(); booking != nil && name != "" && booking.ClearSlot(name) {
			return e.emit(state, RequestMissingSlot(name))
		}
		return e.emit(state, Action{Type: ActionRequestSlotChange})
	}

	// Rule 7: booking-task switch and slot intake. Carryover is computed
	// before the switch so the outgoing task's values are still visible.
	if state.ActiveTask != task {
		if carryover := state.Trip.CarryoverValues(state.ActiveTask, task); len(carryover) > 0 {
			state.PendingCarryover = carryover
			state.Confirmed = false
		}
		state.ActiveTask = task
	}
	if booking := state.ActiveBooking(); booking != nil {
		booking.ApplySlots(turn.Slots)
	}

	return e.resolveActiveTask(state)
}

// resolveActiveTask runs the slot-collection tail: carryover gating, the
// next missing slot, confirmation, then completion.
func (e *Engine) resolveActiveTask(state *State) Action {
	booking := state.ActiveBooking()

	// Rule 8: nothing to work on yet.
	if booking == nil {
		return e.emit(state, Action{Type: ActionAskClarification})
	}

	missing := booking.MissingSlots()

	// Rule 9: a stored carryover is offered at most once, and only while
	// it can still fill a gap; a useless one is dropped silently.
	if len(state.PendingCarryover) > 0 && !state.AwaitingCarryover {
		if overlapsMissing(state.PendingCarryover, missing) {
			state.AwaitingCarryover = true
			return e.emit(state, Action{Type: ActionOfferSlotCarryover})
		}
		state.PendingCarryover = nil
	}

	// Rule 10: request the first missing required slot in declared order.
	if len(missing) > 0 {
		return e.emit(state, RequestMissingSlot(missing[0]))
	}

	// Rule 11: everything filled but not yet confirmed.
	if !state.Confirmed {
		return e.emit(state, Action{Type: ActionAskConfirmation})
	}

	// Rule 12: filled and confirmed.
	state.Trip.MarkCompleted(state.ActiveTask)
	return e.emit(state, completionAction(state.ActiveTask))
}

func (e *Engine) emit(state *State, action Action) Action {
	state.LastAction = action
	return action
}

func overlapsMissing(pending map[string]string, missing []string) bool {
	for _, slot := range missing {
		if _, ok := pending[slot]; ok {
			return true
		}
	}
	return false
}
