package dialogue

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubOracle answers with a canned function so tests control the suggestion.
type stubOracle struct {
	fn func(ctx context.Context, state *State, turn TurnInput) (string, error)
}

func (o *stubOracle) SuggestAction(ctx context.Context, state *State, turn TurnInput) (string, error) {
	return o.fn(ctx, state, turn)
}

func fixedOracle(token string) *stubOracle {
	return &stubOracle{fn: func(context.Context, *State, TurnInput) (string, error) {
		return token, nil
	}}
}

func TestRuleStrategyMatchesEngine(t *testing.T) {
	strategy := NewRuleStrategy()
	state := NewState()
	got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})
	if got != RequestMissingSlot(SlotOrigin) {
		t.Errorf("Expected REQUEST_MISSING_SLOT(origin), got %s", got)
	}
	if state.LastAction != got {
		t.Errorf("Expected last action %s, got %s", got, state.LastAction)
	}
}

func TestAdvisorWithoutOracleIsDeterministic(t *testing.T) {
	strategy := NewAdvisorStrategy(nil, 0)
	state := NewState()
	got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_ACTIVITY"})
	if got != RequestMissingSlot(SlotDestination) {
		t.Errorf("Expected REQUEST_MISSING_SLOT(destination), got %s", got)
	}
}

func TestAdvisorOracleErrorFallsBack(t *testing.T) {
	oracle := &stubOracle{fn: func(context.Context, *State, TurnInput) (string, error) {
		return "", errors.New("model unavailable")
	}}
	strategy := NewAdvisorStrategy(oracle, 0)
	state := NewState()
	got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})
	if got != RequestMissingSlot(SlotOrigin) {
		t.Errorf("Expected the deterministic action, got %s", got)
	}
	if state.LastAction != got {
		t.Errorf("Expected last action %s, got %s", got, state.LastAction)
	}
}

func TestAdvisorTimeoutFallsBack(t *testing.T) {
	oracle := &stubOracle{fn: func(ctx context.Context, _ *State, _ TurnInput) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	strategy := NewAdvisorStrategy(oracle, 10*time.Millisecond)
	state := NewState()
	got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})
	if got != RequestMissingSlot(SlotOrigin) {
		t.Errorf("Expected the deterministic action, got %s", got)
	}
}

func TestAdvisorRejectsUnparseableSuggestion(t *testing.T) {
	for _, token := range []string{"DO_SOMETHING", "REQUEST_MISSING_SLOT", "REQUEST_MISSING_SLOT(seat_class)", ""} {
		strategy := NewAdvisorStrategy(fixedOracle(token), 0)
		state := NewState()
		got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})
		if got != RequestMissingSlot(SlotOrigin) {
			t.Errorf("Expected the deterministic action for %q, got %s", token, got)
		}
	}
}

func TestAdvisorOracleSeesPreTurnState(t *testing.T) {
	var seenTask Task
	oracle := &stubOracle{fn: func(_ context.Context, state *State, _ TurnInput) (string, error) {
		seenTask = state.ActiveTask
		state.Trip.Flight.Origin = "tampered"
		return "ASK_CLARIFICATION", nil
	}}
	strategy := NewAdvisorStrategy(oracle, 0)
	state := NewState()
	strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})

	if seenTask != Task("") {
		t.Errorf("Expected the oracle to see the pre-turn state, got %s", seenTask)
	}
	if state.Trip.Flight.Origin != "" {
		t.Error("Expected oracle writes to a clone to not reach the real state")
	}
}

func TestAdvisorAcceptedSuggestionReplacesAction(t *testing.T) {
	strategy := NewAdvisorStrategy(fixedOracle("ASK_CLARIFICATION"), 0)
	state := NewState()
	got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})
	if got.Type != ActionAskClarification {
		t.Fatalf("Expected the accepted suggestion, got %s", got)
	}
	if state.LastAction.Type != ActionAskClarification {
		t.Errorf("Expected last action rewritten to the suggestion, got %s", state.LastAction)
	}
	// The deterministic slot intake still happened.
	if state.ActiveTask != TaskBookFlight {
		t.Errorf("Expected active task BOOK_FLIGHT, got %s", state.ActiveTask)
	}
}

func TestAdvisorSlotChangeNeedsOpenDenialLoop(t *testing.T) {
	// Fresh conversation: REQUEST_SLOT_CHANGE out of nowhere is rejected.
	strategy := NewAdvisorStrategy(fixedOracle("REQUEST_SLOT_CHANGE"), 0)
	state := NewState()
	got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})
	if got != RequestMissingSlot(SlotOrigin) {
		t.Fatalf("Expected the deterministic action, got %s", got)
	}

	// While a confirmation question is open it is admissible.
	state = buildState(decideCase{
		activeTask: TaskBookActivity,
		lastAction: Action{Type: ActionAskConfirmation},
		filled: map[string]string{
			SlotDestination:      "Florence",
			SlotActivityCategory: "cultural",
			SlotBudgetLevel:      "medium",
		},
	})
	got = strategy.Decide(context.Background(), state, TurnInput{
		Intent:    string(TaskBookActivity),
		Utterance: "hmm",
	})
	if got.Type != ActionRequestSlotChange {
		t.Errorf("Expected the suggestion to be accepted, got %s", got)
	}
	if state.LastAction.Type != ActionRequestSlotChange {
		t.Errorf("Expected last action rewritten, got %s", state.LastAction)
	}
}

func TestAdvisorCannotSkipCarryoverOffer(t *testing.T) {
	state := buildState(decideCase{
		activeTask: TaskBookAccommodation,
		pending:    map[string]string{SlotDestination: "Paris"},
	})
	strategy := NewAdvisorStrategy(fixedOracle("REQUEST_MISSING_SLOT(destination)"), 0)

	got := strategy.Decide(context.Background(), state, TurnInput{Intent: string(TaskBookAccommodation)})
	if got.Type != ActionOfferSlotCarryover {
		t.Fatalf("Expected the offer to stand, got %s", got)
	}
	if state.LastAction.Type != ActionOfferSlotCarryover {
		t.Errorf("Expected last action OFFER_SLOT_CARRYOVER, got %s", state.LastAction)
	}
}

func TestAdvisorCompletionMustMatch(t *testing.T) {
	build := func() *State {
		return buildState(decideCase{
			activeTask: TaskBookFlight,
			lastAction: Action{Type: ActionAskConfirmation},
			filled: map[string]string{
				SlotOrigin:        "Rome",
				SlotDestination:   "Paris",
				SlotDepartureDate: "2026-03-15",
				SlotNumPassengers: "2",
				SlotBudgetLevel:   "medium",
			},
		})
	}
	turn := TurnInput{
		Intent:    string(TaskBookFlight),
		Slots:     map[string]string{SlotConfirmation: "yes"},
		Utterance: "yes",
	}

	// Suggesting a different completion is rejected.
	strategy := NewAdvisorStrategy(fixedOracle("COMPLETE_ACTIVITY_BOOKING"), 0)
	state := build()
	if got := strategy.Decide(context.Background(), state, turn); got.Type != ActionCompleteFlight {
		t.Errorf("Expected COMPLETE_FLIGHT_BOOKING, got %s", got)
	}

	// Suggesting a non-final action against a completion is rejected too.
	strategy = NewAdvisorStrategy(fixedOracle("ASK_CONFIRMATION"), 0)
	state = build()
	if got := strategy.Decide(context.Background(), state, turn); got.Type != ActionCompleteFlight {
		t.Errorf("Expected COMPLETE_FLIGHT_BOOKING, got %s", got)
	}
	if !state.Trip.Flight.Completed {
		t.Error("Expected the completion side effects to stand")
	}

	// Suggesting a completion when nothing finalizes is rejected.
	strategy = NewAdvisorStrategy(fixedOracle("COMPLETE_FLIGHT_BOOKING"), 0)
	fresh := NewState()
	if got := strategy.Decide(context.Background(), fresh, TurnInput{Intent: "BOOK_FLIGHT"}); got != RequestMissingSlot(SlotOrigin) {
		t.Errorf("Expected REQUEST_MISSING_SLOT(origin), got %s", got)
	}
}

func TestAdvisorAgreeingSuggestionChangesNothing(t *testing.T) {
	strategy := NewAdvisorStrategy(fixedOracle("REQUEST_MISSING_SLOT(origin)"), 0)
	state := NewState()
	got := strategy.Decide(context.Background(), state, TurnInput{Intent: "BOOK_FLIGHT"})
	if got != RequestMissingSlot(SlotOrigin) {
		t.Errorf("Expected REQUEST_MISSING_SLOT(origin), got %s", got)
	}
	if state.LastAction != got {
		t.Errorf("Expected last action %s, got %s", got, state.LastAction)
	}
}
