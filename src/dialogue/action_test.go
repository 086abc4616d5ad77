package dialogue

import (
	"testing"
)

func TestActionString(t *testing.T) {
	if got := (Action{Type: ActionGoodbye}).String(); got != "GOODBYE" {
		t.Errorf("Expected GOODBYE, got %q", got)
	}
	if got := RequestMissingSlot(SlotOrigin).String(); got != "REQUEST_MISSING_SLOT(origin)" {
		t.Errorf("Expected REQUEST_MISSING_SLOT(origin), got %q", got)
	}
}

func TestParseActionRoundTrip(t *testing.T) {
	actions := []Action{
		{Type: ActionGoodbye},
		{Type: ActionAskClarification},
		{Type: ActionAskConfirmation},
		{Type: ActionRequestSlotChange},
		{Type: ActionOfferSlotCarryover},
		{Type: ActionCompleteFlight},
		{Type: ActionCompleteAccommodation},
		{Type: ActionCompleteActivity},
		{Type: ActionCompareCitiesResult},
		RequestMissingSlot(SlotCheckInDate),
		RequestMissingSlot(SlotCity2),
	}
	for _, a := range actions {
		parsed, ok := ParseAction(a.String())
		if !ok {
			t.Errorf("Expected %s to parse", a)
			continue
		}
		if parsed != a {
			t.Errorf("Expected %s, got %s", a, parsed)
		}
	}
}

func TestParseActionTolerantSpacing(t *testing.T) {
	parsed, ok := ParseAction("  REQUEST_MISSING_SLOT( destination ) ")
	if !ok {
		t.Fatal("Expected padded input to parse")
	}
	if parsed != RequestMissingSlot(SlotDestination) {
		t.Errorf("Expected REQUEST_MISSING_SLOT(destination), got %s", parsed)
	}
}

func TestParseActionRejectsGarbage(t *testing.T) {
	for _, s := range []string{
		"",
		"DO_SOMETHING",
		"goodbye",
		"REQUEST_MISSING_SLOT",
		"REQUEST_MISSING_SLOT()",
		"REQUEST_MISSING_SLOT(seat_class)",
		"GOODBYE(origin)",
		"COMPLETE_FLIGHT_BOOKING extra",
	} {
		if _, ok := ParseAction(s); ok {
			t.Errorf("Expected %q to be rejected", s)
		}
	}
}

func TestActionPredicates(t *testing.T) {
	if !(Action{}).IsZero() {
		t.Error("Expected the zero action to report zero")
	}
	if (Action{Type: ActionGoodbye}).IsZero() {
		t.Error("Expected GOODBYE to not report zero")
	}
	for _, a := range []Action{
		{Type: ActionCompleteFlight},
		{Type: ActionCompleteAccommodation},
		{Type: ActionCompleteActivity},
	} {
		if !a.IsCompletion() {
			t.Errorf("Expected %s to be a completion", a)
		}
	}
	if (Action{Type: ActionCompareCitiesResult}).IsCompletion() {
		t.Error("Expected COMPARE_CITIES_RESULT to not be a booking completion")
	}
}

func TestCompletionActionPerTask(t *testing.T) {
	cases := []struct {
		task Task
		want ActionType
	}{
		{TaskBookFlight, ActionCompleteFlight},
		{TaskBookAccommodation, ActionCompleteAccommodation},
		{TaskBookActivity, ActionCompleteActivity},
		{TaskCompareCities, ActionAskClarification},
		{Task(""), ActionAskClarification},
	}
	for _, c := range cases {
		if got := completionAction(c.task); got.Type != c.want {
			t.Errorf("Expected %s for %q, got %s", c.want, c.task, got)
		}
	}
}
