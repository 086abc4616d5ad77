package dialogue

import (
	"testing"
)

func TestStateCloneIsDeep(t *testing.T) {
	state := NewState()
	state.ActiveTask = TaskBookFlight
	state.Trip.Flight.Origin = "Rome"
	state.PendingCarryover = map[string]string{SlotDestination: "Paris"}

	clone := state.Clone()
	clone.ActiveTask = TaskBookActivity
	clone.Trip.Flight.Origin = "Oslo"
	clone.PendingCarryover[SlotDestination] = "Berlin"

	if state.ActiveTask != TaskBookFlight {
		t.Errorf("Expected active task BOOK_FLIGHT, got %s", state.ActiveTask)
	}
	if state.Trip.Flight.Origin != "Rome" {
		t.Errorf("Expected origin Rome, got %q", state.Trip.Flight.Origin)
	}
	if state.PendingCarryover[SlotDestination] != "Paris" {
		t.Errorf("Expected pending destination Paris, got %q", state.PendingCarryover[SlotDestination])
	}

	var nilState *State
	if nilState.Clone() != nil {
		t.Error("Expected nil to clone to nil")
	}
}

func TestStateMissingSlots(t *testing.T) {
	state := NewState()
	if got := state.MissingSlots(); got != nil {
		t.Errorf("Expected nil with no active task, got %v", got)
	}

	state.ActiveTask = TaskBookActivity
	state.Trip.Activity.Destination = "Florence"
	got := state.MissingSlots()
	if len(got) != 2 || got[0] != SlotActivityCategory || got[1] != SlotBudgetLevel {
		t.Errorf("Expected [activity_category budget_level], got %v", got)
	}

	state.ActiveTask = TaskCompareCities
	if got := state.MissingSlots(); got != nil {
		t.Errorf("Expected nil for the comparison task, got %v", got)
	}
}

func TestStateSummary(t *testing.T) {
	state := NewState()
	state.ActiveTask = TaskBookFlight
	state.Trip.Flight.ApplySlots(map[string]string{SlotOrigin: "Rome", SlotNumPassengers: "2"})
	state.LastAction = RequestMissingSlot(SlotDestination)
	state.Trip.MarkCompleted(TaskBookActivity)

	summary := state.Summary()
	if summary["active_task"] != TaskBookFlight {
		t.Errorf("Expected active task BOOK_FLIGHT, got %v", summary["active_task"])
	}
	if summary["last_action"] != "REQUEST_MISSING_SLOT(destination)" {
		t.Errorf("Expected the printable last action, got %v", summary["last_action"])
	}
	filled, ok := summary["filled_slots"].(map[string]string)
	if !ok || filled[SlotOrigin] != "Rome" || filled[SlotNumPassengers] != "2" {
		t.Errorf("Expected filled origin and passenger count, got %v", summary["filled_slots"])
	}
	missing, ok := summary["missing_slots"].([]string)
	if !ok || len(missing) != 3 || missing[0] != SlotDestination {
		t.Errorf("Expected destination first among 3 missing, got %v", summary["missing_slots"])
	}
	completed, ok := summary["completed_bookings"].([]Task)
	if !ok || len(completed) != 1 || completed[0] != TaskBookActivity {
		t.Errorf("Expected one completed booking, got %v", summary["completed_bookings"])
	}
}
