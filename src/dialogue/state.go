package dialogue

import "maps"

// State tracks one conversation's dialogue position. One instance owns one
// conversation; callers must not share it across goroutines. LastAction is
// the only memory the engine needs to interpret the next turn.
type State struct {
	Trip              *TripContext      `json:"trip"`
	ActiveTask        Task              `json:"active_task,omitempty"`
	LastAction        Action            `json:"last_action"`
	Confirmed         bool              `json:"confirmed"`
	PendingCarryover  map[string]string `json:"pending_carryover,omitempty"`
	AwaitingCarryover bool              `json:"awaiting_carryover"`
}

func NewState() *State {
	return &State{Trip: NewTripContext()}
}

// ActiveBooking returns the record for the active task, nil when no booking
// task is active.
func (s *State) ActiveBooking() Booking {
	if s.Trip == nil {
		return nil
	}
	return s.Trip.Booking(s.ActiveTask)
}

// MissingSlots returns the active booking's missing required slots.
func (s *State) MissingSlots() []string {
	booking := s.ActiveBooking()
	if booking == nil {
		return nil
	}
	return booking.MissingSlots()
}

// Clone returns a deep copy, sharing nothing with the receiver.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Trip = s.Trip.Clone()
	out.PendingCarryover = maps.Clone(s.PendingCarryover)
	return &out
}

// Summary flattens the state for logging and prompt building.
func (s *State) Summary() map[string]any {
	filled := map[string]string{}
	if booking := s.ActiveBooking(); booking != nil {
		filled = booking.Summary()
	}
	var completed []Task
	if s.Trip != nil {
		completed = s.Trip.Completed
	}
	return map[string]any{
		"active_task":        s.ActiveTask,
		"last_action":        s.LastAction.String(),
		"filled_slots":       filled,
		"missing_slots":      s.MissingSlots(),
		"confirmed":          s.Confirmed,
		"pending_carryover":  s.PendingCarryover,
		"awaiting_carryover": s.AwaitingCarryover,
		"completed_bookings": completed,
	}
}
