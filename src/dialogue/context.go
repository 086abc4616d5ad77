package dialogue

import "maps"

// TripContext aggregates the per-task booking records for one conversation.
// Cardinality is fixed: exactly one record per booking task, plus a scratch
// map for the informational city comparison.
type TripContext struct {
	Flight        *FlightBooking        `json:"flight"`
	Accommodation *AccommodationBooking `json:"accommodation"`
	Activity      *ActivityBooking      `json:"activity"`
	CompareCities map[string]string     `json:"compare_cities,omitempty"`
	Completed     []Task                `json:"completed,omitempty"`
}

func NewTripContext() *TripContext {
	return &TripContext{
		Flight:        &FlightBooking{},
		Accommodation: &AccommodationBooking{},
		Activity:      &ActivityBooking{},
		CompareCities: make(map[string]string),
	}
}

// Booking returns the record owned for the task, or nil for COMPARE_CITIES
// and unknown tasks.
func (tc *TripContext) Booking(task Task) Booking {
	switch task {
	case TaskBookFlight:
		if tc.Flight == nil {
			return nil
		}
		return tc.Flight
	case TaskBookAccommodation:
		if tc.Accommodation == nil {
			return nil
		}
		return tc.Accommodation
	case TaskBookActivity:
		if tc.Activity == nil {
			return nil
		}
		return tc.Activity
	}
	return nil
}

// MarkCompleted flags the task's record and appends the task to the
// completed list. Idempotent: a second call leaves one entry.
func (tc *TripContext) MarkCompleted(task Task) {
	switch task {
	case TaskBookFlight:
		if tc.Flight != nil {
			tc.Flight.Completed = true
		}
	case TaskBookAccommodation:
		if tc.Accommodation != nil {
			tc.Accommodation.Completed = true
		}
	case TaskBookActivity:
		if tc.Activity != nil {
			tc.Activity.Completed = true
		}
	default:
		return
	}
	for _, t := range tc.Completed {
		if t == task {
			return
		}
	}
	tc.Completed = append(tc.Completed, task)
}

// CarryoverValues computes the target-slot values a task switch could reuse.
// The result is keyed by the target record's slot names and contains only
// mappings whose source field holds a value. Pairs outside the carryover
// table yield nil.
func (tc *TripContext) CarryoverValues(from, to Task) map[string]string {
	mapping, ok := carryoverTable[taskPair{from: from, to: to}]
	if !ok {
		return nil
	}
	source := tc.Booking(from)
	if source == nil {
		return nil
	}
	summary := source.Summary()
	values := make(map[string]string)
	for sourceSlot, targetSlot := range mapping {
		if v, ok := summary[sourceSlot]; ok && v != "" {
			values[targetSlot] = v
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// MergeCompareSlots folds this turn's comparison slots into the scratch map.
// Empty values never overwrite collected ones.
func (tc *TripContext) MergeCompareSlots(slots map[string]string) {
	if tc.CompareCities == nil {
		tc.CompareCities = make(map[string]string)
	}
	for _, name := range compareSlotOrder {
		if v, ok := slots[name]; ok && v != "" {
			tc.CompareCities[name] = v
		}
	}
}

// MissingCompareSlots returns the comparison slots still unset, in request
// order: city1, city2, activity_category.
func (tc *TripContext) MissingCompareSlots() []string {
	var missing []string
	for _, name := range compareSlotOrder {
		if tc.CompareCities[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Clone returns a deep copy, sharing nothing with the receiver.
func (tc *TripContext) Clone() *TripContext {
	if tc == nil {
		return nil
	}
	out := &TripContext{}
	if tc.Flight != nil {
		f := *tc.Flight
		out.Flight = &f
	}
	if tc.Accommodation != nil {
		a := *tc.Accommodation
		out.Accommodation = &a
	}
	if tc.Activity != nil {
		a := *tc.Activity
		out.Activity = &a
	}
	out.CompareCities = maps.Clone(tc.CompareCities)
	if tc.Completed != nil {
		out.Completed = append([]Task(nil), tc.Completed...)
	}
	return out
}
