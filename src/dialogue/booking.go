package dialogue

import (
	"strconv"
	"strings"
)

// ----------------------------------------------------
// ================ Slot names ================

const (
	SlotOrigin           = "origin"
	SlotDestination      = "destination"
	SlotDepartureDate    = "departure_date"
	SlotReturnDate       = "return_date"
	SlotNumPassengers    = "num_passengers"
	SlotBudgetLevel      = "budget_level"
	SlotCheckInDate      = "check_in_date"
	SlotCheckOutDate     = "check_out_date"
	SlotNumGuests        = "num_guests"
	SlotActivityCategory = "activity_category"
	SlotCity1            = "city1"
	SlotCity2            = "city2"

	// Control slots produced by the NLU during sub-dialogues. They are
	// never requested and never stored on a booking record.
	SlotConfirmation = "confirmation"
	SlotSlotName     = "slot_name"
)

// Required-slot request order per task. The engine always asks for the
// first missing slot in this order, which makes conversations reproducible.
var (
	flightSlotOrder        = []string{SlotOrigin, SlotDestination, SlotDepartureDate, SlotNumPassengers, SlotBudgetLevel}
	accommodationSlotOrder = []string{SlotDestination, SlotCheckInDate, SlotCheckOutDate, SlotNumGuests, SlotBudgetLevel}
	activitySlotOrder      = []string{SlotDestination, SlotActivityCategory, SlotBudgetLevel}
	compareSlotOrder       = []string{SlotCity1, SlotCity2, SlotActivityCategory}
)

// recognizedSlots is the union of every requestable slot name across tasks.
var recognizedSlots = map[string]bool{
	SlotOrigin:           true,
	SlotDestination:      true,
	SlotDepartureDate:    true,
	SlotReturnDate:       true,
	SlotNumPassengers:    true,
	SlotBudgetLevel:      true,
	SlotCheckInDate:      true,
	SlotCheckOutDate:     true,
	SlotNumGuests:        true,
	SlotActivityCategory: true,
	SlotCity1:            true,
	SlotCity2:            true,
}

// SlotOrder returns the required-slot request order for a task.
func SlotOrder(task Task) []string {
	var order []string
	switch task {
	case TaskBookFlight:
		order = flightSlotOrder
	case TaskBookAccommodation:
		order = accommodationSlotOrder
	case TaskBookActivity:
		order = activitySlotOrder
	case TaskCompareCities:
		order = compareSlotOrder
	default:
		return nil
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// parseCount converts a numeric slot value, tolerating surrounding spaces.
// Anything that is not a positive integer leaves the field unset.
func parseCount(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ----------------------------------------------------
// ================ Booking records ================

// Booking is the common surface of the three slot-filling records. Unknown
// slot names are ignored everywhere, never rejected.
type Booking interface {
	Task() Task
	// MissingSlots returns every required slot without a value, in the
	// task's declared order.
	MissingSlots() []string
	// ApplySlots copies each non-empty recognized value into its field.
	ApplySlots(values map[string]string)
	// HasSlot reports whether the named field holds a value.
	HasSlot(name string) bool
	// ClearSlot unsets the named field; it reports whether the name is a
	// field of this record at all.
	ClearSlot(name string) bool
	// Summary returns all currently set fields as strings.
	Summary() map[string]string
}

// FlightBooking collects the flight task's slots. ReturnDate is optional:
// it is stored when given but never requested and never blocks confirmation.
type FlightBooking struct {
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
	DepartureDate string `json:"departure_date,omitempty"`
	ReturnDate    string `json:"return_date,omitempty"`
	NumPassengers int    `json:"num_passengers,omitempty"`
	BudgetLevel   string `json:"budget_level,omitempty"`
	Completed     bool   `json:"completed,omitempty"`
}

func (b *FlightBooking) Task() Task { return TaskBookFlight }

func (b *FlightBooking) MissingSlots() []string {
	var missing []string
	for _, slot := range flightSlotOrder {
		if !b.HasSlot(slot) {
			missing = append(missing, slot)
		}
	}
	return missing
}

func (b *FlightBooking) ApplySlots(values map[string]string) {
	for name, value := range values {
		if value == "" {
			continue
		}
		switch name {
		case SlotOrigin:
			b.Origin = value
		case SlotDestination:
			b.Destination = value
		case SlotDepartureDate:
			b.DepartureDate = value
		case SlotReturnDate:
			b.ReturnDate = value
		case SlotNumPassengers:
			if n, ok := parseCount(value); ok {
				b.NumPassengers = n
			}
		case SlotBudgetLevel:
			b.BudgetLevel = value
		}
	}
}

func (b *FlightBooking) HasSlot(name string) bool {
	switch name {
	case SlotOrigin:
		return b.Origin != ""
	case SlotDestination:
		return b.Destination != ""
	case SlotDepartureDate:
		return b.DepartureDate != ""
	case SlotReturnDate:
		return b.ReturnDate != ""
	case SlotNumPassengers:
		return b.NumPassengers > 0
	case SlotBudgetLevel:
		return b.BudgetLevel != ""
	}
	return false
}

func (b *FlightBooking) ClearSlot(name string) bool {
	switch name {
	case SlotOrigin:
		b.Origin = ""
	case SlotDestination:
		b.Destination = ""
	case SlotDepartureDate:
		b.DepartureDate = ""
	case SlotReturnDate:
		b.ReturnDate = ""
	case SlotNumPassengers:
		b.NumPassengers = 0
	case SlotBudgetLevel:
		b.BudgetLevel = ""
	default:
		return false
	}
	return true
}

func (b *FlightBooking) Summary() map[string]string {
	out := make(map[string]string)
	if b.Origin != "" {
		out[SlotOrigin] = b.Origin
	}
	if b.Destination != "" {
		out[SlotDestination] = b.Destination
	}
	if b.DepartureDate != "" {
		out[SlotDepartureDate] = b.DepartureDate
	}
	if b.ReturnDate != "" {
		out[SlotReturnDate] = b.ReturnDate
	}
	if b.NumPassengers > 0 {
		out[SlotNumPassengers] = strconv.Itoa(b.NumPassengers)
	}
	if b.BudgetLevel != "" {
		out[SlotBudgetLevel] = b.BudgetLevel
	}
	return out
}

// AccommodationBooking collects the accommodation task's slots.
type AccommodationBooking struct {
	Destination  string `json:"destination,omitempty"`
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
	NumGuests    int    `json:"num_guests,omitempty"`
	BudgetLevel  string `json:"budget_level,omitempty"`
	Completed    bool   `json:"completed,omitempty"`
}

func (b *AccommodationBooking) Task() Task { return TaskBookAccommodation }

func (b *AccommodationBooking) MissingSlots() []string {
	var missing []string
	for _, slot := range accommodationSlotOrder {
		if !b.HasSlot(slot) {
			missing = append(missing, slot)
		}
	}
	return missing
}

func (b *AccommodationBooking) ApplySlots(values map[string]string) {
	for name, value := range values {
		if value == "" {
			continue
		}
		switch name {
		case SlotDestination:
			b.Destination = value
		case SlotCheckInDate:
			b.CheckInDate = value
		case SlotCheckOutDate:
			b.CheckOutDate = value
		case SlotNumGuests:
			if n, ok := parseCount(value); ok {
				b.NumGuests = n
			}
		case SlotBudgetLevel:
			b.BudgetLevel = value
		}
	}
}

func (b *AccommodationBooking) HasSlot(name string) bool {
	switch name {
	case SlotDestination:
		return b.Destination != ""
	case SlotCheckInDate:
		return b.CheckInDate != ""
	case SlotCheckOutDate:
		return b.CheckOutDate != ""
	case SlotNumGuests:
		return b.NumGuests > 0
	case SlotBudgetLevel:
		return b.BudgetLevel != ""
	}
	return false
}

func (b *AccommodationBooking) ClearSlot(name string) bool {
	switch name {
	case SlotDestination:
		b.Destination = ""
	case SlotCheckInDate:
		b.CheckInDate = ""
	case SlotCheckOutDate:
		b.CheckOutDate = ""
	case SlotNumGuests:
		b.NumGuests = 0
	case SlotBudgetLevel:
		b.BudgetLevel = ""
	default:
		return false
	}
	return true
}

func (b *AccommodationBooking) Summary() map[string]string {
	out := make(map[string]string)
	if b.Destination != "" {
		out[SlotDestination] = b.Destination
	}
	if b.CheckInDate != "" {
		out[SlotCheckInDate] = b.CheckInDate
	}
	if b.CheckOutDate != "" {
		out[SlotCheckOutDate] = b.CheckOutDate
	}
	if b.NumGuests > 0 {
		out[SlotNumGuests] = strconv.Itoa(b.NumGuests)
	}
	if b.BudgetLevel != "" {
		out[SlotBudgetLevel] = b.BudgetLevel
	}
	return out
}

// ActivityBooking collects the activity task's slots.
type ActivityBooking struct {
	Destination      string `json:"destination,omitempty"`
	ActivityCategory string `json:"activity_category,omitempty"`
	BudgetLevel      string `json:"budget_level,omitempty"`
	Completed        bool   `json:"completed,omitempty"`
}

func (b *ActivityBooking) Task() Task { return TaskBookActivity }

func (b *ActivityBooking) MissingSlots() []string {
	var missing []string
	for _, slot := range activitySlotOrder {
		if !b.HasSlot(slot) {
			missing = append(missing, slot)
		}
	}
	return missing
}

func (b *ActivityBooking) ApplySlots(values map[string]string) {
	for name, value := range values {
		if value == "" {
			continue
		}
		switch name {
		case SlotDestination:
			b.Destination = value
		case SlotActivityCategory:
			b.ActivityCategory = value
		case SlotBudgetLevel:
			b.BudgetLevel = value
		}
	}
}

func (b *ActivityBooking) HasSlot(name string) bool {
	switch name {
	case SlotDestination:
		return b.Destination != ""
	case SlotActivityCategory:
		return b.ActivityCategory != ""
	case SlotBudgetLevel:
		return b.BudgetLevel != ""
	}
	return false
}

func (b *ActivityBooking) ClearSlot(name string) bool {
	switch name {
	case SlotDestination:
		b.Destination = ""
	case SlotActivityCategory:
		b.ActivityCategory = ""
	case SlotBudgetLevel:
		b.BudgetLevel = ""
	default:
		return false
	}
	return true
}

func (b *ActivityBooking) Summary() map[string]string {
	out := make(map[string]string)
	if b.Destination != "" {
		out[SlotDestination] = b.Destination
	}
	if b.ActivityCategory != "" {
		out[SlotActivityCategory] = b.ActivityCategory
	}
	if b.BudgetLevel != "" {
		out[SlotBudgetLevel] = b.BudgetLevel
	}
	return out
}
