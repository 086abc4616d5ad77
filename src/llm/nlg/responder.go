package nlg

import (
	"fmt"
	"sort"
	"strings"

	"travel_dialogue_engine/src/dialogue"
	"travel_dialogue_engine/src/travel"
)

// maxResults caps how many search results a reply lists.
const maxResults = 5

// ----------------------------------------------------
// Templates
// ----------------------------------------------------

// slotQuestions holds the question asked for each missing slot.
var slotQuestions = map[string]string{
	dialogue.SlotOrigin:           "Where will you be flying from?",
	dialogue.SlotDestination:      "Where would you like to go?",
	dialogue.SlotDepartureDate:    "What date would you like to depart?",
	dialogue.SlotReturnDate:       "What date would you like to return?",
	dialogue.SlotNumPassengers:    "How many passengers are flying?",
	dialogue.SlotCheckInDate:      "What date will you check in?",
	dialogue.SlotCheckOutDate:     "What date will you check out?",
	dialogue.SlotNumGuests:        "How many guests will be staying?",
	dialogue.SlotActivityCategory: "What kind of activity are you interested in? For example cultural, food, or adventure.",
	dialogue.SlotBudgetLevel:      "What budget level should I plan for: low, medium, or high?",
	dialogue.SlotCity1:            "Which is the first city you'd like to compare?",
	dialogue.SlotCity2:            "Which city should I compare it with?",
}

var completionLines = map[dialogue.ActionType]string{
	dialogue.ActionCompleteFlight:        "Your flight is booked! ✅",
	dialogue.ActionCompleteAccommodation: "Your accommodation is booked! ✅",
	dialogue.ActionCompleteActivity:      "Your activity is booked! ✅",
}

const (
	goodbyeLine       = "Perfect! Have a nice trip! ✈️"
	clarificationLine = "I can help you book flights, accommodation, and activities, or compare two cities. What would you like to do?"
	slotChangeLine    = "Sure, which detail would you like to change?"
	summaryHeader     = "Here's what I have so far:"
	confirmQuestion   = "Shall I go ahead and book it?"
)

// ----------------------------------------------------
// Responder
// ----------------------------------------------------

// Responder turns dialogue actions into user-facing text. Every action
// maps to a fixed template so replies stay predictable.
type Responder struct{}

func NewResponder() *Responder {
	return &Responder{}
}

// Render produces the reply for an action given the state that emitted it.
func (r *Responder) Render(action dialogue.Action, state *dialogue.State) string {
	switch action.Type {
	case dialogue.ActionGoodbye:
		return goodbyeLine

	case dialogue.ActionAskClarification:
		return clarificationLine

	case dialogue.ActionRequestMissingSlot:
		if question, ok := slotQuestions[action.Slot]; ok {
			return question
		}
		return fmt.Sprintf("Could you tell me the %s?", strings.ReplaceAll(action.Slot, "_", " "))

	case dialogue.ActionAskConfirmation:
		return r.renderConfirmation(state)

	case dialogue.ActionRequestSlotChange:
		return slotChangeLine

	case dialogue.ActionOfferSlotCarryover:
		return r.renderCarryoverOffer(state)

	case dialogue.ActionCompleteFlight,
		dialogue.ActionCompleteAccommodation,
		dialogue.ActionCompleteActivity:
		return completionLines[action.Type]

	case dialogue.ActionCompareCitiesResult:
		city1, city2 := compareCities(state)
		if city1 == "" || city2 == "" {
			return "Here's how the two cities compare:"
		}
		return fmt.Sprintf("Here's how %s and %s compare:", city1, city2)
	}

	return clarificationLine
}

func (r *Responder) renderConfirmation(state *dialogue.State) string {
	booking := activeBooking(state)
	if booking == nil {
		return "Should I go ahead with the booking?"
	}

	var sb strings.Builder
	sb.WriteString(summaryHeader)
	for _, line := range summaryLines(booking.Task(), booking.Summary()) {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	sb.WriteString("\n")
	sb.WriteString(confirmQuestion)
	return sb.String()
}

func (r *Responder) renderCarryoverOffer(state *dialogue.State) string {
	if state == nil || len(state.PendingCarryover) == 0 {
		return "Should I reuse the details from your previous booking?"
	}

	var sb strings.Builder
	sb.WriteString("From your previous booking I still have:")
	for _, line := range summaryLines(activeTask(state), state.PendingCarryover) {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	sb.WriteString("\nShould I reuse these details?")
	return sb.String()
}

// summaryLines renders "- Label: value" lines following the task's slot
// order, with any leftover keys sorted at the end.
func summaryLines(task dialogue.Task, values map[string]string) []string {
	lines := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))

	for _, slot := range displayOrder(task) {
		if v := values[slot]; v != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", slotLabel(slot), v))
			seen[slot] = true
		}
	}

	rest := make([]string, 0, len(values))
	for slot, v := range values {
		if v != "" && !seen[slot] {
			rest = append(rest, slot)
		}
	}
	sort.Strings(rest)
	for _, slot := range rest {
		lines = append(lines, fmt.Sprintf("- %s: %s", slotLabel(slot), values[slot]))
	}

	return lines
}

// displayOrder extends the request order with optional slots so summaries
// show everything a booking holds.
func displayOrder(task dialogue.Task) []string {
	order := dialogue.SlotOrder(task)
	if task != dialogue.TaskBookFlight {
		return order
	}

	withReturn := make([]string, 0, len(order)+1)
	for _, slot := range order {
		withReturn = append(withReturn, slot)
		if slot == dialogue.SlotDepartureDate {
			withReturn = append(withReturn, dialogue.SlotReturnDate)
		}
	}
	return withReturn
}

// slotLabel humanizes a slot name: "departure_date" becomes "Departure date".
func slotLabel(slot string) string {
	label := strings.ReplaceAll(slot, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func activeBooking(state *dialogue.State) dialogue.Booking {
	if state == nil {
		return nil
	}
	return state.ActiveBooking()
}

func activeTask(state *dialogue.State) dialogue.Task {
	if state == nil {
		return ""
	}
	return state.ActiveTask
}

func compareCities(state *dialogue.State) (string, string) {
	if state == nil || state.Trip == nil {
		return "", ""
	}
	return state.Trip.CompareCities[dialogue.SlotCity1], state.Trip.CompareCities[dialogue.SlotCity2]
}

// ----------------------------------------------------
// Result formatting
// ----------------------------------------------------

// FormatActivities renders a numbered activity list: name, then rating,
// price, and short description lines when the API provided them.
func FormatActivities(activities []travel.Activity) string {
	if len(activities) == 0 {
		return "Unfortunately, I couldn't find activities for this destination at the moment."
	}

	lines := []string{"Here are some recommended activities:"}
	lines = appendActivityLines(lines, activities)
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// FormatHotels renders a numbered accommodation list with price, board
// type, and room description lines when present.
func FormatHotels(offers []travel.HotelOffer) string {
	if len(offers) == 0 {
		return "Unfortunately, I couldn't find accommodations for this destination at the moment."
	}

	lines := []string{"Here are some recommended accommodations:"}
	for i, offer := range offers {
		if i == maxResults {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, offer.Name))
		if offer.Total != "" {
			lines = append(lines, strings.TrimRight(fmt.Sprintf("   Price per night: %s %s", offer.Total, offer.Currency), " "))
		}
		if offer.BoardType != "" {
			lines = append(lines, "   Board type: "+offer.BoardType)
		}
		if offer.Description != "" {
			lines = append(lines, "   "+offer.Description)
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// FormatComparison renders the activity lists of two cities side by side.
func FormatComparison(city1, city2 string, activities1, activities2 []travel.Activity) string {
	return cityBlock(city1, activities1) + "\n\n" + cityBlock(city2, activities2)
}

func cityBlock(city string, activities []travel.Activity) string {
	if len(activities) == 0 {
		return city + ":\nNo matching activities found."
	}
	lines := []string{city + ":"}
	lines = appendActivityLines(lines, activities)
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func appendActivityLines(lines []string, activities []travel.Activity) []string {
	for i, activity := range activities {
		if i == maxResults {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, activity.Name))
		if activity.Rating != "" {
			lines = append(lines, fmt.Sprintf("   Rating: %s/5", activity.Rating))
		}
		if activity.Price.Amount != "" {
			lines = append(lines, strings.TrimRight(fmt.Sprintf("   Price: %s %s", activity.Price.Amount, activity.Price.CurrencyCode), " "))
		}
		if activity.ShortDescription != "" {
			lines = append(lines, "   "+activity.ShortDescription)
		}
		lines = append(lines, "")
	}
	return lines
}
