package dialogue

// Task identifies one conversational task.
type Task string

const (
	TaskBookFlight        Task = "BOOK_FLIGHT"
	TaskBookAccommodation Task = "BOOK_ACCOMMODATION"
	TaskBookActivity      Task = "BOOK_ACTIVITY"
	TaskCompareCities     Task = "COMPARE_CITIES"
)

// Intent tokens that are recognized but are not tasks.
const (
	IntentEndDialogue = "END_DIALOGUE"
	IntentOutOfDomain = "OOD"
)

// BookingTasks lists the three slot-filling tasks in a stable order.
var BookingTasks = []Task{TaskBookFlight, TaskBookAccommodation, TaskBookActivity}

// IsBooking reports whether the task owns a slot-filling booking record.
// COMPARE_CITIES is informational and has none.
func (t Task) IsBooking() bool {
	switch t {
	case TaskBookFlight, TaskBookAccommodation, TaskBookActivity:
		return true
	}
	return false
}

// taskFromIntent maps a recognized NLU intent onto a Task. ok is false for
// END_DIALOGUE, OOD, empty, and any other out-of-domain token.
func taskFromIntent(intent string) (Task, bool) {
	switch Task(intent) {
	case TaskBookFlight, TaskBookAccommodation, TaskBookActivity, TaskCompareCities:
		return Task(intent), true
	}
	return "", false
}
