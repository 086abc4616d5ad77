package dialogue

// taskPair keys the carryover table by conversation direction.
type taskPair struct {
	from Task
	to   Task
}

// carryoverTable declares which source fields feed which target fields when
// the conversation switches between booking tasks. Destination and budget
// travel across every pair; dates, counts and categories never do.
// Built once, read-only.
var carryoverTable = map[taskPair]map[string]string{
	{TaskBookFlight, TaskBookAccommodation}: {
		SlotDestination: SlotDestination,
		SlotBudgetLevel: SlotBudgetLevel,
	},
	{TaskBookFlight, TaskBookActivity}: {
		SlotDestination: SlotDestination,
		SlotBudgetLevel: SlotBudgetLevel,
	},
	{TaskBookAccommodation, TaskBookFlight}: {
		SlotDestination: SlotDestination,
		SlotBudgetLevel: SlotBudgetLevel,
	},
	{TaskBookAccommodation, TaskBookActivity}: {
		SlotDestination: SlotDestination,
		SlotBudgetLevel: SlotBudgetLevel,
	},
	{TaskBookActivity, TaskBookFlight}: {
		SlotDestination: SlotDestination,
		SlotBudgetLevel: SlotBudgetLevel,
	},
	{TaskBookActivity, TaskBookAccommodation}: {
		SlotDestination: SlotDestination,
		SlotBudgetLevel: SlotBudgetLevel,
	},
}
