package models

// MealSystem status values.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// MealSystem represents one month's shared-expense tracking unit for a
// fixed participant group. At most one MealSystem may be active at a time;
// the lifecycle operations enforce this invariant transactionally.
type MealSystem struct {
	// ID is the unique identifier for the meal system (UUID format).
	ID string `json:"id"`

	// Month is the calendar month, 1..12.
	Month int `json:"month"`

	// Year is the calendar year.
	Year int `json:"year"`

	// TotalPersons is the declared size of the group (>= 1). It may exceed
	// len(Participants) when some members are not individually tracked.
	TotalPersons int `json:"totalPersons"`

	// Participants is the canonical participant list for the month.
	Participants []Participant `json:"participants"`

	// Status is StatusActive or StatusClosed. Mutated only by lifecycle
	// transitions (reactivate closes any other active system).
	Status string `json:"status"`

	// CreatedAt is the Unix timestamp when the system was created.
	CreatedAt int64 `json:"createdAt"`
}

// MealSystemDetail is the full aggregate returned for a single meal system.
type MealSystemDetail struct {
	Meal             *MealSystem        `json:"meal"`
	Records          []*MealRecord      `json:"records"`
	Expenses         []*Expense         `json:"expenses"`
	Settlements      []*MealSettlement  `json:"settlements"`
	FinalSettlements []*FinalSettlement `json:"finalSettlements"`
}
