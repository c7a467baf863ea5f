package models

// Balance classification for a meal settlement. "owed" means money is owed
// to the participant (they paid at least their share), "owes" means they
// still have to pay. A zero balance classifies as owed.
const (
	BalanceOwed = "owed"
	BalanceOwes = "owes"
)

// MealSettlement is one participant's provisional balance for a meal
// system. Rows are recomputed in full on every settlement run and replace
// the previous rows atomically.
type MealSettlement struct {
	// ID is the unique identifier for the settlement row (UUID format).
	ID string `json:"id"`

	// SystemID is the owning meal system.
	SystemID string `json:"systemId"`

	// Person is the participant this row belongs to.
	Person Participant `json:"person"`

	// TotalMealsCount is the participant's meals for the month.
	TotalMealsCount int `json:"totalMealsCount"`

	// PerMealCost is the communal cost of a single meal
	// (total spend / total meals), shared by every row of a run.
	PerMealCost float64 `json:"perMealCost"`

	// PersonalShare is PerMealCost * TotalMealsCount.
	PersonalShare float64 `json:"personalShare"`

	// AmountPaid is the sum of expenses paid by this participant.
	AmountPaid float64 `json:"amountPaid"`

	// Balance is AmountPaid - PersonalShare. Positive means money is owed
	// to the participant. Stored signed.
	Balance float64 `json:"balance"`

	// BalanceType is BalanceOwed when Balance >= 0, else BalanceOwes.
	BalanceType string `json:"balanceType"`
}
