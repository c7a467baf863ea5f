package models

// Expense represents a dated communal spend for a meal system.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// SystemID is the owning meal system.
	SystemID string `json:"systemId"`

	// Date is the expense date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Amount is the spend amount, > 0.
	Amount float64 `json:"amount"`

	// Description is a non-empty free-text label (e.g. "Grocery").
	Description string `json:"description"`

	// PaidBy is the participant who paid, resolved through the registry at
	// write time. May be a transient participant for the "Other" path.
	PaidBy Participant `json:"paidBy"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}
