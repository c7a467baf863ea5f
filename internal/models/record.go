package models

// MealEntry holds one participant's counts for one record.
type MealEntry struct {
	// Participant is a value copy of the resolved participant.
	Participant Participant `json:"participant"`

	// LunchCount is the number of lunches, >= 0.
	LunchCount int `json:"lunchCount"`

	// DinnerCount is the number of dinners, >= 0.
	DinnerCount int `json:"dinnerCount"`
}

// TotalMealsCount returns the entry's lunch + dinner count.
func (e MealEntry) TotalMealsCount() int {
	return e.LunchCount + e.DinnerCount
}

// MealRecord groups the meal entries for one date of a meal system.
// There is at most one record per (system, date); logging a meal for a
// participant who already has an entry on that date replaces the entry
// (last write wins).
//
// A bulk record (Bulk == true) is a catch-up entry with no date binding:
// its single entry is attributed to the month total rather than a day.
type MealRecord struct {
	// ID is the unique identifier for the record (UUID format).
	ID string `json:"id"`

	// SystemID is the owning meal system.
	SystemID string `json:"systemId"`

	// Date is the record date in YYYY-MM-DD form. Empty for bulk records.
	Date string `json:"date"`

	// Bulk marks a catch-up record not tied to a specific day.
	Bulk bool `json:"bulk"`

	// Entries are the per-participant counts for this record.
	Entries []MealEntry `json:"entries"`
}

// LunchCount returns the record's total lunches across entries.
func (r *MealRecord) LunchCount() int {
	var n int
	for _, e := range r.Entries {
		n += e.LunchCount
	}
	return n
}

// DinnerCount returns the record's total dinners across entries.
func (r *MealRecord) DinnerCount() int {
	var n int
	for _, e := range r.Entries {
		n += e.DinnerCount
	}
	return n
}

// TotalMealsCount returns the record's total meals across entries.
func (r *MealRecord) TotalMealsCount() int {
	return r.LunchCount() + r.DinnerCount()
}
