package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/messmate/messmate/internal/models"
)

// LogMealInput carries one participant's counts for one date, with an
// optional companion spend.
type LogMealInput struct {
	Date        string             `json:"date"`
	Participant models.Participant `json:"participant"`
	LunchCount  int                `json:"lunchCount"`
	DinnerCount int                `json:"dinnerCount"`
	Spend       *SpendInput        `json:"spend,omitempty"`
}

// SpendInput is an inline expense attached to a meal log or bulk add.
type SpendInput struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// LogMeal records a participant's lunch/dinner counts for a date. When an
// entry for that date+participant already exists the new counts replace
// it (last write wins). An optional spend creates a companion expense.
func (s *MealService) LogMeal(ctx context.Context, systemID string, in LogMealInput) (*models.MealRecord, error) {
	ms, err := s.store.GetMealSystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	if !validDate(in.Date) {
		return nil, models.Validationf("invalid date %q, expected YYYY-MM-DD", in.Date)
	}
	if in.LunchCount < 0 || in.DinnerCount < 0 {
		return nil, models.Validationf("meal counts must not be negative")
	}
	if in.Spend != nil {
		if in.Spend.Amount <= 0 {
			return nil, models.Validationf("spend amount must be greater than 0")
		}
		if in.Spend.Description == "" {
			in.Spend.Description = "Personal spend"
		}
	}

	reg, err := registryFor(ms)
	if err != nil {
		return nil, err
	}
	person := reg.ResolveParticipant(in.Participant)
	if person.ID == "" {
		return nil, models.Validationf("participant reference is empty")
	}

	rec, err := s.store.GetRecordByDate(ctx, systemID, in.Date)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &models.MealRecord{SystemID: systemID, Date: in.Date}
	}

	entry := models.MealEntry{Participant: person, LunchCount: in.LunchCount, DinnerCount: in.DinnerCount}
	replaced := false
	for i, e := range rec.Entries {
		if e.Participant.ID == person.ID {
			rec.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		rec.Entries = append(rec.Entries, entry)
	}

	if err := s.store.SaveRecord(ctx, rec); err != nil {
		slog.Error("LogMeal failed", "system_id", systemID, "error", err)
		return nil, err
	}

	if in.Spend != nil {
		exp := &models.Expense{
			SystemID:    systemID,
			Date:        in.Date,
			Amount:      in.Spend.Amount,
			Description: in.Spend.Description,
			PaidBy:      person,
		}
		if err := s.store.CreateExpense(ctx, exp); err != nil {
			slog.Error("LogMeal companion expense failed", "system_id", systemID, "error", err)
			return nil, err
		}
	}

	slog.Info("Meal logged", "system_id", systemID, "date", in.Date,
		"participant", person.ID, "lunch", in.LunchCount, "dinner", in.DinnerCount,
		"replaced", replaced)
	return rec, nil
}

// BulkAddInput carries a catch-up entry: counts with no date binding and
// an optional aggregate spend.
type BulkAddInput struct {
	Participant models.Participant `json:"participant"`
	LunchCount  int                `json:"lunchCount"`
	DinnerCount int                `json:"dinnerCount"`
	TotalSpend  float64            `json:"totalSpend"`
	Description string             `json:"description"`
}

// BulkAdd inserts counts attributed to the month total rather than a
// single day. A companion expense is created when TotalSpend > 0.
func (s *MealService) BulkAdd(ctx context.Context, systemID string, in BulkAddInput) (*models.MealRecord, error) {
	ms, err := s.store.GetMealSystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	if in.LunchCount < 0 || in.DinnerCount < 0 {
		return nil, models.Validationf("meal counts must not be negative")
	}
	if in.LunchCount+in.DinnerCount == 0 {
		return nil, models.Validationf("bulk add requires at least one lunch or dinner")
	}
	if in.TotalSpend < 0 {
		return nil, models.Validationf("totalSpend must not be negative")
	}

	reg, err := registryFor(ms)
	if err != nil {
		return nil, err
	}
	person := reg.ResolveParticipant(in.Participant)
	if person.ID == "" {
		return nil, models.Validationf("participant reference is empty")
	}

	rec := &models.MealRecord{
		SystemID: systemID,
		Bulk:     true,
		Entries: []models.MealEntry{
			{Participant: person, LunchCount: in.LunchCount, DinnerCount: in.DinnerCount},
		},
	}
	if err := s.store.SaveRecord(ctx, rec); err != nil {
		slog.Error("BulkAdd failed", "system_id", systemID, "error", err)
		return nil, err
	}

	if in.TotalSpend > 0 {
		desc := in.Description
		if desc == "" {
			desc = "Bulk add"
		}
		exp := &models.Expense{
			SystemID:    systemID,
			Date:        time.Now().Format("2006-01-02"),
			Amount:      in.TotalSpend,
			Description: desc,
			PaidBy:      person,
		}
		if err := s.store.CreateExpense(ctx, exp); err != nil {
			// Roll the record back so the catch-up either lands whole or
			// not at all.
			if derr := s.store.DeleteRecord(ctx, rec.ID); derr != nil {
				slog.Error("BulkAdd rollback failed", "record_id", rec.ID, "error", derr)
			}
			slog.Error("BulkAdd companion expense failed", "system_id", systemID, "error", err)
			return nil, err
		}
	}

	slog.Info("Bulk data added", "system_id", systemID, "participant", person.ID,
		"lunch", in.LunchCount, "dinner", in.DinnerCount, "spend", in.TotalSpend)
	return rec, nil
}

// EditRecordInput re-dates a record and replaces its counts.
type EditRecordInput struct {
	Date        string `json:"date"`
	LunchCount  int    `json:"lunchCount"`
	DinnerCount int    `json:"dinnerCount"`
}

// EditRecord updates a whole record. Count edits apply only to records
// holding a single entry; a record with several per-person entries must
// be edited by re-logging each person.
func (s *MealService) EditRecord(ctx context.Context, recordID string, in EditRecordInput) (*models.MealRecord, error) {
	rec, err := s.store.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if in.LunchCount < 0 || in.DinnerCount < 0 {
		return nil, models.Validationf("meal counts must not be negative")
	}

	if !rec.Bulk {
		if !validDate(in.Date) {
			return nil, models.Validationf("invalid date %q, expected YYYY-MM-DD", in.Date)
		}
		if in.Date != rec.Date {
			other, err := s.store.GetRecordByDate(ctx, rec.SystemID, in.Date)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, models.Conflictf("a record for %s already exists", in.Date)
			}
			rec.Date = in.Date
		}
	}

	if in.LunchCount != rec.LunchCount() || in.DinnerCount != rec.DinnerCount() {
		if len(rec.Entries) != 1 {
			return nil, models.Validationf("record has per-person entries; log meals individually instead")
		}
		rec.Entries[0].LunchCount = in.LunchCount
		rec.Entries[0].DinnerCount = in.DinnerCount
	}

	if err := s.store.SaveRecord(ctx, rec); err != nil {
		slog.Error("EditRecord failed", "record_id", recordID, "error", err)
		return nil, err
	}
	slog.Info("Record updated", "record_id", recordID, "date", rec.Date)
	return rec, nil
}

// DeleteRecord removes a whole record with its entries.
func (s *MealService) DeleteRecord(ctx context.Context, recordID string) error {
	if err := s.store.DeleteRecord(ctx, recordID); err != nil {
		return err
	}
	slog.Info("Record deleted", "record_id", recordID)
	return nil
}

// ExpenseInput carries the fields of an expense write.
type ExpenseInput struct {
	Date        string             `json:"date"`
	Amount      float64            `json:"amount"`
	Description string             `json:"description"`
	PaidBy      models.Participant `json:"paidBy"`
}

func (s *MealService) validateExpense(in ExpenseInput) error {
	if !validDate(in.Date) {
		return models.Validationf("invalid date %q, expected YYYY-MM-DD", in.Date)
	}
	if in.Amount <= 0 {
		return models.Validationf("amount must be greater than 0")
	}
	if in.Description == "" {
		return models.Validationf("description must not be empty")
	}
	return nil
}

// AddExpense records a communal spend. PaidBy is resolved through the
// registry at write time so later identity drift cannot change historical
// attribution.
func (s *MealService) AddExpense(ctx context.Context, systemID string, in ExpenseInput) (*models.Expense, error) {
	ms, err := s.store.GetMealSystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	if err := s.validateExpense(in); err != nil {
		return nil, err
	}

	reg, err := registryFor(ms)
	if err != nil {
		return nil, err
	}
	paidBy := reg.ResolveParticipant(in.PaidBy)

	exp := &models.Expense{
		SystemID:    systemID,
		Date:        in.Date,
		Amount:      in.Amount,
		Description: in.Description,
		PaidBy:      paidBy,
	}
	if err := s.store.CreateExpense(ctx, exp); err != nil {
		slog.Error("AddExpense failed", "system_id", systemID, "error", err)
		return nil, err
	}
	slog.Info("Expense added", "system_id", systemID, "expense_id", exp.ID,
		"amount", exp.Amount, "paid_by", paidBy.ID)
	return exp, nil
}

// EditExpense updates an existing expense, re-resolving PaidBy.
func (s *MealService) EditExpense(ctx context.Context, expenseID string, in ExpenseInput) (*models.Expense, error) {
	exp, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.validateExpense(in); err != nil {
		return nil, err
	}

	ms, err := s.store.GetMealSystem(ctx, exp.SystemID)
	if err != nil {
		return nil, err
	}
	reg, err := registryFor(ms)
	if err != nil {
		return nil, err
	}

	exp.Date = in.Date
	exp.Amount = in.Amount
	exp.Description = in.Description
	exp.PaidBy = reg.ResolveParticipant(in.PaidBy)

	if err := s.store.UpdateExpense(ctx, exp); err != nil {
		slog.Error("EditExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}
	slog.Info("Expense updated", "expense_id", expenseID, "amount", exp.Amount)
	return exp, nil
}

// DeleteExpense removes an expense.
func (s *MealService) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return err
	}
	slog.Info("Expense deleted", "expense_id", expenseID)
	return nil
}
