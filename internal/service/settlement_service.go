package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/messmate/messmate/internal/calculator"
	"github.com/messmate/messmate/internal/metrics"
	"github.com/messmate/messmate/internal/models"
)

// ComputeSettlement recomputes the provisional settlement for a system
// and atomically replaces the stored rows. When no meals are recorded the
// computation fails and no rows are written.
func (s *MealService) ComputeSettlement(ctx context.Context, systemID string) ([]*models.MealSettlement, error) {
	ms, err := s.store.GetMealSystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListRecords(ctx, systemID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, systemID)
	if err != nil {
		return nil, err
	}

	rows, err := calculator.ComputeSettlement(ms.Participants, records, expenses)
	if err != nil {
		if errors.Is(err, models.ErrZeroMeals) {
			metrics.SettlementFailures.Inc()
		}
		slog.Warn("ComputeSettlement rejected", "system_id", systemID, "error", err)
		return nil, err
	}
	for _, row := range rows {
		row.SystemID = systemID
	}

	if err := s.store.ReplaceSettlements(ctx, systemID, rows); err != nil {
		slog.Error("ComputeSettlement store failed", "system_id", systemID, "error", err)
		return nil, err
	}

	metrics.SettlementRuns.Inc()
	slog.Info("Settlement computed", "system_id", systemID, "rows", len(rows))
	return rows, nil
}

// FinalEntryInput is one participant's bill set for a final settlement.
type FinalEntryInput struct {
	Person models.Participant `json:"person"`
	Bills  []models.Bill      `json:"bills"`
}

func validateBills(bills []models.Bill) error {
	for _, b := range bills {
		if !models.ValidBillKind(b.Kind) {
			return models.Validationf("unknown bill kind %q", b.Kind)
		}
		if b.Kind == models.BillCustom && b.CustomName == "" {
			return models.Validationf("custom bill requires a name")
		}
		if b.Amount < 0 {
			return models.Validationf("bill amount must not be negative")
		}
	}
	return nil
}

// AddFinalSettlementEntries creates (or replaces) final settlement entries
// for the given participants. The meal settlement values are snapshotted
// at creation time; participants without a settlement row get a zero
// snapshot. All entries are validated before any is written.
func (s *MealService) AddFinalSettlementEntries(ctx context.Context, systemID string, entries []FinalEntryInput) ([]*models.FinalSettlement, error) {
	ms, err := s.store.GetMealSystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, models.Validationf("at least one entry is required")
	}
	for _, e := range entries {
		if err := validateBills(e.Bills); err != nil {
			return nil, err
		}
	}

	reg, err := registryFor(ms)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, systemID)
	if err != nil {
		return nil, err
	}
	byPerson := make(map[string]*models.MealSettlement, len(settlements))
	for _, row := range settlements {
		byPerson[row.Person.ID] = row
	}

	results := make([]*models.FinalSettlement, 0, len(entries))
	for _, e := range entries {
		person := reg.ResolveParticipant(e.Person)
		if person.ID == "" {
			return nil, models.Validationf("entry participant reference is empty")
		}

		snapshot := models.MealSettlement{SystemID: systemID, Person: person, BalanceType: models.BalanceOwed}
		if row, ok := byPerson[person.ID]; ok {
			snapshot = *row
		}

		fs := calculator.ComposeFinal(snapshot, e.Bills)
		fs.SystemID = systemID
		if err := s.store.SaveFinalSettlement(ctx, &fs); err != nil {
			slog.Error("AddFinalSettlementEntries failed", "system_id", systemID,
				"person", person.ID, "error", err)
			return nil, err
		}
		results = append(results, &fs)
	}

	slog.Info("Final settlement saved", "system_id", systemID, "entries", len(results))
	return results, nil
}

// EditFinalSettlementBills replaces the bill set of one final settlement
// entry and recomputes its totals. The meal settlement snapshot is left
// untouched: new meal records never retroactively change finalized bills.
func (s *MealService) EditFinalSettlementBills(ctx context.Context, finalID string, bills []models.Bill) (*models.FinalSettlement, error) {
	fs, err := s.store.GetFinalSettlement(ctx, finalID)
	if err != nil {
		return nil, err
	}
	if err := validateBills(bills); err != nil {
		return nil, err
	}

	next := calculator.Recompose(*fs, bills)
	if err := s.store.SaveFinalSettlement(ctx, &next); err != nil {
		slog.Error("EditFinalSettlementBills failed", "final_id", finalID, "error", err)
		return nil, err
	}
	slog.Info("Final settlement bills updated", "final_id", finalID, "bills", len(bills))
	return &next, nil
}
