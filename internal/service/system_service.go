// Package service implements the meal-system operations on top of the
// storage layer: lifecycle, ledgers and settlement.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/messmate/messmate/internal/models"
	"github.com/messmate/messmate/internal/registry"
	"github.com/messmate/messmate/internal/storage"
)

// MealService exposes every meal-system operation. All validation happens
// here, before any store mutation, so a failed operation never leaves a
// partial write behind.
type MealService struct {
	store storage.Store
}

// NewMealService creates a MealService with the given storage backend.
func NewMealService(store storage.Store) *MealService {
	return &MealService{store: store}
}

// CreateMealSystemInput carries the parameters for CreateMealSystem.
// Participants may arrive as loose {name, email} pairs; free-text emails
// get auto-generated names.
type CreateMealSystemInput struct {
	Month        int                  `json:"month"`
	Year         int                  `json:"year"`
	TotalPersons int                  `json:"totalPersons"`
	Participants []models.Participant `json:"participants"`
}

// CreateMealSystem creates a new active meal system. It fails with a
// conflict when another system is already active or when two participants
// share an identity key.
func (s *MealService) CreateMealSystem(ctx context.Context, in CreateMealSystemInput) (*models.MealSystem, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, models.Validationf("month must be between 1 and 12, got %d", in.Month)
	}
	if in.Year < 1 {
		return nil, models.Validationf("year must be positive, got %d", in.Year)
	}
	if len(in.Participants) == 0 {
		return nil, models.Validationf("at least one participant is required")
	}
	if in.TotalPersons == 0 {
		in.TotalPersons = len(in.Participants)
	}
	if in.TotalPersons < 1 {
		return nil, models.Validationf("totalPersons must be at least 1, got %d", in.TotalPersons)
	}

	// Normalize loose references (bare email strings become named
	// participants) before registry build.
	normalized := make([]models.Participant, len(in.Participants))
	for i, p := range in.Participants {
		if p.Email == "" && p.Name != "" {
			normalized[i] = registry.ParseReference(p.Name)
			continue
		}
		p.ID = p.IdentityKey()
		normalized[i] = p
	}

	reg, err := registry.Build(normalized)
	if err != nil {
		return nil, err
	}

	active, err := s.store.ActiveMealSystem(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, models.Conflictf("meal system for %d/%d is already active; close it first",
			active.Month, active.Year)
	}

	ms := &models.MealSystem{
		Month:        in.Month,
		Year:         in.Year,
		TotalPersons: in.TotalPersons,
		Participants: reg.Participants(),
		Status:       models.StatusActive,
	}
	if err := s.store.CreateMealSystem(ctx, ms); err != nil {
		slog.Error("CreateMealSystem failed", "error", err)
		return nil, err
	}

	slog.Info("Meal system created", "system_id", ms.ID, "month", ms.Month, "year", ms.Year,
		"participants", len(ms.Participants))
	return ms, nil
}

// ListMealSystems returns all meal systems, newest first.
func (s *MealService) ListMealSystems(ctx context.Context) ([]*models.MealSystem, error) {
	return s.store.ListMealSystems(ctx)
}

// GetMealSystem assembles the full detail aggregate for one system.
func (s *MealService) GetMealSystem(ctx context.Context, id string) (*models.MealSystemDetail, error) {
	ms, err := s.store.GetMealSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.MealSystemDetail{Meal: ms}
	if detail.Records, err = s.store.ListRecords(ctx, id); err != nil {
		return nil, err
	}
	if detail.Expenses, err = s.store.ListExpenses(ctx, id); err != nil {
		return nil, err
	}
	if detail.Settlements, err = s.store.ListSettlements(ctx, id); err != nil {
		return nil, err
	}
	if detail.FinalSettlements, err = s.store.ListFinalSettlements(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

// Reactivate transitions a system back to active, closing any other
// active system in the same transaction.
func (s *MealService) Reactivate(ctx context.Context, id string) (*models.MealSystem, error) {
	if err := s.store.ReactivateMealSystem(ctx, id); err != nil {
		return nil, err
	}
	slog.Info("Meal system reactivated", "system_id", id)
	return s.store.GetMealSystem(ctx, id)
}

// ClearHistory deletes all records, expenses and settlements of a system
// while preserving the system and its participant list.
func (s *MealService) ClearHistory(ctx context.Context, id string) error {
	if err := s.store.ClearHistory(ctx, id); err != nil {
		return err
	}
	slog.Info("Meal system history cleared", "system_id", id)
	return nil
}

// DeleteMealSystem deletes a system and everything it owns. Only an
// active system may be deleted; closed systems are cleared or reactivated
// instead.
func (s *MealService) DeleteMealSystem(ctx context.Context, id string) error {
	ms, err := s.store.GetMealSystem(ctx, id)
	if err != nil {
		return err
	}
	if ms.Status != models.StatusActive {
		return models.Conflictf("only an active meal system can be deleted")
	}
	if err := s.store.DeleteMealSystem(ctx, id); err != nil {
		return err
	}
	slog.Info("Meal system deleted", "system_id", id)
	return nil
}

// registryFor rebuilds the participant registry of a stored system.
func registryFor(ms *models.MealSystem) (*registry.Registry, error) {
	return registry.Build(ms.Participants)
}

// validDate checks the YYYY-MM-DD shape.
func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
