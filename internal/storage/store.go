// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/messmate/messmate/internal/models"
)

// Store defines the persistence interface over meal-system aggregates.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Write operations are atomic per aggregate. Two operations span several
// aggregates and must commit as one transaction: ReactivateMealSystem
// (single-active invariant) and ReplaceSettlements (replace-all-rows).
type Store interface {
	// CreateMealSystem persists a new meal system with its participants.
	// The ID and CreatedAt fields are populated when unset.
	CreateMealSystem(ctx context.Context, ms *models.MealSystem) error

	// GetMealSystem retrieves a meal system with its participant list.
	GetMealSystem(ctx context.Context, id string) (*models.MealSystem, error)

	// ListMealSystems retrieves all meal systems, newest first.
	ListMealSystems(ctx context.Context) ([]*models.MealSystem, error)

	// ActiveMealSystem returns the currently active meal system, or
	// (nil, nil) when none is active.
	ActiveMealSystem(ctx context.Context) (*models.MealSystem, error)

	// DeleteMealSystem removes a meal system and everything it owns.
	DeleteMealSystem(ctx context.Context, id string) error

	// ReactivateMealSystem marks the target active and any other active
	// system closed, in a single transaction.
	ReactivateMealSystem(ctx context.Context, id string) error

	// ClearHistory deletes the system's records, expenses and settlements
	// while preserving the system and its participants.
	ClearHistory(ctx context.Context, id string) error

	// SaveRecord inserts or updates a meal record, replacing its entries.
	SaveRecord(ctx context.Context, rec *models.MealRecord) error

	// GetRecord retrieves a meal record with its entries.
	GetRecord(ctx context.Context, recordID string) (*models.MealRecord, error)

	// GetRecordByDate returns the dated (non-bulk) record for a system, or
	// (nil, nil) when the date has no record yet.
	GetRecordByDate(ctx context.Context, systemID, date string) (*models.MealRecord, error)

	// DeleteRecord removes a record and its entries.
	DeleteRecord(ctx context.Context, recordID string) error

	// ListRecords retrieves a system's records, dated ones first by date,
	// bulk records last.
	ListRecords(ctx context.Context, systemID string) ([]*models.MealRecord, error)

	// CreateExpense persists a new expense.
	CreateExpense(ctx context.Context, exp *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense updates an existing expense.
	UpdateExpense(ctx context.Context, exp *models.Expense) error

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpenses retrieves a system's expenses by date.
	ListExpenses(ctx context.Context, systemID string) ([]*models.Expense, error)

	// ReplaceSettlements atomically replaces all settlement rows for a
	// system with the given rows.
	ReplaceSettlements(ctx context.Context, systemID string, rows []*models.MealSettlement) error

	// ListSettlements retrieves a system's settlement rows.
	ListSettlements(ctx context.Context, systemID string) ([]*models.MealSettlement, error)

	// SaveFinalSettlement inserts or replaces the final settlement entry
	// for (system, person), including its bills.
	SaveFinalSettlement(ctx context.Context, fs *models.FinalSettlement) error

	// GetFinalSettlement retrieves a final settlement entry with bills.
	GetFinalSettlement(ctx context.Context, finalID string) (*models.FinalSettlement, error)

	// ListFinalSettlements retrieves a system's final settlement entries.
	ListFinalSettlements(ctx context.Context, systemID string) ([]*models.FinalSettlement, error)

	// Close releases any resources held by the store.
	Close() error
}
