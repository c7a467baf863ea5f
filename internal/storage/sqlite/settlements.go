package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/messmate/messmate/internal/models"
)

// ReplaceSettlements atomically swaps the full settlement row set for a
// system. Settlements are derived data and are always recomputed in full.
func (s *SQLiteStore) ReplaceSettlements(ctx context.Context, systemID string, rows []*models.MealSettlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM meal_settlements WHERE system_id = ?", systemID); err != nil {
		return fmt.Errorf("failed to clear settlements: %w", err)
	}

	for i, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		row.SystemID = systemID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO meal_settlements
			 (id, system_id, person_id, person_name, person_email, total_meals, per_meal_cost, personal_share, amount_paid, balance, balance_type, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, systemID, row.Person.ID, row.Person.Name, row.Person.Email,
			row.TotalMealsCount, row.PerMealCost, row.PersonalShare, row.AmountPaid,
			row.Balance, row.BalanceType, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSettlements retrieves a system's settlement rows in run order.
func (s *SQLiteStore) ListSettlements(ctx context.Context, systemID string) ([]*models.MealSettlement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, system_id, person_id, person_name, person_email, total_meals, per_meal_cost, personal_share, amount_paid, balance, balance_type
		 FROM meal_settlements WHERE system_id = ? ORDER BY position`,
		systemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.MealSettlement
	for rows.Next() {
		row := &models.MealSettlement{}
		if err := rows.Scan(&row.ID, &row.SystemID, &row.Person.ID, &row.Person.Name, &row.Person.Email,
			&row.TotalMealsCount, &row.PerMealCost, &row.PersonalShare, &row.AmountPaid,
			&row.Balance, &row.BalanceType); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// SaveFinalSettlement inserts or replaces the final settlement for
// (system, person), bills included.
func (s *SQLiteStore) SaveFinalSettlement(ctx context.Context, fs *models.FinalSettlement) error {
	if fs.ID == "" {
		fs.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// One entry per person per system: a re-add for the same person
	// replaces the old entry and its bills.
	var oldID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM final_settlements WHERE system_id = ? AND person_id = ?",
		fs.SystemID, fs.Person.ID,
	).Scan(&oldID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to check final settlement: %w", err)
	}
	if oldID != "" && oldID != fs.ID {
		if _, err := tx.ExecContext(ctx, "DELETE FROM final_settlements WHERE id = ?", oldID); err != nil {
			return fmt.Errorf("failed to replace final settlement: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO final_settlements
		 (id, system_id, person_id, person_name, person_email, previous_amount_paid, personal_share, meal_balance, meal_balance_type, total_bills, final_balance, final_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   previous_amount_paid = excluded.previous_amount_paid,
		   personal_share = excluded.personal_share,
		   meal_balance = excluded.meal_balance,
		   meal_balance_type = excluded.meal_balance_type,
		   total_bills = excluded.total_bills,
		   final_balance = excluded.final_balance,
		   final_type = excluded.final_type`,
		fs.ID, fs.SystemID, fs.Person.ID, fs.Person.Name, fs.Person.Email,
		fs.PreviousAmountPaid, fs.PersonalShare, fs.MealBalance, fs.MealBalanceType,
		fs.TotalBills, fs.FinalBalance, fs.FinalType,
	)
	if err != nil {
		return fmt.Errorf("failed to save final settlement: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM final_settlement_bills WHERE final_id = ?", fs.ID); err != nil {
		return fmt.Errorf("failed to clear bills: %w", err)
	}
	for i, b := range fs.Bills {
		ignored := 0
		if b.Ignored {
			ignored = 1
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO final_settlement_bills (final_id, position, kind, custom_name, amount, description, ignored) VALUES (?, ?, ?, ?, ?, ?, ?)",
			fs.ID, i, string(b.Kind), b.CustomName, b.Amount, b.Description, ignored,
		)
		if err != nil {
			return fmt.Errorf("failed to insert bill: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetFinalSettlement retrieves a final settlement entry with its bills.
func (s *SQLiteStore) GetFinalSettlement(ctx context.Context, finalID string) (*models.FinalSettlement, error) {
	fs := &models.FinalSettlement{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, system_id, person_id, person_name, person_email, previous_amount_paid, personal_share, meal_balance, meal_balance_type, total_bills, final_balance, final_type
		 FROM final_settlements WHERE id = ?`,
		finalID,
	).Scan(&fs.ID, &fs.SystemID, &fs.Person.ID, &fs.Person.Name, &fs.Person.Email,
		&fs.PreviousAmountPaid, &fs.PersonalShare, &fs.MealBalance, &fs.MealBalanceType,
		&fs.TotalBills, &fs.FinalBalance, &fs.FinalType)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("final settlement not found: %s", finalID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get final settlement: %w", err)
	}

	if fs.Bills, err = s.bills(ctx, fs.ID); err != nil {
		return nil, err
	}
	return fs, nil
}

func (s *SQLiteStore) bills(ctx context.Context, finalID string) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, custom_name, amount, description, ignored FROM final_settlement_bills WHERE final_id = ? ORDER BY position",
		finalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		var kind string
		var ignored int
		if err := rows.Scan(&kind, &b.CustomName, &b.Amount, &b.Description, &ignored); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		b.Kind = models.BillKind(kind)
		b.Ignored = ignored == 1
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// ListFinalSettlements retrieves a system's final settlement entries.
func (s *SQLiteStore) ListFinalSettlements(ctx context.Context, systemID string) ([]*models.FinalSettlement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM final_settlements WHERE system_id = ? ORDER BY person_id",
		systemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list final settlements: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan final settlement id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate final settlements: %w", err)
	}

	var settlements []*models.FinalSettlement
	for _, id := range ids {
		fs, err := s.GetFinalSettlement(ctx, id)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, fs)
	}
	return settlements, nil
}
