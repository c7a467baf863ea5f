package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/messmate/messmate/internal/models"
)

// CreateExpense persists a new expense.
func (s *SQLiteStore) CreateExpense(ctx context.Context, exp *models.Expense) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, system_id, date, amount, description, paid_by_id, paid_by_name, paid_by_email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.ID, exp.SystemID, exp.Date, exp.Amount, exp.Description,
		exp.PaidBy.ID, exp.PaidBy.Name, exp.PaidBy.Email, exp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	exp := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, system_id, date, amount, description, paid_by_id, paid_by_name, paid_by_email, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&exp.ID, &exp.SystemID, &exp.Date, &exp.Amount, &exp.Description,
		&exp.PaidBy.ID, &exp.PaidBy.Name, &exp.PaidBy.Email, &exp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return exp, nil
}

// UpdateExpense updates an existing expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, exp *models.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET date = ?, amount = ?, description = ?, paid_by_id = ?, paid_by_name = ?, paid_by_email = ?
		 WHERE id = ?`,
		exp.Date, exp.Amount, exp.Description,
		exp.PaidBy.ID, exp.PaidBy.Name, exp.PaidBy.Email, exp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("expense not found: %s", exp.ID)
	}
	return nil
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("expense not found: %s", expenseID)
	}
	return nil
}

// ListExpenses retrieves a system's expenses ordered by date.
func (s *SQLiteStore) ListExpenses(ctx context.Context, systemID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, system_id, date, amount, description, paid_by_id, paid_by_name, paid_by_email, created_at
		 FROM expenses WHERE system_id = ? ORDER BY date, created_at`,
		systemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		exp := &models.Expense{}
		if err := rows.Scan(&exp.ID, &exp.SystemID, &exp.Date, &exp.Amount, &exp.Description,
			&exp.PaidBy.ID, &exp.PaidBy.Name, &exp.PaidBy.Email, &exp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
