// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/messmate/messmate/internal/models"
	"github.com/messmate/messmate/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// The pragma goes in the DSN so every pooled connection enforces
	// foreign keys, not just the first one.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateMealSystem persists a new meal system with its participant list.
func (s *SQLiteStore) CreateMealSystem(ctx context.Context, ms *models.MealSystem) error {
	if ms.ID == "" {
		ms.ID = uuid.New().String()
	}
	if ms.CreatedAt == 0 {
		ms.CreatedAt = time.Now().Unix()
	}
	if ms.Status == "" {
		ms.Status = models.StatusActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO meal_systems (id, month, year, total_persons, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		ms.ID, ms.Month, ms.Year, ms.TotalPersons, ms.Status, ms.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert meal system: %w", err)
	}

	for i, p := range ms.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO system_participants (system_id, participant_id, name, email, position) VALUES (?, ?, ?, ?, ?)",
			ms.ID, p.ID, p.Name, p.Email, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetMealSystem retrieves a meal system and its participants.
func (s *SQLiteStore) GetMealSystem(ctx context.Context, id string) (*models.MealSystem, error) {
	ms := &models.MealSystem{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, month, year, total_persons, status, created_at FROM meal_systems WHERE id = ?",
		id,
	).Scan(&ms.ID, &ms.Month, &ms.Year, &ms.TotalPersons, &ms.Status, &ms.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("meal system not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal system: %w", err)
	}

	if ms.Participants, err = s.participants(ctx, ms.ID); err != nil {
		return nil, err
	}
	return ms, nil
}

func (s *SQLiteStore) participants(ctx context.Context, systemID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, name, email FROM system_participants WHERE system_id = ? ORDER BY position",
		systemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// ListMealSystems retrieves all meal systems, newest first.
func (s *SQLiteStore) ListMealSystems(ctx context.Context) ([]*models.MealSystem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, month, year, total_persons, status, created_at FROM meal_systems ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal systems: %w", err)
	}
	defer rows.Close()

	var systems []*models.MealSystem
	for rows.Next() {
		ms := &models.MealSystem{}
		if err := rows.Scan(&ms.ID, &ms.Month, &ms.Year, &ms.TotalPersons, &ms.Status, &ms.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal system: %w", err)
		}
		systems = append(systems, ms)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal systems: %w", err)
	}

	for _, ms := range systems {
		if ms.Participants, err = s.participants(ctx, ms.ID); err != nil {
			return nil, err
		}
	}
	return systems, nil
}

// ActiveMealSystem returns the active meal system, or (nil, nil) when no
// system is active.
func (s *SQLiteStore) ActiveMealSystem(ctx context.Context) (*models.MealSystem, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM meal_systems WHERE status = ? LIMIT 1", models.StatusActive,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active meal system: %w", err)
	}
	return s.GetMealSystem(ctx, id)
}

// DeleteMealSystem removes a meal system; owned rows cascade.
func (s *SQLiteStore) DeleteMealSystem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM meal_systems WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete meal system: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("meal system not found: %s", id)
	}
	return nil
}

// ReactivateMealSystem activates the target and closes any other active
// system. Both transitions commit together or not at all.
func (s *SQLiteStore) ReactivateMealSystem(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE meal_systems SET status = ? WHERE id = ?", models.StatusActive, id,
	)
	if err != nil {
		return fmt.Errorf("failed to activate meal system: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("meal system not found: %s", id)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE meal_systems SET status = ? WHERE status = ? AND id != ?",
		models.StatusClosed, models.StatusActive, id,
	)
	if err != nil {
		return fmt.Errorf("failed to close other meal systems: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClearHistory deletes the system's records, expenses and settlements but
// keeps the meal system and its participants.
func (s *SQLiteStore) ClearHistory(ctx context.Context, id string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM meal_systems WHERE id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return models.NotFoundf("meal system not found: %s", id)
	}
	if err != nil {
		return fmt.Errorf("failed to check meal system existence: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM meal_records WHERE system_id = ?",
		"DELETE FROM expenses WHERE system_id = ?",
		"DELETE FROM meal_settlements WHERE system_id = ?",
		"DELETE FROM final_settlements WHERE system_id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
