package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/messmate/messmate/internal/models"
)

// SaveRecord inserts or updates a meal record, replacing its entries.
func (s *SQLiteStore) SaveRecord(ctx context.Context, rec *models.MealRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	bulk := 0
	if rec.Bulk {
		bulk = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO meal_records (id, system_id, date, bulk) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET date = excluded.date, bulk = excluded.bulk`,
		rec.ID, rec.SystemID, rec.Date, bulk,
	)
	if err != nil {
		return fmt.Errorf("failed to save meal record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM meal_entries WHERE record_id = ?", rec.ID); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	for _, e := range rec.Entries {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO meal_entries (record_id, participant_id, name, email, lunch_count, dinner_count) VALUES (?, ?, ?, ?, ?, ?)",
			rec.ID, e.Participant.ID, e.Participant.Name, e.Participant.Email, e.LunchCount, e.DinnerCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRecord retrieves a meal record with its entries.
func (s *SQLiteStore) GetRecord(ctx context.Context, recordID string) (*models.MealRecord, error) {
	rec := &models.MealRecord{}
	var bulk int
	err := s.db.QueryRowContext(ctx,
		"SELECT id, system_id, date, bulk FROM meal_records WHERE id = ?",
		recordID,
	).Scan(&rec.ID, &rec.SystemID, &rec.Date, &bulk)
	if err == sql.ErrNoRows {
		return nil, models.NotFoundf("meal record not found: %s", recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal record: %w", err)
	}
	rec.Bulk = bulk == 1

	if rec.Entries, err = s.entries(ctx, rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetRecordByDate returns the dated record for a system, or (nil, nil)
// when the date has no record yet.
func (s *SQLiteStore) GetRecordByDate(ctx context.Context, systemID, date string) (*models.MealRecord, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM meal_records WHERE system_id = ? AND date = ? AND bulk = 0",
		systemID, date,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record by date: %w", err)
	}
	return s.GetRecord(ctx, id)
}

func (s *SQLiteStore) entries(ctx context.Context, recordID string) ([]models.MealEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant_id, name, email, lunch_count, dinner_count FROM meal_entries WHERE record_id = ? ORDER BY participant_id",
		recordID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	var entries []models.MealEntry
	for rows.Next() {
		var e models.MealEntry
		if err := rows.Scan(&e.Participant.ID, &e.Participant.Name, &e.Participant.Email, &e.LunchCount, &e.DinnerCount); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// DeleteRecord removes a record; entries cascade.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, recordID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM meal_records WHERE id = ?", recordID)
	if err != nil {
		return fmt.Errorf("failed to delete meal record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("meal record not found: %s", recordID)
	}
	return nil
}

// ListRecords retrieves a system's records, dated records by date first,
// bulk records last.
func (s *SQLiteStore) ListRecords(ctx context.Context, systemID string) ([]*models.MealRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, system_id, date, bulk FROM meal_records WHERE system_id = ? ORDER BY bulk, date",
		systemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal records: %w", err)
	}
	defer rows.Close()

	var records []*models.MealRecord
	for rows.Next() {
		rec := &models.MealRecord{}
		var bulk int
		if err := rows.Scan(&rec.ID, &rec.SystemID, &rec.Date, &bulk); err != nil {
			return nil, fmt.Errorf("failed to scan meal record: %w", err)
		}
		rec.Bulk = bulk == 1
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal records: %w", err)
	}

	for _, rec := range records {
		if rec.Entries, err = s.entries(ctx, rec.ID); err != nil {
			return nil, err
		}
	}
	return records, nil
}
