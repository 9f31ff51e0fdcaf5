package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type hourBankRepositoryImpl struct {
	db *database.DB
}

// Upsert implements hourbank.HourBankRepository.
func (h *hourBankRepositoryImpl) Upsert(ctx context.Context, entry hourbank.Entry) (hourbank.Entry, error) {
	q := GetQuerier(ctx, h.db)

	id, err := newID()
	if err != nil {
		return hourbank.Entry{}, err
	}

	query := `
		INSERT INTO hour_bank_entries (id, employee_id, date, minutes, description, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET minutes = EXCLUDED.minutes,
		    description = EXCLUDED.description,
		    processed_at = EXCLUDED.processed_at
		RETURNING id
	`

	err = q.QueryRow(ctx, query,
		id, entry.EmployeeID, entry.Date, entry.Minutes, entry.Description, entry.ProcessedAt,
	).Scan(&entry.ID)
	if err != nil {
		return hourbank.Entry{}, fmt.Errorf("failed to upsert hour bank entry: %w", err)
	}
	return entry, nil
}

// Delete implements hourbank.HourBankRepository.
func (h *hourBankRepositoryImpl) Delete(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, h.db)

	if _, err := q.Exec(ctx, `DELETE FROM hour_bank_entries WHERE employee_id = $1 AND date = $2`, employeeID, date); err != nil {
		return fmt.Errorf("failed to delete hour bank entry: %w", err)
	}
	return nil
}

// Get implements hourbank.HourBankRepository.
func (h *hourBankRepositoryImpl) Get(ctx context.Context, employeeID string, date time.Time) (*hourbank.Entry, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, employee_id, date, minutes, description, processed_at
		FROM hour_bank_entries
		WHERE employee_id = $1 AND date = $2
	`

	var e hourbank.Entry
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&e.ID, &e.EmployeeID, &e.Date, &e.Minutes, &e.Description, &e.ProcessedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hour bank entry: %w", err)
	}
	return &e, nil
}

// Sum implements hourbank.HourBankRepository.
func (h *hourBankRepositoryImpl) Sum(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT COALESCE(SUM(minutes), 0)
		FROM hour_bank_entries
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
	`

	var total int64
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum hour bank: %w", err)
	}
	return int(total), nil
}

// List implements hourbank.HourBankRepository.
func (h *hourBankRepositoryImpl) List(ctx context.Context, employeeID string, from, to time.Time) ([]hourbank.Entry, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, employee_id, date, minutes, description, processed_at
		FROM hour_bank_entries
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query hour bank: %w", err)
	}
	defer rows.Close()

	var entries []hourbank.Entry
	for rows.Next() {
		var e hourbank.Entry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.Date, &e.Minutes, &e.Description, &e.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hour bank entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteAll implements hourbank.HourBankRepository.
func (h *hourBankRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, h.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM hour_bank_entries`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge hour bank: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

func NewHourBankRepository(db *database.DB) hourbank.HourBankRepository {
	return &hourBankRepositoryImpl{
		db: db,
	}
}
