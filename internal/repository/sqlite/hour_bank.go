package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
)

type hourBankRepository struct {
	db *DB
}

func NewHourBankRepository(db *DB) hourbank.HourBankRepository {
	return &hourBankRepository{db: db}
}

func scanEntry(row rowScanner) (hourbank.Entry, error) {
	var (
		e                 hourbank.Entry
		date, processedAt string
	)
	err := row.Scan(&e.ID, &e.EmployeeID, &date, &e.Minutes, &e.Description, &processedAt)
	if err != nil {
		return hourbank.Entry{}, err
	}
	if e.Date, err = parseDate(date); err != nil {
		return hourbank.Entry{}, err
	}
	if e.ProcessedAt, err = parseTime(processedAt); err != nil {
		return hourbank.Entry{}, err
	}
	return e, nil
}

// Upsert implements hourbank.HourBankRepository.
func (r *hourBankRepository) Upsert(ctx context.Context, entry hourbank.Entry) (hourbank.Entry, error) {
	id, err := newID()
	if err != nil {
		return hourbank.Entry{}, err
	}

	q := getQuerier(ctx, r.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO hour_bank_entries (id, employee_id, date, minutes, description, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET minutes = excluded.minutes,
		    description = excluded.description,
		    processed_at = excluded.processed_at`,
		id, entry.EmployeeID, formatDate(entry.Date), entry.Minutes, entry.Description, formatTime(entry.ProcessedAt),
	)
	if err != nil {
		return hourbank.Entry{}, fmt.Errorf("failed to upsert hour bank entry: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT id FROM hour_bank_entries WHERE employee_id = ? AND date = ?`,
		entry.EmployeeID, formatDate(entry.Date),
	).Scan(&entry.ID)
	if err != nil {
		return hourbank.Entry{}, fmt.Errorf("failed to read back hour bank entry: %w", err)
	}
	return entry, nil
}

// Delete implements hourbank.HourBankRepository.
func (r *hourBankRepository) Delete(ctx context.Context, employeeID string, date time.Time) error {
	_, err := getQuerier(ctx, r.db).ExecContext(ctx,
		`DELETE FROM hour_bank_entries WHERE employee_id = ? AND date = ?`, employeeID, formatDate(date))
	if err != nil {
		return fmt.Errorf("failed to delete hour bank entry: %w", err)
	}
	return nil
}

// Get implements hourbank.HourBankRepository.
func (r *hourBankRepository) Get(ctx context.Context, employeeID string, date time.Time) (*hourbank.Entry, error) {
	row := getQuerier(ctx, r.db).QueryRowContext(ctx, `
		SELECT id, employee_id, date, minutes, description, processed_at
		FROM hour_bank_entries
		WHERE employee_id = ? AND date = ?`,
		employeeID, formatDate(date),
	)
	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get hour bank entry: %w", err)
	}
	return &e, nil
}

// Sum implements hourbank.HourBankRepository.
func (r *hourBankRepository) Sum(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	var total int64
	err := getQuerier(ctx, r.db).QueryRowContext(ctx, `
		SELECT COALESCE(SUM(minutes), 0)
		FROM hour_bank_entries
		WHERE employee_id = ? AND date BETWEEN ? AND ?`,
		employeeID, formatDate(from), formatDate(to),
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum hour bank: %w", err)
	}
	return int(total), nil
}

// List implements hourbank.HourBankRepository.
func (r *hourBankRepository) List(ctx context.Context, employeeID string, from, to time.Time) ([]hourbank.Entry, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, `
		SELECT id, employee_id, date, minutes, description, processed_at
		FROM hour_bank_entries
		WHERE employee_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`,
		employeeID, formatDate(from), formatDate(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query hour bank: %w", err)
	}
	defer rows.Close()

	var entries []hourbank.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hour bank entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteAll implements hourbank.HourBankRepository.
func (r *hourBankRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx, `DELETE FROM hour_bank_entries`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge hour bank: %w", err)
	}
	return res.RowsAffected()
}
