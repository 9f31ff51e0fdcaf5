package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/holiday"
)

type holidayRepository struct {
	db *DB
}

func NewHolidayRepository(db *DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepository) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	id, err := newID()
	if err != nil {
		return holiday.Holiday{}, err
	}
	h.ID = id
	h.CreatedAt = time.Now().UTC()

	_, err = getQuerier(ctx, r.db).ExecContext(ctx,
		`INSERT INTO holidays (id, name, date, recurrent, created_at) VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Name, formatDate(h.Date), h.Recurrent, formatTime(h.CreatedAt),
	)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return h, nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepository) List(ctx context.Context) ([]holiday.Holiday, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, `SELECT id, name, date, recurrent, created_at FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var (
			h               holiday.Holiday
			date, createdAt string
		)
		if err := rows.Scan(&h.ID, &h.Name, &date, &h.Recurrent, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		if h.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if h.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// ExistsOnDate implements holiday.HolidayRepository.
func (r *holidayRepository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := getQuerier(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM holidays WHERE date = ? AND NOT recurrent)`, formatDate(date),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}

// ExistsRecurring implements holiday.HolidayRepository.
func (r *holidayRepository) ExistsRecurring(ctx context.Context, month time.Month, day int) (bool, error) {
	var exists bool
	err := getQuerier(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM holidays WHERE recurrent AND substr(date, 6, 5) = ?)`,
		fmt.Sprintf("%02d-%02d", int(month), day),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recurrent holiday: %w", err)
	}
	return exists, nil
}
