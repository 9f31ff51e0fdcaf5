package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

// Create implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) Create(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	id, err := newID()
	if err != nil {
		return holiday.Holiday{}, err
	}
	hol.ID = id

	query := `
		INSERT INTO holidays (id, name, date, recurrent)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if err := q.QueryRow(ctx, query, hol.ID, hol.Name, hol.Date, hol.Recurrent).Scan(&hol.CreatedAt); err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return hol, nil
}

// List implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) List(ctx context.Context) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	rows, err := q.Query(ctx, `SELECT id, name, date, recurrent, created_at FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var hol holiday.Holiday
		if err := rows.Scan(&hol.ID, &hol.Name, &hol.Date, &hol.Recurrent, &hol.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hol)
	}
	return holidays, rows.Err()
}

// ExistsOnDate implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, h.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM holidays WHERE date = $1 AND NOT recurrent)`, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}

// ExistsRecurring implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) ExistsRecurring(ctx context.Context, month time.Month, day int) (bool, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE recurrent
			  AND EXTRACT(MONTH FROM date) = $1
			  AND EXTRACT(DAY FROM date) = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, int(month), day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recurrent holiday: %w", err)
	}
	return exists, nil
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{
		db: db,
	}
}
