package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
)

type clockEventRepositoryImpl struct {
	db *database.DB
}

// Create implements clock.EventRepository.
func (r *clockEventRepositoryImpl) Create(ctx context.Context, event clock.Event) (clock.Event, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return clock.Event{}, err
	}
	event.ID = id

	query := `
		INSERT INTO clock_events (id, employee_id, timestamp, type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if err := q.QueryRow(ctx, query, event.ID, event.EmployeeID, event.Timestamp, event.Type).Scan(&event.CreatedAt); err != nil {
		return clock.Event{}, fmt.Errorf("failed to insert clock event: %w", err)
	}
	return event, nil
}

// ListBetween implements clock.EventRepository.
func (r *clockEventRepositoryImpl) ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]clock.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, timestamp, type, created_at
		FROM clock_events
		WHERE employee_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock events: %w", err)
	}
	defer rows.Close()

	var events []clock.Event
	for rows.Next() {
		var ev clock.Event
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Timestamp, &ev.Type, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan clock event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteAll implements clock.EventRepository.
func (r *clockEventRepositoryImpl) DeleteAll(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM clock_events`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge clock events: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

func NewClockEventRepository(db *database.DB) clock.EventRepository {
	return &clockEventRepositoryImpl{
		db: db,
	}
}
