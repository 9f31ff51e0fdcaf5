package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const scheduleColumns = `id, name, working_days, entry_time, exit_time, lunch_minutes, priority, created_at, updated_at`

type scheduleRepositoryImpl struct {
	db *database.DB
}

func toPgTime(t schedule.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t) * int64(time.Minute/time.Microsecond), Valid: true}
}

func fromPgTime(t pgtype.Time) schedule.TimeOfDay {
	return schedule.TimeOfDay(t.Microseconds / int64(time.Minute/time.Microsecond))
}

// scanSchedule reads the columns listed in scheduleColumns.
func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var (
		s           schedule.Schedule
		workingDays string
		entry, exit pgtype.Time
	)
	err := row.Scan(
		&s.ID, &s.Name, &workingDays, &entry, &exit,
		&s.LunchMinutes, &s.Priority, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return schedule.Schedule{}, err
	}

	s.WorkingDays, err = schedule.ParseWeekdays(workingDays)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("schedule %s: %w", s.ID, err)
	}
	s.EntryTime = fromPgTime(entry)
	s.ExitTime = fromPgTime(exit)
	return s, nil
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return schedule.Schedule{}, err
	}
	s.ID = id

	query := `
		INSERT INTO schedules (id, name, working_days, entry_time, exit_time, lunch_minutes, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		s.ID, s.Name, s.WorkingDays.String(), toPgTime(s.EntryTime), toPgTime(s.ExitTime),
		s.LunchMinutes, s.Priority,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.Schedule{}, schedule.ErrScheduleNameExists
		}
		return schedule.Schedule{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	return s, nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	s, err := scanSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

// GetByName implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByName(ctx context.Context, name string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE name = $1`

	s, err := scanSchedule(q.QueryRow(ctx, query, name))
	if err != nil {
		if err == pgx.ErrNoRows {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule by name: %w", err)
	}
	return s, nil
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{
		db: db,
	}
}
