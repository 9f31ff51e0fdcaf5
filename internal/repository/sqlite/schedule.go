package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
)

const scheduleColumns = `id, name, working_days, entry_minutes, exit_minutes, lunch_minutes, priority, created_at, updated_at`

type scheduleRepository struct {
	db *DB
}

func NewScheduleRepository(db *DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func scanSchedule(row rowScanner) (schedule.Schedule, error) {
	var (
		s                    schedule.Schedule
		workingDays          string
		entry, exit          int
		createdAt, updatedAt string
	)
	err := row.Scan(&s.ID, &s.Name, &workingDays, &entry, &exit, &s.LunchMinutes, &s.Priority, &createdAt, &updatedAt)
	if err != nil {
		return schedule.Schedule{}, err
	}
	if s.WorkingDays, err = schedule.ParseWeekdays(workingDays); err != nil {
		return schedule.Schedule{}, fmt.Errorf("schedule %s: %w", s.ID, err)
	}
	s.EntryTime = schedule.TimeOfDay(entry)
	s.ExitTime = schedule.TimeOfDay(exit)
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return schedule.Schedule{}, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return schedule.Schedule{}, err
	}
	return s, nil
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepository) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	id, err := newID()
	if err != nil {
		return schedule.Schedule{}, err
	}
	s.ID = id
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err = getQuerier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO schedules (`+scheduleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.WorkingDays.String(), int(s.EntryTime), int(s.ExitTime),
		s.LunchMinutes, s.Priority, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.Schedule{}, schedule.ErrScheduleNameExists
		}
		return schedule.Schedule{}, fmt.Errorf("failed to create schedule: %w", err)
	}
	return s, nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	return r.getOne(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
}

// GetByName implements schedule.ScheduleRepository.
func (r *scheduleRepository) GetByName(ctx context.Context, name string) (schedule.Schedule, error) {
	return r.getOne(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE name = ?`, name)
}

func (r *scheduleRepository) getOne(ctx context.Context, query string, arg string) (schedule.Schedule, error) {
	s, err := scanSchedule(getQuerier(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return s, nil
}

type assignmentRepository struct {
	db *DB
}

func NewEmployeeScheduleAssignmentRepository(db *DB) schedule.EmployeeScheduleAssignmentRepository {
	return &assignmentRepository{db: db}
}

// Create implements schedule.EmployeeScheduleAssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, a schedule.EmployeeScheduleAssignment) (schedule.EmployeeScheduleAssignment, error) {
	id, err := newID()
	if err != nil {
		return schedule.EmployeeScheduleAssignment{}, err
	}
	a.ID = id
	a.CreatedAt = time.Now().UTC()

	_, err = getQuerier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO employee_schedule_assignments (id, employee_id, schedule_id, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.EmployeeID, a.ScheduleID, formatDate(a.StartDate), nullDate(a.EndDate), formatTime(a.CreatedAt),
	)
	if err != nil {
		return schedule.EmployeeScheduleAssignment{}, fmt.Errorf("failed to create schedule assignment: %w", err)
	}
	return a, nil
}

// GetByEmployeeID implements schedule.EmployeeScheduleAssignmentRepository.
func (r *assignmentRepository) GetByEmployeeID(ctx context.Context, employeeID string) ([]schedule.EmployeeScheduleAssignment, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, `
		SELECT id, employee_id, schedule_id, start_date, end_date, created_at
		FROM employee_schedule_assignments
		WHERE employee_id = ?
		ORDER BY start_date DESC`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule assignments: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.EmployeeScheduleAssignment
	for rows.Next() {
		var (
			a                    schedule.EmployeeScheduleAssignment
			startDate, createdAt string
			endDate              sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ScheduleID, &startDate, &endDate, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule assignment: %w", err)
		}
		if a.StartDate, err = parseDate(startDate); err != nil {
			return nil, err
		}
		if a.EndDate, err = timePtr(endDate, parseDate); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetActiveSchedule implements schedule.EmployeeScheduleAssignmentRepository.
func (r *assignmentRepository) GetActiveSchedule(ctx context.Context, employeeID string, date time.Time) (*schedule.Schedule, error) {
	row := getQuerier(ctx, r.db).QueryRowContext(ctx, `
		SELECT s.id, s.name, s.working_days, s.entry_minutes, s.exit_minutes,
		       s.lunch_minutes, s.priority, s.created_at, s.updated_at
		FROM employee_schedule_assignments esa
		JOIN schedules s ON esa.schedule_id = s.id
		WHERE esa.employee_id = ?
		  AND esa.start_date <= ?
		  AND (esa.end_date IS NULL OR esa.end_date >= ?)
		ORDER BY esa.start_date DESC
		LIMIT 1`,
		employeeID, formatDate(date), formatDate(date),
	)

	s, err := scanSchedule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve active schedule: %w", err)
	}
	return &s, nil
}
