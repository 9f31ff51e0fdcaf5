package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeScheduleAssignmentRepository struct {
	db *database.DB
}

// Create implements schedule.EmployeeScheduleAssignmentRepository.
func (e *employeeScheduleAssignmentRepository) Create(ctx context.Context, assignment schedule.EmployeeScheduleAssignment) (schedule.EmployeeScheduleAssignment, error) {
	q := GetQuerier(ctx, e.db)

	id, err := newID()
	if err != nil {
		return schedule.EmployeeScheduleAssignment{}, err
	}
	assignment.ID = id

	query := `
		INSERT INTO employee_schedule_assignments (id, employee_id, schedule_id, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		assignment.ID, assignment.EmployeeID, assignment.ScheduleID,
		assignment.StartDate, assignment.EndDate,
	).Scan(&assignment.CreatedAt)
	if err != nil {
		return schedule.EmployeeScheduleAssignment{}, fmt.Errorf("failed to create schedule assignment: %w", err)
	}

	return assignment, nil
}

// GetByEmployeeID implements schedule.EmployeeScheduleAssignmentRepository.
func (e *employeeScheduleAssignmentRepository) GetByEmployeeID(ctx context.Context, employeeID string) ([]schedule.EmployeeScheduleAssignment, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, employee_id, schedule_id, start_date, end_date, created_at
		FROM employee_schedule_assignments
		WHERE employee_id = $1
		ORDER BY start_date DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule assignments: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.EmployeeScheduleAssignment
	for rows.Next() {
		var a schedule.EmployeeScheduleAssignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.ScheduleID, &a.StartDate, &a.EndDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetActiveSchedule implements schedule.EmployeeScheduleAssignmentRepository.
func (e *employeeScheduleAssignmentRepository) GetActiveSchedule(ctx context.Context, employeeID string, date time.Time) (*schedule.Schedule, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT s.id, s.name, s.working_days, s.entry_time, s.exit_time,
		       s.lunch_minutes, s.priority, s.created_at, s.updated_at
		FROM employee_schedule_assignments esa
		JOIN schedules s ON esa.schedule_id = s.id
		WHERE esa.employee_id = $1
		  AND esa.start_date <= $2
		  AND (esa.end_date IS NULL OR esa.end_date >= $2)
		ORDER BY esa.start_date DESC
		LIMIT 1
	`

	s, err := scanSchedule(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve active schedule: %w", err)
	}
	return &s, nil
}

func NewEmployeeScheduleAssignmentRepository(db *database.DB) schedule.EmployeeScheduleAssignmentRepository {
	return &employeeScheduleAssignmentRepository{
		db: db,
	}
}
