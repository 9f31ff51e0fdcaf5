package schedule

import (
	"context"
	"time"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s Schedule) (Schedule, error)
	GetByID(ctx context.Context, id string) (Schedule, error)
	GetByName(ctx context.Context, name string) (Schedule, error)
}

type EmployeeScheduleAssignmentRepository interface {
	Create(ctx context.Context, assignment EmployeeScheduleAssignment) (EmployeeScheduleAssignment, error)
	GetByEmployeeID(ctx context.Context, employeeID string) ([]EmployeeScheduleAssignment, error)
	// GetActiveSchedule returns the schedule of the assignment in force on
	// date, latest start first. It returns nil with no error when none applies.
	GetActiveSchedule(ctx context.Context, employeeID string, date time.Time) (*Schedule, error)
}
