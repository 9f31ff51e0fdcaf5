package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

// Resolver finds the schedule an employee works under on a given date.
type Resolver struct {
	assignmentRepo schedule.EmployeeScheduleAssignmentRepository
}

func NewResolver(assignmentRepo schedule.EmployeeScheduleAssignmentRepository) *Resolver {
	return &Resolver{assignmentRepo: assignmentRepo}
}

// Resolve returns the schedule of the assignment covering date, preferring the
// latest start when several do. A nil schedule means none is assigned.
func (r *Resolver) Resolve(ctx context.Context, employeeID string, date time.Time) (*schedule.Schedule, error) {
	s, err := r.assignmentRepo.GetActiveSchedule(ctx, employeeID, utils.Date(date.Date()))
	if err != nil {
		return nil, fmt.Errorf("failed to get active schedule for employee %s: %w", employeeID, err)
	}
	return s, nil
}
