package schedule

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

type ScheduleService struct {
	db             database.Transactor
	scheduleRepo   schedule.ScheduleRepository
	assignmentRepo schedule.EmployeeScheduleAssignmentRepository
	employeeRepo   employee.EmployeeRepository
}

func NewScheduleService(
	db database.Transactor,
	scheduleRepo schedule.ScheduleRepository,
	assignmentRepo schedule.EmployeeScheduleAssignmentRepository,
	employeeRepo employee.EmployeeRepository,
) schedule.Service {
	return &ScheduleService{
		db:             db,
		scheduleRepo:   scheduleRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
	}
}

// AssignSchedule implements schedule.Service. New assignments may not overlap
// an existing range for the same employee.
func (s *ScheduleService) AssignSchedule(ctx context.Context, req schedule.AssignScheduleRequest) (schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignmentResponse{}, err
	}

	start, _ := utils.ParseDate(req.StartDate)
	assignment := schedule.EmployeeScheduleAssignment{
		EmployeeID: req.EmployeeID,
		ScheduleID: req.ScheduleID,
		StartDate:  start,
	}
	if req.EndDate != nil {
		end, _ := utils.ParseDate(*req.EndDate)
		assignment.EndDate = &end
	}

	var created schedule.EmployeeScheduleAssignment
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
			return err
		}
		if _, err := s.scheduleRepo.GetByID(ctx, req.ScheduleID); err != nil {
			return err
		}

		existing, err := s.assignmentRepo.GetByEmployeeID(ctx, req.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to load assignments: %w", err)
		}
		for _, a := range existing {
			if a.Overlaps(assignment) {
				return fmt.Errorf("%w: %s from %s", schedule.ErrAssignmentOverlap, a.ID, utils.FormatDate(a.StartDate))
			}
		}

		created, err = s.assignmentRepo.Create(ctx, assignment)
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	return schedule.NewAssignmentResponse(created), nil
}
