package schedule

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

type AssignScheduleRequest struct {
	EmployeeID string  `json:"employee_id"`
	ScheduleID string  `json:"schedule_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (r *AssignScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if validator.IsEmpty(r.ScheduleID) {
		errs = append(errs, validator.ValidationError{Field: "schedule_id", Message: "schedule_id is required"})
	}

	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	if r.EndDate != nil {
		end, endOK := validator.IsValidDate(*r.EndDate)
		if !endOK {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		} else if ok && end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	ScheduleID string  `json:"schedule_id"`
	StartDate  string  `json:"start_date"`
	EndDate    *string `json:"end_date,omitempty"`
}

func NewAssignmentResponse(a EmployeeScheduleAssignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		ScheduleID: a.ScheduleID,
		StartDate:  a.StartDate.Format(time.DateOnly),
	}
	if a.EndDate != nil {
		end := a.EndDate.Format(time.DateOnly)
		resp.EndDate = &end
	}
	return resp
}
