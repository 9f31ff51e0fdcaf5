package clock

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

type RecordEventRequest struct {
	EmployeeID string    `json:"-"`
	Type       EventType `json:"type"`
}

func (r *RecordEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !r.Type.Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of the clock event types"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID                    string    `json:"id"`
	EmployeeID            string    `json:"employee_id"`
	Type                  EventType `json:"type"`
	Timestamp             time.Time `json:"timestamp"`
	OperationalStatus     string    `json:"operational_status"`
	BreakName             *string   `json:"break_name,omitempty"`
	BreakAllowanceMinutes *int      `json:"break_allowance_minutes,omitempty"`
}

type SubmitOffHoursRequest struct {
	EmployeeID  string    `json:"-"`
	RequestedAt string    `json:"requested_at"`
	Type        EventType `json:"type"`
	Reason      string    `json:"reason"`
}

func (r *SubmitOffHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDateTime(r.RequestedAt); !ok {
		errs = append(errs, validator.ValidationError{Field: "requested_at", Message: "requested_at must be an RFC3339 timestamp"})
	}
	if !r.Type.Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of the clock event types"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason must not exceed 1000 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReviewOffHoursRequest identifies the reviewer. Supervisors may only review
// requests from their own team; HR may review any.
type ReviewOffHoursRequest struct {
	RequestID    string `json:"-"`
	ReviewerID   string `json:"-"`
	ReviewerIsHR bool   `json:"-"`
}

type OffHoursResponse struct {
	ID          string        `json:"id"`
	EmployeeID  string        `json:"employee_id"`
	RequestedAt time.Time     `json:"requested_at"`
	Type        EventType     `json:"type"`
	Reason      string        `json:"reason"`
	Status      RequestStatus `json:"status"`
	ReviewerID  *string       `json:"reviewer_id,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
	SubmittedAt time.Time     `json:"submitted_at"`
}

func NewOffHoursResponse(r OffHoursRequest) OffHoursResponse {
	return OffHoursResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		RequestedAt: r.RequestedAt,
		Type:        r.Type,
		Reason:      r.Reason,
		Status:      r.Status,
		ReviewerID:  r.ReviewerID,
		ReviewedAt:  r.ReviewedAt,
		SubmittedAt: r.SubmittedAt,
	}
}
