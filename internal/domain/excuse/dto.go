package excuse

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/validator"
)

type SubmitExcuseRequest struct {
	EmployeeID  string  `json:"-"`
	Type        Type    `json:"type"`
	StartAt     string  `json:"start_at"`
	EndAt       string  `json:"end_at"`
	Reason      string  `json:"reason"`
	DocumentURL *string `json:"document_url,omitempty"`

	startAt time.Time
	endAt   time.Time
}

func (r *SubmitExcuseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if !validator.IsInSlice(string(r.Type), []string{string(TypeFullDay), string(TypePartial)}) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be full_day or partial"})
	}

	start, startOK := validator.IsValidDateTime(r.StartAt)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_at", Message: "start_at must be an RFC3339 timestamp"})
	}
	end, endOK := validator.IsValidDateTime(r.EndAt)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_at", Message: "end_at must be an RFC3339 timestamp"})
	}
	if startOK && endOK && !end.After(start) {
		errs = append(errs, validator.ValidationError{Field: "end_at", Message: "end_at must be after start_at"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	r.startAt, r.endAt = start, end
	return nil
}

// Period returns the parsed covered period. Only valid after Validate.
func (r *SubmitExcuseRequest) Period() (time.Time, time.Time) {
	return r.startAt, r.endAt
}

// ReviewExcuseRequest identifies the reviewer. Supervisors may only review
// excuses from their own team; HR may review any.
type ReviewExcuseRequest struct {
	ExcuseID     string `json:"-"`
	ReviewerID   string `json:"-"`
	ReviewerIsHR bool   `json:"-"`
}

// ExcuseResponse is the API view of an excuse. ReconciledDates lists the past
// days re-run after a full-day approval.
type ExcuseResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	Type            Type       `json:"type"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           time.Time  `json:"end_at"`
	Reason          string     `json:"reason"`
	DocumentURL     *string    `json:"document_url,omitempty"`
	Status          Status     `json:"status"`
	ReviewerID      *string    `json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReconciledDates []string   `json:"reconciled_dates,omitempty"`
}

func NewExcuseResponse(r AbsenceExcuseRequest) ExcuseResponse {
	return ExcuseResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Type:        r.Type,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Reason:      r.Reason,
		DocumentURL: r.DocumentURL,
		Status:      r.Status,
		ReviewerID:  r.ReviewerID,
		ReviewedAt:  r.ReviewedAt,
		SubmittedAt: r.SubmittedAt,
	}
}
