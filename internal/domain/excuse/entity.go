package excuse

import (
	"time"
)

// Type of excuse. A full-day excuse zeroes the covered days in the hour
// bank; a partial one justifies a late arrival and is kept for review only.
type Type string

const (
	TypeFullDay Type = "full_day"
	TypePartial Type = "partial"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type AbsenceExcuseRequest struct {
	ID          string
	EmployeeID  string
	Type        Type
	StartAt     time.Time
	EndAt       time.Time
	Reason      string
	DocumentURL *string
	Status      Status
	ReviewerID  *string
	ReviewedAt  *time.Time
	SubmittedAt time.Time
}

// Overlaps reports whether the covered period [StartAt, EndAt) intersects
// [from, to).
func (r AbsenceExcuseRequest) Overlaps(from, to time.Time) bool {
	return r.StartAt.Before(to) && r.EndAt.After(from)
}
