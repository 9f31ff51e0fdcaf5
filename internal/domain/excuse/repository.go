package excuse

import (
	"context"
	"time"
)

type AbsenceExcuseRepository interface {
	Create(ctx context.Context, req AbsenceExcuseRequest) (AbsenceExcuseRequest, error)
	GetByID(ctx context.Context, id string) (AbsenceExcuseRequest, error)
	GetByEmployeeID(ctx context.Context, employeeID string) ([]AbsenceExcuseRequest, error)
	// Review moves a pending excuse to a final status. It returns
	// ErrExcuseAlreadyReviewed when the excuse is no longer pending.
	Review(ctx context.Context, id string, status Status, reviewerID string, reviewedAt time.Time) (AbsenceExcuseRequest, error)
	// HasApprovedFullDay reports whether an approved full-day excuse
	// overlaps [from, to).
	HasApprovedFullDay(ctx context.Context, employeeID string, from, to time.Time) (bool, error)
}
