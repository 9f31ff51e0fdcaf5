package clock

import (
	"context"
	"time"
)

type EventRepository interface {
	Create(ctx context.Context, event Event) (Event, error)
	// ListBetween returns the employee's events in [from, to) ordered by timestamp.
	ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type OffHoursRequestRepository interface {
	Create(ctx context.Context, req OffHoursRequest) (OffHoursRequest, error)
	GetByID(ctx context.Context, id string) (OffHoursRequest, error)
	// Review moves a pending request to a final status. It returns
	// ErrRequestAlreadyReviewed when the request is no longer pending.
	Review(ctx context.Context, id string, status RequestStatus, reviewerID string, reviewedAt time.Time) (OffHoursRequest, error)
}
