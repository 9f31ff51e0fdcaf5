package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const offHoursColumns = `id, employee_id, requested_at, type, reason, status, reviewer_id, reviewed_at, submitted_at`

type offHoursRequestRepositoryImpl struct {
	db *database.DB
}

func scanOffHoursRequest(row pgx.Row) (clock.OffHoursRequest, error) {
	var r clock.OffHoursRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.RequestedAt, &r.Type, &r.Reason,
		&r.Status, &r.ReviewerID, &r.ReviewedAt, &r.SubmittedAt,
	)
	return r, err
}

// Create implements clock.OffHoursRequestRepository.
func (o *offHoursRequestRepositoryImpl) Create(ctx context.Context, req clock.OffHoursRequest) (clock.OffHoursRequest, error) {
	q := GetQuerier(ctx, o.db)

	id, err := newID()
	if err != nil {
		return clock.OffHoursRequest{}, err
	}
	req.ID = id

	query := `
		INSERT INTO off_hours_requests (id, employee_id, requested_at, type, reason, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = q.Exec(ctx, query, req.ID, req.EmployeeID, req.RequestedAt, req.Type, req.Reason, req.Status, req.SubmittedAt)
	if err != nil {
		return clock.OffHoursRequest{}, fmt.Errorf("failed to insert off-hours request: %w", err)
	}
	return req, nil
}

// GetByID implements clock.OffHoursRequestRepository.
func (o *offHoursRequestRepositoryImpl) GetByID(ctx context.Context, id string) (clock.OffHoursRequest, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + offHoursColumns + ` FROM off_hours_requests WHERE id = $1`

	r, err := scanOffHoursRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return clock.OffHoursRequest{}, clock.ErrRequestNotFound
		}
		return clock.OffHoursRequest{}, fmt.Errorf("failed to get off-hours request: %w", err)
	}
	return r, nil
}

// Review implements clock.OffHoursRequestRepository.
func (o *offHoursRequestRepositoryImpl) Review(ctx context.Context, id string, status clock.RequestStatus, reviewerID string, reviewedAt time.Time) (clock.OffHoursRequest, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		UPDATE off_hours_requests
		SET status = $1, reviewer_id = $2, reviewed_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + offHoursColumns

	r, err := scanOffHoursRequest(q.QueryRow(ctx, query, status, reviewerID, reviewedAt, id, clock.RequestPending))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := o.GetByID(ctx, id); getErr != nil {
				return clock.OffHoursRequest{}, getErr
			}
			return clock.OffHoursRequest{}, clock.ErrRequestAlreadyReviewed
		}
		return clock.OffHoursRequest{}, fmt.Errorf("failed to review off-hours request: %w", err)
	}
	return r, nil
}

func NewOffHoursRequestRepository(db *database.DB) clock.OffHoursRequestRepository {
	return &offHoursRequestRepositoryImpl{
		db: db,
	}
}
