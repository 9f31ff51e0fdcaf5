package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const excuseColumns = `id, employee_id, type, start_at, end_at, reason, document_url, status, reviewer_id, reviewed_at, submitted_at`

type absenceExcuseRepositoryImpl struct {
	db *database.DB
}

func scanExcuse(row pgx.Row) (excuse.AbsenceExcuseRequest, error) {
	var r excuse.AbsenceExcuseRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Type, &r.StartAt, &r.EndAt, &r.Reason,
		&r.DocumentURL, &r.Status, &r.ReviewerID, &r.ReviewedAt, &r.SubmittedAt,
	)
	return r, err
}

// Create implements excuse.AbsenceExcuseRepository.
func (a *absenceExcuseRepositoryImpl) Create(ctx context.Context, req excuse.AbsenceExcuseRequest) (excuse.AbsenceExcuseRequest, error) {
	q := GetQuerier(ctx, a.db)

	id, err := newID()
	if err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	req.ID = id

	query := `
		INSERT INTO absence_excuses (id, employee_id, type, start_at, end_at, reason, document_url, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		req.ID, req.EmployeeID, req.Type, req.StartAt, req.EndAt,
		req.Reason, req.DocumentURL, req.Status, req.SubmittedAt,
	)
	if err != nil {
		return excuse.AbsenceExcuseRequest{}, fmt.Errorf("failed to insert absence excuse: %w", err)
	}
	return req, nil
}

// GetByID implements excuse.AbsenceExcuseRepository.
func (a *absenceExcuseRepositoryImpl) GetByID(ctx context.Context, id string) (excuse.AbsenceExcuseRequest, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + excuseColumns + ` FROM absence_excuses WHERE id = $1`

	r, err := scanExcuse(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return excuse.AbsenceExcuseRequest{}, excuse.ErrExcuseNotFound
		}
		return excuse.AbsenceExcuseRequest{}, fmt.Errorf("failed to get absence excuse: %w", err)
	}
	return r, nil
}

// GetByEmployeeID implements excuse.AbsenceExcuseRepository.
func (a *absenceExcuseRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) ([]excuse.AbsenceExcuseRequest, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + excuseColumns + ` FROM absence_excuses WHERE employee_id = $1 ORDER BY start_at DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query absence excuses: %w", err)
	}
	defer rows.Close()

	var excuses []excuse.AbsenceExcuseRequest
	for rows.Next() {
		r, err := scanExcuse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence excuse: %w", err)
		}
		excuses = append(excuses, r)
	}
	return excuses, rows.Err()
}

// Review implements excuse.AbsenceExcuseRepository.
func (a *absenceExcuseRepositoryImpl) Review(ctx context.Context, id string, status excuse.Status, reviewerID string, reviewedAt time.Time) (excuse.AbsenceExcuseRequest, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE absence_excuses
		SET status = $1, reviewer_id = $2, reviewed_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + excuseColumns

	r, err := scanExcuse(q.QueryRow(ctx, query, status, reviewerID, reviewedAt, id, excuse.StatusPending))
	if err != nil {
		if err == pgx.ErrNoRows {
			if _, getErr := a.GetByID(ctx, id); getErr != nil {
				return excuse.AbsenceExcuseRequest{}, getErr
			}
			return excuse.AbsenceExcuseRequest{}, excuse.ErrExcuseAlreadyReviewed
		}
		return excuse.AbsenceExcuseRequest{}, fmt.Errorf("failed to review absence excuse: %w", err)
	}
	return r, nil
}

// HasApprovedFullDay implements excuse.AbsenceExcuseRepository.
func (a *absenceExcuseRepositoryImpl) HasApprovedFullDay(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM absence_excuses
			WHERE employee_id = $1
			  AND type = $2
			  AND status = $3
			  AND start_at < $5
			  AND end_at > $4
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, excuse.TypeFullDay, excuse.StatusApproved, from, to).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved excuses: %w", err)
	}
	return exists, nil
}

func NewAbsenceExcuseRepository(db *database.DB) excuse.AbsenceExcuseRepository {
	return &absenceExcuseRepositoryImpl{
		db: db,
	}
}
