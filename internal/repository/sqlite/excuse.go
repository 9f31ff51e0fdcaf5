package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
)

const excuseColumns = `id, employee_id, type, start_at, end_at, reason, document_url, status, reviewer_id, reviewed_at, submitted_at`

type absenceExcuseRepository struct {
	db *DB
}

func NewAbsenceExcuseRepository(db *DB) excuse.AbsenceExcuseRepository {
	return &absenceExcuseRepository{db: db}
}

func scanExcuse(row rowScanner) (excuse.AbsenceExcuseRequest, error) {
	var (
		req                                 excuse.AbsenceExcuseRequest
		startAt, endAt, submittedAt         string
		documentURL, reviewerID, reviewedAt sql.NullString
	)
	err := row.Scan(&req.ID, &req.EmployeeID, &req.Type, &startAt, &endAt, &req.Reason,
		&documentURL, &req.Status, &reviewerID, &reviewedAt, &submittedAt)
	if err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	req.DocumentURL = stringPtr(documentURL)
	req.ReviewerID = stringPtr(reviewerID)
	if req.StartAt, err = parseTime(startAt); err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	if req.EndAt, err = parseTime(endAt); err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	if req.SubmittedAt, err = parseTime(submittedAt); err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	if req.ReviewedAt, err = timePtr(reviewedAt, parseTime); err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	return req, nil
}

// Create implements excuse.AbsenceExcuseRepository.
func (r *absenceExcuseRepository) Create(ctx context.Context, req excuse.AbsenceExcuseRequest) (excuse.AbsenceExcuseRequest, error) {
	id, err := newID()
	if err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	req.ID = id

	_, err = getQuerier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO absence_excuses (id, employee_id, type, start_at, end_at, reason, document_url, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.EmployeeID, req.Type, formatTime(req.StartAt), formatTime(req.EndAt),
		req.Reason, nullString(req.DocumentURL), req.Status, formatTime(req.SubmittedAt),
	)
	if err != nil {
		return excuse.AbsenceExcuseRequest{}, fmt.Errorf("failed to insert absence excuse: %w", err)
	}
	return req, nil
}

// GetByID implements excuse.AbsenceExcuseRepository.
func (r *absenceExcuseRepository) GetByID(ctx context.Context, id string) (excuse.AbsenceExcuseRequest, error) {
	row := getQuerier(ctx, r.db).QueryRowContext(ctx, `SELECT `+excuseColumns+` FROM absence_excuses WHERE id = ?`, id)
	req, err := scanExcuse(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return excuse.AbsenceExcuseRequest{}, excuse.ErrExcuseNotFound
		}
		return excuse.AbsenceExcuseRequest{}, fmt.Errorf("failed to get absence excuse: %w", err)
	}
	return req, nil
}

// GetByEmployeeID implements excuse.AbsenceExcuseRepository.
func (r *absenceExcuseRepository) GetByEmployeeID(ctx context.Context, employeeID string) ([]excuse.AbsenceExcuseRequest, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx,
		`SELECT `+excuseColumns+` FROM absence_excuses WHERE employee_id = ? ORDER BY start_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query absence excuses: %w", err)
	}
	defer rows.Close()

	var excuses []excuse.AbsenceExcuseRequest
	for rows.Next() {
		req, err := scanExcuse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence excuse: %w", err)
		}
		excuses = append(excuses, req)
	}
	return excuses, rows.Err()
}

// Review implements excuse.AbsenceExcuseRepository.
func (r *absenceExcuseRepository) Review(ctx context.Context, id string, status excuse.Status, reviewerID string, reviewedAt time.Time) (excuse.AbsenceExcuseRequest, error) {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx, `
		UPDATE absence_excuses
		SET status = ?, reviewer_id = ?, reviewed_at = ?
		WHERE id = ? AND status = ?`,
		status, reviewerID, formatTime(reviewedAt), id, excuse.StatusPending,
	)
	if err != nil {
		return excuse.AbsenceExcuseRequest{}, fmt.Errorf("failed to review absence excuse: %w", err)
	}

	req, err := r.GetByID(ctx, id)
	if err != nil {
		return excuse.AbsenceExcuseRequest{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return excuse.AbsenceExcuseRequest{}, excuse.ErrExcuseAlreadyReviewed
	}
	return req, nil
}

// HasApprovedFullDay implements excuse.AbsenceExcuseRepository.
func (r *absenceExcuseRepository) HasApprovedFullDay(ctx context.Context, employeeID string, from, to time.Time) (bool, error) {
	var exists bool
	err := getQuerier(ctx, r.db).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM absence_excuses
			WHERE employee_id = ? AND type = ? AND status = ?
			  AND start_at < ? AND end_at > ?
		)`,
		employeeID, excuse.TypeFullDay, excuse.StatusApproved, formatTime(to), formatTime(from),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved excuses: %w", err)
	}
	return exists, nil
}
