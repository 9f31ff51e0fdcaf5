package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
)

type clockEventRepository struct {
	db *DB
}

func NewClockEventRepository(db *DB) clock.EventRepository {
	return &clockEventRepository{db: db}
}

// Create implements clock.EventRepository.
func (r *clockEventRepository) Create(ctx context.Context, event clock.Event) (clock.Event, error) {
	id, err := newID()
	if err != nil {
		return clock.Event{}, err
	}
	event.ID = id
	event.CreatedAt = time.Now().UTC()

	_, err = getQuerier(ctx, r.db).ExecContext(ctx,
		`INSERT INTO clock_events (id, employee_id, timestamp, type, created_at) VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.EmployeeID, formatTime(event.Timestamp), event.Type, formatTime(event.CreatedAt),
	)
	if err != nil {
		return clock.Event{}, fmt.Errorf("failed to insert clock event: %w", err)
	}
	return event, nil
}

// ListBetween implements clock.EventRepository.
func (r *clockEventRepository) ListBetween(ctx context.Context, employeeID string, from, to time.Time) ([]clock.Event, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, `
		SELECT id, employee_id, timestamp, type, created_at
		FROM clock_events
		WHERE employee_id = ? AND timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, created_at ASC`,
		employeeID, formatTime(from), formatTime(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query clock events: %w", err)
	}
	defer rows.Close()

	var events []clock.Event
	for rows.Next() {
		var (
			ev                   clock.Event
			timestamp, createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &timestamp, &ev.Type, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan clock event: %w", err)
		}
		if ev.Timestamp, err = parseTime(timestamp); err != nil {
			return nil, err
		}
		if ev.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteAll implements clock.EventRepository.
func (r *clockEventRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx, `DELETE FROM clock_events`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge clock events: %w", err)
	}
	return res.RowsAffected()
}

const offHoursColumns = `id, employee_id, requested_at, type, reason, status, reviewer_id, reviewed_at, submitted_at`

type offHoursRequestRepository struct {
	db *DB
}

func NewOffHoursRequestRepository(db *DB) clock.OffHoursRequestRepository {
	return &offHoursRequestRepository{db: db}
}

func scanOffHoursRequest(row rowScanner) (clock.OffHoursRequest, error) {
	var (
		req                      clock.OffHoursRequest
		requestedAt, submittedAt string
		reviewerID, reviewedAt   sql.NullString
	)
	err := row.Scan(&req.ID, &req.EmployeeID, &requestedAt, &req.Type, &req.Reason, &req.Status, &reviewerID, &reviewedAt, &submittedAt)
	if err != nil {
		return clock.OffHoursRequest{}, err
	}
	req.ReviewerID = stringPtr(reviewerID)
	if req.RequestedAt, err = parseTime(requestedAt); err != nil {
		return clock.OffHoursRequest{}, err
	}
	if req.SubmittedAt, err = parseTime(submittedAt); err != nil {
		return clock.OffHoursRequest{}, err
	}
	if req.ReviewedAt, err = timePtr(reviewedAt, parseTime); err != nil {
		return clock.OffHoursRequest{}, err
	}
	return req, nil
}

// Create implements clock.OffHoursRequestRepository.
func (r *offHoursRequestRepository) Create(ctx context.Context, req clock.OffHoursRequest) (clock.OffHoursRequest, error) {
	id, err := newID()
	if err != nil {
		return clock.OffHoursRequest{}, err
	}
	req.ID = id

	_, err = getQuerier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO off_hours_requests (id, employee_id, requested_at, type, reason, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.EmployeeID, formatTime(req.RequestedAt), req.Type, req.Reason, req.Status, formatTime(req.SubmittedAt),
	)
	if err != nil {
		return clock.OffHoursRequest{}, fmt.Errorf("failed to insert off-hours request: %w", err)
	}
	return req, nil
}

// GetByID implements clock.OffHoursRequestRepository.
func (r *offHoursRequestRepository) GetByID(ctx context.Context, id string) (clock.OffHoursRequest, error) {
	row := getQuerier(ctx, r.db).QueryRowContext(ctx, `SELECT `+offHoursColumns+` FROM off_hours_requests WHERE id = ?`, id)
	req, err := scanOffHoursRequest(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return clock.OffHoursRequest{}, clock.ErrRequestNotFound
		}
		return clock.OffHoursRequest{}, fmt.Errorf("failed to get off-hours request: %w", err)
	}
	return req, nil
}

// Review implements clock.OffHoursRequestRepository.
func (r *offHoursRequestRepository) Review(ctx context.Context, id string, status clock.RequestStatus, reviewerID string, reviewedAt time.Time) (clock.OffHoursRequest, error) {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx, `
		UPDATE off_hours_requests
		SET status = ?, reviewer_id = ?, reviewed_at = ?
		WHERE id = ? AND status = ?`,
		status, reviewerID, formatTime(reviewedAt), id, clock.RequestPending,
	)
	if err != nil {
		return clock.OffHoursRequest{}, fmt.Errorf("failed to review off-hours request: %w", err)
	}

	req, err := r.GetByID(ctx, id)
	if err != nil {
		return clock.OffHoursRequest{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return clock.OffHoursRequest{}, clock.ErrRequestAlreadyReviewed
	}
	return req, nil
}
