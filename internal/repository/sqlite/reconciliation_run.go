package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
)

type runRepository struct {
	db *DB
}

func NewReconciliationRunRepository(db *DB) reconciliation.RunRepository {
	return &runRepository{db: db}
}

// Create implements reconciliation.RunRepository.
func (r *runRepository) Create(ctx context.Context, run reconciliation.Run) (reconciliation.Run, error) {
	id, err := newID()
	if err != nil {
		return reconciliation.Run{}, err
	}
	run.ID = id

	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return reconciliation.Run{}, fmt.Errorf("failed to encode run counts: %w", err)
	}
	failures := run.Failures
	if failures == nil {
		failures = []reconciliation.Failure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return reconciliation.Run{}, fmt.Errorf("failed to encode run failures: %w", err)
	}

	_, err = getQuerier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO reconciliation_runs (id, date, started_at, finished_at, processed, failed, counts, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatDate(run.Date), formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Processed, run.Failed, string(counts), string(failuresJSON),
	)
	if err != nil {
		return reconciliation.Run{}, fmt.Errorf("failed to save reconciliation run: %w", err)
	}
	return run, nil
}

// ExistsForDate implements reconciliation.RunRepository.
func (r *runRepository) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := getQuerier(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reconciliation_runs WHERE date = ?)`, formatDate(date),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reconciliation run: %w", err)
	}
	return exists, nil
}

// Latest implements reconciliation.RunRepository.
func (r *runRepository) Latest(ctx context.Context, limit int) ([]reconciliation.Run, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, `
		SELECT id, date, started_at, finished_at, processed, failed, counts, failures
		FROM reconciliation_runs
		ORDER BY started_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation runs: %w", err)
	}
	defer rows.Close()

	var runs []reconciliation.Run
	for rows.Next() {
		var (
			run                         reconciliation.Run
			date, startedAt, finishedAt string
			counts, failures            string
		)
		if err := rows.Scan(&run.ID, &date, &startedAt, &finishedAt, &run.Processed, &run.Failed, &counts, &failures); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation run: %w", err)
		}
		if run.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(counts), &run.Counts); err != nil {
			return nil, fmt.Errorf("failed to decode run counts: %w", err)
		}
		if err := json.Unmarshal([]byte(failures), &run.Failures); err != nil {
			return nil, fmt.Errorf("failed to decode run failures: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
