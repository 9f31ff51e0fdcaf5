package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
)

type reconciliationRunRepositoryImpl struct {
	db *database.DB
}

// Create implements reconciliation.RunRepository.
func (r *reconciliationRunRepositoryImpl) Create(ctx context.Context, run reconciliation.Run) (reconciliation.Run, error) {
	q := GetQuerier(ctx, r.db)

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

	query := `
		INSERT INTO reconciliation_runs (id, date, started_at, finished_at, processed, failed, counts, failures)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = q.Exec(ctx, query,
		run.ID, run.Date, run.StartedAt, run.FinishedAt,
		run.Processed, run.Failed, counts, failuresJSON,
	)
	if err != nil {
		return reconciliation.Run{}, fmt.Errorf("failed to save reconciliation run: %w", err)
	}
	return run, nil
}

// ExistsForDate implements reconciliation.RunRepository.
func (r *reconciliationRunRepositoryImpl) ExistsForDate(ctx context.Context, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reconciliation_runs WHERE date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reconciliation run: %w", err)
	}
	return exists, nil
}

// Latest implements reconciliation.RunRepository.
func (r *reconciliationRunRepositoryImpl) Latest(ctx context.Context, limit int) ([]reconciliation.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, started_at, finished_at, processed, failed, counts, failures
		FROM reconciliation_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliation runs: %w", err)
	}
	defer rows.Close()

	var runs []reconciliation.Run
	for rows.Next() {
		var (
			run            reconciliation.Run
			counts, failed []byte
		)
		if err := rows.Scan(&run.ID, &run.Date, &run.StartedAt, &run.FinishedAt, &run.Processed, &run.Failed, &counts, &failed); err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation run: %w", err)
		}
		if err := json.Unmarshal(counts, &run.Counts); err != nil {
			return nil, fmt.Errorf("failed to decode run counts: %w", err)
		}
		if err := json.Unmarshal(failed, &run.Failures); err != nil {
			return nil, fmt.Errorf("failed to decode run failures: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func NewReconciliationRunRepository(db *database.DB) reconciliation.RunRepository {
	return &reconciliationRunRepositoryImpl{
		db: db,
	}
}
