package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// ParseTargetDate resolves the batch date argument. An empty value means
// yesterday in loc.
func ParseTargetDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return utils.Yesterday(now, loc), nil
	}
	date, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", reconciliation.ErrInvalidDate, s)
	}
	return date, nil
}

// RunBatch reconciles every active employee for date. Employees are processed
// concurrently up to the configured worker count; one employee failing is
// logged and counted without stopping the others.
func (e *Engine) RunBatch(ctx context.Context, date time.Time) (reconciliation.Run, error) {
	date = utils.Date(date.Date())
	if _, dayEnd := utils.DayBounds(date, e.cfg.Location); e.now().Before(dayEnd) {
		return reconciliation.Run{}, fmt.Errorf("%w: %s", reconciliation.ErrFutureDate, utils.FormatDate(date))
	}

	employees, err := e.employeeRepo.GetActive(ctx)
	if err != nil {
		return reconciliation.Run{}, fmt.Errorf("failed to load active employees: %w", err)
	}

	slog.Info("Reconciliation: batch starting",
		"date", utils.FormatDate(date),
		"employees", len(employees),
		"workers", e.cfg.Workers,
	)

	run := reconciliation.Run{
		Date:      date,
		StartedAt: e.now(),
		Counts:    make(map[reconciliation.Outcome]int),
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(e.cfg.Workers)

	for _, emp := range employees {
		emp := emp // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loop semantics)
		g.Go(func() error {
			result, err := e.reconcileIsolated(ctx, emp.ID, date)

			mu.Lock()
			defer mu.Unlock()
			run.Processed++
			if err != nil {
				run.Failed++
				run.Counts[reconciliation.OutcomeFailed]++
				run.Failures = append(run.Failures, reconciliation.Failure{EmployeeID: emp.ID, Error: err.Error()})
				slog.Error("Reconciliation: employee failed", "employee_id", emp.ID, "date", utils.FormatDate(date), "error", err)
				return nil
			}
			run.Counts[result.Outcome]++
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(run.Failures, func(i, j int) bool {
		return run.Failures[i].EmployeeID < run.Failures[j].EmployeeID
	})
	run.FinishedAt = e.now()

	if e.runRepo != nil {
		saved, err := e.runRepo.Create(ctx, run)
		if err != nil {
			slog.Error("Reconciliation: failed to record run", "date", utils.FormatDate(date), "error", err)
		} else {
			run = saved
		}
	}

	slog.Info("Reconciliation: batch finished",
		"date", utils.FormatDate(date),
		"processed", run.Processed,
		"failed", run.Failed,
		"duration", run.FinishedAt.Sub(run.StartedAt),
	)
	return run, nil
}

// reconcileIsolated converts a panic inside one employee's day into an error.
func (e *Engine) reconcileIsolated(ctx context.Context, employeeID string, date time.Time) (result reconciliation.DayResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while reconciling: %v", p)
		}
	}()
	return e.ReconcileDay(ctx, employeeID, date)
}

// LatestRuns lists recorded batch runs, newest first.
func (e *Engine) LatestRuns(ctx context.Context, limit int) ([]reconciliation.Run, error) {
	if e.runRepo == nil {
		return []reconciliation.Run{}, nil
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return e.runRepo.Latest(ctx, limit)
}

// HasRun reports whether a batch for date was already recorded.
func (e *Engine) HasRun(ctx context.Context, date time.Time) (bool, error) {
	if e.runRepo == nil {
		return false, nil
	}
	return e.runRepo.ExistsForDate(ctx, utils.Date(date.Date()))
}

// Location is the timezone that cuts calendar days.
func (e *Engine) Location() *time.Location {
	return e.cfg.Location
}

// Now is the engine's clock.
func (e *Engine) Now() time.Time {
	return e.now()
}
