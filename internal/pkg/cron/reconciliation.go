package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

type BatchRunner interface {
	RunBatch(ctx context.Context, date time.Time) (reconciliation.Run, error)
	HasRun(ctx context.Context, date time.Time) (bool, error)
	Location() *time.Location
	Now() time.Time
}

type ReconciliationJobs struct {
	batch     BatchRunner
	runAtHour int
}

func NewReconciliationJobs(batch BatchRunner, runAtHour int) *ReconciliationJobs {
	return &ReconciliationJobs{
		batch:     batch,
		runAtHour: runAtHour,
	}
}

func (j *ReconciliationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("daily_reconciliation", 1*time.Hour, j.DailyReconciliation)
}

// DailyReconciliation settles yesterday once the local clock has passed the
// configured hour. A day that already has a recorded run is skipped, so the
// hourly tick and restarts do not repeat it.
func (j *ReconciliationJobs) DailyReconciliation(ctx context.Context) error {
	loc := j.batch.Location()
	now := j.batch.Now().In(loc)
	if now.Hour() < j.runAtHour {
		return nil
	}

	yesterday := utils.Yesterday(now, loc)
	done, err := j.batch.HasRun(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to check previous run: %w", err)
	}
	if done {
		return nil
	}

	slog.Info("Cron: Starting daily reconciliation", "date", utils.FormatDate(yesterday))

	run, err := j.batch.RunBatch(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("daily reconciliation for %s: %w", utils.FormatDate(yesterday), err)
	}

	slog.Info("Cron: Daily reconciliation completed",
		"date", utils.FormatDate(yesterday),
		"processed", run.Processed,
		"failed", run.Failed,
	)
	return nil
}
