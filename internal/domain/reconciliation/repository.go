package reconciliation

import (
	"context"
	"time"
)

type RunRepository interface {
	Create(ctx context.Context, run Run) (Run, error)
	ExistsForDate(ctx context.Context, date time.Time) (bool, error)
	Latest(ctx context.Context, limit int) ([]Run, error)
}
