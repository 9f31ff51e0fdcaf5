package hourbank

import (
	"context"
	"time"
)

type HourBankRepository interface {
	// Upsert writes the single entry for (EmployeeID, Date), replacing any
	// earlier minutes and description.
	Upsert(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, employeeID string, date time.Time) error
	// Get returns nil with no error when the day has no entry.
	Get(ctx context.Context, employeeID string, date time.Time) (*Entry, error)
	// Sum totals minutes for dates in [from, to] inclusive.
	Sum(ctx context.Context, employeeID string, from, to time.Time) (int, error)
	List(ctx context.Context, employeeID string, from, to time.Time) ([]Entry, error)
	DeleteAll(ctx context.Context) (int64, error)
}
