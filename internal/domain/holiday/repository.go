package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	List(ctx context.Context) ([]Holiday, error)
	// ExistsOnDate matches one-time holidays on exactly date.
	ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
	// ExistsRecurring matches recurrent holidays on day and month.
	ExistsRecurring(ctx context.Context, month time.Month, day int) (bool, error)
}
