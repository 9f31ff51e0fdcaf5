package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

// Resolver combines the national calendar with company holiday records.
type Resolver struct {
	national    NationalCalendar
	holidayRepo holiday.HolidayRepository
}

func NewResolver(national NationalCalendar, holidayRepo holiday.HolidayRepository) *Resolver {
	return &Resolver{
		national:    national,
		holidayRepo: holidayRepo,
	}
}

// IsHoliday checks the national calendar, then one-time company holidays,
// then recurring ones, stopping at the first match.
func (r *Resolver) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	date = utils.Date(date.Date())

	if r.national != nil && r.national.IsHoliday(date) {
		return true, nil
	}

	fixed, err := r.holidayRepo.ExistsOnDate(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to check company holidays: %w", err)
	}
	if fixed {
		return true, nil
	}

	recurring, err := r.holidayRepo.ExistsRecurring(ctx, date.Month(), date.Day())
	if err != nil {
		return false, fmt.Errorf("failed to check recurring holidays: %w", err)
	}
	return recurring, nil
}
