package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
)

var ErrPurgeNotConfirmed = errors.New("purge requires explicit confirmation")

type PurgeResult struct {
	EventsDeleted  int64 `json:"events_deleted"`
	EntriesDeleted int64 `json:"entries_deleted"`
	EmployeesReset int64 `json:"employees_reset"`
}

type Purger struct {
	db           database.Transactor
	eventRepo    clock.EventRepository
	hourBankRepo hourbank.HourBankRepository
	employeeRepo employee.EmployeeRepository
}

func NewPurger(db database.Transactor, eventRepo clock.EventRepository, hourBankRepo hourbank.HourBankRepository, employeeRepo employee.EmployeeRepository) *Purger {
	return &Purger{
		db:           db,
		eventRepo:    eventRepo,
		hourBankRepo: hourBankRepo,
		employeeRepo: employeeRepo,
	}
}

// Purge deletes every clock event and hour-bank entry and sets every
// employee offline, all in one transaction. Schedules, requests, excuses and
// holidays are kept.
func (p *Purger) Purge(ctx context.Context, confirmed bool) (PurgeResult, error) {
	if !confirmed {
		return PurgeResult{}, ErrPurgeNotConfirmed
	}

	var result PurgeResult
	err := p.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if result.EventsDeleted, err = p.eventRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to delete clock events: %w", err)
		}
		if result.EntriesDeleted, err = p.hourBankRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to delete hour bank entries: %w", err)
		}
		if result.EmployeesReset, err = p.employeeRepo.ResetOperationalStatus(ctx); err != nil {
			return fmt.Errorf("failed to reset operational status: %w", err)
		}
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}

	slog.Warn("Operational data purged",
		"events_deleted", result.EventsDeleted,
		"entries_deleted", result.EntriesDeleted,
		"employees_reset", result.EmployeesReset,
	)
	return result, nil
}
