package reconciliation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

type ShiftResolver interface {
	// Resolve returns nil with no error when the employee has no schedule on date.
	Resolve(ctx context.Context, employeeID string, date time.Time) (*schedule.Schedule, error)
}

type HolidayResolver interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

type StatusSynchronizer interface {
	Sync(ctx context.Context, employeeID string) (employee.OperationalStatus, bool, error)
}

type Config struct {
	Location       *time.Location
	AbsencePolicy  reconciliation.AbsencePolicy
	Workers        int
	OvernightGrace time.Duration
}

// Engine turns a day of clock events into at most one hour-bank entry per
// employee.
type Engine struct {
	employeeRepo employee.EmployeeRepository
	eventRepo    clock.EventRepository
	excuseRepo   excuse.AbsenceExcuseRepository
	hourBankRepo hourbank.HourBankRepository
	runRepo      reconciliation.RunRepository
	shifts       ShiftResolver
	holidays     HolidayResolver
	status       StatusSynchronizer
	cfg          Config
	now          func() time.Time
}

func NewEngine(
	employeeRepo employee.EmployeeRepository,
	eventRepo clock.EventRepository,
	excuseRepo excuse.AbsenceExcuseRepository,
	hourBankRepo hourbank.HourBankRepository,
	runRepo reconciliation.RunRepository,
	shifts ShiftResolver,
	holidays HolidayResolver,
	status StatusSynchronizer,
	cfg Config,
) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.AbsencePolicy == "" {
		cfg.AbsencePolicy = reconciliation.AbsenceFlag
	}
	return &Engine{
		employeeRepo: employeeRepo,
		eventRepo:    eventRepo,
		excuseRepo:   excuseRepo,
		hourBankRepo: hourBankRepo,
		runRepo:      runRepo,
		shifts:       shifts,
		holidays:     holidays,
		status:       status,
		cfg:          cfg,
		now:          time.Now,
	}
}

// ReconcileDay settles one employee-day. Running it again with unchanged
// inputs leaves the ledger as it was.
func (e *Engine) ReconcileDay(ctx context.Context, employeeID string, date time.Time) (reconciliation.DayResult, error) {
	date = utils.Date(date.Date())
	result := reconciliation.DayResult{EmployeeID: employeeID, Date: date}

	dayStart, dayEnd := utils.DayBounds(date, e.cfg.Location)
	if e.now().Before(dayEnd) {
		return result, fmt.Errorf("%w: %s", reconciliation.ErrFutureDate, utils.FormatDate(date))
	}

	excused, err := e.excuseRepo.HasApprovedFullDay(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return result, fmt.Errorf("failed to check absence excuses: %w", err)
	}
	if excused {
		result.Outcome = reconciliation.OutcomeExcused
		return e.settle(ctx, result, 0, "")
	}

	sched, err := e.shifts.Resolve(ctx, employeeID, date)
	if err != nil {
		return result, fmt.Errorf("failed to resolve schedule: %w", err)
	}
	if sched == nil {
		slog.Warn("Reconciliation: no schedule assigned", "employee_id", employeeID, "date", utils.FormatDate(date))
		result.Outcome = reconciliation.OutcomeNoSchedule
		return result, nil
	}

	isHoliday, err := e.holidays.IsHoliday(ctx, date)
	if err != nil {
		return result, fmt.Errorf("failed to check holiday: %w", err)
	}

	if !isHoliday && !sched.WorksOn(date) {
		result.Outcome = reconciliation.OutcomeDayOff
		return result, nil
	}

	// An overnight shift is still open until the next-day exit plus grace.
	if _, windowEnd := shiftWindow(*sched, date, e.cfg.Location, e.cfg.OvernightGrace); e.now().Before(windowEnd) {
		return result, fmt.Errorf("%w: %s shift ends at %s", reconciliation.ErrFutureDate,
			utils.FormatDate(date), windowEnd.In(e.cfg.Location).Format(time.RFC3339))
	}

	if isHoliday {
		result, err = e.reconcileHoliday(ctx, result, *sched)
	} else {
		result, err = e.reconcileWorkday(ctx, result, *sched)
	}
	if err != nil {
		return result, err
	}

	if _, _, err := e.status.Sync(ctx, employeeID); err != nil {
		return result, fmt.Errorf("failed to sync operational status: %w", err)
	}
	return result, nil
}

func (e *Engine) reconcileHoliday(ctx context.Context, result reconciliation.DayResult, sched schedule.Schedule) (reconciliation.DayResult, error) {
	result.Outcome = reconciliation.OutcomeHoliday

	events, err := e.dayEvents(ctx, result.EmployeeID, sched, result.Date)
	if err != nil {
		return result, err
	}
	expected := ExpectedMinutes(sched, result.Date, e.cfg.Location)

	var minutes float64
	var description string
	switch {
	case sched.Priority && len(events) == 0:
		minutes = -float64(expected.Net)
		description = DescriptionHolidayPriorityAbsence
	case sched.Priority:
		minutes = WorkedMinutes(events)*2 - float64(expected.Net)
		description = DescriptionHolidayPriorityWorked
	case len(events) == 0:
		return e.settle(ctx, result, 0, "")
	default:
		minutes = WorkedMinutes(events) * 2
		description = DescriptionHolidayCallIn
	}

	return e.settle(ctx, result, roundMinutes(minutes), description)
}

func (e *Engine) reconcileWorkday(ctx context.Context, result reconciliation.DayResult, sched schedule.Schedule) (reconciliation.DayResult, error) {
	events, err := e.dayEvents(ctx, result.EmployeeID, sched, result.Date)
	if err != nil {
		return result, err
	}
	expected := ExpectedMinutes(sched, result.Date, e.cfg.Location)

	if len(events) == 0 {
		result.Outcome = reconciliation.OutcomeAbsent
		slog.Info("Reconciliation: unjustified absence",
			"employee_id", result.EmployeeID,
			"date", utils.FormatDate(result.Date),
			"policy", e.cfg.AbsencePolicy,
		)
		if e.cfg.AbsencePolicy == reconciliation.AbsenceDebit {
			return e.settle(ctx, result, -expected.Gross, DescriptionUnjustifiedAbsence)
		}
		return e.settle(ctx, result, 0, "")
	}

	delta := roundMinutes(WorkedMinutes(events) - float64(expected.Net))
	if delta == 0 {
		result.Outcome = reconciliation.OutcomeBalanced
		return e.settle(ctx, result, 0, "")
	}

	result.Outcome = reconciliation.OutcomeWorked
	description := Describe(delta, firstOfType(events, clock.EventClockIn), sched.EntryTime, e.cfg.Location)
	return e.settle(ctx, result, delta, description)
}

// settle writes minutes for the day, or removes the entry when minutes is zero.
func (e *Engine) settle(ctx context.Context, result reconciliation.DayResult, minutes int, description string) (reconciliation.DayResult, error) {
	if minutes == 0 {
		if err := e.hourBankRepo.Delete(ctx, result.EmployeeID, result.Date); err != nil {
			return result, fmt.Errorf("failed to clear hour bank entry: %w", err)
		}
		return result, nil
	}

	_, err := e.hourBankRepo.Upsert(ctx, hourbank.Entry{
		EmployeeID:  result.EmployeeID,
		Date:        result.Date,
		Minutes:     minutes,
		Description: description,
		ProcessedAt: e.now(),
	})
	if err != nil {
		return result, fmt.Errorf("failed to upsert hour bank entry: %w", err)
	}

	result.Minutes = minutes
	result.Description = description
	result.Written = true
	return result, nil
}

func (e *Engine) dayEvents(ctx context.Context, employeeID string, sched schedule.Schedule, date time.Time) ([]clock.Event, error) {
	from, to := shiftWindow(sched, date, e.cfg.Location, e.cfg.OvernightGrace)
	events, err := e.eventRepo.ListBetween(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load clock events: %w", err)
	}
	return SortEvents(events), nil
}
