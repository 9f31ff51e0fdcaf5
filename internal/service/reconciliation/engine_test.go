package reconciliation

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/sqlite"
	scheduleService "github.com/cmlabs-hris/timebank-backend-go/internal/service/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/service/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday   = utils.Date(2025, 3, 10)
	saturday = utils.Date(2025, 3, 8)
)

type fakeHolidays map[string]bool

func (f fakeHolidays) IsHoliday(_ context.Context, date time.Time) (bool, error) {
	return f[utils.FormatDate(date)], nil
}

type fixture struct {
	engine      *Engine
	employees   employee.EmployeeRepository
	events      clock.EventRepository
	excuses     excuse.AbsenceExcuseRepository
	ledger      hourbank.HourBankRepository
	schedules   schedule.ScheduleRepository
	assignments schedule.EmployeeScheduleAssignmentRepository
	holidays    fakeHolidays
}

func newFixture(t *testing.T, policy reconciliation.AbsencePolicy) *fixture {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		employees:   sqlite.NewEmployeeRepository(db),
		events:      sqlite.NewClockEventRepository(db),
		excuses:     sqlite.NewAbsenceExcuseRepository(db),
		ledger:      sqlite.NewHourBankRepository(db),
		schedules:   sqlite.NewScheduleRepository(db),
		assignments: sqlite.NewEmployeeScheduleAssignmentRepository(db),
		holidays:    fakeHolidays{},
	}
	f.engine = f.newEngine(scheduleService.NewResolver(f.assignments), sqlite.NewReconciliationRunRepository(db), policy)
	return f
}

func (f *fixture) newEngine(shifts ShiftResolver, runs reconciliation.RunRepository, policy reconciliation.AbsencePolicy) *Engine {
	e := NewEngine(
		f.employees,
		f.events,
		f.excuses,
		f.ledger,
		runs,
		shifts,
		f.holidays,
		status.NewSynchronizer(f.employees, f.events, nil, time.UTC),
		Config{Location: time.UTC, AbsencePolicy: policy, Workers: 4, OvernightGrace: 4 * time.Hour},
	)
	e.now = func() time.Time { return time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC) }
	return e
}

// employeeOn creates an employee assigned to a schedule with the given hours
// from the start of 2025.
func (f *fixture) employeeOn(t *testing.T, name string, entry, exit schedule.TimeOfDay, days schedule.Weekdays, priority bool) employee.Employee {
	t.Helper()
	ctx := context.Background()

	emp, err := f.employees.Create(ctx, employee.Employee{FullName: name})
	require.NoError(t, err)

	sched, err := f.schedules.Create(ctx, schedule.Schedule{
		Name:         name + " shift",
		WorkingDays:  days,
		EntryTime:    entry,
		ExitTime:     exit,
		LunchMinutes: 60,
		Priority:     priority,
	})
	require.NoError(t, err)

	_, err = f.assignments.Create(ctx, schedule.EmployeeScheduleAssignment{
		EmployeeID: emp.ID,
		ScheduleID: sched.ID,
		StartDate:  utils.Date(2025, 1, 1),
	})
	require.NoError(t, err)
	return emp
}

func (f *fixture) officeWorker(t *testing.T, name string, priority bool) employee.Employee {
	return f.employeeOn(t, name, schedule.NewTimeOfDay(8, 0), schedule.NewTimeOfDay(17, 0), weekdaysMonFri, priority)
}

var weekdaysMonFri = schedule.NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

type punch struct {
	t  clock.EventType
	at time.Time
}

func at(date time.Time, hour, minute int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
}

func (f *fixture) punch(t *testing.T, employeeID string, punches ...punch) {
	t.Helper()
	for _, p := range punches {
		_, err := f.events.Create(context.Background(), clock.Event{EmployeeID: employeeID, Type: p.t, Timestamp: p.at})
		require.NoError(t, err)
	}
}

// fullDay punches a day with a one hour lunch at noon.
func fullDay(date time.Time, inH, inM, outH, outM int) []punch {
	return []punch{
		{clock.EventClockIn, at(date, inH, inM)},
		{clock.EventLunchOut, at(date, 12, 0)},
		{clock.EventLunchIn, at(date, 13, 0)},
		{clock.EventClockOut, at(date, outH, outM)},
	}
}

func (f *fixture) entry(t *testing.T, employeeID string, date time.Time) *hourbank.Entry {
	t.Helper()
	got, err := f.ledger.Get(context.Background(), employeeID, date)
	require.NoError(t, err)
	return got
}

func TestReconcileWorkday(t *testing.T) {
	tests := []struct {
		name        string
		punches     func(date time.Time) []punch
		outcome     reconciliation.Outcome
		minutes     int
		description string
	}{
		{
			name:    "balanced day writes nothing",
			punches: func(d time.Time) []punch { return fullDay(d, 8, 0, 17, 0) },
			outcome: reconciliation.OutcomeBalanced,
		},
		{
			name:        "overtime",
			punches:     func(d time.Time) []punch { return fullDay(d, 8, 0, 18, 0) },
			outcome:     reconciliation.OutcomeWorked,
			minutes:     60,
			description: DescriptionOvertime,
		},
		{
			name:        "late arrival",
			punches:     func(d time.Time) []punch { return fullDay(d, 8, 30, 17, 0) },
			outcome:     reconciliation.OutcomeWorked,
			minutes:     -30,
			description: "late by 30 min",
		},
		{
			name:        "late arrival and early departure",
			punches:     func(d time.Time) []punch { return fullDay(d, 8, 30, 16, 0) },
			outcome:     reconciliation.OutcomeWorked,
			minutes:     -90,
			description: "late (30 min) and early departure",
		},
		{
			name:        "early departure",
			punches:     func(d time.Time) []punch { return fullDay(d, 8, 0, 16, 15) },
			outcome:     reconciliation.OutcomeWorked,
			minutes:     -45,
			description: DescriptionEarlyDeparture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, reconciliation.AbsenceFlag)
			emp := f.officeWorker(t, "Ana", false)
			f.punch(t, emp.ID, tt.punches(monday)...)

			result, err := f.engine.ReconcileDay(context.Background(), emp.ID, monday)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.minutes, result.Minutes)

			got := f.entry(t, emp.ID, monday)
			if tt.minutes == 0 {
				assert.Nil(t, got)
				assert.False(t, result.Written)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.minutes, got.Minutes)
			assert.Equal(t, tt.description, got.Description)
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, reconciliation.AbsenceFlag)
	emp := f.officeWorker(t, "Ana", false)
	f.punch(t, emp.ID, fullDay(monday, 8, 0, 18, 0)...)

	first, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
	require.NoError(t, err)
	second, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := f.ledger.List(ctx, emp.ID, monday, monday)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 60, entries[0].Minutes)
}

func TestReconcileBalancedDayClearsStaleEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, reconciliation.AbsenceFlag)
	emp := f.officeWorker(t, "Ana", false)

	_, err := f.ledger.Upsert(ctx, hourbank.Entry{EmployeeID: emp.ID, Date: monday, Minutes: 45, Description: DescriptionOvertime})
	require.NoError(t, err)
	f.punch(t, emp.ID, fullDay(monday, 8, 0, 17, 0)...)

	result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.OutcomeBalanced, result.Outcome)
	assert.Nil(t, f.entry(t, emp.ID, monday))
}

func TestReconcileAbsence(t *testing.T) {
	ctx := context.Background()

	t.Run("flag policy clears the day", func(t *testing.T) {
		f := newFixture(t, reconciliation.AbsenceFlag)
		emp := f.officeWorker(t, "Ana", false)
		_, err := f.ledger.Upsert(ctx, hourbank.Entry{EmployeeID: emp.ID, Date: monday, Minutes: 30, Description: DescriptionOvertime})
		require.NoError(t, err)

		result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		require.NoError(t, err)
		assert.Equal(t, reconciliation.OutcomeAbsent, result.Outcome)
		assert.False(t, result.Written)
		assert.Nil(t, f.entry(t, emp.ID, monday))
	})

	t.Run("debit policy charges the gross workload", func(t *testing.T) {
		f := newFixture(t, reconciliation.AbsenceDebit)
		emp := f.officeWorker(t, "Ana", false)

		result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		require.NoError(t, err)
		assert.Equal(t, reconciliation.OutcomeAbsent, result.Outcome)

		got := f.entry(t, emp.ID, monday)
		require.NotNil(t, got)
		assert.Equal(t, -540, got.Minutes)
		assert.Equal(t, DescriptionUnjustifiedAbsence, got.Description)
	})
}

func TestReconcileHoliday(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		priority    bool
		worked      bool
		minutes     int
		description string
	}{
		{"priority schedule absent", true, false, -480, DescriptionHolidayPriorityAbsence},
		{"priority schedule worked", true, true, 480, DescriptionHolidayPriorityWorked},
		{"regular schedule called in", false, true, 960, DescriptionHolidayCallIn},
		{"regular schedule off", false, false, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, reconciliation.AbsenceDebit)
			f.holidays[utils.FormatDate(monday)] = true
			emp := f.officeWorker(t, "Ana", tt.priority)
			if tt.worked {
				f.punch(t, emp.ID, fullDay(monday, 8, 0, 17, 0)...)
			}

			result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
			require.NoError(t, err)
			assert.Equal(t, reconciliation.OutcomeHoliday, result.Outcome)

			got := f.entry(t, emp.ID, monday)
			if tt.minutes == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.minutes, got.Minutes)
			assert.Equal(t, tt.description, got.Description)
		})
	}
}

func TestReconcileHolidayOnDayOffCountsAsHoliday(t *testing.T) {
	f := newFixture(t, reconciliation.AbsenceFlag)
	f.holidays[utils.FormatDate(saturday)] = true
	emp := f.officeWorker(t, "Ana", false)
	f.punch(t, emp.ID,
		punch{clock.EventClockIn, at(saturday, 8, 0)},
		punch{clock.EventClockOut, at(saturday, 12, 0)},
	)

	result, err := f.engine.ReconcileDay(context.Background(), emp.ID, saturday)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.OutcomeHoliday, result.Outcome)
	assert.Equal(t, 480, result.Minutes)
}

func TestApprovedExcuseTakesPrecedence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, reconciliation.AbsenceDebit)
	f.holidays[utils.FormatDate(monday)] = true

	boss, err := f.employees.Create(ctx, employee.Employee{FullName: "Carla"})
	require.NoError(t, err)
	emp := f.officeWorker(t, "Ana", true)
	f.punch(t, emp.ID, fullDay(monday, 8, 0, 19, 0)...)
	_, err = f.ledger.Upsert(ctx, hourbank.Entry{EmployeeID: emp.ID, Date: monday, Minutes: 120, Description: DescriptionOvertime})
	require.NoError(t, err)

	req, err := f.excuses.Create(ctx, excuse.AbsenceExcuseRequest{
		EmployeeID:  emp.ID,
		Type:        excuse.TypeFullDay,
		StartAt:     monday,
		EndAt:       monday.AddDate(0, 0, 1),
		Reason:      "medical appointment",
		Status:      excuse.StatusPending,
		SubmittedAt: at(monday, 7, 0),
	})
	require.NoError(t, err)
	_, err = f.excuses.Review(ctx, req.ID, excuse.StatusApproved, boss.ID, at(monday, 9, 0))
	require.NoError(t, err)

	result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.OutcomeExcused, result.Outcome)
	assert.Nil(t, f.entry(t, emp.ID, monday))
}

func TestReconcileWithoutWorkday(t *testing.T) {
	ctx := context.Background()

	t.Run("day off", func(t *testing.T) {
		f := newFixture(t, reconciliation.AbsenceDebit)
		emp := f.officeWorker(t, "Ana", false)

		result, err := f.engine.ReconcileDay(ctx, emp.ID, saturday)
		require.NoError(t, err)
		assert.Equal(t, reconciliation.OutcomeDayOff, result.Outcome)
		assert.Nil(t, f.entry(t, emp.ID, saturday))
	})

	t.Run("no schedule", func(t *testing.T) {
		f := newFixture(t, reconciliation.AbsenceDebit)
		emp, err := f.employees.Create(ctx, employee.Employee{FullName: "Bruno"})
		require.NoError(t, err)

		result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		require.NoError(t, err)
		assert.Equal(t, reconciliation.OutcomeNoSchedule, result.Outcome)
		assert.Nil(t, f.entry(t, emp.ID, monday))
	})

	t.Run("day not over yet", func(t *testing.T) {
		f := newFixture(t, reconciliation.AbsenceDebit)
		emp := f.officeWorker(t, "Ana", false)

		_, err := f.engine.ReconcileDay(ctx, emp.ID, utils.Date(2025, 3, 12))
		assert.ErrorIs(t, err, reconciliation.ErrFutureDate)
	})
}

func TestReconcileOvernightShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, reconciliation.AbsenceFlag)
	everyDay := schedule.NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday)
	emp := f.employeeOn(t, "Night", schedule.NewTimeOfDay(22, 0), schedule.NewTimeOfDay(6, 0), everyDay, false)

	tuesday := monday.AddDate(0, 0, 1)
	f.punch(t, emp.ID,
		punch{clock.EventClockIn, at(monday, 22, 0)},
		punch{clock.EventLunchOut, at(tuesday, 2, 0)},
		punch{clock.EventLunchIn, at(tuesday, 3, 0)},
		punch{clock.EventClockOut, at(tuesday, 7, 0)},
	)

	result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.OutcomeWorked, result.Outcome)
	assert.Equal(t, 60, result.Minutes)
	assert.Equal(t, DescriptionOvertime, result.Description)
}

func TestReconcileOvernightShiftStillOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, reconciliation.AbsenceFlag)
	everyDay := schedule.NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday)
	emp := f.employeeOn(t, "Night", schedule.NewTimeOfDay(22, 0), schedule.NewTimeOfDay(6, 0), everyDay, false)

	tuesday := monday.AddDate(0, 0, 1)
	f.punch(t, emp.ID, punch{clock.EventClockIn, at(monday, 22, 0)})

	t.Run("before exit plus grace", func(t *testing.T) {
		f.engine.now = func() time.Time { return at(tuesday, 0, 30) }

		_, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		assert.ErrorIs(t, err, reconciliation.ErrFutureDate)
		assert.Nil(t, f.entry(t, emp.ID, monday))
	})

	t.Run("one minute before the window closes", func(t *testing.T) {
		f.engine.now = func() time.Time { return at(tuesday, 9, 59) }

		_, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		assert.ErrorIs(t, err, reconciliation.ErrFutureDate)
		assert.Nil(t, f.entry(t, emp.ID, monday))
	})

	t.Run("settles once the window closes", func(t *testing.T) {
		// 22:00 to 05:00 is the 420 net minutes of the schedule.
		f.punch(t, emp.ID, punch{clock.EventClockOut, at(tuesday, 5, 0)})
		f.engine.now = func() time.Time { return at(tuesday, 10, 0) }

		result, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		require.NoError(t, err)
		assert.Equal(t, reconciliation.OutcomeBalanced, result.Outcome)
		assert.Nil(t, f.entry(t, emp.ID, monday))
	})
}

type countingEmployees struct {
	employee.EmployeeRepository
	updates int
}

func (c *countingEmployees) UpdateOperationalStatus(ctx context.Context, id string, st employee.OperationalStatus) error {
	c.updates++
	return c.EmployeeRepository.UpdateOperationalStatus(ctx, id, st)
}

func TestReconcileResetsOperationalStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("stale available becomes offline", func(t *testing.T) {
		f := newFixture(t, reconciliation.AbsenceFlag)
		counting := &countingEmployees{EmployeeRepository: f.employees}
		f.engine.status = status.NewSynchronizer(counting, f.events, nil, time.UTC)

		emp := f.officeWorker(t, "Ana", false)
		f.punch(t, emp.ID, fullDay(monday, 8, 0, 17, 0)...)
		require.NoError(t, f.employees.UpdateOperationalStatus(ctx, emp.ID, employee.OperationalAvailable))

		_, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		require.NoError(t, err)

		got, err := f.employees.GetByID(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, employee.OperationalOffline, got.OperationalStatus)
		assert.Equal(t, 1, counting.updates)
	})

	t.Run("already offline is left alone", func(t *testing.T) {
		f := newFixture(t, reconciliation.AbsenceFlag)
		counting := &countingEmployees{EmployeeRepository: f.employees}
		f.engine.status = status.NewSynchronizer(counting, f.events, nil, time.UTC)

		emp := f.officeWorker(t, "Ana", false)
		f.punch(t, emp.ID, fullDay(monday, 8, 0, 17, 0)...)

		_, err := f.engine.ReconcileDay(ctx, emp.ID, monday)
		require.NoError(t, err)

		got, err := f.employees.GetByID(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, employee.OperationalOffline, got.OperationalStatus)
		assert.Zero(t, counting.updates)
	})
}

type flakyShifts struct {
	ShiftResolver
	failFor  string
	panicFor string
}

func (s flakyShifts) Resolve(ctx context.Context, employeeID string, date time.Time) (*schedule.Schedule, error) {
	switch employeeID {
	case s.failFor:
		return nil, errors.New("schedule store unavailable")
	case s.panicFor:
		panic("corrupt schedule")
	}
	return s.ShiftResolver.Resolve(ctx, employeeID, date)
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, reconciliation.AbsenceFlag)
	ok := f.officeWorker(t, "Ana", false)
	failing := f.officeWorker(t, "Bruno", false)
	panicking := f.officeWorker(t, "Carla", false)
	f.punch(t, ok.ID, fullDay(monday, 8, 0, 18, 0)...)

	shifts := flakyShifts{
		ShiftResolver: scheduleService.NewResolver(f.assignments),
		failFor:       failing.ID,
		panicFor:      panicking.ID,
	}
	engine := f.newEngine(shifts, f.engine.runRepo, reconciliation.AbsenceFlag)

	run, err := engine.RunBatch(ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Processed)
	assert.Equal(t, 2, run.Failed)
	assert.Equal(t, 1, run.Counts[reconciliation.OutcomeWorked])
	assert.Equal(t, 2, run.Counts[reconciliation.OutcomeFailed])
	require.Len(t, run.Failures, 2)
	assert.True(t, sort.SliceIsSorted(run.Failures, func(i, j int) bool {
		return run.Failures[i].EmployeeID < run.Failures[j].EmployeeID
	}))

	got := f.entry(t, ok.ID, monday)
	require.NotNil(t, got)
	assert.Equal(t, 60, got.Minutes)

	done, err := engine.HasRun(ctx, monday)
	require.NoError(t, err)
	assert.True(t, done)

	runs, err := engine.LatestRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Failed)
}

func TestRunBatchRejectsFutureDate(t *testing.T) {
	f := newFixture(t, reconciliation.AbsenceFlag)
	_, err := f.engine.RunBatch(context.Background(), utils.Date(2025, 3, 13))
	assert.ErrorIs(t, err, reconciliation.ErrFutureDate)
}

func TestParseTargetDate(t *testing.T) {
	now := time.Date(2025, 3, 11, 1, 30, 0, 0, time.UTC)
	brt := time.FixedZone("BRT", -3*60*60)

	got, err := ParseTargetDate("", now, brt)
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2025, 3, 9), got)

	got, err = ParseTargetDate(" 2025-02-28 ", now, brt)
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2025, 2, 28), got)

	_, err = ParseTargetDate("28/02/2025", now, brt)
	assert.ErrorIs(t, err, reconciliation.ErrInvalidDate)
}
