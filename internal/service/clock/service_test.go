package clock

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/sqlite"
	scheduleService "github.com/cmlabs-hris/timebank-backend-go/internal/service/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/service/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const operatorRole = "operator"

// todayStatus derives status from the events of the test clock's day.
type todayStatus struct {
	events clock.EventRepository
	now    *time.Time
}

func (s todayStatus) TodayEvents(ctx context.Context, employeeID string) ([]clock.Event, error) {
	from, to := utils.DayBounds(utils.DateOf(*s.now, time.UTC), time.UTC)
	return s.events.ListBetween(ctx, employeeID, from, to)
}

func (s todayStatus) Sync(ctx context.Context, employeeID string) (employee.OperationalStatus, bool, error) {
	events, err := s.TodayEvents(ctx, employeeID)
	if err != nil {
		return "", false, err
	}
	return status.Derive(events), true, nil
}

type recordingReconciler struct {
	calls []time.Time
}

func (r *recordingReconciler) ReconcileDay(_ context.Context, employeeID string, date time.Time) (reconciliation.DayResult, error) {
	r.calls = append(r.calls, date)
	return reconciliation.DayResult{EmployeeID: employeeID, Date: date}, nil
}

type env struct {
	svc        *ClockService
	now        time.Time
	employees  employee.EmployeeRepository
	events     clock.EventRepository
	reconciler *recordingReconciler
	schedule   schedule.Schedule
	assign     func(t *testing.T, employeeID string)
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schedules := sqlite.NewScheduleRepository(db)
	assignments := sqlite.NewEmployeeScheduleAssignmentRepository(db)
	pauseRules := sqlite.NewPauseRuleRepository(db)
	for i, minutes := range []int{15, 15} {
		_, err := pauseRules.Create(ctx, pauserule.Rule{RoleID: operatorRole, Name: []string{"Morning Coffee", "Afternoon Coffee"}[i], Order: i + 1, DurationMinutes: minutes})
		require.NoError(t, err)
	}

	office, err := schedules.Create(ctx, schedule.Schedule{
		Name:         "Office",
		WorkingDays:  schedule.NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday),
		EntryTime:    schedule.NewTimeOfDay(8, 0),
		ExitTime:     schedule.NewTimeOfDay(17, 0),
		LunchMinutes: 60,
	})
	require.NoError(t, err)

	e := &env{
		now:        time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		employees:  sqlite.NewEmployeeRepository(db),
		events:     sqlite.NewClockEventRepository(db),
		reconciler: &recordingReconciler{},
		schedule:   office,
	}
	e.assign = func(t *testing.T, employeeID string) {
		_, err := assignments.Create(ctx, schedule.EmployeeScheduleAssignment{
			EmployeeID: employeeID,
			ScheduleID: office.ID,
			StartDate:  utils.Date(2025, 1, 1),
		})
		require.NoError(t, err)
	}

	e.svc = NewClockService(
		sqlite.NewTransactor(db),
		e.events,
		sqlite.NewOffHoursRequestRepository(db),
		e.employees,
		pauseRules,
		scheduleService.NewResolver(assignments),
		todayStatus{events: e.events, now: &e.now},
		e.reconciler,
		Config{Location: time.UTC, EarlyWindow: time.Hour},
	)
	e.svc.now = func() time.Time { return e.now }
	return e
}

func (e *env) operator(t *testing.T, name string, supervisorID *string) employee.Employee {
	t.Helper()
	role := operatorRole
	emp, err := e.employees.Create(context.Background(), employee.Employee{FullName: name, RoleID: &role, SupervisorID: supervisorID})
	require.NoError(t, err)
	e.assign(t, emp.ID)
	return emp
}

func (e *env) record(employeeID string, hour, minute int, eventType clock.EventType) (clock.EventResponse, error) {
	y, m, d := e.now.Date()
	e.now = time.Date(y, m, d, hour, minute, 0, 0, time.UTC)
	return e.svc.Record(context.Background(), clock.RecordEventRequest{EmployeeID: employeeID, Type: eventType})
}

func TestRecordClockIn(t *testing.T) {
	t.Run("inside the early window", func(t *testing.T) {
		e := newEnv(t)
		emp := e.operator(t, "Ana", nil)

		resp, err := e.record(emp.ID, 7, 0, clock.EventClockIn)
		require.NoError(t, err)
		assert.Equal(t, clock.EventClockIn, resp.Type)
		assert.Equal(t, string(employee.OperationalAvailable), resp.OperationalStatus)
	})

	t.Run("before the early window", func(t *testing.T) {
		e := newEnv(t)
		emp := e.operator(t, "Ana", nil)

		_, err := e.record(emp.ID, 6, 59, clock.EventClockIn)
		assert.ErrorIs(t, err, clock.ErrTooEarlyToClockIn)
	})

	t.Run("on a day off", func(t *testing.T) {
		e := newEnv(t)
		emp := e.operator(t, "Ana", nil)
		e.now = time.Date(2025, 3, 8, 8, 0, 0, 0, time.UTC)

		_, err := e.record(emp.ID, 8, 0, clock.EventClockIn)
		assert.ErrorIs(t, err, clock.ErrOutsideSchedule)
	})

	t.Run("without a schedule", func(t *testing.T) {
		e := newEnv(t)
		emp, err := e.employees.Create(context.Background(), employee.Employee{FullName: "Bruno"})
		require.NoError(t, err)

		_, err = e.record(emp.ID, 8, 0, clock.EventClockIn)
		assert.ErrorIs(t, err, clock.ErrOutsideSchedule)
	})

	t.Run("inactive employee", func(t *testing.T) {
		e := newEnv(t)
		emp, err := e.employees.Create(context.Background(), employee.Employee{FullName: "Old", Status: employee.StatusTerminated})
		require.NoError(t, err)

		_, err = e.record(emp.ID, 8, 0, clock.EventClockIn)
		assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
	})
}

func TestRecordBreaks(t *testing.T) {
	t.Run("breaks follow the role sequence up to the limit", func(t *testing.T) {
		e := newEnv(t)
		emp := e.operator(t, "Ana", nil)

		_, err := e.record(emp.ID, 8, 0, clock.EventClockIn)
		require.NoError(t, err)

		resp, err := e.record(emp.ID, 10, 0, clock.EventBreakOut)
		require.NoError(t, err)
		require.NotNil(t, resp.BreakName)
		assert.Equal(t, "Morning Coffee", *resp.BreakName)
		assert.Equal(t, 15, *resp.BreakAllowanceMinutes)
		assert.Equal(t, string(employee.OperationalOnBreak), resp.OperationalStatus)

		_, err = e.record(emp.ID, 10, 20, clock.EventBreakIn)
		require.NoError(t, err)

		resp, err = e.record(emp.ID, 15, 0, clock.EventBreakOut)
		require.NoError(t, err)
		assert.Equal(t, "Afternoon Coffee", *resp.BreakName)

		_, err = e.record(emp.ID, 15, 5, clock.EventBreakIn)
		require.NoError(t, err)

		_, err = e.record(emp.ID, 16, 0, clock.EventBreakOut)
		assert.ErrorIs(t, err, clock.ErrBreakLimitReached)
	})

	t.Run("budget spent on the first break", func(t *testing.T) {
		e := newEnv(t)
		emp := e.operator(t, "Ana", nil)

		_, err := e.record(emp.ID, 8, 0, clock.EventClockIn)
		require.NoError(t, err)
		_, err = e.record(emp.ID, 10, 0, clock.EventBreakOut)
		require.NoError(t, err)
		_, err = e.record(emp.ID, 10, 30, clock.EventBreakIn)
		require.NoError(t, err)

		_, err = e.record(emp.ID, 15, 0, clock.EventBreakOut)
		assert.ErrorIs(t, err, clock.ErrBreakBudgetExhausted)
	})

	t.Run("role without pause rules", func(t *testing.T) {
		e := newEnv(t)
		emp, err := e.employees.Create(context.Background(), employee.Employee{FullName: "Bruno"})
		require.NoError(t, err)

		_, err = e.record(emp.ID, 10, 0, clock.EventBreakOut)
		assert.ErrorIs(t, err, clock.ErrNoPauseRules)
	})
}

func TestOffHoursRequests(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.now = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	boss, err := e.employees.Create(ctx, employee.Employee{FullName: "Carla"})
	require.NoError(t, err)
	other, err := e.employees.Create(ctx, employee.Employee{FullName: "Diego"})
	require.NoError(t, err)
	emp := e.operator(t, "Ana", &boss.ID)

	_, err = e.svc.SubmitOffHours(ctx, clock.SubmitOffHoursRequest{
		EmployeeID:  emp.ID,
		RequestedAt: "2025-03-10T11:00:00Z",
		Type:        clock.EventClockIn,
		Reason:      "forgot",
	})
	assert.ErrorIs(t, err, clock.ErrRequestInFuture)

	req, err := e.svc.SubmitOffHours(ctx, clock.SubmitOffHoursRequest{
		EmployeeID:  emp.ID,
		RequestedAt: "2025-03-08T09:00:00Z",
		Type:        clock.EventClockIn,
		Reason:      "called in on Saturday",
	})
	require.NoError(t, err)
	assert.Equal(t, clock.RequestPending, req.Status)

	_, err = e.svc.ApproveOffHours(ctx, clock.ReviewOffHoursRequest{RequestID: req.ID, ReviewerID: emp.ID})
	assert.ErrorIs(t, err, clock.ErrCannotReviewOwn)

	_, err = e.svc.ApproveOffHours(ctx, clock.ReviewOffHoursRequest{RequestID: req.ID, ReviewerID: other.ID})
	assert.ErrorIs(t, err, employee.ErrNotTeamMember)

	approved, err := e.svc.ApproveOffHours(ctx, clock.ReviewOffHoursRequest{RequestID: req.ID, ReviewerID: boss.ID})
	require.NoError(t, err)
	assert.Equal(t, clock.RequestApproved, approved.Status)

	saturday := utils.Date(2025, 3, 8)
	from, to := utils.DayBounds(saturday, time.UTC)
	events, err := e.events.ListBetween(ctx, emp.ID, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, clock.EventClockIn, events[0].Type)
	assert.Equal(t, []time.Time{saturday}, e.reconciler.calls)

	_, err = e.svc.RejectOffHours(ctx, clock.ReviewOffHoursRequest{RequestID: req.ID, ReviewerID: boss.ID})
	assert.ErrorIs(t, err, clock.ErrRequestAlreadyReviewed)
}

func TestHRReviewsAnyOffHoursRequest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.now = time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	hr, err := e.employees.Create(ctx, employee.Employee{FullName: "Helena"})
	require.NoError(t, err)
	emp := e.operator(t, "Ana", nil)

	req, err := e.svc.SubmitOffHours(ctx, clock.SubmitOffHoursRequest{
		EmployeeID:  emp.ID,
		RequestedAt: "2025-03-10T09:30:00Z",
		Type:        clock.EventClockOut,
		Reason:      "left for the doctor",
	})
	require.NoError(t, err)

	rejected, err := e.svc.RejectOffHours(ctx, clock.ReviewOffHoursRequest{RequestID: req.ID, ReviewerID: hr.ID, ReviewerIsHR: true})
	require.NoError(t, err)
	assert.Equal(t, clock.RequestRejected, rejected.Status)
	assert.Empty(t, e.reconciler.calls)
}
