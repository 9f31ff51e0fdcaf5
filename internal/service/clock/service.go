package clock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
	reconciliationService "github.com/cmlabs-hris/timebank-backend-go/internal/service/reconciliation"
)

type ShiftResolver interface {
	Resolve(ctx context.Context, employeeID string, date time.Time) (*schedule.Schedule, error)
}

type StatusSynchronizer interface {
	TodayEvents(ctx context.Context, employeeID string) ([]clock.Event, error)
	Sync(ctx context.Context, employeeID string) (employee.OperationalStatus, bool, error)
}

// DayReconciler re-settles a past day after a late punch is approved.
type DayReconciler interface {
	ReconcileDay(ctx context.Context, employeeID string, date time.Time) (reconciliation.DayResult, error)
}

type Config struct {
	Location    *time.Location
	EarlyWindow time.Duration
}

type ClockService struct {
	db            database.Transactor
	eventRepo     clock.EventRepository
	offHoursRepo  clock.OffHoursRequestRepository
	employeeRepo  employee.EmployeeRepository
	pauseRuleRepo pauserule.PauseRuleRepository
	shifts        ShiftResolver
	status        StatusSynchronizer
	reconciler    DayReconciler
	cfg           Config
	now           func() time.Time
}

func NewClockService(
	db database.Transactor,
	eventRepo clock.EventRepository,
	offHoursRepo clock.OffHoursRequestRepository,
	employeeRepo employee.EmployeeRepository,
	pauseRuleRepo pauserule.PauseRuleRepository,
	shifts ShiftResolver,
	status StatusSynchronizer,
	reconciler DayReconciler,
	cfg Config,
) *ClockService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ClockService{
		db:            db,
		eventRepo:     eventRepo,
		offHoursRepo:  offHoursRepo,
		employeeRepo:  employeeRepo,
		pauseRuleRepo: pauseRuleRepo,
		shifts:        shifts,
		status:        status,
		reconciler:    reconciler,
		cfg:           cfg,
		now:           time.Now,
	}
}

// Record implements clock.Service.
func (s *ClockService) Record(ctx context.Context, req clock.RecordEventRequest) (clock.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.EventResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return clock.EventResponse{}, err
	}
	if emp.Status != employee.StatusActive {
		return clock.EventResponse{}, employee.ErrEmployeeInactive
	}

	now := s.now()
	var resp clock.EventResponse

	switch req.Type {
	case clock.EventClockIn:
		if err := s.checkClockInWindow(ctx, emp.ID, now); err != nil {
			return clock.EventResponse{}, err
		}
	case clock.EventBreakOut:
		rule, err := s.nextBreak(ctx, emp)
		if err != nil {
			return clock.EventResponse{}, err
		}
		resp.BreakName = &rule.Name
		resp.BreakAllowanceMinutes = &rule.DurationMinutes
	}

	event, err := s.eventRepo.Create(ctx, clock.Event{
		EmployeeID: emp.ID,
		Timestamp:  now,
		Type:       req.Type,
	})
	if err != nil {
		return clock.EventResponse{}, fmt.Errorf("failed to record clock event: %w", err)
	}

	current, _, err := s.status.Sync(ctx, emp.ID)
	if err != nil {
		return clock.EventResponse{}, err
	}

	resp.ID = event.ID
	resp.EmployeeID = event.EmployeeID
	resp.Type = event.Type
	resp.Timestamp = event.Timestamp
	resp.OperationalStatus = string(current)
	return resp, nil
}

// checkClockInWindow rejects clock-ins on days without a shift and clock-ins
// earlier than the scheduled entry minus the early window.
func (s *ClockService) checkClockInWindow(ctx context.Context, employeeID string, now time.Time) error {
	today := utils.DateOf(now, s.cfg.Location)

	sched, err := s.shifts.Resolve(ctx, employeeID, today)
	if err != nil {
		return err
	}
	if sched == nil || !sched.WorksOn(today) {
		return clock.ErrOutsideSchedule
	}

	entry := sched.EntryTime.On(today, s.cfg.Location)
	if now.Before(entry.Add(-s.cfg.EarlyWindow)) {
		return clock.ErrTooEarlyToClockIn
	}
	return nil
}

// nextBreak returns the pause rule governing the break about to start.
func (s *ClockService) nextBreak(ctx context.Context, emp employee.Employee) (pauserule.Rule, error) {
	if emp.RoleID == nil {
		return pauserule.Rule{}, clock.ErrNoPauseRules
	}

	seq, err := s.pauseRuleRepo.GetByRoleID(ctx, *emp.RoleID)
	if err != nil {
		return pauserule.Rule{}, fmt.Errorf("failed to load pause rules: %w", err)
	}
	if seq.Allowed() == 0 {
		return pauserule.Rule{}, clock.ErrNoPauseRules
	}

	events, err := s.status.TodayEvents(ctx, emp.ID)
	if err != nil {
		return pauserule.Rule{}, err
	}

	taken := reconciliationService.CountType(events, clock.EventBreakOut)
	rule, ok := seq.Nth(taken + 1)
	if !ok {
		return pauserule.Rule{}, clock.ErrBreakLimitReached
	}

	used := reconciliationService.PairDurations(events, clock.EventBreakOut, clock.EventBreakIn)
	if used >= float64(seq.TotalMinutes()) {
		return pauserule.Rule{}, clock.ErrBreakBudgetExhausted
	}

	return rule, nil
}

// SubmitOffHours implements clock.Service.
func (s *ClockService) SubmitOffHours(ctx context.Context, req clock.SubmitOffHoursRequest) (clock.OffHoursResponse, error) {
	if err := req.Validate(); err != nil {
		return clock.OffHoursResponse{}, err
	}

	requestedAt, _ := time.Parse(time.RFC3339Nano, req.RequestedAt)
	now := s.now()
	if requestedAt.After(now) {
		return clock.OffHoursResponse{}, clock.ErrRequestInFuture
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return clock.OffHoursResponse{}, err
	}

	created, err := s.offHoursRepo.Create(ctx, clock.OffHoursRequest{
		EmployeeID:  req.EmployeeID,
		RequestedAt: requestedAt,
		Type:        req.Type,
		Reason:      req.Reason,
		Status:      clock.RequestPending,
		SubmittedAt: now,
	})
	if err != nil {
		return clock.OffHoursResponse{}, fmt.Errorf("failed to create off-hours request: %w", err)
	}

	return clock.NewOffHoursResponse(created), nil
}

// ApproveOffHours implements clock.Service. The review and the punch it
// approves are written in one transaction.
func (s *ClockService) ApproveOffHours(ctx context.Context, req clock.ReviewOffHoursRequest) (clock.OffHoursResponse, error) {
	if err := s.checkReviewer(ctx, req); err != nil {
		return clock.OffHoursResponse{}, err
	}

	now := s.now()
	var reviewed clock.OffHoursRequest
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		reviewed, err = s.offHoursRepo.Review(ctx, req.RequestID, clock.RequestApproved, req.ReviewerID, now)
		if err != nil {
			return err
		}
		_, err = s.eventRepo.Create(ctx, clock.Event{
			EmployeeID: reviewed.EmployeeID,
			Timestamp:  reviewed.RequestedAt,
			Type:       reviewed.Type,
		})
		if err != nil {
			return fmt.Errorf("failed to record approved clock event: %w", err)
		}
		return nil
	})
	if err != nil {
		return clock.OffHoursResponse{}, err
	}

	if _, _, err := s.status.Sync(ctx, reviewed.EmployeeID); err != nil {
		slog.Error("Failed to sync status after off-hours approval", "employee_id", reviewed.EmployeeID, "error", err)
	}

	day := utils.DateOf(reviewed.RequestedAt, s.cfg.Location)
	if s.reconciler != nil && day.Before(utils.DateOf(now, s.cfg.Location)) {
		if _, err := s.reconciler.ReconcileDay(ctx, reviewed.EmployeeID, day); err != nil {
			slog.Error("Failed to reconcile day after off-hours approval",
				"employee_id", reviewed.EmployeeID,
				"date", utils.FormatDate(day),
				"error", err,
			)
		}
	}

	return clock.NewOffHoursResponse(reviewed), nil
}

// RejectOffHours implements clock.Service.
func (s *ClockService) RejectOffHours(ctx context.Context, req clock.ReviewOffHoursRequest) (clock.OffHoursResponse, error) {
	if err := s.checkReviewer(ctx, req); err != nil {
		return clock.OffHoursResponse{}, err
	}

	reviewed, err := s.offHoursRepo.Review(ctx, req.RequestID, clock.RequestRejected, req.ReviewerID, s.now())
	if err != nil {
		return clock.OffHoursResponse{}, err
	}
	return clock.NewOffHoursResponse(reviewed), nil
}

func (s *ClockService) checkReviewer(ctx context.Context, req clock.ReviewOffHoursRequest) error {
	existing, err := s.offHoursRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return err
	}
	if existing.EmployeeID == req.ReviewerID {
		return clock.ErrCannotReviewOwn
	}
	if existing.Status != clock.RequestPending {
		return clock.ErrRequestAlreadyReviewed
	}
	if req.ReviewerIsHR {
		return nil
	}
	return requireSupervisor(ctx, s.employeeRepo, existing.EmployeeID, req.ReviewerID)
}

// requireSupervisor fails with employee.ErrNotTeamMember unless supervisorID
// supervises employeeID.
func requireSupervisor(ctx context.Context, repo employee.EmployeeRepository, employeeID, supervisorID string) error {
	emp, err := repo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.SupervisorID == nil || *emp.SupervisorID != supervisorID {
		return employee.ErrNotTeamMember
	}
	return nil
}
