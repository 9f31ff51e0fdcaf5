package excuse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

// maxReconcileDays bounds how many past days one approval re-runs.
const maxReconcileDays = 366

type DayReconciler interface {
	ReconcileDay(ctx context.Context, employeeID string, date time.Time) (reconciliation.DayResult, error)
}

type ExcuseService struct {
	excuseRepo   excuse.AbsenceExcuseRepository
	employeeRepo employee.EmployeeRepository
	reconciler   DayReconciler
	loc          *time.Location
	now          func() time.Time
}

func NewExcuseService(
	excuseRepo excuse.AbsenceExcuseRepository,
	employeeRepo employee.EmployeeRepository,
	reconciler DayReconciler,
	loc *time.Location,
) excuse.Service {
	if loc == nil {
		loc = time.UTC
	}
	return &ExcuseService{
		excuseRepo:   excuseRepo,
		employeeRepo: employeeRepo,
		reconciler:   reconciler,
		loc:          loc,
		now:          time.Now,
	}
}

// Submit implements excuse.Service.
func (s *ExcuseService) Submit(ctx context.Context, req excuse.SubmitExcuseRequest) (excuse.ExcuseResponse, error) {
	if err := req.Validate(); err != nil {
		return excuse.ExcuseResponse{}, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return excuse.ExcuseResponse{}, err
	}

	start, end := req.Period()
	created, err := s.excuseRepo.Create(ctx, excuse.AbsenceExcuseRequest{
		EmployeeID:  req.EmployeeID,
		Type:        req.Type,
		StartAt:     start,
		EndAt:       end,
		Reason:      req.Reason,
		DocumentURL: req.DocumentURL,
		Status:      excuse.StatusPending,
		SubmittedAt: s.now(),
	})
	if err != nil {
		return excuse.ExcuseResponse{}, fmt.Errorf("failed to create absence excuse: %w", err)
	}

	return excuse.NewExcuseResponse(created), nil
}

// Approve implements excuse.Service. Approving a full-day excuse re-runs
// reconciliation for every covered day that has already ended, so entries
// written before the approval are cleared.
func (s *ExcuseService) Approve(ctx context.Context, req excuse.ReviewExcuseRequest) (excuse.ExcuseResponse, error) {
	if err := s.checkReviewer(ctx, req); err != nil {
		return excuse.ExcuseResponse{}, err
	}

	approved, err := s.excuseRepo.Review(ctx, req.ExcuseID, excuse.StatusApproved, req.ReviewerID, s.now())
	if err != nil {
		return excuse.ExcuseResponse{}, err
	}

	resp := excuse.NewExcuseResponse(approved)
	if approved.Type == excuse.TypeFullDay && s.reconciler != nil {
		resp.ReconciledDates = s.reconcileCovered(ctx, approved)
	}
	return resp, nil
}

// Reject implements excuse.Service.
func (s *ExcuseService) Reject(ctx context.Context, req excuse.ReviewExcuseRequest) (excuse.ExcuseResponse, error) {
	if err := s.checkReviewer(ctx, req); err != nil {
		return excuse.ExcuseResponse{}, err
	}

	rejected, err := s.excuseRepo.Review(ctx, req.ExcuseID, excuse.StatusRejected, req.ReviewerID, s.now())
	if err != nil {
		return excuse.ExcuseResponse{}, err
	}
	return excuse.NewExcuseResponse(rejected), nil
}

// ListMine implements excuse.Service.
func (s *ExcuseService) ListMine(ctx context.Context, employeeID string) ([]excuse.ExcuseResponse, error) {
	excuses, err := s.excuseRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list absence excuses: %w", err)
	}

	resp := make([]excuse.ExcuseResponse, 0, len(excuses))
	for _, e := range excuses {
		resp = append(resp, excuse.NewExcuseResponse(e))
	}
	return resp, nil
}

func (s *ExcuseService) checkReviewer(ctx context.Context, req excuse.ReviewExcuseRequest) error {
	existing, err := s.excuseRepo.GetByID(ctx, req.ExcuseID)
	if err != nil {
		return err
	}
	if existing.EmployeeID == req.ReviewerID {
		return excuse.ErrCannotReviewOwn
	}
	if existing.Status != excuse.StatusPending {
		return excuse.ErrExcuseAlreadyReviewed
	}
	if req.ReviewerIsHR {
		return nil
	}

	emp, err := s.employeeRepo.GetByID(ctx, existing.EmployeeID)
	if err != nil {
		return err
	}
	if emp.SupervisorID == nil || *emp.SupervisorID != req.ReviewerID {
		return employee.ErrNotTeamMember
	}
	return nil
}

func (s *ExcuseService) reconcileCovered(ctx context.Context, e excuse.AbsenceExcuseRequest) []string {
	today := utils.DateOf(s.now(), s.loc)
	first := utils.DateOf(e.StartAt, s.loc)
	last := utils.DateOf(e.EndAt.Add(-time.Nanosecond), s.loc)

	var dates []string
	for day, n := first, 0; !day.After(last) && day.Before(today) && n < maxReconcileDays; day, n = day.AddDate(0, 0, 1), n+1 {
		if _, err := s.reconciler.ReconcileDay(ctx, e.EmployeeID, day); err != nil {
			slog.Error("Failed to reconcile excused day",
				"employee_id", e.EmployeeID,
				"date", utils.FormatDate(day),
				"error", err,
			)
			continue
		}
		dates = append(dates, utils.FormatDate(day))
	}
	return dates
}
