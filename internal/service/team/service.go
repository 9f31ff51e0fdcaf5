package team

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/service/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/service/status"
)

type EventSource interface {
	TodayEvents(ctx context.Context, employeeID string) ([]clock.Event, error)
}

type TeamService struct {
	employeeRepo  employee.EmployeeRepository
	pauseRuleRepo pauserule.PauseRuleRepository
	events        EventSource
}

func NewTeamService(employeeRepo employee.EmployeeRepository, pauseRuleRepo pauserule.PauseRuleRepository, events EventSource) *TeamService {
	return &TeamService{
		employeeRepo:  employeeRepo,
		pauseRuleRepo: pauseRuleRepo,
		events:        events,
	}
}

// View builds the live dashboard rows for a supervisor's team.
func (s *TeamService) View(ctx context.Context, supervisorID string) ([]employee.TeamMemberView, error) {
	members, err := s.employeeRepo.GetTeam(ctx, supervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	sequences := make(map[string]pauserule.Sequence)
	views := make([]employee.TeamMemberView, 0, len(members))
	for _, m := range members {
		var seq pauserule.Sequence
		if m.RoleID != nil {
			cached, ok := sequences[*m.RoleID]
			if !ok {
				cached, err = s.pauseRuleRepo.GetByRoleID(ctx, *m.RoleID)
				if err != nil {
					return nil, fmt.Errorf("failed to load pause rules for role %s: %w", *m.RoleID, err)
				}
				sequences[*m.RoleID] = cached
			}
			seq = cached
		}

		events, err := s.events.TodayEvents(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, BuildMemberView(m, seq, events))
	}
	return views, nil
}

// EnsureMember fails with employee.ErrNotTeamMember unless employeeID reports
// to supervisorID.
func (s *TeamService) EnsureMember(ctx context.Context, supervisorID, employeeID string) error {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if emp.SupervisorID == nil || *emp.SupervisorID != supervisorID {
		return employee.ErrNotTeamMember
	}
	return nil
}

// BuildMemberView derives one dashboard row from today's events and the
// member's pause rules.
func BuildMemberView(m employee.Employee, seq pauserule.Sequence, events []clock.Event) employee.TeamMemberView {
	taken := reconciliation.CountType(events, clock.EventBreakOut)
	used := int(reconciliation.PairDurations(events, clock.EventBreakOut, clock.EventBreakIn))

	remaining := seq.TotalMinutes() - used
	if remaining < 0 {
		remaining = 0
	}

	view := employee.TeamMemberView{
		EmployeeID:            m.ID,
		FullName:              m.FullName,
		OperationalStatus:     status.Derive(events),
		BreaksTaken:           taken,
		BreaksAllowed:         seq.Allowed(),
		BreakMinutesUsed:      used,
		RemainingBreakMinutes: remaining,
	}
	if next, ok := seq.Nth(taken + 1); ok && remaining > 0 {
		name := next.Name
		view.NextBreak = &name
	}
	return view
}
