package status

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

// EventStatusChanged is the SSE event name for live status changes.
const EventStatusChanged = "status_changed"

type Publisher interface {
	Publish(event sse.Event)
}

// StatusChange is published to the employee's supervisor topic.
type StatusChange struct {
	EmployeeID string                     `json:"employee_id"`
	FullName   string                     `json:"full_name"`
	From       employee.OperationalStatus `json:"from"`
	To         employee.OperationalStatus `json:"to"`
	At         time.Time                  `json:"at"`
}

// Derive maps the latest event to a live status: clock-in or a return from
// any break is available, leaving for any break is on_break, and clock-out or
// no events at all is offline.
func Derive(events []clock.Event) employee.OperationalStatus {
	if len(events) == 0 {
		return employee.OperationalOffline
	}

	latest := events[0]
	for _, e := range events[1:] {
		if !e.Timestamp.Before(latest.Timestamp) {
			latest = e
		}
	}

	switch {
	case latest.Type.ReturnsToPost():
		return employee.OperationalAvailable
	case latest.Type.LeavesPost():
		return employee.OperationalOnBreak
	default:
		return employee.OperationalOffline
	}
}

// Synchronizer keeps the stored operational status in line with Derive over
// today's events. Dashboards, clock punches and the nightly reconciliation
// all go through it.
type Synchronizer struct {
	employeeRepo employee.EmployeeRepository
	eventRepo    clock.EventRepository
	publisher    Publisher
	loc          *time.Location
	now          func() time.Time
}

// NewSynchronizer creates a synchronizer. publisher may be nil.
func NewSynchronizer(employeeRepo employee.EmployeeRepository, eventRepo clock.EventRepository, publisher Publisher, loc *time.Location) *Synchronizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Synchronizer{
		employeeRepo: employeeRepo,
		eventRepo:    eventRepo,
		publisher:    publisher,
		loc:          loc,
		now:          time.Now,
	}
}

// TodayEvents returns the employee's events of the current local day.
func (s *Synchronizer) TodayEvents(ctx context.Context, employeeID string) ([]clock.Event, error) {
	from, to := utils.DayBounds(utils.DateOf(s.now(), s.loc), s.loc)
	events, err := s.eventRepo.ListBetween(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's clock events: %w", err)
	}
	return events, nil
}

// Current derives the live status without writing it.
func (s *Synchronizer) Current(ctx context.Context, employeeID string) (employee.OperationalStatus, error) {
	events, err := s.TodayEvents(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return Derive(events), nil
}

// Sync stores the derived status when it differs from the stored one and
// reports whether it changed.
func (s *Synchronizer) Sync(ctx context.Context, employeeID string) (employee.OperationalStatus, bool, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return "", false, err
	}

	derived, err := s.Current(ctx, employeeID)
	if err != nil {
		return "", false, err
	}
	if emp.OperationalStatus == derived {
		return derived, false, nil
	}

	if err := s.employeeRepo.UpdateOperationalStatus(ctx, employeeID, derived); err != nil {
		return "", false, fmt.Errorf("failed to update operational status: %w", err)
	}

	if s.publisher != nil && emp.SupervisorID != nil {
		s.publisher.Publish(sse.Event{
			Topic: *emp.SupervisorID,
			Event: EventStatusChanged,
			Data: StatusChange{
				EmployeeID: emp.ID,
				FullName:   emp.FullName,
				From:       emp.OperationalStatus,
				To:         derived,
				At:         s.now(),
			},
		})
	}

	return derived, true, nil
}
