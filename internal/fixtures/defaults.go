package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
)

// DefaultScheduleName is the schedule new employees are usually assigned.
const DefaultScheduleName = "Standard Office Hours"

// DefaultPauseRole receives the default break sequence when no role is given.
const DefaultPauseRole = "operator"

var weekdays = schedule.NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

// ==========================================
// DEFAULT SCHEDULES
// ==========================================

// GetDefaultSchedule returns the Mon-Fri 08:00-17:00 schedule with a one hour
// lunch.
func GetDefaultSchedule() schedule.Schedule {
	return schedule.Schedule{
		Name:         DefaultScheduleName,
		WorkingDays:  weekdays,
		EntryTime:    schedule.NewTimeOfDay(8, 0),
		ExitTime:     schedule.NewTimeOfDay(17, 0),
		LunchMinutes: schedule.DefaultLunchMinutes,
	}
}

// GetNightShiftSchedule returns an overnight 22:00-06:00 shift.
func GetNightShiftSchedule() schedule.Schedule {
	return schedule.Schedule{
		Name:         "Night Shift",
		WorkingDays:  weekdays,
		EntryTime:    schedule.NewTimeOfDay(22, 0),
		ExitTime:     schedule.NewTimeOfDay(6, 0),
		LunchMinutes: schedule.DefaultLunchMinutes,
	}
}

// GetOnCallSchedule returns a priority schedule worked on holidays too.
func GetOnCallSchedule() schedule.Schedule {
	return schedule.Schedule{
		Name:         "On-Call Operations",
		WorkingDays:  schedule.NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday),
		EntryTime:    schedule.NewTimeOfDay(14, 0),
		ExitTime:     schedule.NewTimeOfDay(22, 0),
		LunchMinutes: schedule.DefaultLunchMinutes,
		Priority:     true,
	}
}

func GetAllDefaultSchedules() []schedule.Schedule {
	return []schedule.Schedule{
		GetDefaultSchedule(),
		GetNightShiftSchedule(),
		GetOnCallSchedule(),
	}
}

// ==========================================
// DEFAULT PAUSE RULES
// ==========================================

// GetDefaultPauseRules returns two short coffee breaks around lunch.
func GetDefaultPauseRules(roleID string) []pauserule.Rule {
	return []pauserule.Rule{
		{RoleID: roleID, Name: "Morning Coffee", Order: 1, DurationMinutes: 15},
		{RoleID: roleID, Name: "Afternoon Coffee", Order: 2, DurationMinutes: 15},
	}
}

// ==========================================
// SEEDING
// ==========================================

type SeedResult struct {
	SchedulesCreated  int
	PauseRulesCreated int
}

// Seed writes the default schedules and the default pause rules for roleID.
// Rows that already exist are left alone, so it can run repeatedly.
func Seed(ctx context.Context, scheduleRepo schedule.ScheduleRepository, pauseRuleRepo pauserule.PauseRuleRepository, roleID string) (SeedResult, error) {
	var result SeedResult

	for _, s := range GetAllDefaultSchedules() {
		if _, err := scheduleRepo.Create(ctx, s); err != nil {
			if errors.Is(err, schedule.ErrScheduleNameExists) {
				slog.Debug("Seed: schedule exists", "name", s.Name)
				continue
			}
			return result, fmt.Errorf("failed to seed schedule %q: %w", s.Name, err)
		}
		result.SchedulesCreated++
	}

	for _, rule := range GetDefaultPauseRules(roleID) {
		if _, err := pauseRuleRepo.Create(ctx, rule); err != nil {
			if errors.Is(err, pauserule.ErrDuplicateOrder) {
				slog.Debug("Seed: pause rule exists", "role_id", roleID, "order", rule.Order)
				continue
			}
			return result, fmt.Errorf("failed to seed pause rule %q: %w", rule.Name, err)
		}
		result.PauseRulesCreated++
	}

	return result, nil
}
