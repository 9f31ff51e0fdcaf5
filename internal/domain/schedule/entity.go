package schedule

import (
	"time"
)

const DefaultLunchMinutes = 60

// Schedule is a shift definition. A schedule whose exit is earlier than its
// entry crosses midnight. Priority schedules must be worked on holidays.
type Schedule struct {
	ID           string
	Name         string
	WorkingDays  Weekdays
	EntryTime    TimeOfDay
	ExitTime     TimeOfDay
	LunchMinutes int
	Priority     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s Schedule) IsOvernight() bool {
	return s.ExitTime < s.EntryTime
}

// WorksOn reports whether date falls on one of the schedule's working weekdays.
func (s Schedule) WorksOn(date time.Time) bool {
	return s.WorkingDays.Contains(date.Weekday())
}

// EmployeeScheduleAssignment binds an employee to a schedule from StartDate
// through EndDate inclusive. A nil EndDate is open-ended.
type EmployeeScheduleAssignment struct {
	ID         string
	EmployeeID string
	ScheduleID string
	StartDate  time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
}

// Covers reports whether the assignment is in force on date.
func (a EmployeeScheduleAssignment) Covers(date time.Time) bool {
	if date.Before(a.StartDate) {
		return false
	}
	return a.EndDate == nil || !date.After(*a.EndDate)
}

// Overlaps reports whether two assignment ranges share at least one day.
func (a EmployeeScheduleAssignment) Overlaps(b EmployeeScheduleAssignment) bool {
	if a.EndDate != nil && a.EndDate.Before(b.StartDate) {
		return false
	}
	if b.EndDate != nil && b.EndDate.Before(a.StartDate) {
		return false
	}
	return true
}
