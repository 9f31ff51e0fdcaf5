package reconciliation

import (
	"math"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/utils"
)

// Lunch is only deducted from shifts strictly longer than this.
const LunchThresholdMinutes = 300

// Workload is the expected length of a scheduled day in minutes.
type Workload struct {
	Gross int
	Net   int
}

// ExpectedMinutes builds the scheduled entry and exit instants on date. An
// exit earlier than the entry belongs to the next day.
func ExpectedMinutes(s schedule.Schedule, date time.Time, loc *time.Location) Workload {
	entry := s.EntryTime.On(date, loc)
	exit := s.ExitTime.On(date, loc)
	if exit.Before(entry) {
		exit = exit.Add(24 * time.Hour)
	}

	gross := int(exit.Sub(entry).Minutes())
	net := gross
	if gross > LunchThresholdMinutes {
		net -= s.LunchMinutes
	}
	return Workload{Gross: gross, Net: net}
}

// shiftWindow is the instant range whose clock events belong to date. Day
// shifts use the calendar day; overnight shifts run from entry-grace to the
// next-day exit+grace.
func shiftWindow(s schedule.Schedule, date time.Time, loc *time.Location, grace time.Duration) (time.Time, time.Time) {
	if !s.IsOvernight() {
		return utils.DayBounds(date, loc)
	}
	entry := s.EntryTime.On(date, loc)
	exit := s.ExitTime.On(date, loc).Add(24 * time.Hour)
	return entry.Add(-grace), exit.Add(grace)
}

// roundMinutes rounds half to even.
func roundMinutes(m float64) int {
	return int(math.RoundToEven(m))
}
