package reconciliation

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
)

// Arrivals up to this many minutes after the scheduled entry are not late.
const LatenessToleranceMinutes = 5

const (
	DescriptionOvertime               = "overtime"
	DescriptionEarlyDeparture         = "early departure"
	DescriptionAdjustment             = "adjustment"
	DescriptionUnjustifiedAbsence     = "unjustified absence"
	DescriptionHolidayPriorityAbsence = "absence on holiday (priority schedule)"
	DescriptionHolidayPriorityWorked  = "holiday worked (priority schedule)"
	DescriptionHolidayCallIn          = "holiday call-in (100%)"
)

// Describe labels a workday delta. firstClockIn is nil when the day has no
// clock-in.
func Describe(delta int, firstClockIn *time.Time, scheduledEntry schedule.TimeOfDay, loc *time.Location) string {
	if firstClockIn != nil {
		lateness := latenessMinutes(*firstClockIn, scheduledEntry, loc)
		if lateness > LatenessToleranceMinutes {
			n := roundMinutes(lateness)
			if delta < 0 && float64(delta)+lateness < -1 {
				return fmt.Sprintf("late (%d min) and early departure", n)
			}
			return fmt.Sprintf("late by %d min", n)
		}
	}

	switch {
	case delta > 0:
		return DescriptionOvertime
	case delta < 0:
		return DescriptionEarlyDeparture
	default:
		return DescriptionAdjustment
	}
}

// latenessMinutes compares the clock-in with the scheduled entry on the same
// local day.
func latenessMinutes(clockIn time.Time, entry schedule.TimeOfDay, loc *time.Location) float64 {
	local := clockIn.In(loc)
	return local.Sub(entry.On(local, loc)).Minutes()
}
