package schedule

import "errors"

var (
	ErrScheduleNotFound         = errors.New("schedule not found")
	ErrScheduleNameExists       = errors.New("schedule name already exists")
	ErrAssignmentOverlap        = errors.New("assignment overlaps an existing assignment for this employee")
	ErrAssignmentEndBeforeStart = errors.New("assignment end date is before start date")
	ErrInvalidTimeOfDay         = errors.New("invalid time of day, expected HH:MM")
	ErrInvalidWeekdays          = errors.New("invalid working days, expected comma separated 0-6")
)
