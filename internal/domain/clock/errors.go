package clock

import "errors"

var (
	ErrInvalidEventType       = errors.New("invalid clock event type")
	ErrTooEarlyToClockIn      = errors.New("too early to clock in for the scheduled shift")
	ErrOutsideSchedule        = errors.New("no scheduled shift today, submit an off-hours request")
	ErrNoPauseRules           = errors.New("no pause rules configured for this role")
	ErrBreakLimitReached      = errors.New("daily break limit reached")
	ErrBreakBudgetExhausted   = errors.New("daily break time exhausted")
	ErrRequestNotFound        = errors.New("off-hours request not found")
	ErrRequestAlreadyReviewed = errors.New("off-hours request already reviewed")
	ErrRequestInFuture        = errors.New("requested time is in the future")
	ErrCannotReviewOwn        = errors.New("cannot review your own off-hours request")
)
