package reconciliation

import "errors"

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrFutureDate    = errors.New("cannot reconcile a day that has not ended")
	ErrInvalidPolicy = errors.New("invalid absence policy")
)
