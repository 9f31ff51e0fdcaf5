package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeInactive  = errors.New("employee is not active")
	ErrNotTeamMember     = errors.New("employee is not a member of your team")
	ErrInvalidStatus     = errors.New("invalid employee status")
	ErrMissingEmployeeID = errors.New("employee id missing from token")
)
