package employee

import (
	"time"
)

type Employee struct {
	ID                string
	FullName          string
	RoleID            *string
	SupervisorID      *string
	Status            Status
	OperationalStatus OperationalStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Status is the employment lifecycle status. Only active employees are
// reconciled.
type Status string

const (
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusVacation   Status = "vacation"
	StatusTerminated Status = "terminated"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusOnLeave, StatusVacation, StatusTerminated:
		return true
	}
	return false
}

// OperationalStatus is the live presence flag shown on dashboards. It is a
// cache derived from the latest clock event of the day.
type OperationalStatus string

const (
	OperationalAvailable OperationalStatus = "available"
	OperationalOnBreak   OperationalStatus = "on_break"
	OperationalOffline   OperationalStatus = "offline"
)

func (s OperationalStatus) Valid() bool {
	switch s {
	case OperationalAvailable, OperationalOnBreak, OperationalOffline:
		return true
	}
	return false
}
