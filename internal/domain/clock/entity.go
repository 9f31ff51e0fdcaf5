package clock

import (
	"time"
)

type EventType string

const (
	EventClockIn          EventType = "clock_in"
	EventClockOut         EventType = "clock_out"
	EventBreakOut         EventType = "break_out"
	EventBreakIn          EventType = "break_in"
	EventPersonalBreakOut EventType = "personal_break_out"
	EventPersonalBreakIn  EventType = "personal_break_in"
	EventLunchOut         EventType = "lunch_out"
	EventLunchIn          EventType = "lunch_in"
)

var AllEventTypes = []EventType{
	EventClockIn,
	EventClockOut,
	EventBreakOut,
	EventBreakIn,
	EventPersonalBreakOut,
	EventPersonalBreakIn,
	EventLunchOut,
	EventLunchIn,
}

func (t EventType) Valid() bool {
	for _, v := range AllEventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// LeavesPost reports whether the event starts a break of any kind.
func (t EventType) LeavesPost() bool {
	return t == EventBreakOut || t == EventPersonalBreakOut || t == EventLunchOut
}

// ReturnsToPost reports whether the event is a clock-in or ends a break.
func (t EventType) ReturnsToPost() bool {
	return t == EventClockIn || t == EventBreakIn || t == EventPersonalBreakIn || t == EventLunchIn
}

// Event is an immutable clock punch.
type Event struct {
	ID         string
	EmployeeID string
	Timestamp  time.Time
	Type       EventType
	CreatedAt  time.Time
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// OffHoursRequest asks a reviewer to record a punch the employee could not
// register at the time, e.g. a clock-in outside the scheduled window.
type OffHoursRequest struct {
	ID          string
	EmployeeID  string
	RequestedAt time.Time
	Type        EventType
	Reason      string
	Status      RequestStatus
	ReviewerID  *string
	ReviewedAt  *time.Time
	SubmittedAt time.Time
}
