package reconciliation

import (
	"time"
)

// Outcome classifies how an employee-day was resolved.
type Outcome string

const (
	OutcomeExcused    Outcome = "excused"
	OutcomeNoSchedule Outcome = "no_schedule"
	OutcomeHoliday    Outcome = "holiday"
	OutcomeDayOff     Outcome = "day_off"
	OutcomeWorked     Outcome = "worked"
	OutcomeAbsent     Outcome = "absent"
	OutcomeBalanced   Outcome = "balanced"
	OutcomeFailed     Outcome = "failed"
)

// AbsencePolicy decides what an unjustified absence does to the ledger.
// AbsenceFlag only reports it and clears any stale entry; AbsenceDebit
// debits the expected gross minutes of the day.
type AbsencePolicy string

const (
	AbsenceFlag  AbsencePolicy = "flag"
	AbsenceDebit AbsencePolicy = "debit"
)

func ParseAbsencePolicy(s string) (AbsencePolicy, error) {
	switch p := AbsencePolicy(s); p {
	case AbsenceFlag, AbsenceDebit:
		return p, nil
	}
	return "", ErrInvalidPolicy
}

// DayResult is what ReconcileDay did for one employee-day. Minutes and
// Description are set only when an entry was written.
type DayResult struct {
	EmployeeID  string    `json:"employee_id"`
	Date        time.Time `json:"date"`
	Outcome     Outcome   `json:"outcome"`
	Minutes     int       `json:"minutes"`
	Description string    `json:"description,omitempty"`
	Written     bool      `json:"written"`
}

type Failure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// Run summarises one batch over the active roster.
type Run struct {
	ID         string          `json:"id"`
	Date       time.Time       `json:"date"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Processed  int             `json:"processed"`
	Failed     int             `json:"failed"`
	Counts     map[Outcome]int `json:"counts"`
	Failures   []Failure       `json:"failures,omitempty"`
}
