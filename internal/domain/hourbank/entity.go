package hourbank

import "time"

// Entry is the reconciled balance of one employee-day. Minutes is positive
// for a credit and negative for a debit; zero balances are never stored.
type Entry struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Minutes     int
	Description string
	ProcessedAt time.Time
}
