package employee

// TeamMemberView is the supervisor dashboard row for one team member.
type TeamMemberView struct {
	EmployeeID            string            `json:"employee_id"`
	FullName              string            `json:"full_name"`
	OperationalStatus     OperationalStatus `json:"operational_status"`
	BreaksTaken           int               `json:"breaks_taken"`
	BreaksAllowed         int               `json:"breaks_allowed"`
	BreakMinutesUsed      int               `json:"break_minutes_used"`
	RemainingBreakMinutes int               `json:"remaining_break_minutes"`
	NextBreak             *string           `json:"next_break,omitempty"`
}

type StatusResponse struct {
	EmployeeID        string            `json:"employee_id"`
	OperationalStatus OperationalStatus `json:"operational_status"`
}
