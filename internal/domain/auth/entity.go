package auth

type Role string

const (
	RoleEmployee   Role = "employee"   // Clocks in and out, submits requests
	RoleSupervisor Role = "supervisor" // Watches a team, reviews its requests
	RoleHR         Role = "hr"         // Runs reconciliation, manages schedules
)

func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleSupervisor, RoleHR:
		return true
	}
	return false
}

// Claims is what a verified access token says about the caller.
type Claims struct {
	EmployeeID string
	Role       Role
}

// Is reports whether the caller holds one of roles.
func (c Claims) Is(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
