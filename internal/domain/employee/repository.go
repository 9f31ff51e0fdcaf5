package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetActive(ctx context.Context) ([]Employee, error)
	GetTeam(ctx context.Context, supervisorID string) ([]Employee, error)
	UpdateOperationalStatus(ctx context.Context, id string, status OperationalStatus) error
	// ResetOperationalStatus sets every employee offline and returns how many rows changed.
	ResetOperationalStatus(ctx context.Context) (int64, error)
}
