package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `id, full_name, role_id, supervisor_id, status, operational_status, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.FullName, &e.RoleID, &e.SupervisorID,
		&e.Status, &e.OperationalStatus, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepositoryImpl) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	if newEmployee.ID == "" {
		id, err := newID()
		if err != nil {
			return employee.Employee{}, err
		}
		newEmployee.ID = id
	}
	if newEmployee.Status == "" {
		newEmployee.Status = employee.StatusActive
	}
	if newEmployee.OperationalStatus == "" {
		newEmployee.OperationalStatus = employee.OperationalOffline
	}

	query := `
		INSERT INTO employees (id, full_name, role_id, supervisor_id, status, operational_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newEmployee.ID, newEmployee.FullName, newEmployee.RoleID, newEmployee.SupervisorID,
		newEmployee.Status, newEmployee.OperationalStatus,
	).Scan(&newEmployee.CreatedAt, &newEmployee.UpdatedAt)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetActive implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE status = $1 ORDER BY full_name`
	return r.queryEmployees(ctx, query, employee.StatusActive)
}

// GetTeam implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetTeam(ctx context.Context, supervisorID string) ([]employee.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE supervisor_id = $1 AND status <> $2
		ORDER BY full_name
	`
	return r.queryEmployees(ctx, query, supervisorID, employee.StatusTerminated)
}

// UpdateOperationalStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateOperationalStatus(ctx context.Context, id string, status employee.OperationalStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET operational_status = $1, updated_at = NOW()
		WHERE id = $2
	`

	commandTag, err := q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update operational status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ResetOperationalStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ResetOperationalStatus(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET operational_status = $1, updated_at = NOW()
		WHERE operational_status <> $1
	`

	commandTag, err := q.Exec(ctx, query, employee.OperationalOffline)
	if err != nil {
		return 0, fmt.Errorf("failed to reset operational status: %w", err)
	}
	return commandTag.RowsAffected(), nil
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{
		db: db,
	}
}
