package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
)

const employeeColumns = `id, full_name, role_id, supervisor_id, status, operational_status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type employeeRepository struct {
	db *DB
}

func NewEmployeeRepository(db *DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		e                    employee.Employee
		roleID, supervisorID sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&e.ID, &e.FullName, &roleID, &supervisorID, &e.Status, &e.OperationalStatus, &createdAt, &updatedAt)
	if err != nil {
		return employee.Employee{}, err
	}
	e.RoleID = stringPtr(roleID)
	e.SupervisorID = stringPtr(supervisorID)
	if e.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if e.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *employeeRepository) queryEmployees(ctx context.Context, query string, args ...any) ([]employee.Employee, error) {
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx, query, args...)
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
func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
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
	now := time.Now().UTC()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now

	_, err := getQuerier(ctx, r.db).ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		newEmployee.ID, newEmployee.FullName, nullString(newEmployee.RoleID), nullString(newEmployee.SupervisorID),
		newEmployee.Status, newEmployee.OperationalStatus, formatTime(now), formatTime(now),
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return newEmployee, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	row := getQuerier(ctx, r.db).QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// GetActive implements employee.EmployeeRepository.
func (r *employeeRepository) GetActive(ctx context.Context) ([]employee.Employee, error) {
	return r.queryEmployees(ctx, `SELECT `+employeeColumns+` FROM employees WHERE status = ? ORDER BY full_name`, employee.StatusActive)
}

// GetTeam implements employee.EmployeeRepository.
func (r *employeeRepository) GetTeam(ctx context.Context, supervisorID string) ([]employee.Employee, error) {
	return r.queryEmployees(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE supervisor_id = ? AND status <> ?
		ORDER BY full_name`,
		supervisorID, employee.StatusTerminated,
	)
}

// UpdateOperationalStatus implements employee.EmployeeRepository.
func (r *employeeRepository) UpdateOperationalStatus(ctx context.Context, id string, status employee.OperationalStatus) error {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx,
		`UPDATE employees SET operational_status = ?, updated_at = ? WHERE id = ?`,
		status, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update operational status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ResetOperationalStatus implements employee.EmployeeRepository.
func (r *employeeRepository) ResetOperationalStatus(ctx context.Context) (int64, error) {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx,
		`UPDATE employees SET operational_status = ?, updated_at = ? WHERE operational_status <> ?`,
		employee.OperationalOffline, formatTime(time.Now()), employee.OperationalOffline,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset operational status: %w", err)
	}
	return res.RowsAffected()
}
