package bootstrap

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/pauserule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/timebank-backend-go/internal/repository/sqlite"
)

const postgresMaxConns = 10

// Stores bundles the repositories of one backend.
type Stores struct {
	Transactor  database.Transactor
	Employees   employee.EmployeeRepository
	Schedules   schedule.ScheduleRepository
	Assignments schedule.EmployeeScheduleAssignmentRepository
	Events      clock.EventRepository
	OffHours    clock.OffHoursRequestRepository
	Excuses     excuse.AbsenceExcuseRepository
	Holidays    holiday.HolidayRepository
	PauseRules  pauserule.PauseRuleRepository
	HourBank    hourbank.HourBankRepository
	Runs        reconciliation.RunRepository

	ping    func(ctx context.Context) error
	migrate func(ctx context.Context) error
	close   func()
}

// OpenStores connects to the backend selected by STORE_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), postgresMaxConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return PostgresStores(db), nil
	case config.StoreDriverSQLite:
		db, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return SQLiteStores(db), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func PostgresStores(db *database.DB) *Stores {
	return &Stores{
		Transactor:  postgresql.NewTransactor(db),
		Employees:   postgresql.NewEmployeeRepository(db),
		Schedules:   postgresql.NewScheduleRepository(db),
		Assignments: postgresql.NewEmployeeScheduleAssignmentRepository(db),
		Events:      postgresql.NewClockEventRepository(db),
		OffHours:    postgresql.NewOffHoursRequestRepository(db),
		Excuses:     postgresql.NewAbsenceExcuseRepository(db),
		Holidays:    postgresql.NewHolidayRepository(db),
		PauseRules:  postgresql.NewPauseRuleRepository(db),
		HourBank:    postgresql.NewHourBankRepository(db),
		Runs:        postgresql.NewReconciliationRunRepository(db),
		ping:        db.Ping,
		migrate: func(ctx context.Context) error {
			return postgresql.Migrate(ctx, db)
		},
		close: db.Close,
	}
}

func SQLiteStores(db *sqlite.DB) *Stores {
	return &Stores{
		Transactor:  sqlite.NewTransactor(db),
		Employees:   sqlite.NewEmployeeRepository(db),
		Schedules:   sqlite.NewScheduleRepository(db),
		Assignments: sqlite.NewEmployeeScheduleAssignmentRepository(db),
		Events:      sqlite.NewClockEventRepository(db),
		OffHours:    sqlite.NewOffHoursRequestRepository(db),
		Excuses:     sqlite.NewAbsenceExcuseRepository(db),
		Holidays:    sqlite.NewHolidayRepository(db),
		PauseRules:  sqlite.NewPauseRuleRepository(db),
		HourBank:    sqlite.NewHourBankRepository(db),
		Runs:        sqlite.NewReconciliationRunRepository(db),
		ping:        db.Ping,
		migrate:     db.Migrate,
		close: func() {
			_ = db.Close()
		},
	}
}

// Ping checks the backend connection.
func (s *Stores) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Migrate applies the schema. Safe to repeat.
func (s *Stores) Migrate(ctx context.Context) error {
	return s.migrate(ctx)
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}
