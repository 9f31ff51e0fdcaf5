package bootstrap

import (
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/excuse"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/hourbank"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/reconciliation"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/sse"
	clockService "github.com/cmlabs-hris/timebank-backend-go/internal/service/clock"
	excuseService "github.com/cmlabs-hris/timebank-backend-go/internal/service/excuse"
	holidayService "github.com/cmlabs-hris/timebank-backend-go/internal/service/holiday"
	hourBankService "github.com/cmlabs-hris/timebank-backend-go/internal/service/hourbank"
	reconciliationService "github.com/cmlabs-hris/timebank-backend-go/internal/service/reconciliation"
	scheduleService "github.com/cmlabs-hris/timebank-backend-go/internal/service/schedule"
	"github.com/cmlabs-hris/timebank-backend-go/internal/service/status"
	"github.com/cmlabs-hris/timebank-backend-go/internal/service/team"
)

// Services is the wired service graph shared by the API server and the CLI.
type Services struct {
	Hub          *sse.Hub
	Synchronizer *status.Synchronizer
	Engine       *reconciliationService.Engine
	Clock        clock.Service
	Excuse       excuse.Service
	HourBank     hourbank.Service
	Schedule     schedule.Service
	Team         *team.TeamService
}

func NewServices(cfg *config.Config, stores *Stores) (*Services, error) {
	policy, err := reconciliation.ParseAbsencePolicy(cfg.Reconciliation.AbsencePolicy)
	if err != nil {
		return nil, err
	}
	loc := cfg.Location()

	hub := sse.NewHub()
	synchronizer := status.NewSynchronizer(stores.Employees, stores.Events, hub, loc)
	shifts := scheduleService.NewResolver(stores.Assignments)
	holidays := holidayService.NewResolver(holidayService.NewBrazilCalendar(), stores.Holidays)

	engine := reconciliationService.NewEngine(
		stores.Employees,
		stores.Events,
		stores.Excuses,
		stores.HourBank,
		stores.Runs,
		shifts,
		holidays,
		synchronizer,
		reconciliationService.Config{
			Location:       loc,
			AbsencePolicy:  policy,
			Workers:        cfg.Reconciliation.Workers,
			OvernightGrace: time.Duration(cfg.Reconciliation.OvernightGraceMinutes) * time.Minute,
		},
	)

	clockSvc := clockService.NewClockService(
		stores.Transactor,
		stores.Events,
		stores.OffHours,
		stores.Employees,
		stores.PauseRules,
		shifts,
		synchronizer,
		engine,
		clockService.Config{
			Location:    loc,
			EarlyWindow: time.Duration(cfg.Clock.EarlyWindowMinutes) * time.Minute,
		},
	)

	return &Services{
		Hub:          hub,
		Synchronizer: synchronizer,
		Engine:       engine,
		Clock:        clockSvc,
		Excuse:       excuseService.NewExcuseService(stores.Excuses, stores.Employees, engine, loc),
		HourBank:     hourBankService.NewHourBankService(stores.HourBank),
		Schedule:     scheduleService.NewScheduleService(stores.Transactor, stores.Schedules, stores.Assignments, stores.Employees),
		Team:         team.NewTeamService(stores.Employees, stores.PauseRules, synchronizer),
	}, nil
}
