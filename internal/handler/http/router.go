package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

type Handlers struct {
	Health         http.HandlerFunc
	Clock          ClockHandler
	Status         StatusHandler
	HourBank       HourBankHandler
	Excuse         ExcuseHandler
	Team           TeamHandler
	Schedule       ScheduleHandler
	Reconciliation ReconciliationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)

		// EventSource cannot send headers, so the stream also accepts a
		// short-lived token in the query string.
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, middleware.TokenFromQuery))
			r.Use(middleware.AuthRequired(jwt.TypeAccess, jwt.TypeStream))
			r.Use(middleware.RequireSupervisor)
			r.Get("/team/stream", h.Team.Stream)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired())

			r.Post("/clock-events", h.Clock.Record)

			r.Route("/me", func(r chi.Router) {
				r.Get("/status", h.Status.Me)
				r.Get("/hour-bank", h.HourBank.Me)
			})

			r.Route("/off-hours-requests", func(r chi.Router) {
				r.Post("/", h.Clock.SubmitOffHours)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireSupervisor)
					r.Post("/{id}/approve", h.Clock.ApproveOffHours)
					r.Post("/{id}/reject", h.Clock.RejectOffHours)
				})
			})

			r.Route("/excuses", func(r chi.Router) {
				r.Post("/", h.Excuse.Submit)
				r.Get("/me", h.Excuse.ListMine)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireSupervisor)
					r.Post("/{id}/approve", h.Excuse.Approve)
					r.Post("/{id}/reject", h.Excuse.Reject)
				})
			})

			// Supervisor and HR
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSupervisor)
				r.Get("/team", h.Team.View)
				r.Post("/team/stream-token", h.Team.StreamToken)
				r.Get("/employees/{id}/hour-bank", h.HourBank.ByEmployee)
			})

			// HR only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireHR)
				r.Post("/schedules/assignments", h.Schedule.AssignSchedule)

				r.Route("/reconciliation", func(r chi.Router) {
					r.Post("/runs", h.Reconciliation.Run)
					r.Get("/runs", h.Reconciliation.ListRuns)
					r.Post("/employees/{id}", h.Reconciliation.ReconcileEmployee)
				})
			})
		})
	})
	return r
}
