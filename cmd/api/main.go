package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/timebank-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/timebank-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		slog.Error("Error connecting to store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	services, err := bootstrap.NewServices(cfg, stores)
	if err != nil {
		slog.Error("Error wiring services", "error", err)
		os.Exit(1)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	scheduler := cron.NewScheduler(ctx)
	cron.NewReconciliationJobs(services.Engine, cfg.Reconciliation.RunAtHour).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{Logger: log, AllowedOrigins: cfg.App.AllowedOrigins},
		JWTService,
		appHTTP.Handlers{
			Health:         appHTTP.Health(stores),
			Clock:          appHTTP.NewClockHandler(services.Clock),
			Status:         appHTTP.NewStatusHandler(services.Synchronizer),
			HourBank:       appHTTP.NewHourBankHandler(services.HourBank, services.Team),
			Excuse:         appHTTP.NewExcuseHandler(services.Excuse),
			Team:           appHTTP.NewTeamHandler(services.Team, services.Hub, JWTService),
			Schedule:       appHTTP.NewScheduleHandler(services.Schedule),
			Reconciliation: appHTTP.NewReconciliationHandler(services.Engine),
		},
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Open team streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver, "timezone", cfg.Reconciliation.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	scheduler.Stop()
}
