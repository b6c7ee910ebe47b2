package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"sleepcountdown/config"
	"sleepcountdown/internal/api"
	"sleepcountdown/internal/core"
	"sleepcountdown/internal/logging"
	"sleepcountdown/internal/scheduler"
	"sleepcountdown/internal/storage/sqlite"
)

const (
	shutdownTimeout   = 10 * time.Second
	defaultConfigPath = "config.yaml"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file (.yaml or .json)")
	useEnv := flag.Bool("env", false, "Load configuration from environment variables")
	flag.Parse()

	var cfg *config.Config
	var err error

	if *useEnv {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath)
	}

	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(logging.LoggerConfig{
		Format: cfg.Logging.Format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})

	logger.Info("Initializing SQLite database", "path", cfg.Database.Path)
	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	alertPolicy, err := cfg.AlertPolicy()
	if err != nil {
		return fmt.Errorf("failed to build alert policy: %w", err)
	}
	defaultSchedule, err := cfg.DefaultSchedule()
	if err != nil {
		return fmt.Errorf("failed to read default schedule: %w", err)
	}

	calculator := core.NewWindowCalculator(alertPolicy)
	clock := core.RealClock{}

	activities := logging.NewActivityManagerLogger(
		core.NewActivityManager(db, calculator, clock),
		logger,
	)

	sched := scheduler.NewScheduler(activities, cfg.ActivityInterval(), logger.With("component", "scheduler"))
	go sched.Start()

	router := api.NewRouter(api.RouterConfig{
		Storage:           db,
		Activities:        activities,
		Calculator:        calculator,
		Clock:             clock,
		DefaultSchedule:   defaultSchedule,
		DefaultTimezone:   cfg.Schedule.Timezone,
		APIKey:            cfg.Security.APIKey,
		RequestsPerMinute: cfg.Security.RequestsPerMinute,
		Logger:            logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			"addr", server.Addr,
			"alert_policy", alertPolicy.Name(),
			"default_bedtime", defaultSchedule.Bedtime.String(),
			"default_wakeup", defaultSchedule.Wakeup.String(),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		sched.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Starting graceful shutdown", "signal", sig.String())

		sched.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("Graceful shutdown complete")
	}

	return nil
}
