package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/icf-tools/matchday/internal/access"
	"github.com/icf-tools/matchday/internal/claim"
	"github.com/icf-tools/matchday/internal/config"
	"github.com/icf-tools/matchday/internal/database"
	server "github.com/icf-tools/matchday/internal/http"
	"github.com/icf-tools/matchday/internal/judges"
	"github.com/icf-tools/matchday/internal/matchmaking"
	"github.com/icf-tools/matchday/internal/metrics"
	"github.com/icf-tools/matchday/internal/notifier/slack"
	"github.com/icf-tools/matchday/internal/pubsub"
	"github.com/icf-tools/matchday/internal/reminder"
	"github.com/icf-tools/matchday/internal/tournament"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	store := tournament.New(db)
	ledger := judges.NewLedger(cfg.JudgeCapacity)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ScheduleChannelID, cfg.Slack.ResultsChannelID, cfg.Slack.ReportsChannelID, metricsSvc)
	authorizer := access.NewSlackAccess(cfg.Slack.Token, cfg.Slack.JudgeGroupID, cfg.Slack.OrganizerGroupID)
	pubsubClient := pubsub.New(cfg.ProjectID)
	scheduler := reminder.New(store, notifier, metricsSvc)
	defer scheduler.Stop()
	machine := claim.New(store, ledger, authorizer, authorizer, notifier, scheduler, pubsubClient, metricsSvc)
	matchmaker := matchmaking.New()

	// Re-arm reminders for matches that are still ahead of us. Judge
	// assignments are session-scoped, so each restart begins with every
	// slot open and the ledger empty.
	events, err := store.AllEvents()
	if err != nil {
		log.Fatalf("Failed to load events: %s", err)
	}
	armed := 0
	for _, event := range events {
		if event.ScheduledAt.After(time.Now()) {
			scheduler.Arm(event)
			armed++
		}
	}
	log.Info("Reminders re-armed", "count", armed, "events", len(events))

	s := server.NewServer(
		store,
		ledger,
		machine,
		scheduler,
		matchmaker,
		authorizer,
		notifier,
		metricsSvc,
		metricsHandler,
		cfg,
		pubsubClient,
	)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		// Create a context with a timeout for the shutdown.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
