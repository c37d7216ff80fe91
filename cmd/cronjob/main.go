package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"givecycle-backend/internal/config"
	"givecycle-backend/internal/jobs"
	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository/postgres"
	"givecycle-backend/internal/scheduler"
	"givecycle-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'release-expired-escrows', 'all-hourly', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GiveCycle Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Notification Channels
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	var pushSvc service.PushService
	if cfg.Firebase.CredentialsFile != "" {
		pushSvc, err = service.NewPushService(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize Firebase push delivery", "error", err)
			log.Fatalf("Failed to initialize Firebase push delivery: %v", err)
		}
	}

	notifier := service.NewNotifier(store, emailSvc, pushSvc)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, notifier, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "release-expired-escrows":
		jobRunner.ReleaseExpiredEscrows()
	case "expire-stale-matches":
		jobRunner.ExpireStaleMatches()
	case "sweep-cycle-due-dates":
		jobRunner.SweepCycleDueDates()
	case "recompute-leaderboard":
		jobRunner.RecomputeLeaderboard()
	case "all-hourly":
		jobRunner.RunAllHourlyJobs()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - release-expired-escrows\n")
		fmt.Printf("  - expire-stale-matches\n")
		fmt.Printf("  - sweep-cycle-due-dates\n")
		fmt.Printf("  - recompute-leaderboard\n")
		fmt.Printf("  - all-hourly\n")
		fmt.Printf("  - all-daily\n")
		os.Exit(1)
	}
}
