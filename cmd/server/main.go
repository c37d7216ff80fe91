package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "givecycle-backend/internal/api/http"
	"givecycle-backend/internal/config"
	"givecycle-backend/internal/logger"
	"givecycle-backend/internal/repository/postgres"
	"givecycle-backend/internal/security"
	"givecycle-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GiveCycle Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Notification Channels
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		logger.Info("SendGrid email delivery enabled", "from", cfg.SendGrid.FromEmail)
	} else {
		logger.Warn("SendGrid API key not set, email delivery disabled")
	}

	var pushSvc service.PushService
	if cfg.Firebase.CredentialsFile != "" {
		pushSvc, err = service.NewPushService(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize Firebase push delivery", "error", err)
			log.Fatalf("Failed to initialize Firebase push delivery: %v", err)
		}
		logger.Info("Firebase push delivery enabled")
	} else {
		logger.Warn("Firebase credentials not set, push delivery disabled")
	}

	notifier := service.NewNotifier(store, emailSvc, pushSvc)

	// Initialize Services
	matchingSvc := service.NewMatchingService(store, notifier, cfg.Donation)
	settlementSvc := service.NewSettlementService(store, matchingSvc, notifier, cfg.Donation)
	eligibilitySvc := service.NewEligibilityService(store)
	walletSvc := service.NewWalletService(store)
	notificationSvc := service.NewNotificationService(store)

	// Initialize HTTP handlers
	donationHandler := httpapi.NewDonationHandler(settlementSvc)
	matchHandler := httpapi.NewMatchHandler(matchingSvc, settlementSvc, eligibilitySvc)
	walletHandler := httpapi.NewWalletHandler(walletSvc, notificationSvc)

	router := httpapi.NewRouter(tokenManager, donationHandler, matchHandler, walletHandler)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
