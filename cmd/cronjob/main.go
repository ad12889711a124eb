package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alumni-connect-backend/internal/config"
	"alumni-connect-backend/internal/jobs"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/repository"
	"alumni-connect-backend/internal/scheduler"
	"alumni-connect-backend/internal/service"
	"alumni-connect-backend/internal/snapshot"
	"alumni-connect-backend/internal/storage"
	"alumni-connect-backend/internal/store"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-event-reminders', 'all-daily')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Alumni Connect Cronjob Runner...", "log_level", cfg.Log.Level)

	// Open the data bucket shared with the server
	mirror, err := storage.Open(context.Background(), cfg.Data.BucketURL)
	if err != nil {
		logger.Error("Failed to open data bucket", "error", err)
		log.Fatalf("Failed to open data bucket: %v", err)
	}
	defer mirror.Close()

	var seed *snapshot.Loader
	if cfg.Data.SeedPath != "" {
		seed = snapshot.NewLoader(cfg.Data.SeedPath)
	}
	stores := repository.NewStores(store.Options{Mirror: mirror, Snapshot: seed})

	// Initialize Services
	var emailSvc service.EmailService = service.NewLogEmailService()
	if cfg.Email.Enabled {
		emailSvc = service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, cfg.Email.PortalURL)
	}
	svcs := service.NewServices(stores, emailSvc)
	defer svcs.Notification.Drain()

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(svcs, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Unknown job name", "job", *runOnce)
			fmt.Printf("Available jobs:\n")
			for _, name := range jobRunner.JobNames() {
				fmt.Printf("  - %s\n", name)
			}
			svcs.Notification.Drain()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}

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
