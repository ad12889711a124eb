package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpapi "alumni-connect-backend/internal/api/http"
	"alumni-connect-backend/internal/config"
	"alumni-connect-backend/internal/jobs"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/repository"
	"alumni-connect-backend/internal/scheduler"
	"alumni-connect-backend/internal/security"
	"alumni-connect-backend/internal/service"
	"alumni-connect-backend/internal/snapshot"
	"alumni-connect-backend/internal/storage"
	"alumni-connect-backend/internal/store"
)

const shutdownTimeout = 15 * time.Second

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
	logger.Info("Starting Alumni Connect Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Data configuration", "bucket_url", cfg.Data.BucketURL, "seed_path", cfg.Data.SeedPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the mirror bucket holding one JSON file per store
	mirror, err := storage.Open(ctx, cfg.Data.BucketURL)
	if err != nil {
		logger.Error("Failed to open data bucket", "error", err)
		log.Fatalf("Failed to open data bucket: %v", err)
	}
	defer mirror.Close()

	// Initialize Stores
	var seed *snapshot.Loader
	if cfg.Data.SeedPath != "" {
		seed = snapshot.NewLoader(cfg.Data.SeedPath)
		logger.Info("Baseline snapshot ready", "path", cfg.Data.SeedPath, "kinds", seed.Kinds())
	}
	stores := repository.NewStores(store.Options{Mirror: mirror, Snapshot: seed})

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.Enabled {
		logger.Info("Email notifications enabled", "from", cfg.Email.FromEmail)
		emailSvc = service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName, cfg.Email.PortalURL)
	} else {
		logger.Info("Email notifications disabled, logging only")
		emailSvc = service.NewLogEmailService()
	}

	// Initialize Services
	svcs := service.NewServices(stores, emailSvc)
	for _, s := range stores.Stats() {
		logger.Info("Store loaded", "store", s.Name, "records", s.Records)
	}

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(svcs, cfg)
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to create scheduler", "error", err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	// Set up the ops HTTP server
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	router := httpapi.NewRouter(httpapi.NewOpsHandler(stores, svcs.Analytics, jobRunner), tokenManager)
	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Ops HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		cronScheduler.Start()
		<-gctx.Done()
		cronScheduler.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down ops HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
	}

	// Let in-flight notification emails finish before exiting
	svcs.Notification.Drain()
	if dirty := stores.Dirty(); len(dirty) > 0 {
		logger.Warn("Exiting with stores ahead of their mirror files", "stores", dirty)
	}
	logger.Info("Alumni Connect Backend stopped. Goodbye!")
}
