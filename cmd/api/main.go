package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/docs"
	"github.com/businessflow/estimate-api/internal/config"
	"github.com/businessflow/estimate-api/internal/database"
	"github.com/businessflow/estimate-api/internal/http/handler"
	"github.com/businessflow/estimate-api/internal/http/middleware"
	"github.com/businessflow/estimate-api/internal/http/router"
	"github.com/businessflow/estimate-api/internal/jobs"
	"github.com/businessflow/estimate-api/internal/logger"
	"github.com/businessflow/estimate-api/internal/notify"
	"github.com/businessflow/estimate-api/internal/repository"
	"github.com/businessflow/estimate-api/internal/service"
	"github.com/businessflow/estimate-api/internal/storage"
)

// @title BusinessFlow Estimate API
// @version 1.0
// @description Estimate lifecycle API with public sharing and e-signature capture

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key for the internal surface

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Configure Swagger host based on environment
	if cfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Development convenience only; production schemas go through cmd/migrate
	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	archive, err := storage.NewArchive(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	notifier := notify.NewLogSender(log)

	// Initialize repositories
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	estimateRepo := repository.NewEstimateRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	customerService := service.NewCustomerService(customerRepo, log)
	productService := service.NewProductService(productRepo, log)
	settingsService := service.NewSettingsService(settingsRepo, log)
	estimateService := service.NewEstimateService(
		estimateRepo,
		customerRepo,
		settingsRepo,
		activityRepo,
		notifier,
		archive,
		cfg.Public.BaseURL,
		log,
	)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerService, estimateService, log)
	productHandler := handler.NewProductHandler(productService, log)
	settingsHandler := handler.NewSettingsHandler(settingsService, log)
	estimateHandler := handler.NewEstimateHandler(estimateService, log)
	publicHandler := handler.NewPublicHandler(estimateService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		customerHandler,
		productHandler,
		settingsHandler,
		estimateHandler,
		publicHandler,
	)

	// Start the signature reminder scheduler
	var scheduler *jobs.Scheduler
	if cfg.Reminders.Enabled {
		scheduler = jobs.NewScheduler(log)
		reminderJob := jobs.NewReminderJob(
			estimateRepo,
			activityRepo,
			notifier,
			cfg.Public.BaseURL,
			cfg.Reminders.AfterDays,
			log,
		)
		if err := scheduler.RegisterReminderJob(&cfg.Reminders, reminderJob); err != nil {
			return fmt.Errorf("failed to register reminder job: %w", err)
		}
		scheduler.Start()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			scheduler.Stop()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
