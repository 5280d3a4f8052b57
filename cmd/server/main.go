package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/database"
	"github.com/lakkilakshman/matrimony-sub000/internal/handlers"
	"github.com/lakkilakshman/matrimony-sub000/internal/logging"
	"github.com/lakkilakshman/matrimony-sub000/internal/mailer"
	"github.com/lakkilakshman/matrimony-sub000/internal/middleware"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/interests"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/messaging"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/subscriptions"
	"github.com/lakkilakshman/matrimony-sub000/internal/routes"
	"github.com/lakkilakshman/matrimony-sub000/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Services
	moderationService := moderation.NewService(database.DB)
	notificationService := notifications.NewService(database.DB)
	profileService := profiles.NewService(database.DB, cfg, notificationService, moderationService)
	subscriptionService := subscriptions.NewService(database.DB, notificationService)
	interestService := interests.NewService(database.DB, profileService, notificationService, moderationService)
	messageService := messaging.NewService(database.DB, profileService, notificationService, moderationService)
	authService := services.NewAuthService(database.DB, cfg, profileService)

	// Feature modules
	plugins := []modules.Plugin{
		profiles.New(profileService),
		interests.New(interestService),
		messaging.New(messageService),
		subscriptions.New(subscriptionService),
		notifications.New(notificationService),
	}

	// Migrate module models
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("module migration failed", "module", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("module migrated", "module", p.ID(), "models", len(models))
		}
	}

	// Email outbox dispatcher
	dispatcher := mailer.NewDispatcher(database.DB, mailer.NewSMTPMailer(cfg), cfg.OutboxInterval, cfg.OutboxMaxAttempts)
	dispatcher.Start()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	moderationHandler := handlers.NewModerationHandler(moderationService)
	configHandler := handlers.NewSiteConfigHandler(database.DB)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, database.DB, authHandler, healthHandler, moderationHandler, configHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	dispatcher.Stop()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Never expose server error details to clients
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
