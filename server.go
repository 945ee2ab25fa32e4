package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mralligator/appointment-scheduler/appointments"
	"github.com/mralligator/appointment-scheduler/auth"
	"github.com/mralligator/appointment-scheduler/config"
	"github.com/mralligator/appointment-scheduler/controllers"
	"github.com/mralligator/appointment-scheduler/cron"
	"github.com/mralligator/appointment-scheduler/db"
	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/metrics"
	"github.com/mralligator/appointment-scheduler/middleware"
	"github.com/mralligator/appointment-scheduler/models"
	"github.com/mralligator/appointment-scheduler/notify"
	"github.com/mralligator/appointment-scheduler/redis"
	"github.com/mralligator/appointment-scheduler/repository"
	"github.com/mralligator/appointment-scheduler/routes"
)

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, loadedDotEnv := config.Load()
	logger := logging.New(cfg.LogLevel)
	if !loadedDotEnv {
		logger.Warn("no .env file loaded, using environment variables directly")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	conn, err := db.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}

	appointmentRepo := repository.NewAppointmentRepository(conn)
	var settings appointments.SettingsStore = repository.NewSettingsRepository(conn)
	if cfg.RedisAddr != "" {
		client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer client.Close()
		settings = redis.NewSettingsCache(settings, client, cfg.SettingsCacheTTL, logger)
		logger.Info("settings cache enabled", "addr", cfg.RedisAddr)
	}

	sender, err := newEmailSender(cfg, logger)
	if err != nil {
		return err
	}
	mailer, err := notify.NewMailer(sender, cfg.AdminEmail, models.BusinessDetails{
		Name:  cfg.BusinessName,
		Phone: cfg.BusinessPhone,
		Email: cfg.BusinessEmail,
	}, logger)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	manager := appointments.NewManager(settings, appointmentRepo, mailer,
		appointments.WithLogger(logger),
		appointments.WithMetrics(metrics.NewSchedulingMetrics(registry)),
	)

	if cfg.RemindersEnabled {
		scheduler, err := cron.NewReminders(appointmentRepo, mailer, logger).Start(cfg.ReminderSchedule)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	}

	secret := []byte(cfg.JWTSecret)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
	}))

	routes.Setup(app, routes.Dependencies{
		Appointments: controllers.NewAppointmentController(manager, appointmentRepo, logger),
		Settings:     controllers.NewSettingsController(settings, logger),
		Auth:         controllers.NewAuthController(auth.NewCredentialFile(cfg.AdminFile), secret, logger),
		Protected:    []fiber.Handler{middleware.Protected(secret, logger), middleware.RequireAdmin()},
		Gatherer:     registry,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.Shutdown()
	}
}

func newEmailSender(cfg *config.Config, logger *logging.Logger) (notify.EmailSender, error) {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("sendgrid provider selected but SENDGRID_API_KEY is empty")
		}
		return sender, nil
	case "smtp":
		return notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
		}, logger), nil
	default:
		return notify.NewStubEmailSender(logger), nil
	}
}
