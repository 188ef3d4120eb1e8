package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/admissions-go-api/internal/config"
	"github.com/noah-isme/admissions-go-api/internal/database"
	"github.com/noah-isme/admissions-go-api/internal/handler"
	"github.com/noah-isme/admissions-go-api/internal/middleware"
	"github.com/noah-isme/admissions-go-api/internal/models"
	"github.com/noah-isme/admissions-go-api/internal/repository"
	"github.com/noah-isme/admissions-go-api/internal/router"
	"github.com/noah-isme/admissions-go-api/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "admissions-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AppEnv == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := db.AutoMigrate(
		&models.Program{},
		&models.Cohort{},
		&models.Applicant{},
		&models.Application{},
		&models.User{},
		&models.StudentProfile{},
		&models.Enrollment{},
		&models.AdminActionLog{},
		&models.Announcement{},
		&models.Page{},
		&models.OutboundMessage{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	cache, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, cohort stats cache disabled")
		cache = nil
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, queued message events disabled")
			natsConn = nil
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	applicantRepo := repository.NewApplicantRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	cohortRepo := repository.NewCohortRepository(db)
	programRepo := repository.NewProgramRepository(db)
	userRepo := repository.NewUserRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	pageRepo := repository.NewPageRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	auditService := service.NewAuditService(auditRepo, logger)
	cohortService := service.NewCohortService(cohortRepo, enrollmentRepo, applicationRepo, programRepo, cache, cfg.CohortStatsTTL, validate, logger)
	approvalService := service.NewApprovalService(db, applicationRepo, cohortRepo, userRepo, enrollmentRepo, auditService, cohortService, logger)
	applicationService := service.NewApplicationService(db, applicationRepo, applicantRepo, cohortRepo, validate, logger)
	programService := service.NewProgramService(programRepo, validate, logger)
	contentService := service.NewContentService(announcementRepo, pageRepo, validate, logger)
	messageService := service.NewMessageService(messageRepo, natsConn, cfg.MessageSubject, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})

	router.Register(app, router.Dependencies{
		JWTSecret:    cfg.JWTSecret,
		Health:       handler.NewHealthHandler(db, cache),
		Applications: handler.NewApplicationHandler(applicationService, approvalService, cohortService, messageService, cfg.ImportMaxRows, logger),
		Cohorts:      handler.NewCohortHandler(cohortService, logger),
		Programs:     handler.NewProgramHandler(programService, logger),
		Content:      handler.NewContentHandler(contentService, logger),
		Messages:     handler.NewMessageHandler(messageService, logger),
		Audit:        handler.NewAuditHandler(auditService, logger),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("starting http server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	waitForShutdown(app, natsConn, cfg.ShutdownTimeout, logger)
}

func waitForShutdown(app *fiber.App, natsConn *nats.Conn, timeout time.Duration, logger zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if natsConn != nil {
		natsConn.Close()
	}
}
