package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-appointment-api/config"
	deliveryHttp "clinic-appointment-api/internal/delivery/http"
	"clinic-appointment-api/internal/delivery/http/handler"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/infrastructure/cache"
	"clinic-appointment-api/internal/infrastructure/database"
	"clinic-appointment-api/internal/repository"
	"clinic-appointment-api/internal/scheduler"
	"clinic-appointment-api/internal/service"
	"clinic-appointment-api/internal/usecase"
	"clinic-appointment-api/pkg/jwt"
	"clinic-appointment-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config             *config.Config
	DB                 *gorm.DB
	RedisClient        *redis.Client
	Server             *http.Server
	NotificationWorker *service.NotificationWorker
	ReminderScheduler  *scheduler.ReminderScheduler
	log                *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{log: logrus.StandardLogger()}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	if err := setupLogger(app.log, cfg.App); err != nil {
		return nil, err
	}
	if err := setupTimezone(cfg.App.Timezone); err != nil {
		return nil, err
	}
	app.log.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := database.RunMigrations(sqlDB, app.log); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.initialize()

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(log *logrus.Logger, cfg config.AppConfig) error {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid APP_LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	return nil
}

// setupTimezone makes "today" and the reminder hour follow the clinic's zone.
func setupTimezone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", name, err)
	}
	time.Local = loc
	return nil
}

// initialize wires repositories, services, usecases and the HTTP server
func (app *App) initialize() {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Repositories
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	templateRepo := repository.NewWeeklyTemplateRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	conflictGuard := service.NewConflictGuard(appointmentRepo)
	resolver := service.NewAvailabilityResolver(templateRepo, appointmentRepo)
	notificationQueue := service.NewNotificationQueue(redisClient, log, cfg.Notification.QueueKey)
	mailer := service.NewLogMailer(cfg.Notification.FromEmail, log)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, transactor, userRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, redisClient)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, transactor, userRepo, doctorProfileRepo, auditService)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, transactor, userRepo, patientProfileRepo, auditService)
	templateUsecase := usecase.NewWeeklyTemplateUsecase(db, log, transactor, templateRepo, doctorProfileRepo, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, doctorProfileRepo, resolver)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, transactor, appointmentRepo, doctorProfileRepo, patientProfileRepo, conflictGuard, auditService, notificationQueue)
	notificationUsecase := usecase.NewNotificationUsecase(db, log, appointmentRepo, notificationQueue, mailer)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Background jobs
	app.NotificationWorker = service.NewNotificationWorker(notificationQueue, notificationUsecase.Deliver, cfg.Notification.Workers, log)
	app.ReminderScheduler = scheduler.NewReminderScheduler(notificationUsecase, cfg.Notification.ReminderHour, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, availabilityUsecase, customValidator)
	templateHandler := handler.NewWeeklyTemplateHandler(templateUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, notificationUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientProfileUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		templateHandler,
		appointmentHandler,
		patientHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the background jobs and the HTTP server, then blocks until shutdown
func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.NotificationWorker.Start(ctx)
	app.ReminderScheduler.Start(ctx)

	go func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	app.ReminderScheduler.Stop()
	app.NotificationWorker.Stop()

	app.Close()

	app.log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
