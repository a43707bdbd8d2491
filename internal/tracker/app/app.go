package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/harborcrew/taskdeck/internal/tracker/http"
	"github.com/harborcrew/taskdeck/internal/tracker/service"
	"github.com/harborcrew/taskdeck/internal/tracker/store"
	"github.com/harborcrew/taskdeck/internal/tracker/store/drivers/sqlite"
	"github.com/harborcrew/taskdeck/pkg/mailx"
	"github.com/harborcrew/taskdeck/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the tracker service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	mailer mailx.Mailer

	notificationService *service.NotificationService
	fanoutService       *service.FanoutService
	commentService      *service.CommentService
	membershipService   *service.MembershipService
	invitationService   *service.InvitationService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "taskdeck",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AuthSecret == "" {
		return nil, errors.New("TASKDECK_AUTH_SECRET is required")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("taskdeck starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down taskdeck...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("taskdeck stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initMailer() {
	if app.cfg.SMTPHost == "" {
		app.logger.Warn("no SMTP host configured, mention emails disabled")
		app.mailer = mailx.NopMailer{}
		return
	}

	app.mailer = &mailx.SMTPMailer{
		Host:     app.cfg.SMTPHost,
		Port:     app.cfg.SMTPPort,
		Sender:   app.cfg.SMTPSender,
		Password: app.cfg.SMTPPass,
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.notificationService = &service.NotificationService{Store: app.db}

	app.fanoutService = &service.FanoutService{
		Store:         app.db,
		Notifications: app.notificationService,
		Mailer:        app.mailer,
		BaseURL:       app.cfg.BaseURL,
	}

	app.commentService = &service.CommentService{
		Store:  app.db,
		Fanout: app.fanoutService,
	}

	app.membershipService = &service.MembershipService{
		Store:       app.db,
		Invalidator: service.LogInvalidator{},
	}

	app.invitationService = &service.InvitationService{
		Store: app.db,
		TTL:   app.cfg.InvitationTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.notificationService,
		app.invitationService,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		[]byte(app.cfg.AuthSecret),
		app.cfg.MaintenanceSecret,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.CommentService = app.commentService
	router.NotificationService = app.notificationService
	router.MembershipService = app.membershipService
	router.InvitationService = app.invitationService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
