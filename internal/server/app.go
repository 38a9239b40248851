// Package server initializes and runs the visitor management server.
// It opens the database, runs migrations, bootstraps the admin account,
// starts the retention sweeper and serves the HTTP gateway until a
// shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/config"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/db"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/events"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/http"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	cleanup func()

	manager db.RepositoryManager
	rdb     *redis.Client

	residentService *services.ResidentService
	requestService  *services.RequestService
	sweeper         *services.RetentionSweeper
	router          *http.Router
}

func NewApp(cfg *config.Config) (*App, error) {
	logger, cleanup, err := logging.NewProductionZapLogger()
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	manager, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	publisher := events.NewPublisher(rdb, logger)

	flatService := services.NewFlatService(manager.Flats())
	residentService := services.NewResidentService(
		manager.Conn(), manager.Residents(), manager.RefreshTokens(), manager.Admins(), flatService, cfg)
	requestService := services.NewRequestService(
		manager.Requests(), manager.Residents(), flatService, publisher)
	photoService := services.NewPhotoService(cfg)
	reportService := services.NewReportService(requestService, flatService)
	sweeper := services.NewRetentionSweeper(manager.Requests(), logger, cfg.RetentionSweepInterval)

	router := http.NewRouter(flatService, residentService, requestService, photoService, reportService, logger)

	return &App{
		config:          cfg,
		logger:          logger,
		cleanup:         cleanup,
		manager:         manager,
		rdb:             rdb,
		residentService: residentService,
		requestService:  requestService,
		sweeper:         sweeper,
		router:          router,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &nethttp.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.router.Engine(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		app.logger.Error(ctx, "http server error", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server")
	app.initSignalHandler(cancelFunc)

	if err := app.manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	if err := app.residentService.EnsureAdmin(ctx, app.config.AdminUsername, app.config.AdminPassword); err != nil {
		return fmt.Errorf("admin bootstrap error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sweeper.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.rdb.Close(); err != nil {
		app.logger.Warn(ctx, "redis close error", "error", err)
	}
	if err := app.manager.Close(); err != nil {
		app.logger.Warn(ctx, "db close error", "error", err)
	}
	app.cleanup()

	return nil
}
