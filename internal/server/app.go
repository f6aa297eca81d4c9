// Package server initializes and runs the application server: config
// validation, database and cipher setup, and the HTTP endpoint with
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/panvault/internal/cryptox"
	"github.com/dmitrijs2005/panvault/internal/logging"
	"github.com/dmitrijs2005/panvault/internal/server/config"
	"github.com/dmitrijs2005/panvault/internal/server/httpapi"
	"github.com/dmitrijs2005/panvault/internal/server/services"
	"github.com/dmitrijs2005/panvault/internal/server/shared/db"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	manager        db.Manager
	accountService *services.AccountService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Missing required configuration fails here, before any request.
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cipher, err := cryptox.NewFieldCipher(cfg.PANSecret)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}
	if cipher.RandomKey {
		logger.Warn(ctx, "PAN encryption secret is not configured; using a process-local random key, "+
			"previously stored PANs are unreadable and new ones will not survive a restart")
	}

	manager := db.NewPostgresManager(cfg.DatabaseDSN)
	if err := manager.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	as := services.NewAccountService(manager, cipher, cfg, logger)

	return &App{config: cfg, logger: logger, manager: manager, accountService: as}, nil
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
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.accountService, app.config.JWTSecret)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err.Error())
	}
}
