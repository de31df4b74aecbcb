package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const ExitCodeMainError = 1

const shutdownTimeout = 5 * time.Second

type App struct {
	container ServiceContainer
	server    *http.Server
	listener  net.Listener
	logger    *slog.Logger
}

// NewApp builds the services and binds the listen address. Nothing is served
// until Run.
func NewApp(config *Config, logger *slog.Logger) (*App, error) {
	gin.SetMode(config.Server.Mode)

	serviceContainer, err := BuildServiceContainer(config, logger)
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", config.Server.Listen)
	if err != nil {
		_ = serviceContainer.Database.Close()
		return nil, fmt.Errorf("listen %s: %w", config.Server.Listen, err)
	}

	return &App{
		container: serviceContainer,
		server: &http.Server{
			Handler:           serviceContainer.Router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		listener: listener,
		logger:   logger,
	}, nil
}

func (app *App) Addr() string {
	return app.listener.Addr().String()
}

// Run serves until ctx is done, then shuts the server down and releases the
// webhook workers and the database.
func (app *App) Run(ctx context.Context) error {
	app.container.WebhookDispatcher.Start()
	defer app.container.Database.Close()
	defer app.container.WebhookDispatcher.Close()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.server.Serve(app.listener)
	}()
	app.logger.Info("server started", "addr", app.Addr())

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func RunApp(ctx context.Context, config *Config, logger *slog.Logger) error {
	app, err := NewApp(config, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func HandleExitError(errStream io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintln(errStream, err)
	}

	if err != nil {
		return ExitCodeMainError
	}

	return 0
}
