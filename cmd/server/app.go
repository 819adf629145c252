package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/promptlab/internal/collector"
	"github.com/phrazzld/promptlab/internal/config"
	"github.com/phrazzld/promptlab/internal/generation"
)

// application holds all the shared application dependencies. Everything here
// is created once at startup and lives until the process exits.
type application struct {
	config *config.Config
	logger *slog.Logger

	gateway   *generation.Gateway
	collector *collector.Collector
}

// newApplication wires the gateway and collector around generator.
func newApplication(cfg *config.Config, logger *slog.Logger, generator generation.Generator) (*application, error) {
	gateway, err := generation.NewGateway(generator, logger.With("component", "generation_gateway"))
	if err != nil {
		return nil, fmt.Errorf("failed to create generation gateway: %w", err)
	}

	app := &application{
		config:    cfg,
		logger:    logger,
		gateway:   gateway,
		collector: collector.New(collector.DefaultDefaults()),
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
