// Package main implements the entry point for the promptlab server, which
// lets an operator adjust a persona and a temperature and ask the Gemini API
// a question through a web control panel or a JSON API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/phrazzld/promptlab/internal/config"
	"github.com/phrazzld/promptlab/internal/platform/gemini"
	"github.com/phrazzld/promptlab/internal/platform/logger"
	"github.com/phrazzld/promptlab/internal/redact"
)

// main is the entry point for the promptlab server.
// Any initialization failure stops the process before the listener opens.
func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, config.ErrMissingCredential) || errors.Is(err, config.ErrInvalidCredential) {
			fmt.Fprintf(os.Stderr,
				"Please set the %s environment variable before starting the server.\n",
				config.APIKeyEnvVar)
		}
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		app.logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration, sets up logging and builds the Gemini
// client. The configuration is validated before any client is constructed.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	redact.RegisterSecret(cfg.LLM.GeminiAPIKey)

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"model", cfg.LLM.ModelName)

	generator, err := gemini.NewGenerator(ctx, l.With("component", "llm_generator"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}

	return newApplication(cfg, l, generator)
}
