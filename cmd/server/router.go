package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/promptlab/internal/api"
	apiMiddleware "github.com/phrazzld/promptlab/internal/api/middleware"
	"github.com/rs/cors"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	generateHandler := api.NewGenerateHandler(app.gateway, app.collector)
	pageHandler, err := api.NewPageHandler(app.gateway, app.collector)
	if err != nil {
		return nil, err
	}

	// Control panel
	r.Get("/", pageHandler.Show)
	r.Post("/", pageHandler.Submit)

	// JSON API, callable from other renderers
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: app.config.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"X-Trace-ID"},
		}).Handler)

		r.Post("/generate", generateHandler.Generate)
		r.Get("/defaults", generateHandler.Defaults)
		r.Get("/cache/stats", generateHandler.Stats)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r, nil
}
