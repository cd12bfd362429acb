package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goab/app"
	"goab/internal"
	"goab/ports"
)

// App serves the experiment analysis HTTP surface
type App struct {
	router  *chi.Mux
	service *app.ExperimentService
	repo    ports.ExperimentRepository // nil disables the read endpoints
	logger  *internal.Logger
}

// NewApp creates the HTTP application
func NewApp(service *app.ExperimentService, repo ports.ExperimentRepository, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		repo:    repo,
		logger:  logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router returns the configured handler for serving
func (a *App) Router() http.Handler {
	return a.router
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Post("/api/experiments/analyze", a.handleAnalyze)
	a.router.Post("/api/experiments/plan", a.handlePlan)
	a.router.Get("/api/experiments", a.handleListExperiments)
	a.router.Get("/api/experiments/{id}", a.handleGetExperiment)
	a.router.Get("/experiments/{id}/report", a.handleReport)
}
