package bootstrap

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"jobapp-generator/internal/applications"
	"jobapp-generator/internal/extract"
	"jobapp-generator/internal/llm"
	"jobapp-generator/internal/llm/ollama"
	"jobapp-generator/internal/services/health"
	"jobapp-generator/internal/shared/config"
	"jobapp-generator/internal/shared/server"
	"jobapp-generator/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config              config.Config
	Router              *gin.Engine
	Resume              *extract.Extractor
	LLM                 llm.Client
	ApplicationsService *applications.Service
	ApplicationsHandler *applications.Handler
	Health              *health.Service
}

// Option overrides a dependency before the router is wired.
type Option func(*App)

// WithLLM replaces the inference client, mainly for tests.
func WithLLM(client llm.Client) Option {
	return func(a *App) { a.LLM = client }
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ResumePath) == "" {
		return nil, errors.New("RESUME_PATH is required")
	}

	app := &App{
		Config: cfg,
		Resume: extract.New(cfg.ResumePath),
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.LLM == nil {
		client, err := ollama.NewClient(ollama.Config{
			Host:  cfg.LLM.Host,
			Model: cfg.LLM.Model,
			Options: llm.Options{
				Temperature: cfg.LLM.Temperature,
				TopP:        cfg.LLM.TopP,
				NumCtx:      cfg.LLM.NumCtx,
			},
			Timeout: cfg.LLM.Timeout,
		})
		if err != nil {
			return nil, err
		}
		app.LLM = client
	}

	if err := app.Resume.Check(); err != nil {
		telemetry.Warn("bootstrap.resume_missing", map[string]any{
			"path":  cfg.ResumePath,
			"error": err.Error(),
		})
	}

	app.ApplicationsService = applications.NewService(app.Resume, app.LLM, cfg.CandidateName)
	app.ApplicationsHandler = applications.NewHandler(app.ApplicationsService, applications.HandlerConfig{
		Model:        cfg.LLM.Model,
		ResumePath:   cfg.ResumePath,
		DownloadName: cfg.DownloadName,
	})
	app.Health = health.NewService(app.Resume)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              app.Config,
		ApplicationsHandler: app.ApplicationsHandler,
		Health:              app.Health,
	})

	return app, nil
}
