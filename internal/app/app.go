// Package app wires the gateway components together.
package app

import (
	"fmt"

	"github.com/bobmcallan/opsgate/internal/api"
	"github.com/bobmcallan/opsgate/internal/common"
	"github.com/bobmcallan/opsgate/internal/config"
	"github.com/bobmcallan/opsgate/internal/mcp"
	"github.com/bobmcallan/opsgate/internal/registry"
	"github.com/bobmcallan/opsgate/internal/tools"
)

// App holds all application components and dependencies. The registry is
// populated here, before any transport starts listening, and is treated as
// read-only afterwards.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Registry *registry.Registry
	OpenAPI  *api.Generator
	Router   *api.Router
	Gateway  *mcp.Gateway
}

// New initializes the application with all dependencies. extra contains
// collaborator-supplied tool definitions registered alongside the
// built-ins; a registration failure (duplicate name, bad schema) aborts
// wiring rather than silently skipping a tool.
func New(cfg *config.Config, logger *common.Logger, extra ...*registry.Definition) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry.New(),
	}

	defs := append([]*registry.Definition{tools.Version()}, extra...)
	for _, def := range defs {
		if err := a.Registry.Register(def); err != nil {
			return nil, fmt.Errorf("tool registration failed: %w", err)
		}
	}

	a.OpenAPI = api.NewGenerator(a.Registry, api.DocConfig{
		Title:       cfg.OpenAPI.Title,
		Description: cfg.OpenAPI.Description,
		Version:     config.GetVersion(),
		ServerURL:   cfg.OpenAPI.ServerURL,
	})
	a.Router = api.NewRouter(a.Registry, a.OpenAPI, logger, a)

	prompts, err := mcp.LoadPromptCatalog(cfg.Prompts.Path, logger)
	if err != nil {
		return nil, err
	}

	a.Gateway, err = mcp.NewGateway(cfg, a.Registry, prompts, logger, a)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("tools", a.Registry.Count()).
		Int("prompts", a.Gateway.PromptCount()).
		Msg("application initialization complete")

	return a, nil
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
