package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vk/runbookgo/internal/config"
	"github.com/vk/runbookgo/internal/ctxlog"
	"github.com/vk/runbookgo/internal/hclconfig"
	"github.com/vk/runbookgo/internal/registry"
	"github.com/vk/runbookgo/internal/yamlconfig"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	entity   *config.Entity
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// logW receives log output only.
func NewApp(logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	entity, err := loadEntity(ctx, cfg)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Owner entity loaded.", "entity", entity.Name, "default_target", entity.DefaultTarget.String())

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	entity.RegisterValues(reg)
	logger.Debug("All Go modules registered.", "count", len(modules), "values", len(entity.Values))

	return &App{
		logger:   logger,
		config:   cfg,
		registry: reg,
		entity:   entity,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Entity returns the owner entity actions are compiled for.
func (a *App) Entity() *config.Entity {
	return a.entity
}

// loaderFor picks the config loader by file extension.
func loaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hclconfig.NewLoader(), nil
	case ".yaml", ".yml":
		return yamlconfig.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported entity config %s: expected .hcl, .yaml or .yml", path)
	}
}

func loadEntity(ctx context.Context, cfg *Config) (*config.Entity, error) {
	if cfg.EntityConfig == "" {
		if cfg.Entity != "" && cfg.Entity != config.DefaultEntityName {
			return nil, fmt.Errorf("entity '%s' requested but no entity config given", cfg.Entity)
		}
		return config.DefaultEntity(), nil
	}

	loader, err := loaderFor(cfg.EntityConfig)
	if err != nil {
		return nil, err
	}
	model, err := loader.Load(ctx, cfg.EntityConfig)
	if err != nil {
		return nil, err
	}
	return model.Entity(cfg.Entity)
}
