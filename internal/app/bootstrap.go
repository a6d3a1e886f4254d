package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"applierctl/internal/config"
	"applierctl/pkg/logging"
)

// Application is the main application structure that bootstraps and runs applierctl
type Application struct {
	config   *Config
	services *Services
}

// NewApplication creates and initializes a new application instance
func NewApplication(cfg *Config) (*Application, error) {
	// Configure logging based on debug flag
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	// Initialize logging for CLI output (will be replaced for TUI mode).
	// Stdout is left to command output.
	logging.InitForCLI(appLogLevel, os.Stderr)

	var applierCfg config.ApplierctlConfig
	var err error

	if cfg.ConfigPath != "" {
		applierCfg, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Debug("Bootstrap", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		applierCfg, err = config.LoadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		logging.Debug("Bootstrap", "Loaded configuration using layered approach")
	}

	if url := strings.TrimSpace(cfg.ServerURL); url != "" {
		applierCfg.Server.URL = url
	}
	if err := applierCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.ApplierctlConfig = &applierCfg

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Config returns the application configuration with the merged file
// configuration filled in.
func (a *Application) Config() *Config {
	return a.config
}

// Run executes the dashboard in the appropriate mode
func (a *Application) Run(ctx context.Context) error {
	if a.config.NoTUI {
		return a.runCLIMode(ctx)
	}
	return a.runTUIMode(ctx)
}

// runCLIMode runs the dashboard headless, logging instead of drawing
func (a *Application) runCLIMode(ctx context.Context) error {
	return runCLIMode(ctx, a.config, a.services)
}

// runTUIMode runs the application in interactive TUI mode
func (a *Application) runTUIMode(ctx context.Context) error {
	return runTUIMode(ctx, a.config, a.services)
}

// ForceRun requests a run of one module against the configured applier.
func (a *Application) ForceRun(ctx context.Context, opts RunOptions) (RunOutcome, error) {
	return ForceRun(ctx, a.services.Client, a.config.DashboardOptions(), opts)
}

// Follow loads a module's detail against the configured applier.
func (a *Application) Follow(ctx context.Context, opts FollowOptions) (Report, error) {
	return Follow(ctx, a.services.Client, a.config.DashboardOptions(), opts)
}
