package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"applierctl/internal/dashboard"
	"applierctl/internal/tui/controller"
	"applierctl/internal/tui/design"
	"applierctl/internal/tui/model"
	"applierctl/pkg/logging"
)

// runCLIMode executes the non-interactive dashboard: it lists the modules the
// hash selects and, when it names a module, follows that module until
// interrupted.
func runCLIMode(ctx context.Context, config *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info("CLI", "Running in no-TUI mode against %s", services.Client.BaseURL())

	modules, err := ListModules(ctx, services.Client, config.Hash)
	if err != nil {
		logging.Error("CLI", err, "Failed to load status page")
		return err
	}
	for _, m := range modules {
		logging.Info("CLI", "%s: %s", m.Selector, m.State)
	}

	if !dashboard.ParseSelector(config.Hash).HasModule() {
		return nil
	}

	logging.Info("CLI", "Following %s. Press Ctrl+C to stop.", config.Hash)
	_, err = Follow(ctx, services.Client, config.DashboardOptions(), FollowOptions{
		Hash:     config.Hash,
		OnReport: logStateChanges(),
	})
	if err != nil {
		logging.Error("CLI", err, "Stopped following %s", config.Hash)
		return err
	}
	logging.Info("CLI", "--- Stopped following ---")
	return nil
}

// logStateChanges returns a report callback that logs a line whenever the
// module state differs from the previous load.
func logStateChanges() func(Report) {
	var last string
	return func(r Report) {
		if r.Err != nil {
			logging.Error("CLI", r.Err, "Failed to load %s", r.Selector)
			return
		}
		if r.State == last {
			logging.Debug("CLI", "%s still %s", r.Selector, r.State)
			return
		}
		last = r.State
		logging.Info("CLI", "%s is %s", r.Selector, r.State)
	}
}

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, config *Config, services *Services) error {
	logging.Info("CLI", "Starting TUI mode...")

	// Initialize design system for TUI (dark mode by default)
	design.Initialize(true)

	// Switch logging to channel-based system for TUI integration
	logLevel := logging.LevelInfo
	if config.Debug {
		logLevel = logging.LevelDebug
	}
	logChan := logging.InitForTUI(logLevel)
	defer logging.CloseTUIChannel()

	p, err := controller.NewProgram(model.TUIConfig{
		Context:    ctx,
		Client:     services.Client,
		ServerURL:  services.Client.BaseURL(),
		Hash:       config.Hash,
		DebugMode:  config.Debug,
		Dashboard:  config.DashboardOptions(),
		LogChannel: logChan,
	})
	if err != nil {
		logging.Error("TUI-Lifecycle", err, "Error creating TUI program")
		return err
	}

	// Run the TUI until user exits
	if _, err := p.Run(); err != nil {
		logging.InitForCLI(logLevel, os.Stderr)
		logging.Error("TUI-Lifecycle", err, "Error running TUI program")
		return err
	}
	return nil
}
