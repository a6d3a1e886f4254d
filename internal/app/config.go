package app

import (
	"applierctl/internal/config"
	"applierctl/internal/dashboard"
)

// Config holds the application configuration
type Config struct {
	// UI mode
	NoTUI bool

	// Debug settings
	Debug bool

	// ConfigPath replaces the layered configuration with a single file.
	ConfigPath string
	// ServerURL overrides server.url from the configuration files.
	ServerURL string
	// Hash is the dashboard selector to start with.
	Hash string

	// Merged configuration, set by NewApplication
	ApplierctlConfig *config.ApplierctlConfig
}

// NewConfig creates a new application configuration
func NewConfig(noTUI, debug bool) *Config {
	return &Config{
		NoTUI: noTUI,
		Debug: debug,
	}
}

// DashboardOptions maps the dashboard section onto the controller options.
func (c *Config) DashboardOptions() dashboard.Options {
	if c.ApplierctlConfig == nil {
		return dashboard.Options{}
	}
	d := c.ApplierctlConfig.Dashboard
	return dashboard.Options{
		PollInterval:      d.PollInterval,
		RefreshDelay:      d.RefreshDelay,
		AlertDismissDelay: d.AlertDismissDelay,
		RequestTimeout:    c.ApplierctlConfig.Server.Timeout,
		RawMarkup:         d.RawMarkup,
		ReenableOnFailure: d.ReenableOnFailure,
	}
}
