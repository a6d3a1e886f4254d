package config

import (
	"time"
)

// ApplierctlConfig is the top-level configuration structure for applierctl.
type ApplierctlConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// ServerConfig describes how to reach the terraform-applier web server.
type ServerConfig struct {
	URL     string        `yaml:"url,omitempty"`     // Base URL of the applier, e.g. "http://localhost:8080"
	Timeout time.Duration `yaml:"timeout,omitempty"` // Per request timeout
}

// DashboardConfig holds the timings and behaviour switches of the dashboard.
type DashboardConfig struct {
	PollInterval      time.Duration `yaml:"pollInterval,omitempty"`      // Re-poll delay while a module is Running
	RefreshDelay      time.Duration `yaml:"refreshDelay,omitempty"`      // Detail refresh delay after a successful force run
	AlertDismissDelay time.Duration `yaml:"alertDismissDelay,omitempty"` // Auto-dismissal delay for alert banners

	// RawMarkup inserts server messages without sanitising them.
	RawMarkup bool `yaml:"rawMarkup,omitempty"`
	// ReenableOnFailure re-arms the run controls after a failed force run.
	ReenableOnFailure bool `yaml:"reenableOnFailure,omitempty"`
}
