package config

import "time"

const (
	DefaultServerURL    = "http://localhost:8080"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 10 * time.Second
	DefaultRefreshDelay = 10 * time.Second
	DefaultAlertDismiss = 10 * time.Second
)

// GetDefaultConfig returns the built-in configuration every other layer is
// merged onto.
func GetDefaultConfig() ApplierctlConfig {
	return ApplierctlConfig{
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: DefaultTimeout,
		},
		Dashboard: DashboardConfig{
			PollInterval:      DefaultPollInterval,
			RefreshDelay:      DefaultRefreshDelay,
			AlertDismissDelay: DefaultAlertDismiss,
		},
	}
}
