package app

import (
	"fmt"

	"applierctl/internal/api"
	"applierctl/pkg/logging"
)

// Services holds what the application modes share.
type Services struct {
	Client *api.Client
}

// InitializeServices creates the applier client for the configured server.
func InitializeServices(cfg *Config) (*Services, error) {
	if cfg.ApplierctlConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	server := cfg.ApplierctlConfig.Server

	client, err := api.NewClient(server.URL, server.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create applier client: %w", err)
	}
	logging.Debug("Bootstrap", "Using applier at %s (timeout %s)", client.BaseURL(), server.Timeout)

	return &Services{Client: client}, nil
}
