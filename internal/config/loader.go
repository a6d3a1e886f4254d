package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/applierctl"
	projectConfigDir = ".applierctl"
	configFileName   = "config.yaml"
)

// ErrMissingServerURL is returned by Validate when no server URL is configured.
var ErrMissingServerURL = errors.New("server url is required")

// LoadConfig loads the applierctl configuration by layering default, user, and project settings.
func LoadConfig() (ApplierctlConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// user config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
		userConfig, err := loadConfigFromFile(userConfigPath)
		if err != nil {
			return ApplierctlConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
		config = mergeConfigs(config, userConfig)
	}

	// 3. Project-specific configuration
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
		projectConfig, err := loadConfigFromFile(projectConfigPath)
		if err != nil {
			return ApplierctlConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
		config = mergeConfigs(config, projectConfig)
	}

	return config, nil
}

// LoadConfigFromPath merges a single file onto the defaults, skipping the
// user and project layers.
func LoadConfigFromPath(path string) (ApplierctlConfig, error) {
	fileConfig, err := loadConfigFromFile(path)
	if err != nil {
		return ApplierctlConfig{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return mergeConfigs(GetDefaultConfig(), fileConfig), nil
}

var getUserConfigPath = func() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads an ApplierctlConfig from a YAML file.
func loadConfigFromFile(filePath string) (ApplierctlConfig, error) {
	var config ApplierctlConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return ApplierctlConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return ApplierctlConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay ApplierctlConfig) ApplierctlConfig {
	merged := base

	if overlay.Server.URL != "" {
		merged.Server.URL = overlay.Server.URL
	}
	if overlay.Server.Timeout != 0 {
		merged.Server.Timeout = overlay.Server.Timeout
	}

	if overlay.Dashboard.PollInterval != 0 {
		merged.Dashboard.PollInterval = overlay.Dashboard.PollInterval
	}
	if overlay.Dashboard.RefreshDelay != 0 {
		merged.Dashboard.RefreshDelay = overlay.Dashboard.RefreshDelay
	}
	if overlay.Dashboard.AlertDismissDelay != 0 {
		merged.Dashboard.AlertDismissDelay = overlay.Dashboard.AlertDismissDelay
	}
	if overlay.Dashboard.RawMarkup {
		merged.Dashboard.RawMarkup = true
	}
	if overlay.Dashboard.ReenableOnFailure {
		merged.Dashboard.ReenableOnFailure = true
	}

	return merged
}

// Validate checks the merged configuration for values the client cannot work with.
func (c ApplierctlConfig) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return ErrMissingServerURL
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server timeout must not be negative, got %s", c.Server.Timeout)
	}
	if c.Dashboard.PollInterval <= 0 {
		return fmt.Errorf("dashboard poll interval must be positive, got %s", c.Dashboard.PollInterval)
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
