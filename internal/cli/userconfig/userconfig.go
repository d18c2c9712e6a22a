// Package userconfig persists the CLI's local settings. The only setting so
// far is which API server to talk to.
package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "povertyline"
	configFileName = "config.json"

	// DefaultServerURL is used until the user points the CLI somewhere else
	// with 'povertyline server set'.
	DefaultServerURL = "http://localhost:5000"
)

// UserConfig represents the user's local configuration stored in ~/.config/povertyline/config.json
type UserConfig struct {
	ServerURL string `json:"server_url"`
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", configDirName, configFileName), nil
}

// Load reads the user configuration. A missing file is not an error: it
// yields a zero config, the state of a fresh install.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the user configuration to disk, creating the config directory
// on first use.
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	return nil
}

// SetServerURL updates the API server URL and saves the config
func SetServerURL(serverURL string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	cfg.ServerURL = serverURL
	return Save(cfg)
}

// GetServerURL returns the configured API server URL. The POVERTYLINE_SERVER
// environment variable overrides the config file (useful for CI/CD), and the
// default covers a locally running server.
func GetServerURL() (string, error) {
	if url := os.Getenv("POVERTYLINE_SERVER"); url != "" {
		return url, nil
	}

	cfg, err := Load()
	if err != nil {
		return "", err
	}

	if cfg.ServerURL != "" {
		return cfg.ServerURL, nil
	}
	return DefaultServerURL, nil
}
