package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

/**
 * Persisted updater configuration (serialized JSON)
 * @property {string} app_name - Name of the managed application
 * @property {string} current_version - Locally installed version; the only
 * field the pipeline mutates, exactly once after a successful install
 * @property {string} update_url - Remote manifest URL
 * @property {string} website_url - Project website URL
 */
type UpdaterConfig struct {
	AppName        string `json:"app_name"`
	CurrentVersion string `json:"current_version"`
	UpdateURL      string `json:"update_url"`
	WebsiteURL     string `json:"website_url"`
}

func defaultUpdaterConfig() *UpdaterConfig {
	return &UpdaterConfig{
		AppName:        "YourApp",
		CurrentVersion: "1.0.0",
		UpdateURL:      "https://yourusername.github.io/app-updates/latest.json",
		WebsiteURL:     "https://yourusername.github.io/app-updates/",
	}
}

/**
 * Load persisted updater configuration
 * @param {string} path - Config file path
 * @returns {*UpdaterConfig} Loaded configuration
 * @returns {error} Error if the file exists but cannot be read or parsed
 * @description
 * - Creates the file with default values on first run
 */
func LoadUpdaterConfig(path string) (*UpdaterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read updater config '%s': %w", path, err)
		}
		cfg := defaultUpdaterConfig()
		if err := SaveUpdaterConfig(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	cfg := &UpdaterConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse updater config '%s': %w", path, err)
	}
	return cfg, nil
}

/**
 * Save persisted updater configuration
 * @param {string} path - Config file path
 * @param {*UpdaterConfig} cfg - Configuration to write
 * @returns {error} Error if the directory or file cannot be written
 */
func SaveUpdaterConfig(path string, cfg *UpdaterConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory for '%s': %w", path, err)
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write updater config '%s': %w", path, err)
	}
	return nil
}
