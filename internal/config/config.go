package config

import (
	"fmt"

	"github.com/spf13/viper"

	"update-keeper/internal/env"
)

/**
 * Server configuration parameters
 * @property {string} address - Server listening address (e.g. "127.0.0.1:8999")
 * @property {string} mode - Gin mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, "console" or empty for stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Update check scheduling configuration
 * @property {int} startup_delay_ms - Delay before the automatic startup check
 * @property {int} interval_minutes - Periodic re-check interval, 0 disables it
 */
type CheckConfig struct {
	StartupDelayMS  int `mapstructure:"startup_delay_ms"`
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

type AppConfig struct {
	Server     ServerConfig `mapstructure:"server"`
	Log        LogConfig    `mapstructure:"log"`
	Check      CheckConfig  `mapstructure:"check"`
	InstallDir string       `mapstructure:"install_dir"`
}

/**
 * Load ambient application configuration from YAML file
 * @description
 * - Searches the working directory and the keeper data directory
 * - Missing file is not an error; defaults are filled in by collectConfig
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(env.KeeperDir)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

// LoadWarning carries a config load failure observed before the logging
// system is up; main logs it once after logger initialization. A missing
// config file is not a failure, defaults apply silently.
var LoadWarning string

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = "127.0.0.1:8999"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Check.StartupDelayMS == 0 {
		cfg.Check.StartupDelayMS = 1500
	}
	return cfg
}

func loadAmbientConfig() (AppConfig, string) {
	var cfg AppConfig
	warning := ""
	loaded, err := LoadConfig()
	switch {
	case err == nil:
		cfg = *loaded
	default:
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			warning = fmt.Sprintf("config.yaml ignored, using defaults: %v", err)
		}
	}
	collectConfig(&cfg)
	return cfg, warning
}

func init() {
	Config, LoadWarning = loadAmbientConfig()
}
