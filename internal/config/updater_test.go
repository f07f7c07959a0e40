package config

import (
	"os"
	"path/filepath"
	"testing"
)

/**
 * Test that a missing config file is created with defaults on first run
 */
func TestLoadUpdaterConfigFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updater_config.json")

	cfg, err := LoadUpdaterConfig(path)
	if err != nil {
		t.Fatalf("LoadUpdaterConfig failed: %v", err)
	}
	if cfg.CurrentVersion != "1.0.0" {
		t.Errorf("default current_version = %q, want 1.0.0", cfg.CurrentVersion)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file was not created: %v", err)
	}
}

/**
 * Test that persisting then reloading yields the identical current_version
 */
func TestUpdaterConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updater_config.json")

	cfg := &UpdaterConfig{
		AppName:        "DemoApp",
		CurrentVersion: "2.3.4",
		UpdateURL:      "https://example.com/latest.json",
		WebsiteURL:     "https://example.com/",
	}
	if err := SaveUpdaterConfig(path, cfg); err != nil {
		t.Fatalf("SaveUpdaterConfig failed: %v", err)
	}

	loaded, err := LoadUpdaterConfig(path)
	if err != nil {
		t.Fatalf("LoadUpdaterConfig failed: %v", err)
	}
	if loaded.CurrentVersion != cfg.CurrentVersion {
		t.Errorf("current_version = %q, want %q", loaded.CurrentVersion, cfg.CurrentVersion)
	}
	if *loaded != *cfg {
		t.Errorf("loaded config %+v differs from saved %+v", loaded, cfg)
	}
}

func TestLoadUpdaterConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updater_config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadUpdaterConfig(path); err == nil {
		t.Error("LoadUpdaterConfig accepted malformed JSON")
	}
}
