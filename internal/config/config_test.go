package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestAmbientConfigMissingUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, warning := loadAmbientConfig()
	if warning != "" {
		t.Errorf("missing config.yaml produced a warning: %q", warning)
	}
	if cfg.Server.Address != "127.0.0.1:8999" {
		t.Errorf("default address = %q, want 127.0.0.1:8999", cfg.Server.Address)
	}
	if cfg.Check.StartupDelayMS != 1500 {
		t.Errorf("default startup delay = %d, want 1500", cfg.Check.StartupDelayMS)
	}
}

func TestAmbientConfigMalformedIsReported(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: ["), 0644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, warning := loadAmbientConfig()
	if warning == "" {
		t.Error("malformed config.yaml was swallowed silently")
	}
	// defaults still apply, the process stays usable
	if cfg.Server.Address != "127.0.0.1:8999" {
		t.Errorf("address = %q, want default 127.0.0.1:8999", cfg.Server.Address)
	}
}
