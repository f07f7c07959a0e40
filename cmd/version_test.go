package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"update-keeper/internal/config"
)

func TestPrintVersionsIncludesManagedApp(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "updater_config.json")
	err := config.SaveUpdaterConfig(cfgPath, &config.UpdaterConfig{
		AppName:        "DemoApp",
		CurrentVersion: "2.3.4",
		UpdateURL:      "https://example.com/latest.json",
	})
	if err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t, func() { PrintVersions(cfgPath) })
	if !strings.Contains(out, "DemoApp v2.3.4") {
		t.Errorf("output %q does not mention the managed application version", out)
	}
	if !strings.Contains(out, "update-keeper") {
		t.Errorf("output %q does not mention the updater build", out)
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}
