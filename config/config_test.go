package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xpr.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != ":memory:" {
		t.Errorf("database defaults: %+v", cfg.Database)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("output format default: %q", cfg.Output.Format)
	}
	if cfg.Output.Compress != "none" {
		t.Errorf("compress default: %q", cfg.Output.Compress)
	}
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: "host=localhost dbname=test"
output:
  format: json
  locale: fr-FR
logging:
  trace: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Output.Format != "json" || cfg.Output.Locale != "fr-FR" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if !cfg.Logging.Trace {
		t.Error("trace not set")
	}
	// Untouched sections keep their defaults.
	if cfg.Output.Compress != "none" {
		t.Errorf("compress = %q", cfg.Output.Compress)
	}
}

func TestLoadEnvInterpolation(t *testing.T) {
	t.Setenv("XPR_TEST_DSN", "file.db")
	path := writeConfig(t, `
database:
  dsn: ${XPR_TEST_DSN}
output:
  locale: ${XPR_TEST_MISSING:-en-US}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.DSN != "file.db" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
	if cfg.Output.Locale != "en-US" {
		t.Errorf("locale default not applied: %q", cfg.Output.Locale)
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	path := writeConfig(t, "output:\n  format: xml\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestLoadRejectsBadDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: oracle\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := writeConfig(t, "output: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
