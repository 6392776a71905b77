package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.Name != "IDS MCP Server" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.Server.LogLevel)
	}
	if cfg.Session.Timeout() != 24*time.Hour {
		t.Errorf("timeout = %s", cfg.Session.Timeout())
	}
	if cfg.Session.CleanupInterval() != time.Hour {
		t.Errorf("cleanup interval = %s", cfg.Session.CleanupInterval())
	}
	if !cfg.Audit.Enabled {
		t.Error("audit should default to enabled")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvMaskErrors, "true")
	t.Setenv(EnvSessionTimeout, "120")
	t.Setenv(EnvCleanupInterval, "30")
	t.Setenv(EnvAuditEnabled, "false")
	t.Setenv(EnvAuditPath, "/opt/ids-tool")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.Server.LogLevel)
	}
	if !cfg.Server.MaskErrors {
		t.Error("mask errors should be on")
	}
	if cfg.Session.Timeout() != 2*time.Minute {
		t.Errorf("timeout = %s", cfg.Session.Timeout())
	}
	if cfg.Session.CleanupInterval() != 30*time.Second {
		t.Errorf("cleanup interval = %s", cfg.Session.CleanupInterval())
	}
	if cfg.Audit.Enabled {
		t.Error("audit should be off")
	}
	if cfg.Audit.Path != "/opt/ids-tool" {
		t.Errorf("audit path = %q", cfg.Audit.Path)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  name: custom-ids
  log_level: warn
session:
  timeout_seconds: 600
audit_tool:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, path)
	// Env wins over the file.
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Name != "custom-ids" {
		t.Errorf("name = %q", cfg.Server.Name)
	}
	if cfg.Server.LogLevel != "error" {
		t.Errorf("log level = %q, want env to win", cfg.Server.LogLevel)
	}
	if cfg.Session.TimeoutSeconds != 600 {
		t.Errorf("timeout seconds = %d", cfg.Session.TimeoutSeconds)
	}
	if cfg.Audit.Enabled {
		t.Error("audit should be disabled by file")
	}
	// Untouched keys keep their defaults.
	if cfg.Session.CleanupIntervalSeconds != 3600 {
		t.Errorf("cleanup seconds = %d", cfg.Session.CleanupIntervalSeconds)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestParseHelpers(t *testing.T) {
	if parseBool("yes", true) != true {
		t.Error("unparseable bool should keep fallback")
	}
	if parseBool("0", true) != false {
		t.Error("0 should parse as false")
	}
	if parseInt("abc", 7) != 7 {
		t.Error("unparseable int should keep fallback")
	}
}
