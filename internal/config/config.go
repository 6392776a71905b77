// Package config loads process-wide configuration: defaults, then an
// optional YAML file, then environment variables, each layer overriding
// the previous. Read once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized at startup.
const (
	EnvLogLevel        = "IDS_LOG_LEVEL"
	EnvMaskErrors      = "IDS_MASK_ERRORS"
	EnvSessionTimeout  = "IDS_SESSION_TIMEOUT"
	EnvCleanupInterval = "IDS_CLEANUP_INTERVAL"
	EnvAuditEnabled    = "IDS_AUDIT_TOOL_ENABLED"
	EnvAuditPath       = "IDS_AUDIT_TOOL_PATH"
	EnvConfigFile      = "IDS_CONFIG_FILE"
)

// Server holds the MCP server settings.
type Server struct {
	Name string `yaml:"name"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// MaskErrors hides internal error detail from tool callers.
	MaskErrors bool `yaml:"mask_errors"`
}

// Session holds the session lifecycle settings, in seconds.
type Session struct {
	TimeoutSeconds         int `yaml:"timeout_seconds"`
	CleanupIntervalSeconds int `yaml:"cleanup_interval_seconds"`
}

// Timeout returns the idle timeout as a duration.
func (s Session) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// CleanupInterval returns the sweep interval as a duration.
func (s Session) CleanupInterval() time.Duration {
	return time.Duration(s.CleanupIntervalSeconds) * time.Second
}

// Audit holds the external audit-tool settings.
type Audit struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the root configuration.
type Config struct {
	Server  Server  `yaml:"server"`
	Session Session `yaml:"session"`
	Audit   Audit   `yaml:"audit_tool"`
}

// Default returns the built-in configuration: 24h session timeout,
// hourly sweeps, audit enabled with auto-detection.
func Default() Config {
	return Config{
		Server: Server{
			Name:     "IDS MCP Server",
			LogLevel: "info",
		},
		Session: Session{
			TimeoutSeconds:         86400,
			CleanupIntervalSeconds: 3600,
		},
		Audit: Audit{
			Enabled: true,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file
// named by IDS_CONFIG_FILE, and the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Server.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvMaskErrors); v != "" {
		cfg.Server.MaskErrors = parseBool(v, cfg.Server.MaskErrors)
	}
	if v := os.Getenv(EnvSessionTimeout); v != "" {
		cfg.Session.TimeoutSeconds = parseInt(v, cfg.Session.TimeoutSeconds)
	}
	if v := os.Getenv(EnvCleanupInterval); v != "" {
		cfg.Session.CleanupIntervalSeconds = parseInt(v, cfg.Session.CleanupIntervalSeconds)
	}
	if v := os.Getenv(EnvAuditEnabled); v != "" {
		cfg.Audit.Enabled = parseBool(v, cfg.Audit.Enabled)
	}
	if v := os.Getenv(EnvAuditPath); v != "" {
		cfg.Audit.Path = v
	}

	return cfg, nil
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return fallback
	}
	return b
}

func parseInt(v string, fallback int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
