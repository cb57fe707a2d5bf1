package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
)

// Settings holds the two transclusion policy toggles. They are loaded once,
// persisted on change, and read-only during a resolution pass.
type Settings struct {
	// RenderAllTransclusions processes every embed marker, not just explicit
	// (double-bang) ones.
	RenderAllTransclusions bool `yaml:"render_all_transclusions"`
	// ShiftHeadings re-levels headings of embedded content so it nests under
	// the heading enclosing the insertion point.
	ShiftHeadings bool `yaml:"shift_headings"`
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	MetricsEnabled  bool   `yaml:"metrics_enabled"`
	MetricsPath     string `yaml:"metrics_path"`
	RefreshInterval string `yaml:"refresh_interval"` // periodic full cache refresh; empty or "0" disables
}

// CacheConfig configures the sqlite render cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // ":memory:" is accepted for tests
}

// EventsConfig configures optional NATS event publishing.
type EventsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Config is the root configuration for the transclude tool.
type Config struct {
	Vault    string       `yaml:"vault"`
	Settings Settings     `yaml:"settings"`
	Server   ServerConfig `yaml:"server"`
	Cache    CacheConfig  `yaml:"cache"`
	Events   EventsConfig `yaml:"events"`
}

// Default returns a configuration populated with defaults. Both policy
// toggles default to off.
func Default() *Config {
	return &Config{
		Vault: ".",
		Settings: Settings{
			RenderAllTransclusions: false,
			ShiftHeadings:          false,
		},
		Server: ServerConfig{
			Addr:            ":8093",
			MetricsEnabled:  false,
			MetricsPath:     "/metrics",
			RefreshInterval: "",
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    ".transclude/cache.db",
		},
		Events: EventsConfig{
			Enabled:       false,
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "transclude",
		},
	}
}

// Load reads configuration from path, merging over defaults. A missing file
// is not an error: defaults are returned so the tool works out of the box.
// Environment variables in the YAML content are expanded.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "read config file").
			WithContext("path", path).Build()
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "parse config file").
			WithContext("path", path).Build()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists the configuration to path atomically (temp file + rename).
func Save(path string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "serialize config").Build()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create config directory").
			WithContext("dir", dir).Build()
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create temp config file").Build()
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryFileSystem, "write config file").Build()
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryFileSystem, "close config file").Build()
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapError(err, errors.CategoryFileSystem, "replace config file").
			WithContext("path", path).Build()
	}
	return nil
}

// Validate checks structural validity of the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vault) == "" {
		return errors.ValidationError("vault directory must not be empty").Build()
	}
	if c.Server.MetricsEnabled && !strings.HasPrefix(c.Server.MetricsPath, "/") {
		return errors.ValidationError("metrics path must start with /").
			WithContext("metrics_path", c.Server.MetricsPath).Build()
	}
	if _, err := c.Server.Refresh(); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid refresh_interval").
			WithContext("refresh_interval", c.Server.RefreshInterval).Build()
	}
	if c.Events.Enabled && strings.TrimSpace(c.Events.URL) == "" {
		return errors.ValidationError("events.url is required when events are enabled").Build()
	}
	return nil
}

// Refresh parses the refresh interval. Zero means disabled.
func (s ServerConfig) Refresh() (time.Duration, error) {
	v := strings.TrimSpace(s.RefreshInterval)
	if v == "" || v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("refresh interval must not be negative: %s", v)
	}
	return d, nil
}
