package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.False(t, cfg.Settings.RenderAllTransclusions)
	require.False(t, cfg.Settings.ShiftHeadings)
	require.Equal(t, ".", cfg.Vault)
	require.Equal(t, ":8093", cfg.Server.Addr)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  shift_headings: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Settings.ShiftHeadings)
	// Untouched fields keep their defaults.
	require.False(t, cfg.Settings.RenderAllTransclusions)
	require.Equal(t, "/metrics", cfg.Server.MetricsPath)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TRANSCLUDE_TEST_VAULT", "/srv/notes")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vault: ${TRANSCLUDE_TEST_VAULT}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/notes", cfg.Vault)
}

func TestLoad_RejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Settings.RenderAllTransclusions = true
	cfg.Settings.ShiftHeadings = true
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Settings.RenderAllTransclusions)
	require.True(t, loaded.Settings.ShiftHeadings)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty vault", func(c *Config) { c.Vault = "  " }, true},
		{"metrics path without slash", func(c *Config) {
			c.Server.MetricsEnabled = true
			c.Server.MetricsPath = "metrics"
		}, true},
		{"bad refresh interval", func(c *Config) { c.Server.RefreshInterval = "soon" }, true},
		{"negative refresh interval", func(c *Config) { c.Server.RefreshInterval = "-5m" }, true},
		{"events enabled without url", func(c *Config) {
			c.Events.Enabled = true
			c.Events.URL = ""
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestServerConfig_Refresh(t *testing.T) {
	s := ServerConfig{RefreshInterval: "90s"}
	d, err := s.Refresh()
	require.NoError(t, err)
	require.Equal(t, 90*time.Second, d)

	s.RefreshInterval = ""
	d, err = s.Refresh()
	require.NoError(t, err)
	require.Zero(t, d)
}
