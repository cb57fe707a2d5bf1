// Package commands holds the CLI command implementations.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/transclude/internal/cache"
	"git.home.luguber.info/inful/transclude/internal/config"
	"git.home.luguber.info/inful/transclude/internal/events"
	"git.home.luguber.info/inful/transclude/internal/logfields"
	"git.home.luguber.info/inful/transclude/internal/metrics"
	"git.home.luguber.info/inful/transclude/internal/pipeline"
	"git.home.luguber.info/inful/transclude/internal/vault"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"transclude.yaml"`
	Vault   string           `help:"Vault root directory (overrides configuration)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render   RenderCmd   `cmd:"" help:"Render a vault document to HTML with transclusions resolved"`
	Expand   ExpandCmd   `cmd:"" help:"Expand a vault document to markdown with transclusions inlined"`
	Serve    ServeCmd    `cmd:"" help:"Serve rendered vault documents over HTTP"`
	Settings SettingsCmd `cmd:"" help:"Inspect and change transclusion settings"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration file and applies CLI overrides.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	if root.Vault != "" {
		cfg.Vault = root.Vault
	}
	return cfg, nil
}

// buildPipeline assembles the render pipeline from configuration. The
// returned publisher is nil when events are disabled or unreachable; the
// cleanup releases the cache and event connections and is always non-nil.
func buildPipeline(cfg *config.Config, recorder metrics.Recorder) (*pipeline.Pipeline, *events.Publisher, func(), error) {
	v, err := vault.Open(cfg.Vault)
	if err != nil {
		return nil, nil, func() {}, err
	}

	opts := pipeline.Options{Recorder: recorder}
	var cleanups []func()

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, nil, func() {}, err
		}
		opts.Cache = store
		cleanups = append(cleanups, func() { _ = store.Close() })
	}

	if cfg.Events.Enabled {
		pub, err := events.Connect(cfg.Events.URL, cfg.Events.SubjectPrefix)
		if err != nil {
			// Rendering works without the event stream.
			slog.Warn("event stream unavailable", logfields.Error(err))
		} else {
			opts.Events = pub
			cleanups = append(cleanups, pub.Close)
		}
	}

	p := pipeline.New(v, cfg.Settings, opts)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return p, opts.Events, cleanup, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
