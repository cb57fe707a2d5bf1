package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/transclude/internal/logfields"
	"git.home.luguber.info/inful/transclude/internal/metrics"
	"git.home.luguber.info/inful/transclude/internal/server"
	"git.home.luguber.info/inful/transclude/internal/vault"
)

// ServeCmd runs the preview HTTP server over the vault.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides configuration)."`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	var recorder metrics.Recorder
	var registry *prometheus.Registry
	if cfg.Server.MetricsEnabled {
		registry = prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	p, pub, cleanup, err := buildPipeline(cfg, recorder)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := server.New(cfg.Server, p, server.Options{Registry: registry, Events: pub})

	watcher, err := vault.NewWatcher(p.Vault())
	if err != nil {
		return err
	}
	go func() {
		if werr := watcher.Run(ctx); werr != nil {
			slog.Warn("vault watcher stopped", logfields.Error(werr))
		}
	}()
	go srv.WatchChanges(ctx, watcher.Changes())

	interval, err := cfg.Server.Refresh()
	if err != nil {
		return err
	}
	stopRefresh, err := srv.ScheduleRefresh(ctx, interval)
	if err != nil {
		return err
	}
	if stopRefresh != nil {
		defer func() { _ = stopRefresh() }()
	}

	return srv.Run(ctx)
}
