// Package server serves rendered vault documents over HTTP for previewing.
// It exposes an index of the vault, per-document pages with transclusions
// resolved, and the usual health and metrics endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.home.luguber.info/inful/transclude/internal/config"
	"git.home.luguber.info/inful/transclude/internal/events"
	derrors "git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/logfields"
	"git.home.luguber.info/inful/transclude/internal/pipeline"
)

// Options carries the optional collaborators for a preview server.
type Options struct {
	// Registry backs the /metrics endpoint when metrics are enabled.
	Registry *prometheus.Registry

	// Events, when non-nil, receives document_changed notifications for
	// vault changes observed through WatchChanges.
	Events *events.Publisher
}

// Server is the vault preview HTTP server.
type Server struct {
	cfg      config.ServerConfig
	pipeline *pipeline.Pipeline
	events   *events.Publisher
	adapter  *derrors.HTTPErrorAdapter
	handler  http.Handler
}

// New constructs a preview server over p.
func New(cfg config.ServerConfig, p *pipeline.Pipeline, opts Options) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: p,
		events:   opts.Events,
		adapter:  derrors.NewHTTPErrorAdapter(slog.Default()),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /doc/{path...}", s.handleDoc)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if cfg.MetricsEnabled {
		reg := opts.Registry
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	s.handler = chain(slog.Default(), s.adapter)(mux)
	return s
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Run binds the configured address and serves until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	// Bind up front so an occupied port fails fast instead of surfacing
	// from the serve goroutine.
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	slog.Info("preview server listening", slog.String("addr", ln.Addr().String()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		<-errCh
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// WatchChanges consumes vault change notifications: every change drops the
// render cache and, when events are wired, publishes document_changed. It
// returns when the channel closes or ctx is canceled.
func (s *Server) WatchChanges(ctx context.Context, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case doc, ok := <-changes:
			if !ok {
				return
			}
			slog.Debug("vault change observed", logfields.Document(doc))
			s.pipeline.InvalidateCache(ctx)
			s.events.DocumentChanged(doc)
		}
	}
}

// ScheduleRefresh starts a periodic job that re-renders every vault document,
// keeping the cache warm. A zero interval disables it; the returned stop
// function is nil in that case.
func (s *Server) ScheduleRefresh(ctx context.Context, interval time.Duration) (stop func() error, err error) {
	if interval <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.refreshAll, ctx),
		gocron.WithName("cache-refresh"),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule cache refresh: %w", err)
	}
	scheduler.Start()
	return scheduler.Shutdown, nil
}

func (s *Server) refreshAll(ctx context.Context) {
	docs, err := s.pipeline.Vault().List(ctx)
	if err != nil {
		slog.Warn("cache refresh listing failed", logfields.Error(err))
		return
	}
	for _, doc := range docs {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.pipeline.RenderHTML(ctx, doc); err != nil {
			slog.Warn("cache refresh render failed", logfields.Document(doc), logfields.Error(err))
		}
	}
}
