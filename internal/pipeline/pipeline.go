// Package pipeline wires the vault, the markdown engine, and the transclusion
// resolver into the two user-facing operations: rendering a document to HTML
// and expanding it to plain markdown. It also hosts the concrete Renderer,
// the mutually recursive partner of the resolve pass.
package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/transclude/internal/cache"
	"git.home.luguber.info/inful/transclude/internal/config"
	"git.home.luguber.info/inful/transclude/internal/events"
	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/logfields"
	"git.home.luguber.info/inful/transclude/internal/markdown"
	"git.home.luguber.info/inful/transclude/internal/metrics"
	"git.home.luguber.info/inful/transclude/internal/transclude"
	"git.home.luguber.info/inful/transclude/internal/vault"
)

// Options carries the optional collaborators; zero values are safe.
type Options struct {
	Cache    *cache.Store
	Recorder metrics.Recorder
	Events   *events.Publisher
}

// Pipeline renders vault documents with transclusions resolved.
type Pipeline struct {
	vault    *vault.Vault
	engine   *markdown.Engine
	settings config.Settings
	resolver *transclude.Resolver
	cache    *cache.Store
	recorder metrics.Recorder
	events   *events.Publisher
}

// New builds a pipeline over v with the given policy settings.
func New(v *vault.Vault, settings config.Settings, opts Options) *Pipeline {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	p := &Pipeline{
		vault:    v,
		engine:   markdown.NewEngine(),
		settings: settings,
		cache:    opts.Cache,
		recorder: recorder,
		events:   opts.Events,
	}
	p.resolver = transclude.NewResolver(v, &treeRenderer{p: p}, settings, recorder)
	return p
}

// treeRenderer is the production transclude.Renderer: it parses the target's
// text, re-enters the resolve pass with the caller's pass context, and renders
// the resulting tree into an opaque fragment.
type treeRenderer struct {
	p *Pipeline
}

func (r *treeRenderer) Render(ctx context.Context, text []byte, sourceID string, rctx *transclude.Context) (*markdown.Fragment, error) {
	root := r.p.engine.Parse(text)
	if err := r.p.resolver.ResolvePass(ctx, root, text, sourceID, rctx); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.p.engine.Render(&buf, text, root); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "render fragment").
			WithContext("document", sourceID).
			Build()
	}
	return markdown.NewFragment(buf.Bytes(), sourceID), nil
}

// RenderHTML renders the document referenced by target to HTML, resolving
// qualifying transclusions recursively. The render cache, when configured,
// short-circuits unchanged documents.
func (p *Pipeline) RenderHTML(ctx context.Context, target string) ([]byte, error) {
	doc, err := p.vault.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	raw, err := p.vault.ReadText(ctx, doc)
	if err != nil {
		return nil, err
	}

	var fp string
	if p.cache != nil {
		fp = cache.Fingerprint(raw)
		html, hit, cerr := p.cache.Get(ctx, doc.ID, fp)
		if cerr != nil {
			slog.Warn("cache read failed", logfields.Document(doc.ID), logfields.Error(cerr))
		}
		p.recorder.IncCacheResult(hit)
		if hit {
			slog.Debug("render served from cache", logfields.Document(doc.ID), logfields.CacheHit(true))
			return html, nil
		}
	}

	start := time.Now()
	rctx := transclude.NewContext()
	rctx.Enter(doc.ID)
	defer rctx.Leave(doc.ID)

	root := p.engine.Parse(raw)
	if err := p.resolver.ResolvePass(ctx, root, raw, doc.ID, rctx); err != nil {
		p.recorder.IncPassOutcome("failed")
		return nil, err
	}

	var buf bytes.Buffer
	if err := p.engine.Render(&buf, raw, root); err != nil {
		p.recorder.IncPassOutcome("failed")
		return nil, errors.WrapError(err, errors.CategoryRender, "render document").
			WithContext("document", doc.ID).
			Build()
	}

	elapsed := time.Since(start)
	p.recorder.ObservePassDuration(elapsed)
	p.recorder.IncPassOutcome("success")
	slog.Info("document rendered",
		logfields.Document(doc.ID),
		logfields.PassID(rctx.PassID),
		logfields.DurationMS(float64(elapsed.Milliseconds())))

	if p.cache != nil {
		if err := p.cache.Put(ctx, doc.ID, fp, buf.Bytes()); err != nil {
			slog.Warn("cache write failed", logfields.Document(doc.ID), logfields.Error(err))
		}
	}

	p.events.DocumentRendered(doc.ID, rctx.PassID)
	for _, id := range rctx.Cycles() {
		p.events.CycleDetected(id, rctx.PassID)
	}
	return buf.Bytes(), nil
}

// Vault exposes the underlying vault for callers that enumerate documents.
func (p *Pipeline) Vault() *vault.Vault { return p.vault }

// InvalidateCache drops every cached render. Any vault change can affect any
// document through transitive embeds, so invalidation is whole-cache.
func (p *Pipeline) InvalidateCache(ctx context.Context) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Purge(ctx); err != nil {
		slog.Warn("cache purge failed", logfields.Error(err))
	}
}
