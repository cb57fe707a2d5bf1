package transclude

import (
	"context"
	"fmt"
	"log/slog"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/transclude/internal/config"
	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/logfields"
	"git.home.luguber.info/inful/transclude/internal/markdown"
	"git.home.luguber.info/inful/transclude/internal/metrics"
)

// Document identifies a content-bearing document in the store. ID is the
// canonical identifier used by the cycle guard, so two markers spelling the
// same document differently still collide.
type Document struct {
	ID   string // canonical vault-relative path
	Name string // display name (basename without extension)
}

// Store is the document store boundary. Implementations return a not_found
// classified error from Resolve when the target does not name a document.
type Store interface {
	Resolve(ctx context.Context, target string) (*Document, error)
	ReadText(ctx context.Context, doc *Document) ([]byte, error)
}

// Renderer turns raw markdown into a rendered fragment. Implementations are
// expected to re-invoke ResolvePass on the tree they build, passing rctx
// through unchanged, so embeds nested inside the target resolve transitively.
// This is the mutually recursive partner of the resolver.
type Renderer interface {
	Render(ctx context.Context, text []byte, sourceID string, rctx *Context) (*markdown.Fragment, error)
}

// Outcome is the terminal state of one marker within a pass.
type Outcome string

const (
	OutcomeSkipped  Outcome = "skipped"
	OutcomeNotFound Outcome = "not_found"
	OutcomeCycle    Outcome = "cycle"
	OutcomeResolved Outcome = "resolved"
	OutcomeFailed   Outcome = "failed"
)

// Resolver orchestrates transclusion resolution over rendered fragments.
type Resolver struct {
	store    Store
	renderer Renderer
	settings config.Settings
	recorder metrics.Recorder
}

// NewResolver builds a resolver. Settings are captured by value: they are
// read-only for the resolver's lifetime, matching the load-once contract.
func NewResolver(store Store, renderer Renderer, settings config.Settings, recorder metrics.Recorder) *Resolver {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Resolver{
		store:    store,
		renderer: renderer,
		settings: settings,
		recorder: recorder,
	}
}

// CycleMessage is the visible text substituted for a marker rejected by the
// cycle guard.
func CycleMessage(id string) string {
	return fmt.Sprintf("Transclusion loop detected: %s", id)
}

// ResolvePass resolves every qualifying embed marker inside root, which was
// parsed from source and belongs to the document docID. rctx carries the
// pass-wide cycle guard; recursive invocations triggered through the renderer
// share it.
//
// Markers fail soft where the taxonomy says so (unresolvable target, cycle);
// read and render failures abort the pass and propagate, always after the
// guard entry for the failing marker has been released. A failed marker is
// left in place, never partially spliced.
func (r *Resolver) ResolvePass(ctx context.Context, root gmast.Node, source []byte, docID string, rctx *Context) error {
	for _, m := range Scan(root, source) {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome, err := r.resolveMarker(ctx, m, docID, rctx)
		r.recorder.IncMarkerOutcome(string(outcome))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveMarker(ctx context.Context, m *Marker, docID string, rctx *Context) (Outcome, error) {
	if !r.settings.RenderAllTransclusions && !m.Explicit {
		return OutcomeSkipped, nil
	}
	if m.Target == "" {
		return OutcomeSkipped, nil
	}

	doc, err := r.store.Resolve(ctx, m.Target)
	if err != nil {
		if errors.IsNotFound(err) {
			// Unresolvable reference: marker stays as-is, no warning.
			slog.Debug("embed target not resolvable",
				logfields.Document(docID), logfields.Target(m.Target), logfields.PassID(rctx.PassID))
			return OutcomeNotFound, nil
		}
		return OutcomeFailed, errors.WrapError(err, errors.CategoryTransclusion, "resolve embed target").
			WithContext("document", docID).WithContext("target", m.Target).Build()
	}

	if !rctx.Guard().TryEnter(doc.ID) {
		rctx.recordCycle(doc.ID)
		spliceWarning(m.Node, markdown.NewWarning(CycleMessage(doc.ID)))
		slog.Warn("transclusion loop rejected",
			logfields.Document(docID), logfields.Target(doc.ID), logfields.PassID(rctx.PassID))
		return OutcomeCycle, nil
	}
	defer rctx.Guard().Leave(doc.ID)

	text, err := r.store.ReadText(ctx, doc)
	if err != nil {
		return OutcomeFailed, errors.WrapError(err, errors.CategoryTransclusion, "read embed target").
			WithContext("document", docID).WithContext("target", doc.ID).Build()
	}

	if r.settings.ShiftHeadings {
		base := markdown.EnclosingHeadingLevel(m.Node)
		text = markdown.ShiftHeadings(text, base)
	}

	frag, err := r.renderer.Render(ctx, text, doc.ID, rctx)
	if err != nil {
		return OutcomeFailed, errors.WrapError(err, errors.CategoryTransclusion, "render embed target").
			WithContext("document", docID).WithContext("target", doc.ID).Build()
	}

	spliceFragment(m.Node, frag)
	slog.Debug("embed resolved",
		logfields.Document(docID), logfields.Target(doc.ID), logfields.PassID(rctx.PassID))
	return OutcomeResolved, nil
}

// spliceFragment replaces the embed marker with rendered content, transferring
// ownership of the fragment to the host tree. A marker that is the sole child
// of its paragraph takes the whole paragraph's place so block content does not
// end up inside a <p>.
func spliceFragment(embed *markdown.Embed, frag *markdown.Fragment) {
	parent := embed.Parent()
	if para, ok := parent.(*gmast.Paragraph); ok && para.ChildCount() == 1 && para.Parent() != nil {
		frag.Inline = false
		grand := para.Parent()
		grand.ReplaceChild(grand, para, frag)
		return
	}
	frag.Inline = true
	parent.ReplaceChild(parent, embed, frag)
}

func spliceWarning(embed *markdown.Embed, warn *markdown.Warning) {
	parent := embed.Parent()
	parent.ReplaceChild(parent, embed, warn)
}
