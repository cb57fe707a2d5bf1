package pipeline

import (
	"bytes"
	"context"
	"log/slog"

	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/logfields"
	"git.home.luguber.info/inful/transclude/internal/markdown"
	"git.home.luguber.info/inful/transclude/internal/transclude"
)

// Expand resolves the document referenced by target and returns its markdown
// with every qualifying embed marker replaced by the target document's text,
// recursively. Unlike RenderHTML the output is markdown, not HTML; it is the
// materialized form of the document with transclusions flattened.
//
// Expansion follows the same policy and guard rules as rendering: implicit
// markers survive unchanged unless render-all is enabled, unresolvable
// markers survive unchanged, and a marker rejected by the cycle guard is
// replaced with a blockquoted loop warning.
func (p *Pipeline) Expand(ctx context.Context, target string) ([]byte, error) {
	doc, err := p.vault.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	raw, err := p.vault.ReadText(ctx, doc)
	if err != nil {
		return nil, err
	}

	rctx := transclude.NewContext()
	rctx.Enter(doc.ID)
	defer rctx.Leave(doc.ID)

	out, err := p.expandText(ctx, raw, doc.ID, rctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// expandText performs one textual expansion pass over source. It collects a
// byte-range edit per qualifying marker and applies them in a single batch,
// so marker offsets stay valid while the pass runs.
func (p *Pipeline) expandText(ctx context.Context, source []byte, docID string, rctx *transclude.Context) ([]byte, error) {
	root := p.engine.Parse(source)

	var edits []markdown.Edit
	for _, m := range transclude.Scan(root, source) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if m.Node.Segment.Len() == 0 {
			continue
		}
		replacement, ok, err := p.expandMarker(ctx, m, docID, rctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		edits = append(edits, markdown.Edit{
			Start:       m.Node.Segment.Start,
			End:         m.Node.Segment.Stop,
			Replacement: replacement,
		})
	}

	return markdown.ApplyEdits(source, edits)
}

// expandMarker produces the replacement text for one marker. ok is false when
// the marker should be left in place.
func (p *Pipeline) expandMarker(ctx context.Context, m *transclude.Marker, docID string, rctx *transclude.Context) (replacement []byte, ok bool, err error) {
	if !p.settings.RenderAllTransclusions && !m.Explicit {
		return nil, false, nil
	}
	if m.Target == "" {
		return nil, false, nil
	}

	doc, err := p.vault.Resolve(ctx, m.Target)
	if err != nil {
		if errors.IsNotFound(err) {
			slog.Debug("embed target not resolvable",
				logfields.Document(docID), logfields.Target(m.Target), logfields.PassID(rctx.PassID))
			return nil, false, nil
		}
		return nil, false, errors.WrapError(err, errors.CategoryTransclusion, "resolve embed target").
			WithContext("document", docID).WithContext("target", m.Target).Build()
	}

	if !rctx.Guard().TryEnter(doc.ID) {
		slog.Warn("transclusion loop rejected",
			logfields.Document(docID), logfields.Target(doc.ID), logfields.PassID(rctx.PassID))
		return []byte("> " + transclude.CycleMessage(doc.ID)), true, nil
	}
	defer rctx.Guard().Leave(doc.ID)

	text, err := p.vault.ReadText(ctx, doc)
	if err != nil {
		return nil, false, errors.WrapError(err, errors.CategoryTransclusion, "read embed target").
			WithContext("document", docID).WithContext("target", doc.ID).Build()
	}

	if p.settings.ShiftHeadings {
		base := markdown.EnclosingHeadingLevel(m.Node)
		text = markdown.ShiftHeadings(text, base)
	}

	expanded, err := p.expandText(ctx, text, doc.ID, rctx)
	if err != nil {
		return nil, false, err
	}
	return bytes.TrimRight(expanded, "\n"), true, nil
}
