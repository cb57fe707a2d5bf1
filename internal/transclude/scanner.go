package transclude

import (
	"bytes"

	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/transclude/internal/markdown"
)

// Marker is one embed occurrence found by a scan, classified and ready for
// resolution.
type Marker struct {
	// Node is the placeholder in the rendered tree; splicing replaces it.
	Node *markdown.Embed

	// Target is the referenced document identifier; may be empty.
	Target string

	// Explicit is true when the original source used the double-bang syntax.
	Explicit bool
}

// Scan enumerates the embed markers of a rendered fragment in document order.
//
// Markers are collected up front rather than yielded lazily: the orchestrator
// mutates the tree while it works through them, and a live traversal over a
// tree being spliced would be fragile. Spliced fragments are opaque leaves,
// so a scan never sees content produced by nested resolution.
//
// Classification inspects the marker's original source syntax for the
// explicit-embed prefix; when no source segment is available the marker is
// classified implicit. Scan has no side effects.
func Scan(root gmast.Node, source []byte) []*Marker {
	var markers []*Marker
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		e, ok := n.(*markdown.Embed)
		if !ok {
			return gmast.WalkContinue, nil
		}
		markers = append(markers, &Marker{
			Node:     e,
			Target:   e.Target,
			Explicit: isExplicit(e, source),
		})
		return gmast.WalkContinue, nil
	})
	return markers
}

func isExplicit(e *markdown.Embed, source []byte) bool {
	if e.Segment.Len() == 0 || e.Segment.Stop > len(source) {
		return false
	}
	return bytes.HasPrefix(e.Segment.Value(source), []byte(markdown.ExplicitPrefix))
}
