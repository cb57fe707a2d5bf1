package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
)

// Fragment is opaque, already-rendered transcluded content spliced in place of
// a resolved embed marker. Once spliced, the host tree owns it.
type Fragment struct {
	gmast.BaseBlock

	// HTML is the rendered content of the transcluded document.
	HTML []byte

	// Source is the canonical identifier of the document the content came from.
	Source string

	// Inline is set when the fragment replaced an embed inside surrounding
	// inline content rather than a whole paragraph.
	Inline bool
}

// KindFragment is the node kind of Fragment.
var KindFragment = gmast.NewNodeKind("Fragment")

// Kind implements ast.Node.
func (n *Fragment) Kind() gmast.NodeKind { return KindFragment }

// Dump implements ast.Node.
func (n *Fragment) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Source": n.Source,
	}, nil)
}

// NewFragment creates a Fragment holding rendered content from source.
func NewFragment(html []byte, source string) *Fragment {
	return &Fragment{HTML: html, Source: source}
}

// Warning is a visible inline warning substituted for an embed marker whose
// resolution was rejected (transclusion loop).
type Warning struct {
	gmast.BaseInline

	// Message is the user-facing warning text.
	Message string
}

// KindWarning is the node kind of Warning.
var KindWarning = gmast.NewNodeKind("TransclusionWarning")

// Kind implements ast.Node.
func (n *Warning) Kind() gmast.NodeKind { return KindWarning }

// Dump implements ast.Node.
func (n *Warning) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Message": n.Message,
	}, nil)
}

// NewWarning creates a Warning node.
func NewWarning(message string) *Warning {
	return &Warning{Message: message}
}
