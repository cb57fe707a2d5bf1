// Package markdown provides the goldmark engine used for transclusion-aware
// rendering: the embed marker syntax, the custom node kinds spliced in during
// resolution, and the pure text/tree transforms (heading shifting, enclosing
// heading lookup, byte-range edits).
package markdown

import (
	"io"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Engine wraps a configured goldmark instance. It is stateless and safe to
// share across passes.
type Engine struct {
	md goldmark.Markdown
}

// NewEngine builds the rendering engine with GFM and the embed extension.
func NewEngine() *Engine {
	return &Engine{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, Embeds),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Parse parses markdown source into an AST.
func (e *Engine) Parse(source []byte) gmast.Node {
	return e.md.Parser().Parse(text.NewReader(source))
}

// Render writes the HTML rendering of root (parsed from source) to w.
func (e *Engine) Render(w io.Writer, source []byte, root gmast.Node) error {
	return e.md.Renderer().Render(w, source, root)
}
