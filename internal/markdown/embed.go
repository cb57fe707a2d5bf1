package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ExplicitPrefix marks an embed that must be transcluded natively regardless
// of the render-all setting.
const ExplicitPrefix = "!![["

// Embed is a placeholder inline node for a wiki-style embed marker
// (`![[target]]` or `!![[target]]`). It is created by the parser and consumed
// (replaced) during a resolution pass.
type Embed struct {
	gmast.BaseInline

	// Target is the referenced document identifier. Empty when the marker
	// references nothing resolvable (e.g. a bare `![[#heading]]`).
	Target string

	// Segment covers the full marker in the original source, including the
	// bang prefix. Classification and textual expansion read it; a zero
	// segment means the original syntax is unavailable.
	Segment text.Segment
}

// KindEmbed is the node kind of Embed.
var KindEmbed = gmast.NewNodeKind("Embed")

// Kind implements ast.Node.
func (n *Embed) Kind() gmast.NodeKind { return KindEmbed }

// Dump implements ast.Node.
func (n *Embed) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Target": n.Target,
	}, nil)
}

// NewEmbed creates a new Embed node.
func NewEmbed(target string, segment text.Segment) *Embed {
	return &Embed{Target: target, Segment: segment}
}

var (
	embedOpen  = []byte("[[")
	embedClose = []byte("]]")
)

type embedParser struct{}

// defaultEmbedParser parses `![[...]]` and `!![[...]]` inline embeds.
var defaultEmbedParser parser.InlineParser = &embedParser{}

// Trigger implements parser.InlineParser.
func (p *embedParser) Trigger() []byte { return []byte{'!'} }

// Parse implements parser.InlineParser. It must out-prioritize the standard
// link parser so `![[` is not consumed as an image opener.
func (p *embedParser) Parse(parent gmast.Node, block text.Reader, pc parser.Context) gmast.Node {
	line, seg := block.PeekLine()

	bangs := 0
	for bangs < 2 && bangs < len(line) && line[bangs] == '!' {
		bangs++
	}
	if bangs == 0 || !bytes.HasPrefix(line[bangs:], embedOpen) {
		return nil
	}

	body := line[bangs+len(embedOpen):]
	end := bytes.Index(body, embedClose)
	if end < 0 {
		return nil
	}

	total := bangs + len(embedOpen) + end + len(embedClose)
	target := parseEmbedTarget(body[:end])

	node := NewEmbed(target, text.NewSegment(seg.Start, seg.Start+total))
	block.Advance(total)
	return node
}

// parseEmbedTarget extracts the document identifier from the marker body,
// dropping an `|alias` suffix and a `#heading` fragment.
func parseEmbedTarget(body []byte) string {
	s := string(body)
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

type embedExtension struct{}

// Embeds is the goldmark extension wiring the embed syntax and the HTML
// rendering of embed, fragment, and warning nodes.
var Embeds goldmark.Extender = &embedExtension{}

func (e *embedExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		// Below 200 so it runs before the standard link/image parser.
		util.Prioritized(defaultEmbedParser, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(newNodeRenderer(), 500),
	))
}
