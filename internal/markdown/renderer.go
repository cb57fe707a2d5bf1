package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// nodeRenderer renders the custom node kinds to HTML.
type nodeRenderer struct{}

func newNodeRenderer() renderer.NodeRenderer { return &nodeRenderer{} }

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindEmbed, r.renderEmbed)
	reg.Register(KindFragment, r.renderFragment)
	reg.Register(KindWarning, r.renderWarning)
}

// renderEmbed is the fallback for markers left unresolved by a pass: the
// original marker text is reproduced, escaped, so the reader sees what the
// source said.
func (r *nodeRenderer) renderEmbed(w util.BufWriter, source []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*Embed)
	_, _ = w.WriteString(`<span class="embed-unresolved">`)
	if n.Segment.Len() > 0 {
		_, _ = w.Write(util.EscapeHTML(n.Segment.Value(source)))
	} else {
		_, _ = w.Write(util.EscapeHTML([]byte("![[" + n.Target + "]]")))
	}
	_, _ = w.WriteString(`</span>`)
	return gmast.WalkContinue, nil
}

func (r *nodeRenderer) renderFragment(w util.BufWriter, _ []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	n := node.(*Fragment)
	tag := "div"
	if n.Inline {
		tag = "span"
	}
	if entering {
		_, _ = w.WriteString(`<` + tag + ` class="transclusion" data-source="`)
		_, _ = w.Write(util.EscapeHTML([]byte(n.Source)))
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(n.HTML)
	} else {
		_, _ = w.WriteString(`</` + tag + `>`)
	}
	return gmast.WalkContinue, nil
}

func (r *nodeRenderer) renderWarning(w util.BufWriter, _ []byte, node gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	n := node.(*Warning)
	_, _ = w.WriteString(`<span class="transclusion-warning">`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Message)))
	_, _ = w.WriteString(`</span>`)
	return gmast.WalkContinue, nil
}
