package transclude

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/transclude/internal/markdown"
	"github.com/yuin/goldmark/text"
)

func TestScan_ClassifiesBySourceSyntax(t *testing.T) {
	engine := markdown.NewEngine()
	src := []byte("![[implicit one]]\n\n!![[explicit one]]\n")
	root := engine.Parse(src)

	markers := Scan(root, src)
	require.Len(t, markers, 2)

	require.Equal(t, "implicit one", markers[0].Target)
	require.False(t, markers[0].Explicit)

	require.Equal(t, "explicit one", markers[1].Target)
	require.True(t, markers[1].Explicit)
}

func TestScan_MissingSegmentClassifiesImplicit(t *testing.T) {
	// A marker without original syntax (zero segment) must fall back to implicit.
	embed := markdown.NewEmbed("orphan", text.Segment{})
	markers := []*Marker{{Node: embed, Target: embed.Target, Explicit: isExplicit(embed, nil)}}
	require.False(t, markers[0].Explicit)
}

func TestScan_NoMarkersOnPlainContent(t *testing.T) {
	engine := markdown.NewEngine()
	src := []byte("# Title\n\nplain [link](x.md) and ![img](y.png)\n")
	require.Empty(t, Scan(engine.Parse(src), src))
}

func TestScan_DocumentOrder(t *testing.T) {
	engine := markdown.NewEngine()
	src := []byte("![[a]]\n\n> ![[b]]\n\n![[c]]\n")
	markers := Scan(engine.Parse(src), src)
	require.Len(t, markers, 3)
	require.Equal(t, "a", markers[0].Target)
	require.Equal(t, "b", markers[1].Target)
	require.Equal(t, "c", markers[2].Target)
}
