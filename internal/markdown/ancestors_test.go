package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnclosingHeadingLevel_TopLevelIsNone(t *testing.T) {
	e := NewEngine()
	root := e.Parse([]byte("![[x]]\n"))
	embeds := collectEmbeds(root)
	require.Len(t, embeds, 1)
	require.Equal(t, 0, EnclosingHeadingLevel(embeds[0]))
}

func TestEnclosingHeadingLevel_DirectSection(t *testing.T) {
	e := NewEngine()
	root := e.Parse([]byte("## Section\n\n![[x]]\n"))
	embeds := collectEmbeds(root)
	require.Len(t, embeds, 1)
	require.Equal(t, 2, EnclosingHeadingLevel(embeds[0]))
}

func TestEnclosingHeadingLevel_DeepNestingUnderH2(t *testing.T) {
	// Marker nested several levels down (list item inside a blockquote);
	// intermediate non-heading nodes must not matter.
	src := "## Section\n\nintro\n\n> - item\n> - ![[x]]\n"
	e := NewEngine()
	root := e.Parse([]byte(src))
	embeds := collectEmbeds(root)
	require.Len(t, embeds, 1)
	require.Equal(t, 2, EnclosingHeadingLevel(embeds[0]))
}

func TestEnclosingHeadingLevel_NearestHeadingWins(t *testing.T) {
	src := "# Top\n\n### Sub\n\n![[x]]\n"
	e := NewEngine()
	root := e.Parse([]byte(src))
	embeds := collectEmbeds(root)
	require.Len(t, embeds, 1)
	require.Equal(t, 3, EnclosingHeadingLevel(embeds[0]))
}

func TestEnclosingHeadingLevel_HeadingAfterMarkerIgnored(t *testing.T) {
	src := "![[x]]\n\n## Later\n"
	e := NewEngine()
	root := e.Parse([]byte(src))
	embeds := collectEmbeds(root)
	require.Len(t, embeds, 1)
	require.Equal(t, 0, EnclosingHeadingLevel(embeds[0]))
}
