package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/transclude/internal/cache"
	"git.home.luguber.info/inful/transclude/internal/config"
	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/vault"
)

func newTestVault(t *testing.T, docs map[string]string) *vault.Vault {
	t.Helper()
	root := t.TempDir()
	for name, content := range docs {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	v, err := vault.Open(root)
	require.NoError(t, err)
	return v
}

// countingRecorder tallies cache lookups for assertions.
type countingRecorder struct {
	hits, misses int
}

func (r *countingRecorder) ObservePassDuration(time.Duration) {}
func (r *countingRecorder) IncMarkerOutcome(string)           {}
func (r *countingRecorder) IncPassOutcome(string)             {}
func (r *countingRecorder) IncCacheResult(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func TestRenderHTML_ResolvesExplicitEmbed(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "intro paragraph\n\n!![[b]]\n",
		"b.md": "hello from b\n",
	})
	p := New(v, config.Settings{}, Options{})

	html, err := p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)

	out := string(html)
	require.Contains(t, out, "intro paragraph")
	require.Contains(t, out, `<div class="transclusion" data-source="b.md">`)
	require.Contains(t, out, "hello from b")
	require.NotContains(t, out, "!![[")
}

func TestRenderHTML_ImplicitEmbedLeftAloneByDefault(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "before ![[b]] after\n",
		"b.md": "embedded\n",
	})
	p := New(v, config.Settings{}, Options{})

	html, err := p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)
	require.NotContains(t, string(html), "embedded")
}

func TestRenderHTML_RenderAllResolvesImplicit(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "![[b]]\n",
		"b.md": "embedded\n",
	})
	p := New(v, config.Settings{RenderAllTransclusions: true}, Options{})

	html, err := p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(html), "embedded")
}

func TestRenderHTML_NestedEmbedsResolveTransitively(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "!![[b]]\n",
		"b.md": "from b\n\n!![[c]]\n",
		"c.md": "from c\n",
	})
	p := New(v, config.Settings{}, Options{})

	html, err := p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(html), "from b")
	require.Contains(t, string(html), "from c")
}

func TestRenderHTML_SelfEmbedRendersWarning(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "!![[a]]\n",
	})
	p := New(v, config.Settings{}, Options{})

	html, err := p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(html), "Transclusion loop detected: a.md")
}

func TestRenderHTML_UnknownDocument(t *testing.T) {
	v := newTestVault(t, map[string]string{"a.md": "content\n"})
	p := New(v, config.Settings{}, Options{})

	_, err := p.RenderHTML(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestRenderHTML_CacheRoundTrip(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "cached content\n",
	})
	store, err := cache.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rec := &countingRecorder{}
	p := New(v, config.Settings{}, Options{Cache: store, Recorder: rec})

	first, err := p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)
	second, err := p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, rec.misses)
	require.Equal(t, 1, rec.hits)
}

func TestInvalidateCache_ForcesRerender(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "content\n",
	})
	store, err := cache.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	rec := &countingRecorder{}
	p := New(v, config.Settings{}, Options{Cache: store, Recorder: rec})

	_, err = p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)
	p.InvalidateCache(context.Background())
	_, err = p.RenderHTML(context.Background(), "a")
	require.NoError(t, err)

	require.Equal(t, 2, rec.misses)
	require.Equal(t, 0, rec.hits)
}

func TestExpand_ReplacesMarkerWithTargetText(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "before\n\n!![[b]]\n\nafter\n",
		"b.md": "embedded text\n",
	})
	p := New(v, config.Settings{}, Options{})

	out, err := p.Expand(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(out), "embedded text")
	require.NotContains(t, string(out), "!![[b]]")
	require.Contains(t, string(out), "before")
	require.Contains(t, string(out), "after")
}

func TestExpand_RecursiveWithHeadingShift(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "## Section\n\n!![[b]]\n",
		"b.md": "# B Title\n\nbody\n\n!![[c]]\n",
		"c.md": "leaf\n",
	})
	p := New(v, config.Settings{ShiftHeadings: true}, Options{})

	out, err := p.Expand(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(out), "### B Title")
	require.Contains(t, string(out), "leaf")
}

func TestExpand_ImplicitMarkerSurvives(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "keep ![[b]] as-is\n",
		"b.md": "embedded\n",
	})
	p := New(v, config.Settings{}, Options{})

	out, err := p.Expand(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(out), "![[b]]")
	require.NotContains(t, string(out), "embedded")
}

func TestExpand_UnresolvableMarkerSurvives(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "!![[ghost]]\n",
	})
	p := New(v, config.Settings{}, Options{})

	out, err := p.Expand(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(out), "!![[ghost]]")
}

func TestExpand_CycleBecomesBlockquoteWarning(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "!![[b]]\n",
		"b.md": "!![[a]]\n",
	})
	p := New(v, config.Settings{}, Options{})

	out, err := p.Expand(context.Background(), "a")
	require.NoError(t, err)
	require.Contains(t, string(out), "> Transclusion loop detected: a.md")
}

func TestExpand_CanceledContext(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"a.md": "!![[b]]\n",
		"b.md": "embedded\n",
	})
	p := New(v, config.Settings{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Expand(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}
