package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyEdits_Empty(t *testing.T) {
	src := []byte("unchanged")
	out, err := ApplyEdits(src, nil)
	require.NoError(t, err)
	require.Equal(t, "unchanged", string(out))
}

func TestApplyEdits_MultipleOffsetsStayValid(t *testing.T) {
	src := []byte("aa ![[x]] bb ![[y]] cc")
	out, err := ApplyEdits(src, []Edit{
		{Start: 3, End: 9, Replacement: []byte("ONE")},
		{Start: 13, End: 19, Replacement: []byte("TWO-LONGER")},
	})
	require.NoError(t, err)
	require.Equal(t, "aa ONE bb TWO-LONGER cc", string(out))
}

func TestApplyEdits_OrderIndependent(t *testing.T) {
	src := []byte("0123456789")
	a, err := ApplyEdits(src, []Edit{{Start: 0, End: 2, Replacement: []byte("x")}, {Start: 8, End: 10, Replacement: []byte("y")}})
	require.NoError(t, err)
	b, err := ApplyEdits(src, []Edit{{Start: 8, End: 10, Replacement: []byte("y")}, {Start: 0, End: 2, Replacement: []byte("x")}})
	require.NoError(t, err)
	require.Equal(t, string(a), string(b))
	require.Equal(t, "x234567y", string(a))
}

func TestApplyEdits_RejectsOverlap(t *testing.T) {
	src := []byte("0123456789")
	_, err := ApplyEdits(src, []Edit{
		{Start: 0, End: 5, Replacement: []byte("a")},
		{Start: 4, End: 8, Replacement: []byte("b")},
	})
	require.Error(t, err)
}

func TestApplyEdits_RejectsOutOfBounds(t *testing.T) {
	_, err := ApplyEdits([]byte("short"), []Edit{{Start: 2, End: 99}})
	require.Error(t, err)

	_, err = ApplyEdits([]byte("short"), []Edit{{Start: -1, End: 2}})
	require.Error(t, err)

	_, err = ApplyEdits([]byte("short"), []Edit{{Start: 3, End: 2}})
	require.Error(t, err)
}
