package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftHeadings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		base int
		want string
	}{
		{"none leaves text unchanged", "## x\n", 0, "## x\n"},
		{"negative treated as none", "## x\n", -1, "## x\n"},
		{"h1 plus two", "# x\n", 2, "### x\n"},
		{"clamped at max", "###### x\n", 3, "###### x\n"},
		{"clamp mid-range", "#### x\n", 4, "###### x\n"},
		{"tab separator preserved", "#\tx\n", 1, "##\tx\n"},
		{"non-heading lines untouched", "text # not a heading\n#nohash\n", 3, "text # not a heading\n#nohash\n"},
		{"seven hashes is not a heading", "####### x\n", 1, "####### x\n"},
		{"mixed document", "# A\n\nbody\n\n## B\n", 1, "## A\n\nbody\n\n### B\n"},
		{"no trailing newline", "# x", 1, "## x"},
		{"crlf content", "# x\r\n## y\r\n", 1, "## x\r\n### y\r\n"},
		{"empty input", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShiftHeadings([]byte(tt.in), tt.base)
			require.Equal(t, tt.want, string(got))
		})
	}
}

func TestShiftHeadings_Deterministic(t *testing.T) {
	in := []byte("# a\n### b\n")
	first := ShiftHeadings(in, 2)
	second := ShiftHeadings(in, 2)
	require.Equal(t, string(first), string(second))
	require.Equal(t, "### a\n##### b\n", string(first))
}
