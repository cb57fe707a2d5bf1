package markdown

import (
	"bytes"
	"regexp"
)

// MaxHeadingLevel is the deepest heading level markdown supports.
const MaxHeadingLevel = 6

// headingLine matches an ATX heading start: 1-6 marker characters followed by
// whitespace.
var headingLine = regexp.MustCompile(`^(#{1,6})[ \t]`)

// ShiftHeadings rewrites every heading line in src so that a level-h heading
// becomes level min(h+base, 6), preserving the whitespace and content after
// the markers. base <= 0 means "no enclosing heading" and src is returned
// unchanged. Non-heading lines are untouched.
//
// Callers apply this exactly once per marker, on raw text, before rendering;
// re-application on already-shifted text is outside the contract.
func ShiftHeadings(src []byte, base int) []byte {
	if base <= 0 {
		return src
	}

	var out bytes.Buffer
	out.Grow(len(src) + 16)

	rest := src
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i+1]
			rest = rest[i+1:]
		} else {
			rest = nil
		}

		if m := headingLine.Find(line); m != nil {
			level := len(m) - 1 + base // trailing whitespace byte is part of the match
			if level > MaxHeadingLevel {
				level = MaxHeadingLevel
			}
			for range level {
				out.WriteByte('#')
			}
			out.Write(line[len(m)-1:])
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}
