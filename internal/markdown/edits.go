package markdown

import (
	"fmt"
	"sort"
)

// Edit is a targeted byte-range replacement used by textual expansion.
//
// Start and End are byte offsets into the original source, End exclusive.
// Replacement substitutes source[Start:End].
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping byte-range edits to source and returns
// the updated content. Edits are applied from the end of the source toward
// the beginning so earlier replacements cannot invalidate later offsets.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start > sorted[j].Start
	})

	if err := validateEdits(sorted, len(source)); err != nil {
		return nil, err
	}

	out := append([]byte(nil), source...)
	for _, e := range sorted {
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Replacement))
		next = append(next, out[:e.Start]...)
		next = append(next, e.Replacement...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out, nil
}

// validateEdits expects edits sorted by Start descending.
func validateEdits(sorted []Edit, sourceLen int) error {
	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start {
			return fmt.Errorf("invalid edit[%d]: bad range [%d,%d)", i, e.Start, e.End)
		}
		if e.End > sourceLen {
			return fmt.Errorf("invalid edit[%d]: range [%d,%d) out of bounds", i, e.Start, e.End)
		}
		// The current edit must end at or before the previous (later) edit's start.
		if i > 0 && e.End > sorted[i-1].Start {
			return fmt.Errorf("invalid edits: overlapping ranges")
		}
	}
	return nil
}
