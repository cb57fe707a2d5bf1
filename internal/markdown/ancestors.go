package markdown

import (
	gmast "github.com/yuin/goldmark/ast"
)

// EnclosingHeadingLevel returns the level (1-6) of the heading whose section
// contains n, or 0 when no heading precedes it before the document root.
//
// Goldmark ASTs are flat: headings are siblings of the content they head, so
// the enclosing heading of a node is the nearest heading among the preceding
// siblings of the node's ancestor chain. The tree is not mutated.
func EnclosingHeadingLevel(n gmast.Node) int {
	for cur := n; cur != nil && cur.Kind() != gmast.KindDocument; cur = cur.Parent() {
		for sib := cur.PreviousSibling(); sib != nil; sib = sib.PreviousSibling() {
			if h, ok := sib.(*gmast.Heading); ok {
				return h.Level
			}
		}
	}
	return 0
}
