// Package transclude implements the transclusion resolution engine: the
// scan-detect-guard-render-splice pipeline that replaces embed markers in a
// rendered tree with the rendered content of the documents they reference.
package transclude

import (
	"github.com/google/uuid"

	"git.home.luguber.info/inful/transclude/internal/util/sets"
)

// Guard tracks the set of document identifiers currently being resolved on
// the active call chain and rejects re-entrant resolution.
//
// It is deliberately unsynchronized: a pass runs on a single goroutine and
// every pass owns its own Guard through its Context.
type Guard struct {
	inflight sets.Set[string]
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{inflight: sets.New[string]()}
}

// TryEnter marks id as in-flight. It returns false, without modifying the
// set, when id is already being resolved.
func (g *Guard) TryEnter(id string) bool {
	return g.inflight.Add(id)
}

// Leave unconditionally removes id from the in-flight set. Callers must pair
// every successful TryEnter with a Leave on all exit paths, including errors,
// so an id never outlives its own resolution.
func (g *Guard) Leave(id string) {
	g.inflight.Delete(id)
}

// InFlight returns the number of documents currently under resolution.
func (g *Guard) InFlight() int {
	return g.inflight.Len()
}

// Context is the per-pass resolution state. It is created at the start of a
// post-processing pass and shared, unchanged, across all recursive calls of
// that pass. Independent passes must use independent Contexts; sharing one
// across unrelated passes causes false-positive cycle rejections.
type Context struct {
	// PassID correlates log lines and events of one pass.
	PassID string

	guard  *Guard
	cycles []string
}

// NewContext creates a fresh pass context with an empty in-flight set.
func NewContext() *Context {
	return &Context{
		PassID: uuid.NewString(),
		guard:  NewGuard(),
	}
}

// Guard returns the pass cycle guard.
func (c *Context) Guard() *Guard { return c.guard }

// Enter seeds the guard with the pass root document so a transitive re-embed
// of the root is rejected as a cycle. It reports whether the id was free.
func (c *Context) Enter(id string) bool { return c.guard.TryEnter(id) }

// Leave releases an id seeded with Enter.
func (c *Context) Leave(id string) { c.guard.Leave(id) }

// Cycles returns the document ids whose resolution was rejected by the guard
// during this pass, in rejection order.
func (c *Context) Cycles() []string { return c.cycles }

func (c *Context) recordCycle(id string) { c.cycles = append(c.cycles, id) }
