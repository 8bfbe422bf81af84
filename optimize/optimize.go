// Package optimize runs the NFA transform pipeline (component C6): dead
// state elimination, EMPTY-chain collapsing, constraint-loop breaking,
// and pullback/pushforward of zero-width anchors past their neighbors
// (spec.md §4.5).
package optimize

import (
	"github.com/coregx/tre/internal/conv"
	"github.com/coregx/tre/internal/sparse"
	"github.com/coregx/tre/nfa"
)

// Info carries the pass 7 ("analyze") result bits.
type Info struct {
	Impossible bool // UIMPOSSIBLE: no path pre->post exists
	EmptyMatch bool // UEMPTYMATCH: an empty (zero-width) path pre->post exists
}

// Run executes the full optimizer pipeline over g in place, in the
// deterministic order spec.md §4.5 requires.
func Run(g *nfa.Graph) Info {
	cleanup(g)
	fixEmpties(g)
	fixConstraintLoops(g)
	pullback(g)
	pushforward(g)
	cleanup(g)
	return analyze(g)
}

// cleanup implements pass 1/6: drop every state that is not both
// forward-reachable from pre and backward-reachable from post.
func cleanup(g *nfa.Graph) {
	n := conv.IntToUint32(g.NStates())
	fwd := sparse.NewSparseSet(n)
	markForward(g, g.Pre(), fwd)

	bwd := sparse.NewSparseSet(n)
	markBackward(g, g.Post(), bwd)

	for i := 0; i < g.NStates(); i++ {
		id := nfa.StateID(i)
		if id == g.Pre() || id == g.Post() {
			continue
		}
		if !fwd.Contains(uint32(id)) || !bwd.Contains(uint32(id)) {
			dropState(g, id)
		}
	}
}

func markForward(g *nfa.Graph, start nfa.StateID, seen *sparse.SparseSet) {
	seen.Insert(uint32(start))
	s := g.State(start)
	if s == nil {
		return
	}
	for _, aid := range s.Outs() {
		a := g.Arc(aid)
		if a == nil {
			continue
		}
		if !seen.Contains(uint32(a.To())) {
			markForward(g, a.To(), seen)
		}
	}
}

func markBackward(g *nfa.Graph, start nfa.StateID, seen *sparse.SparseSet) {
	seen.Insert(uint32(start))
	s := g.State(start)
	if s == nil {
		return
	}
	for _, aid := range s.Ins() {
		a := g.Arc(aid)
		if a == nil {
			continue
		}
		if !seen.Contains(uint32(a.From())) {
			markBackward(g, a.From(), seen)
		}
	}
}

// dropState frees every arc touching id, then marks it dropped (spec.md
// §3 NFA state lifecycle "dropstate").
func dropState(g *nfa.Graph, id nfa.StateID) {
	s := g.State(id)
	if s == nil {
		return
	}
	for _, aid := range append([]nfa.ArcID(nil), s.Ins()...) {
		g.FreeArc(aid)
	}
	for _, aid := range append([]nfa.ArcID(nil), s.Outs()...) {
		g.FreeArc(aid)
	}
	g.DropState(id)
}

// analyze is pass 7.
func analyze(g *nfa.Graph) Info {
	n := conv.IntToUint32(g.NStates())
	fwd := sparse.NewSparseSet(n)
	markForward(g, g.Pre(), fwd)
	info := Info{Impossible: !fwd.Contains(uint32(g.Post()))}
	if !info.Impossible {
		info.EmptyMatch = hasEmptyPath(g, g.Pre(), sparse.NewSparseSet(n))
	}
	return info
}

func hasEmptyPath(g *nfa.Graph, cur nfa.StateID, seen *sparse.SparseSet) bool {
	if cur == g.Post() {
		return true
	}
	if seen.Contains(uint32(cur)) {
		return false
	}
	seen.Insert(uint32(cur))
	s := g.State(cur)
	if s == nil {
		return false
	}
	for _, aid := range s.Outs() {
		a := g.Arc(aid)
		if a == nil {
			continue
		}
		if a.Type() == nfa.ArcPlain {
			continue // consumes input; not a zero-width path
		}
		if hasEmptyPath(g, a.To(), seen) {
			return true
		}
	}
	return false
}
