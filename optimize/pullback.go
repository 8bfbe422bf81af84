package optimize

import "github.com/coregx/tre/nfa"

// pullback folds chains of BEHIND-family constraint arcs (ArcBehind,
// ArcBOL, ArcBOS) through pure relay states toward the back of the graph
// (spec.md §4.5 step 4). A relay state — one with exactly one inbound
// and one outbound arc, both the same constraint type — tests the same
// zero-width condition twice for no benefit, so the chain collapses to a
// single hop of that type between the relay's neighbors.
//
// The general pullback described in spec.md additionally folds a
// constraint arc directly into a preceding PLAIN arc whenever the
// constraint is always SATISFIED or always INCOMPATIBLE for that arc's
// color (the combine table). That refinement needs the colormap's
// per-color character membership, which this package does not have
// access to; it is left as a runtime check performed by the lazy-DFA
// closure (package dfa/lazy) instead of a compile-time elision here, so
// no reachable string is ever lost to an overeager simplification.
func pullback(g *nfa.Graph) {
	collapseConstraintRelays(g, nfa.ArcBehind, nfa.ArcBOL, nfa.ArcBOS)
}

// collapseConstraintRelays repeatedly removes relay states whose single
// inbound and single outbound arc share one of the given constraint
// types, rewiring the predecessor directly to the successor.
func collapseConstraintRelays(g *nfa.Graph, families ...nfa.ArcType) {
	isFamily := func(t nfa.ArcType) bool {
		for _, f := range families {
			if t == f {
				return true
			}
		}
		return false
	}

	changed := true
	for changed {
		changed = false
		for i := 0; i < g.NStates(); i++ {
			id := nfa.StateID(i)
			if id == g.Pre() || id == g.Post() {
				continue
			}
			s := g.State(id)
			if s == nil || len(s.Ins()) != 1 || len(s.Outs()) != 1 {
				continue
			}
			in := g.Arc(s.Ins()[0])
			out := g.Arc(s.Outs()[0])
			if in == nil || out == nil || in.Type() != out.Type() || !isFamily(in.Type()) {
				continue
			}
			if in.From() == id || out.To() == id {
				continue // self-loop, not a true relay
			}
			g.NewArc(in.Type(), in.Color(), in.From(), out.To())
			g.FreeArc(in.ID())
			g.FreeArc(out.ID())
			changed = true
		}
	}
}
