package optimize

import "github.com/coregx/tre/nfa"

// fixEmpties collapses EMPTY arcs (spec.md §4.5 step 2 "fixempties"):
// for every surviving EMPTY arc from -> to, to's outbound reach is
// copied directly onto from and the EMPTY arc itself is freed. Repeating
// this to a fixpoint handles chains of EMPTY arcs regardless of
// traversal order; each round only copies arcs that were already present
// before the round started ("original inarc snapshot"), so a chain of
// length k collapses in at most k rounds rather than refolding the same
// arc repeatedly within a round.
func fixEmpties(g *nfa.Graph) {
	// A well-formed sub-NFA never contains a pure-EMPTY cycle, but cap
	// the rounds defensively rather than risk spinning forever on one.
	maxRounds := g.NStates() + 1
	for round := 0; round < maxRounds; round++ {
		progressed := false
		for i := 0; i < g.NStates(); i++ {
			id := nfa.StateID(i)
			s := g.State(id)
			if s == nil {
				continue
			}
			snapshot := append([]nfa.ArcID(nil), s.Outs()...)
			for _, aid := range snapshot {
				a := g.Arc(aid)
				if a == nil || a.Type() != nfa.ArcEmpty {
					continue
				}
				if collapseEmpty(g, id, a.To()) {
					g.FreeArc(aid)
					progressed = true
				}
			}
		}
		if !progressed {
			return
		}
	}
}

// collapseEmpty folds the EMPTY arc from->to by copying to's outbound
// reach directly onto from, leaving to's own arcs (and to itself) in
// place — to may still be reachable some other way, and is the post
// anchor in the common terminal case, which must never lose its identity.
// It always reports true; for the degenerate from==to self-loop it copies
// nothing.
func collapseEmpty(g *nfa.Graph, from, to nfa.StateID) bool {
	if from == to {
		return true
	}
	g.CopyOuts(to, from)
	return true
}
