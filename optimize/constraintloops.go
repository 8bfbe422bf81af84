package optimize

import "github.com/coregx/tre/nfa"

// fixConstraintLoops breaks cycles made up entirely of zero-width
// constraint arcs (spec.md §4.5 step 3): such a cycle can never consume
// input, so a naive executor would spin forever trying to close over it.
//
// Every constraint arc's outcome depends only on the current input
// position, never on which state the graph happens to be in — so
// re-testing the same boundary condition a second time by going around a
// loop once more can never produce a result different from testing it
// zero extra times. That makes a plain DFS back-edge cut exact, not just
// conservative: any string the cycle could accept by going around k>0
// times is already accepted by the surviving DAG going around it zero
// times, and cleanup's later reachability pass prunes away whatever the
// cut leaves stranded.
func fixConstraintLoops(g *nfa.Graph) {
	visitState := make(map[nfa.StateID]uint8)
	for i := 0; i < g.NStates(); i++ {
		id := nfa.StateID(i)
		if visitState[id] == unvisited {
			walkConstraint(g, id, visitState)
		}
	}
}

const (
	unvisited uint8 = iota
	active
	done
)

func walkConstraint(g *nfa.Graph, id nfa.StateID, visitState map[nfa.StateID]uint8) {
	visitState[id] = active
	s := g.State(id)
	if s != nil {
		for _, aid := range append([]nfa.ArcID(nil), s.Outs()...) {
			a := g.Arc(aid)
			if a == nil || !a.Type().IsConstraint() {
				continue
			}
			switch visitState[a.To()] {
			case active:
				g.FreeArc(aid) // back-edge: cuts the cycle
			case unvisited:
				walkConstraint(g, a.To(), visitState)
			}
		}
	}
	visitState[id] = done
}
