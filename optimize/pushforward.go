package optimize

import "github.com/coregx/tre/nfa"

// pushforward folds chains of AHEAD-family constraint arcs (ArcAhead,
// ArcEOL, ArcEOS) through pure relay states toward the front of the
// graph (spec.md §4.5 step 5), mirroring pullback's treatment of the
// BEHIND family. See pullback's doc comment for why the full
// color-sensitive combine table (INCOMPATIBLE/SATISFIED/COMPATIBLE
// against a neighboring PLAIN arc) is deferred to the lazy-DFA executor
// rather than attempted here.
func pushforward(g *nfa.Graph) {
	collapseConstraintRelays(g, nfa.ArcAhead, nfa.ArcEOL, nfa.ArcEOS)
}
