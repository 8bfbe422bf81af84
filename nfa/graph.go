// Package nfa implements the mutable directed multigraph of states and
// typed, colored arcs described in spec.md §3/§4.2 (component C3).
//
// Unlike a classical Thompson construction where each state has exactly
// one transition, a Graph state here may have any number of inbound and
// outbound arcs of different types (PLAIN, EMPTY, anchor constraints,
// LACON). This is the representation the parser (package parse) builds
// directly and the optimizer (package optimize) rewrites in place; the
// compact NFA builder (package cnfa) flattens the result for execution.
//
// Following spec.md §9's "arena + index" design note, states and arcs
// live in flat slices keyed by stable StateID/ArcID; the doubly-linked
// in/out chains of the original C implementation become plain ArcID
// slices per state (removal is O(fan-out), which is small in practice —
// see DESIGN.md for the tradeoff).
package nfa

import "github.com/coregx/tre/color"

// StateID identifies a Graph state.
type StateID uint32

// InvalidState is the zero-value sentinel for "no state".
const InvalidState StateID = 0xFFFFFFFF

// ArcID identifies a Graph arc.
type ArcID uint32

// InvalidArc is the sentinel for "no arc".
const InvalidArc ArcID = 0xFFFFFFFF

// ArcType is the type tag of an arc (spec.md §3 "NFA arc").
type ArcType uint8

const (
	// ArcPlain consumes one character of the arc's color.
	ArcPlain ArcType = iota
	// ArcEmpty is an epsilon transition.
	ArcEmpty
	// ArcAhead is a zero-width lookahead-style constraint pushed forward
	// past its destination state during optimization (spec.md §4.5 step 5).
	ArcAhead
	// ArcBehind is a zero-width lookbehind-style constraint pulled
	// backward past its source state during optimization (step 4).
	ArcBehind
	// ArcBOL matches at the start of a line.
	ArcBOL
	// ArcEOL matches at the end of a line.
	ArcEOL
	// ArcBOS matches at the start of the subject string.
	ArcBOS
	// ArcEOS matches at the end of the subject string.
	ArcEOS
	// ArcLacon is an indirect constraint through a lookahead sub-DFA;
	// the arc's Lacon field names the LACON table index, and Negate
	// flips positive/negative lookaround sense.
	ArcLacon
)

// IsConstraint reports whether a is a zero-width constraint arc (as
// opposed to PLAIN/EMPTY), i.e. one of the types that participate in the
// constraint-loop-breaking and pullback/pushforward passes.
func (t ArcType) IsConstraint() bool {
	switch t {
	case ArcAhead, ArcBehind, ArcBOL, ArcEOL, ArcBOS, ArcEOS, ArcLacon:
		return true
	default:
		return false
	}
}

// StateFlag marks special states.
type StateFlag uint8

const (
	// FlagPlain is an ordinary state.
	FlagPlain StateFlag = iota
	// FlagPre marks the NFA's unique pre-start state.
	FlagPre
	// FlagPost marks the NFA's unique post-final (accepting) state.
	FlagPost
)

// Arc is one typed, colored, directed edge between two states.
type Arc struct {
	id       ArcID
	typ      ArcType
	co       color.Color // character color for ArcPlain, ArcAhead and ArcBehind; NoColor otherwise
	from, to StateID
	lacon    int  // LACON table index, for ArcLacon
	negate   bool // negative lookaround sense, for ArcLacon
}

// ID returns the arc's identity.
func (a *Arc) ID() ArcID { return a.id }

// Type returns the arc's type.
func (a *Arc) Type() ArcType { return a.typ }

// Color returns the arc's color (meaningful for ArcPlain, ArcAhead and
// ArcBehind).
func (a *Arc) Color() color.Color { return a.co }

// From returns the arc's source state.
func (a *Arc) From() StateID { return a.from }

// To returns the arc's destination state.
func (a *Arc) To() StateID { return a.to }

// Lacon returns the LACON table index (meaningful only for ArcLacon).
func (a *Arc) Lacon() int { return a.lacon }

// Negate reports the lookaround polarity (meaningful only for ArcLacon).
func (a *Arc) Negate() bool { return a.negate }

// State is one node of the NFA multigraph: identity plus in/out arc lists.
type State struct {
	id   StateID
	flag StateFlag
	ins  []ArcID
	outs []ArcID
}

// ID returns the state's identity.
func (s *State) ID() StateID { return s.id }

// Flag returns the state's role flag.
func (s *State) Flag() StateFlag { return s.flag }

// Ins returns the state's inbound arc IDs. The returned slice is owned by
// the graph; callers must not retain it across mutating calls.
func (s *State) Ins() []ArcID { return s.ins }

// Outs returns the state's outbound arc IDs, with the same aliasing
// caveat as Ins.
func (s *State) Outs() []ArcID { return s.outs }

// Graph is the NFA: an arena of states and arcs plus a pre-start and
// post-final state (spec.md §3 "NFA state").
type Graph struct {
	states []State
	arcs   []Arc

	freeArcs []ArcID

	// colorChains indexes every live ArcPlain/ArcLacon arc by its color,
	// so Rainbow/ColorComplement (and OKColors arc-fixup propagation) can
	// enumerate "every arc of color X" in O(|chain|) rather than scanning
	// every state (spec.md §4.1).
	colorChains map[color.Color][]ArcID

	pre, post StateID
}

// NewGraph creates an empty graph with its pre-start and post-final
// states already allocated.
func NewGraph() *Graph {
	g := &Graph{colorChains: make(map[color.Color][]ArcID)}
	g.pre = g.NewState(FlagPre)
	g.post = g.NewState(FlagPost)
	return g
}

// Pre returns the pre-start state.
func (g *Graph) Pre() StateID { return g.pre }

// Post returns the post-final state.
func (g *Graph) Post() StateID { return g.post }

// NewState allocates a fresh state with the given flag.
func (g *Graph) NewState(flag StateFlag) StateID {
	id := StateID(len(g.states))
	g.states = append(g.states, State{id: id, flag: flag})
	return id
}

// State returns a pointer to the state with the given ID, or nil if the
// ID is out of range. The state may have been "dropped" (inarc/outarc
// lists emptied) but is only physically removed from the slice at graph
// free time, so the pointer stays valid for the graph's lifetime.
func (g *Graph) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(g.states) {
		return nil
	}
	return &g.states[id]
}

// NStates returns the number of allocated states (including dropped ones
// still occupying a slot).
func (g *Graph) NStates() int { return len(g.states) }

// NArcs returns the number of allocated arcs (including freed ones still
// occupying a slot).
func (g *Graph) NArcs() int { return len(g.arcs) }

// Arc returns a pointer to the arc with the given ID, or nil if invalid
// or freed.
func (g *Graph) Arc(id ArcID) *Arc {
	if id == InvalidArc || int(id) >= len(g.arcs) {
		return nil
	}
	a := &g.arcs[id]
	if a.id != id {
		return nil // freed slot: FreeArc sets its id to InvalidArc
	}
	return a
}

// DropState marks spec.md §3's "dropstate" lifecycle event. It changes
// nothing: a state counts as dropped once both its in and out arc lists
// are empty, and a state that still has arcs keeps them. Callers call it
// after removing a state's arcs.
func (g *Graph) DropState(id StateID) {
	s := g.State(id)
	if s == nil {
		return
	}
	// Nothing to physically do: a stateless state with no arcs is
	// already invisible to every traversal. Kept as an explicit
	// operation (rather than implicit) so optimizer passes can call it
	// at the same points the original algorithm does.
}

// IsDead reports whether a state has no remaining arcs at all (neither
// pre nor post, which are always live).
func (g *Graph) IsDead(id StateID) bool {
	s := g.State(id)
	if s == nil {
		return true
	}
	if s.flag == FlagPre || s.flag == FlagPost {
		return false
	}
	return len(s.ins) == 0 && len(s.outs) == 0
}
