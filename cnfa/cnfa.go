// Package cnfa flattens an optimized nfa.Graph into the compact,
// read-only automaton component C7 builds (spec.md §4.6): a
// renumbered, contiguous state array where each state's arcs are a
// sorted slice into one shared arena, ready for the lazy-DFA subset
// construction (package dfa/lazy) to index without further pointer
// chasing.
package cnfa

import (
	"sort"

	"github.com/coregx/tre/color"
	"github.com/coregx/tre/internal/conv"
	"github.com/coregx/tre/nfa"
)

// Kind distinguishes what an Arc tests. Only PLAIN actually consumes a
// byte of input; every other kind is a zero-width assertion evaluated at
// the current cursor without advancing it (spec.md §4.5/§4.6).
type Kind uint8

const (
	Plain Kind = iota
	BOL
	EOL
	BOS
	EOS
	Ahead  // peeks at the not-yet-consumed byte's color without advancing
	Behind // tests the already-consumed byte's color
	Lacon
)

// Arc is one compacted transition: {color, to} per spec.md §4.6, plus
// the Kind/Lacon tag a real color-keyed pair alone can't carry.
type Arc struct {
	Co     color.Color // real character color for Plain/Ahead/Behind; ncolors plus the Lacon index for Lacon; NoColor otherwise
	To     uint32      // destination state index into CNFA.States
	Kind   Kind
	Lacon  int  // LACON table index, meaningful only when Kind == Lacon
	Negate bool // lookaround polarity, meaningful only when Kind == Lacon
}

// State is one compacted NFA state: a span into the shared Arcs arena.
type State struct {
	ArcOff   uint32
	ArcCount uint32
	// NoProgress marks a state none of whose outbound arcs is Plain: the
	// lazy-DFA executor must keep closing over its zero-width arcs rather
	// than treat arrival here as forward progress (spec.md §4.6).
	NoProgress bool
}

// CNFA is the flattened, read-only automaton.
type CNFA struct {
	States  []State
	Arcs    []Arc
	NColors int
	Pre     uint32
	Post    uint32

	// StateIndex maps an nfa.Graph StateID that survived compaction to
	// its compact index, letting a caller build a sub-DFA rooted at any
	// surviving state (not just Pre) — e.g. a subre node's own Begin/End
	// span (the root package's attachSubDfas uses it this way).
	StateIndex map[nfa.StateID]uint32
}

// Outs returns state i's arcs, already sorted by (Kind, Co, To).
func (c *CNFA) Outs(i uint32) []Arc {
	s := c.States[i]
	return c.Arcs[s.ArcOff : s.ArcOff+s.ArcCount]
}

// Build compacts g (already run through package optimize) into a CNFA.
// ncolors is the live color count from the colormap used to build g,
// needed to encode LACON arcs per spec.md §4.6's "co >= ncolors" rule.
func Build(g *nfa.Graph, ncolors int) *CNFA {
	remap := make(map[nfa.StateID]uint32)
	var order []nfa.StateID
	for i := 0; i < g.NStates(); i++ {
		id := nfa.StateID(i)
		if g.IsDead(id) && id != g.Pre() && id != g.Post() {
			continue
		}
		remap[id] = conv.IntToUint32(len(order))
		order = append(order, id)
	}

	c := &CNFA{
		States:     make([]State, len(order)),
		NColors:    ncolors,
		Pre:        remap[g.Pre()],
		Post:       remap[g.Post()],
		StateIndex: remap,
	}

	for newID, oldID := range order {
		s := g.State(oldID)
		arcs := make([]Arc, 0, len(s.Outs()))
		noProgress := true
		for _, aid := range s.Outs() {
			a := g.Arc(aid)
			if a == nil {
				continue
			}
			to, ok := remap[a.To()]
			if !ok {
				continue // target pruned by optimize's cleanup; arc is stale
			}
			ca := toCompactArc(a, to, ncolors)
			if ca.Kind == Plain {
				noProgress = false
			}
			arcs = append(arcs, ca)
		}
		sort.Slice(arcs, func(i, j int) bool {
			if arcs[i].Kind != arcs[j].Kind {
				return arcs[i].Kind < arcs[j].Kind
			}
			if arcs[i].Co != arcs[j].Co {
				return arcs[i].Co < arcs[j].Co
			}
			return arcs[i].To < arcs[j].To
		})

		c.States[newID] = State{
			ArcOff:     conv.IntToUint32(len(c.Arcs)),
			ArcCount:   conv.IntToUint32(len(arcs)),
			NoProgress: noProgress,
		}
		c.Arcs = append(c.Arcs, arcs...)
	}

	return c
}

func toCompactArc(a *nfa.Arc, to uint32, ncolors int) Arc {
	switch a.Type() {
	case nfa.ArcPlain:
		return Arc{Co: a.Color(), To: to, Kind: Plain}
	case nfa.ArcBOL:
		return Arc{Co: color.NoColor, To: to, Kind: BOL}
	case nfa.ArcEOL:
		return Arc{Co: color.NoColor, To: to, Kind: EOL}
	case nfa.ArcBOS:
		return Arc{Co: color.NoColor, To: to, Kind: BOS}
	case nfa.ArcEOS:
		return Arc{Co: color.NoColor, To: to, Kind: EOS}
	case nfa.ArcAhead:
		return Arc{Co: a.Color(), To: to, Kind: Ahead}
	case nfa.ArcBehind:
		return Arc{Co: a.Color(), To: to, Kind: Behind}
	case nfa.ArcLacon:
		return Arc{
			Co:     color.Color(ncolors + a.Lacon()),
			To:     to,
			Kind:   Lacon,
			Lacon:  a.Lacon(),
			Negate: a.Negate(),
		}
	default:
		return Arc{Co: color.NoColor, To: to, Kind: Plain}
	}
}
