// Package parse implements the recursive-descent parser (component C5)
// that turns a lex.Token stream into both an nfa.Graph and a Subre tree
// (spec.md §4.4).
package parse

import "github.com/coregx/tre/nfa"

// Op tags a Subre node's syntactic role. The letter values echo the
// original engine's single-character subre tags (spec.md §9 "tagged
// variants").
type Op byte

const (
	OpEmpty   Op = '=' // terminal: matches whatever the NFA between Begin/End already encodes
	OpBackref Op = 'b' // backreference to an earlier capture
	OpCapture Op = '(' // capturing group wrapping Left
	OpConcat  Op = '.' // Left then Right
	OpAlt     Op = '|' // Left or Right (Right is itself an '|' node or the last branch)
	OpIter    Op = '*' // Left repeated Min..Max times
)

// Flags records properties of a subtree that the optimizer, DFA, and
// dissector all need to consult (spec.md §4.4/§4.8).
type Flags uint8

const (
	FlagLonger  Flags = 1 << iota // prefers the longest match at this node (default)
	FlagShorter                   // prefers the shortest match (non-greedy quantifier)
	FlagMixed                     // contains both LONGER- and SHORTER-preferring descendants
	FlagCap                       // contains a capturing group
	FlagBackr                     // contains a backreference
	FlagMessy                     // capture, backref, or MIXED: needs the dissector, DFA alone can't resolve it
)

// Subre is one node of the subexpression tree.
type Subre struct {
	Op    Op
	Flags Flags

	Subno int // capture number, for OpCapture/OpBackref; 0 otherwise
	Min   int // repetition lower bound, for OpIter/OpBackref
	Max   int // repetition upper bound, for OpIter/OpBackref (-1 = unbounded)

	Left, Right *Subre

	// Begin/End bound the slice of the NFA that this subtree's matching
	// behavior lives between; set as the tree is built.
	Begin, End nfa.StateID

	// Cnfa is filled in later by the cnfa package once the optimizer has
	// finished rewriting the shared graph.
	Cnfa interface{}
}

// IsMessy reports whether the subtree requires the dissector rather than
// DFA feasibility alone (spec.md glossary "MESSY").
func (s *Subre) IsMessy() bool { return s.Flags&FlagMessy != 0 }

// propagateUp ORs a child's inheritable flags (CAP, BACKR, MESSY, and the
// MIXED computation) into its parent as the tree is assembled.
func propagateUp(parent *Subre, child *Subre) {
	if child == nil {
		return
	}
	inherit := child.Flags & (FlagCap | FlagBackr | FlagMessy)
	parent.Flags |= inherit

	pref := child.Flags & (FlagLonger | FlagShorter)
	already := parent.Flags & (FlagLonger | FlagShorter)
	if pref != 0 && already != 0 && pref != already {
		parent.Flags |= FlagMixed | FlagMessy
	} else if pref != 0 {
		parent.Flags |= pref
	}
}
