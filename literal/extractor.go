// Extraction of a mandatory leading literal run from a compiled subre
// tree (SPEC_FULL.md DOMAIN STACK), grounded on the teacher's
// literal/extractor.go shape but walking a parse.Subre + nfa.Graph pair
// instead of a regexp/syntax.Regexp: each OpEmpty leaf's matching byte
// lives as a single-color Plain arc in the shared graph between the
// node's Begin and End states, so recovering the literal means reading
// that arc's color and asking the colormap whether the color is a
// singleton (i.e. still names exactly one byte).
package literal

import (
	"github.com/coregx/tre/color"
	"github.com/coregx/tre/nfa"
	"github.com/coregx/tre/parse"
)

// ExtractPrefix returns the longest mandatory leading literal run of t —
// the concatenation of single-byte OpEmpty leaves before the first node
// that isn't a plain literal character — as a one-literal Seq. The
// literal is marked Complete only when the run exhausts t entirely (the
// whole pattern is that literal, so a match needs no further DFA work).
// Returns an empty Seq when the tree has no usable leading literal (e.g.
// it starts with an alternation, a class wider than one byte, or a
// capture around something non-literal).
func ExtractPrefix(t *parse.Subre, g *nfa.Graph, cm *color.Colormap) *Seq {
	var buf []byte
	complete := walkPrefix(t, g, cm, &buf)
	if len(buf) == 0 {
		return NewSeq()
	}
	return NewSeq(NewLiteral(buf, complete))
}

// walkPrefix appends t's mandatory leading literal bytes to buf and
// reports whether t was consumed in its entirety as literal text (so an
// enclosing OpConcat knows whether it may keep descending into a
// following sibling). A false return leaves buf holding whatever
// literal prefix was already collected; it is not an error, just the
// point where the literal run ends.
func walkPrefix(t *parse.Subre, g *nfa.Graph, cm *color.Colormap, buf *[]byte) bool {
	if t == nil {
		return true
	}
	switch t.Op {
	case parse.OpEmpty:
		b, ok := singleByte(t, g, cm)
		if !ok {
			return false
		}
		*buf = append(*buf, b)
		return true
	case parse.OpConcat:
		if !walkPrefix(t.Left, g, cm, buf) {
			return false
		}
		return walkPrefix(t.Right, g, cm, buf)
	case parse.OpCapture:
		// A capturing group around a literal run is still a literal run
		// for prefilter purposes; only the capture bookkeeping is lost,
		// not the byte content.
		return walkPrefix(t.Left, g, cm, buf)
	default:
		return false
	}
}

// ExtractAlternation recovers one complete literal per branch of t's
// top-level alternation chain, for the Aho-Corasick prefilter path
// (SPEC_FULL.md DOMAIN STACK). It returns nil unless every branch
// reduces entirely to literal bytes — a branch with an `.`, a class, a
// repeat, or anything else non-literal defeats the automaton's whole
// purpose, since a hit would still need full verification against that
// branch's own structure rather than just confirming the literal itself
// occurred.
func ExtractAlternation(t *parse.Subre, g *nfa.Graph, cm *color.Colormap) *Seq {
	var lits []Literal
	if !collectAltBranches(t, g, cm, &lits) || len(lits) < 2 {
		return nil
	}
	return NewSeq(lits...)
}

func collectAltBranches(t *parse.Subre, g *nfa.Graph, cm *color.Colormap, out *[]Literal) bool {
	if t == nil {
		return false
	}
	if t.Op == parse.OpAlt {
		return collectAltBranches(t.Left, g, cm, out) && collectAltBranches(t.Right, g, cm, out)
	}
	var buf []byte
	if !walkPrefix(t, g, cm, &buf) || len(buf) == 0 {
		return false
	}
	*out = append(*out, NewLiteral(buf, true))
	return true
}

// singleByte reports the one byte an OpEmpty leaf matches, if its arc's
// color still names exactly one byte. A leaf whose color class was
// never split down to a singleton (e.g. ".", "[a-z]") can't contribute a
// literal byte.
func singleByte(t *parse.Subre, g *nfa.Graph, cm *color.Colormap) (byte, bool) {
	s := g.State(t.Begin)
	if s == nil {
		return 0, false
	}
	for _, aid := range s.Outs() {
		a := g.Arc(aid)
		if a == nil || a.Type() != nfa.ArcPlain || a.To() != t.End {
			continue
		}
		members := cm.Members(a.Color())
		if len(members) != 1 {
			return 0, false
		}
		return members[0], true
	}
	return 0, false
}
