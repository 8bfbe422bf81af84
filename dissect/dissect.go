// Package dissect implements the recursive dissector (component C10,
// spec.md §4.8): for MESSY subre trees — those carrying a capture, a
// backreference, or a mix of greedy/non-greedy descendants — DFA
// feasibility alone can prove a match exists but not where its capture
// groups fall, so cdissect recurses the subre tree, using each node's
// own compiled sub-DFA only to propose candidate split points.
package dissect

import (
	"github.com/coregx/tre/dfa/lazy"
	"github.com/coregx/tre/parse"
)

// Span is a captured or probed half-open byte range, [Start, End). An
// unset capture is {-1, -1}.
type Span struct {
	Start, End int
}

// Unset is the zero value of an unmatched capture group.
var Unset = Span{Start: -1, End: -1}

// Compare is the character-comparison predicate backreference matching
// uses (case-sensitive equality, or a case-folding variant).
type Compare func(a, b byte) bool

// ExactCompare is the default case-sensitive Compare.
func ExactCompare(a, b byte) bool { return a == b }

// Dissector holds the per-execute working state: the subject text, the
// capture vector, and the comparison predicate. One Dissector serves a
// single Dissect call tree; callers construct a fresh one per execute
// (spec.md §5 "within execute, ... owned by one vars").
type Dissector struct {
	text       []byte
	caps       []Span
	cmp        Compare
	recursions int
	maxDepth   int
	depth      int
	overflowed bool
}

// New allocates a Dissector with nsub+1 capture slots (slot 0 is the
// whole-match span, filled in by the caller after Dissect succeeds).
func New(text []byte, nsub int, cmp Compare) *Dissector {
	if cmp == nil {
		cmp = ExactCompare
	}
	caps := make([]Span, nsub+1)
	for i := range caps {
		caps[i] = Unset
	}
	return &Dissector{text: text, caps: caps, cmp: cmp}
}

// SetMaxDepth bounds cdissect's recursion depth (spec.md §9 "guard with
// an explicit stack-depth budget"). Zero (the default) leaves it
// unbounded. Once the bound is exceeded, Dissect reports no match
// instead of recursing further, rather than risking a stack overflow on
// a pathologically nested tree.
func (d *Dissector) SetMaxDepth(n int) { d.maxDepth = n }

// Overflowed reports whether a Dissect call tree hit the configured
// max depth, letting a caller distinguish "genuinely no match" from
// "gave up due to the recursion budget".
func (d *Dissector) Overflowed() bool { return d.overflowed }

// Captures returns the capture vector, indexed by subexpression number.
func (d *Dissector) Captures() []Span { return d.caps }

// Recursions returns the number of Dissect calls made so far by this
// Dissector, a proxy for match-time cost the caller may feed into Stats.
func (d *Dissector) Recursions() int { return d.recursions }

// dfaOf extracts the compiled per-node sub-DFA the top-level Compile
// step attaches to t.Cnfa, or nil if none was compiled (OpEmpty leaves
// are dissected by construction, not by probing a DFA).
func dfaOf(t *parse.Subre) *lazy.Dfa {
	if t == nil || t.Cnfa == nil {
		return nil
	}
	d, _ := t.Cnfa.(*lazy.Dfa)
	return d
}

// acceptsExactly reports whether t's own sub-DFA accepts the full span
// [begin,end) — i.e. the longest match starting at begin stops exactly
// at end when bounded there.
func acceptsExactly(t *parse.Subre, text []byte, begin, end int) bool {
	d := dfaOf(t)
	if d == nil {
		return begin == end // OpEmpty-like node with no DFA: only an empty span trivially "accepts"
	}
	got, _, _ := d.Longest(text, begin, end)
	return got == end
}

// Dissect recurses over t, the subre tree already proven feasible by the
// DFA over [begin,end), resolving capture groups and verifying
// backreferences (spec.md §4.8). It reports whether a consistent
// assignment of captures exists for this span.
func (d *Dissector) Dissect(t *parse.Subre, begin, end int) bool {
	d.recursions++
	if d.maxDepth > 0 {
		d.depth++
		defer func() { d.depth-- }()
		if d.depth > d.maxDepth {
			d.overflowed = true
			return false
		}
	}
	if t == nil {
		return begin == end
	}
	switch t.Op {
	case parse.OpEmpty:
		return true
	case parse.OpBackref:
		return d.dissectBackref(t, begin, end)
	case parse.OpCapture:
		if !d.Dissect(t.Left, begin, end) {
			return false
		}
		d.caps[t.Subno] = Span{Start: begin, End: end}
		return true
	case parse.OpConcat:
		return d.dissectConcat(t, begin, end)
	case parse.OpAlt:
		return d.dissectAlt(t, begin, end)
	case parse.OpIter:
		return d.dissectIter(t, begin, end)
	default:
		return false
	}
}

func (d *Dissector) dissectBackref(t *parse.Subre, begin, end int) bool {
	ref := d.caps[t.Subno]
	if ref == Unset {
		return false
	}
	refLen := ref.End - ref.Start
	span := end - begin
	if refLen == 0 {
		return span == 0
	}
	if span%refLen != 0 {
		return false
	}
	k := span / refLen
	if k < t.Min || (t.Max >= 0 && k > t.Max) {
		return false
	}
	for i := 0; i < k; i++ {
		off := begin + i*refLen
		for j := 0; j < refLen; j++ {
			if !d.cmp(d.text[off+j], d.text[ref.Start+j]) {
				return false
			}
		}
	}
	return true
}

// dissectConcat probes candidate midpoints via the left child's own
// sub-DFA: longest-first when Left prefers LONGER, shortest-first when
// it prefers SHORTER (spec.md §4.8 "."), shrinking/growing the candidate
// and retrying until both halves dissect successfully or no candidate
// remains.
func (d *Dissector) dissectConcat(t *parse.Subre, begin, end int) bool {
	left, right := t.Left, t.Right
	if left.Flags&parse.FlagShorter != 0 {
		return d.probeShortestFirst(left, right, begin, end)
	}
	return d.probeLongestFirst(left, right, begin, end)
}

func (d *Dissector) probeLongestFirst(left, right *parse.Subre, begin, end int) bool {
	ldfa := dfaOf(left)
	hi := end
	for hi >= begin {
		var m int
		if ldfa == nil {
			m = begin // OpEmpty left: only the zero-width split is possible
		} else {
			got, _, _ := ldfa.Longest(d.text, begin, hi)
			if got < begin {
				return false
			}
			m = got
		}
		if acceptsExactly(right, d.text, m, end) && d.Dissect(left, begin, m) && d.Dissect(right, m, end) {
			return true
		}
		if m <= begin {
			return false
		}
		hi = m - 1
	}
	return false
}

func (d *Dissector) probeShortestFirst(left, right *parse.Subre, begin, end int) bool {
	ldfa := dfaOf(left)
	lo := 0
	for begin+lo <= end {
		var m int
		if ldfa == nil {
			m = begin
		} else {
			got, _, _ := ldfa.Shortest(d.text, begin, lo, end-begin)
			if got < 0 {
				return false
			}
			m = got
		}
		if acceptsExactly(right, d.text, m, end) && d.Dissect(left, begin, m) && d.Dissect(right, m, end) {
			return true
		}
		lo = (m - begin) + 1
	}
	return false
}

// dissectAlt walks the right-spine alternation chain, taking the first
// branch whose own sub-DFA accepts [begin,end) in full and whose
// dissection also succeeds (spec.md §4.8 "|").
func (d *Dissector) dissectAlt(t *parse.Subre, begin, end int) bool {
	cur := t
	for cur != nil {
		branch := cur.Left
		if cur.Op != parse.OpAlt {
			branch = cur
		}
		if acceptsExactly(branch, d.text, begin, end) && d.Dissect(branch, begin, end) {
			return true
		}
		if cur.Op != parse.OpAlt {
			break
		}
		cur = cur.Right
	}
	return false
}

// dissectIter enumerates a split of [begin,end) into k copies of the
// iterated body, k within [effMin,effMax] (spec.md §4.8 "*"). effMin is
// bumped to 1 when the span is non-empty but Min is 0, since a non-empty
// span can only have been consumed by at least one real iteration.
func (d *Dissector) dissectIter(t *parse.Subre, begin, end int) bool {
	effMin := t.Min
	if effMin == 0 && begin < end {
		effMin = 1
	}
	effMax := t.Max
	if effMax < 0 {
		effMax = end - begin + 1
	}
	return d.iterTry(t.Left, begin, end, 0, effMin, effMax)
}

func (d *Dissector) iterTry(body *parse.Subre, begin, end, count, min, max int) bool {
	if begin == end {
		return count >= min
	}
	if count >= max {
		return false
	}
	bdfa := dfaOf(body)
	if body.Flags&parse.FlagShorter != 0 {
		lo := 0
		for begin+lo <= end {
			var m int
			if bdfa == nil {
				m = begin
			} else {
				got, _, _ := bdfa.Shortest(d.text, begin, lo, end-begin)
				if got < 0 {
					return false
				}
				m = got
			}
			if m > begin && d.Dissect(body, begin, m) && d.iterTry(body, m, end, count+1, min, max) {
				return true
			}
			if m == begin {
				break // zero-width body iteration makes no progress; stop probing
			}
			lo = (m - begin) + 1
		}
		return false
	}

	hi := end
	for hi >= begin {
		var m int
		if bdfa == nil {
			m = begin
		} else {
			got, _, _ := bdfa.Longest(d.text, begin, hi)
			if got < begin {
				return false
			}
			m = got
		}
		if m > begin && d.Dissect(body, begin, m) && d.iterTry(body, m, end, count+1, min, max) {
			return true
		}
		if m <= begin {
			return false
		}
		hi = m - 1
	}
	return false
}
