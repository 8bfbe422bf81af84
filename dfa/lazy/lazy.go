package lazy

import (
	"github.com/coregx/tre/cnfa"
	"github.com/coregx/tre/color"
)

// LaconTester evaluates one LACON lookaround entry at a given cursor
// position during a scan, closing the recursion spec.md §4.7 describes
// ("invoking longest on each lookahead sub-DFA against the current
// cursor"). Implementations wrap a nested Dfa over the lookaround's own
// compiled sub-cnfa; package dfa/lazy stays agnostic of how that's built
// so it doesn't need to import the parser.
type LaconTester interface {
	// TestLacon reports whether the positive sense of lookaround idx
	// matches with the scan cursor at pos in text (Negate is applied by
	// the caller, not the tester).
	TestLacon(idx int, text []byte, pos int) bool
}

// Dfa drives lazy subset construction over a compiled cnfa.CNFA.
type Dfa struct {
	c       *cnfa.CNFA
	cm      *color.Colormap
	lacons  LaconTester
	accept  uint32
	cache   *cache
	starter *sset
}

// New builds a Dfa rooted at c's own Pre/Post, the whole-pattern case.
// lacons may be nil if the pattern has no lookarounds.
func New(c *cnfa.CNFA, cm *color.Colormap, lacons LaconTester) *Dfa {
	return NewAt(c, cm, lacons, c.Pre, c.Post)
}

// NewAt builds a Dfa rooted at an arbitrary start state and accepting at
// an arbitrary target state, both already-compacted cnfa indices. This
// is what lets a single compiled CNFA serve as the backing store for a
// subre node's own sub-DFA (its Begin/End span via cnfa.CNFA.StateIndex)
// without recompiling a separate CNFA per node.
func NewAt(c *cnfa.CNFA, cm *color.Colormap, lacons LaconTester, start, accept uint32) *Dfa {
	d := &Dfa{c: c, cm: cm, lacons: lacons, accept: accept, cache: newCache(len(c.States))}
	d.starter = d.cache.intern([]uint32{start}, Starter|Locked)
	return d
}

// SetCacheSize overrides the lazy subset-construction cache's eviction
// ceiling (default 2x the compacted state count). Lets a caller trade
// memory for fewer cache-miss recomputations, or cap memory on a
// resource-constrained host. Sizes below 4 are ignored.
func (d *Dfa) SetCacheSize(n int) {
	d.cache.resize(n)
}

func (d *Dfa) colorOf(b byte) color.Color {
	if d.cm == nil {
		return color.White
	}
	return d.cm.GetColor(b)
}

// closureAt expands members through every zero-width arc satisfied at
// position pos in text, returning the closed member set. Plain arcs are
// left untouched — closureAt never consumes a byte.
func (d *Dfa) closureAt(members []uint32, text []byte, pos int) []uint32 {
	seen := make(map[uint32]bool, len(members))
	work := append([]uint32(nil), members...)
	for _, m := range work {
		seen[m] = true
	}
	for i := 0; i < len(work); i++ {
		st := work[i]
		for _, a := range d.c.Outs(st) {
			if a.Kind == cnfa.Plain || seen[a.To] {
				continue
			}
			if d.satisfied(a, text, pos) {
				seen[a.To] = true
				work = append(work, a.To)
			}
		}
	}
	return work
}

func (d *Dfa) satisfied(a cnfa.Arc, text []byte, pos int) bool {
	switch a.Kind {
	case cnfa.BOL:
		return pos == 0 || text[pos-1] == '\n'
	case cnfa.EOL:
		return pos == len(text) || text[pos] == '\n'
	case cnfa.BOS:
		return pos == 0
	case cnfa.EOS:
		return pos == len(text)
	case cnfa.Ahead:
		return pos < len(text) && d.colorOf(text[pos]) == a.Co
	case cnfa.Behind:
		return pos > 0 && d.colorOf(text[pos-1]) == a.Co
	case cnfa.Lacon:
		if d.lacons == nil {
			return false
		}
		hit := d.lacons.TestLacon(a.Lacon, text, pos)
		if a.Negate {
			return !hit
		}
		return hit
	default:
		return false
	}
}

// step consumes one byte of the given color from members, returning the
// raw (pre-closure) image: every Plain arc's destination.
func (d *Dfa) step(s *sset, co color.Color) []uint32 {
	if dst, ok := s.trans[int(co)]; ok {
		return dst.members
	}
	var next []uint32
	for _, m := range s.members {
		for _, a := range d.c.Outs(m) {
			if a.Kind == cnfa.Plain && a.Co == co {
				next = append(next, a.To)
			}
		}
	}
	dst := d.cache.intern(next, 0)
	s.trans[int(co)] = dst
	return dst.members
}

func (d *Dfa) isPostState(members []uint32) bool {
	for _, m := range members {
		if m == d.accept {
			return true
		}
	}
	return false
}

// Longest scans text[start:stop] forward, returning the end offset of
// the longest match beginning at start, or -1 if none. It runs a
// virtual end-of-subject transition at stop before giving up (spec.md
// §4.7 "longest").
// cold is the last position at which the scan's current state set carried
// no forward-match potential (spec.md §4.7 "cold start"): every member
// state is NoProgress. -1 if no such position was ever observed, which a
// caller can surface as an anchored-retry hint (REG_EXPECT/rm_extend).
func (d *Dfa) Longest(text []byte, start, stop int) (end int, cold int, hitEnd bool) {
	members := d.closureAt(d.starter.members, text, start)
	end = -1
	cold = -1
	if d.isPostState(members) {
		end = start
	}
	pos := start
	for pos < stop {
		cur := d.cache.intern(members, 0)
		if allNoProgress(d.c, cur.members) {
			cold = pos
		}
		co := d.colorOf(text[pos])
		raw := d.step(cur, co)
		if len(raw) == 0 {
			break
		}
		pos++
		members = d.closureAt(raw, text, pos)
		if d.isPostState(members) {
			end = pos
		}
	}
	hitEnd = pos == len(text)
	return end, cold, hitEnd
}

// Shortest scans text[start:] forward, returning the first offset
// pos >= start+min at which a match completes, or -1 if none is found
// by the time pos reaches start+max (max < 0 means unbounded, per
// spec.md §4.7 "shortest").
func (d *Dfa) Shortest(text []byte, start, min, max int) (end int, cold int, hitEnd bool) {
	members := d.closureAt(d.starter.members, text, start)
	cold = -1
	if min == 0 && d.isPostState(members) {
		return start, cold, start == len(text)
	}
	pos := start
	lastNoProgress := -1
	for {
		if max >= 0 && pos-start >= max {
			break
		}
		if pos >= len(text) {
			break
		}
		co := d.colorOf(text[pos])
		cur := d.cache.intern(members, 0)
		if allNoProgress(d.c, cur.members) {
			lastNoProgress = pos
		}
		raw := d.step(cur, co)
		if len(raw) == 0 {
			break
		}
		pos++
		members = d.closureAt(raw, text, pos)
		if pos-start >= min && d.isPostState(members) {
			return pos, cold, pos == len(text)
		}
	}
	if lastNoProgress >= 0 {
		cold = lastNoProgress
	}
	return -1, cold, pos == len(text)
}

func allNoProgress(c *cnfa.CNFA, members []uint32) bool {
	for _, m := range members {
		if !c.States[m].NoProgress {
			return false
		}
	}
	return true
}
