package tre

import (
	"github.com/coregx/tre/cnfa"
	"github.com/coregx/tre/color"
	"github.com/coregx/tre/dfa/lazy"
	"github.com/coregx/tre/optimize"
	"github.com/coregx/tre/parse"
)

// laconSet implements lazy.LaconTester, bridging the parser's table of
// lookaround bodies to compiled sub-DFAs the main scan's closure can
// probe at each cursor position (spec.md §4.7).
//
// Each entry's own nfa.Graph is compiled independently of the main
// pattern's graph: a lookaround body is a self-contained subexpression
// with its own Pre/Post, so it gets its own colormap-relative cnfa and
// Dfa rather than sharing the main compile's cnfa.CNFA (whose states are
// indexed relative to the outer pattern, not the lookaround's).
//
// A nested lookaround (a lookaround body that itself contains another
// lookaround) pushes its own LaconEntry onto the inner sub-parser's own
// table, which the outer parser never sees or merges in; laconSet
// bounds-checks idx against len(entries) and reports no match rather
// than panic or silently aliasing an unrelated entry. See DESIGN.md.
type laconSet struct {
	entries []*compiledLacon
	stats   *Stats
}

type compiledLacon struct {
	dfa    *lazy.Dfa
	behind bool
}

// newLaconSet compiles every lookaround body recorded during parsing.
// cm is the outer pattern's own colormap: lookaround bodies are parsed
// against that same shared colormap (parseLookaround hands its
// sub-parser the outer p.cm directly), so their compiled Dfa folds
// bytes identically to the main scan. stats is the owning Regexp's
// counters, credited once per TestLacon call.
func newLaconSet(raw []parse.LaconEntry, cm *color.Colormap, ncolors int, stats *Stats) *laconSet {
	ls := &laconSet{entries: make([]*compiledLacon, len(raw)), stats: stats}
	for i, e := range raw {
		optimize.Run(e.Graph)
		c := cnfa.Build(e.Graph, ncolors)
		// Lookarounds may themselves nest lookarounds; a nil tester here
		// would wrongly fail every nested probe, but the nested entries
		// never reach this table (see doc comment), so nil is correct
		// for the cases this set can actually resolve.
		var nested lazy.LaconTester
		d := lazy.New(c, cm, nested)
		ls.entries[i] = &compiledLacon{dfa: d, behind: e.Behind}
	}
	return ls
}

// TestLacon reports whether lookaround idx matches at the scan cursor
// in text at pos: forward from pos for a lookahead, or backward to some
// start <= pos for a lookbehind (spec.md §4.7 "lookbehind scans for a
// start position whose longest match lands exactly on pos").
func (ls *laconSet) TestLacon(idx int, text []byte, pos int) bool {
	if idx < 0 || idx >= len(ls.entries) {
		return false
	}
	if ls.stats != nil {
		ls.stats.addLaconInvocation()
	}
	e := ls.entries[idx]
	if !e.behind {
		end, _, _ := e.dfa.Longest(text, pos, len(text))
		return end >= 0
	}
	for start := pos; start >= 0; start-- {
		end, _, _ := e.dfa.Longest(text, start, pos)
		if end == pos {
			return true
		}
	}
	return false
}
