// Package tre implements a Tcl/Spencer-style regular expression engine:
// colormap-folded character classes, an arc-multigraph NFA, a
// constraint-optimized ε-free form, a flattened cnfa, lazy-DFA subset
// construction with per-node sub-DFAs, and a recursive dissector for
// captures and backreferences (spec.md §4). This file wires every
// package together into the public Compile/Exec surface.
package tre

import (
	"github.com/coregx/tre/cnfa"
	"github.com/coregx/tre/color"
	"github.com/coregx/tre/dfa/lazy"
	"github.com/coregx/tre/dissect"
	"github.com/coregx/tre/lex"
	"github.com/coregx/tre/literal"
	"github.com/coregx/tre/nfa"
	"github.com/coregx/tre/optimize"
	"github.com/coregx/tre/parse"
	"github.com/coregx/tre/prefilter"
	"github.com/coregx/tre/regerr"
)

// Regexp is a compiled pattern, safe for concurrent use by multiple
// goroutines (each Exec call borrows its own Vars from the pool).
type Regexp struct {
	pattern string
	flags   Flags
	config  Config
	execCfg ExecConfig

	root  *parse.Subre
	graph *nfa.Graph
	cm    *color.Colormap
	nsub  int
	info  optimize.Info

	dfa       *lazy.Dfa
	lacons    *laconSet
	prefilter prefilter.Prefilter

	vars  *varsPool
	stats *Stats
}

// Compile parses and compiles pattern under flags using the default
// Config/ExecConfig.
func Compile(pattern string, flags Flags) (*Regexp, error) {
	return CompileWithConfig(pattern, flags, DefaultConfig(), DefaultExecConfig())
}

// MustCompile is like Compile but panics on error, for pattern literals
// known good at init time.
func MustCompile(pattern string, flags Flags) *Regexp {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic(err)
	}
	return re
}

// CompileWithConfig parses and compiles pattern with explicit resource
// and execute tuning (spec.md §6 compile-time options).
func CompileWithConfig(pattern string, flags Flags, cfg Config, execCfg ExecConfig) (*Regexp, error) {
	opts := lex.Options{
		Extended:        flags&Extended != 0,
		Advanced:        flags&AdvF != 0,
		Quote:           flags&Quote != 0,
		Expanded:        flags&Expanded != 0,
		Newline:         flags.explicitNewlineExclude(),
		InternalAnchors: flags.internalAnchors(),
	}

	noCapture := flags&NoSub != 0
	p := parse.New([]byte(pattern), opts, noCapture)
	root, err := p.Parse()
	if err != nil {
		return nil, err
	}

	g := p.Graph()
	cm := p.Colormap()
	if cfg.MaxCompileSpace > 0 && g.NStates()+g.NArcs() > cfg.MaxCompileSpace {
		return nil, regerr.New(regerr.ETooBig, -1, "pattern exceeds MaxCompileSpace", nil)
	}
	info := optimize.Run(g)
	if info.Impossible {
		return nil, regerr.New(regerr.BadPat, -1, "pattern can never match", nil)
	}

	ncolors := cm.NColors()
	c := cnfa.Build(g, ncolors)

	stats := &Stats{}
	ls := newLaconSet(p.Lacons(), cm, ncolors, stats)

	re := &Regexp{
		pattern: pattern,
		flags:   flags,
		config:  cfg,
		execCfg: execCfg,
		root:    root,
		graph:   g,
		cm:      cm,
		nsub:    p.NSub(),
		info:    info,
		lacons:  ls,
		vars:    newVarsPool(p.NSub()),
		stats:   stats,
	}
	re.dfa = lazy.New(c, cm, ls)
	if execCfg.DFACacheSize > 0 {
		re.dfa.SetCacheSize(execCfg.DFACacheSize)
	}
	attachSubDfas(root, c, cm, ls)

	if cfg.MinLiteralLen > 0 {
		seq := literal.ExtractPrefix(root, g, cm)
		if seq.Len() > 0 && seq.Get(0).Len() >= cfg.MinLiteralLen {
			re.prefilter = prefilter.NewBuilder(seq, nil).Build()
		}
	}
	if re.prefilter == nil && cfg.MinAltLiterals > 0 {
		if altSeq := literal.ExtractAlternation(root, g, cm); altSeq != nil && altSeq.Len() >= cfg.MinAltLiterals {
			if ac, acErr := buildAhoPrefilter(altSeq); acErr == nil {
				re.prefilter = ac
			}
		}
	}

	return re, nil
}

// NumSubexp returns the number of capturing groups in the pattern, not
// counting the implicit whole-match group.
func (re *Regexp) NumSubexp() int { return re.nsub }

// String returns the source pattern text, as originally passed to
// Compile.
func (re *Regexp) String() string { return re.pattern }

// Stats returns a point-in-time snapshot of this Regexp's execute-time
// counters (spec.md §6 "stats").
func (re *Regexp) Stats() Stats { return re.stats.Snapshot() }

// MatchResult is the outcome of one Exec call.
type MatchResult struct {
	Matched bool
	// Spans holds capture group byte ranges; Spans[0] is the whole
	// match. Unset groups are dissect.Unset. Only populated for a
	// successful match.
	Spans []dissect.Span
	// ColdStart is the DFA's coldstart hint (spec.md rm_extend): the
	// latest position at which the search state carried no forward
	// progress potential, or -1 if not requested or not found.
	ColdStart int
	// Overflowed reports whether a capturing match was abandoned
	// because Config.MaxRecursionDepth was exceeded (spec.md §9
	// "surface ETOOBIG on exhaustion, not stack overflow") rather than
	// because no consistent capture assignment exists. Always false
	// when Matched is true or when MaxRecursionDepth is unset.
	Overflowed bool
}

// Exec searches text for a match beginning at or after start, honoring
// NotBOL/NotEOL only insofar as they're threaded through by the caller;
// see DESIGN.md for the current scope of anchor-context overrides.
func (re *Regexp) Exec(text []byte, start int) *MatchResult {
	if start < 0 || start > len(text) {
		start = 0
	}

	matchStart, matchEnd, cold, ok := re.search(text, start)
	if !ok {
		return &MatchResult{Matched: false, ColdStart: cold}
	}

	if re.root.IsMessy() && !(re.flags&NoSub != 0 && re.execCfg.AllowNoSubFastPath) {
		d := dissect.New(text, re.nsub, re.compareFn())
		if re.config.MaxRecursionDepth > 0 {
			d.SetMaxDepth(re.config.MaxRecursionDepth)
		}
		re.stats.addDissectorCall()
		if !d.Dissect(re.root, matchStart, matchEnd) {
			return &MatchResult{Matched: false, ColdStart: cold, Overflowed: d.Overflowed()}
		}
		re.stats.addDissectorRecursion(uint64(d.Recursions()))
		spans := d.Captures()
		spans[0] = dissect.Span{Start: matchStart, End: matchEnd}
		return &MatchResult{Matched: true, Spans: spans, ColdStart: cold}
	}

	re.stats.addDFAHit()
	spans := make([]dissect.Span, re.nsub+1)
	for i := range spans {
		spans[i] = dissect.Unset
	}
	spans[0] = dissect.Span{Start: matchStart, End: matchEnd}
	return &MatchResult{Matched: true, Spans: spans, ColdStart: cold}
}

// search finds the leftmost position at or after from where the whole
// pattern matches, probing the prefilter (if any) for candidate starts
// and confirming each with the compiled DFA. cold carries the DFA's
// coldstart hint (spec.md rm_extend) from whichever probe last ran.
func (re *Regexp) search(text []byte, from int) (start, end, cold int, ok bool) {
	pos := from

	// A fresh Tracker per search retires the prefilter mid-scan if it turns
	// out to be mostly false positives on this particular haystack, without
	// touching re.prefilter itself (kept read-only so concurrent Execs on
	// the same Regexp never race over it).
	var tr *prefilter.Tracker
	if re.prefilter != nil {
		tr = prefilter.NewTracker(re.prefilter)
	}

	lastCold := -1
	for pos <= len(text) {
		if tr != nil && tr.IsActive() {
			cand := tr.Find(text, pos)
			if cand < 0 {
				return 0, 0, lastCold, false
			}
			pos = cand
		}

		var e, c int
		if re.root.Flags&parse.FlagShorter != 0 {
			got, gotCold, _ := re.dfa.Shortest(text, pos, 0, -1)
			e, c = got, gotCold
		} else {
			got, gotCold, _ := re.dfa.Longest(text, pos, len(text))
			e, c = got, gotCold
		}
		if c >= 0 {
			lastCold = c
		}

		if e >= 0 {
			if tr != nil {
				re.stats.addPrefilterHit()
				tr.ConfirmMatch()
			}
			return pos, e, lastCold, true
		}
		if tr != nil {
			re.stats.addPrefilterMiss()
		}
		pos++
	}
	return 0, 0, lastCold, false
}

func (re *Regexp) compareFn() dissect.Compare {
	if re.flags&ICase == 0 {
		return dissect.ExactCompare
	}
	return func(a, b byte) bool {
		return foldByte(a) == foldByte(b)
	}
}

func foldByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// effectiveSpan derives the NFA span a subre node's matching behavior
// occupies. OpEmpty/OpCapture/OpBackref/OpIter carry Begin/End directly
// from the parser; OpConcat and OpAlt don't (they're assembled purely
// from their children), so their span is derived: a concat's span runs
// from its left child's begin to its right child's end, and an
// alternation's span is whichever branch's span, since parseBranch
// wires every branch between the same pair of states.
func effectiveSpan(t *parse.Subre) (begin, end nfa.StateID, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	switch t.Op {
	case parse.OpEmpty, parse.OpCapture, parse.OpBackref, parse.OpIter:
		return t.Begin, t.End, true
	case parse.OpConcat:
		b, _, ok1 := effectiveSpan(t.Left)
		_, e, ok2 := effectiveSpan(t.Right)
		return b, e, ok1 && ok2
	case parse.OpAlt:
		return effectiveSpan(t.Left)
	default:
		return 0, 0, false
	}
}

// attachSubDfas walks the subre tree bottom-up, giving every node whose
// span maps onto surviving cnfa states its own lazy.Dfa rooted at that
// span (spec.md §4.8: the dissector probes a node's own sub-DFA, not
// the whole-pattern one, to find candidate split points).
func attachSubDfas(t *parse.Subre, c *cnfa.CNFA, cm *color.Colormap, lacons *laconSet) {
	if t == nil {
		return
	}
	attachSubDfas(t.Left, c, cm, lacons)
	attachSubDfas(t.Right, c, cm, lacons)

	begin, end, ok := effectiveSpan(t)
	if !ok {
		return
	}
	si, ok1 := c.StateIndex[begin]
	ei, ok2 := c.StateIndex[end]
	if !ok1 || !ok2 {
		return
	}
	t.Cnfa = lazy.NewAt(c, cm, lacons, si, ei)
}
