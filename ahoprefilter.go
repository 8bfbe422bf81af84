package tre

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/tre/literal"
)

// ahoPrefilter adapts a compiled github.com/coregx/ahocorasick.Automaton
// to the prefilter.Prefilter interface, for patterns whose top-level
// alternation is large enough (Config.MinAltLiterals) that probing each
// branch's own sub-DFA in turn is slower than one multi-pattern scan
// (SPEC_FULL.md DOMAIN STACK, mirroring the teacher's
// meta.Engine.ahoCorasick role).
type ahoPrefilter struct {
	auto *ahocorasick.Automaton
}

// buildAhoPrefilter compiles seq's literals into an Aho-Corasick
// automaton, or returns (nil, err) if the automaton can't be built
// (e.g. a degenerate empty pattern set).
func buildAhoPrefilter(seq *literal.Seq) (*ahoPrefilter, error) {
	b := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		b.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &ahoPrefilter{auto: auto}, nil
}

func (p *ahoPrefilter) Find(haystack []byte, start int) int {
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsComplete is false: every top-level alternation branch is only
// known to be a complete literal in isolation, but the pattern as a
// whole may wrap the alternation in captures, anchors, or trailing
// structure the automaton can't see, so a hit still needs DFA
// confirmation.
func (p *ahoPrefilter) IsComplete() bool { return false }

func (p *ahoPrefilter) LiteralLen() int { return 0 }

func (p *ahoPrefilter) HeapBytes() int { return 0 }
