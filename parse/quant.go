package parse

import (
	"github.com/coregx/tre/color"
	"github.com/coregx/tre/lex"
	"github.com/coregx/tre/nfa"
)

// parseQuant consumes an optional postfix quantifier (`*`, `+`, `?`, or
// `{m,n}`, each with an optional trailing `?` for the non-greedy sense)
// and applies it to the atom already wired between begin and end
// (spec.md §4.4 parseqatom decision rules).
func (p *Parser) parseQuant(node *Subre, begin, end nfa.StateID) *Subre {
	var m, n int
	switch p.tok.Kind {
	case lex.Star:
		p.advance()
		m, n = 0, -1
	case lex.Plus:
		p.advance()
		m, n = 1, -1
	case lex.Quest:
		p.advance()
		m, n = 0, 1
	case lex.LBrace:
		var ok bool
		m, n, ok = p.parseBound()
		if !ok {
			return node
		}
	default:
		return node
	}

	shortest := false
	if p.tok.Kind == lex.PREFER {
		shortest = true
		p.advance()
	}

	if m > n && n != -1 {
		p.fail(ErrBadBrace)
		return node
	}

	messy := node.Flags&(FlagCap|FlagBackr) != 0

	if m == 0 && n == 0 {
		p.g.DelSub(begin, end)
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, begin, end)
		return &Subre{Op: OpEmpty, Begin: begin, End: end}
	}
	if m == 1 && n == 1 {
		p.applyPreference(node, shortest)
		return node
	}

	if !messy {
		p.repeatInline(begin, end, m, n)
		result := &Subre{Op: OpEmpty, Begin: begin, End: end}
		p.applyPreference(result, shortest)
		return result
	}

	// Capturing or backref-carrying body: the NFA keeps exactly the one
	// parsed occurrence (it must, so later backreferences still have a
	// single subs[subno] entry to duplicate); the repeat count is
	// recorded on an OpIter node instead, for the dissector to enumerate
	// at execute time (spec.md §4.4, §4.8 case '*').
	iter := &Subre{Op: OpIter, Min: m, Max: n, Left: node, Begin: begin, End: end}
	propagateUp(iter, node)
	p.applyPreference(iter, shortest)
	return iter
}

func (p *Parser) applyPreference(node *Subre, shortest bool) {
	if shortest {
		node.Flags |= FlagShorter
	} else {
		node.Flags |= FlagLonger
	}
}

// parseBound parses the digits of a `{m,n}`, `{m,}`, or `{m}` interval,
// already past the opening LBrace.
func (p *Parser) parseBound() (m, n int, ok bool) {
	m, gotM := p.parseInt()
	if p.tok.Kind == lex.PLAIN && p.tok.Ch == ',' {
		p.advance()
		if p.tok.Kind == lex.RBrace {
			n = -1
		} else {
			var gotN bool
			n, gotN = p.parseInt()
			if !gotN {
				p.fail(ErrBadBrace)
				return 0, 0, false
			}
		}
	} else {
		if !gotM {
			p.fail(ErrBadBrace)
			return 0, 0, false
		}
		n = m
	}
	if p.tok.Kind != lex.RBrace {
		p.fail(ErrBadBrace)
		return 0, 0, false
	}
	p.advance()
	if !gotM {
		m = 0
	}
	return m, n, true
}

func (p *Parser) parseInt() (int, bool) {
	if p.tok.Kind != lex.DIGIT {
		return 0, false
	}
	v := 0
	got := false
	for p.tok.Kind == lex.DIGIT {
		v = v*10 + p.tok.Num
		got = true
		p.advance()
	}
	return v, got
}

// repeatInline expands a capture/backref-free atom already wired between
// begin and end into m..n copies directly on the NFA (spec.md §4.4
// `repeat`). The already-parsed occurrence is first detached into its
// own template pair (tb, te) via dup_nfa, leaving begin/end as pure
// external boundary states that are never themselves reused as a clone
// source or target — only the stable (tb, te) template and freshly
// allocated chain states are, so reaching `end` always means exactly
// "every mandatory copy has matched", never a premature bypass.
func (p *Parser) repeatInline(begin, end nfa.StateID, m, n int) {
	tb := p.g.NewState(nfa.FlagPlain)
	te := p.g.NewState(nfa.FlagPlain)
	if err := p.g.DupNFA(begin, end, tb, te); err != nil {
		p.fail(err)
		return
	}
	p.g.DelSub(begin, end)
	p.g.NewArc(nfa.ArcEmpty, color.NoColor, begin, tb)

	switch {
	case m == 0 && n == 1:
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, te, end)
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, begin, end)
		return
	case m == 0 && n == -1:
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, te, end)
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, te, tb)
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, begin, end)
		return
	case m == 1 && n == -1:
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, te, end)
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, te, tb)
		return
	case m == 1 && n == 1:
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, te, end)
		return
	}

	if m == 0 {
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, begin, end)
	}
	tail := te
	count := 1
	for count < m {
		nb := p.g.NewState(nfa.FlagPlain)
		if err := p.g.DupNFA(tb, te, tail, nb); err != nil {
			p.fail(err)
			return
		}
		tail = nb
		count++
	}

	if n == -1 {
		nb := p.g.NewState(nfa.FlagPlain)
		if err := p.g.DupNFA(tb, te, tail, nb); err != nil {
			p.fail(err)
			return
		}
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, nb, tail)
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, tail, end)
		return
	}

	p.g.NewArc(nfa.ArcEmpty, color.NoColor, tail, end)
	for count < n {
		nb := p.g.NewState(nfa.FlagPlain)
		if err := p.g.DupNFA(tb, te, tail, nb); err != nil {
			p.fail(err)
			return
		}
		tail = nb
		count++
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, tail, end)
	}
}
