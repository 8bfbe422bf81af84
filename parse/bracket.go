package parse

import (
	"github.com/coregx/tre/lex"
	"github.com/coregx/tre/nfa"
)

// parseBracket parses the body of a `[...]` expression, already past the
// opening LBracket, and wires its PLAIN/negated arcs between cur and
// next (spec.md §4.1/§4.4).
func (p *Parser) parseBracket(cur, next nfa.StateID) *Subre {
	negate := false
	if p.tok.Kind == lex.PLAIN && p.tok.Ch == '^' {
		negate = true
		p.advance()
	}

	var members []byte
	addMember := func(b byte) { members = append(members, b) }
	addClass := func(name string, neg bool) {
		for ch := 0; ch < 256; ch++ {
			if classMember(name, byte(ch)) != neg {
				addMember(byte(ch))
			}
		}
	}

	first := true
	for {
		if p.failed() {
			break
		}
		if p.tok.Kind == lex.RBracket && !first {
			p.advance()
			break
		}
		first = false
		switch p.tok.Kind {
		case lex.RBracket:
			// ']' as the very first member is a literal, not the closer.
			addMember(']')
			p.advance()
		case lex.CCLASS:
			addClass(p.tok.Name, p.tok.Negate)
			p.advance()
			if p.tok.Kind == lex.BRACKEND {
				p.advance()
			}
		case lex.COLLEL, lex.ECLASS:
			// Degenerate single-character collating symbols / equivalence
			// classes (SPEC_FULL.md SUPPLEMENTED FEATURES): the body is a
			// run of PLAIN tokens up to BRACKEND, treated as one literal
			// character per byte seen (no real locale collation).
			p.advance()
			for p.tok.Kind == lex.PLAIN {
				addMember(p.tok.Ch)
				p.advance()
			}
			if p.tok.Kind == lex.BRACKEND {
				p.advance()
			}
		case lex.PLAIN:
			lo := p.tok.Ch
			p.advance()
			if p.tok.Kind == lex.RANGE {
				p.advance()
				if p.tok.Kind != lex.PLAIN {
					p.fail(lex.ErrBadPattern)
					break
				}
				hi := p.tok.Ch
				p.advance()
				if hi < lo {
					p.fail(lex.ErrBadPattern)
					break
				}
				for b := int(lo); b <= int(hi); b++ {
					addMember(byte(b))
				}
			} else {
				addMember(lo)
			}
		default:
			p.fail(lex.ErrUnmatchedBracket)
			first = true // avoid infinite loop; fall through and stop below
			goto done
		}
	}
done:
	if p.failed() {
		return &Subre{Op: OpEmpty, Begin: cur, End: next}
	}

	seen := make(map[byte]bool, len(members))

	if !negate {
		for _, b := range members {
			if seen[b] {
				continue
			}
			seen[b] = true
			co, err := p.cm.Subcolor(b)
			if err != nil {
				p.fail(err)
				return &Subre{Op: OpEmpty, Begin: cur, End: next}
			}
			p.g.NewArc(nfa.ArcPlain, co, cur, next)
		}
		return &Subre{Op: OpEmpty, Begin: cur, End: next}
	}

	// Negated: wire the members' colors onto a throwaway reference state
	// (never connected to cur or next) so ColorComplement can compute
	// "every color reference has no PLAIN arc for" and wire exactly that
	// set directly from cur to next.
	reference := p.g.NewState(nfa.FlagPlain)
	sink := p.g.NewState(nfa.FlagPlain)
	for _, b := range members {
		if seen[b] {
			continue
		}
		seen[b] = true
		co, err := p.cm.Subcolor(b)
		if err != nil {
			p.fail(err)
			return &Subre{Op: OpEmpty, Begin: cur, End: next}
		}
		p.g.NewArc(nfa.ArcPlain, co, reference, sink)
	}
	if p.opts.Newline {
		co, err := p.cm.Subcolor('\n')
		if err != nil {
			p.fail(err)
			return &Subre{Op: OpEmpty, Begin: cur, End: next}
		}
		if !seen['\n'] {
			p.g.NewArc(nfa.ArcPlain, co, reference, sink)
		}
	}
	nfa.ColorComplement(p.g, p.cm, nfa.ArcPlain, reference, cur, next)
	return &Subre{Op: OpEmpty, Begin: cur, End: next}
}

// classMember reports whether b is a member of the named POSIX character
// class, in the "C" locale (SPEC_FULL.md's ambient-ASCII grounding).
func classMember(name string, b byte) bool {
	switch name {
	case "alpha":
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
	case "digit":
		return b >= '0' && b <= '9'
	case "alnum":
		return classMember("alpha", b) || classMember("digit", b)
	case "word":
		return classMember("alnum", b) || b == '_'
	case "space":
		return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
	case "upper":
		return b >= 'A' && b <= 'Z'
	case "lower":
		return b >= 'a' && b <= 'z'
	case "punct":
		return b >= '!' && b <= '/' || b >= ':' && b <= '@' || b >= '[' && b <= '`' || b >= '{' && b <= '~'
	case "cntrl":
		return b < 0x20 || b == 0x7F
	case "print":
		return b >= 0x20 && b < 0x7F
	case "graph":
		return b > 0x20 && b < 0x7F
	case "blank":
		return b == ' ' || b == '\t'
	case "xdigit":
		return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
	default:
		return false
	}
}
