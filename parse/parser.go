package parse

import (
	"errors"

	"github.com/coregx/tre/color"
	"github.com/coregx/tre/lex"
	"github.com/coregx/tre/nfa"
)

// Sentinel syntax errors (spec.md §7), returned verbatim or wrapped by
// the caller with position information.
var (
	ErrUnmatchedParen = lex.ErrUnmatchedParen
	ErrUnmatchedBrack = lex.ErrUnmatchedBracket
	ErrUnmatchedBrace = lex.ErrUnmatchedBrace
	ErrBadRepeat       = lex.ErrBadRepeat
	ErrBadBrace        = lex.ErrBadBrace
	ErrBadEscape       = lex.ErrBadEscape
	ErrBadOption       = lex.ErrBadOption
	ErrSubexpRange     = errors.New("parse: subexpression number out of range")
	ErrDanglingBackref = errors.New("parse: backreference to undefined group")
	ErrNestedRepeat     = errors.New("parse: invalid repetition of a repetition")
)

// LaconEntry is one compiled lookaround sub-expression, referenced from
// the main NFA by an ArcLacon arc whose index names this entry
// (spec.md §4.4 lookahead/§4.3 LACON token).
type LaconEntry struct {
	Graph  *nfa.Graph
	Root   *Subre
	Negate bool
	Behind bool // lookbehind: match against text ending at the cursor, not starting at it
}

// Parser drives the recursive-descent build of a Subre tree and its
// backing nfa.Graph from a single pattern (spec.md §4.4, component C5).
type Parser struct {
	lx   *lex.Lexer
	g    *nfa.Graph
	cm   *color.Colormap
	opts lex.Options
	nsub int

	noCapture bool // REG_NOSUB: collapse captures to plain concatenation

	subs      map[int]*Subre
	lacons    []LaconEntry
	wordState nfa.StateID
	haveWord  bool

	tok lex.Token
	err error
}

// New creates a parser for pattern under the given lexer options. When
// noCapture is set, `(...)` groups are parsed for their body but never
// wrapped in an OpCapture node, matching the NOSUB fast path described in
// SPEC_FULL.md.
func New(pattern []byte, opts lex.Options, noCapture bool) *Parser {
	p := &Parser{g: nfa.NewGraph(), cm: color.NewColormap(), opts: opts, noCapture: noCapture, subs: make(map[int]*Subre)}
	p.lx = lex.NewLexer(pattern, opts, func() int { return p.nsub })
	p.advance()
	return p
}

// Graph returns the NFA graph built (and, after Parse, optimized in
// place by the caller) during parsing.
func (p *Parser) Graph() *nfa.Graph { return p.g }

// Colormap returns the colormap accumulated while parsing bracket
// expressions.
func (p *Parser) Colormap() *color.Colormap { return p.cm }

// Lacons returns the compiled lookaround table, indexed by ArcLacon.Lacon().
func (p *Parser) Lacons() []LaconEntry { return p.lacons }

// NSub returns the number of capturing groups seen.
func (p *Parser) NSub() int { return p.nsub }

func (p *Parser) advance() { p.tok = p.lx.Next() }

func (p *Parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) failed() bool { return p.err != nil || p.lx.Err() != nil }

// Parse is the parser's entry point (spec.md §4.4 "parse(stopper, type,
// init_state, final_state) -> subre"), specialized to the whole-pattern
// case: stopper is implicitly EOS and the init/final states are the
// graph's pre/post states.
func (p *Parser) Parse() (*Subre, error) {
	root := p.parseAlt(p.g.Pre(), p.g.Post(), lex.EOS)
	if p.lx.Err() != nil {
		return nil, p.lx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.Kind != lex.EOS {
		return nil, ErrUnmatchedParen
	}
	return root, nil
}

// parseAlt parses `|`-joined branches between begin and end, building a
// right-spine OpAlt chain (spec.md §3 "alternation chains as right-spine
// lists").
func (p *Parser) parseAlt(begin, end nfa.StateID, stopper lex.Kind) *Subre {
	first := p.parseBranch(begin, end, stopper)
	if p.tok.Kind != lex.Pipe || p.failed() {
		return first
	}

	node := &Subre{Op: OpAlt, Left: first}
	propagateUp(node, first)
	cur := node
	for p.tok.Kind == lex.Pipe && !p.failed() {
		p.advance()
		branch := p.parseBranch(begin, end, stopper)
		rest := &Subre{Op: OpAlt, Left: branch}
		propagateUp(rest, branch)
		cur.Right = rest
		propagateUp(cur, rest)
		cur = rest
	}
	return node
}

// parseBranch parses one concatenation sequence between begin and end.
func (p *Parser) parseBranch(begin, end nfa.StateID, stopper lex.Kind) *Subre {
	var chain *Subre
	cur := begin

	for {
		if p.failed() || p.tok.Kind == stopper || p.tok.Kind == lex.Pipe || p.tok.Kind == lex.EOS {
			break
		}
		atomEnd := end
		if !p.isLastAtom() {
			atomEnd = p.g.NewState(nfa.FlagPlain)
		}
		node := p.parseQAtom(cur, atomEnd)
		if chain == nil {
			chain = node
		} else {
			merged := &Subre{Op: OpConcat, Left: chain, Right: node}
			propagateUp(merged, chain)
			propagateUp(merged, node)
			chain = merged
		}
		cur = atomEnd
		if cur == end {
			break
		}
	}
	if chain != nil && cur != end {
		// Link the last atom's own end state to the branch end.
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, cur, end)
	}
	if chain == nil {
		// Empty branch: wire begin straight to end.
		p.g.NewArc(nfa.ArcEmpty, color.NoColor, begin, end)
		chain = &Subre{Op: OpEmpty, Begin: begin, End: end}
	}
	return chain
}

// isLastAtom reports whether the atom about to be parsed can terminate
// directly at `end` rather than through an intermediate state. It always
// returns false: the lexer has no look-ahead over its token stream, so
// parseBranch allocates an intermediate state for every atom and links
// the last one to `end` with an EMPTY arc after its loop. The optimizer's
// fix-empties pass folds that arc away, so the extra state per branch is
// harmless.
func (p *Parser) isLastAtom() bool { return false }

// parseQAtom parses one atom (and its optional quantifier) between cur
// and next (spec.md §4.4).
func (p *Parser) parseQAtom(cur, next nfa.StateID) *Subre {
	node := p.parseAtom(cur, next)
	return p.parseQuant(node, cur, next)
}

func (p *Parser) parseAtom(cur, next nfa.StateID) *Subre {
	if p.failed() {
		return &Subre{Op: OpEmpty, Begin: cur, End: next}
	}
	switch p.tok.Kind {
	case lex.PLAIN:
		ch := p.tok.Ch
		p.advance()
		co, err := p.cm.Subcolor(ch)
		if err != nil {
			p.fail(err)
			return &Subre{Op: OpEmpty, Begin: cur, End: next}
		}
		p.g.NewArc(nfa.ArcPlain, co, cur, next)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.Dot:
		p.advance()
		exception := color.NoColor
		if p.opts.Newline {
			co, err := p.cm.Subcolor('\n')
			if err != nil {
				p.fail(err)
				return &Subre{Op: OpEmpty, Begin: cur, End: next}
			}
			exception = co
		}
		nfa.Rainbow(p.g, p.cm, nfa.ArcPlain, exception, cur, next)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.Caret:
		p.advance()
		if p.opts.InternalAnchors {
			p.g.NewArc(nfa.ArcBOL, color.NoColor, cur, next)
		} else {
			p.g.NewArc(nfa.ArcBOS, color.NoColor, cur, next)
		}
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.Dollar:
		p.advance()
		if p.opts.InternalAnchors {
			p.g.NewArc(nfa.ArcEOL, color.NoColor, cur, next)
		} else {
			p.g.NewArc(nfa.ArcEOS, color.NoColor, cur, next)
		}
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.SEND:
		p.advance()
		p.g.NewArc(nfa.ArcEOS, color.NoColor, cur, next)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.WBDRY, lex.NWBDRY:
		neg := p.tok.Kind == lex.NWBDRY
		p.advance()
		p.wireWordBoundary(cur, next, neg)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.WordStart:
		p.advance()
		p.wireWordEdge(cur, next, true)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.WordEnd:
		p.advance()
		p.wireWordEdge(cur, next, false)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}

	case lex.LBracket:
		p.advance()
		return p.parseBracket(cur, next)

	case lex.LParen:
		p.advance()
		return p.parseGroup(cur, next)

	case lex.AHEAD, lex.BEHIND:
		return p.parseLookaround(cur, next)

	case lex.BACKREF:
		n := p.tok.Num
		p.advance()
		return p.parseBackref(n, cur, next)

	default:
		p.fail(lex.ErrBadPattern)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}
	}
}

// parseGroup handles `(...)`; capturing unless the parser is in NOSUB
// mode, in which case the body is parsed but no OpCapture wrapper (and
// no subno) is produced (SPEC_FULL.md's NOSUB fast path).
func (p *Parser) parseGroup(cur, next nfa.StateID) *Subre {
	if p.noCapture {
		body := p.parseAlt(cur, next, lex.RParen)
		if p.tok.Kind != lex.RParen {
			p.fail(ErrUnmatchedParen)
			return body
		}
		p.advance()
		return body
	}

	p.nsub++
	subno := p.nsub
	body := p.parseAlt(cur, next, lex.RParen)
	if p.tok.Kind != lex.RParen {
		p.fail(ErrUnmatchedParen)
		return body
	}
	p.advance()

	node := &Subre{Op: OpCapture, Subno: subno, Left: body, Begin: cur, End: next}
	propagateUp(node, body)
	node.Flags |= FlagCap | FlagMessy
	p.subs[subno] = node
	return node
}

func (p *Parser) parseBackref(n int, cur, next nfa.StateID) *Subre {
	if n < 1 || n > p.nsub {
		p.fail(ErrDanglingBackref)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}
	}
	// A placeholder EMPTY arc stands in for the backreference at the NFA
	// level; the dissector performs the actual length/content comparison
	// against the matching capture at execute time (spec.md §4.8 case 'b').
	p.g.NewArc(nfa.ArcEmpty, color.NoColor, cur, next)
	node := &Subre{Op: OpBackref, Subno: n, Min: 1, Max: 1, Begin: cur, End: next}
	node.Flags |= FlagBackr | FlagMessy
	return node
}

// parseLookaround handles `(?=...)`, `(?!...)`, `(?<=...)`, `(?<!...)`:
// the body is parsed into its own private Graph and recorded as a
// LaconEntry, referenced from the main NFA by a single ArcLacon arc.
func (p *Parser) parseLookaround(cur, next nfa.StateID) *Subre {
	behind := p.tok.Kind == lex.BEHIND
	negate := p.tok.Negate
	p.advance()

	sub := &Parser{g: nfa.NewGraph(), cm: p.cm, opts: p.opts, noCapture: true, subs: make(map[int]*Subre)}
	sub.lx = p.lx // share the token stream; the lookaround body is an ordinary parenthesized group within it
	sub.tok = p.tok

	body := sub.parseAlt(sub.g.Pre(), sub.g.Post(), lex.RParen)
	p.tok = sub.tok
	if sub.err != nil {
		p.fail(sub.err)
	}
	if p.tok.Kind != lex.RParen {
		p.fail(ErrUnmatchedParen)
		return &Subre{Op: OpEmpty, Begin: cur, End: next}
	}
	p.advance()

	idx := len(p.lacons)
	p.lacons = append(p.lacons, LaconEntry{Graph: sub.g, Root: body, Negate: negate, Behind: behind})
	p.g.NewLaconArc(idx, negate, cur, next)
	node := &Subre{Op: OpEmpty, Begin: cur, End: next}
	node.Flags |= FlagMessy
	return node
}

// wireWordBoundary wires a \y / \Y zero-width assertion as an AHEAD/BEHIND
// pair straddling the current position against the lazily built word
// side-NFA (spec.md §4.4).
func (p *Parser) wireWordBoundary(cur, next nfa.StateID, negate bool) {
	p.ensureWordState()
	mid := p.g.NewState(nfa.FlagPlain)
	nfa.ColorComplement(p.g, p.cm, nfa.ArcBehind, p.wordState, cur, mid)
	nfa.Rainbow(p.g, p.cm, nfa.ArcAhead, color.NoColor, mid, next)
	// A boundary also holds true in the other polarity (non-word char
	// before a word char); both are wired onto the same mid state so
	// either order of the combine table's SATISFIED/COMPATIBLE results
	// reaches next.
	mid2 := p.g.NewState(nfa.FlagPlain)
	nfa.Rainbow(p.g, p.cm, nfa.ArcBehind, color.NoColor, cur, mid2)
	nfa.ColorComplement(p.g, p.cm, nfa.ArcAhead, p.wordState, mid2, next)
	if negate {
		// NWBDRY: both sides word, or both sides non-word. Wired as the
		// complement pairing of the above.
		mid3 := p.g.NewState(nfa.FlagPlain)
		nfa.ColorComplement(p.g, p.cm, nfa.ArcBehind, p.wordState, cur, mid3)
		nfa.ColorComplement(p.g, p.cm, nfa.ArcAhead, p.wordState, mid3, next)
	}
}

func (p *Parser) wireWordEdge(cur, next nfa.StateID, start bool) {
	p.ensureWordState()
	if start {
		nfa.ColorComplement(p.g, p.cm, nfa.ArcBehind, p.wordState, cur, cur)
		nfa.Rainbow(p.g, p.cm, nfa.ArcAhead, color.NoColor, cur, next)
	} else {
		nfa.Rainbow(p.g, p.cm, nfa.ArcBehind, color.NoColor, cur, cur)
		nfa.ColorComplement(p.g, p.cm, nfa.ArcAhead, p.wordState, cur, next)
	}
}

// ensureWordState builds the one-time side-NFA state whose PLAIN
// outarcs enumerate every "word" character ([[:alnum:]_]), used as the
// reference state for word-boundary ColorComplement calls.
func (p *Parser) ensureWordState() {
	if p.haveWord {
		return
	}
	p.wordState = p.g.NewState(nfa.FlagPlain)
	scratch := p.g.NewState(nfa.FlagPlain)
	for ch := 0; ch < 256; ch++ {
		b := byte(ch)
		if isWordByte(b) {
			co, err := p.cm.Subcolor(b)
			if err != nil {
				p.fail(err)
				return
			}
			p.g.NewArc(nfa.ArcPlain, co, p.wordState, scratch)
		}
	}
	p.haveWord = true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
