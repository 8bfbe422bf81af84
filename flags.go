package tre

// Flags bitset configures compile and execute behavior (spec.md §6).
// Compile-time and execute-time flags share one namespace, matching the
// original engine's single REG_* flag word; each bit's doc notes which
// phase consults it.
type Flags uint32

// Basic is the zero value: BRE syntax, nothing else set.
const Basic Flags = 0

const (
	// Extended selects ERE syntax.
	Extended Flags = 1 << iota
	// AdvF enables the advanced feature set (lookaround, \y/\Y, non-greedy
	// quantifiers, \Z) on top of whichever base syntax is selected.
	AdvF
	// Quote treats the whole pattern as a literal string.
	Quote
	// ICase makes matching case-insensitive (execute-time compare hook).
	ICase
	// NoSub suppresses capture tracking; compile collapses every `(...)`
	// to plain concatenation, and execute never runs the dissector.
	NoSub
	// Newline makes '.' and bracket negation exclude '\n', and lets '^'/'$'
	// match at internal line boundaries in addition to subject start/end.
	Newline
	// NLStop: '.' and negated brackets never match '\n', independent of
	// whether '^'/'$' gain internal line-boundary behavior.
	NLStop
	// NLAnch: '^'/'$' match at internal line boundaries, independent of
	// whether '.' excludes '\n'.
	NLAnch
	// Expanded ignores whitespace and '#'-to-end-of-line comments outside
	// bracket expressions and quote mode.
	Expanded
	// BOSOnly restricts '^' to the true start of the subject, ignoring
	// Newline/NLAnch.
	BOSOnly
	// Dump requests a debug dump of the compiled structures (implementers
	// MAY ignore; no behavior depends on it here).
	Dump
	// Progress requests execute-time trace output (implementers MAY
	// ignore).
	Progress
	// NotBOL tells execute that text[0] is not the beginning of a line,
	// even if it's the beginning of the subject passed to Exec.
	NotBOL
	// NotEOL tells execute that the end of the supplied text is not the
	// end of a line.
	NotEOL
	// Small restricts the per-execute DFA cache to a smaller budget,
	// trading speed for memory on resource-constrained callers.
	Small
	// Expect asks execute to populate ColdStart in the result with the
	// DFA's coldstart hint (spec.md's rm_extend).
	Expect
)

// Advanced is Extended|AdvF, the common case for modern pattern syntax.
const Advanced = Extended | AdvF

// explicitNewlineExclude reports whether '.' and negated brackets should
// exclude '\n', folding Newline/NLStop into one question for the parser.
func (f Flags) explicitNewlineExclude() bool {
	return f&Newline != 0 || f&NLStop != 0
}

// internalAnchors reports whether '^'/'$' should match at internal line
// boundaries (not just subject start/end), folding Newline/NLAnch.
// BOSOnly overrides both: '^' (and by symmetry '$') is pinned to the
// true subject start/end regardless of Newline/NLAnch.
func (f Flags) internalAnchors() bool {
	if f&BOSOnly != 0 {
		return false
	}
	return f&Newline != 0 || f&NLAnch != 0
}
