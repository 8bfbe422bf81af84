package tre

// Config controls compile-time resource limits and prefilter tuning
// (spec.md §5 "resource bounds", mirroring the teacher's meta.Config
// idiom per SPEC_FULL.md AMBIENT STACK).
type Config struct {
	// MaxRecursionDepth bounds the dissector's recursion depth (spec.md
	// §9 "guard with an explicit stack-depth budget"). Exceeding it
	// during Exec reports no match rather than risking a stack overflow
	// on a pathologically nested subre tree. The parser does not yet
	// honor this bound (see DESIGN.md).
	MaxRecursionDepth int

	// MaxCompileSpace bounds total transient NFA-state/arc allocation
	// during compile (spec.md §5 REG_MAX_COMPILE_SPACE). Zero means
	// unbounded.
	MaxCompileSpace int

	// MinLiteralLen is the shortest leading literal run ExtractPrefix
	// will hand to the prefilter builder; shorter runs have too high a
	// false-positive rate to be worth the scan (SPEC_FULL.md DOMAIN
	// STACK).
	MinLiteralLen int

	// MinAltLiterals is the number of literal-only alternation branches
	// at or above which Exec builds an Aho-Corasick automaton instead of
	// simulating each branch's own DFA (SPEC_FULL.md DOMAIN STACK,
	// mirroring meta.Engine.ahoCorasick).
	MinAltLiterals int
}

// DefaultConfig returns the engine's default compile-time limits.
func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth: 100,
		MaxCompileSpace:   0,
		MinLiteralLen:     2,
		MinAltLiterals:    8,
	}
}

// ExecConfig controls per-execute resource limits (spec.md §5
// "execute's subdfa vector is similarly scoped").
type ExecConfig struct {
	// DFACacheSize caps the number of subset-construction states the
	// lazy DFA's cache retains before LRU eviction kicks in. Zero uses
	// the DFA's own max(nstates*2, 4) default.
	DFACacheSize int

	// AllowNoSubFastPath lets Exec skip the dissector even for a MESSY
	// pattern when the caller doesn't ask for capture spans, matching
	// the REG_NOSUB fast path (SPEC_FULL.md SUPPLEMENTED FEATURES).
	AllowNoSubFastPath bool
}

// DefaultExecConfig returns the engine's default execute-time limits.
func DefaultExecConfig() ExecConfig {
	return ExecConfig{
		DFACacheSize:       0,
		AllowNoSubFastPath: true,
	}
}
