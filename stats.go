package tre

import "sync/atomic"

// Stats accumulates engine-level counters across the lifetime of a
// compiled Regexp, mirroring meta.Stats's role in the teacher (spec.md
// AMBIENT STACK "Statistics"). All fields are updated with atomic
// operations so a shared, read-only-after-compile Regexp may be
// searched concurrently (spec.md §5).
type Stats struct {
	// DFAHits counts Exec calls the lazy DFA resolved without falling
	// back to the dissector.
	DFAHits uint64
	// DissectorCalls counts Exec calls that needed cdissect because the
	// matched subtree was MESSY.
	DissectorCalls uint64
	// DissectorRecursions counts total Dissect recursive calls across
	// every dissector invocation, a proxy for match-time cost on
	// pathological backtracking patterns.
	DissectorRecursions uint64
	// LaconInvocations counts lookaround sub-DFA evaluations performed
	// while closing over zero-width arcs.
	LaconInvocations uint64
	// PrefilterHits counts candidate positions the literal/Aho-Corasick
	// prefilter proposed that the DFA then confirmed.
	PrefilterHits uint64
	// PrefilterMisses counts candidate positions the prefilter proposed
	// that the DFA rejected.
	PrefilterMisses uint64
}

func (s *Stats) addDFAHit()              { atomic.AddUint64(&s.DFAHits, 1) }
func (s *Stats) addDissectorCall()       { atomic.AddUint64(&s.DissectorCalls, 1) }
func (s *Stats) addDissectorRecursion(n uint64) {
	atomic.AddUint64(&s.DissectorRecursions, n)
}
func (s *Stats) addLaconInvocation()     { atomic.AddUint64(&s.LaconInvocations, 1) }
func (s *Stats) addPrefilterHit()        { atomic.AddUint64(&s.PrefilterHits, 1) }
func (s *Stats) addPrefilterMiss()       { atomic.AddUint64(&s.PrefilterMisses, 1) }

// Snapshot returns a copy of the current counter values, safe to read
// while searches continue concurrently on other goroutines.
func (s *Stats) Snapshot() Stats {
	return Stats{
		DFAHits:             atomic.LoadUint64(&s.DFAHits),
		DissectorCalls:      atomic.LoadUint64(&s.DissectorCalls),
		DissectorRecursions: atomic.LoadUint64(&s.DissectorRecursions),
		LaconInvocations:    atomic.LoadUint64(&s.LaconInvocations),
		PrefilterHits:       atomic.LoadUint64(&s.PrefilterHits),
		PrefilterMisses:     atomic.LoadUint64(&s.PrefilterMisses),
	}
}
