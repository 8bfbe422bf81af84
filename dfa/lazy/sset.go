// Package lazy implements the lazy-DFA executor (component C9, spec.md
// §4.7): on-the-fly subset construction over a compiled cnfa.CNFA, with a
// bounded LRU cache of discovered state sets and recursive LACON closure
// through nested sub-DFAs.
package lazy

import (
	"sort"
	"strconv"
	"strings"
)

// setFlags marks the special roles a state set can hold (spec.md §4.7).
type setFlags uint8

const (
	// Starter marks the initial state set, which holds the cnfa's start
	// state only; it is locked against LRU eviction.
	Starter setFlags = 1 << iota
	// PostState marks a set containing the cnfa's accepting state.
	PostState
	// Locked exempts a set from LRU eviction (Starter is always locked;
	// callers may lock additional sets, e.g. the current scan position).
	Locked
	// NoProgress marks a set all of whose member states are
	// cnfa.State.NoProgress: arriving here made no forward progress.
	NoProgress
)

// sset is one subset-construction node: a sorted, deduplicated list of
// cnfa state indices plus its role flags and per-color transition cache.
type sset struct {
	members  []uint32
	flags    setFlags
	lastSeen uint64

	// trans memoizes the destination sset for each input color already
	// computed from this set, keyed by the literal color value (negative
	// colors never occur as a scan-time trigger, so plain ints suffice).
	trans map[int]*sset
}

func newSset(members []uint32, flags setFlags) *sset {
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	members = dedup(members)
	return &sset{members: members, flags: flags, trans: make(map[int]*sset)}
}

func dedup(sorted []uint32) []uint32 {
	if len(sorted) < 2 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

func (s *sset) has(flags setFlags) bool { return s.flags&flags != 0 }

// key canonicalizes the member list into a cache lookup key.
func key(members []uint32) string {
	var b strings.Builder
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(m), 10))
	}
	return b.String()
}
