package tre

import "sync"

// Vars holds per-execute mutable scratch state: the capture vector,
// reused across calls against the same compiled Regexp. The dissector
// and the lazy-DFA caches are not part of it.
// Callers obtain a Vars from a Regexp's pool, use it for exactly one
// Exec call, and return it; a Vars must never be shared across
// goroutines concurrently (mirrors the teacher's SearchState, see
// DESIGN.md).
type Vars struct {
	// caps holds (start, end) pairs for slots 0..nsub, reused across
	// calls to avoid a per-Exec allocation. Exec resets it before use.
	caps []int
}

func newVars(nsub int) *Vars {
	return &Vars{caps: make([]int, (nsub+1)*2)}
}

func (v *Vars) reset(nsub int) {
	need := (nsub + 1) * 2
	if cap(v.caps) < need {
		v.caps = make([]int, need)
	}
	v.caps = v.caps[:need]
	for i := range v.caps {
		v.caps[i] = -1
	}
}

// varsPool manages a pool of Vars instances for thread-safe reuse across
// concurrent Exec calls against the same compiled Regexp (spec.md §5).
type varsPool struct {
	pool sync.Pool
	nsub int
}

func newVarsPool(nsub int) *varsPool {
	p := &varsPool{nsub: nsub}
	p.pool = sync.Pool{
		New: func() any { return newVars(p.nsub) },
	}
	return p
}

func (p *varsPool) get() *Vars {
	v := p.pool.Get().(*Vars)
	v.reset(p.nsub)
	return v
}

func (p *varsPool) put(v *Vars) {
	if v == nil {
		return
	}
	p.pool.Put(v)
}
