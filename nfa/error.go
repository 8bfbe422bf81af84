package nfa

import "errors"

// ErrSpace is returned when an NFA-arena operation cannot allocate a new
// state or arc (spec.md §7 ESPACE).
var ErrSpace = errors.New("nfa: out of space")

// ErrTooBig is returned when a compiled NFA would exceed the engine's
// internal size limits (spec.md §7 ETOOBIG), e.g. a DupNFA expansion that
// would blow past the compile-space budget.
var ErrTooBig = errors.New("nfa: expression too big")

// BuildError wraps a lower-level error with the state the builder was
// working on when it failed, the way the teacher's CompileError pairs an
// error with the pattern that triggered it.
type BuildError struct {
	State StateID
	Err   error
}

func (e *BuildError) Error() string {
	return "nfa: build failed at state " + itoa(uint32(e.State)) + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error { return e.Err }

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
