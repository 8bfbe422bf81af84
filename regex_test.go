package tre

import "testing"

func TestCompileRejectsBadSyntax(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   Flags
	}{
		{"unmatched paren", "(a", Advanced},
		{"unmatched bracket", "[a", Advanced},
		{"dangling backref", `\1`, Advanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.pattern, tt.flags); err == nil {
				t.Errorf("Compile(%q) = nil error, want one", tt.pattern)
			}
		})
	}
}

func TestMustCompilePanicsOnBadSyntax(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on invalid pattern")
		}
	}()
	MustCompile("(a", Advanced)
}

func mustExec(t *testing.T, pattern string, flags Flags, text string) *MatchResult {
	t.Helper()
	re, err := Compile(pattern, flags)
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	return re.Exec([]byte(text), 0)
}

func TestExecLiteral(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		text      string
		wantMatch bool
		wantStart int
		wantEnd   int
	}{
		{"exact match", "hello", "hello", true, 0, 5},
		{"match in middle", "world", "hello world again", true, 6, 11},
		{"no match", "xyz", "hello world", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustExec(t, tt.pattern, Advanced, tt.text)
			if got.Matched != tt.wantMatch {
				t.Fatalf("Matched = %v, want %v", got.Matched, tt.wantMatch)
			}
			if !tt.wantMatch {
				return
			}
			if got.Spans[0].Start != tt.wantStart || got.Spans[0].End != tt.wantEnd {
				t.Errorf("span = [%d,%d), want [%d,%d)", got.Spans[0].Start, got.Spans[0].End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestExecAlternation(t *testing.T) {
	got := mustExec(t, "foo|bar|baz", Advanced, "xx bar yy")
	if !got.Matched {
		t.Fatal("expected a match")
	}
	if got.Spans[0].Start != 3 || got.Spans[0].End != 6 {
		t.Errorf("span = [%d,%d), want [3,6)", got.Spans[0].Start, got.Spans[0].End)
	}
}

func TestExecQuantifier(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		wantEnd int
	}{
		{"a+", "aaab", 3},
		{"a*", "b", 0},
		{"a{2,3}", "aaaa", 3},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := mustExec(t, tt.pattern, Advanced, tt.text)
			if !got.Matched {
				t.Fatalf("pattern %q: expected a match against %q", tt.pattern, tt.text)
			}
			if got.Spans[0].End != tt.wantEnd {
				t.Errorf("end = %d, want %d", got.Spans[0].End, tt.wantEnd)
			}
		})
	}
}

func TestExecCaptures(t *testing.T) {
	got := mustExec(t, "(a+)(b+)", Advanced, "aaabbc")
	if !got.Matched {
		t.Fatal("expected a match")
	}
	if got.Spans[0].Start != 0 || got.Spans[0].End != 5 {
		t.Errorf("whole match = [%d,%d), want [0,5)", got.Spans[0].Start, got.Spans[0].End)
	}
	if got.Spans[1].Start != 0 || got.Spans[1].End != 3 {
		t.Errorf("group 1 = [%d,%d), want [0,3)", got.Spans[1].Start, got.Spans[1].End)
	}
	if got.Spans[2].Start != 3 || got.Spans[2].End != 5 {
		t.Errorf("group 2 = [%d,%d), want [3,5)", got.Spans[2].Start, got.Spans[2].End)
	}
}

func TestExecBackreference(t *testing.T) {
	re, err := Compile(`(ab)\1`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if got := re.Exec([]byte("ababx"), 0); !got.Matched || got.Spans[0].End != 4 {
		t.Errorf("Exec(ababx) = %+v, want match ending at 4", got)
	}
	if got := re.Exec([]byte("abacx"), 0); got.Matched {
		t.Errorf("Exec(abacx) = %+v, want no match", got)
	}
}

func TestExecLookahead(t *testing.T) {
	re, err := Compile(`foo(?=bar)`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if got := re.Exec([]byte("foobar"), 0); !got.Matched {
		t.Error("expected foo(?=bar) to match foobar")
	}
	if got := re.Exec([]byte("foobaz"), 0); got.Matched {
		t.Error("expected foo(?=bar) not to match foobaz")
	}
}

func TestExecNegativeLookahead(t *testing.T) {
	re, err := Compile(`foo(?!bar)`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if got := re.Exec([]byte("foobaz"), 0); !got.Matched {
		t.Error("expected foo(?!bar) to match foobaz")
	}
	if got := re.Exec([]byte("foobar"), 0); got.Matched {
		t.Error("expected foo(?!bar) not to match foobar")
	}
}

func TestExecLookbehind(t *testing.T) {
	re, err := Compile(`(?<=foo)bar`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if got := re.Exec([]byte("foobar"), 0); !got.Matched {
		t.Error("expected (?<=foo)bar to match foobar")
	}
	if got := re.Exec([]byte("bazbar"), 0); got.Matched {
		t.Error("expected (?<=foo)bar not to match bazbar")
	}
}

func TestExecICase(t *testing.T) {
	re, err := Compile(`(ab)\1`, Advanced|ICase)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got := re.Exec([]byte("ABab"), 0)
	if !got.Matched {
		t.Error("expected case-folded backreference to match ABab")
	}
}

func TestNumSubexp(t *testing.T) {
	re, err := Compile(`(a)(b(c))`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if got := re.NumSubexp(); got != 3 {
		t.Errorf("NumSubexp() = %d, want 3", got)
	}
}

func TestStatsTrackDissectorCalls(t *testing.T) {
	re, err := Compile(`(a+)(b+)`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	re.Exec([]byte("aaabbb"), 0)
	if got := re.Stats().DissectorCalls; got == 0 {
		t.Error("expected at least one dissector call for a capturing pattern")
	}
}

func TestStatsTrackDFAHits(t *testing.T) {
	re, err := Compile(`abc`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	re.Exec([]byte("xxabcxx"), 0)
	if got := re.Stats().DFAHits; got == 0 {
		t.Error("expected at least one DFA hit for a non-capturing literal pattern")
	}
}

func TestExecAnchorsDefaultToSubjectBoundsNotLines(t *testing.T) {
	// Without Newline/NLAnch, '^'/'$' must pin to subject start/end only
	// (spec.md §8's anchor invariant), not fire at an embedded '\n' the
	// way they would under line-anchor semantics.
	re, err := Compile(`^a$`, Advanced)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got := re.Exec([]byte("a\nb"), 0)
	if got.Matched {
		t.Errorf("expected ^a$ not to match inside %q without Newline/NLAnch, got span [%d,%d)",
			"a\nb", got.Spans[0].Start, got.Spans[0].End)
	}

	got = re.Exec([]byte("a"), 0)
	if !got.Matched || got.Spans[0].Start != 0 || got.Spans[0].End != 1 {
		t.Errorf("expected ^a$ to match the whole one-byte subject, got %+v", got)
	}
}

func TestExecAnchorsRespectNLAnchForInternalLineBoundaries(t *testing.T) {
	re, err := Compile(`^b$`, Advanced|NLAnch)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got := re.Exec([]byte("a\nb\nc"), 0)
	if !got.Matched || got.Spans[0].Start != 2 || got.Spans[0].End != 3 {
		t.Errorf("expected ^b$ under NLAnch to match the middle line [2,3), got %+v", got)
	}
}

func TestExecNoMatchReturnsFalse(t *testing.T) {
	got := mustExec(t, "zzz", Advanced, "abc")
	if got.Matched {
		t.Error("expected no match")
	}
}

func TestCompileWithConfigRejectsOversizedCompileSpace(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCompileSpace = 1
	_, err := CompileWithConfig("(a|b|c){3,5}", Advanced, cfg, DefaultExecConfig())
	if err == nil {
		t.Fatal("expected MaxCompileSpace to reject a pattern needing more than 1 unit of NFA space")
	}
}

func TestCompileWithConfigHonorsDFACacheSize(t *testing.T) {
	cfg := DefaultConfig()
	execCfg := DefaultExecConfig()
	execCfg.DFACacheSize = 16
	re, err := CompileWithConfig("a(b|c)*d", Advanced, cfg, execCfg)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got := re.Exec([]byte("abcbcd"), 0)
	if !got.Matched {
		t.Error("expected a match with a custom DFA cache size")
	}
}

func TestCompileWithConfigHonorsMaxRecursionDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRecursionDepth = 1
	re, err := CompileWithConfig(`(a(b(c)))`, Advanced, cfg, DefaultExecConfig())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got := re.Exec([]byte("abc"), 0)
	if got.Matched {
		t.Error("expected a MaxRecursionDepth of 1 to starve a nested-capture dissection")
	}
	if !got.Overflowed {
		t.Error("expected Overflowed to report the recursion budget was exhausted")
	}

	cfg.MaxRecursionDepth = 0
	re, err = CompileWithConfig(`(a(b(c)))`, Advanced, cfg, DefaultExecConfig())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got = re.Exec([]byte("abc"), 0)
	if !got.Matched {
		t.Error("expected an unbounded MaxRecursionDepth to dissect the nested captures")
	}
}

func TestStatsTrackAlternationPrefilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinAltLiterals = 2
	re, err := CompileWithConfig("cat|dog|bird", Advanced, cfg, DefaultExecConfig())
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got := re.Exec([]byte("I have a dog"), 0)
	if !got.Matched {
		t.Fatal("expected a match via the alternation prefilter")
	}
	if got.Spans[0].Start != 9 || got.Spans[0].End != 12 {
		t.Errorf("Spans[0] = %+v, want [9,12)", got.Spans[0])
	}
}
