package nfa

import (
	"testing"

	"github.com/coregx/tre/color"
)

func TestNewGraphHasPreAndPost(t *testing.T) {
	g := NewGraph()
	if g.Pre() == g.Post() {
		t.Fatalf("pre and post must differ")
	}
	if g.State(g.Pre()).Flag() != FlagPre {
		t.Errorf("pre state flag = %v", g.State(g.Pre()).Flag())
	}
	if g.State(g.Post()).Flag() != FlagPost {
		t.Errorf("post state flag = %v", g.State(g.Post()).Flag())
	}
	if g.NStates() != 2 {
		t.Errorf("NStates() = %d, want 2", g.NStates())
	}
}

func TestNewArcDedup(t *testing.T) {
	g := NewGraph()
	s1 := g.NewState(FlagPlain)
	s2 := g.NewState(FlagPlain)

	a1 := g.NewArc(ArcPlain, color.White, s1, s2)
	a2 := g.NewArc(ArcPlain, color.White, s1, s2)
	if a1 != a2 {
		t.Fatalf("duplicate arc was not deduplicated: %v != %v", a1, a2)
	}
	if len(g.State(s1).Outs()) != 1 {
		t.Errorf("s1 outs = %v, want 1 arc", g.State(s1).Outs())
	}
	if len(g.State(s2).Ins()) != 1 {
		t.Errorf("s2 ins = %v, want 1 arc", g.State(s2).Ins())
	}

	// Different color is a distinct arc.
	a3 := g.NewArc(ArcPlain, color.Color(1), s1, s2)
	if a3 == a1 {
		t.Fatalf("arc with different color should not be deduplicated")
	}
	if len(g.State(s1).Outs()) != 2 {
		t.Errorf("s1 outs = %v, want 2 arcs", g.State(s1).Outs())
	}
}

func TestFreeArcRemovesFromBothEndpoints(t *testing.T) {
	g := NewGraph()
	s1 := g.NewState(FlagPlain)
	s2 := g.NewState(FlagPlain)
	id := g.NewArc(ArcPlain, color.White, s1, s2)

	g.FreeArc(id)
	if len(g.State(s1).Outs()) != 0 {
		t.Errorf("s1 outs not cleared: %v", g.State(s1).Outs())
	}
	if len(g.State(s2).Ins()) != 0 {
		t.Errorf("s2 ins not cleared: %v", g.State(s2).Ins())
	}
	if g.Arc(id) != nil {
		t.Errorf("freed arc still resolves")
	}
	if len(g.ColorChain(color.White)) != 0 {
		t.Errorf("color chain not cleared: %v", g.ColorChain(color.White))
	}
}

func TestIsDead(t *testing.T) {
	g := NewGraph()
	s := g.NewState(FlagPlain)
	if !g.IsDead(s) {
		t.Errorf("fresh arc-less state should be dead")
	}
	g.NewArc(ArcPlain, color.White, g.Pre(), s)
	if g.IsDead(s) {
		t.Errorf("state with an inarc should not be dead")
	}
	if g.IsDead(g.Pre()) || g.IsDead(g.Post()) {
		t.Errorf("pre/post are never dead")
	}
}

func TestMoveOutsDedupesAgainstDestination(t *testing.T) {
	g := NewGraph()
	a := g.NewState(FlagPlain)
	b := g.NewState(FlagPlain)
	target := g.NewState(FlagPlain)

	g.NewArc(ArcPlain, color.White, a, target)
	g.NewArc(ArcPlain, color.White, b, target) // same key once moved onto a

	g.MoveOuts(b, a)
	if len(g.State(a).Outs()) != 1 {
		t.Errorf("expected move to dedup against existing arc, got %v", g.State(a).Outs())
	}
	if len(g.State(b).Outs()) != 0 {
		t.Errorf("MoveOuts should empty the source state's outs, got %v", g.State(b).Outs())
	}
}

func TestCopyInsLeavesSourceIntact(t *testing.T) {
	g := NewGraph()
	src := g.NewState(FlagPlain)
	from := g.NewState(FlagPlain)
	dst := g.NewState(FlagPlain)

	g.NewArc(ArcPlain, color.White, from, src)
	g.CopyIns(src, dst)

	if len(g.State(src).Ins()) != 1 {
		t.Errorf("CopyIns must not touch the source's ins, got %v", g.State(src).Ins())
	}
	if len(g.State(dst).Ins()) != 1 {
		t.Errorf("dst should have gained the copied arc, got %v", g.State(dst).Ins())
	}
}

func TestDelSubRemovesOnlyUpToStop(t *testing.T) {
	g := NewGraph()
	start := g.NewState(FlagPlain)
	mid := g.NewState(FlagPlain)
	stop := g.NewState(FlagPlain)
	beyond := g.NewState(FlagPlain)

	g.NewArc(ArcPlain, color.White, start, mid)
	g.NewArc(ArcPlain, color.White, mid, stop)
	g.NewArc(ArcPlain, color.White, stop, beyond)

	g.DelSub(start, stop)

	if !g.IsDead(start) || !g.IsDead(mid) {
		t.Errorf("start/mid should be dead after DelSub")
	}
	if len(g.State(stop).Outs()) != 1 {
		t.Errorf("stop's own outarc to beyond must survive, got %v", g.State(stop).Outs())
	}
}

func TestDupNFAClonesSubgraph(t *testing.T) {
	g := NewGraph()
	start := g.NewState(FlagPlain)
	mid := g.NewState(FlagPlain)
	stop := g.NewState(FlagPlain)
	g.NewArc(ArcPlain, color.Color(1), start, mid)
	g.NewArc(ArcPlain, color.Color(2), mid, stop)

	from := g.NewState(FlagPlain)
	to := g.NewState(FlagPlain)
	if err := g.DupNFA(start, stop, from, to); err != nil {
		t.Fatal(err)
	}
	if len(g.State(from).Outs()) != 1 {
		t.Fatalf("from should gain one outarc clone, got %v", g.State(from).Outs())
	}
	firstArc := g.Arc(g.State(from).Outs()[0])
	if firstArc.Color() != color.Color(1) {
		t.Errorf("cloned first arc color = %v, want 1", firstArc.Color())
	}
	clonedMid := firstArc.To()
	if clonedMid == mid {
		t.Errorf("clone should allocate a fresh mid state, not reuse the original")
	}
	if len(g.State(clonedMid).Outs()) != 1 {
		t.Fatalf("cloned mid should have one outarc, got %v", g.State(clonedMid).Outs())
	}
	second := g.Arc(g.State(clonedMid).Outs()[0])
	if second.To() != to {
		t.Errorf("clone's final arc should target `to`, got %v want %v", second.To(), to)
	}
}

func TestRainbowSkipsException(t *testing.T) {
	cm := color.NewColormap()
	sub, _ := cm.Subcolor('a')
	cm.OKColors()

	g := NewGraph()
	from := g.NewState(FlagPlain)
	to := g.NewState(FlagPlain)
	Rainbow(g, cm, ArcPlain, sub, from, to)

	for _, id := range g.State(from).Outs() {
		if g.Arc(id).Color() == sub {
			t.Errorf("rainbow should have skipped the exception color")
		}
	}
}

func TestColorComplement(t *testing.T) {
	cm := color.NewColormap()
	subA, _ := cm.Subcolor('a')
	cm.OKColors()
	subB, _ := cm.Subcolor('b')
	cm.OKColors()

	g := NewGraph()
	ref := g.NewState(FlagPlain)
	refTarget := g.NewState(FlagPlain)
	g.NewArc(ArcPlain, subA, ref, refTarget)

	from := g.NewState(FlagPlain)
	to := g.NewState(FlagPlain)
	ColorComplement(g, cm, ArcPlain, ref, from, to)

	sawB, sawA := false, false
	for _, id := range g.State(from).Outs() {
		switch g.Arc(id).Color() {
		case subB:
			sawB = true
		case subA:
			sawA = true
		}
	}
	if !sawB {
		t.Errorf("complement should include subB, the color reference has no outarc for")
	}
	if sawA {
		t.Errorf("complement should exclude subA, which reference already has")
	}
}
