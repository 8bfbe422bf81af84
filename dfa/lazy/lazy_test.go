package lazy

import (
	"testing"

	"github.com/coregx/tre/cnfa"
	"github.com/coregx/tre/color"
)

// newABCnfa constructs the compact automaton for the two-byte literal "ab".
func newABCnfa() *cnfa.CNFA {
	c := &cnfa.CNFA{Pre: 0, Post: 2, NColors: 3}
	c.States = []cnfa.State{
		{ArcOff: 0, ArcCount: 1},
		{ArcOff: 1, ArcCount: 1},
		{ArcOff: 2, ArcCount: 0, NoProgress: true},
	}
	c.Arcs = []cnfa.Arc{
		{Co: 1, To: 1, Kind: cnfa.Plain}, // 'a' has color 1
		{Co: 2, To: 2, Kind: cnfa.Plain}, // 'b' has color 2
	}
	return c
}

func newColormapAB() *color.Colormap {
	cm := color.NewColormap()
	if _, err := cm.Subcolor('a'); err != nil {
		panic(err)
	}
	cm.OKColors()
	if _, err := cm.Subcolor('b'); err != nil {
		panic(err)
	}
	return cm
}

func TestLongestMatchesLiteral(t *testing.T) {
	c := newABCnfa()
	cm := newColormapAB()
	d := New(c, cm, nil)

	text := []byte("xaby")
	end, _, _ := d.Longest(text, 1, len(text))
	if end != 3 {
		t.Fatalf("Longest end = %d, want 3", end)
	}
}

func TestLongestNoMatch(t *testing.T) {
	c := newABCnfa()
	cm := newColormapAB()
	d := New(c, cm, nil)

	text := []byte("xxxx")
	end, _, _ := d.Longest(text, 0, len(text))
	if end != -1 {
		t.Fatalf("Longest end = %d, want -1 (no match)", end)
	}
}

func TestShortestRespectsMin(t *testing.T) {
	// pre --a(color1)--> mid(=post too, via empty-equivalent direct arc)
	c := &cnfa.CNFA{Pre: 0, Post: 1, NColors: 2}
	c.States = []cnfa.State{
		{ArcOff: 0, ArcCount: 1},
		{ArcOff: 1, ArcCount: 0, NoProgress: true},
	}
	c.Arcs = []cnfa.Arc{
		{Co: 1, To: 1, Kind: cnfa.Plain},
	}
	cm := color.NewColormap()
	if _, err := cm.Subcolor('a'); err != nil {
		t.Fatal(err)
	}
	d := New(c, cm, nil)

	text := []byte("aaaa")
	end, _, _ := d.Shortest(text, 0, 1, -1)
	if end != 1 {
		t.Fatalf("Shortest end = %d, want 1", end)
	}
}

func TestClosureAtBOLSatisfiedAtStart(t *testing.T) {
	c := &cnfa.CNFA{Pre: 0, Post: 2, NColors: 1}
	c.States = []cnfa.State{
		{ArcOff: 0, ArcCount: 1},
		{ArcOff: 1, ArcCount: 0, NoProgress: true},
		{ArcOff: 1, ArcCount: 0, NoProgress: true},
	}
	c.Arcs = []cnfa.Arc{
		{Co: color.NoColor, To: 1, Kind: cnfa.BOL},
	}
	d := New(c, nil, nil)

	closed := d.closureAt([]uint32{0}, []byte("x"), 0)
	found := false
	for _, m := range closed {
		if m == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected BOL arc to fire at position 0")
	}

	closed = d.closureAt([]uint32{0}, []byte("xy"), 1)
	for _, m := range closed {
		if m == 1 {
			t.Errorf("BOL arc should not fire mid-string without a preceding newline")
		}
	}
}

func TestLaconNegation(t *testing.T) {
	c := &cnfa.CNFA{Pre: 0, Post: 1, NColors: 1}
	c.States = []cnfa.State{
		{ArcOff: 0, ArcCount: 1},
		{ArcOff: 1, ArcCount: 0, NoProgress: true},
	}
	c.Arcs = []cnfa.Arc{
		{Kind: cnfa.Lacon, Lacon: 0, Negate: true, To: 1},
	}
	d := New(c, nil, fakeTester{result: false})

	closed := d.closureAt([]uint32{0}, []byte("x"), 0)
	found := false
	for _, m := range closed {
		if m == 1 {
			found = true
		}
	}
	if !found {
		t.Errorf("negated lacon with a false underlying test should satisfy the arc")
	}
}

type fakeTester struct{ result bool }

func (f fakeTester) TestLacon(idx int, text []byte, pos int) bool { return f.result }
