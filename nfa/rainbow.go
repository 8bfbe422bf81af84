package nfa

import "github.com/coregx/tre/color"

// Rainbow adds an arc of type typ from -> to for every live color in cm
// except exception, mirroring the original engine's "rainbow" primitive
// used to implement `.` and negated bracket expressions (spec.md §4.1).
// Pseudocolors are never members of cm and so never need explicit
// skipping; exception is the one real color (if any) to omit, e.g. a
// bracket expression's own excluded characters.
func Rainbow(g *Graph, cm *color.Colormap, typ ArcType, exception color.Color, from, to StateID) {
	for _, co := range cm.Colors() {
		if co == exception {
			continue
		}
		g.NewArc(typ, co, from, to)
	}
}

// ColorComplement adds an arc of type typ from -> to for every live color
// in cm that reference has no PLAIN outarc for. This implements negated
// bracket expressions (`[^...]`) once the expression's own characters have
// already been wired as PLAIN arcs out of some scratch state: reference
// names that scratch state, and the complement is taken against it
// (spec.md §4.1).
func ColorComplement(g *Graph, cm *color.Colormap, typ ArcType, reference, from, to StateID) {
	has := make(map[color.Color]bool)
	if rs := g.State(reference); rs != nil {
		for _, id := range rs.outs {
			a := g.Arc(id)
			if a != nil && a.typ == ArcPlain {
				has[a.co] = true
			}
		}
	}
	for _, co := range cm.Colors() {
		if has[co] {
			continue
		}
		g.NewArc(typ, co, from, to)
	}
}
