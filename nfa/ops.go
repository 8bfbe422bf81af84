package nfa

import (
	"sort"

	"github.com/coregx/tre/color"
)

// bulkThreshold is the arc-count above which Move/Copy switch from
// arc-by-arc deduplication to the sort-merge strategy (spec.md §4.2).
const bulkThreshold = 32

// arcKey identifies an arc for deduplication purposes: no two arcs may
// share (from, to, type, color) (spec.md §3 NFA arc invariant (a)).
type arcKey struct {
	from, to StateID
	typ      ArcType
	co       color.Color
	lacon    int
}

func keyOf(a *Arc) arcKey {
	return arcKey{from: a.from, to: a.to, typ: a.typ, co: a.co, lacon: a.lacon}
}

// findArc returns the existing arc matching k among the candidate IDs,
// or InvalidArc if none matches.
func (g *Graph) findArc(candidates []ArcID, k arcKey) ArcID {
	for _, id := range candidates {
		a := g.Arc(id)
		if a != nil && keyOf(a) == k {
			return id
		}
	}
	return InvalidArc
}

// NewArc creates an arc from -> to of the given type/color, deduplicating
// against existing arcs sharing (from, to, type, color). If such an arc
// already exists, its ID is returned instead of creating a duplicate.
func (g *Graph) NewArc(typ ArcType, co color.Color, from, to StateID) ArcID {
	return g.newArc(typ, co, 0, false, from, to)
}

// NewLaconArc creates a LACON-typed arc referencing lookahead sub-automaton
// laconIdx, with the given negation sense.
func (g *Graph) NewLaconArc(laconIdx int, negate bool, from, to StateID) ArcID {
	return g.newArc(ArcLacon, color.NoColor, laconIdx, negate, from, to)
}

func (g *Graph) newArc(typ ArcType, co color.Color, lacon int, negate bool, from, to StateID) ArcID {
	fs, ts := g.State(from), g.State(to)
	if fs == nil || ts == nil {
		return InvalidArc
	}
	k := arcKey{from: from, to: to, typ: typ, co: co, lacon: lacon}

	// Dedup against whichever endpoint has fewer arcs (spec.md §4.2).
	if len(fs.outs) <= len(ts.ins) {
		if id := g.findArc(fs.outs, k); id != InvalidArc {
			return id
		}
	} else {
		if id := g.findArc(ts.ins, k); id != InvalidArc {
			return id
		}
	}

	var id ArcID
	if n := len(g.freeArcs); n > 0 {
		id = g.freeArcs[n-1]
		g.freeArcs = g.freeArcs[:n-1]
		g.arcs[id] = Arc{id: id, typ: typ, co: co, from: from, to: to, lacon: lacon, negate: negate}
	} else {
		id = ArcID(len(g.arcs))
		g.arcs = append(g.arcs, Arc{id: id, typ: typ, co: co, from: from, to: to, lacon: lacon, negate: negate})
	}

	fs.outs = append(fs.outs, id)
	ts.ins = append(ts.ins, id)
	if typ == ArcPlain || typ == ArcLacon {
		g.colorChains[co] = append(g.colorChains[co], id)
	}
	return id
}

// FreeArc removes an arc from both endpoints' adjacency lists and from
// its color chain, and returns its slot to the free list.
func (g *Graph) FreeArc(id ArcID) {
	a := g.Arc(id)
	if a == nil {
		return
	}
	if fs := g.State(a.from); fs != nil {
		fs.outs = removeArc(fs.outs, id)
	}
	if ts := g.State(a.to); ts != nil {
		ts.ins = removeArc(ts.ins, id)
	}
	if a.typ == ArcPlain || a.typ == ArcLacon {
		g.colorChains[a.co] = removeArc(g.colorChains[a.co], id)
	}
	a.id = InvalidArc // mark slot dead; Arc() will refuse to return it
	g.freeArcs = append(g.freeArcs, id)
}

func removeArc(list []ArcID, id ArcID) []ArcID {
	for i, x := range list {
		if x == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// ColorChain returns every live arc currently colored co.
func (g *Graph) ColorChain(co color.Color) []ArcID {
	return g.colorChains[co]
}

// MoveIns transfers every inbound arc of old onto to, deduplicating
// against arcs already on to's inbound list. old keeps its outbound arcs.
func (g *Graph) MoveIns(old, to StateID) {
	g.transferIns(old, to, true)
}

// CopyIns is like MoveIns but leaves old's inbound arcs in place,
// duplicating rather than relocating them.
func (g *Graph) CopyIns(old, to StateID) {
	g.transferIns(old, to, false)
}

// MoveOuts transfers every outbound arc of old onto from, deduplicating
// against arcs already on from's outbound list.
func (g *Graph) MoveOuts(old, from StateID) {
	g.transferOuts(old, from, true)
}

// CopyOuts is like MoveOuts but leaves old's outbound arcs in place.
func (g *Graph) CopyOuts(old, from StateID) {
	g.transferOuts(old, from, false)
}

func (g *Graph) transferIns(old, to StateID, move bool) {
	os := g.State(old)
	if os == nil || old == to {
		return
	}
	srcIDs := append([]ArcID(nil), os.ins...)
	if len(srcIDs) > bulkThreshold || len(g.State(to).ins) > bulkThreshold {
		g.transferInsBulk(srcIDs, to, move)
		return
	}
	for _, id := range srcIDs {
		a := g.Arc(id)
		if a == nil {
			continue
		}
		newID := g.newArc(a.typ, a.co, a.lacon, a.negate, a.from, to)
		_ = newID
		if move {
			g.FreeArc(id)
		}
	}
}

func (g *Graph) transferOuts(old, from StateID, move bool) {
	os := g.State(old)
	if os == nil || old == from {
		return
	}
	srcIDs := append([]ArcID(nil), os.outs...)
	if len(srcIDs) > bulkThreshold || len(g.State(from).outs) > bulkThreshold {
		g.transferOutsBulk(srcIDs, from, move)
		return
	}
	for _, id := range srcIDs {
		a := g.Arc(id)
		if a == nil {
			continue
		}
		g.newArc(a.typ, a.co, a.lacon, a.negate, from, a.to)
		if move {
			g.FreeArc(id)
		}
	}
}

// sortable orders arcs by (from/to, color, type) for the merge-pass dedup
// strategy (spec.md §4.2): "sort both arc lists by (from/to, color,
// type), merge-pass with duplicate elimination".
type sortable struct {
	other StateID // the endpoint NOT being unified (the "from" for an ins transfer, "to" for an outs transfer)
	typ   ArcType
	co    color.Color
	lacon int
}

func (g *Graph) transferInsBulk(srcIDs []ArcID, to StateID, move bool) {
	type rec struct {
		id ArcID
		sortable
	}
	src := make([]rec, 0, len(srcIDs))
	for _, id := range srcIDs {
		a := g.Arc(id)
		if a == nil {
			continue
		}
		src = append(src, rec{id: id, sortable: sortable{other: a.from, typ: a.typ, co: a.co, lacon: a.lacon}})
	}
	existing := g.State(to).ins
	exist := make([]sortable, 0, len(existing))
	for _, id := range existing {
		a := g.Arc(id)
		if a == nil {
			continue
		}
		exist = append(exist, sortable{other: a.from, typ: a.typ, co: a.co, lacon: a.lacon})
	}
	less := func(a, b sortable) bool {
		if a.other != b.other {
			return a.other < b.other
		}
		if a.co != b.co {
			return a.co < b.co
		}
		return a.typ < b.typ
	}
	sort.Slice(src, func(i, j int) bool { return less(src[i].sortable, src[j].sortable) })
	sort.Slice(exist, func(i, j int) bool { return less(exist[i], exist[j]) })

	j := 0
	for _, r := range src {
		for j < len(exist) && less(exist[j], r.sortable) {
			j++
		}
		dup := j < len(exist) && exist[j] == r.sortable
		if !dup {
			g.newArc(r.typ, r.co, r.lacon, false, r.other, to)
		}
		if move {
			g.FreeArc(r.id)
		}
	}
}

func (g *Graph) transferOutsBulk(srcIDs []ArcID, from StateID, move bool) {
	type rec struct {
		id ArcID
		sortable
	}
	src := make([]rec, 0, len(srcIDs))
	for _, id := range srcIDs {
		a := g.Arc(id)
		if a == nil {
			continue
		}
		src = append(src, rec{id: id, sortable: sortable{other: a.to, typ: a.typ, co: a.co, lacon: a.lacon}})
	}
	existing := g.State(from).outs
	exist := make([]sortable, 0, len(existing))
	for _, id := range existing {
		a := g.Arc(id)
		if a == nil {
			continue
		}
		exist = append(exist, sortable{other: a.to, typ: a.typ, co: a.co, lacon: a.lacon})
	}
	less := func(a, b sortable) bool {
		if a.other != b.other {
			return a.other < b.other
		}
		if a.co != b.co {
			return a.co < b.co
		}
		return a.typ < b.typ
	}
	sort.Slice(src, func(i, j int) bool { return less(src[i].sortable, src[j].sortable) })
	sort.Slice(exist, func(i, j int) bool { return less(exist[i], exist[j]) })

	j := 0
	for _, r := range src {
		for j < len(exist) && less(exist[j], r.sortable) {
			j++
		}
		dup := j < len(exist) && exist[j] == r.sortable
		if !dup {
			g.newArc(r.typ, r.co, r.lacon, false, from, r.other)
		}
		if move {
			g.FreeArc(r.id)
		}
	}
}

// CloneOuts copies every outarc of "of" as a new arc from->to of the
// given type, preserving each original arc's color.
func (g *Graph) CloneOuts(of StateID, from, to StateID, typ ArcType) {
	os := g.State(of)
	if os == nil {
		return
	}
	for _, id := range append([]ArcID(nil), os.outs...) {
		a := g.Arc(id)
		if a == nil {
			continue
		}
		g.newArc(typ, a.co, a.lacon, a.negate, from, to)
	}
}

// DupNFA replicates the sub-NFA reachable from start without passing
// through stop, wiring the clone's boundary to the given outer endpoints:
// the clone of start's outbound behavior originates at `from`, and arcs
// that targeted stop in the original instead target `to` in the clone.
// Used by the parser's repeat() and backreference duplication (spec.md
// §4.4) to inline extra copies of a quantified or captured subexpression.
func (g *Graph) DupNFA(start, stop, from, to StateID) error {
	mapping := map[StateID]StateID{start: from, stop: to}
	order := []StateID{start}
	visited := map[StateID]bool{start: true, stop: true}

	for i := 0; i < len(order); i++ {
		cur := order[i]
		s := g.State(cur)
		if s == nil {
			continue
		}
		for _, id := range s.outs {
			a := g.Arc(id)
			if a == nil || a.to == stop {
				continue
			}
			if !visited[a.to] {
				visited[a.to] = true
				mapping[a.to] = g.NewState(FlagPlain)
				order = append(order, a.to)
			}
		}
	}

	for _, orig := range order {
		s := g.State(orig)
		if s == nil {
			continue
		}
		newFrom := mapping[orig]
		for _, id := range s.outs {
			a := g.Arc(id)
			if a == nil {
				continue
			}
			newTo, ok := mapping[a.to]
			if !ok {
				newTo = to // arc left the sub-NFA without passing through stop's clone; shouldn't happen in a well-formed sub-NFA
			}
			g.newArc(a.typ, a.co, a.lacon, a.negate, newFrom, newTo)
		}
	}
	return nil
}

// DelSub deletes the interior of the sub-NFA between start and stop: every
// arc and state strictly between them, plus start's own outbound arcs
// (which lead into that interior). start and stop remain valid states —
// start loses its outbound arcs but keeps whatever arcs point into it
// from outside the sub-NFA, and stop is untouched entirely, matching
// dup_nfa's boundary convention (spec.md §4.2).
func (g *Graph) DelSub(start, stop StateID) {
	visited := map[StateID]bool{start: true, stop: true}
	var interior []StateID
	var walk func(StateID)
	walk = func(id StateID) {
		s := g.State(id)
		if s == nil {
			return
		}
		for _, aid := range append([]ArcID(nil), s.outs...) {
			a := g.Arc(aid)
			if a == nil || a.to == stop {
				continue
			}
			if !visited[a.to] {
				visited[a.to] = true
				interior = append(interior, a.to)
				walk(a.to)
			}
		}
	}
	walk(start)

	if ss := g.State(start); ss != nil {
		for _, aid := range append([]ArcID(nil), ss.outs...) {
			g.FreeArc(aid)
		}
	}

	for _, id := range interior {
		s := g.State(id)
		if s == nil {
			continue
		}
		for _, aid := range append([]ArcID(nil), s.ins...) {
			g.FreeArc(aid)
		}
		for _, aid := range append([]ArcID(nil), s.outs...) {
			g.FreeArc(aid)
		}
	}
}
