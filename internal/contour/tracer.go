package contour

import (
	"math"
	"sort"

	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
)

type surface uint8

const (
	web surface = iota
	topFlange
	bottomFlange
)

// region is the mutable bookkeeping behind a Contour. Member cells are
// stored by arena slot, see Tracer.slot.
type region struct {
	id      int
	typ     Type
	surface surface
	slots   map[int]struct{}
	shape   Contour
}

// Tracer maintains the damage regions of a grid incrementally. It
// implements grid.Listener; every notification leaves the region set
// consistent with the grid before the grid call returns.
type Tracer struct {
	frame   Frame
	extents grid.Extents
	owner   []*region // by slot
	regions map[*region]struct{}
	nextID  int
}

// NewTracer creates a tracer placing cells with the given frame.
func NewTracer(f Frame) *Tracer {
	return &Tracer{frame: f, regions: make(map[*region]struct{}), nextID: 1}
}

// SetFrame changes the drawing frame and retraces every region.
func (t *Tracer) SetFrame(f Frame) {
	t.frame = f
	for r := range t.regions {
		t.trace(r)
	}
}

// GridReset drops all regions and sizes the tracer to the new grid.
func (t *Tracer) GridReset(e grid.Extents) {
	t.extents = e
	t.owner = make([]*region, e.Rows*e.Cols+2*e.FlangeCols)
	t.regions = make(map[*region]struct{})
	t.nextID = 1
}

// CellChanged moves the cell out of its current region and, if the new
// state is damage, into the region of that type it touches.
func (t *Tracer) CellChanged(c grid.Cell, s grid.State) {
	if !t.extents.Contains(c) || len(t.owner) == 0 {
		return
	}
	i := t.slot(c)
	if r := t.owner[i]; r != nil {
		t.detach(i, r)
	}
	if typ, ok := TypeOf(s); ok {
		t.attach(i, typ)
	}
}

// Contours returns the current regions ordered by id.
func (t *Tracer) Contours() []Contour {
	rs := t.sorted()
	out := make([]Contour, len(rs))
	for i, r := range rs {
		out[i] = r.shape
	}
	return out
}

// Len returns the number of regions.
func (t *Tracer) Len() int { return len(t.regions) }

// Lookup returns the contour holding the cell.
func (t *Tracer) Lookup(c grid.Cell) (Contour, bool) {
	if !t.extents.Contains(c) || len(t.owner) == 0 {
		return Contour{}, false
	}
	r := t.owner[t.slot(c)]
	if r == nil {
		return Contour{}, false
	}
	return r.shape, true
}

func (t *Tracer) sorted() []*region {
	rs := make([]*region, 0, len(t.regions))
	for r := range t.regions {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(a, b int) bool { return rs[a].id < rs[b].id })
	return rs
}

// slot maps a cell to its arena index: web cells row-major, then the top
// flange, then the bottom flange.
func (t *Tracer) slot(c grid.Cell) int {
	if c.Flange {
		return t.extents.Rows*t.extents.Cols + c.Row*t.extents.FlangeCols + c.Col
	}
	return c.Row*t.extents.Cols + c.Col
}

func (t *Tracer) cellAt(i int) grid.Cell {
	n := t.extents.Rows * t.extents.Cols
	if i < n {
		return grid.Web(i/t.extents.Cols, i%t.extents.Cols)
	}
	i -= n
	return grid.FlangeCell(i/t.extents.FlangeCols, i%t.extents.FlangeCols)
}

func (t *Tracer) surfaceOf(i int) surface {
	c := t.cellAt(i)
	switch {
	case !c.Flange:
		return web
	case c.Row == grid.TopFlange:
		return topFlange
	default:
		return bottomFlange
	}
}

// lattice returns the cell position on its own surface as (x=col, y=row).
func (t *Tracer) lattice(i int) vertex {
	c := t.cellAt(i)
	if c.Flange {
		return vertex{c.Col, 0}
	}
	return vertex{c.Col, c.Row}
}

// neighbors returns the slots within Chebyshev distance 1 on the same surface.
func (t *Tracer) neighbors(i int) []int {
	c := t.cellAt(i)
	var out []int
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := grid.Cell{Row: c.Row + dr, Col: c.Col + dc, Flange: c.Flange}
			if c.Flange && dr != 0 {
				continue
			}
			if t.extents.Contains(n) {
				out = append(out, t.slot(n))
			}
		}
	}
	return out
}

func (t *Tracer) newRegion(typ Type, s surface) *region {
	r := &region{id: t.nextID, typ: typ, surface: s, slots: make(map[int]struct{})}
	t.nextID++
	t.regions[r] = struct{}{}
	return r
}

func (t *Tracer) attach(i int, typ Type) {
	var touching []*region
	for _, n := range t.neighbors(i) {
		r := t.owner[n]
		if r == nil || r.typ != typ || hasRegion(touching, r) {
			continue
		}
		touching = append(touching, r)
	}

	if len(touching) == 0 {
		r := t.newRegion(typ, t.surfaceOf(i))
		r.slots[i] = struct{}{}
		t.owner[i] = r
		t.trace(r)
		return
	}

	// union by size; the merged region keeps the oldest id
	sort.Slice(touching, func(a, b int) bool {
		if len(touching[a].slots) != len(touching[b].slots) {
			return len(touching[a].slots) > len(touching[b].slots)
		}
		return touching[a].id < touching[b].id
	})
	root := touching[0]
	for _, r := range touching[1:] {
		if r.id < root.id {
			root.id = r.id
		}
		for s := range r.slots {
			root.slots[s] = struct{}{}
			t.owner[s] = root
		}
		delete(t.regions, r)
	}
	root.slots[i] = struct{}{}
	t.owner[i] = root
	t.trace(root)
}

func (t *Tracer) detach(i int, r *region) {
	delete(r.slots, i)
	t.owner[i] = nil
	if len(r.slots) == 0 {
		delete(t.regions, r)
		return
	}

	parts := t.components(r)
	r.slots = parts[0]
	t.trace(r)
	for _, p := range parts[1:] {
		nr := t.newRegion(r.typ, r.surface)
		nr.slots = p
		for s := range p {
			t.owner[s] = nr
		}
		t.trace(nr)
	}
}

// components splits the region into connected parts, largest first; ties
// go to the part holding the lowest slot.
func (t *Tracer) components(r *region) []map[int]struct{} {
	keys := sortedSlots(r.slots)
	seen := make(map[int]bool, len(keys))
	var parts []map[int]struct{}
	var first []int

	for _, start := range keys {
		if seen[start] {
			continue
		}
		part := map[int]struct{}{}
		queue := []int{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			part[cur] = struct{}{}
			for _, n := range t.neighbors(cur) {
				if _, in := r.slots[n]; in && !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		parts = append(parts, part)
		first = append(first, start)
	}

	idx := make([]int, len(parts))
	for k := range idx {
		idx[k] = k
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if len(parts[idx[a]]) != len(parts[idx[b]]) {
			return len(parts[idx[a]]) > len(parts[idx[b]])
		}
		return first[idx[a]] < first[idx[b]]
	})
	out := make([]map[int]struct{}, len(parts))
	for k, j := range idx {
		out[k] = parts[j]
	}
	return out
}

// trace rebuilds the exported shape of the region.
func (t *Tracer) trace(r *region) {
	keys := sortedSlots(r.slots)
	cells := make([]grid.Cell, len(keys))
	lat := make(map[vertex]bool, len(keys))
	for k, s := range keys {
		cells[k] = t.cellAt(s)
		lat[t.lattice(s)] = true
	}

	shape := Contour{
		ID:     contourID(r.id),
		Type:   r.typ,
		Flange: r.surface != web,
		Cells:  cells,
		Area:   t.area(r.surface, cells),
	}

	var best float64
	for _, loop := range traceLoops(lat) {
		pts := make([]geometry.Point, len(loop))
		for k, v := range loop {
			pts[k] = t.place(r.surface, v)
		}
		if a := signedArea(loop); a > best {
			if shape.Boundary != nil {
				shape.Holes = append(shape.Holes, shape.Boundary)
			}
			shape.Boundary, best = pts, a
		} else {
			shape.Holes = append(shape.Holes, pts)
		}
	}
	r.shape = shape
}

// place maps a lattice corner on a surface to drawing coordinates.
func (t *Tracer) place(s surface, v vertex) geometry.Point {
	f := t.frame
	if s == web {
		ws := t.extents.WebCellSize
		return geometry.Pt(
			float64(v.x)*ws*f.Scale,
			(f.FlangeThickness+float64(v.y)*ws)*f.Scale,
		)
	}

	x := math.Min(float64(v.x)*t.extents.FlangeCellSize, f.Length)
	top := 0.0
	if s == bottomFlange {
		top = f.Depth - f.FlangeThickness
	}
	return geometry.Pt(x*f.Scale, (top+float64(v.y)*f.FlangeThickness)*f.Scale)
}

func (t *Tracer) area(s surface, cells []grid.Cell) float64 {
	if s == web {
		ws := t.extents.WebCellSize
		return float64(len(cells)) * ws * ws
	}
	fs := t.extents.FlangeCellSize
	var a float64
	for _, c := range cells {
		x0 := float64(c.Col) * fs
		x1 := math.Min(x0+fs, t.frame.Length)
		a += math.Max(0, x1-x0) * t.frame.FlangeThickness
	}
	return a
}

func hasRegion(rs []*region, r *region) bool {
	for _, x := range rs {
		if x == r {
			return true
		}
	}
	return false
}

func sortedSlots(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
