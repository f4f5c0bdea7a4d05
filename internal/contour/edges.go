package contour

import "sort"

// vertex is a lattice corner, x along columns and y along rows.
type vertex struct{ x, y int }

type edge struct{ from, to vertex }

func (e edge) dir() vertex { return vertex{e.to.x - e.from.x, e.to.y - e.from.y} }

// boundaryEdges emits the directed unit edges of the cell union. Each cell
// contributes its four sides clockwise on screen, so the region interior
// lies to the right of every edge; a side shared with another member cell
// is emitted by neither cell.
func boundaryEdges(cells map[vertex]bool) []edge {
	var edges []edge
	for c := range cells {
		x, y := c.x, c.y
		if !cells[vertex{x, y - 1}] {
			edges = append(edges, edge{vertex{x, y}, vertex{x + 1, y}})
		}
		if !cells[vertex{x + 1, y}] {
			edges = append(edges, edge{vertex{x + 1, y}, vertex{x + 1, y + 1}})
		}
		if !cells[vertex{x, y + 1}] {
			edges = append(edges, edge{vertex{x + 1, y + 1}, vertex{x, y + 1}})
		}
		if !cells[vertex{x - 1, y}] {
			edges = append(edges, edge{vertex{x, y + 1}, vertex{x, y}})
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		ea, eb := edges[a], edges[b]
		if ea.from.y != eb.from.y {
			return ea.from.y < eb.from.y
		}
		if ea.from.x != eb.from.x {
			return ea.from.x < eb.from.x
		}
		if ea.to.y != eb.to.y {
			return ea.to.y < eb.to.y
		}
		return ea.to.x < eb.to.x
	})
	return edges
}

// turnRank orders the continuation choices at a vertex: left, straight,
// right, back. At a corner shared by two diagonal cells the left turn keeps
// both cells on one ring.
func turnRank(in, out vertex) int {
	switch out {
	case vertex{in.y, -in.x}:
		return 0
	case in:
		return 1
	case vertex{-in.y, in.x}:
		return 2
	}
	return 3
}

// traceLoops walks the boundary edges into closed rings of corner vertices
// with collinear corners removed. Rings with positive signedArea are outer
// boundaries, negative ones are holes.
func traceLoops(cells map[vertex]bool) [][]vertex {
	edges := boundaryEdges(cells)
	out := make(map[vertex][]int, len(edges))
	for i, e := range edges {
		out[e.from] = append(out[e.from], i)
	}

	used := make([]bool, len(edges))
	var loops [][]vertex
	for start := range edges {
		if used[start] {
			continue
		}
		loop := []vertex{edges[start].from}
		used[start] = true
		cur := start
		for {
			at := edges[cur].to
			in := edges[cur].dir()
			next, rank := -1, 4
			for _, cand := range out[at] {
				if used[cand] && cand != start {
					continue
				}
				if r := turnRank(in, edges[cand].dir()); r < rank {
					next, rank = cand, r
				}
			}
			if next < 0 || next == start {
				break
			}
			loop = append(loop, at)
			used[next] = true
			cur = next
		}
		loops = append(loops, simplify(loop))
	}
	return loops
}

// simplify drops corners where the ring continues straight on.
func simplify(loop []vertex) []vertex {
	n := len(loop)
	if n < 3 {
		return loop
	}
	var out []vertex
	for i, v := range loop {
		prev := loop[(i+n-1)%n]
		next := loop[(i+1)%n]
		d1 := vertex{v.x - prev.x, v.y - prev.y}
		d2 := vertex{next.x - v.x, next.y - v.y}
		if d1.x*d2.y-d1.y*d2.x == 0 && d1.x*d2.x+d1.y*d2.y > 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// signedArea is the shoelace area of a ring; positive for rings running
// clockwise on screen.
func signedArea(loop []vertex) float64 {
	var sum int
	n := len(loop)
	for i := range loop {
		j := (i + 1) % n
		sum += loop[i].x*loop[j].y - loop[j].x*loop[i].y
	}
	return float64(sum) / 2
}
