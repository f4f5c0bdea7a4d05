// Package grid holds the inspection grid laid over a beam elevation and the
// per-cell condition state machine.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfBounds is returned for a cell address outside the current extents.
var ErrOutOfBounds = errors.New("cell out of bounds")

// Extents describes the current grid dimensions.
type Extents struct {
	Rows           int     `json:"rows"`
	Cols           int     `json:"cols"`
	FlangeCols     int     `json:"flange_cols"`
	WebCellSize    float64 `json:"web_cell_size"`    // in
	FlangeCellSize float64 `json:"flange_cell_size"` // in
}

// Contains reports whether c addresses a cell inside the extents.
func (e Extents) Contains(c Cell) bool {
	if c.Col < 0 {
		return false
	}
	if c.Flange {
		return (c.Row == TopFlange || c.Row == BottomFlange) && c.Col < e.FlangeCols
	}
	return c.Row >= 0 && c.Row < e.Rows && c.Col < e.Cols
}

// Listener is told about every state change, synchronously.
type Listener interface {
	// CellChanged is called after a cell has moved to state.
	CellChanged(c Cell, state State)
	// GridReset is called after the grid was replaced; all cells are Intact.
	GridReset(e Extents)
}

// Grid is the condition grid of one sketch. Web cells live in a flat
// row-major slice. Not safe for concurrent use.
type Grid struct {
	length   float64
	extents  Extents
	web      []State
	flanges  [2][]State
	listener Listener
}

// New creates an empty grid for a span of the given length (in). Call
// Reinitialize to size it.
func New(length float64, l Listener) *Grid {
	return &Grid{length: length, listener: l}
}

// Size returns the web matrix dimensions that fit a web of the given height
// along the span.
func Size(webHeight, length, webCellSize float64) (rows, cols int) {
	if webCellSize <= 0 {
		return 0, 0
	}
	return int(math.Floor(webHeight / webCellSize)), int(math.Floor(length / webCellSize))
}

// FlangeLength returns the number of flange cells covering the span.
func FlangeLength(length, flangeCellSize float64) int {
	if flangeCellSize <= 0 {
		return 0
	}
	return int(math.Ceil(length / flangeCellSize))
}

// Reinitialize replaces the grid wholesale; every cell becomes Intact and
// the listener is told to drop its state.
func (g *Grid) Reinitialize(rows, cols int, webCellSize, flangeCellSize float64) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("invalid grid size: rows=%d, cols=%d", rows, cols)
	}
	if webCellSize <= 0 || flangeCellSize <= 0 {
		return fmt.Errorf("invalid cell size: web=%.3f, flange=%.3f", webCellSize, flangeCellSize)
	}

	n := FlangeLength(g.length, flangeCellSize)
	g.extents = Extents{
		Rows:           rows,
		Cols:           cols,
		FlangeCols:     n,
		WebCellSize:    webCellSize,
		FlangeCellSize: flangeCellSize,
	}
	g.web = make([]State, rows*cols)
	g.flanges = [2][]State{make([]State, n), make([]State, n)}

	if g.listener != nil {
		g.listener.GridReset(g.extents)
	}
	return nil
}

// Extents returns the current dimensions.
func (g *Grid) Extents() Extents { return g.extents }

// Length returns the span length the grid covers (in).
func (g *Grid) Length() float64 { return g.length }

func (g *Grid) slot(c Cell) (*State, error) {
	if !g.extents.Contains(c) {
		return nil, fmt.Errorf("%w: %s (grid %dx%d, flange %d)",
			ErrOutOfBounds, c, g.extents.Rows, g.extents.Cols, g.extents.FlangeCols)
	}
	if c.Flange {
		return &g.flanges[c.Row][c.Col], nil
	}
	return &g.web[c.Row*g.extents.Cols+c.Col], nil
}

// Advance moves the cell one step through the condition cycle and returns
// its new state. The listener has been notified by the time it returns.
func (g *Grid) Advance(c Cell) (State, error) {
	s, err := g.slot(c)
	if err != nil {
		return Intact, err
	}
	*s = s.Next()
	if g.listener != nil {
		g.listener.CellChanged(c, *s)
	}
	return *s, nil
}

// State returns the current state of the cell.
func (g *Grid) State(c Cell) (State, error) {
	s, err := g.slot(c)
	if err != nil {
		return Intact, err
	}
	return *s, nil
}

// Web returns a copy of the web matrix as rows.
func (g *Grid) Web() [][]State {
	out := make([][]State, g.extents.Rows)
	for r := range out {
		out[r] = make([]State, g.extents.Cols)
		copy(out[r], g.web[r*g.extents.Cols:(r+1)*g.extents.Cols])
	}
	return out
}

// Flange returns a copy of the top (row 0) or bottom (row 1) flange array.
func (g *Grid) Flange(row int) []State {
	if row != TopFlange && row != BottomFlange {
		return nil
	}
	out := make([]State, len(g.flanges[row]))
	copy(out, g.flanges[row])
	return out
}

// Cells returns the addresses of all cells in the given state, web cells
// first in row-major order, then the top and bottom flanges.
func (g *Grid) Cells(state State) []Cell {
	var cells []Cell
	for i, s := range g.web {
		if s == state {
			cells = append(cells, Web(i/g.extents.Cols, i%g.extents.Cols))
		}
	}
	for row, f := range g.flanges {
		for col, s := range f {
			if s == state {
				cells = append(cells, FlangeCell(row, col))
			}
		}
	}
	return cells
}

// Count returns how many cells are in the given state.
func (g *Grid) Count(state State) int {
	n := 0
	for _, s := range g.web {
		if s == state {
			n++
		}
	}
	for _, f := range g.flanges {
		for _, s := range f {
			if s == state {
				n++
			}
		}
	}
	return n
}
