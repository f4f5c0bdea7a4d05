// Package contour groups damaged grid cells into regions and traces the
// outline of each region as a polygon.
//
// A Tracer listens to a grid.Grid. Cells in the SectionLoss or Perforated
// state belong to exactly one region of the matching type; a region is a
// set of cells on one surface (web, top flange or bottom flange) connected
// through their edges or corners.
package contour

import (
	"encoding/json"
	"fmt"

	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
)

// Type classifies a contour by the damage it encloses.
type Type uint8

const (
	SectionLoss Type = iota
	Perforation
)

func (t Type) String() string {
	if t == Perforation {
		return "perforation"
	}
	return "section_loss"
}

func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// TypeOf maps a damage state to its contour type.
func TypeOf(s grid.State) (Type, bool) {
	switch s {
	case grid.SectionLoss:
		return SectionLoss, true
	case grid.Perforated:
		return Perforation, true
	}
	return 0, false
}

// Frame carries the beam dimensions needed to place cells in drawing
// coordinates. Lengths are in inches.
type Frame struct {
	Scale           float64 // px/in
	Depth           float64
	FlangeThickness float64
	Length          float64
}

// Contour is one connected damage region.
type Contour struct {
	ID     string      `json:"id"`
	Type   Type        `json:"type"`
	Flange bool        `json:"flange"`
	Cells  []grid.Cell `json:"cells"`

	// Boundary is the outer ring, clockwise on screen, not repeating its
	// first point. Holes are inner rings of undamaged cells.
	Boundary []geometry.Point   `json:"boundary"`
	Holes    [][]geometry.Point `json:"holes,omitempty"`

	// Area covered by the member cells (in²)
	Area float64 `json:"area"`
}

// Bounds returns the bounding box of the boundary.
func (c Contour) Bounds() geometry.Rect {
	return geometry.RectFromPoints(c.Boundary...)
}

func contourID(n int) string {
	return fmt.Sprintf("contour-%d", n)
}
