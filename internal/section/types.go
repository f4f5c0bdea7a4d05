package section

import (
	"fmt"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
)

// arc subdivision used when polygonizing the rolled outline
const arcChords = 16

// Section represents a cross-section polygon in inches.
// The section is defined in the drawing coordinate system where:
// - Y-axis points downward (0 = top of the top flange)
// - X-axis points to the right
type Section struct {
	Name string

	// Outline vertices (in), closed implicitly
	Vertices []geometry.Point
}

// Properties holds calculated geometric properties
type Properties struct {
	// Overall dimensions
	Width  float64 // Maximum width (in)
	Height float64 // Total height (in)
	Area   float64 // Gross area (in²)

	// Centroid location, measured from the top-left corner
	CentroidX float64 // in
	CentroidY float64 // in

	// Second moments of area about the centroidal axes
	Ix float64 // in⁴, strong axis
	Iy float64 // in⁴, weak axis

	// Bounding box
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64

	// Nominal weight from area and steel density
	NominalWeight float64 // lb/ft
}

// FromProfile builds the rolled cross-section of a W-shape, fillets
// included, in inches.
func FromProfile(p beam.Profile) (*Section, error) {
	m, err := geometry.New(p, 1)
	if err != nil {
		return nil, err
	}
	outline, err := m.CrossSectionOutline()
	if err != nil {
		return nil, err
	}
	s := &Section{Name: p.Designation, Vertices: outline.Flatten(arcChords)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the section definition is valid
func (s *Section) Validate() error {
	if len(s.Vertices) < 3 {
		return &ValidationError{fmt.Sprintf("section %s must have at least 3 vertices", s.Name)}
	}
	if area, _, _ := s.calculateAreaAndCentroid(); area <= 0 {
		return &ValidationError{fmt.Sprintf("section %s has no area", s.Name)}
	}
	return nil
}

// ValidationError represents a section validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
