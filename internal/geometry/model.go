package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/steel"
)

// ErrInvalidGeometry is returned for non-positive or physically impossible
// dimensions.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Model maps a beam profile and a scale (pixels per inch) to drawable
// primitives. It holds no state beyond its inputs; when the beam or the
// scale changes, build a new Model.
type Model struct {
	Beam   beam.Profile
	Scale  float64 // px/in
	Length float64 // in
}

// New creates a model for the profile at the given scale.
func New(b beam.Profile, scale float64) (*Model, error) {
	m := &Model{Beam: b, Scale: scale, Length: steel.SpanLength}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validate() error {
	b := m.Beam
	if m.Scale <= 0 || math.IsNaN(m.Scale) || math.IsInf(m.Scale, 0) {
		return fmt.Errorf("%w: scale=%.4f", ErrInvalidGeometry, m.Scale)
	}
	if m.Length <= 0 {
		return fmt.Errorf("%w: length=%.2f", ErrInvalidGeometry, m.Length)
	}
	if b.Depth <= 0 || b.FlangeWidth <= 0 || b.WebThickness <= 0 || b.FlangeThickness <= 0 {
		return fmt.Errorf("%w: d=%.3f, bf=%.3f, tw=%.3f, tf=%.3f",
			ErrInvalidGeometry, b.Depth, b.FlangeWidth, b.WebThickness, b.FlangeThickness)
	}
	if b.Depth <= 2*b.FlangeThickness {
		return fmt.Errorf("%w: d=%.3f leaves no web between flanges tf=%.3f", ErrInvalidGeometry, b.Depth, b.FlangeThickness)
	}
	if b.FlangeWidth <= b.WebThickness {
		return fmt.Errorf("%w: bf=%.3f must exceed tw=%.3f", ErrInvalidGeometry, b.FlangeWidth, b.WebThickness)
	}
	return nil
}

// Px converts inches to drawing units.
func (m *Model) Px(inches float64) float64 { return inches * m.Scale }

// FilletRadius returns the scaled web-to-flange fillet radius after the
// clamps that keep the outline simple.
func (m *Model) FilletRadius() float64 {
	tw := m.Px(m.Beam.WebThickness)
	tf := m.Px(m.Beam.FlangeThickness)
	r := m.Px(steel.FilletRadius)

	if r > tw/2 {
		r = math.Min(tw, tf) / 2
	}
	// the arc must fit on the flange outstand and the clear web
	outstand := (m.Px(m.Beam.FlangeWidth) - tw) / 2
	clear := m.Px(m.Beam.WebHeight()) / 2
	return math.Max(0, math.Min(r, math.Min(outstand, clear)))
}

// CrossSectionOutline returns the closed I-shape outline, clockwise on
// screen from the top-left corner, with a quarter-circle fillet at each
// web-to-flange corner.
func (m *Model) CrossSectionOutline() (Path, error) {
	if err := m.validate(); err != nil {
		return Path{}, err
	}

	w := m.Px(m.Beam.FlangeWidth)
	h := m.Px(m.Beam.Depth)
	tf := m.Px(m.Beam.FlangeThickness)
	tw := m.Px(m.Beam.WebThickness)
	r := m.FilletRadius()
	xl := (w - tw) / 2
	xr := (w + tw) / 2

	p := Path{Closed: true}
	p.Segments = append(p.Segments, Segment{Kind: SegmentLine, From: Pt(0, 0), To: Pt(w, 0)})
	p.lineTo(Pt(w, tf))

	// top right
	p.lineTo(Pt(xr+r, tf))
	p.arcTo(Pt(xr, tf+r), Pt(xr+r, tf+r))
	p.lineTo(Pt(xr, h-tf-r))
	// bottom right
	p.arcTo(Pt(xr+r, h-tf), Pt(xr+r, h-tf-r))
	p.lineTo(Pt(w, h-tf))

	p.lineTo(Pt(w, h))
	p.lineTo(Pt(0, h))
	p.lineTo(Pt(0, h-tf))

	// bottom left
	p.lineTo(Pt(xl-r, h-tf))
	p.arcTo(Pt(xl, h-tf-r), Pt(xl-r, h-tf-r))
	p.lineTo(Pt(xl, tf+r))
	// top left
	p.arcTo(Pt(xl-r, tf), Pt(xl-r, tf+r))
	p.lineTo(Pt(0, tf))
	p.lineTo(Pt(0, 0))

	return p, nil
}

// CrossSectionBounds returns the flange width by depth box.
func (m *Model) CrossSectionBounds() Rect {
	return Rect{Max: Pt(m.Px(m.Beam.FlangeWidth), m.Px(m.Beam.Depth))}
}

// CrossSectionCenterlines returns the vertical and horizontal centerlines,
// each overhanging the section by a quarter of its extent.
func (m *Model) CrossSectionCenterlines() (vertical, horizontal Line, err error) {
	if err = m.validate(); err != nil {
		return Line{}, Line{}, err
	}
	w := m.Px(m.Beam.FlangeWidth)
	h := m.Px(m.Beam.Depth)
	vertical = Line{From: Pt(w/2, -h/4), To: Pt(w/2, h+h/4)}
	horizontal = Line{From: Pt(-w/4, h/2), To: Pt(w+w/4, h/2)}
	return vertical, horizontal, nil
}

// Elevation holds the side-view primitives of the beam span.
type Elevation struct {
	Outline      Rect `json:"outline"`
	TopFlange    Line `json:"top_flange"`
	BottomFlange Line `json:"bottom_flange"`
	Centerline   Line `json:"centerline"`
}

// ElevationOutline returns the span rectangle, the two flange boundary
// lines and the web centerline.
func (m *Model) ElevationOutline() (Elevation, error) {
	if err := m.validate(); err != nil {
		return Elevation{}, err
	}
	w := m.Px(m.Length)
	h := m.Px(m.Beam.Depth)
	tf := m.Px(m.Beam.FlangeThickness)

	return Elevation{
		Outline:      Rect{Max: Pt(w, h)},
		TopFlange:    Line{From: Pt(0, tf), To: Pt(w, tf)},
		BottomFlange: Line{From: Pt(0, h-tf), To: Pt(w, h-tf)},
		Centerline:   Line{From: Pt(w/2, tf), To: Pt(w/2, h-tf)},
	}, nil
}

// WebBand returns the web region of the elevation.
func (m *Model) WebBand() Rect {
	tf := m.Px(m.Beam.FlangeThickness)
	return Rect{Min: Pt(0, tf), Max: Pt(m.Px(m.Length), m.Px(m.Beam.Depth)-tf)}
}
