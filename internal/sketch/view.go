package sketch

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/wfbeam/internal/dimension"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/steel"
)

// View selects one of the two drawings of a sketch.
type View uint8

const (
	Elevation View = iota
	CrossSection

	numViews
)

func (v View) Valid() bool { return v < numViews }

func (v View) String() string {
	switch v {
	case Elevation:
		return "elevation"
	case CrossSection:
		return "cross-section"
	default:
		return fmt.Sprintf("view(%d)", v)
	}
}

func (v View) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// ParseView accepts "elevation" or "cross-section" (also "section", "xs").
// An empty name selects the elevation.
func ParseView(name string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "elevation", "elev":
		return Elevation, nil
	case "cross-section", "crosssection", "cross_section", "section", "xs":
		return CrossSection, nil
	}
	return 0, fmt.Errorf("unknown view %q (valid: elevation, cross-section)", name)
}

// StandardDimensions returns the measurement requests drawn on every sketch.
//
// Elevation: overall depth and web depth on the right end of the span,
// then running ordinates every foot along the bottom edge.
// Cross-section: flange width above, depth on the right, web thickness
// below and flange thickness on the left.
func (s *Sketch) StandardDimensions(v View) []dimension.Request {
	b := s.profile
	px := s.model.Px
	h := px(b.Depth)
	tf := px(b.FlangeThickness)

	// Endpoints run so that the left-hand normal points away from the beam.
	switch v {
	case Elevation:
		w := px(steel.SpanLength)
		reqs := []dimension.Request{
			{Start: geometry.Pt(w, h), End: geometry.Pt(w, 0), Label: dimension.FormatLength(b.Depth)},
			{Start: geometry.Pt(w, h-tf), End: geometry.Pt(w, tf), Label: dimension.FormatLength(b.WebHeight())},
		}
		n := int(math.Floor(steel.SpanLength/steel.OrdinateSpacing + 1e-9))
		for i := 0; i <= n; i++ {
			x := float64(i) * steel.OrdinateSpacing
			p := geometry.Pt(px(x), h)
			reqs = append(reqs, dimension.Request{Start: p, End: p, Label: dimension.FormatLength(x)})
		}
		return reqs

	case CrossSection:
		w := px(b.FlangeWidth)
		xl := px((b.FlangeWidth - b.WebThickness) / 2)
		xr := xl + px(b.WebThickness)
		return []dimension.Request{
			{Start: geometry.Pt(w, 0), End: geometry.Pt(0, 0), Label: dimension.FormatLength(b.FlangeWidth)},
			{Start: geometry.Pt(w, h), End: geometry.Pt(w, 0), Label: dimension.FormatLength(b.Depth)},
			{Start: geometry.Pt(xl, h), End: geometry.Pt(xr, h), Label: dimension.FormatLength(b.WebThickness)},
			{Start: geometry.Pt(0, 0), End: geometry.Pt(0, tf), Label: dimension.FormatLength(b.FlangeThickness)},
		}
	}
	return nil
}
