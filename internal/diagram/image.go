package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/wfbeam/internal/contour"
	"github.com/alexiusacademia/wfbeam/internal/dimension"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

var (
	outlineColor     = color.Black
	centerlineColor  = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	dimensionColor   = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	sectionLossColor = color.RGBA{R: 255, G: 165, B: 0, A: 160}
	perforationColor = color.RGBA{R: 200, G: 0, B: 0, A: 200}
	annotationColor  = color.RGBA{R: 0, G: 100, B: 0, A: 255}
)

// xy maps drawing coordinates (y down) to plot coordinates (y up).
func xy(p geometry.Point) plotter.XY {
	return plotter.XY{X: p.X, Y: -p.Y}
}

func xys(pts ...geometry.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = xy(p)
	}
	return out
}

func addLine(p *plot.Plot, c color.Color, width vg.Length, dashed bool, pts ...geometry.Point) error {
	l, err := plotter.NewLine(xys(pts...))
	if err != nil {
		return err
	}
	l.LineStyle.Width = width
	l.LineStyle.Color = c
	if dashed {
		l.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	}
	p.Add(l)
	return nil
}

// ExportElevation exports the elevation view of a sketch with its damage
// contours, dimensions and annotations. The format follows the file extension (.png,
// .svg or .pdf); other names get ".png" appended.
func ExportElevation(s *sketch.Sketch, filename string) error {
	elev, err := s.Geometry().ElevationOutline()
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Elevation", s.Profile().Designation)
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "-y (px)"

	corners := elev.Outline.Corners()
	if err := addLine(p, outlineColor, vg.Points(1.5), false, append(corners, corners[0])...); err != nil {
		return err
	}
	for _, l := range []geometry.Line{elev.TopFlange, elev.BottomFlange} {
		if err := addLine(p, outlineColor, vg.Points(1), false, l.From, l.To); err != nil {
			return err
		}
	}
	if err := addLine(p, centerlineColor, vg.Points(0.75), true, elev.Centerline.From, elev.Centerline.To); err != nil {
		return err
	}

	if err := addContours(p, s.Contours()); err != nil {
		return err
	}

	lay, err := s.Dimensions(sketch.Elevation)
	if err != nil {
		return err
	}
	if err := addDimensions(p, lay.Dimensions); err != nil {
		return err
	}
	notes := s.Annotations()
	if err := addAnnotations(p, notes); err != nil {
		return err
	}

	extents := elev.Outline.Union(dimensionBounds(lay.Dimensions))
	for _, a := range notes {
		extents = extents.Union(geometry.RectFromPoints(append(a.Points, a.Position)...))
	}
	return save(p, extents, filename)
}

// ExportCrossSection exports the cross-section view of a sketch with its
// centerlines and dimensions.
func ExportCrossSection(s *sketch.Sketch, filename string) error {
	m := s.Geometry()
	outline, err := m.CrossSectionOutline()
	if err != nil {
		return err
	}
	vertical, horizontal, err := m.CrossSectionCenterlines()
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Cross-Section", s.Profile().Designation)
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "-y (px)"

	poly, err := plotter.NewPolygon(xys(outline.Flatten(16)...))
	if err != nil {
		return err
	}
	poly.Color = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	poly.LineStyle.Color = outlineColor
	poly.LineStyle.Width = vg.Points(1.5)
	p.Add(poly)

	for _, l := range []geometry.Line{vertical, horizontal} {
		if err := addLine(p, centerlineColor, vg.Points(0.75), true, l.From, l.To); err != nil {
			return err
		}
	}

	lay, err := s.Dimensions(sketch.CrossSection)
	if err != nil {
		return err
	}
	if err := addDimensions(p, lay.Dimensions); err != nil {
		return err
	}

	return save(p, outline.Bounds().Union(dimensionBounds(lay.Dimensions)), filename)
}

// Export writes the requested view.
func Export(s *sketch.Sketch, v sketch.View, filename string) error {
	if v == sketch.CrossSection {
		return ExportCrossSection(s, filename)
	}
	return ExportElevation(s, filename)
}

func addContours(p *plot.Plot, contours []contour.Contour) error {
	for _, c := range contours {
		rings := []plotter.XYer{xys(c.Boundary...)}
		for _, h := range c.Holes {
			rings = append(rings, xys(h...))
		}
		poly, err := plotter.NewPolygon(rings...)
		if err != nil {
			return err
		}
		poly.Color = sectionLossColor
		if c.Type == contour.Perforation {
			poly.Color = perforationColor
		}
		poly.LineStyle.Color = outlineColor
		poly.LineStyle.Width = vg.Points(0.5)
		p.Add(poly)
	}
	return nil
}

func addDimensions(p *plot.Plot, dims []dimension.Dimension) error {
	var ends plotter.XYs
	var labels plotter.XYLabels
	for _, d := range dims {
		if err := addLine(p, dimensionColor, vg.Points(0.75), false, d.Line.From, d.Line.To); err != nil {
			return err
		}
		for _, e := range d.Extensions {
			if err := addLine(p, dimensionColor, vg.Points(0.5), false, e.From, e.To); err != nil {
				return err
			}
		}
		ends = append(ends, xy(d.Line.From), xy(d.Line.To))
		labels.XYs = append(labels.XYs, xy(d.LabelCenter))
		labels.Labels = append(labels.Labels, d.Label)
	}
	if len(dims) == 0 {
		return nil
	}

	arrows, err := plotter.NewScatter(ends)
	if err != nil {
		return err
	}
	arrows.GlyphStyle.Color = dimensionColor
	arrows.GlyphStyle.Radius = vg.Points(2)
	arrows.GlyphStyle.Shape = draw.TriangleGlyph{}
	p.Add(arrows)

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}

// addAnnotations draws leader and measurement lines, then every note text
// at its position.
func addAnnotations(p *plot.Plot, notes []sketch.Annotation) error {
	if len(notes) == 0 {
		return nil
	}
	var labels plotter.XYLabels
	for _, a := range notes {
		switch a.Kind {
		case sketch.Leader:
			if err := addLine(p, annotationColor, vg.Points(0.75), false, append([]geometry.Point{a.Position}, a.Points...)...); err != nil {
				return err
			}
		case sketch.Measurement:
			if err := addLine(p, annotationColor, vg.Points(0.75), true, a.Points...); err != nil {
				return err
			}
		}
		labels.XYs = append(labels.XYs, xy(a.Position))
		labels.Labels = append(labels.Labels, a.Text)
	}
	l, err := plotter.NewLabels(labels)
	if err != nil {
		return err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Color = annotationColor
	}
	p.Add(l)
	return nil
}

func dimensionBounds(dims []dimension.Dimension) geometry.Rect {
	if len(dims) == 0 {
		return geometry.Rect{}
	}
	r := dims[0].Bounds
	for _, d := range dims[1:] {
		r = r.Union(d.Bounds)
	}
	return r
}

// save writes the plot sized to the aspect ratio of the drawing extents.
func save(p *plot.Plot, extents geometry.Rect, filename string) error {
	margin := 0.05 * max(extents.Width(), extents.Height())
	p.X.Min, p.X.Max = extents.Min.X-margin, extents.Max.X+margin
	p.Y.Min, p.Y.Max = -extents.Max.Y-margin, -extents.Min.Y+margin

	width := 8 * vg.Inch
	height := width
	if extents.Width() > 0 {
		ratio := (extents.Height() + 2*margin) / (extents.Width() + 2*margin)
		height = vg.Length(float64(width) * min(max(ratio, 0.25), 1.5))
	}
	height += vg.Inch // title and axes

	// Create directory if needed
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
