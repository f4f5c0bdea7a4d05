// Package dimension lays out measurement annotations (dimension lines with
// extension lines, arrows and a text label) so that no two annotations
// overlap.
//
// Placement follows drafting practice: each dimension line runs parallel to
// the measured segment, offset along the segment's normal. Annotations that
// collide are pushed further out along their normal, later requests yielding
// to earlier ones.
package dimension

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/alexiusacademia/wfbeam/internal/geometry"
)

// ErrUnresolvedCollision is reported when annotations still overlap after
// the iteration cap. The layout that comes with it is usable.
var ErrUnresolvedCollision = errors.New("unresolved dimension collision")

const (
	DefaultSpacing       = 10.0
	DefaultMaxIterations = 10

	// average glyph advance as a fraction of the font size
	glyphAdvance = 0.6
)

// Orientation of a dimension line.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func (o Orientation) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Request asks for a measurement between two points.
type Request struct {
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
	Label string         `json:"label"`
}

// Dimension is a placed annotation.
type Dimension struct {
	Request
	Orientation Orientation      `json:"orientation"`
	Normal      geometry.Point   `json:"normal"`
	Offset      float64          `json:"offset"`
	Line        geometry.Line    `json:"offset_line"`
	Extensions  [2]geometry.Line `json:"extensions"`
	LabelCenter geometry.Point   `json:"label_center"`
	LabelBox    geometry.Rect    `json:"label_box"`
	TextSize    float64          `json:"text_size"`
	ArrowSize   float64          `json:"arrow_size"`

	// Bounds covers the dimension line with its arrows and the label.
	// Extension lines are left out; they run back to the measured geometry.
	Bounds geometry.Rect `json:"bounding_box"`
}

// Layout is the result of one placement run.
type Layout struct {
	Dimensions []Dimension `json:"dimensions"`
	Iterations int         `json:"iterations"`
	Err        error       `json:"-"`
}

// Placer owns the dimension set of one view. Not safe for concurrent use.
type Placer struct {
	base    Style
	style   Style
	zoom    float64
	spacing float64
	maxIter int

	requests []Request
	layout   Layout
}

// Option configures a Placer.
type Option func(*Placer)

// WithSpacing sets the initial offset and the clearance kept between
// annotations.
func WithSpacing(s float64) Option {
	return func(p *Placer) {
		if s > 0 {
			p.spacing = s
		}
	}
}

// WithMaxIterations caps the number of relaxation passes.
func WithMaxIterations(n int) Option {
	return func(p *Placer) {
		if n > 0 {
			p.maxIter = n
		}
	}
}

// NewPlacer creates an empty placer drawing with the given style at zoom 1.
func NewPlacer(style Style, opts ...Option) (*Placer, error) {
	if err := style.validate(); err != nil {
		return nil, err
	}
	p := &Placer{
		base:    style,
		style:   style,
		zoom:    1,
		spacing: DefaultSpacing,
		maxIter: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Style returns the style in effect at the current zoom.
func (p *Placer) Style() Style { return p.style }

// Zoom returns the current zoom factor.
func (p *Placer) Zoom() float64 { return p.zoom }

// Spacing returns the clearance between annotations.
func (p *Placer) Spacing() float64 { return p.spacing }

// Len returns the number of requests.
func (p *Placer) Len() int { return len(p.requests) }

// Add requests a dimension from start to end and re-runs the layout. A
// request identical to an existing one is not added again. The returned
// error is nil or wraps ErrUnresolvedCollision; in both cases the returned
// dimension is placed.
func (p *Placer) Add(start, end geometry.Point, label string) (Dimension, error) {
	if !finite(start) || !finite(end) {
		return Dimension{}, fmt.Errorf("invalid dimension %q: non-finite endpoint", label)
	}
	req := Request{Start: start, End: end, Label: label}
	for i, r := range p.requests {
		if r == req {
			return p.layout.Dimensions[i], p.layout.Err
		}
	}
	p.requests = append(p.requests, req)
	p.relayout()
	return p.layout.Dimensions[len(p.requests)-1], p.layout.Err
}

// Layout returns the current placement.
func (p *Placer) Layout() Layout {
	out := p.layout
	out.Dimensions = p.Dimensions()
	return out
}

// Dimensions returns a copy of the placed dimensions in request order.
func (p *Placer) Dimensions() []Dimension {
	out := make([]Dimension, len(p.layout.Dimensions))
	copy(out, p.layout.Dimensions)
	return out
}

// UpdateScale rescales text, arrows and gaps for a new zoom factor and
// lays every dimension out again from its initial offset.
func (p *Placer) UpdateScale(zoom float64) error {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return fmt.Errorf("invalid zoom %.3f: must be positive", zoom)
	}
	p.zoom = zoom
	p.style = p.base.Scaled(zoom)
	p.relayout()
	return nil
}

// Clear drops every dimension.
func (p *Placer) Clear() {
	p.requests = nil
	p.layout = Layout{}
}

func (p *Placer) relayout() {
	dims := make([]Dimension, len(p.requests))
	for i, r := range p.requests {
		dims[i] = p.place(r, p.spacing)
	}

	iter := 0
	for iter < p.maxIter {
		iter++
		changed := false
		for j := 1; j < len(dims); j++ {
			for i := 0; i < j; i++ {
				if !p.collides(dims[i], dims[j]) {
					continue
				}
				shift := p.clearance(dims[i], dims[j])
				dims[j] = p.place(dims[j].Request, dims[j].Offset+shift)
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	p.layout = Layout{Dimensions: dims, Iterations: iter}
	if n := p.overlaps(dims); n > 0 {
		p.layout.Err = fmt.Errorf("%w: %d overlapping pairs after %d passes",
			ErrUnresolvedCollision, n, iter)
	}
}

func (p *Placer) collides(a, b Dimension) bool {
	return a.Bounds.Expand(p.spacing).Overlaps(b.Bounds)
}

func (p *Placer) overlaps(dims []Dimension) int {
	n := 0
	for j := range dims {
		for i := 0; i < j; i++ {
			if p.collides(dims[i], dims[j]) {
				n++
			}
		}
	}
	return n
}

// clearance returns how far b must move along its normal to clear the
// padded bounds of a. Only the dominant axis of the normal is considered.
func (p *Placer) clearance(a, b Dimension) float64 {
	n := b.Normal
	var d, axis float64
	if math.Abs(n.Y) >= math.Abs(n.X) {
		axis = math.Abs(n.Y)
		if n.Y > 0 {
			d = a.Bounds.Max.Y + p.spacing - b.Bounds.Min.Y
		} else {
			d = b.Bounds.Max.Y - (a.Bounds.Min.Y - p.spacing)
		}
	} else {
		axis = math.Abs(n.X)
		if n.X > 0 {
			d = a.Bounds.Max.X + p.spacing - b.Bounds.Min.X
		} else {
			d = b.Bounds.Max.X - (a.Bounds.Min.X - p.spacing)
		}
	}
	return d / axis
}

// place builds the annotation of r at the given offset.
func (p *Placer) place(r Request, offset float64) Dimension {
	s := p.style
	dir := r.End.Sub(r.Start)
	orient := Horizontal
	if math.Abs(dir.Y) > math.Abs(dir.X) {
		orient = Vertical
	}

	n := geometry.Pt(0, 1)
	if l := dir.Len(); l > 0 {
		n = geometry.Pt(-dir.Y/l, dir.X/l)
	}

	line := geometry.Line{From: r.Start.Add(n.Mul(offset)), To: r.End.Add(n.Mul(offset))}
	overshoot := n.Mul(s.WitnessExtension)
	gap := n.Mul(math.Min(s.ExtensionOffset, offset))
	ext := [2]geometry.Line{
		{From: r.Start.Add(gap), To: line.From.Add(overshoot)},
		{From: r.End.Add(gap), To: line.To.Add(overshoot)},
	}

	w := float64(len([]rune(r.Label))) * s.FontSize * glyphAdvance
	h := s.FontSize
	half := math.Abs(n.X)*w/2 + math.Abs(n.Y)*h/2
	center := line.Midpoint().Add(n.Mul(s.TextGap + half))
	box := geometry.Rect{
		Min: geometry.Pt(center.X-w/2, center.Y-h/2),
		Max: geometry.Pt(center.X+w/2, center.Y+h/2),
	}

	band := geometry.RectFromPoints(line.From, line.To).Expand(s.ArrowSize)

	return Dimension{
		Request:     r,
		Orientation: orient,
		Normal:      n,
		Offset:      offset,
		Line:        line,
		Extensions:  ext,
		LabelCenter: center,
		LabelBox:    box,
		TextSize:    s.FontSize,
		ArrowSize:   s.ArrowSize,
		Bounds:      band.Union(box),
	}
}

func finite(p geometry.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
