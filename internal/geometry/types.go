// Package geometry derives the drawable outline of a W-beam from its
// profile and a linear scale. All coordinates are local to the drawing:
// origin at the top-left corner of the beam, x to the right, y downward,
// in pixels (inches times the scale).
package geometry

import "math"

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Line is a straight segment between two points.
type Line struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Midpoint returns the point halfway along the line.
func (l Line) Midpoint() Point {
	return Point{(l.From.X + l.To.X) / 2, (l.From.Y + l.To.Y) / 2}
}

// Length returns the length of the line.
func (l Line) Length() float64 { return l.To.Sub(l.From).Len() }

// Rect is an axis-aligned box. A Rect with Min > Max on either axis is empty.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// RectFromPoints returns the smallest box containing all points.
func RectFromPoints(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

func (r Rect) Width() float64 { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Point { return Point{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2} }

// Union returns the smallest box containing both boxes.
func (r Rect) Union(o Rect) Rect {
	return RectFromPoints(r.Min, r.Max, o.Min, o.Max)
}

// Expand grows the box by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{Min: Point{r.Min.X - d, r.Min.Y - d}, Max: Point{r.Max.X + d, r.Max.Y + d}}
}

// Translate moves the box by v.
func (r Rect) Translate(v Point) Rect {
	return Rect{Min: r.Min.Add(v), Max: r.Max.Add(v)}
}

// Overlaps reports whether the boxes share interior area. Boxes that only
// touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X &&
		r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// Corners returns the four corners clockwise from the top-left.
func (r Rect) Corners() []Point {
	return []Point{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

// SegmentKind distinguishes straight and circular path segments.
type SegmentKind int

const (
	SegmentLine SegmentKind = iota
	SegmentArc
)

func (k SegmentKind) String() string {
	if k == SegmentArc {
		return "arc"
	}
	return "line"
}

// Segment is one piece of a Path. Arc segments carry their center, radius,
// start angle and signed sweep in radians.
type Segment struct {
	Kind   SegmentKind `json:"kind"`
	From   Point       `json:"from"`
	To     Point       `json:"to"`
	Center Point       `json:"center,omitempty"`
	Radius float64     `json:"radius,omitempty"`
	Start  float64     `json:"start,omitempty"`
	Sweep  float64     `json:"sweep,omitempty"`
}

// Path is a sequence of connected segments.
type Path struct {
	Segments []Segment `json:"segments"`
	Closed   bool      `json:"closed"`
}

func (p *Path) lineTo(to Point) {
	from := p.cursor()
	if from.Near(to, 1e-9) {
		return
	}
	p.Segments = append(p.Segments, Segment{Kind: SegmentLine, From: from, To: to})
}

// arcTo appends the minor circular arc about center ending at to.
func (p *Path) arcTo(to, center Point) {
	from := p.cursor()
	if from.Near(to, 1e-9) {
		return
	}
	r := from.Sub(center).Len()
	a0 := math.Atan2(from.Y-center.Y, from.X-center.X)
	a1 := math.Atan2(to.Y-center.Y, to.X-center.X)
	sweep := a1 - a0
	for sweep > math.Pi {
		sweep -= 2 * math.Pi
	}
	for sweep <= -math.Pi {
		sweep += 2 * math.Pi
	}
	p.Segments = append(p.Segments, Segment{
		Kind: SegmentArc, From: from, To: to,
		Center: center, Radius: r, Start: a0, Sweep: sweep,
	})
}

func (p *Path) cursor() Point {
	if len(p.Segments) == 0 {
		return p.origin()
	}
	return p.Segments[len(p.Segments)-1].To
}

func (p *Path) origin() Point {
	if len(p.Segments) == 0 {
		return Point{}
	}
	return p.Segments[0].From
}

// Flatten converts the path into a polygon, approximating every arc with
// n chords. The closing point is not repeated.
func (p Path) Flatten(n int) []Point {
	if n < 1 {
		n = 1
	}
	var pts []Point
	for _, s := range p.Segments {
		pts = append(pts, s.From)
		if s.Kind == SegmentArc {
			for k := 1; k < n; k++ {
				a := s.Start + s.Sweep*float64(k)/float64(n)
				pts = append(pts, Point{s.Center.X + s.Radius*math.Cos(a), s.Center.Y + s.Radius*math.Sin(a)})
			}
		}
	}
	if !p.Closed && len(p.Segments) > 0 {
		pts = append(pts, p.Segments[len(p.Segments)-1].To)
	}
	return pts
}

// Bounds returns the bounding box of the flattened path.
func (p Path) Bounds() Rect {
	return RectFromPoints(p.Flatten(8)...)
}

// Arcs returns the arc segments of the path.
func (p Path) Arcs() []Segment {
	var arcs []Segment
	for _, s := range p.Segments {
		if s.Kind == SegmentArc {
			arcs = append(arcs, s)
		}
	}
	return arcs
}
