package contour

import (
	"math"
	"testing"

	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
)

var testFrame = Frame{Scale: 2, Depth: 12, FlangeThickness: 0.5, Length: 60}

func setup(t *testing.T) (*grid.Grid, *Tracer) {
	t.Helper()
	tr := NewTracer(testFrame)
	g := grid.New(60, tr)
	if err := g.Reinitialize(10, 60, 1.0, 2.0); err != nil {
		t.Fatal(err)
	}
	return g, tr
}

func advanceTo(t *testing.T, g *grid.Grid, c grid.Cell, target grid.State) {
	t.Helper()
	cur, err := g.State(c)
	if err != nil {
		t.Fatal(err)
	}
	for i := cur.StepsTo(target); i > 0; i-- {
		if _, err := g.Advance(c); err != nil {
			t.Fatal(err)
		}
	}
}

func mustLookup(t *testing.T, tr *Tracer, c grid.Cell) Contour {
	t.Helper()
	ct, ok := tr.Lookup(c)
	if !ok {
		t.Fatalf("%s is in no contour", c)
	}
	return ct
}

func TestAdjacentCellsShareContour(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.Web(4, 10), grid.SectionLoss)
	advanceTo(t, g, grid.Web(4, 11), grid.SectionLoss)
	advanceTo(t, g, grid.Web(4, 15), grid.SectionLoss)

	if tr.Len() != 2 {
		t.Fatalf("expected 2 contours, got %d", tr.Len())
	}
	a := mustLookup(t, tr, grid.Web(4, 10))
	b := mustLookup(t, tr, grid.Web(4, 11))
	c := mustLookup(t, tr, grid.Web(4, 15))
	if a.ID != b.ID {
		t.Fatalf("horizontal neighbours split: %s vs %s", a.ID, b.ID)
	}
	if c.ID == a.ID {
		t.Fatalf("cell five columns away merged into %s", a.ID)
	}
	if a.Type != SectionLoss || len(a.Cells) != 2 || a.Area != 2 {
		t.Fatalf("unexpected contour %+v", a)
	}
}

func TestRevertRemovesContour(t *testing.T) {
	g, tr := setup(t)
	c := grid.Web(2, 2)
	advanceTo(t, g, c, grid.SectionLoss)
	id := mustLookup(t, tr, c).ID

	g.Advance(c) // perforated
	p := mustLookup(t, tr, c)
	if p.Type != Perforation || p.ID == id {
		t.Fatalf("perforated cell should move to a new perforation contour, got %+v", p)
	}
	if tr.Len() != 1 {
		t.Fatalf("section loss contour should be gone, have %d contours", tr.Len())
	}

	g.Advance(c) // intact
	if tr.Len() != 0 {
		t.Fatalf("expected no contours, got %d", tr.Len())
	}
	if _, ok := tr.Lookup(c); ok {
		t.Fatalf("intact cell still in a contour")
	}
}

func TestDiagonalCellsFormOneRing(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.Web(0, 0), grid.SectionLoss)
	advanceTo(t, g, grid.Web(1, 1), grid.SectionLoss)

	if tr.Len() != 1 {
		t.Fatalf("diagonal cells must merge, got %d contours", tr.Len())
	}
	ct := tr.Contours()[0]
	if len(ct.Boundary) != 8 {
		t.Fatalf("expected an 8-corner ring, got %v", ct.Boundary)
	}
	checkPolygonArea(t, ct)
}

func TestStateClassesDoNotMerge(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.Web(3, 3), grid.SectionLoss)
	advanceTo(t, g, grid.Web(3, 4), grid.Perforated)

	if tr.Len() != 2 {
		t.Fatalf("expected separate contours per type, got %d", tr.Len())
	}
	if mustLookup(t, tr, grid.Web(3, 3)).Type == mustLookup(t, tr, grid.Web(3, 4)).Type {
		t.Fatalf("contour types not distinguished")
	}
}

func TestRemovingBridgeSplitsContour(t *testing.T) {
	g, tr := setup(t)
	for col := 1; col <= 5; col++ {
		advanceTo(t, g, grid.Web(5, col), grid.SectionLoss)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 contour, got %d", tr.Len())
	}

	advanceTo(t, g, grid.Web(5, 2), grid.Intact)
	if tr.Len() != 2 {
		t.Fatalf("expected split into 2 contours, got %d", tr.Len())
	}
	big := mustLookup(t, tr, grid.Web(5, 4))
	small := mustLookup(t, tr, grid.Web(5, 1))
	if big.ID != "contour-1" || len(big.Cells) != 3 {
		t.Fatalf("larger part should keep the id: %+v", big)
	}
	if small.ID == big.ID || len(small.Cells) != 1 {
		t.Fatalf("smaller part should get a new id: %+v", small)
	}
}

func TestBridgingCellMergesContours(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.Web(0, 0), grid.SectionLoss)
	advanceTo(t, g, grid.Web(0, 2), grid.SectionLoss)
	advanceTo(t, g, grid.Web(0, 3), grid.SectionLoss)
	if tr.Len() != 2 {
		t.Fatalf("expected 2 contours, got %d", tr.Len())
	}

	advanceTo(t, g, grid.Web(1, 1), grid.SectionLoss)
	if tr.Len() != 1 {
		t.Fatalf("bridge should merge, got %d contours", tr.Len())
	}
	ct := tr.Contours()[0]
	if ct.ID != "contour-1" || len(ct.Cells) != 4 {
		t.Fatalf("merged contour should keep the oldest id: %+v", ct)
	}
	checkPolygonArea(t, ct)
}

func TestConcaveRegionBoundaryIsSimple(t *testing.T) {
	g, tr := setup(t)
	// U shape
	cells := []grid.Cell{
		grid.Web(2, 2), grid.Web(3, 2), grid.Web(4, 2),
		grid.Web(4, 3), grid.Web(4, 4),
		grid.Web(2, 5), grid.Web(3, 5), grid.Web(4, 5),
	}
	for _, c := range cells {
		advanceTo(t, g, c, grid.SectionLoss)
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 contour, got %d", tr.Len())
	}
	ct := tr.Contours()[0]
	if len(ct.Boundary) != 8 || len(ct.Holes) != 0 {
		t.Fatalf("U shape should have 8 corners and no holes: %v", ct.Boundary)
	}
	if crossing(ct.Boundary) {
		t.Fatalf("boundary self-intersects: %v", ct.Boundary)
	}
	checkPolygonArea(t, ct)
}

func TestRingHasHole(t *testing.T) {
	g, tr := setup(t)
	for r := 1; r <= 3; r++ {
		for c := 1; c <= 3; c++ {
			if r == 2 && c == 2 {
				continue
			}
			advanceTo(t, g, grid.Web(r, c), grid.SectionLoss)
		}
	}
	ct := tr.Contours()[0]
	if tr.Len() != 1 || len(ct.Boundary) != 4 || len(ct.Holes) != 1 || len(ct.Holes[0]) != 4 {
		t.Fatalf("expected square ring with one square hole: %+v", ct)
	}
	checkPolygonArea(t, ct)
}

func TestBoundaryCoordinates(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.Web(0, 3), grid.SectionLoss)
	ct := tr.Contours()[0]

	// x = col*ws*scale, y = (tf + row*ws)*scale
	want := []geometry.Point{{X: 6, Y: 1}, {X: 8, Y: 1}, {X: 8, Y: 3}, {X: 6, Y: 3}}
	if len(ct.Boundary) != len(want) {
		t.Fatalf("boundary = %v", ct.Boundary)
	}
	for i := range want {
		if !ct.Boundary[i].Near(want[i], 1e-9) {
			t.Fatalf("boundary = %v, want %v", ct.Boundary, want)
		}
	}
}

func TestFlangeContours(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.FlangeCell(grid.TopFlange, 0), grid.SectionLoss)
	advanceTo(t, g, grid.FlangeCell(grid.TopFlange, 1), grid.SectionLoss)
	advanceTo(t, g, grid.FlangeCell(grid.BottomFlange, 0), grid.SectionLoss)
	advanceTo(t, g, grid.Web(0, 0), grid.SectionLoss)

	if tr.Len() != 3 {
		t.Fatalf("top flange, bottom flange and web must not merge; got %d contours", tr.Len())
	}
	top := mustLookup(t, tr, grid.FlangeCell(grid.TopFlange, 1))
	if !top.Flange || len(top.Cells) != 2 {
		t.Fatalf("unexpected top flange contour %+v", top)
	}
	b := top.Bounds()
	if !b.Min.Near(geometry.Pt(0, 0), 1e-9) || !b.Max.Near(geometry.Pt(8, 1), 1e-9) {
		t.Fatalf("top flange bounds = %+v", b)
	}
	bottom := mustLookup(t, tr, grid.FlangeCell(grid.BottomFlange, 0))
	b = bottom.Bounds()
	if !b.Min.Near(geometry.Pt(0, 23), 1e-9) || !b.Max.Near(geometry.Pt(4, 24), 1e-9) {
		t.Fatalf("bottom flange bounds = %+v", b)
	}
	if math.Abs(top.Area-2) > 1e-9 {
		t.Fatalf("top flange area = %.3f, want 2", top.Area)
	}
}

func TestLastFlangeCellClippedToSpan(t *testing.T) {
	tr := NewTracer(testFrame)
	g := grid.New(60, tr)
	g.Reinitialize(4, 20, 3.0, 3.5)
	last := grid.FlangeCell(grid.TopFlange, g.Extents().FlangeCols-1)
	advanceTo(t, g, last, grid.SectionLoss)

	ct := mustLookup(t, tr, last)
	if got := ct.Bounds().Max.X; math.Abs(got-120) > 1e-9 {
		t.Fatalf("last flange cell should stop at the span end, max x = %.3f", got)
	}
	if math.Abs(ct.Area-0.25) > 1e-9 {
		t.Fatalf("clipped cell area = %.4f, want 0.25", ct.Area)
	}
}

func TestMalformedNotificationsIgnored(t *testing.T) {
	_, tr := setup(t)
	tr.CellChanged(grid.FlangeCell(7, 0), grid.SectionLoss)
	tr.CellChanged(grid.Web(99, 0), grid.Perforated)
	if tr.Len() != 0 {
		t.Fatalf("malformed cells created contours")
	}

	fresh := NewTracer(testFrame)
	fresh.CellChanged(grid.Web(0, 0), grid.SectionLoss)
	if fresh.Len() != 0 {
		t.Fatalf("tracer without a grid must ignore notifications")
	}
}

func TestGridResetClearsContours(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.Web(1, 1), grid.SectionLoss)
	g.Reinitialize(5, 30, 2, 4)
	if tr.Len() != 0 {
		t.Fatalf("reset kept contours")
	}
	advanceTo(t, g, grid.Web(0, 0), grid.SectionLoss)
	if id := tr.Contours()[0].ID; id != "contour-1" {
		t.Fatalf("ids should restart after reset, got %s", id)
	}
}

func TestIDsNotReusedAcrossClassChange(t *testing.T) {
	g, tr := setup(t)
	advanceTo(t, g, grid.Web(0, 0), grid.SectionLoss)
	advanceTo(t, g, grid.Web(0, 1), grid.SectionLoss)
	if ct := mustLookup(t, tr, grid.Web(0, 1)); ct.ID != "contour-1" {
		t.Fatalf("first contour = %s", ct.ID)
	}

	// (0,0) leaves the section loss region and opens a perforation.
	advanceTo(t, g, grid.Web(0, 0), grid.Perforated)
	if ct := mustLookup(t, tr, grid.Web(0, 1)); ct.ID != "contour-1" || len(ct.Cells) != 1 {
		t.Fatalf("remaining section loss = %s with %d cells", ct.ID, len(ct.Cells))
	}
	perf := mustLookup(t, tr, grid.Web(0, 0))
	if perf.ID != "contour-2" || perf.Type != Perforation {
		t.Fatalf("perforation = %s %s, want contour-2 perforation", perf.ID, perf.Type)
	}

	advanceTo(t, g, grid.Web(0, 0), grid.Intact)
	if _, ok := tr.Lookup(grid.Web(0, 0)); ok {
		t.Fatal("intact cell still in a contour")
	}
	if tr.Len() != 1 {
		t.Fatalf("len = %d, want 1", tr.Len())
	}

	advanceTo(t, g, grid.Web(5, 5), grid.SectionLoss)
	if ct := mustLookup(t, tr, grid.Web(5, 5)); ct.ID != "contour-3" {
		t.Fatalf("new contour = %s, want contour-3", ct.ID)
	}
}

func checkPolygonArea(t *testing.T, ct Contour) {
	t.Helper()
	got := shoelace(ct.Boundary)
	for _, h := range ct.Holes {
		got -= math.Abs(shoelace(h))
	}
	want := ct.Area * testFrame.Scale * testFrame.Scale
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("polygon area %.3f does not match cell area %.3f", got, want)
	}
}

func shoelace(pts []geometry.Point) float64 {
	var s float64
	for i := range pts {
		j := (i + 1) % len(pts)
		s += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return s / 2
}

// crossing reports whether two non-adjacent edges properly cross.
func crossing(pts []geometry.Point) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if properCross(pts[i], pts[(i+1)%n], pts[j], pts[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

func properCross(p1, p2, q1, q2 geometry.Point) bool {
	side := func(a, b, c geometry.Point) float64 {
		return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	}
	d1, d2 := side(q1, q2, p1), side(q1, q2, p2)
	d3, d4 := side(p1, p2, q1), side(p1, p2, q2)
	return d1*d2 < 0 && d3*d4 < 0
}
