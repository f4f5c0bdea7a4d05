package section

import (
	"math"
	"testing"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
)

func TestRectangleProperties(t *testing.T) {
	s := &Section{Name: "rect", Vertices: []geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 6}, {X: 0, Y: 6}}}
	p := s.CalculateProperties()

	if p.Area != 24 {
		t.Fatalf("area = %.4f, want 24", p.Area)
	}
	if p.CentroidX != 2 || p.CentroidY != 3 {
		t.Fatalf("centroid = (%.3f, %.3f), want (2, 3)", p.CentroidX, p.CentroidY)
	}
	// bh³/12 and hb³/12
	if math.Abs(p.Ix-72) > 1e-9 || math.Abs(p.Iy-32) > 1e-9 {
		t.Fatalf("Ix=%.4f Iy=%.4f, want 72 and 32", p.Ix, p.Iy)
	}
	if w := s.WidthAtDepth(1); w != 4 {
		t.Fatalf("width at depth = %.3f, want 4", w)
	}
}

func TestNominalWeightMatchesCatalog(t *testing.T) {
	c := beam.Standard()
	for _, name := range []string{"W14x43", "W14x48", "W14x90"} {
		p, _ := c.Lookup(name)
		s, err := FromProfile(p)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		props := s.CalculateProperties()
		if rel := math.Abs(props.NominalWeight-p.Weight) / p.Weight; rel > 0.05 {
			t.Fatalf("%s: nominal weight %.2f lb/ft differs from catalog %.0f by %.1f%%", name, props.NominalWeight, p.Weight, rel*100)
		}
		if math.Abs(props.CentroidY-p.Depth/2) > 1e-6 {
			t.Fatalf("%s: doubly symmetric section centroid at %.4f, want %.4f", name, props.CentroidY, p.Depth/2)
		}
		if w := s.WidthAtDepth(p.Depth / 2); math.Abs(w-p.WebThickness) > 1e-9 {
			t.Fatalf("%s: web width %.4f, want %.4f", name, w, p.WebThickness)
		}
	}
}

func TestRemainingArea(t *testing.T) {
	s := &Section{Name: "rect", Vertices: []geometry.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 6}, {X: 0, Y: 6}}}
	rem, pct := s.RemainingArea(6)
	if rem != 18 || pct != 25 {
		t.Fatalf("remaining=%.2f pct=%.2f, want 18 and 25", rem, pct)
	}
	rem, pct = s.RemainingArea(100)
	if rem != 0 || pct != 100 {
		t.Fatalf("loss must be capped at gross area, got %.2f %.2f", rem, pct)
	}
}
