package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

func newSketch(t *testing.T) *sketch.Sketch {
	t.Helper()
	p, err := beam.Standard().Lookup("W14x43")
	if err != nil {
		t.Fatal(err)
	}
	s, err := sketch.New(p, sketch.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestConditionMap(t *testing.T) {
	g := grid.New(60, nil)
	if err := g.Reinitialize(2, 4, 1, 30); err != nil {
		t.Fatal(err)
	}
	g.Advance(grid.Web(0, 1))
	g.Advance(grid.Web(1, 3))
	g.Advance(grid.Web(1, 3))
	g.Advance(grid.FlangeCell(grid.BottomFlange, 1))

	out := DrawConditionMap(g)
	for _, want := range []string{
		"web 2 x 4 @ 1.00 in, flanges 2 @ 30.00 in",
		"top flange    │··│",
		"web   0       │·░··│",
		"web   1       │···▒│",
		"bottom flange │·░│",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCrossSectionRaster(t *testing.T) {
	m, err := geometry.New(beam.Profile{Designation: "W14x90", Depth: 14, FlangeWidth: 14.5, WebThickness: 0.44, FlangeThickness: 0.71, Weight: 90}, 10)
	if err != nil {
		t.Fatal(err)
	}
	out, err := DrawCrossSection(m, 29)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	rows := lines[4:]

	full := strings.Repeat("█", 29)
	if strings.TrimSpace(rows[0]) != full || strings.TrimSpace(rows[len(rows)-1]) != full {
		t.Fatalf("flanges should span the full width:\n%s", out)
	}
	mid := rows[len(rows)/2]
	if n := strings.Count(mid, "█"); n < 1 || n > 2 {
		t.Fatalf("web row should be one or two cells wide, got %d:\n%s", n, out)
	}
}

func TestSummaryBoxAligns(t *testing.T) {
	out := DrawSummaryBox("RESULT", []string{"Area = 12.6 in²", "ok"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := len([]rune(lines[0]))
	for _, l := range lines {
		if len([]rune(l)) != width {
			t.Fatalf("ragged box:\n%s", out)
		}
	}
}

func TestExportViews(t *testing.T) {
	s := newSketch(t)
	for i := 0; i < 2; i++ {
		s.AdvanceCell(2, 2, false)
		s.AdvanceCell(3, 3, false)
	}
	s.AdvanceCell(0, 4, true)
	s.AdvanceCell(0, 4, true)
	s.AdvanceCell(0, 4, true)
	notes := []sketch.Annotation{
		{Kind: sketch.Callout, Position: geometry.Pt(40, -20), Text: "pack rust"},
		{Kind: sketch.Leader, Position: geometry.Pt(80, -30), Text: "hole", Points: []geometry.Point{geometry.Pt(35, 35)}},
		{Kind: sketch.Measurement, Position: geometry.Pt(30, 160), Text: `2"`, Points: []geometry.Point{geometry.Pt(20, 150), geometry.Pt(40, 150)}},
	}
	for _, a := range notes {
		if _, err := s.AddAnnotation(a); err != nil {
			t.Fatal(err)
		}
	}

	dir := t.TempDir()
	for _, tc := range []struct {
		view sketch.View
		name string
	}{
		{sketch.Elevation, "elevation.png"},
		{sketch.CrossSection, "out/section.svg"},
	} {
		path := filepath.Join(dir, tc.name)
		if err := Export(s, tc.view, path); err != nil {
			t.Fatalf("%s: %v", tc.view, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Fatalf("%s: nothing written (%v)", path, err)
		}
	}

	if err := ExportElevation(s, filepath.Join(dir, "noext")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "noext.png")); err != nil {
		t.Fatal("expected .png to be appended")
	}
}
