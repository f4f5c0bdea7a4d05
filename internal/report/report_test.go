package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/grid"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

func newSketch(t *testing.T, name string) *sketch.Sketch {
	t.Helper()
	p, err := beam.Standard().Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	s, err := sketch.New(p, sketch.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mark(t *testing.T, s *sketch.Sketch, row, col int, flange bool, st grid.State) {
	t.Helper()
	cur, err := s.Grid().State(grid.Cell{Row: row, Col: col, Flange: flange})
	if err != nil {
		t.Fatal(err)
	}
	for n := cur.StepsTo(st); n > 0; n-- {
		if _, err := s.AdvanceCell(row, col, flange); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := newSketch(t, "W14x43")
	for r := 0; r < 3; r++ {
		mark(t, s, r, 5, false, grid.Perforated)
	}
	mark(t, s, 4, 9, false, grid.Perforated)
	mark(t, s, 6, 20, false, grid.SectionLoss)
	mark(t, s, 1, 3, true, grid.Corroded)

	sum, err := Summarize(s)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Perforated != 4 || sum.SectionLoss != 1 || sum.Corroded != 1 || sum.Contours != 3 {
		t.Fatalf("counts = %+v", sum)
	}
	if sum.Intact != 12*60+60-6 {
		t.Errorf("intact = %d", sum.Intact)
	}
	if sum.PerforatedArea != 4 || sum.SectionLossArea != 1 {
		t.Errorf("areas = %.2f / %.2f", sum.PerforatedArea, sum.SectionLossArea)
	}
	if sum.CriticalStation != 5.5 {
		t.Errorf("critical station = %.2f", sum.CriticalStation)
	}
	lost := 3 * 0.305
	if math.Abs(sum.GrossArea-sum.RemainingArea-lost) > 1e-9 {
		t.Errorf("remaining %.4f of %.4f, want %.3f lost", sum.RemainingArea, sum.GrossArea, lost)
	}
	if math.Abs(sum.LossPercent-100*lost/sum.GrossArea) > 1e-9 {
		t.Errorf("loss = %.3f%%", sum.LossPercent)
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, sum); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "x = 5.50 in") {
		t.Errorf("summary lacks critical station:\n%s", buf.String())
	}
}

func TestSummarizeIntactBeam(t *testing.T) {
	sum, err := Summarize(newSketch(t, "W14x48"))
	if err != nil {
		t.Fatal(err)
	}
	if sum.LossPercent != 0 || sum.RemainingArea != sum.GrossArea || sum.CriticalStation != 0 {
		t.Fatalf("intact beam reports loss: %+v", sum)
	}
}

func TestWriteContours(t *testing.T) {
	s := newSketch(t, "W14x43")
	// The perforation passes through section loss first and takes the
	// second id.
	mark(t, s, 0, 0, false, grid.Perforated)
	mark(t, s, 1, 2, true, grid.SectionLoss)

	var buf bytes.Buffer
	if err := WriteContours(&buf, s.Contours()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, rule and 2 rows:\n%s", buf.String())
	}
	if f := strings.Fields(lines[2]); f[0] != "contour-2" || f[1] != "perforation" || f[2] != "web" {
		t.Errorf("row 1 = %q", lines[2])
	}
	if !strings.Contains(lines[3], "bottom flange") || !strings.Contains(lines[3], "section_loss") {
		t.Errorf("row 2 = %q", lines[3])
	}
}

func TestUnified(t *testing.T) {
	got, err := Unified("x", "y", "a\nb\nc\n", "a\nB\nc\n", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "--- x\n+++ y\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	got, err = Unified("x", "y", "a\nb", "a\nB", 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := "--- x\n+++ y\n@@ -1,2 +1,2 @@\n a\n-b\n+B\n"; got != want {
		t.Errorf("without trailing newline got\n%q\nwant\n%q", got, want)
	}
	if lines := splitLines("a\nb\n"); len(lines) != 2 {
		t.Errorf("splitLines kept an empty tail: %q", lines)
	}
	if lines := splitLines(""); len(lines) != 0 {
		t.Errorf("splitLines(\"\") = %q", lines)
	}
	if same, _ := Unified("x", "y", "a\n", "a\n", 0); same != "" {
		t.Fatalf("equal texts produced %q", same)
	}
}

func TestDiff(t *testing.T) {
	a := newSketch(t, "W14x43")
	b := newSketch(t, "W14x43")
	mark(t, b, 2, 1, false, grid.SectionLoss)

	d, err := Diff("2023.json", a, "2024.json", b)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"--- 2023.json", "+++ 2024.json", "-  web   2", "+  web   2", "+  contour-1"} {
		if !strings.Contains(d, want) {
			t.Errorf("diff lacks %q:\n%s", want, d)
		}
	}

	if same, _ := Diff("a", a, "b", a); same != "" {
		t.Fatalf("self diff not empty:\n%s", same)
	}
	if _, err := Diff("a", a, "c", newSketch(t, "W14x90")); err == nil {
		t.Fatal("expected error comparing different beams")
	}
}
