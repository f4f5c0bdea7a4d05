package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
)

// Symbols used for each condition state in text maps.
var conditionSymbols = map[grid.State]string{
	grid.Intact:      "·",
	grid.Corroded:    "░",
	grid.SectionLoss: "▒",
	grid.Perforated:  "█",
}

// Symbol returns the map symbol of a state.
func Symbol(s grid.State) string {
	if sym, ok := conditionSymbols[s]; ok {
		return sym
	}
	return "?"
}

// DrawConditionMap renders the grid as text: the top flange cells, the web
// matrix with row numbers, then the bottom flange cells. Output is stable
// for identical grids so two maps can be diffed line by line.
func DrawConditionMap(g *grid.Grid) string {
	var sb strings.Builder
	e := g.Extents()

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  CONDITION MAP  web %d x %d @ %.2f in, flanges %d @ %.2f in\n",
		e.Rows, e.Cols, e.WebCellSize, e.FlangeCols, e.FlangeCellSize))
	sb.WriteString("  ─────────────\n\n")

	sb.WriteString(fmt.Sprintf("  %-14s│%s│\n", "top flange", symbols(g.Flange(grid.TopFlange))))
	sb.WriteString(fmt.Sprintf("  %-14s┌%s┐\n", "", strings.Repeat("─", e.Cols)))
	for r, row := range g.Web() {
		sb.WriteString(fmt.Sprintf("  %-14s│%s│\n", fmt.Sprintf("web %3d", r), symbols(row)))
	}
	sb.WriteString(fmt.Sprintf("  %-14s└%s┘\n", "", strings.Repeat("─", e.Cols)))
	sb.WriteString(fmt.Sprintf("  %-14s│%s│\n", "bottom flange", symbols(g.Flange(grid.BottomFlange))))

	sb.WriteString("\n  Legend: ")
	for i, s := range []grid.State{grid.Intact, grid.Corroded, grid.SectionLoss, grid.Perforated} {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(fmt.Sprintf("%s %s", Symbol(s), strings.ReplaceAll(s.String(), "_", " ")))
	}
	sb.WriteString("\n")

	return sb.String()
}

func symbols(states []grid.State) string {
	var sb strings.Builder
	for _, s := range states {
		sb.WriteString(Symbol(s))
	}
	return sb.String()
}

// DrawCrossSection rasterizes the rolled cross-section outline into a text
// block cols characters wide. Character cells are taken twice as tall as
// they are wide.
func DrawCrossSection(m *geometry.Model, cols int) (string, error) {
	outline, err := m.CrossSectionOutline()
	if err != nil {
		return "", err
	}
	if cols < 4 {
		cols = 4
	}
	poly := outline.Flatten(8)
	b := outline.Bounds()
	cell := b.Width() / float64(cols)
	rows := int(b.Height()/(2*cell) + 0.5)
	if rows < 3 {
		rows = 3
	}
	rowH := b.Height() / float64(rows)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n  %s CROSS-SECTION\n", strings.ToUpper(m.Beam.Designation)))
	sb.WriteString("  ─────────────\n\n")
	for r := 0; r < rows; r++ {
		sb.WriteString("  ")
		y := b.Min.Y + (float64(r)+0.5)*rowH
		for c := 0; c < cols; c++ {
			x := b.Min.X + (float64(c)+0.5)*cell
			if inside(poly, geometry.Pt(x, y)) {
				sb.WriteString("█")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// inside is the even-odd point in polygon test.
func inside(poly []geometry.Point, p geometry.Point) bool {
	in := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
	}
	return in
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}

	border := strings.Repeat("═", maxLen+4)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(title, maxLen)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", pad(line, maxLen)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
