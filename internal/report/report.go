// Package report turns a sketch into inspection report text: condition
// counts, the contour table, the critical section and diffs between two
// inspections.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alexiusacademia/wfbeam/internal/contour"
	"github.com/alexiusacademia/wfbeam/internal/grid"
	"github.com/alexiusacademia/wfbeam/internal/section"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

// Summary holds the figures of one inspection.
type Summary struct {
	Beam    string       `json:"beam"`
	Extents grid.Extents `json:"extents"`

	Intact      int `json:"intact"`
	Corroded    int `json:"corroded"`
	SectionLoss int `json:"section_loss"`
	Perforated  int `json:"perforated"`

	Contours        int     `json:"contours"`
	SectionLossArea float64 `json:"section_loss_area"` // in², elevation
	PerforatedArea  float64 `json:"perforated_area"`   // in², elevation

	// Critical section: the web station losing the most cross-section
	// area to perforation.
	GrossArea       float64 `json:"gross_area"`       // in²
	CriticalStation float64 `json:"critical_station"` // in from the left end
	RemainingArea   float64 `json:"remaining_area"`   // in²
	LossPercent     float64 `json:"loss_percent"`
}

// Summarize computes the summary of a sketch.
func Summarize(s *sketch.Sketch) (Summary, error) {
	g := s.Grid()
	p := s.Profile()
	sum := Summary{
		Beam:        p.Designation,
		Extents:     g.Extents(),
		Intact:      g.Count(grid.Intact),
		Corroded:    g.Count(grid.Corroded),
		SectionLoss: g.Count(grid.SectionLoss),
		Perforated:  g.Count(grid.Perforated),
	}

	contours := s.Contours()
	sum.Contours = len(contours)
	for _, c := range contours {
		if c.Type == contour.Perforation {
			sum.PerforatedArea += c.Area
		} else {
			sum.SectionLossArea += c.Area
		}
	}

	sec, err := section.FromProfile(p)
	if err != nil {
		return sum, err
	}
	props := sec.CalculateProperties()
	sum.GrossArea = props.Area

	// each perforated web cell removes its height times the section width
	// at its mid-depth
	e := g.Extents()
	widths := make([]float64, e.Rows)
	for r := range widths {
		widths[r] = sec.WidthAtDepth(p.FlangeThickness + (float64(r)+0.5)*e.WebCellSize)
	}
	worst, col := 0.0, -1
	web := g.Web()
	for c := 0; c < e.Cols; c++ {
		lost := 0.0
		for r := 0; r < e.Rows; r++ {
			if web[r][c] == grid.Perforated {
				lost += widths[r] * e.WebCellSize
			}
		}
		if lost > worst {
			worst, col = lost, c
		}
	}
	sum.RemainingArea, sum.LossPercent = sec.RemainingArea(worst)
	if col >= 0 {
		sum.CriticalStation = (float64(col) + 0.5) * e.WebCellSize
	}
	return sum, nil
}

// WriteSummary prints the summary as an aligned table.
func WriteSummary(w io.Writer, sum Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  Beam:\t%s\n", sum.Beam)
	fmt.Fprintf(tw, "  Web grid:\t%d x %d @ %.2f in\n", sum.Extents.Rows, sum.Extents.Cols, sum.Extents.WebCellSize)
	fmt.Fprintf(tw, "  Flange cells:\t2 x %d @ %.2f in\n", sum.Extents.FlangeCols, sum.Extents.FlangeCellSize)
	fmt.Fprintf(tw, "  Intact / corroded:\t%d / %d\n", sum.Intact, sum.Corroded)
	fmt.Fprintf(tw, "  Section loss / perforated:\t%d / %d\n", sum.SectionLoss, sum.Perforated)
	fmt.Fprintf(tw, "  Contours:\t%d\n", sum.Contours)
	fmt.Fprintf(tw, "  Section loss area:\t%.2f in²\n", sum.SectionLossArea)
	fmt.Fprintf(tw, "  Perforated area:\t%.2f in²\n", sum.PerforatedArea)
	fmt.Fprintf(tw, "  Gross section area:\t%.2f in²\n", sum.GrossArea)
	if sum.LossPercent > 0 {
		fmt.Fprintf(tw, "  Critical station:\tx = %.2f in\n", sum.CriticalStation)
		fmt.Fprintf(tw, "  Remaining area:\t%.2f in² (%.1f%% lost)\n", sum.RemainingArea, sum.LossPercent)
	}
	return tw.Flush()
}

// WriteContours prints one row per contour.
func WriteContours(w io.Writer, contours []contour.Contour) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tType\tSurface\tCells\tArea (in²)\tVertices\tHoles")
	fmt.Fprintln(tw, "  ──\t────\t───────\t─────\t──────────\t────────\t─────")
	for _, c := range contours {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%d\t%.2f\t%d\t%d\n",
			c.ID, c.Type, surface(c), len(c.Cells), c.Area, len(c.Boundary), len(c.Holes))
	}
	return tw.Flush()
}

func surface(c contour.Contour) string {
	if !c.Flange {
		return "web"
	}
	if len(c.Cells) > 0 && c.Cells[0].Row == grid.BottomFlange {
		return "bottom flange"
	}
	return "top flange"
}
