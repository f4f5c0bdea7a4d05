package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/wfbeam/internal/diagram"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/section"
	"github.com/spf13/cobra"
)

var (
	geometryBeam        string
	geometryScale       float64
	geometryShowDiagram bool
	geometryDiagramCols int
)

var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Show the scaled outline and section properties of a beam",
	Long: `Derive the drawing geometry of a W-shape at a given scale (px/in):
the elevation rectangle with its flange lines and centerline, and the
rolled cross-section outline with web-to-flange fillets.

Section properties are computed from the filleted outline.

Examples:
  wfbeam geometry --beam W14x43
  wfbeam geometry -b W14x90 --scale 20 --diagram`,
	Run: runGeometry,
}

func init() {
	rootCmd.AddCommand(geometryCmd)

	geometryCmd.Flags().StringVarP(&geometryBeam, "beam", "b", "", "Beam designation, e.g. W14x43 [required]")
	geometryCmd.Flags().Float64VarP(&geometryScale, "scale", "s", 10, "Drawing scale (px/in)")
	geometryCmd.MarkFlagRequired("beam")

	// Diagram options
	geometryCmd.Flags().BoolVar(&geometryShowDiagram, "diagram", false, "Show ASCII cross-section")
	geometryCmd.Flags().IntVar(&geometryDiagramCols, "cols", 40, "Width of the ASCII cross-section in characters")
}

func runGeometry(cmd *cobra.Command, args []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		return
	}
	p, err := cat.Lookup(geometryBeam)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	m, err := geometry.New(p, geometryScale)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	elev, err := m.ElevationOutline()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	outline, err := m.CrossSectionOutline()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s GEOMETRY @ %.2f px/in\n", p.Designation, m.Scale)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("PROFILE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Depth (d):\t%.3f in\t%.1f px\n", p.Depth, m.Px(p.Depth))
	fmt.Fprintf(w, "  Flange width (bf):\t%.3f in\t%.1f px\n", p.FlangeWidth, m.Px(p.FlangeWidth))
	fmt.Fprintf(w, "  Web thickness (tw):\t%.3f in\t%.1f px\n", p.WebThickness, m.Px(p.WebThickness))
	fmt.Fprintf(w, "  Flange thickness (tf):\t%.3f in\t%.1f px\n", p.FlangeThickness, m.Px(p.FlangeThickness))
	fmt.Fprintf(w, "  Fillet radius:\t\t%.2f px\n", m.FilletRadius())
	w.Flush()
	fmt.Println()

	fmt.Println("ELEVATION:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Outline:\t%s\n", rect(elev.Outline))
	fmt.Fprintf(w, "  Top flange line:\t%s\n", line(elev.TopFlange))
	fmt.Fprintf(w, "  Bottom flange line:\t%s\n", line(elev.BottomFlange))
	fmt.Fprintf(w, "  Centerline:\t%s\n", line(elev.Centerline))
	w.Flush()
	fmt.Println()

	fmt.Println("CROSS-SECTION OUTLINE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tKind\tFrom\tTo\n")
	fmt.Fprintf(w, "  ─\t────\t────\t──\n")
	for i, s := range outline.Segments {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", i+1, s.Kind, point(s.From), point(s.To))
	}
	w.Flush()
	fmt.Println()

	sec, err := section.FromProfile(p)
	if err != nil {
		fmt.Printf("Error computing section properties: %v\n", err)
		return
	}
	props := sec.CalculateProperties()

	fmt.Println("SECTION PROPERTIES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Area:\t%.3f in²\n", props.Area)
	fmt.Fprintf(w, "  Ix:\t%.1f in⁴\n", props.Ix)
	fmt.Fprintf(w, "  Iy:\t%.1f in⁴\n", props.Iy)
	fmt.Fprintf(w, "  Nominal weight:\t%.1f lb/ft (catalog %.0f)\n", props.NominalWeight, p.Weight)
	w.Flush()
	fmt.Println()

	if geometryShowDiagram {
		art, err := diagram.DrawCrossSection(m, geometryDiagramCols)
		if err != nil {
			fmt.Printf("Error drawing cross-section: %v\n", err)
			return
		}
		fmt.Print(art)
		fmt.Println()
	}
}

func point(p geometry.Point) string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

func line(l geometry.Line) string {
	return point(l.From) + " - " + point(l.To)
}

func rect(r geometry.Rect) string {
	return point(r.Min) + " - " + point(r.Max)
}
