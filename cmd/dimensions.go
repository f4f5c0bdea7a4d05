package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alexiusacademia/wfbeam/internal/diagram"
	"github.com/alexiusacademia/wfbeam/internal/dimension"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
	"github.com/spf13/cobra"
)

var (
	dimensionsBeam       string
	dimensionsView       string
	dimensionsScale      float64
	dimensionsZoom       float64
	dimensionsStyle      string
	dimensionsExportFile string
	dimensionsAdd        []string
)

var dimensionsCmd = &cobra.Command{
	Use:   "dimensions",
	Short: "Lay out the standard dimensions of a view",
	Long: `Place the standard dimensions of a beam view and print the layout.

Elevation: overall depth, web depth and running ordinates every foot.
Cross-section: flange width, depth, web thickness and flange thickness.

Dimensions that collide are pushed outward along their normal until the
layout is clear or the iteration cap is reached. Each --add places one
more dimension between two points in drawing px, "x1,y1,x2,y2" with an
optional ",label"; the label defaults to the measured length.

Drafting styles (arrow / text gap / font, px at zoom 1):
  base           2.5 / 6  / 10
  ansi           3.0 / 8  / 12
  iso            2.0 / 5  / 10
  architectural  2.0 / 10 / 9

Examples:
  wfbeam dimensions --beam W14x43
  wfbeam dimensions -b W14x90 --view cross-section --style iso --zoom 2
  wfbeam dimensions -b W14x43 -o elevation.svg
  wfbeam dimensions -b W14x43 --view xs --add 0,137,79.95,137,bf`,
	Run: runDimensions,
}

func init() {
	rootCmd.AddCommand(dimensionsCmd)

	dimensionsCmd.Flags().StringVarP(&dimensionsBeam, "beam", "b", "", "Beam designation, e.g. W14x43 [required]")
	dimensionsCmd.MarkFlagRequired("beam")

	dimensionsCmd.Flags().StringVar(&dimensionsView, "view", "elevation", "View (elevation, cross-section)")
	dimensionsCmd.Flags().Float64VarP(&dimensionsScale, "scale", "s", 10, "Drawing scale (px/in)")
	dimensionsCmd.Flags().Float64VarP(&dimensionsZoom, "zoom", "z", 1, "Zoom factor (0.1 - 5.0)")
	dimensionsCmd.Flags().StringVar(&dimensionsStyle, "style", "base", "Dimension style (base, ansi, iso, architectural)")
	dimensionsCmd.Flags().StringVarP(&dimensionsExportFile, "output", "o", "", "Export the view to file (png, svg, pdf)")
	dimensionsCmd.Flags().StringArrayVar(&dimensionsAdd, "add", nil, "Add a dimension x1,y1,x2,y2[,label] (px)")
}

func runDimensions(cmd *cobra.Command, args []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		return
	}
	p, err := cat.Lookup(dimensionsBeam)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	view, err := sketch.ParseView(dimensionsView)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	cfg, err := sketchConfig(dimensionsScale, 0, 0, dimensionsZoom, dimensionsStyle)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	log := newLogger()
	s, err := sketch.New(p, cfg, sketch.WithObserver(log.Observer()))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, a := range dimensionsAdd {
		r, err := parseDimension(a, cfg.Scale)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		// a collision is reported with the layout below
		if _, err := s.AddDimension(view, r.Start, r.End, r.Label); err != nil && !errors.Is(err, dimension.ErrUnresolvedCollision) {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}
	lay, err := s.Dimensions(view)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s %s DIMENSIONS\n", p.Designation, strings.ToUpper(view.String()))
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("STYLE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	st := cfg.Style.Scaled(cfg.Zoom)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Name:\t%s\n", cfg.Style.Name)
	fmt.Fprintf(w, "  Zoom:\t%.2f\n", cfg.Zoom)
	fmt.Fprintf(w, "  Arrow size:\t%.2f px\n", st.ArrowSize)
	fmt.Fprintf(w, "  Text size:\t%.2f px\n", st.FontSize)
	fmt.Fprintf(w, "  Text gap:\t%.2f px\n", st.TextGap)
	w.Flush()
	fmt.Println()

	fmt.Println("LAYOUT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Label\tOrientation\tOffset (px)\tFrom\tTo\n")
	fmt.Fprintf(w, "  ─────\t───────────\t───────────\t────\t──\n")
	for _, d := range lay.Dimensions {
		fmt.Fprintf(w, "  %s\t%s\t%.1f\t%s\t%s\n",
			d.Label, d.Orientation, d.Offset, point(d.Line.From), point(d.Line.To))
	}
	w.Flush()
	fmt.Println()
	fmt.Printf("  %d dimensions placed in %d passes\n", len(lay.Dimensions), lay.Iterations)
	fmt.Println()

	if errors.Is(lay.Err, dimension.ErrUnresolvedCollision) {
		fmt.Printf("  ⚠ %v\n", lay.Err)
		fmt.Println()
	}

	if dimensionsExportFile != "" {
		if err := diagram.Export(s, view, dimensionsExportFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
			return
		}
		fmt.Printf("  Diagram exported to: %s\n", dimensionsExportFile)
		fmt.Println()
	}
}

// parseDimension reads "x1,y1,x2,y2[,label]". Without a label the
// measured length at the given scale (px/in) is used.
func parseDimension(s string, scale float64) (dimension.Request, error) {
	parts := strings.SplitN(s, ",", 5)
	if len(parts) < 4 {
		return dimension.Request{}, fmt.Errorf("invalid dimension %q: want x1,y1,x2,y2[,label]", s)
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return dimension.Request{}, fmt.Errorf("invalid dimension %q: %w", s, err)
		}
		v[i] = f
	}
	r := dimension.Request{Start: geometry.Pt(v[0], v[1]), End: geometry.Pt(v[2], v[3])}
	if len(parts) == 5 {
		r.Label = strings.TrimSpace(parts[4])
	}
	if r.Label == "" {
		r.Label = dimension.FormatLength(r.End.Sub(r.Start).Len() / scale)
	}
	return r, nil
}
