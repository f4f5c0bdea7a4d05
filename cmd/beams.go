package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/spf13/cobra"
)

var beamsExportFile string

var beamsCmd = &cobra.Command{
	Use:   "beams",
	Short: "List the beam profiles of the catalog",
	Long: `List the W-shape profiles available for sketching.

The built-in catalog holds the W14 shapes. Use --catalog to read another
catalog from a JSON file or an Excel workbook whose first row names the
columns (designation, d, bf, tw, tf, W).

Examples:
  wfbeam beams
  wfbeam beams --catalog shapes.xlsx
  wfbeam beams --export shapes.xlsx`,
	Run: runBeams,
}

func init() {
	rootCmd.AddCommand(beamsCmd)

	beamsCmd.Flags().StringVarP(&beamsExportFile, "export", "e", "", "Write the catalog to an .xlsx workbook")
}

func runBeams(cmd *cobra.Command, args []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     W-SHAPE CATALOG")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Shape\td (in)\tbf (in)\ttw (in)\ttf (in)\tW (lb/ft)\n")
	fmt.Fprintf(w, "  ─────\t──────\t───────\t───────\t───────\t─────────\n")
	for _, p := range cat.Profiles() {
		fmt.Fprintf(w, "  %s\t%.2f\t%.3f\t%.3f\t%.3f\t%.0f\n",
			p.Designation, p.Depth, p.FlangeWidth, p.WebThickness, p.FlangeThickness, p.Weight)
	}
	w.Flush()
	fmt.Println()
	fmt.Printf("  %d profiles\n", cat.Len())
	fmt.Println()

	if beamsExportFile != "" {
		if err := exportCatalog(cat, beamsExportFile); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			return
		}
		fmt.Printf("  Catalog exported to: %s\n", beamsExportFile)
		fmt.Println()
	}
}

func exportCatalog(cat *beam.Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := beam.WriteSpreadsheet(cat, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
