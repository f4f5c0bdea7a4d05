package cmd

import (
	"fmt"

	"github.com/alexiusacademia/wfbeam/internal/report"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <before.json> <after.json>",
	Short: "Diff two inspections of the same beam",
	Long: `Compare two markup files of the same beam and print a unified diff of
their condition maps and contour tables.

Both files are replayed on the same grid settings as recorded, so cells
that changed state show up as changed map rows.

Examples:
  wfbeam compare girder-3-2023.json girder-3-2025.json`,
	Args: cobra.ExactArgs(2),
	Run:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		return
	}

	var sketches [2]*sketch.Sketch
	for i, path := range args {
		m, err := sketch.LoadMarkup(path)
		if err != nil {
			fmt.Printf("Error loading %s: %v\n", path, err)
			return
		}
		sketches[i], err = sketch.Open(cat, m, sketch.DefaultConfig(), sketch.WithoutStandardDimensions())
		if err != nil {
			fmt.Printf("Error opening %s: %v\n", path, err)
			return
		}
	}

	diff, err := report.Diff(args[0], sketches[0], args[1], sketches[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if diff == "" {
		fmt.Println("  No differences")
		return
	}
	fmt.Print(diff)
}
