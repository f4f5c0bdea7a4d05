package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/dimension"
	"github.com/alexiusacademia/wfbeam/internal/logger"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
	"github.com/alexiusacademia/wfbeam/internal/version"
	"github.com/spf13/cobra"
)

var (
	catalogFile string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "wfbeam",
	Short: "W-Beam Inspection Sketch Tool",
	Long: `wfbeam - Wide-Flange Beam Inspection Sketcher

A CLI tool for sketching corrosion damage on rolled W-shape steel beams.

This tool helps bridge and building inspectors:
  - Draw the elevation and cross-section of a W-beam to scale
  - Mark the condition of web and flange cells along a 5 ft span
  - Trace section loss and perforation contours
  - Place collision-free dimensions on both views
  - Compare two inspections of the same beam

Inspections are stored as JSON markup files.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   wfbeam v%-48s║\n", version.Version)
		fmt.Println("  ║   Wide-Flange Beam Inspection Sketcher                    ║")
		fmt.Println("  ║   Alexius S. Academia ©  2025                             ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for sketching corrosion damage on W-shape beams.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Scaled elevation and cross-section geometry with fillets")
		fmt.Println("    • Web and flange condition grids with damage contours")
		fmt.Println("    • Automatic dimension placement in four drafting styles")
		fmt.Println("    • PNG, SVG and PDF export of both views")
		fmt.Println("    • Inspection diffs and a JSON HTTP API")
		fmt.Println()
		fmt.Println("  Use 'wfbeam --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "Beam catalog file (.json or .xlsx); built-in W14 shapes if empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func loadCatalog() (*beam.Catalog, error) {
	return beam.Load(catalogFile)
}

func newLogger() *logger.Logger {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	return logger.New(os.Stderr, level, "wfbeam")
}

// sketchConfig builds the sketch settings shared by several commands.
func sketchConfig(scale, webCell, flangeCell, zoom float64, style string) (sketch.Config, error) {
	cfg := sketch.DefaultConfig()
	if scale > 0 {
		cfg.Scale = scale
	}
	if webCell > 0 {
		cfg.WebCellSize = webCell
	}
	if flangeCell > 0 {
		cfg.FlangeCellSize = flangeCell
	}
	if zoom > 0 {
		cfg.Zoom = zoom
	}
	st, err := dimension.StyleByName(style)
	if err != nil {
		return cfg, err
	}
	cfg.Style = st
	return cfg, nil
}
