package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexiusacademia/wfbeam/internal/diagram"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/report"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
	"github.com/spf13/cobra"
)

var (
	inspectFile       string
	inspectBeam       string
	inspectAdvance    []string
	inspectNotes      []string
	inspectSave       string
	inspectShowMap    bool
	inspectJSON       bool
	inspectExportFile string
	inspectView       string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report on an inspection markup file",
	Long: `Load an inspection markup file, apply optional cell edits and print
the condition map, the summary and the contour table.

Cells are edited by advancing them through the condition cycle
intact → corroded → section loss → perforated → intact. Each --advance
takes "row,col" for a web cell or "top:col" / "bottom:col" for a flange
cell and may be repeated. Each --note places a callout on the elevation,
"x,y:text" in drawing px.

Markup file structure:
{
  "beam": "W14x43",
  "web_cell_size": 1,
  "flange_cell_size": 2,
  "cells": [
    {"row": 3, "col": 10, "state": "perforated"},
    {"row": 0, "col": 4, "flange": true, "state": "section_loss"}
  ]
}

Examples:
  wfbeam inspect -f girder-3.json
  wfbeam inspect --beam W14x43 --advance 2,5 --advance 2,5 --save girder-3.json
  wfbeam inspect -f girder-3.json -o girder-3.png --view elevation
  wfbeam inspect -f girder-3.json --note "120,40:pack rust" --save girder-3.json`,
	Run: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "Path to markup JSON file")
	inspectCmd.Flags().StringVarP(&inspectBeam, "beam", "b", "", "Start a new inspection of this beam instead of loading a file")
	inspectCmd.Flags().StringArrayVarP(&inspectAdvance, "advance", "a", nil, "Advance a cell one state (row,col or top:col / bottom:col)")
	inspectCmd.Flags().StringArrayVar(&inspectNotes, "note", nil, "Add a callout x,y:text on the elevation (px)")
	inspectCmd.Flags().StringVar(&inspectSave, "save", "", "Write the resulting markup to a file")
	inspectCmd.MarkFlagsMutuallyExclusive("file", "beam")
	inspectCmd.MarkFlagsOneRequired("file", "beam")

	// Output options
	inspectCmd.Flags().BoolVar(&inspectShowMap, "map", true, "Show the condition map")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the summary as JSON")
	inspectCmd.Flags().StringVarP(&inspectExportFile, "output", "o", "", "Export drawing to file (png, svg, pdf)")
	inspectCmd.Flags().StringVar(&inspectView, "view", "elevation", "View to export (elevation, cross-section)")
}

func runInspect(cmd *cobra.Command, args []string) {
	cat, err := loadCatalog()
	if err != nil {
		fmt.Printf("Error loading catalog: %v\n", err)
		return
	}
	log := newLogger()

	m := &sketch.Markup{Beam: inspectBeam, Cells: []sketch.CellMark{}}
	if inspectFile != "" {
		m, err = sketch.LoadMarkup(inspectFile)
		if err != nil {
			fmt.Printf("Error loading markup: %v\n", err)
			return
		}
	}

	done := log.Step("open sketch")
	s, err := sketch.Open(cat, m, sketch.DefaultConfig(), sketch.WithObserver(log.Observer()))
	done()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, a := range inspectAdvance {
		row, col, flange, err := parseCellAddress(a)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if _, err := s.AdvanceCell(row, col, flange); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	for _, n := range inspectNotes {
		a, err := parseNote(n)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if _, err := s.AddAnnotation(a); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}

	sum, err := report.Summarize(s)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if inspectJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s INSPECTION\n", s.Profile().Designation)
	fmt.Println("═══════════════════════════════════════════════════════════════")

	if inspectShowMap {
		fmt.Print(diagram.DrawConditionMap(s.Grid()))
	}
	fmt.Println()

	fmt.Println("SUMMARY:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	report.WriteSummary(os.Stdout, sum)
	fmt.Println()

	if cs := s.Contours(); len(cs) > 0 {
		fmt.Println("CONTOURS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		report.WriteContours(os.Stdout, cs)
		fmt.Println()
	}

	if notes := s.Annotations(); len(notes) > 0 {
		fmt.Println("NOTES:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		for _, a := range notes {
			fmt.Printf("  %-14s %-11s %-16s %s\n", a.ID, a.Kind, point(a.Position), a.Text)
		}
		fmt.Println()
	}

	status := "No perforation found"
	if sum.LossPercent > 0 {
		status = fmt.Sprintf("Worst section at x = %.2f in, %.1f%% of area lost", sum.CriticalStation, sum.LossPercent)
	}
	fmt.Print(diagram.DrawSummaryBox("CRITICAL SECTION", []string{status}))
	fmt.Println()

	if inspectSave != "" {
		if err := sketch.SaveMarkup(inspectSave, s.Capture()); err != nil {
			fmt.Printf("Error saving markup: %v\n", err)
			return
		}
		fmt.Printf("  Markup saved to: %s\n", inspectSave)
	}

	if inspectExportFile != "" {
		view, err := sketch.ParseView(inspectView)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if err := diagram.Export(s, view, inspectExportFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
			return
		}
		fmt.Printf("  Diagram exported to: %s\n", inspectExportFile)
	}
	fmt.Println()
}

// parseCellAddress reads "row,col", "top:col" or "bottom:col".
func parseCellAddress(s string) (row, col int, flange bool, err error) {
	if name, c, ok := strings.Cut(s, ":"); ok {
		col, err = strconv.Atoi(strings.TrimSpace(c))
		if err != nil {
			return 0, 0, false, fmt.Errorf("invalid cell %q: %w", s, err)
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "top":
			return 0, col, true, nil
		case "bottom":
			return 1, col, true, nil
		}
		return 0, 0, false, fmt.Errorf("invalid cell %q: flange must be top or bottom", s)
	}

	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, false, fmt.Errorf("invalid cell %q: want row,col", s)
	}
	if row, err = strconv.Atoi(strings.TrimSpace(r)); err != nil {
		return 0, 0, false, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	if col, err = strconv.Atoi(strings.TrimSpace(c)); err != nil {
		return 0, 0, false, fmt.Errorf("invalid cell %q: %w", s, err)
	}
	return row, col, false, nil
}

// parseNote reads "x,y:text" into a callout.
func parseNote(s string) (sketch.Annotation, error) {
	at, text, ok := strings.Cut(s, ":")
	if !ok {
		return sketch.Annotation{}, fmt.Errorf("invalid note %q: want x,y:text", s)
	}
	xs, ys, ok := strings.Cut(at, ",")
	if !ok {
		return sketch.Annotation{}, fmt.Errorf("invalid note %q: want x,y:text", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return sketch.Annotation{}, fmt.Errorf("invalid note %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return sketch.Annotation{}, fmt.Errorf("invalid note %q: %w", s, err)
	}
	return sketch.Annotation{Kind: sketch.Callout, Position: geometry.Pt(x, y), Text: strings.TrimSpace(text)}, nil
}
