package report

import (
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/alexiusacademia/wfbeam/internal/diagram"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

// DefaultContext is the number of unchanged lines around each hunk.
const DefaultContext = 3

// Unified produces a unified diff of two texts. It returns "" when they
// are equal.
func Unified(aName, bName, a, b string, context int) (string, error) {
	if context <= 0 {
		context = DefaultContext
	}
	u := difflib.UnifiedDiff{
		A:        splitLines(a),
		B:        splitLines(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  context,
	}
	return difflib.GetUnifiedDiffString(u)
}

// splitLines cuts s into newline-terminated lines. A final line without
// a newline gets one so that it diffs like the others.
func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if last := len(lines) - 1; lines[last] == "" {
		lines = lines[:last]
	} else {
		lines[last] += "\n"
	}
	return lines
}

// Render returns the text form of an inspection compared by Diff: the
// condition map followed by the contour table.
func Render(s *sketch.Sketch) (string, error) {
	var sb strings.Builder
	sb.WriteString(diagram.DrawConditionMap(s.Grid()))
	sb.WriteString("\n")
	if err := WriteContours(&sb, s.Contours()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Diff compares two inspections of the same beam.
func Diff(aName string, a *sketch.Sketch, bName string, b *sketch.Sketch) (string, error) {
	if a.Profile().Designation != b.Profile().Designation {
		return "", fmt.Errorf("cannot compare %s with %s", a.Profile().Designation, b.Profile().Designation)
	}
	ta, err := Render(a)
	if err != nil {
		return "", err
	}
	tb, err := Render(b)
	if err != nil {
		return "", err
	}
	return Unified(aName, bName, ta, tb, DefaultContext)
}
