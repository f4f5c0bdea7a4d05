package sketch

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/grid"
)

// Markup is the file form of an inspection: which beam, the grid settings,
// the condition of every cell that is not intact and the notes on the
// elevation.
type Markup struct {
	Beam           string       `json:"beam"`
	Scale          float64      `json:"scale,omitempty"`
	WebCellSize    float64      `json:"web_cell_size,omitempty"`
	FlangeCellSize float64      `json:"flange_cell_size,omitempty"`
	Cells          []CellMark   `json:"cells"`
	Annotations    []Annotation `json:"annotations,omitempty"`
}

// CellMark records the condition of one cell.
type CellMark struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Flange bool       `json:"flange,omitempty"`
	State  grid.State `json:"state"`
}

func (c CellMark) cell() grid.Cell {
	return grid.Cell{Row: c.Row, Col: c.Col, Flange: c.Flange}
}

// ValidationError represents a markup validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// LoadMarkup reads and validates a markup JSON file.
func LoadMarkup(path string) (*Markup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMarkup(f)
}

// ReadMarkup decodes and validates markup JSON.
func ReadMarkup(r io.Reader) (*Markup, error) {
	var m Markup
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse markup: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the settings and cell addresses. Whether the cells fit
// the grid is only known once the markup is applied.
func (m *Markup) Validate() error {
	if strings.TrimSpace(m.Beam) == "" {
		return &ValidationError{"markup must name a beam"}
	}
	if m.Scale < 0 {
		return &ValidationError{fmt.Sprintf("scale must be positive, got %.3f", m.Scale)}
	}
	if m.WebCellSize < 0 || m.FlangeCellSize < 0 {
		return &ValidationError{"cell sizes must be positive"}
	}

	seen := make(map[grid.Cell]bool, len(m.Cells))
	for i, c := range m.Cells {
		if c.Row < 0 || c.Col < 0 {
			return &ValidationError{fmt.Sprintf("cell %d: negative address (%d, %d)", i, c.Row, c.Col)}
		}
		if c.Flange && c.Row != grid.TopFlange && c.Row != grid.BottomFlange {
			return &ValidationError{fmt.Sprintf("cell %d: flange row must be 0 (top) or 1 (bottom), got %d", i, c.Row)}
		}
		if !c.State.Valid() {
			return &ValidationError{fmt.Sprintf("cell %d: invalid state", i)}
		}
		if seen[c.cell()] {
			return &ValidationError{fmt.Sprintf("cell %d: %s listed twice", i, c.cell())}
		}
		seen[c.cell()] = true
	}

	ids := make(map[string]bool, len(m.Annotations))
	for i, a := range m.Annotations {
		if err := a.Validate(); err != nil {
			return &ValidationError{fmt.Sprintf("annotation %d: %v", i, err)}
		}
		if a.ID == "" {
			continue
		}
		if ids[a.ID] {
			return &ValidationError{fmt.Sprintf("annotation %d: id %q listed twice", i, a.ID)}
		}
		ids[a.ID] = true
	}
	return nil
}

// Write encodes the markup as indented JSON.
func (m *Markup) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// SaveMarkup writes the markup to a file.
func SaveMarkup(path string, m *Markup) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open creates a sketch from markup, taking the profile from the catalog
// and any settings the markup leaves out from cfg.
func Open(cat *beam.Catalog, m *Markup, cfg Config, opts ...Option) (*Sketch, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	p, err := cat.Lookup(m.Beam)
	if err != nil {
		return nil, err
	}
	if m.Scale > 0 {
		cfg.Scale = m.Scale
	}
	if m.WebCellSize > 0 {
		cfg.WebCellSize = m.WebCellSize
	}
	if m.FlangeCellSize > 0 {
		cfg.FlangeCellSize = m.FlangeCellSize
	}

	s, err := New(p, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(m); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply brings every listed cell to its recorded state by advancing it
// through the condition cycle. Settings in the markup that differ from the
// sketch are applied first, which reinitializes the grid. Annotations
// replace those with the same id and are added otherwise. Nothing changes
// if a cell lies outside the grid.
func (s *Sketch) Apply(m *Markup) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !sameDesignation(m.Beam, s.profile.Designation) {
		return &ValidationError{fmt.Sprintf("markup is for %s, sketch shows %s", m.Beam, s.profile.Designation)}
	}

	ws, fs := s.cfg.WebCellSize, s.cfg.FlangeCellSize
	if m.WebCellSize > 0 {
		ws = m.WebCellSize
	}
	if m.FlangeCellSize > 0 {
		fs = m.FlangeCellSize
	}
	if err := checkCellSizes(ws, fs); err != nil {
		return err
	}

	// check the target grid before touching anything
	rows, cols := grid.Size(s.profile.WebHeight(), s.grid.Length(), ws)
	target := grid.Extents{Rows: rows, Cols: cols, FlangeCols: grid.FlangeLength(s.grid.Length(), fs)}
	for _, c := range m.Cells {
		if !target.Contains(c.cell()) {
			return fmt.Errorf("%w: %s (grid %dx%d, flange %d)", grid.ErrOutOfBounds, c.cell(), rows, cols, target.FlangeCols)
		}
	}

	if m.Scale > 0 && m.Scale != s.cfg.Scale {
		if err := s.SetScale(m.Scale); err != nil {
			return err
		}
	}
	if ws != s.cfg.WebCellSize || fs != s.cfg.FlangeCellSize {
		if err := s.SetCellSizes(ws, fs); err != nil {
			return err
		}
	}

	for _, c := range m.Cells {
		cur, err := s.grid.State(c.cell())
		if err != nil {
			return err
		}
		for n := cur.StepsTo(c.State); n > 0; n-- {
			if _, err := s.AdvanceCell(c.Row, c.Col, c.Flange); err != nil {
				return err
			}
		}
	}
	for _, a := range m.Annotations {
		s.putAnnotation(a)
	}
	return nil
}

// Capture records the current inspection. Cells are listed web first in
// row-major order, then the top and bottom flanges.
func (s *Sketch) Capture() *Markup {
	m := &Markup{
		Beam:           s.profile.Designation,
		Scale:          s.cfg.Scale,
		WebCellSize:    s.cfg.WebCellSize,
		FlangeCellSize: s.cfg.FlangeCellSize,
		Cells:          []CellMark{},
	}
	for _, st := range []grid.State{grid.Corroded, grid.SectionLoss, grid.Perforated} {
		for _, c := range s.grid.Cells(st) {
			m.Cells = append(m.Cells, CellMark{Row: c.Row, Col: c.Col, Flange: c.Flange, State: st})
		}
	}
	sort.SliceStable(m.Cells, func(a, b int) bool {
		ca, cb := m.Cells[a], m.Cells[b]
		if ca.Flange != cb.Flange {
			return !ca.Flange
		}
		if ca.Row != cb.Row {
			return ca.Row < cb.Row
		}
		return ca.Col < cb.Col
	})
	if len(s.annotations) > 0 {
		m.Annotations = s.Annotations()
	}
	return m
}

func sameDesignation(a, b string) bool {
	norm := func(s string) string { return strings.ToUpper(strings.ReplaceAll(s, " ", "")) }
	return norm(a) == norm(b)
}
