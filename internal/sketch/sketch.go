// Package sketch is the drafting kernel of one open inspection sketch. It
// owns the beam geometry, the condition grid, the damage contours and the
// dimension sets of both views, and keeps them consistent: every geometry
// or cell size change reinitializes the grid, every cell edit updates the
// contours before it returns.
//
// A Sketch is single-threaded; callers serving several goroutines must
// serialize access.
package sketch

import (
	"errors"
	"fmt"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/contour"
	"github.com/alexiusacademia/wfbeam/internal/dimension"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
	"github.com/alexiusacademia/wfbeam/internal/steel"
)

// ErrOutOfRange is returned for a cell size or zoom outside its control range.
var ErrOutOfRange = errors.New("setting out of range")

// Config holds the adjustable sketch settings.
type Config struct {
	Scale          float64         `json:"scale"`            // px/in
	WebCellSize    float64         `json:"web_cell_size"`    // in
	FlangeCellSize float64         `json:"flange_cell_size"` // in
	Zoom           float64         `json:"zoom"`
	Style          dimension.Style `json:"style"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Scale:          steel.DefaultScale,
		WebCellSize:    steel.DefaultWebCellSize,
		FlangeCellSize: steel.DefaultFlangeCellSize,
		Zoom:           steel.DefaultZoom,
		Style:          dimension.BaseStyle,
	}
}

func checkRange(name string, v float64, r steel.Range) error {
	if !r.Contains(v) {
		return fmt.Errorf("%w: %s %.2f not in [%.1f, %.1f]", ErrOutOfRange, name, v, r.Min, r.Max)
	}
	return nil
}

func checkCellSizes(ws, fs float64) error {
	if err := checkRange("web cell size", ws, steel.WebCellSize); err != nil {
		return err
	}
	return checkRange("flange cell size", fs, steel.FlangeCellSize)
}

// Option configures a Sketch.
type Option func(*Sketch)

// WithObserver registers the observer told about every change.
func WithObserver(o Observer) Option {
	return func(s *Sketch) { s.observer = o }
}

// WithoutStandardDimensions leaves both views without the standard
// dimension sets.
func WithoutStandardDimensions() Option {
	return func(s *Sketch) { s.bare = true }
}

// Sketch is the kernel instance of one sketch.
type Sketch struct {
	profile beam.Profile
	cfg     Config
	model   *geometry.Model

	grid    *grid.Grid
	tracer  *contour.Tracer
	placers [numViews]*dimension.Placer

	annotations    []Annotation
	nextAnnotation int

	observer Observer
	bare     bool
}

// New creates a sketch of the profile. The grid is sized and the standard
// dimensions are placed before New returns.
func New(p beam.Profile, cfg Config, opts ...Option) (*Sketch, error) {
	if err := checkCellSizes(cfg.WebCellSize, cfg.FlangeCellSize); err != nil {
		return nil, err
	}
	if err := checkRange("zoom", cfg.Zoom, steel.Zoom); err != nil {
		return nil, err
	}
	model, err := geometry.New(p, cfg.Scale)
	if err != nil {
		return nil, err
	}

	s := &Sketch{profile: p, cfg: cfg, model: model, nextAnnotation: 1}
	for _, opt := range opts {
		opt(s)
	}
	for v := range s.placers {
		pl, err := dimension.NewPlacer(cfg.Style)
		if err != nil {
			return nil, err
		}
		if err := pl.UpdateScale(cfg.Zoom); err != nil {
			return nil, err
		}
		s.placers[v] = pl
	}

	s.tracer = contour.NewTracer(s.frame())
	s.grid = grid.New(steel.SpanLength, relay{s})
	if err := s.resetGrid(); err != nil {
		return nil, err
	}
	s.resetDimensions()
	return s, nil
}

// relay forwards grid notifications to the tracer, then to the observer.
type relay struct{ s *Sketch }

func (r relay) CellChanged(c grid.Cell, st grid.State) {
	r.s.tracer.CellChanged(c, st)
	r.s.emit(Event{Kind: EventCellChanged, Cell: c, State: st})
}

func (r relay) GridReset(e grid.Extents) {
	r.s.tracer.GridReset(e)
	r.s.emit(Event{Kind: EventGridReset, Detail: fmt.Sprintf(
		"web %dx%d at %.2f in, flanges 2x%d at %.2f in",
		e.Rows, e.Cols, e.WebCellSize, e.FlangeCols, e.FlangeCellSize)})
}

func (s *Sketch) emit(e Event) {
	if s.observer != nil {
		s.observer.Observe(e)
	}
}

func (s *Sketch) frame() contour.Frame {
	return contour.Frame{
		Scale:           s.cfg.Scale,
		Depth:           s.profile.Depth,
		FlangeThickness: s.profile.FlangeThickness,
		Length:          steel.SpanLength,
	}
}

func (s *Sketch) resetGrid() error {
	rows, cols := grid.Size(s.profile.WebHeight(), steel.SpanLength, s.cfg.WebCellSize)
	return s.grid.Reinitialize(rows, cols, s.cfg.WebCellSize, s.cfg.FlangeCellSize)
}

// resetDimensions discards every dimension and places the standard sets.
func (s *Sketch) resetDimensions() {
	for v, pl := range s.placers {
		pl.Clear()
		if s.bare {
			continue
		}
		view := View(v)
		for _, r := range s.StandardDimensions(view) {
			// collisions are reported once for the whole set below
			_, _ = pl.Add(r.Start, r.End, r.Label)
		}
		s.reportCollision(view, pl.Layout().Err)
	}
}

func (s *Sketch) reportCollision(v View, err error) {
	if errors.Is(err, dimension.ErrUnresolvedCollision) {
		s.emit(Event{Kind: EventDimensionCollision, Detail: fmt.Sprintf("%s view: %v", v, err)})
	}
}

// geometryChanged installs a new model and rebuilds everything derived
// from it. Cell markup and annotations are lost.
func (s *Sketch) geometryChanged(m *geometry.Model) error {
	s.model = m
	s.profile = m.Beam
	s.cfg.Scale = m.Scale
	s.annotations = nil
	s.nextAnnotation = 1
	s.tracer.SetFrame(s.frame())
	s.emit(Event{Kind: EventGeometryChanged, Detail: fmt.Sprintf("%s at %.2f px/in", m.Beam.Designation, m.Scale)})
	if err := s.resetGrid(); err != nil {
		return err
	}
	s.resetDimensions()
	return nil
}

// SetBeam switches the sketch to another profile. The grid is reinitialized.
func (s *Sketch) SetBeam(p beam.Profile) error {
	m, err := geometry.New(p, s.cfg.Scale)
	if err != nil {
		return err
	}
	return s.geometryChanged(m)
}

// SetScale changes the drawing scale (px/in). The grid is reinitialized.
func (s *Sketch) SetScale(scale float64) error {
	m, err := geometry.New(s.profile, scale)
	if err != nil {
		return err
	}
	return s.geometryChanged(m)
}

// SetCellSizes changes the web and flange cell sizes (in). The grid is
// reinitialized.
func (s *Sketch) SetCellSizes(web, flange float64) error {
	if err := checkCellSizes(web, flange); err != nil {
		return err
	}
	s.cfg.WebCellSize = web
	s.cfg.FlangeCellSize = flange
	return s.resetGrid()
}

// Settings lists the changes made by Reconfigure. Zero fields keep the
// current value.
type Settings struct {
	Beam           *beam.Profile
	Scale          float64
	WebCellSize    float64
	FlangeCellSize float64
	Zoom           float64
}

// Reconfigure applies several settings at once. Every value is checked
// before anything changes. A new beam or scale rebuilds the geometry; a
// new cell size only reinitializes the grid.
func (s *Sketch) Reconfigure(u Settings) error {
	p, scale := s.profile, s.cfg.Scale
	if u.Beam != nil {
		p = *u.Beam
	}
	if u.Scale != 0 {
		scale = u.Scale
	}
	ws, fs := s.cfg.WebCellSize, s.cfg.FlangeCellSize
	if u.WebCellSize != 0 {
		ws = u.WebCellSize
	}
	if u.FlangeCellSize != 0 {
		fs = u.FlangeCellSize
	}
	if err := checkCellSizes(ws, fs); err != nil {
		return err
	}
	if u.Zoom != 0 {
		if err := checkRange("zoom", u.Zoom, steel.Zoom); err != nil {
			return err
		}
	}

	var m *geometry.Model
	if u.Beam != nil || scale != s.cfg.Scale {
		var err error
		if m, err = geometry.New(p, scale); err != nil {
			return err
		}
	}

	resize := ws != s.cfg.WebCellSize || fs != s.cfg.FlangeCellSize
	s.cfg.WebCellSize, s.cfg.FlangeCellSize = ws, fs
	switch {
	case m != nil:
		if err := s.geometryChanged(m); err != nil {
			return err
		}
	case resize:
		if err := s.resetGrid(); err != nil {
			return err
		}
	}
	if u.Zoom != 0 && u.Zoom != s.cfg.Zoom {
		return s.UpdateZoom(u.Zoom)
	}
	return nil
}

// AdvanceCell moves a cell one step through the condition cycle. The
// contours reflect the change when it returns. A cell outside the grid
// leaves every state untouched and yields grid.ErrOutOfBounds.
func (s *Sketch) AdvanceCell(row, col int, flange bool) (grid.State, error) {
	c := grid.Cell{Row: row, Col: col, Flange: flange}
	st, err := s.grid.Advance(c)
	if err != nil {
		s.emit(Event{Kind: EventCellRejected, Cell: c, Detail: err.Error()})
		return st, err
	}
	return st, nil
}

// AddDimension adds a dimension to a view and re-runs its layout. An error
// wrapping dimension.ErrUnresolvedCollision comes with a placed dimension.
func (s *Sketch) AddDimension(v View, start, end geometry.Point, label string) (dimension.Dimension, error) {
	pl, err := s.placer(v)
	if err != nil {
		return dimension.Dimension{}, err
	}
	d, err := pl.Add(start, end, label)
	s.reportCollision(v, err)
	return d, err
}

// UpdateZoom rescales dimension text and arrows of both views for a new
// zoom factor and lays them out again.
func (s *Sketch) UpdateZoom(zoom float64) error {
	if err := checkRange("zoom", zoom, steel.Zoom); err != nil {
		return err
	}
	s.cfg.Zoom = zoom
	for v, pl := range s.placers {
		if err := pl.UpdateScale(zoom); err != nil {
			return err
		}
		s.reportCollision(View(v), pl.Layout().Err)
	}
	s.emit(Event{Kind: EventZoomChanged, Detail: fmt.Sprintf("%.2f", zoom)})
	return nil
}

// Dimensions returns the current layout of a view.
func (s *Sketch) Dimensions(v View) (dimension.Layout, error) {
	pl, err := s.placer(v)
	if err != nil {
		return dimension.Layout{}, err
	}
	return pl.Layout(), nil
}

func (s *Sketch) placer(v View) (*dimension.Placer, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unknown view %d", v)
	}
	return s.placers[v], nil
}

// Contours returns the damage regions ordered by id.
func (s *Sketch) Contours() []contour.Contour { return s.tracer.Contours() }

// Contour returns the region holding a cell.
func (s *Sketch) Contour(row, col int, flange bool) (contour.Contour, bool) {
	return s.tracer.Lookup(grid.Cell{Row: row, Col: col, Flange: flange})
}

// Grid returns the condition grid. Callers should edit cells through
// AdvanceCell.
func (s *Sketch) Grid() *grid.Grid { return s.grid }

// Geometry returns the current geometry model.
func (s *Sketch) Geometry() *geometry.Model { return s.model }

// Profile returns the sketched profile.
func (s *Sketch) Profile() beam.Profile { return s.profile }

// Config returns the current settings.
func (s *Sketch) Config() Config { return s.cfg }
