package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/contour"
	"github.com/alexiusacademia/wfbeam/internal/dimension"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
	"github.com/alexiusacademia/wfbeam/internal/report"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

// createRequest opens a sketch; it is a markup file plus view settings.
type createRequest struct {
	sketch.Markup
	Zoom  float64 `json:"zoom,omitempty"`
	Style string  `json:"style,omitempty"`
}

type sketchResponse struct {
	ID      string         `json:"id"`
	Created time.Time      `json:"created"`
	Beam    beam.Profile   `json:"beam"`
	Config  sketch.Config  `json:"config"`
	Extents grid.Extents   `json:"extents"`
	Markup  *sketch.Markup `json:"markup"`
}

// updateRequest changes sketch settings; zero fields are left alone.
type updateRequest struct {
	Beam           string  `json:"beam,omitempty"`
	Scale          float64 `json:"scale,omitempty"`
	WebCellSize    float64 `json:"web_cell_size,omitempty"`
	FlangeCellSize float64 `json:"flange_cell_size,omitempty"`
	Zoom           float64 `json:"zoom,omitempty"`
}

type advanceRequest struct {
	Row    int  `json:"row"`
	Col    int  `json:"col"`
	Flange bool `json:"flange"`
}

type advanceResponse struct {
	Cell    grid.Cell        `json:"cell"`
	State   grid.State       `json:"state"`
	Contour *contour.Contour `json:"contour,omitempty"`
}

type dimensionsResponse struct {
	View       sketch.View           `json:"view"`
	Zoom       float64               `json:"zoom"`
	Iterations int                   `json:"iterations"`
	Dimensions []dimension.Dimension `json:"dimensions"`
	Warning    string                `json:"warning,omitempty"`
}

type addDimensionRequest struct {
	View  string         `json:"view"`
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`
	Label string         `json:"label,omitempty"`
}

type addDimensionResponse struct {
	Dimension dimension.Dimension `json:"dimension"`
	dimensionsResponse
}

type crossSectionResponse struct {
	View         sketch.View      `json:"view"`
	Outline      geometry.Path    `json:"outline"`
	Polygon      []geometry.Point `json:"polygon"`
	Bounds       geometry.Rect    `json:"bounds"`
	FilletRadius float64          `json:"fillet_radius"`
	Centerlines  [2]geometry.Line `json:"centerlines"`
}

type elevationResponse struct {
	View sketch.View `json:"view"`
	geometry.Elevation
	WebBand geometry.Rect `json:"web_band"`
}

func (s *Server) handleBeams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"beams": s.catalog.Profiles()})
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Cells == nil {
		req.Cells = []sketch.CellMark{}
	}

	cfg := s.defaults
	if req.Zoom != 0 {
		cfg.Zoom = req.Zoom
	}
	if req.Style != "" {
		st, err := dimension.StyleByName(req.Style)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cfg.Style = st
	}

	if s.full() {
		fail(c, errTooMany)
		return
	}

	id := uuid.New()
	observer := s.log.WithPrefix(id.String()[:8]).Observer()
	sk, err := sketch.Open(s.catalog, &req.Markup, cfg, sketch.WithObserver(observer))
	if err != nil {
		fail(c, err)
		return
	}
	ss, err := s.add(id, sk)
	if err != nil {
		fail(c, err)
		return
	}
	s.log.Info("opened sketch %s (%s)", ss.id, sk.Profile().Designation)
	c.JSON(http.StatusCreated, describe(ss))
}

func describe(ss *session) sketchResponse {
	sk := ss.sketch
	return sketchResponse{
		ID:      ss.id.String(),
		Created: ss.created,
		Beam:    sk.Profile(),
		Config:  sk.Config(),
		Extents: sk.Grid().Extents(),
		Markup:  sk.Capture(),
	}
}

func (s *Server) handleGet(c *gin.Context) {
	s.withSession(c, func(ss *session) {
		c.JSON(http.StatusOK, describe(ss))
	})
}

func (s *Server) handleUpdate(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u := sketch.Settings{
		Scale:          req.Scale,
		WebCellSize:    req.WebCellSize,
		FlangeCellSize: req.FlangeCellSize,
		Zoom:           req.Zoom,
	}
	if req.Beam != "" {
		p, err := s.catalog.Lookup(req.Beam)
		if err != nil {
			fail(c, err)
			return
		}
		u.Beam = &p
	}
	s.withSession(c, func(ss *session) {
		if err := ss.sketch.Reconfigure(u); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, describe(ss))
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	ss, err := s.lookup(c)
	if err != nil {
		fail(c, err)
		return
	}
	if !s.remove(ss.id) {
		fail(c, errNotFound)
		return
	}
	s.log.Info("closed sketch %s", ss.id)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAdvance(c *gin.Context) {
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.withSession(c, func(ss *session) {
		st, err := ss.sketch.AdvanceCell(req.Row, req.Col, req.Flange)
		if err != nil {
			fail(c, err)
			return
		}
		resp := advanceResponse{Cell: grid.Cell{Row: req.Row, Col: req.Col, Flange: req.Flange}, State: st}
		if ct, ok := ss.sketch.Contour(req.Row, req.Col, req.Flange); ok {
			resp.Contour = &ct
		}
		c.JSON(http.StatusOK, resp)
	})
}

func (s *Server) handleContours(c *gin.Context) {
	s.withSession(c, func(ss *session) {
		c.JSON(http.StatusOK, gin.H{"contours": ss.sketch.Contours()})
	})
}

func (s *Server) handleDimensions(c *gin.Context) {
	view, err := sketch.ParseView(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var zoom float64
	if z := c.Query("zoom"); z != "" {
		zoom, err = strconv.ParseFloat(z, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid zoom %q", z)})
			return
		}
	}

	s.withSession(c, func(ss *session) {
		if zoom != 0 && zoom != ss.sketch.Config().Zoom {
			if err := ss.sketch.UpdateZoom(zoom); err != nil {
				fail(c, err)
				return
			}
		}
		resp, err := layoutOf(ss.sketch, view)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}

func layoutOf(sk *sketch.Sketch, view sketch.View) (dimensionsResponse, error) {
	lay, err := sk.Dimensions(view)
	if err != nil {
		return dimensionsResponse{}, err
	}
	resp := dimensionsResponse{
		View:       view,
		Zoom:       sk.Config().Zoom,
		Iterations: lay.Iterations,
		Dimensions: lay.Dimensions,
	}
	if lay.Err != nil {
		resp.Warning = lay.Err.Error()
	}
	return resp, nil
}

// handleAddDimension places a custom dimension. An unresolved collision
// still places it and is returned as the layout warning.
func (s *Server) handleAddDimension(c *gin.Context) {
	var req addDimensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := sketch.ParseView(req.View)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.withSession(c, func(ss *session) {
		label := req.Label
		if label == "" {
			label = dimension.FormatLength(req.End.Sub(req.Start).Len() / ss.sketch.Config().Scale)
		}
		d, err := ss.sketch.AddDimension(view, req.Start, req.End, label)
		if err != nil && !errors.Is(err, dimension.ErrUnresolvedCollision) {
			fail(c, err)
			return
		}
		lay, err := layoutOf(ss.sketch, view)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, addDimensionResponse{Dimension: d, dimensionsResponse: lay})
	})
}

func (s *Server) handleAnnotations(c *gin.Context) {
	s.withSession(c, func(ss *session) {
		c.JSON(http.StatusOK, gin.H{"annotations": ss.sketch.Annotations()})
	})
}

func (s *Server) handleAddAnnotation(c *gin.Context) {
	var req sketch.Annotation
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.withSession(c, func(ss *session) {
		a, err := ss.sketch.AddAnnotation(req)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	})
}

func (s *Server) handleRemoveAnnotation(c *gin.Context) {
	s.withSession(c, func(ss *session) {
		if err := ss.sketch.RemoveAnnotation(c.Param("aid")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func (s *Server) handleGeometry(c *gin.Context) {
	view, err := sketch.ParseView(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.withSession(c, func(ss *session) {
		m := ss.sketch.Geometry()
		if view == sketch.Elevation {
			elev, err := m.ElevationOutline()
			if err != nil {
				fail(c, err)
				return
			}
			c.JSON(http.StatusOK, elevationResponse{View: view, Elevation: elev, WebBand: m.WebBand()})
			return
		}

		outline, err := m.CrossSectionOutline()
		if err != nil {
			fail(c, err)
			return
		}
		vertical, horizontal, err := m.CrossSectionCenterlines()
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, crossSectionResponse{
			View:         view,
			Outline:      outline,
			Polygon:      outline.Flatten(8),
			Bounds:       m.CrossSectionBounds(),
			FilletRadius: m.FilletRadius(),
			Centerlines:  [2]geometry.Line{vertical, horizontal},
		})
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	s.withSession(c, func(ss *session) {
		sum, err := report.Summarize(ss.sketch)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, sum)
	})
}
