// Package api serves sketch sessions over a JSON HTTP API.
//
// Each session owns one sketch.Sketch. Requests on the same session are
// serialized; sessions live in memory until deleted or the server stops.
package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alexiusacademia/wfbeam/internal/beam"
	"github.com/alexiusacademia/wfbeam/internal/geometry"
	"github.com/alexiusacademia/wfbeam/internal/grid"
	"github.com/alexiusacademia/wfbeam/internal/logger"
	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

// DefaultMaxSessions bounds the number of open sessions.
const DefaultMaxSessions = 256

var (
	errNotFound    = errors.New("sketch not found")
	errTooMany     = errors.New("too many open sketches")
	errInvalidUUID = errors.New("invalid sketch id")
)

type session struct {
	mu      sync.Mutex
	id      uuid.UUID
	created time.Time
	sketch  *sketch.Sketch
}

// Server holds the open sessions.
type Server struct {
	catalog     *beam.Catalog
	defaults    sketch.Config
	log         *logger.Logger
	maxSessions int

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// New creates a server resolving beams from the catalog. Settings a create
// request leaves out are taken from defaults.
func New(cat *beam.Catalog, defaults sketch.Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		catalog:     cat,
		defaults:    defaults,
		log:         log,
		maxSessions: DefaultMaxSessions,
		sessions:    make(map[uuid.UUID]*session),
	}
}

// SetMaxSessions changes the session limit.
func (s *Server) SetMaxSessions(n int) {
	if n > 0 {
		s.maxSessions = n
	}
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	api := r.Group("/api")
	api.GET("/beams", s.handleBeams)
	api.POST("/sketches", s.handleCreate)
	api.GET("/sketches/:id", s.handleGet)
	api.PATCH("/sketches/:id", s.handleUpdate)
	api.DELETE("/sketches/:id", s.handleDelete)
	api.POST("/sketches/:id/cells/advance", s.handleAdvance)
	api.GET("/sketches/:id/contours", s.handleContours)
	api.GET("/sketches/:id/dimensions", s.handleDimensions)
	api.POST("/sketches/:id/dimensions", s.handleAddDimension)
	api.GET("/sketches/:id/annotations", s.handleAnnotations)
	api.POST("/sketches/:id/annotations", s.handleAddAnnotation)
	api.DELETE("/sketches/:id/annotations/:aid", s.handleRemoveAnnotation)
	api.GET("/sketches/:id/geometry", s.handleGeometry)
	api.GET("/sketches/:id/summary", s.handleSummary)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("%s %s %d %v", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// full reports whether the session limit is reached.
func (s *Server) full() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions) >= s.maxSessions
}

func (s *Server) add(id uuid.UUID, sk *sketch.Sketch) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.maxSessions {
		return nil, errTooMany
	}
	ss := &session{id: id, created: time.Now(), sketch: sk}
	s.sessions[ss.id] = ss
	return ss, nil
}

func (s *Server) lookup(c *gin.Context) (*session, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, errInvalidUUID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ss, ok := s.sessions[id]
	if !ok {
		return nil, errNotFound
	}
	return ss, nil
}

func (s *Server) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of open sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// withSession runs fn holding the session lock, or writes the lookup error.
func (s *Server) withSession(c *gin.Context, fn func(*session)) {
	ss, err := s.lookup(c)
	if err != nil {
		fail(c, err)
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	fn(ss)
}

func fail(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	var sketchErr *sketch.ValidationError
	var beamErr *beam.ValidationError
	switch {
	case errors.Is(err, errNotFound),
		errors.Is(err, beam.ErrUnknownProfile),
		errors.Is(err, sketch.ErrAnnotationNotFound):
		return http.StatusNotFound
	case errors.Is(err, errTooMany):
		return http.StatusServiceUnavailable
	case errors.Is(err, grid.ErrOutOfBounds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errInvalidUUID),
		errors.Is(err, geometry.ErrInvalidGeometry),
		errors.Is(err, sketch.ErrOutOfRange),
		errors.As(err, &sketchErr),
		errors.As(err, &beamErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
