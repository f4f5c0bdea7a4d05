package sketch

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alexiusacademia/wfbeam/internal/geometry"
)

// ErrAnnotationNotFound is returned when no annotation has the given id.
var ErrAnnotationNotFound = errors.New("annotation not found")

// AnnotationKind tells how an annotation is drawn.
type AnnotationKind uint8

const (
	Callout AnnotationKind = iota // text at a point
	Leader                        // text with a line to the noted feature
	Measurement                   // text along a measured span of two points

	numAnnotationKinds
)

func (k AnnotationKind) Valid() bool { return k < numAnnotationKinds }

func (k AnnotationKind) String() string {
	switch k {
	case Callout:
		return "callout"
	case Leader:
		return "leader"
	case Measurement:
		return "measurement"
	default:
		return fmt.Sprintf("annotation(%d)", k)
	}
}

// ParseAnnotationKind accepts "callout", "leader" or "measurement".
func ParseAnnotationKind(name string) (AnnotationKind, error) {
	for k := Callout; k < numAnnotationKinds; k++ {
		if strings.EqualFold(strings.TrimSpace(name), k.String()) {
			return k, nil
		}
	}
	return Callout, fmt.Errorf("unknown annotation type %q (valid: callout, leader, measurement)", name)
}

func (k AnnotationKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *AnnotationKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, err := ParseAnnotationKind(name)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Annotation is a note placed on the elevation, in drawing px. Leaders
// run from Position through Points; a measurement spans its two Points.
type Annotation struct {
	ID       string           `json:"id,omitempty"`
	Kind     AnnotationKind   `json:"type"`
	Position geometry.Point   `json:"position"`
	Text     string           `json:"text"`
	Points   []geometry.Point `json:"points,omitempty"`
}

func finite(p geometry.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Validate checks the annotation without its id.
func (a Annotation) Validate() error {
	if !a.Kind.Valid() {
		return &ValidationError{fmt.Sprintf("invalid annotation type %d", a.Kind)}
	}
	if strings.TrimSpace(a.Text) == "" {
		return &ValidationError{a.Kind.String() + " annotation needs text"}
	}
	if !finite(a.Position) {
		return &ValidationError{"annotation position must be finite"}
	}
	for _, p := range a.Points {
		if !finite(p) {
			return &ValidationError{"annotation points must be finite"}
		}
	}
	switch {
	case a.Kind == Leader && len(a.Points) == 0:
		return &ValidationError{"leader annotation needs at least one point"}
	case a.Kind == Measurement && len(a.Points) != 2:
		return &ValidationError{fmt.Sprintf("measurement annotation needs 2 points, got %d", len(a.Points))}
	}
	return nil
}

const annotationPrefix = "annotation-"

// annotationSeq returns n for an id of the form "annotation-n".
func annotationSeq(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, annotationPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil && n > 0
}

// AddAnnotation places a note on the elevation and returns it with its
// new id. Ids are never reused within one geometry.
func (s *Sketch) AddAnnotation(a Annotation) (Annotation, error) {
	if err := a.Validate(); err != nil {
		return Annotation{}, err
	}
	a.ID = ""
	return s.putAnnotation(a), nil
}

// putAnnotation stores a valid annotation. A blank id gets the next one;
// a known id replaces that annotation.
func (s *Sketch) putAnnotation(a Annotation) Annotation {
	if a.ID == "" {
		a.ID = annotationPrefix + strconv.Itoa(s.nextAnnotation)
		s.nextAnnotation++
	} else if n, ok := annotationSeq(a.ID); ok && n >= s.nextAnnotation {
		s.nextAnnotation = n + 1
	}
	a.Points = append([]geometry.Point(nil), a.Points...)

	for i := range s.annotations {
		if s.annotations[i].ID == a.ID {
			s.annotations[i] = a
			s.emit(Event{Kind: EventAnnotationChanged, Detail: fmt.Sprintf("%s %s replaced", a.Kind, a.ID)})
			return a
		}
	}
	s.annotations = append(s.annotations, a)
	s.emit(Event{Kind: EventAnnotationChanged, Detail: fmt.Sprintf("%s %s added", a.Kind, a.ID)})
	return a
}

// RemoveAnnotation deletes the annotation with the given id.
func (s *Sketch) RemoveAnnotation(id string) error {
	for i, a := range s.annotations {
		if a.ID != id {
			continue
		}
		s.annotations = append(s.annotations[:i], s.annotations[i+1:]...)
		s.emit(Event{Kind: EventAnnotationChanged, Detail: fmt.Sprintf("%s %s removed", a.Kind, a.ID)})
		return nil
	}
	return fmt.Errorf("%w: %q", ErrAnnotationNotFound, id)
}

// Annotations returns the notes in the order they were added.
func (s *Sketch) Annotations() []Annotation {
	out := make([]Annotation, len(s.annotations))
	for i, a := range s.annotations {
		a.Points = append([]geometry.Point(nil), a.Points...)
		out[i] = a
	}
	return out
}
