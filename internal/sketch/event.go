package sketch

import (
	"fmt"

	"github.com/alexiusacademia/wfbeam/internal/grid"
)

// EventKind identifies what happened to a sketch.
type EventKind uint8

const (
	EventGeometryChanged EventKind = iota
	EventGridReset
	EventCellChanged
	EventCellRejected
	EventDimensionCollision
	EventZoomChanged
	EventAnnotationChanged
)

func (k EventKind) String() string {
	switch k {
	case EventGeometryChanged:
		return "geometry_changed"
	case EventGridReset:
		return "grid_reset"
	case EventCellChanged:
		return "cell_changed"
	case EventCellRejected:
		return "cell_rejected"
	case EventDimensionCollision:
		return "dimension_collision"
	case EventZoomChanged:
		return "zoom_changed"
	case EventAnnotationChanged:
		return "annotation_changed"
	default:
		return fmt.Sprintf("event(%d)", k)
	}
}

// Event describes one change. Cell and State are set for cell events only.
type Event struct {
	Kind   EventKind
	Cell   grid.Cell
	State  grid.State
	Detail string
}

func (e Event) String() string {
	switch e.Kind {
	case EventCellChanged:
		return fmt.Sprintf("%s %s -> %s", e.Kind, e.Cell, e.State)
	case EventCellRejected:
		return fmt.Sprintf("%s %s: %s", e.Kind, e.Cell, e.Detail)
	}
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Observer receives sketch events synchronously, after the change is
// complete.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }
