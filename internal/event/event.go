// Package event defines the notifications emitted by the interaction modes.
package event

import (
	"github.com/ayusman/zerog/internal/geom"
	"github.com/google/uuid"
)

// Kind identifies the type of an event.
type Kind string

const (
	// KindAllCleared is emitted once when the last body leaves the world.
	KindAllCleared Kind = "all_cleared"
	// KindShapeCommitted is emitted once per closed drawing shape.
	KindShapeCommitted Kind = "shape_committed"
)

// Event is a single notification produced by a mode step.
type Event struct {
	Kind    Kind         `json:"kind"`
	ShapeID uuid.UUID    `json:"shapeId"`
	Shape   []geom.Point `json:"shape,omitempty"`
}

// AllCleared returns an all-cleared event.
func AllCleared() Event {
	return Event{Kind: KindAllCleared}
}

// ShapeCommitted returns an event carrying a copy of the committed polygon.
func ShapeCommitted(id uuid.UUID, shape []geom.Point) Event {
	pts := make([]geom.Point, len(shape))
	copy(pts, shape)
	return Event{Kind: KindShapeCommitted, ShapeID: id, Shape: pts}
}
