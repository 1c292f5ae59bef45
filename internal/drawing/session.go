// Package drawing implements the freehand polygon tool: pinch to place a
// point, pinch near the first point to close the shape, and hold a second
// open hand to lock the pending segment to an axis.
package drawing

import (
	"math"
	"slices"

	"github.com/ayusman/zerog/internal/event"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/google/uuid"
)

// DefaultSnapDistance is the closing radius around a shape's first point, in pixels.
const DefaultSnapDistance = 30

// Shape is a committed, implicitly closed polygon.
type Shape struct {
	ID     uuid.UUID
	Points []geom.Point
}

// Preview is the per-frame state the render pass needs to draw the pending
// segment and the cursor.
type Preview struct {
	Detected bool
	Pinching bool
	Cursor   geom.Point // effective cursor, after axis snapping
	InSnap   bool       // cursor is within the closing radius
	Current  []geom.Point
}

// Session holds the completed shapes and the shape in progress.
type Session struct {
	snapDistance float64

	shapes    []Shape
	current   []geom.Point
	lastPinch bool

	preview Preview
}

// NewSession creates an empty session. A non-positive snap distance falls
// back to DefaultSnapDistance.
func NewSession(snapDistance float64) *Session {
	if snapDistance <= 0 {
		snapDistance = DefaultSnapDistance
	}
	return &Session{snapDistance: snapDistance}
}

// Step consumes one frame of input. It returns a ShapeCommitted event on the
// frame a shape is closed.
func (s *Session) Step(sig gesture.Signal, bounds geom.Bounds) []event.Event {
	cursor := s.effectiveCursor(sig, bounds)

	pinching := sig.Detected && sig.Pinching
	triggered := pinching && !s.lastPinch
	s.lastPinch = pinching

	inSnap := false
	if sig.Detected && len(s.current) > 2 {
		inSnap = cursor.Dist(s.current[0]) < s.snapDistance
	}

	var events []event.Event
	if triggered {
		if inSnap {
			events = append(events, s.commit())
			inSnap = false
		} else {
			s.current = append(s.current, cursor)
		}
	}

	s.preview = Preview{
		Detected: sig.Detected,
		Pinching: pinching,
		Cursor:   cursor,
		InSnap:   inSnap,
		Current:  s.current,
	}
	return events
}

// effectiveCursor maps the signal to pixels and, with a steady second hand,
// locks the pending segment to whichever axis moved less since the last point.
func (s *Session) effectiveCursor(sig gesture.Signal, bounds geom.Bounds) geom.Point {
	if !sig.Detected {
		return geom.Point{}
	}
	p := sig.Cursor(bounds)

	if sig.Steady && len(s.current) > 0 {
		last := s.current[len(s.current)-1]
		if math.Abs(p.X-last.X) > math.Abs(p.Y-last.Y) {
			p.Y = last.Y
		} else {
			p.X = last.X
		}
	}
	return p
}

func (s *Session) commit() event.Event {
	shape := Shape{ID: uuid.New(), Points: s.current}
	s.shapes = append(s.shapes, shape)
	s.current = nil
	return event.ShapeCommitted(shape.ID, shape.Points)
}

// Shapes returns a copy of the committed shapes, oldest first.
func (s *Session) Shapes() []Shape {
	out := make([]Shape, len(s.shapes))
	for i, sh := range s.shapes {
		out[i] = Shape{ID: sh.ID, Points: slices.Clone(sh.Points)}
	}
	return out
}

// Current returns a copy of the points of the shape in progress.
func (s *Session) Current() []geom.Point {
	out := make([]geom.Point, len(s.current))
	copy(out, s.current)
	return out
}

// Preview returns the state computed by the last Step.
func (s *Session) Preview() Preview {
	p := s.preview
	p.Current = s.Current()
	return p
}

// Clear drops every shape, including the one in progress. The pinch edge
// state is kept so a held pinch does not place a point right after clearing.
func (s *Session) Clear() {
	s.shapes = nil
	s.current = nil
	s.preview.Current = nil
	s.preview.InSnap = false
}
