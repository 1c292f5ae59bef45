// Package render draws the current scene onto an OpenCV image.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ayusman/zerog/internal/drawing"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/ayusman/zerog/internal/mode"
	"github.com/ayusman/zerog/internal/physics"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

const (
	font       = gocv.FontHersheySimplex
	shapeAlpha = 0.2
)

// Scene is everything one frame shows. The frame loop builds it right after
// stepping the active mode.
type Scene struct {
	Mode   mode.Kind
	Signal gesture.Signal

	Bodies        []physics.Body
	Grabbed       uuid.UUID
	ScoringRegion geom.Rect

	Shapes  []drawing.Shape
	Preview drawing.Preview

	// Status is shown in the top-left corner.
	Status string
}

// Renderer owns the canvas. It is not safe for concurrent use.
type Renderer struct {
	bounds  geom.Bounds
	canvas  gocv.Mat
	overlay gocv.Mat
	alloc   bool
}

// New creates a renderer for a viewport of the given size.
func New(bounds geom.Bounds) *Renderer {
	r := &Renderer{}
	r.Resize(bounds)
	return r
}

// Resize reallocates the canvas. Non-positive sizes leave an empty canvas.
func (r *Renderer) Resize(bounds geom.Bounds) {
	r.release()
	r.bounds = bounds
	if !bounds.Valid() {
		r.canvas = gocv.NewMat()
		r.overlay = gocv.NewMat()
		r.alloc = true
		return
	}
	rows, cols := int(bounds.Height), int(bounds.Width)
	r.canvas = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	r.overlay = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	r.alloc = true
}

// Bounds returns the viewport size.
func (r *Renderer) Bounds() geom.Bounds {
	return r.bounds
}

// Close releases the canvas.
func (r *Renderer) Close() {
	r.release()
}

func (r *Renderer) release() {
	if !r.alloc {
		return
	}
	r.canvas.Close()
	r.overlay.Close()
	r.alloc = false
}

// Draw renders s and returns the canvas. The Mat is reused by the next Draw.
func (r *Renderer) Draw(s Scene) *gocv.Mat {
	if r.canvas.Empty() {
		return &r.canvas
	}
	r.canvas.SetTo(toScalar(background))

	switch s.Mode {
	case mode.Physics:
		r.drawPhysics(s)
	case mode.Drawing:
		r.drawShapes(s)
	}

	if s.Status != "" {
		gocv.PutText(&r.canvas, s.Status, image.Pt(12, 24), font, 0.55, dim, 1)
	}
	return &r.canvas
}

func (r *Renderer) drawPhysics(s Scene) {
	if !s.ScoringRegion.Empty() {
		goal := s.ScoringRegion.In(r.bounds)
		rect := image.Rect(int(goal.MinX), int(goal.MinY), int(goal.MaxX), int(goal.MaxY))
		gocv.Rectangle(&r.canvas, rect, accent, 2)
	}

	hand := s.Signal.Cursor(r.bounds)
	for _, b := range s.Bodies {
		c := px(b.Pos)
		rad := int(b.Radius)
		col := BodyColor(b.Color)
		gocv.Circle(&r.canvas, c, rad, col, -1)
		// Highlight up and to the left of the centre.
		hl := image.Pt(c.X-rad*3/10, c.Y-rad*3/10)
		gocv.Circle(&r.canvas, hl, max(rad/5, 1), white, -1)

		if b.ID == s.Grabbed {
			gocv.Circle(&r.canvas, c, rad+5, white, 2)
			if s.Signal.Detected {
				gocv.Line(&r.canvas, px(hand), c, dim, 2)
			}
		}
	}

	r.drawPinch(s.Signal)
}

// drawPinch connects the thumb and index tips, or marks the cursor when no
// landmarks came with the signal.
func (r *Renderer) drawPinch(sig gesture.Signal) {
	if !sig.Detected {
		return
	}
	col, width := dim, 2
	if sig.Pinching {
		col, width = accent, 4
	}

	if len(sig.Landmarks) > indexTip {
		thumb := px(mirror(sig.Landmarks[thumbTip], r.bounds))
		index := px(mirror(sig.Landmarks[indexTip], r.bounds))
		gocv.Line(&r.canvas, thumb, index, col, width)
		gocv.Circle(&r.canvas, thumb, 4, col, -1)
		gocv.Circle(&r.canvas, index, 4, col, -1)
		return
	}

	cursor := px(sig.Cursor(r.bounds))
	if sig.Pinching {
		gocv.Circle(&r.canvas, cursor, 15, accent, 3)
	} else {
		gocv.Circle(&r.canvas, cursor, 8, dim, -1)
	}
}

func (r *Renderer) drawShapes(s Scene) {
	if len(s.Shapes) > 0 {
		r.canvas.CopyTo(&r.overlay)
		for i, shape := range s.Shapes {
			pv := polygon(shape.Points)
			gocv.FillPoly(&r.overlay, pv, ShapeColor(i))
			pv.Close()
		}
		gocv.AddWeighted(r.overlay, shapeAlpha, r.canvas, 1-shapeAlpha, 0, &r.canvas)

		for i, shape := range s.Shapes {
			pv := polygon(shape.Points)
			gocv.Polylines(&r.canvas, pv, true, ShapeColor(i), 4)
			pv.Close()
		}
	}

	p := s.Preview
	if n := len(p.Current); n > 0 {
		if n > 1 {
			pv := polygon(p.Current)
			gocv.Polylines(&r.canvas, pv, false, white, 3)
			pv.Close()
		}
		for _, pt := range p.Current {
			gocv.Circle(&r.canvas, px(pt), 4, white, -1)
		}

		if p.Detected {
			last := px(p.Current[n-1])
			if p.InSnap {
				gocv.Line(&r.canvas, last, px(p.Current[0]), accent, 4)
			} else {
				dashed(&r.canvas, last, px(p.Cursor), dim, 2)
			}
		}
	}

	if !p.Detected {
		return
	}
	cursor := px(p.Cursor)
	label := image.Pt(cursor.X+20, cursor.Y)
	switch {
	case p.InSnap:
		gocv.PutText(&r.canvas, "Pinch to Close", label, font, 0.6, accent, 2)
		gocv.Circle(&r.canvas, px(p.Current[0]), 10, accent, 2)
	case len(p.Current) == 0:
		gocv.PutText(&r.canvas, "Pinch to Start Shape", label, font, 0.5, dim, 1)
	}

	col := white
	if p.Pinching {
		col = accent
	}
	gocv.Circle(&r.canvas, cursor, 10, col, 2)
	gocv.Circle(&r.canvas, cursor, 4, col, -1)
}

// dashed draws a 5px-on, 5px-off line from a to b.
func dashed(img *gocv.Mat, a, b image.Point, c color.RGBA, thickness int) {
	for _, seg := range dashes(a, b, 5) {
		gocv.Line(img, seg[0], seg[1], c, thickness)
	}
}

// StatusLine formats the overlay text.
func StatusLine(k mode.Kind, camera bool, sig gesture.Signal, bodies, shapes int) string {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	line := fmt.Sprintf("%s | camera %s | hand %s | pinch %s", k, onOff(camera), onOff(sig.Detected), onOff(sig.Pinching))
	switch k {
	case mode.Physics:
		line += fmt.Sprintf(" | bodies %d", bodies)
	case mode.Drawing:
		line += fmt.Sprintf(" | shapes %d", shapes)
	}
	return line
}

func toScalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0)
}
