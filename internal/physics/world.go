package physics

import (
	"math"
	"math/rand/v2"

	"github.com/ayusman/zerog/internal/event"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/google/uuid"
)

// PaletteSize is the number of distinct body colors handed out at reset.
const PaletteSize = 8

// Config holds everything a World needs at construction and reset.
type Config struct {
	Params

	BodyCount int
	MinRadius float64
	MaxRadius float64

	GrabMargin    float64
	GrabStiffness float64
	ThrowScale    float64

	// ScoringRegion is normalized to the viewport. Empty disables removal.
	ScoringRegion geom.Rect
}

// World owns the bodies and the grab state. At most one body is grabbed at a
// time, and it is tracked by ID so removals can never retarget the grab.
type World struct {
	config Config
	rng    *rand.Rand

	bodies  []Body
	grabbed uuid.UUID // uuid.Nil when nothing is held

	prevHand    geom.Point
	hasPrevHand bool
	handVel     geom.Point
}

// NewWorld creates an empty world. Call Reset to populate it.
// A nil rng seeds a fresh generator.
func NewWorld(config Config, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &World{
		config: config,
		rng:    rng,
	}
}

// Config returns the world's configuration.
func (w *World) Config() Config {
	return w.config
}

// SetParams swaps the per-step dynamics, e.g. to flip gravity at runtime.
func (w *World) SetParams(p Params) {
	w.config.Params = p
}

// Reset replaces every body with a fresh randomized set inside bounds and
// drops any grab in progress. A degenerate viewport yields an empty world.
func (w *World) Reset(bounds geom.Bounds) {
	w.bodies = w.bodies[:0]
	w.grabbed = uuid.Nil

	if !bounds.Valid() {
		return
	}

	for i := 0; i < w.config.BodyCount; i++ {
		w.bodies = append(w.bodies, w.randomBody(bounds))
	}
}

func (w *World) randomBody(bounds geom.Bounds) Body {
	c := w.config
	radius := c.MinRadius + w.rng.Float64()*(c.MaxRadius-c.MinRadius)

	b := Body{
		ID:     uuid.New(),
		Radius: radius,
		Pos: geom.Point{
			X: radius + w.rng.Float64()*(bounds.Width-2*radius),
			Y: radius + w.rng.Float64()*(bounds.Height-2*radius),
		},
		Vel: geom.Point{
			X: (w.rng.Float64() - 0.5) * 4,
			Y: -w.rng.Float64()*2 - 1,
		},
		Color: w.rng.IntN(PaletteSize),
	}
	b.clamp(bounds)
	return b
}

// Add inserts a body and returns its ID. A nil ID is replaced with a new one.
func (w *World) Add(b Body) uuid.UUID {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.Grabbed = false
	w.bodies = append(w.bodies, b)
	return b.ID
}

// Bodies returns a snapshot of the bodies in insertion order.
func (w *World) Bodies() []Body {
	out := make([]Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// Grabbed returns the ID of the held body, or uuid.Nil.
func (w *World) Grabbed() uuid.UUID {
	return w.grabbed
}

// Body returns the body with the given ID.
func (w *World) Body(id uuid.UUID) (Body, bool) {
	if i := w.indexOf(id); i >= 0 {
		return w.bodies[i], true
	}
	return Body{}, false
}

// HandVelocity returns the most recent hand velocity estimate in pixels per frame.
func (w *World) HandVelocity() geom.Point {
	return w.handVel
}

func (w *World) indexOf(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	for i := range w.bodies {
		if w.bodies[i].ID == id {
			return i
		}
	}
	return -1
}

// Step runs one frame: hand tracking, grab/hold/release, free dynamics and
// the scoring region. It returns an AllCleared event on the frame the last
// body is removed.
func (w *World) Step(sig gesture.Signal, bounds geom.Bounds) []event.Event {
	hand := sig.Cursor(bounds)

	if sig.Detected {
		if w.hasPrevHand {
			w.handVel = hand.Sub(w.prevHand).Scale(w.config.ThrowScale)
		} else {
			w.handVel = geom.Point{}
		}
		w.prevHand = hand
		w.hasPrevHand = true
	}

	if sig.Detected && sig.Pinching {
		if w.grabbed == uuid.Nil {
			w.grab(hand)
		}
		w.hold(hand, bounds)
	} else {
		w.release()
	}

	for i := range w.bodies {
		w.bodies[i].Step(bounds, w.config.Params, w.rng)
	}

	return w.score(bounds)
}

// grab picks the nearest body whose grab radius contains the hand.
// Pinching over empty space grabs nothing.
func (w *World) grab(hand geom.Point) {
	best := -1
	bestDist := math.Inf(1)

	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.ContainsPoint(hand, w.config.GrabMargin) {
			continue
		}
		if d := b.Pos.Dist(hand); d < bestDist {
			bestDist = d
			best = i
		}
	}

	if best < 0 {
		return
	}
	w.bodies[best].Grabbed = true
	w.grabbed = w.bodies[best].ID
}

// hold eases the held body toward the hand and keeps its velocity at zero,
// so a throw uses only the hand velocity.
func (w *World) hold(hand geom.Point, bounds geom.Bounds) {
	i := w.indexOf(w.grabbed)
	if i < 0 {
		w.grabbed = uuid.Nil
		return
	}

	b := &w.bodies[i]
	b.Pos = b.Pos.Add(hand.Sub(b.Pos).Scale(w.config.GrabStiffness))
	b.Vel = geom.Point{}
	b.clamp(bounds)
}

// Release drops the held body without a throw, e.g. when the world is
// suspended.
func (w *World) Release() {
	w.handVel = geom.Point{}
	w.hasPrevHand = false
	w.release()
}

// release lets go of the held body, throwing it with the last hand velocity.
func (w *World) release() {
	if w.grabbed == uuid.Nil {
		return
	}

	if i := w.indexOf(w.grabbed); i >= 0 {
		b := &w.bodies[i]
		b.Grabbed = false
		b.Vel = w.handVel
	}
	w.grabbed = uuid.Nil
}

// score removes free bodies that reach the scoring region: the centre lies
// within the region's horizontal span and the body's vertical extent
// overlaps it. Centres never get closer than one radius to the wall.
func (w *World) score(bounds geom.Bounds) []event.Event {
	if w.config.ScoringRegion.Empty() || !bounds.Valid() || len(w.bodies) == 0 {
		return nil
	}
	region := w.config.ScoringRegion.In(bounds)

	kept := w.bodies[:0]
	for _, b := range w.bodies {
		if !b.Grabbed && reaches(region, b) {
			if b.ID == w.grabbed {
				w.grabbed = uuid.Nil
			}
			continue
		}
		kept = append(kept, b)
	}
	// Drop references held by the tail of the old slice.
	clear(w.bodies[len(kept):])
	w.bodies = kept

	if len(w.bodies) == 0 {
		return []event.Event{event.AllCleared()}
	}
	return nil
}

func reaches(region geom.Rect, b Body) bool {
	return b.Pos.X >= region.MinX && b.Pos.X <= region.MaxX &&
		b.Pos.Y-b.Radius <= region.MaxY && b.Pos.Y+b.Radius >= region.MinY
}
