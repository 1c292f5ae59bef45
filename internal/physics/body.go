// Package physics implements the free-body sandbox: bodies drift under
// (anti-)gravity, bounce off the walls, can be grabbed and thrown with a pinch,
// and are consumed by the scoring region.
package physics

import (
	"math/rand/v2"

	"github.com/ayusman/zerog/internal/geom"
	"github.com/google/uuid"
)

// Params are the per-step dynamics shared by every body in a world.
type Params struct {
	Gravity     float64
	Friction    float64
	Restitution float64
	Jitter      float64 // full span; the applied drift is uniform in ±Jitter/2
}

// Body is one movable object.
type Body struct {
	ID      uuid.UUID
	Pos     geom.Point
	Vel     geom.Point
	Radius  float64
	Grabbed bool
	Color   int // palette index, render only
}

// Step advances a free body by one frame. Grabbed bodies are driven by the
// grab logic and are left untouched, as are bodies in a degenerate viewport.
func (b *Body) Step(bounds geom.Bounds, p Params, rng *rand.Rand) {
	if b.Grabbed || !bounds.Valid() {
		return
	}

	b.Vel.Y += p.Gravity

	b.Pos.X += b.Vel.X
	b.Pos.Y += b.Vel.Y

	b.Vel.X *= p.Friction
	b.Vel.Y *= p.Friction

	b.bounce(bounds, p.Restitution)

	if p.Jitter != 0 && rng != nil {
		b.Vel.X += (rng.Float64() - 0.5) * p.Jitter
	}
}

// bounce clamps the body inside the walls, reflecting and damping the
// velocity component of every axis whose edge crossed a wall.
func (b *Body) bounce(bounds geom.Bounds, restitution float64) {
	if b.Pos.X-b.Radius < 0 {
		b.Pos.X = b.Radius
		b.Vel.X *= -restitution
	} else if b.Pos.X+b.Radius > bounds.Width {
		b.Pos.X = bounds.Width - b.Radius
		b.Vel.X *= -restitution
	}

	if b.Pos.Y-b.Radius < 0 {
		b.Pos.Y = b.Radius
		b.Vel.Y *= -restitution
	} else if b.Pos.Y+b.Radius > bounds.Height {
		b.Pos.Y = bounds.Height - b.Radius
		b.Vel.Y *= -restitution
	}

	// A viewport narrower than the body pins it to the centre line.
	if bounds.Width < 2*b.Radius {
		b.Pos.X = bounds.Width / 2
	}
	if bounds.Height < 2*b.Radius {
		b.Pos.Y = bounds.Height / 2
	}
}

// clamp moves the body inside the walls without touching its velocity.
func (b *Body) clamp(bounds geom.Bounds) {
	if !bounds.Valid() {
		return
	}
	b.Pos.X = clampRange(b.Pos.X, b.Radius, bounds.Width-b.Radius)
	b.Pos.Y = clampRange(b.Pos.Y, b.Radius, bounds.Height-b.Radius)
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ContainsPoint reports whether p is within the grab radius: the visual
// radius plus margin.
func (b *Body) ContainsPoint(p geom.Point, margin float64) bool {
	return b.Pos.Dist(p) < b.Radius+margin
}
