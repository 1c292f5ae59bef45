// Package geom provides the small amount of 2D geometry shared by the
// simulation, drawing and render packages.
package geom

import "math"

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Scale returns p multiplied by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Bounds is the size of the drawable area in pixels.
type Bounds struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are positive.
func (b Bounds) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Denormalize maps a normalized [0,1] coordinate pair into pixel space.
func (b Bounds) Denormalize(x, y float64) Point {
	return Point{X: x * b.Width, Y: y * b.Height}
}

// Rect is an axis-aligned rectangle in normalized [0,1] coordinates,
// so it keeps its meaning when the viewport is resized.
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// In returns the rectangle scaled into pixel space for the given bounds.
func (r Rect) In(b Bounds) Rect {
	return Rect{
		MinX: r.MinX * b.Width,
		MinY: r.MinY * b.Height,
		MaxX: r.MaxX * b.Width,
		MaxY: r.MaxY * b.Height,
	}
}

// Contains reports whether p lies inside the rectangle, edges inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}
