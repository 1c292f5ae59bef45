package render

import (
	"image"
	"math"

	"github.com/ayusman/zerog/internal/geom"
	"gocv.io/x/gocv"
)

// Landmark indices used by the pinch indicator.
const (
	thumbTip = 4
	indexTip = 8
)

func px(p geom.Point) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// mirror maps a raw normalized landmark to pixels, flipped horizontally to
// match the mirrored cursor.
func mirror(p geom.Point, b geom.Bounds) geom.Point {
	return b.Denormalize(1-p.X, p.Y)
}

func polygon(pts []geom.Point) gocv.PointsVector {
	ip := make([]image.Point, len(pts))
	for i, p := range pts {
		ip[i] = px(p)
	}
	return gocv.NewPointsVectorFromPoints([][]image.Point{ip})
}

// dashes splits the segment a→b into on/off pieces of length step.
func dashes(a, b image.Point, step int) [][2]image.Point {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Hypot(dx, dy)
	if length == 0 || step <= 0 {
		return nil
	}

	var out [][2]image.Point
	for d := 0.0; d < length; d += float64(2 * step) {
		end := math.Min(d+float64(step), length)
		out = append(out, [2]image.Point{
			image.Pt(a.X+int(math.Round(dx*d/length)), a.Y+int(math.Round(dy*d/length))),
			image.Pt(a.X+int(math.Round(dx*end/length)), a.Y+int(math.Round(dy*end/length))),
		})
	}
	return out
}
