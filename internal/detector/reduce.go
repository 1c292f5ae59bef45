package detector

import (
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
)

// Reducer turns detector output into a gesture.Signal.
type Reducer struct {
	PinchThreshold float64
	MinConfidence  float64
}

// NewReducer creates a Reducer with the given pinch threshold and minimum
// per-hand confidence.
func NewReducer(pinchThreshold, minConfidence float64) *Reducer {
	return &Reducer{
		PinchThreshold: pinchThreshold,
		MinConfidence:  minConfidence,
	}
}

// Reduce builds a gesture.Signal from the hands detected in one frame. The first hand
// that clears the confidence gate drives the cursor; any other open hand sets
// Steady.
func (r *Reducer) Reduce(hands []HandLandmarks) gesture.Signal {
	primary := -1
	for i := range hands {
		if hands[i].Score < r.MinConfidence {
			continue
		}
		primary = i
		break
	}
	if primary < 0 {
		return gesture.Signal{}
	}

	hand := &hands[primary]
	cx, cy := hand.PinchCenter()
	dist := hand.PinchDistance()

	sig := gesture.Signal{
		Detected:  true,
		X:         1 - cx,
		Y:         cy,
		Pinching:  dist < r.PinchThreshold,
		Distance:  dist,
		Landmarks: make([]geom.Point, NumLandmarks),
	}
	for i, p := range hand.Points {
		sig.Landmarks[i] = geom.Point{X: p.X, Y: p.Y}
	}

	for i := range hands {
		if i == primary || hands[i].Score < r.MinConfidence {
			continue
		}
		if hands[i].IsOpen() {
			sig.Steady = true
			break
		}
	}

	return sig
}
