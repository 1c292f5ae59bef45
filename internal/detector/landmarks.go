// Package detector provides hand detection interfaces and types for gesture input.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// fingerJoints pairs each non-thumb fingertip with its proximal (PIP) joint.
var fingerJoints = [4][2]int{
	{IndexTip, IndexPIP},
	{MiddleTip, MiddlePIP},
	{RingTip, RingPIP},
	{PinkyTip, PinkyPIP},
}

// Point3D represents a landmark in normalized image coordinates.
// X and Y are in [0,1]; Z is relative depth and is ignored by the 2D helpers.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// distance2D calculates the Euclidean distance between two landmarks in the image plane.
func distance2D(a, b Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PinchDistance returns the thumb-tip to index-tip distance in normalized units.
func (h *HandLandmarks) PinchDistance() float64 {
	return distance2D(h.Points[ThumbTip], h.Points[IndexTip])
}

// PinchCenter returns the midpoint between the thumb tip and the index tip.
func (h *HandLandmarks) PinchCenter() (x, y float64) {
	thumb := h.Points[ThumbTip]
	index := h.Points[IndexTip]
	return (thumb.X + index.X) / 2, (thumb.Y + index.Y) / 2
}

// IsOpen reports whether every finger is extended: each fingertip lies farther
// from the wrist than its PIP joint, and the thumb tip lies farther from the
// wrist than the thumb IP joint.
func (h *HandLandmarks) IsOpen() bool {
	if h == nil {
		return false
	}
	wrist := h.Points[Wrist]

	for _, fj := range fingerJoints {
		if distance2D(h.Points[fj[0]], wrist) <= distance2D(h.Points[fj[1]], wrist) {
			return false
		}
	}

	return distance2D(h.Points[ThumbTip], wrist) > distance2D(h.Points[ThumbIP], wrist)
}
