package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a right hand with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// FistLandmarks returns a left hand with every finger curled into the palm.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Left",
		Score:      0.93,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.3, Y: 0.8, Z: 0.0}

	// Thumb folded across the palm, tip closer to the wrist than the IP joint
	landmarks.Points[ThumbCMC] = Point3D{X: 0.33, Y: 0.76, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.36, Y: 0.72, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: 0.36, Y: 0.68, Z: -0.04}
	landmarks.Points[ThumbTip] = Point3D{X: 0.32, Y: 0.72, Z: -0.05}

	landmarks.Points[IndexMCP] = Point3D{X: 0.35, Y: 0.68, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.35, Y: 0.64, Z: -0.05}
	landmarks.Points[IndexDIP] = Point3D{X: 0.33, Y: 0.68, Z: -0.04}
	landmarks.Points[IndexTip] = Point3D{X: 0.32, Y: 0.71, Z: -0.02}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.30, Y: 0.67, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.30, Y: 0.63, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.29, Y: 0.67, Z: -0.04}
	landmarks.Points[MiddleTip] = Point3D{X: 0.29, Y: 0.70, Z: -0.02}

	landmarks.Points[RingMCP] = Point3D{X: 0.26, Y: 0.68, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.26, Y: 0.65, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.26, Y: 0.68, Z: -0.04}
	landmarks.Points[RingTip] = Point3D{X: 0.27, Y: 0.71, Z: -0.02}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.23, Y: 0.70, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.23, Y: 0.67, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.24, Y: 0.70, Z: -0.04}
	landmarks.Points[PinkyTip] = Point3D{X: 0.25, Y: 0.73, Z: -0.02}

	return landmarks
}

// PinchLandmarks returns an open right hand whose thumb tip touches the index tip.
func PinchLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()
	landmarks.Points[ThumbIP] = Point3D{X: 0.64, Y: 0.48, Z: 0.02}
	landmarks.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.37, Z: 0.02}
	return landmarks
}

// MoveTo returns a copy of hand translated so its pinch center sits at (x, y)
// in unmirrored landmark coordinates.
func MoveTo(hand HandLandmarks, x, y float64) HandLandmarks {
	cx, cy := hand.PinchCenter()
	dx, dy := x-cx, y-cy
	for i := range hand.Points {
		hand.Points[i].X += dx
		hand.Points[i].Y += dy
	}
	return hand
}
