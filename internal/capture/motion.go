package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// blurKernel smooths sensor noise before differencing.
	blurKernel = 21
	// pixelDelta is the grey-level change that counts a pixel as moved.
	pixelDelta = 25
)

// MotionDetector compares each frame with the previous one and reports the
// share of pixels that changed.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64 // percent of changed pixels that counts as motion
	prev      gocv.Mat
	primed    bool
}

// NewMotionDetector creates a detector that reports motion when more than
// threshold percent of the pixels change between frames.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect reports whether frame differs enough from the previous frame, and
// the percentage of changed pixels. The first frame only primes the detector.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	smooth := gocv.NewMat()
	defer smooth.Close()
	gocv.GaussianBlur(gray, &smooth, image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	// A resolution change invalidates the baseline.
	if !m.primed || m.prev.Rows() != smooth.Rows() || m.prev.Cols() != smooth.Cols() {
		smooth.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(smooth, m.prev, &diff)
	gocv.Threshold(diff, &diff, pixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100
	smooth.CopyTo(&m.prev)

	return changed > m.threshold, changed
}

// SetThreshold ignores non-positive values.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// Reset drops the baseline so the next frame primes the detector again.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primed = false
}

// Close releases the baseline frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prev.Close()
	m.prev = gocv.NewMat()
	m.primed = false
}
