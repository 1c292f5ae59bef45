// Package gesture defines the per-frame hand signal that drives the
// interaction modes.
package gesture

import (
	"sync"

	"github.com/ayusman/zerog/internal/geom"
)

// Signal is the reduced gesture input for one frame.
//
// X and Y are only meaningful when Detected is true. A zero Signal means
// "no hand", so every flag defaults to false.
type Signal struct {
	Detected bool    `json:"detected"`
	X        float64 `json:"x"` // normalized, mirrored horizontally
	Y        float64 `json:"y"`
	Pinching bool    `json:"isPinching"`
	Steady   bool    `json:"isSteady"`
	Distance float64 `json:"rawDistance"`

	// Landmarks holds the primary hand's 21 raw, unmirrored points, or nil.
	Landmarks []geom.Point `json:"landmarks,omitempty"`
}

// Cursor returns the cursor position in pixel space.
func (s Signal) Cursor(b geom.Bounds) geom.Point {
	return b.Denormalize(s.X, s.Y)
}

// Latest holds the most recently delivered Signal. The gesture source writes
// it at its own cadence and the frame loop reads it every tick without
// waiting for a fresher value.
type Latest struct {
	mu     sync.RWMutex
	signal Signal
	seq    uint64
}

// Store publishes a new signal.
func (l *Latest) Store(s Signal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.signal = s
	l.seq++
}

// Load returns the current signal and how many signals have been stored so far.
func (l *Latest) Load() (Signal, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.signal, l.seq
}

// Clear publishes the "no hand" signal.
func (l *Latest) Clear() {
	l.Store(Signal{})
}
