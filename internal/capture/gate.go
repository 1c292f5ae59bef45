package capture

import "time"

// Gate switches detection between an idle and an active frame rate. Motion
// activates it at once; it falls back to idle after Timeout without motion.
type Gate struct {
	IdleFPS   int
	ActiveFPS int
	Timeout   time.Duration

	active     bool
	lastMotion time.Time
}

// NewGate creates a gate in the idle state.
func NewGate(idleFPS, activeFPS int, timeout time.Duration) *Gate {
	return &Gate{IdleFPS: idleFPS, ActiveFPS: activeFPS, Timeout: timeout}
}

// Observe records whether the frame at now had motion. It returns the frame
// rate to run at and whether that rate changed.
func (g *Gate) Observe(motion bool, now time.Time) (fps int, changed bool) {
	switch {
	case motion:
		g.lastMotion = now
		if !g.active {
			g.active = true
			changed = true
		}
	case g.active && now.Sub(g.lastMotion) > g.Timeout:
		g.active = false
		changed = true
	}
	return g.FPS(), changed
}

// Active reports whether detection should run on the current frame.
func (g *Gate) Active() bool {
	return g.active
}

// FPS returns the frame rate of the current state.
func (g *Gate) FPS() int {
	if g.active {
		return g.ActiveFPS
	}
	return g.IdleFPS
}

// Interval returns the frame period of the current state.
func (g *Gate) Interval() time.Duration {
	fps := g.FPS()
	if fps <= 0 {
		fps = 1
	}
	return time.Second / time.Duration(fps)
}

// Reset returns the gate to idle.
func (g *Gate) Reset() {
	g.active = false
	g.lastMotion = time.Time{}
}
