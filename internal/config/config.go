// Package config holds the tunable parameters of the simulation, the drawing
// tool, the gesture reducer and the capture pipeline.
package config

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/ayusman/zerog/internal/geom"
)

// PhysicsConfig contains the free-body dynamics and grab/throw parameters.
type PhysicsConfig struct {
	Gravity     float64 // negative values lift bodies upward
	Friction    float64 // per-step velocity multiplier
	Restitution float64 // velocity kept after a wall bounce
	Jitter      float64 // full span of the random horizontal drift
	BodyCount   int

	MinRadius float64
	MaxRadius float64

	GrabMargin    float64 // extra hit radius in pixels
	GrabStiffness float64 // fraction of the hand offset closed per frame
	ThrowScale    float64 // hand velocity estimator gain

	// ScoringRegion is in normalized coordinates. An empty rect disables removal.
	ScoringRegion geom.Rect
}

// DrawingConfig contains the shape tool parameters.
type DrawingConfig struct {
	SnapDistance float64
}

// GestureConfig contains the landmark reduction parameters.
type GestureConfig struct {
	PinchThreshold float64
	MinConfidence  float64
	MaxHands       int
}

// DisplayConfig contains the render loop parameters.
type DisplayConfig struct {
	Width    int
	Height   int
	FrameFPS int
	Window   bool
}

// CaptureConfig contains the camera pipeline parameters.
type CaptureConfig struct {
	CameraID     int
	MotionThresh float64
	IdleFPS      int
	ActiveFPS    int
	IdleTimeout  time.Duration
	FeedURL      string // when set, landmarks are read from a websocket feed instead of the camera
}

// Config is the complete application configuration.
type Config struct {
	Physics PhysicsConfig
	Drawing DrawingConfig
	Gesture GestureConfig
	Display DisplayConfig
	Capture CaptureConfig
}

// Default returns a Config with the stock tuning values.
func Default() Config {
	return Config{
		Physics: PhysicsConfig{
			Gravity:       -0.05,
			Friction:      0.99,
			Restitution:   0.8,
			Jitter:        0.1,
			BodyCount:     10,
			MinRadius:     25,
			MaxRadius:     45,
			GrabMargin:    15,
			GrabStiffness: 0.2,
			ThrowScale:    0.5,
			ScoringRegion: geom.Rect{MinX: 0.42, MinY: 0, MaxX: 0.58, MaxY: 0.06},
		},
		Drawing: DrawingConfig{
			SnapDistance: 30,
		},
		Gesture: GestureConfig{
			PinchThreshold: 0.08,
			MinConfidence:  0.7,
			MaxHands:       2,
		},
		Display: DisplayConfig{
			Width:    1280,
			Height:   720,
			FrameFPS: 60,
			Window:   true,
		},
		Capture: CaptureConfig{
			CameraID:     0,
			MotionThresh: 1.0,
			IdleFPS:      5,
			ActiveFPS:    30,
			IdleTimeout:  2 * time.Second,
		},
	}
}

// Validate checks that the configuration describes a usable simulation.
func (c Config) Validate() error {
	p := c.Physics
	if p.Friction <= 0 || p.Friction > 1 {
		return fmt.Errorf("physics.friction must be in (0,1], got %v", p.Friction)
	}
	if p.Restitution < 0 || p.Restitution > 1 {
		return fmt.Errorf("physics.restitution must be in [0,1], got %v", p.Restitution)
	}
	if p.BodyCount < 0 {
		return fmt.Errorf("physics.body_count must not be negative, got %d", p.BodyCount)
	}
	if p.MinRadius <= 0 || p.MaxRadius < p.MinRadius {
		return fmt.Errorf("physics radius range [%v,%v] is invalid", p.MinRadius, p.MaxRadius)
	}
	if p.GrabStiffness <= 0 || p.GrabStiffness > 1 {
		return fmt.Errorf("physics.grab_stiffness must be in (0,1], got %v", p.GrabStiffness)
	}
	if !(p.GrabMargin >= 0) {
		return fmt.Errorf("physics.grab_margin must not be negative, got %v", p.GrabMargin)
	}
	if !(p.ThrowScale >= 0) {
		return fmt.Errorf("physics.throw_scale must not be negative, got %v", p.ThrowScale)
	}
	r := p.ScoringRegion
	for _, v := range []float64{r.MinX, r.MinY, r.MaxX, r.MaxY} {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("physics goal [%v,%v]-[%v,%v] must lie within [0,1]", r.MinX, r.MinY, r.MaxX, r.MaxY)
		}
	}
	if c.Drawing.SnapDistance <= 0 {
		return fmt.Errorf("drawing.snap_distance must be positive, got %v", c.Drawing.SnapDistance)
	}
	if c.Gesture.PinchThreshold <= 0 {
		return fmt.Errorf("gesture.pinch_threshold must be positive, got %v", c.Gesture.PinchThreshold)
	}
	if c.Gesture.MaxHands < 1 {
		return fmt.Errorf("gesture.max_hands must be at least 1, got %d", c.Gesture.MaxHands)
	}
	if c.Display.FrameFPS <= 0 {
		return fmt.Errorf("display.frame_fps must be positive, got %d", c.Display.FrameFPS)
	}
	return nil
}

// Bounds returns the initial viewport size.
func (c Config) Bounds() geom.Bounds {
	return geom.Bounds{Width: float64(c.Display.Width), Height: float64(c.Display.Height)}
}

// Apply overlays key/value settings onto the configuration. Unknown keys and
// unparsable values are logged and skipped.
func (c *Config) Apply(settings map[string]string) {
	floats := map[string]*float64{
		"physics.gravity":         &c.Physics.Gravity,
		"physics.friction":        &c.Physics.Friction,
		"physics.restitution":     &c.Physics.Restitution,
		"physics.jitter":          &c.Physics.Jitter,
		"physics.min_radius":      &c.Physics.MinRadius,
		"physics.max_radius":      &c.Physics.MaxRadius,
		"physics.grab_margin":     &c.Physics.GrabMargin,
		"physics.grab_stiffness":  &c.Physics.GrabStiffness,
		"physics.throw_scale":     &c.Physics.ThrowScale,
		"physics.goal_min_x":      &c.Physics.ScoringRegion.MinX,
		"physics.goal_min_y":      &c.Physics.ScoringRegion.MinY,
		"physics.goal_max_x":      &c.Physics.ScoringRegion.MaxX,
		"physics.goal_max_y":      &c.Physics.ScoringRegion.MaxY,
		"drawing.snap_distance":   &c.Drawing.SnapDistance,
		"gesture.pinch_threshold": &c.Gesture.PinchThreshold,
		"gesture.min_confidence":  &c.Gesture.MinConfidence,
		"capture.motion_thresh":   &c.Capture.MotionThresh,
	}
	ints := map[string]*int{
		"physics.body_count": &c.Physics.BodyCount,
		"gesture.max_hands":  &c.Gesture.MaxHands,
		"display.width":      &c.Display.Width,
		"display.height":     &c.Display.Height,
		"display.frame_fps":  &c.Display.FrameFPS,
		"capture.camera_id":  &c.Capture.CameraID,
		"capture.idle_fps":   &c.Capture.IdleFPS,
		"capture.active_fps": &c.Capture.ActiveFPS,
	}

	for key, raw := range settings {
		if dst, ok := floats[key]; ok {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				log.Printf("Ignoring setting %s=%q: %v", key, raw, err)
				continue
			}
			*dst = v
			continue
		}
		if dst, ok := ints[key]; ok {
			v, err := strconv.Atoi(raw)
			if err != nil {
				log.Printf("Ignoring setting %s=%q: %v", key, raw, err)
				continue
			}
			*dst = v
			continue
		}
		switch key {
		case "display.window":
			v, err := strconv.ParseBool(raw)
			if err != nil {
				log.Printf("Ignoring setting %s=%q: %v", key, raw, err)
				continue
			}
			c.Display.Window = v
		case "capture.idle_timeout":
			v, err := time.ParseDuration(raw)
			if err != nil {
				log.Printf("Ignoring setting %s=%q: %v", key, raw, err)
				continue
			}
			c.Capture.IdleTimeout = v
		case "capture.feed_url":
			c.Capture.FeedURL = raw
		default:
			log.Printf("Warning: unrecognised setting key '%s'", key)
		}
	}
}
