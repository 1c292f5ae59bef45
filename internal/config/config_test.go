package config

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/zerog/internal/geom"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}

	if cfg.Physics.Gravity != -0.05 {
		t.Errorf("gravity = %v, want -0.05", cfg.Physics.Gravity)
	}
	if cfg.Physics.Friction != 0.99 {
		t.Errorf("friction = %v, want 0.99", cfg.Physics.Friction)
	}
	if cfg.Physics.BodyCount != 10 {
		t.Errorf("body count = %d, want 10", cfg.Physics.BodyCount)
	}
	if cfg.Gesture.PinchThreshold != 0.08 {
		t.Errorf("pinch threshold = %v, want 0.08", cfg.Gesture.PinchThreshold)
	}
	if cfg.Drawing.SnapDistance != 30 {
		t.Errorf("snap distance = %v, want 30", cfg.Drawing.SnapDistance)
	}
	if cfg.Physics.GrabMargin != 15 {
		t.Errorf("grab margin = %v, want 15", cfg.Physics.GrabMargin)
	}
	if cfg.Physics.Restitution != 0.8 {
		t.Errorf("restitution = %v, want 0.8", cfg.Physics.Restitution)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero friction", func(c *Config) { c.Physics.Friction = 0 }},
		{"friction above one", func(c *Config) { c.Physics.Friction = 1.2 }},
		{"negative restitution", func(c *Config) { c.Physics.Restitution = -0.1 }},
		{"negative body count", func(c *Config) { c.Physics.BodyCount = -1 }},
		{"inverted radius range", func(c *Config) { c.Physics.MinRadius, c.Physics.MaxRadius = 40, 20 }},
		{"zero stiffness", func(c *Config) { c.Physics.GrabStiffness = 0 }},
		{"zero snap distance", func(c *Config) { c.Drawing.SnapDistance = 0 }},
		{"zero pinch threshold", func(c *Config) { c.Gesture.PinchThreshold = 0 }},
		{"no hands", func(c *Config) { c.Gesture.MaxHands = 0 }},
		{"zero frame rate", func(c *Config) { c.Display.FrameFPS = 0 }},
		{"negative grab margin", func(c *Config) { c.Physics.GrabMargin = -1 }},
		{"negative throw scale", func(c *Config) { c.Physics.ThrowScale = -0.5 }},
		{"NaN throw scale", func(c *Config) { c.Physics.ThrowScale = math.NaN() }},
		{"goal left of the view", func(c *Config) { c.Physics.ScoringRegion.MinX = -0.2 }},
		{"goal below the view", func(c *Config) { c.Physics.ScoringRegion.MaxY = 1.5 }},
		{"NaN goal", func(c *Config) { c.Physics.ScoringRegion.MaxX = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_AcceptsDisabledGoal(t *testing.T) {
	cfg := Default()
	cfg.Physics.ScoringRegion = geom.Rect{}
	cfg.Physics.GrabMargin = 0
	cfg.Physics.ThrowScale = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.Apply(map[string]string{
		"physics.gravity":       "0.2",
		"physics.body_count":    "4",
		"drawing.snap_distance": "45.5",
		"display.window":        "false",
		"capture.idle_timeout":  "750ms",
		"capture.feed_url":      "ws://localhost:9000/landmarks",
	})

	if cfg.Physics.Gravity != 0.2 {
		t.Errorf("gravity = %v, want 0.2", cfg.Physics.Gravity)
	}
	if cfg.Physics.BodyCount != 4 {
		t.Errorf("body count = %d, want 4", cfg.Physics.BodyCount)
	}
	if cfg.Drawing.SnapDistance != 45.5 {
		t.Errorf("snap distance = %v, want 45.5", cfg.Drawing.SnapDistance)
	}
	if cfg.Display.Window {
		t.Error("window should be disabled")
	}
	if cfg.Capture.IdleTimeout != 750*time.Millisecond {
		t.Errorf("idle timeout = %v, want 750ms", cfg.Capture.IdleTimeout)
	}
	if cfg.Capture.FeedURL != "ws://localhost:9000/landmarks" {
		t.Errorf("feed url = %q", cfg.Capture.FeedURL)
	}
}

func TestApply_IgnoresBadValues(t *testing.T) {
	cfg := Default()
	cfg.Apply(map[string]string{
		"physics.friction":   "sticky",
		"physics.body_count": "many",
		"no.such.key":        "1",
	})

	if cfg.Physics.Friction != 0.99 {
		t.Errorf("friction = %v, want unchanged 0.99", cfg.Physics.Friction)
	}
	if cfg.Physics.BodyCount != 10 {
		t.Errorf("body count = %d, want unchanged 10", cfg.Physics.BodyCount)
	}
}

func TestBounds(t *testing.T) {
	cfg := Default()
	b := cfg.Bounds()
	if b.Width != 1280 || b.Height != 720 {
		t.Errorf("Bounds() = %+v, want 1280x720", b)
	}
}
