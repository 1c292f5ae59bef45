package capture

import (
	"testing"
	"time"
)

func TestGate(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	g := NewGate(5, 30, 2*time.Second)

	if g.Active() || g.FPS() != 5 {
		t.Fatalf("new gate: active=%v fps=%d", g.Active(), g.FPS())
	}

	steps := []struct {
		name        string
		at          time.Duration
		motion      bool
		wantFPS     int
		wantChanged bool
	}{
		{"still idle", 0, false, 5, false},
		{"motion activates", 100 * time.Millisecond, true, 30, true},
		{"more motion", 200 * time.Millisecond, true, 30, false},
		{"quiet within timeout", 2 * time.Second, false, 30, false},
		{"quiet at timeout", 2200 * time.Millisecond, false, 30, false},
		{"quiet past timeout", 2201 * time.Millisecond, false, 5, true},
		{"idle stays idle", 5 * time.Second, false, 5, false},
		{"motion again", 6 * time.Second, true, 30, true},
	}

	for _, s := range steps {
		fps, changed := g.Observe(s.motion, start.Add(s.at))
		if fps != s.wantFPS || changed != s.wantChanged {
			t.Errorf("%s: Observe() = %d, %v, want %d, %v", s.name, fps, changed, s.wantFPS, s.wantChanged)
		}
	}
}

func TestGate_Interval(t *testing.T) {
	g := NewGate(5, 20, time.Second)
	if g.Interval() != 200*time.Millisecond {
		t.Errorf("idle Interval() = %v", g.Interval())
	}

	g.Observe(true, time.Now())
	if g.Interval() != 50*time.Millisecond {
		t.Errorf("active Interval() = %v", g.Interval())
	}

	g.Reset()
	if g.Active() {
		t.Error("Reset left the gate active")
	}

	zero := NewGate(0, 0, time.Second)
	if zero.Interval() != time.Second {
		t.Errorf("zero-rate Interval() = %v, want 1s", zero.Interval())
	}
}
