package render

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/ayusman/zerog/internal/drawing"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/ayusman/zerog/internal/mode"
	"github.com/ayusman/zerog/internal/physics"
	"github.com/google/uuid"
)

func TestBodyColor_Wraps(t *testing.T) {
	if BodyColor(0) != BodyColor(8) || BodyColor(-1) != BodyColor(7) {
		t.Error("palette index should wrap")
	}
	if BodyColor(0) == BodyColor(1) {
		t.Error("adjacent palette entries should differ")
	}
}

func TestShapeColor(t *testing.T) {
	tests := []struct {
		i    int
		want color.RGBA
	}{
		// hsl(0, 100%, 60%) is #FF3333.
		{0, color.RGBA{R: 0xFF, G: 0x33, B: 0x33, A: 0xFF}},
		{2, color.RGBA{R: 0x33, G: 0xFF, B: 0x33, A: 0xFF}},
		{4, color.RGBA{R: 0x33, G: 0x33, B: 0xFF, A: 0xFF}},
		{6, color.RGBA{R: 0xFF, G: 0x33, B: 0x33, A: 0xFF}},
	}
	for _, tt := range tests {
		if got := ShapeColor(tt.i); got != tt.want {
			t.Errorf("ShapeColor(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  int
		want Action
	}{
		{-1, ActionNone},
		{'m', ActionToggleMode},
		{'M', ActionToggleMode},
		{'r', ActionReset},
		{'c', ActionToggleCamera},
		{'q', ActionQuit},
		{27, ActionQuit},
		{0x100 | 'q', ActionQuit},
		{'x', ActionNone},
	}
	for _, tt := range tests {
		if got := KeyAction(tt.key); got != tt.want {
			t.Errorf("KeyAction(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestDashes(t *testing.T) {
	segs := dashes(image.Pt(0, 0), image.Pt(30, 0), 5)
	if len(segs) != 3 {
		t.Fatalf("got %d dashes, want 3", len(segs))
	}
	if segs[0][0] != image.Pt(0, 0) || segs[0][1] != image.Pt(5, 0) {
		t.Errorf("first dash = %v", segs[0])
	}
	if segs[2][0] != image.Pt(20, 0) || segs[2][1] != image.Pt(25, 0) {
		t.Errorf("last dash = %v", segs[2])
	}

	if dashes(image.Pt(3, 3), image.Pt(3, 3), 5) != nil {
		t.Error("zero-length segment should have no dashes")
	}
}

func TestMirror(t *testing.T) {
	got := mirror(geom.Point{X: 0.25, Y: 0.5}, geom.Bounds{Width: 800, Height: 600})
	if got != (geom.Point{X: 600, Y: 300}) {
		t.Errorf("mirror() = %+v, want (600, 300)", got)
	}
}

func TestStatusLine(t *testing.T) {
	line := StatusLine(mode.Physics, true, gesture.Signal{Detected: true}, 7, 0)
	for _, want := range []string{"physics", "camera on", "hand on", "pinch off", "bodies 7"} {
		if !strings.Contains(line, want) {
			t.Errorf("StatusLine() = %q, missing %q", line, want)
		}
	}

	line = StatusLine(mode.Drawing, false, gesture.Signal{}, 7, 2)
	if !strings.Contains(line, "shapes 2") || strings.Contains(line, "bodies") {
		t.Errorf("StatusLine() = %q", line)
	}
}

func TestRenderer_Draw(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	bounds := geom.Bounds{Width: 320, Height: 240}
	r := New(bounds)
	defer r.Close()

	grabbed := uuid.New()
	scenes := map[string]Scene{
		"physics": {
			Mode:          mode.Physics,
			Signal:        gesture.Signal{Detected: true, X: 0.5, Y: 0.5, Pinching: true},
			Bodies:        []physics.Body{{ID: grabbed, Pos: geom.Point{X: 160, Y: 120}, Radius: 30, Grabbed: true, Color: 3}},
			Grabbed:       grabbed,
			ScoringRegion: geom.Rect{MinX: 0.4, MaxX: 0.6, MaxY: 0.1},
			Status:        "physics",
		},
		"drawing": {
			Mode: mode.Drawing,
			Shapes: []drawing.Shape{{
				ID:     uuid.New(),
				Points: []geom.Point{{X: 100, Y: 60}, {X: 260, Y: 60}, {X: 260, Y: 200}, {X: 100, Y: 200}},
			}},
			Preview: drawing.Preview{
				Detected: true,
				Cursor:   geom.Point{X: 200, Y: 200},
				Current:  []geom.Point{{X: 150, Y: 150}, {X: 180, Y: 150}},
			},
		},
	}

	for name, s := range scenes {
		t.Run(name, func(t *testing.T) {
			img := r.Draw(s)
			if img.Cols() != 320 || img.Rows() != 240 {
				t.Fatalf("canvas is %dx%d", img.Cols(), img.Rows())
			}
			// Something other than the background was drawn.
			v := img.GetVecbAt(120, 160)
			if v[0] == background.B && v[1] == background.G && v[2] == background.R {
				t.Error("centre pixel still has the background color")
			}
		})
	}
}

func TestRenderer_DegenerateBounds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	r := New(geom.Bounds{})
	defer r.Close()

	if img := r.Draw(Scene{Mode: mode.Physics}); !img.Empty() {
		t.Error("zero viewport should produce an empty canvas")
	}
}
