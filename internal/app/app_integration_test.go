package app

import (
	"encoding/json"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/zerog/internal/capture"
	"github.com/ayusman/zerog/internal/detector"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/physics"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestApp_CameraPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Alternating frames keep the motion gate active. The frames are closed
	// after the app, which stops the pipeline reading them.
	dark := capture.SolidFrame(640, 480, color.RGBA{A: 255})
	t.Cleanup(func() { dark.Close() })
	light := capture.SolidFrame(640, 480, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	t.Cleanup(func() { light.Close() })
	cam := capture.NewMockCamera([]*gocv.Mat{&dark, &light}, true)

	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.MoveTo(detector.PinchLandmarks(), 0.5, 0.5)})

	cfg := testConfig()
	cfg.Capture.IdleFPS = 20
	cfg.Capture.ActiveFPS = 50
	a := newTestApp(t, Options{Config: cfg, Camera: cam, Detector: det})

	world := a.Controller().World()
	id := world.Add(physics.Body{Pos: geom.Point{X: 400, Y: 300}, Radius: 30})

	if err := a.StartCamera(); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	waitFor(t, "a pinching hand", func() bool {
		st := a.Status()
		return st.Hand && st.Pinching
	})
	if det.Calls() == 0 {
		t.Error("detector never ran")
	}
	if cam.FPS() != cfg.Capture.ActiveFPS {
		t.Errorf("camera FPS = %d, want active rate %d", cam.FPS(), cfg.Capture.ActiveFPS)
	}

	a.Tick()
	if world.Grabbed() != id {
		t.Errorf("Grabbed() = %v, want the body under the pinch", world.Grabbed())
	}

	a.StopCamera()
	a.Tick()
	if world.Grabbed() != uuid.Nil {
		t.Error("stopping the camera should release the grab on the next tick")
	}
}

func TestApp_DetectorErrorsAreAbsorbed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dark := capture.SolidFrame(320, 240, color.RGBA{A: 255})
	t.Cleanup(func() { dark.Close() })
	light := capture.SolidFrame(320, 240, color.RGBA{R: 255, A: 255})
	t.Cleanup(func() { light.Close() })
	cam := capture.NewMockCamera([]*gocv.Mat{&dark, &light}, true)

	det := detector.NewMockDetector()
	det.SetError(errors.New("inference failed"))

	cfg := testConfig()
	cfg.Capture.IdleFPS = 20
	cfg.Capture.ActiveFPS = 50
	a := newTestApp(t, Options{Config: cfg, Camera: cam, Detector: det})

	if err := a.StartCamera(); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	waitFor(t, "detector calls", func() bool { return det.Calls() >= 3 })

	if a.Status().Hand {
		t.Error("a failing detector must not publish a hand")
	}
	a.Tick()
}

func TestApp_FeedSource(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	upgrader := websocket.Upgrader{}
	hand := detector.MoveTo(detector.PinchLandmarks(), 0.25, 0.5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		msg, _ := json.Marshal(map[string]any{"hands": []detector.HandLandmarks{hand}})
		for {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
			time.Sleep(20 * time.Millisecond)
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Capture.FeedURL = "ws" + strings.TrimPrefix(srv.URL, "http")
	a := newTestApp(t, Options{Config: cfg})

	if err := a.StartCamera(); err != nil {
		t.Fatalf("StartCamera() error = %v", err)
	}
	waitFor(t, "a hand from the feed", func() bool { return a.Status().Hand })

	sig, _ := a.Latest().Load()
	// Landmarks are mirrored: x=0.25 in the feed is x=0.75 on screen.
	if sig.X < 0.74 || sig.X > 0.76 {
		t.Errorf("X = %v, want ~0.75", sig.X)
	}

	a.StopCamera()
	if a.Status().Hand {
		t.Error("hand still reported after stopping the feed")
	}
}
