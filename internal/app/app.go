// Package app wires the gesture source, the interaction modes, the renderer
// and the event hooks into one running engine.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ayusman/zerog/internal/capture"
	"github.com/ayusman/zerog/internal/config"
	"github.com/ayusman/zerog/internal/detector"
	"github.com/ayusman/zerog/internal/drawing"
	"github.com/ayusman/zerog/internal/event"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/ayusman/zerog/internal/mode"
	"github.com/ayusman/zerog/internal/physics"
	"github.com/ayusman/zerog/internal/plugin"
	"github.com/ayusman/zerog/internal/render"
	"github.com/ayusman/zerog/internal/store"
	"github.com/google/uuid"
	"gocv.io/x/gocv"
)

// ErrQuit is returned by Run when the user quits from the preview window.
var ErrQuit = errors.New("quit requested")

// Options holds everything New needs. Only Config is required.
type Options struct {
	Config config.Config

	// Store records hook runs. Nil disables the history.
	Store     *store.Store
	PluginDir string

	// Camera and Detector override the device camera and the MediaPipe
	// detector, mainly for tests.
	Camera   capture.Camera
	Detector detector.Detector

	Rand *rand.Rand
	Mode mode.Kind
}

// Status is a snapshot of the engine for the tray and the overlay.
type Status struct {
	Camera   bool      `json:"camera"`
	Hand     bool      `json:"hand"`
	Pinching bool      `json:"pinching"`
	Mode     mode.Kind `json:"mode"`
	Bodies   int       `json:"bodies"`
	Shapes   int       `json:"shapes"`
}

// String renders the status as the overlay line.
func (s Status) String() string {
	sig := gesture.Signal{Detected: s.Hand, Pinching: s.Pinching}
	return render.StatusLine(s.Mode, s.Camera, sig, s.Bodies, s.Shapes)
}

// App is the running engine. The gesture source publishes into latest from
// its own goroutine; everything else is driven by Tick.
type App struct {
	config config.Config

	camera   capture.Camera
	motion   *capture.MotionDetector
	gate     *capture.Gate
	detector detector.Detector
	reducer  *detector.Reducer
	latest   gesture.Latest

	pluginMgr  *plugin.Manager
	dispatcher *plugin.Dispatcher
	hooksCtx   context.Context
	stopHooks  context.CancelFunc

	mu         sync.Mutex
	controller *mode.Controller
	bounds     geom.Bounds
	renderer   *render.Renderer

	// Gesture source lifecycle. stopSource is nil while the source is off.
	stopSource func()
	sourceDone chan struct{}
}

// New builds an App from opts. The gesture source starts stopped.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	bounds := cfg.Bounds()
	world := physics.NewWorld(physicsConfig(cfg.Physics), opts.Rand)
	session := drawing.NewSession(cfg.Drawing.SnapDistance)
	controller, err := mode.NewController(world, session, opts.Mode)
	if err != nil {
		return nil, err
	}
	controller.Reset(bounds)

	cam := opts.Camera
	if cam == nil {
		cam = capture.NewCamera(capture.Options{
			DeviceID: cfg.Capture.CameraID,
			Width:    640,
			Height:   480,
			FPS:      cfg.Capture.IdleFPS,
		})
	}

	det := opts.Detector
	if det == nil && cfg.Capture.FeedURL == "" {
		dcfg := detector.DefaultConfig()
		dcfg.MaxHands = cfg.Gesture.MaxHands
		dcfg.MinConfidence = cfg.Gesture.MinConfidence
		if mp, err := detector.NewMediaPipeDetector(dcfg); err == nil {
			det = mp
			log.Println("Using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			det = detector.NewMockDetector()
		}
	}

	var recorder plugin.Recorder
	if opts.Store != nil {
		recorder = opts.Store.HookRuns()
	}
	mgr := plugin.NewManager(opts.PluginDir)
	if opts.PluginDir != "" {
		if err := mgr.Discover(); err != nil {
			log.Printf("Plugin discovery failed: %v", err)
		}
	}
	hooksCtx, stopHooks := context.WithCancel(context.Background())

	a := &App{
		config:     cfg,
		camera:     cam,
		motion:     capture.NewMotionDetector(cfg.Capture.MotionThresh),
		gate:       capture.NewGate(cfg.Capture.IdleFPS, cfg.Capture.ActiveFPS, cfg.Capture.IdleTimeout),
		detector:   det,
		reducer:    detector.NewReducer(cfg.Gesture.PinchThreshold, cfg.Gesture.MinConfidence),
		pluginMgr:  mgr,
		dispatcher: plugin.NewDispatcher(mgr, plugin.NewExecutor(plugin.DefaultTimeout), uuid.New(), recorder),
		hooksCtx:   hooksCtx,
		stopHooks:  stopHooks,
		controller: controller,
		bounds:     bounds,
	}
	if cfg.Display.Window {
		a.renderer = render.New(bounds)
	}
	return a, nil
}

func physicsConfig(c config.PhysicsConfig) physics.Config {
	return physics.Config{
		Params: physics.Params{
			Gravity:     c.Gravity,
			Friction:    c.Friction,
			Restitution: c.Restitution,
			Jitter:      c.Jitter,
		},
		BodyCount:     c.BodyCount,
		MinRadius:     c.MinRadius,
		MaxRadius:     c.MaxRadius,
		GrabMargin:    c.GrabMargin,
		GrabStiffness: c.GrabStiffness,
		ThrowScale:    c.ThrowScale,
		ScoringRegion: c.ScoringRegion,
	}
}

// StartCamera starts the gesture source: the websocket feed when one is
// configured, the local camera pipeline otherwise.
func (a *App) StartCamera() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopSource != nil {
		return nil
	}

	done := make(chan struct{})
	if url := a.config.Capture.FeedURL; url != "" {
		ctx, cancel := context.WithCancel(context.Background())
		go a.runFeed(ctx, url, done)
		a.stopSource = cancel
		a.sourceDone = done
		log.Printf("Landmark feed started: %s", url)
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start camera: %w", err)
	}
	a.gate.Reset()
	a.motion.Reset()
	a.camera.SetFPS(a.gate.FPS())

	stopCh := make(chan struct{})
	go a.runPipeline(stopCh, done)
	a.stopSource = func() { close(stopCh) }
	a.sourceDone = done

	log.Println("Detection pipeline started")
	return nil
}

// StopCamera halts the gesture source and publishes "no hand" so the modes
// release whatever they were holding on the next tick.
func (a *App) StopCamera() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopCameraLocked()
}

func (a *App) stopCameraLocked() {
	if a.stopSource == nil {
		return
	}
	a.stopSource()
	<-a.sourceDone
	a.stopSource = nil
	a.sourceDone = nil

	if a.config.Capture.FeedURL == "" {
		if err := a.camera.Close(); err != nil {
			log.Printf("Error closing camera: %v", err)
		}
	}
	a.latest.Clear()
	log.Println("Detection pipeline stopped")
}

// CameraRunning reports whether the gesture source is on.
func (a *App) CameraRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopSource != nil
}

// ToggleCamera flips the gesture source and returns the new state.
func (a *App) ToggleCamera() (bool, error) {
	if a.CameraRunning() {
		a.StopCamera()
		return false, nil
	}
	if err := a.StartCamera(); err != nil {
		return false, err
	}
	return true, nil
}

// SetMode switches the active interaction mode.
func (a *App) SetMode(k mode.Kind) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.controller.Switch(k); err != nil {
		return err
	}
	log.Printf("Switched to %s mode", k)
	return nil
}

// ToggleMode flips between physics and drawing and returns the new mode.
func (a *App) ToggleMode() mode.Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	k := a.controller.Toggle()
	log.Printf("Switched to %s mode", k)
	return k
}

// Mode returns the active interaction mode.
func (a *App) Mode() mode.Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.controller.Active()
}

// Reset respawns the bodies and clears every drawn shape.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.controller.Reset(a.bounds)
	log.Println("Scene reset")
}

// Resize changes the viewport. Bodies and shapes keep their coordinates; the
// next physics step clamps bodies back inside the walls.
func (a *App) Resize(bounds geom.Bounds) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bounds = bounds
	if a.renderer != nil {
		a.renderer.Resize(bounds)
	}
}

// Bounds returns the current viewport.
func (a *App) Bounds() geom.Bounds {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bounds
}

// Status returns a snapshot of the engine.
func (a *App) Status() Status {
	sig, _ := a.latest.Load()
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.statusLocked(sig)
}

func (a *App) statusLocked(sig gesture.Signal) Status {
	cs := a.controller.Status()
	return Status{
		Camera:   a.stopSource != nil,
		Hand:     sig.Detected,
		Pinching: sig.Pinching,
		Mode:     cs.Mode,
		Bodies:   cs.Bodies,
		Shapes:   cs.Shapes,
	}
}

// Latest exposes the signal slot the gesture source publishes into.
func (a *App) Latest() *gesture.Latest {
	return &a.latest
}

// Controller returns the mode controller. Callers must not step it while
// the frame loop is running.
func (a *App) Controller() *mode.Controller {
	return a.controller
}

// Plugins returns the plugin manager.
func (a *App) Plugins() *plugin.Manager {
	return a.pluginMgr
}

// Tick runs one frame: it takes the latest signal, steps the active mode
// once and hands the resulting events to the plugin hooks.
func (a *App) Tick() []event.Event {
	sig, _ := a.latest.Load()

	a.mu.Lock()
	events := a.controller.Step(sig, a.bounds)
	active := a.controller.Active()
	a.mu.Unlock()

	for _, e := range events {
		switch e.Kind {
		case event.KindAllCleared:
			log.Println("All bodies cleared")
		case event.KindShapeCommitted:
			log.Printf("Shape %s committed with %d points", e.ShapeID, len(e.Shape))
		}
		a.dispatcher.Dispatch(a.hooksCtx, e, active.String())
	}
	return events
}

// Frame renders the current state into a new Mat the caller must Close. It
// returns nil when the app has no preview window.
func (a *App) Frame() *gocv.Mat {
	sig, _ := a.latest.Load()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.renderer == nil {
		return nil
	}
	frame := a.drawLocked(sig).Clone()
	return &frame
}

// present draws and shows one frame. The canvas belongs to the renderer, so
// it is shown before a Resize can release it.
func (a *App) present(win *render.Window) render.Action {
	sig, _ := a.latest.Load()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.renderer == nil {
		return render.ActionNone
	}
	return win.Show(a.drawLocked(sig))
}

func (a *App) drawLocked(sig gesture.Signal) *gocv.Mat {
	st := a.statusLocked(sig)
	world := a.controller.World()
	session := a.controller.Session()
	return a.renderer.Draw(render.Scene{
		Mode:          st.Mode,
		Signal:        sig,
		Bodies:        world.Bodies(),
		Grabbed:       world.Grabbed(),
		ScoringRegion: world.Config().ScoringRegion,
		Shapes:        session.Shapes(),
		Preview:       session.Preview(),
		Status:        st.String(),
	})
}

// Run drives the frame clock until ctx is done or the user quits from the
// preview window.
func (a *App) Run(ctx context.Context) error {
	var win *render.Window
	if a.config.Display.Window {
		win = render.NewWindow("zerog")
		defer win.Close()
	}

	ticker := time.NewTicker(time.Second / time.Duration(a.config.Display.FrameFPS))
	defer ticker.Stop()

	log.Println("Frame loop started")
	defer log.Println("Frame loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			a.Tick()
			if win == nil {
				continue
			}
			if err := a.handle(a.present(win)); err != nil {
				return err
			}
		}
	}
}

func (a *App) handle(action render.Action) error {
	switch action {
	case render.ActionToggleMode:
		a.ToggleMode()
	case render.ActionReset:
		a.Reset()
	case render.ActionToggleCamera:
		if _, err := a.ToggleCamera(); err != nil {
			log.Printf("Camera toggle failed: %v", err)
		}
	case render.ActionQuit:
		return ErrQuit
	}
	return nil
}

// WaitHooks blocks until every running plugin hook has finished.
func (a *App) WaitHooks() {
	a.dispatcher.Wait()
}

// Close stops the gesture source, waits for running hooks and releases
// every native resource.
func (a *App) Close() {
	a.mu.Lock()
	a.stopCameraLocked()
	a.mu.Unlock()

	a.dispatcher.Wait()
	a.stopHooks()

	a.motion.Close()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.mu.Lock()
	if a.renderer != nil {
		a.renderer.Close()
		a.renderer = nil
	}
	a.mu.Unlock()
}
