// Package tray provides the system tray menu for zerog.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// State is what the menu shows.
type State struct {
	Camera  bool
	Mode    string
	Summary string // tooltip text
}

// Tray is the system tray application.
type Tray struct {
	onCamera func() bool
	onMode   func() string
	onReset  func()
	onQuit   func()
	state    State
	mu       sync.RWMutex

	menuCamera *systray.MenuItem
	menuMode   *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a Tray showing initial until the first SetState.
func New(initial State) *Tray {
	return &Tray{state: initial}
}

// OnCamera sets the callback for the camera item. It returns whether the
// camera is running afterwards.
func (t *Tray) OnCamera(fn func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCamera = fn
}

// OnMode sets the callback for the mode item. It returns the new mode name.
func (t *Tray) OnMode(fn func() string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnReset sets the callback for the reset item.
func (t *Tray) OnReset(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onReset = fn
}

// OnQuit sets the callback for the quit item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit is called and must run on the
// main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops the tray from any goroutine.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("zerog")

	t.mu.Lock()
	st := t.state
	t.menuCamera = systray.AddMenuItem(cameraTitle(st.Camera), "Start or stop hand tracking")
	t.menuMode = systray.AddMenuItem(modeTitle(st.Mode), "Switch between physics and drawing")
	systray.AddSeparator()
	t.menuStatus = systray.AddMenuItem(st.Summary, "Engine status")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.SetTooltip(st.Summary)

	menuReset := systray.AddMenuItem("Reset", "Respawn bodies and clear shapes")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit zerog")

	go func() {
		for {
			select {
			case <-t.menuCamera.ClickedCh:
				t.handleCamera()
			case <-t.menuMode.ClickedCh:
				t.handleMode()
			case <-menuReset.ClickedCh:
				t.handleReset()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleCamera() {
	t.mu.RLock()
	callback := t.onCamera
	t.mu.RUnlock()
	if callback == nil {
		return
	}

	running := callback()

	t.mu.Lock()
	t.state.Camera = running
	t.mu.Unlock()
	t.menuCamera.SetTitle(cameraTitle(running))
}

func (t *Tray) handleMode() {
	t.mu.RLock()
	callback := t.onMode
	t.mu.RUnlock()
	if callback == nil {
		return
	}

	name := callback()

	t.mu.Lock()
	t.state.Mode = name
	t.mu.Unlock()
	t.menuMode.SetTitle(modeTitle(name))
}

func (t *Tray) handleReset() {
	t.mu.RLock()
	callback := t.onReset
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetState refreshes the menu and the tooltip.
func (t *Tray) SetState(st State) {
	t.mu.Lock()
	t.state = st
	ready := t.menuStatus != nil
	t.mu.Unlock()

	if !ready {
		return
	}
	t.menuCamera.SetTitle(cameraTitle(st.Camera))
	t.menuMode.SetTitle(modeTitle(st.Mode))
	t.menuStatus.SetTitle(st.Summary)
	systray.SetTooltip(st.Summary)
}

// State returns what the menu currently shows.
func (t *Tray) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func cameraTitle(running bool) string {
	if running {
		return "● Camera on"
	}
	return "○ Camera off"
}

func modeTitle(name string) string {
	return "Mode: " + name
}
