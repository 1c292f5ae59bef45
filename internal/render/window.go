package render

import "gocv.io/x/gocv"

// Action is a keyboard command from the preview window.
type Action int

const (
	ActionNone Action = iota
	ActionToggleMode
	ActionReset
	ActionToggleCamera
	ActionQuit
)

const keyEsc = 27

// KeyAction maps a key code from WaitKey to an Action.
func KeyAction(key int) Action {
	if key < 0 {
		return ActionNone
	}
	switch key & 0xFF {
	case 'm', 'M':
		return ActionToggleMode
	case 'r', 'R':
		return ActionReset
	case 'c', 'C':
		return ActionToggleCamera
	case 'q', 'Q', keyEsc:
		return ActionQuit
	}
	return ActionNone
}

// Window shows rendered frames and reports key presses.
type Window struct {
	win *gocv.Window
}

// NewWindow opens a named OpenCV window.
func NewWindow(title string) *Window {
	return &Window{win: gocv.NewWindow(title)}
}

// Show displays img and polls the keyboard for up to 1ms.
func (w *Window) Show(img *gocv.Mat) Action {
	w.win.IMShow(*img)
	return KeyAction(w.win.WaitKey(1))
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}
