// Package mode switches the hand input between the physics sandbox and the
// drawing tool. Exactly one mode is active and only it is stepped.
package mode

import (
	"errors"
	"fmt"

	"github.com/ayusman/zerog/internal/drawing"
	"github.com/ayusman/zerog/internal/event"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/ayusman/zerog/internal/physics"
)

// ErrUnknownMode is returned when a mode name or kind is not recognized.
var ErrUnknownMode = errors.New("unknown mode")

// Kind identifies an interaction mode.
type Kind int

const (
	Physics Kind = iota
	Drawing
)

func (k Kind) String() string {
	switch k {
	case Physics:
		return "physics"
	case Drawing:
		return "drawing"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind converts a mode name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "physics", "gravity":
		return Physics, nil
	case "drawing", "draw":
		return Drawing, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Mode is one interaction mode driven by the per-frame hand signal.
type Mode interface {
	Kind() Kind
	Step(sig gesture.Signal, bounds geom.Bounds) []event.Event
	// Reset restores the mode to its starting state.
	Reset(bounds geom.Bounds)
	// Suspend is called when the mode stops receiving input.
	Suspend()
}

// PhysicsMode adapts a physics.World.
type PhysicsMode struct {
	World *physics.World
}

func (m PhysicsMode) Kind() Kind { return Physics }

func (m PhysicsMode) Step(sig gesture.Signal, bounds geom.Bounds) []event.Event {
	return m.World.Step(sig, bounds)
}

func (m PhysicsMode) Reset(bounds geom.Bounds) { m.World.Reset(bounds) }

// Suspend drops the held body so it does not stay frozen in mid-air.
func (m PhysicsMode) Suspend() { m.World.Release() }

// DrawingMode adapts a drawing.Session.
type DrawingMode struct {
	Session *drawing.Session
}

func (m DrawingMode) Kind() Kind { return Drawing }

func (m DrawingMode) Step(sig gesture.Signal, bounds geom.Bounds) []event.Event {
	return m.Session.Step(sig, bounds)
}

func (m DrawingMode) Reset(geom.Bounds) { m.Session.Clear() }

// Suspend keeps the shape in progress so drawing can resume after a switch.
func (m DrawingMode) Suspend() {}
