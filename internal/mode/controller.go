package mode

import (
	"fmt"

	"github.com/ayusman/zerog/internal/drawing"
	"github.com/ayusman/zerog/internal/event"
	"github.com/ayusman/zerog/internal/geom"
	"github.com/ayusman/zerog/internal/gesture"
	"github.com/ayusman/zerog/internal/physics"
)

// Status is a snapshot of the controller for display.
type Status struct {
	Mode   Kind `json:"mode"`
	Bodies int  `json:"bodies"`
	Shapes int  `json:"shapes"`
}

// Controller owns both modes and routes each frame to the active one.
// It is not safe for concurrent use; callers serialize Step with reads.
type Controller struct {
	world   *physics.World
	session *drawing.Session

	modes  map[Kind]Mode
	active Kind
}

// NewController creates a controller with initial as the active mode.
func NewController(world *physics.World, session *drawing.Session, initial Kind) (*Controller, error) {
	c := &Controller{
		world:   world,
		session: session,
		modes: map[Kind]Mode{
			Physics: PhysicsMode{World: world},
			Drawing: DrawingMode{Session: session},
		},
	}
	if _, ok := c.modes[initial]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, initial)
	}
	c.active = initial
	return c, nil
}

// Active returns the kind of the active mode.
func (c *Controller) Active() Kind {
	return c.active
}

// Switch makes k the active mode. The outgoing mode is suspended.
func (c *Controller) Switch(k Kind) error {
	if _, ok := c.modes[k]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownMode, k)
	}
	if k == c.active {
		return nil
	}
	c.modes[c.active].Suspend()
	c.active = k
	return nil
}

// Toggle flips between physics and drawing and returns the new mode.
func (c *Controller) Toggle() Kind {
	next := Drawing
	if c.active == Drawing {
		next = Physics
	}
	// Both kinds are registered.
	_ = c.Switch(next)
	return c.active
}

// Step runs one frame of the active mode.
func (c *Controller) Step(sig gesture.Signal, bounds geom.Bounds) []event.Event {
	return c.modes[c.active].Step(sig, bounds)
}

// Reset re-seeds the world and clears the drawing, whichever mode is active.
func (c *Controller) Reset(bounds geom.Bounds) {
	for _, m := range c.modes {
		m.Reset(bounds)
	}
}

// World returns the physics world for rendering.
func (c *Controller) World() *physics.World {
	return c.world
}

// Session returns the drawing session for rendering.
func (c *Controller) Session() *drawing.Session {
	return c.session
}

// Status returns a snapshot of the active mode and content counts.
func (c *Controller) Status() Status {
	return Status{
		Mode:   c.active,
		Bodies: c.world.Len(),
		Shapes: len(c.session.Shapes()),
	}
}
