package planetwalk

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Snapshot is the state a renderer or physics binding reads after a tick.
type Snapshot struct {
	Mode        Mode
	Position    mgl32.Vec3
	Velocity    mgl32.Vec3
	Orientation Basis
	Up          mgl32.Vec3
	Grounded    bool
}

// Controller moves one body through a field of gravity sources. Look events
// may arrive any number of times between ticks; Step consumes their effect.
// It is not safe for concurrent use.
type Controller struct {
	cfg        ControllerConfig
	look       lookLimits
	integrator Integrator
	gravity    *GravityAggregator
	mover      Mover
	logger     Logger

	state       locomotion
	position    mgl32.Vec3
	velocity    mgl32.Vec3
	orientation Basis
	up          mgl32.Vec3
	grounded    bool
}

type ControllerOption func(c *Controller)

func WithLogger(l Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithPosition(p mgl32.Vec3) ControllerOption {
	return func(c *Controller) { c.position = p }
}

// WithOrientation seeds both bases from the body's initial world frame.
func WithOrientation(b Basis) ControllerOption {
	return func(c *Controller) { c.orientation = b.Orthonormalized() }
}

func WithVelocity(v mgl32.Vec3) ControllerOption {
	return func(c *Controller) { c.velocity = v }
}

func WithMover(m Mover) ControllerOption {
	return func(c *Controller) {
		if m != nil {
			c.mover = m
		}
	}
}

// NewController builds a controller in cfg.StartMode. A nil gravity
// aggregator behaves like an empty one.
func NewController(cfg ControllerConfig, gravity *GravityAggregator, options ...ControllerOption) *Controller {
	if gravity == nil {
		gravity = NewGravityAggregator()
	}
	c := &Controller{
		cfg:         cfg,
		look:        cfg.lookLimits(),
		integrator:  cfg.integrator(),
		gravity:     gravity,
		mover:       FreeMover,
		logger:      NewNopLogger(),
		orientation: IdentityBasis(),
		up:          WorldUp,
	}
	for _, option := range options {
		option(c)
	}

	c.state = newLocomotion(cfg.StartMode, c.orientation)
	if cfg.StartMode == ModeWalk {
		c.warnIfNoGravity()
	}
	return c
}

// Look applies one mouse delta in pixels. Fly mode turns the frame right away;
// Walk mode only accumulates angles until the next tick.
func (c *Controller) Look(dx, dy float32) {
	c.state.look(dx, dy, c.look)
}

// ToggleMode switches between Fly and Walk, handing the world orientation over.
// Velocity is kept.
func (c *Controller) ToggleMode() Mode {
	c.state = transition(c.state, c.orientation)
	c.orientation = c.state.current()
	mode := c.state.mode()
	c.logger.Infof("camera mode: %s", mode)
	if mode == ModeWalk {
		c.warnIfNoGravity()
	}
	return mode
}

func (c *Controller) SetMode(mode Mode) {
	if c.state.mode() != mode {
		c.ToggleMode()
	}
}

// Step runs one physics tick.
func (c *Controller) Step(in Actions, dt float32) Snapshot {
	if in.ToggleMode {
		c.ToggleMode()
	}
	if dt <= 0 {
		return c.Snapshot()
	}

	gravity := c.gravity.Sample(c.position)
	c.up = gravity.Up

	mode := c.state.mode()
	final := c.state.orient(gravity, dt, c.cfg.AlignmentSpeed, c.logger)

	c.velocity = c.integrator.Step(c.velocity, IntegrateInput{
		Mode:     mode,
		Basis:    final,
		Actions:  in,
		Gravity:  gravity,
		Grounded: c.grounded,
		Dt:       dt,
	})

	res := c.mover.Move(MoveRequest{
		Position:      c.position,
		Velocity:      c.velocity,
		Up:            gravity.Up,
		FloorMaxAngle: mgl32.DegToRad(c.cfg.FloorMaxAngle),
		Dt:            dt,
	})
	c.position = res.Position
	c.velocity = res.Velocity
	c.grounded = res.Grounded
	c.orientation = final

	return c.Snapshot()
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Mode:        c.state.mode(),
		Position:    c.position,
		Velocity:    c.velocity,
		Orientation: c.orientation,
		Up:          c.up,
		Grounded:    c.grounded,
	}
}

func (c *Controller) Mode() Mode { return c.state.mode() }
func (c *Controller) Position() mgl32.Vec3 { return c.position }
func (c *Controller) Velocity() mgl32.Vec3 { return c.velocity }
func (c *Controller) Orientation() Basis { return c.orientation }
func (c *Controller) Grounded() bool { return c.grounded }
func (c *Controller) Gravity() *GravityAggregator { return c.gravity }

// LookAngles returns the walk-mode angles; they are zero in Fly mode.
func (c *Controller) LookAngles() LookAngles {
	if w, ok := c.state.(*walkState); ok {
		return w.angles
	}
	return LookAngles{}
}

// ActiveBasis is the basis the current mode mutates: the fly frame or the
// gravity-aligned frame.
func (c *Controller) ActiveBasis() Basis {
	switch s := c.state.(type) {
	case *walkState:
		return s.aligned
	case *flyState:
		return s.basis
	}
	return c.orientation
}

func (c *Controller) warnIfNoGravity() {
	if c.gravity.Len() == 0 {
		c.logger.Warnf("walk mode selected with no gravity sources, moving as free fall")
	}
}
