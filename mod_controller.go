package planetwalk

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ControllerView is what renderers read: the state after the last tick plus
// how far the frame has progressed toward the next one.
type ControllerView struct {
	Snapshot
	Alpha float32
}

// pendingEdges keeps key-down edges until a physics tick consumes them, since
// a frame can run no tick at all.
type pendingEdges struct {
	jump bool
}

// ControllerModule runs one controller. TimeModule, InputModule and
// GravityModule must be installed before it.
type ControllerModule struct {
	Config      ControllerConfig
	Position    mgl32.Vec3
	Orientation Basis
	// Mover resolves collisions; FreeMover when nil.
	Mover Mover
}

func (m ControllerModule) Install(app *App, cmd *Commands) {
	requireResource[Time](app, "ControllerModule", "TimeModule")
	requireResource[Input](app, "ControllerModule", "InputModule")
	requireResource[Bindings](app, "ControllerModule", "InputModule")
	gravity := requireResource[GravityAggregator](app, "ControllerModule", "GravityModule")

	orientation := m.Orientation
	if orientation == (Basis{}) {
		orientation = IdentityBasis()
	}
	ctrl := NewController(m.Config, gravity,
		WithLogger(app.Logger()),
		WithPosition(m.Position),
		WithOrientation(orientation),
		WithMover(m.Mover),
	)

	cmd.AddResources(ctrl, &ControllerView{Snapshot: ctrl.Snapshot()}, &pendingEdges{})

	app.UseSystem(
		System(controllerInputSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(controllerTickSystem).
			InStage(Physics),
	)
	app.UseSystem(
		System(controllerViewSystem).
			InStage(PostUpdate),
	)
}

// controllerInputSystem applies every look event of the frame before any tick
// runs, and handles the mode toggle at event time.
func controllerInputSystem(input *Input, bindings *Bindings, ctrl *Controller, edges *pendingEdges) {
	for _, ev := range input.DrainLook() {
		ctrl.Look(ev.DX, ev.DY)
	}
	if input.JustPressed[bindings.ToggleMode] {
		ctrl.ToggleMode()
	}
	if input.JustPressed[bindings.Up] {
		edges.jump = true
	}
}

func controllerTickSystem(input *Input, bindings *Bindings, ctrl *Controller, edges *pendingEdges, t *Time) {
	actions := bindings.Held(input)
	actions.Jump = edges.jump
	edges.jump = false

	ctrl.Step(actions, t.FixedSeconds())
}

func controllerViewSystem(ctrl *Controller, view *ControllerView, t *Time) {
	view.Snapshot = ctrl.Snapshot()
	view.Alpha = t.Alpha()
}
