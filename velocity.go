package planetwalk

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Actions is the movement input for one tick. Jump and ToggleMode are edges:
// true only on the tick the key went down.
type Actions struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Up       bool
	Down     bool

	Jump       bool
	ToggleMode bool
}

// InputDirection maps held actions onto the axes of basis. The result is not
// normalized. In Walk mode up/down do not move the body.
func InputDirection(basis Basis, in Actions, mode Mode) mgl32.Vec3 {
	dir := mgl32.Vec3{}
	if in.Forward {
		dir = dir.Sub(basis.Z())
	}
	if in.Backward {
		dir = dir.Add(basis.Z())
	}
	if in.Left {
		dir = dir.Sub(basis.X())
	}
	if in.Right {
		dir = dir.Add(basis.X())
	}
	if mode == ModeFly {
		if in.Up {
			dir = dir.Add(basis.Y())
		}
		if in.Down {
			dir = dir.Sub(basis.Y())
		}
	}
	return dir
}

// Integrator advances velocity for one tick. Friction values are the fraction
// of velocity kept after one second, applied as friction^dt.
type Integrator struct {
	WalkSpeed    float32
	FlySpeed     float32
	WalkFriction float32
	FlyFriction  float32
	JumpVelocity float32
}

// IntegrateInput carries everything Step needs besides the current velocity.
type IntegrateInput struct {
	Mode     Mode
	Basis    Basis
	Actions  Actions
	Gravity  GravitySample
	Grounded bool
	Dt       float32
}

func (ig Integrator) Step(velocity mgl32.Vec3, in IntegrateInput) mgl32.Vec3 {
	if in.Dt <= 0 {
		return velocity
	}
	up := in.Gravity.Up
	dir := InputDirection(in.Basis, in.Actions, in.Mode)

	speed := ig.FlySpeed
	if in.Mode == ModeWalk {
		speed = ig.WalkSpeed
		velocity = velocity.Add(in.Gravity.Force.Mul(in.Dt))
		dir = Tangent(dir, up)
	}

	if dir.LenSqr() > 1e-12 {
		velocity = velocity.Add(dir.Normalize().Mul(speed * in.Dt))
	}

	if in.Mode == ModeWalk {
		velocity = ApplyTangentFriction(velocity, up, ig.WalkFriction, in.Dt)
		if in.Actions.Jump && in.Grounded {
			velocity = velocity.Add(up.Mul(ig.JumpVelocity))
		}
	} else {
		velocity = ApplyFriction(velocity, ig.FlyFriction, in.Dt)
	}

	return velocity
}

// Tangent removes the component of v along the unit vector up.
func Tangent(v, up mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(up.Mul(v.Dot(up)))
}

// FrictionFactor is the decay over dt. Two ticks of h give the same factor as
// one tick of 2h.
func FrictionFactor(coefficient, dt float32) float32 {
	if dt <= 0 {
		return 1
	}
	return math32.Pow(mgl32.Clamp(coefficient, 0, 1), dt)
}

func ApplyFriction(v mgl32.Vec3, coefficient, dt float32) mgl32.Vec3 {
	return v.Mul(FrictionFactor(coefficient, dt))
}

// ApplyTangentFriction damps only the part of v tangent to up; the vertical
// part is left to gravity and collision.
func ApplyTangentFriction(v, up mgl32.Vec3, coefficient, dt float32) mgl32.Vec3 {
	vertical := up.Mul(v.Dot(up))
	horizontal := v.Sub(vertical)
	return vertical.Add(horizontal.Mul(FrictionFactor(coefficient, dt)))
}
