package planetwalk

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testIntegrator() Integrator {
	return DefaultControllerConfig().integrator()
}

func TestInputDirection_ForwardIsMinusZ(t *testing.T) {
	dir := InputDirection(IdentityBasis(), Actions{Forward: true}, ModeWalk)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, dir)

	dir = InputDirection(IdentityBasis(), Actions{Forward: true, Right: true}, ModeFly)
	assert.Equal(t, mgl32.Vec3{1, 0, -1}, dir)

	dir = InputDirection(IdentityBasis(), Actions{Forward: true, Backward: true}, ModeFly)
	assert.Equal(t, mgl32.Vec3{}, dir)
}

func TestInputDirection_UpDownOnlyInFly(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, InputDirection(IdentityBasis(), Actions{Up: true}, ModeFly))
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, InputDirection(IdentityBasis(), Actions{Down: true}, ModeFly))
	assert.Equal(t, mgl32.Vec3{}, InputDirection(IdentityBasis(), Actions{Up: true, Down: true}, ModeWalk))
}

func TestIntegrator_FlyThrust(t *testing.T) {
	ig := testIntegrator()
	v := ig.Step(mgl32.Vec3{}, IntegrateInput{
		Mode:    ModeFly,
		Basis:   IdentityBasis(),
		Actions: Actions{Forward: true},
		Gravity: SampleFromForce(mgl32.Vec3{0, -9.8, 0}),
		Dt:      0.1,
	})

	want := mgl32.Vec3{0, 0, -ig.FlySpeed * 0.1 * FrictionFactor(ig.FlyFriction, 0.1)}
	assertVecNear(t, want, v, 1e-4, "fly ignores gravity")
}

func TestIntegrator_WalkGravityIsUndamped(t *testing.T) {
	ig := testIntegrator()
	v := ig.Step(mgl32.Vec3{}, IntegrateInput{
		Mode:    ModeWalk,
		Basis:   IdentityBasis(),
		Gravity: SampleFromForce(mgl32.Vec3{0, -10, 0}),
		Dt:      0.1,
	})
	assertVecNear(t, mgl32.Vec3{0, -1, 0}, v, 1e-6)
}

func TestIntegrator_WalkInputStaysOnTangentPlane(t *testing.T) {
	ig := testIntegrator()
	lookingDown := BasisFromQuat(mgl32.QuatRotate(-math.Pi/4, WorldRight))

	v := ig.Step(mgl32.Vec3{}, IntegrateInput{
		Mode:    ModeWalk,
		Basis:   lookingDown,
		Actions: Actions{Forward: true},
		Gravity: SampleFromForce(mgl32.Vec3{}),
		Dt:      0.1,
	})

	assert.InDelta(t, 0, v.Y(), 1e-6, "no vertical thrust from looking down")
	want := -ig.WalkSpeed * 0.1 * FrictionFactor(ig.WalkFriction, 0.1)
	assert.InDelta(t, want, v.Z(), 1e-4, "full speed along the ground")
}

func TestIntegrator_Jump(t *testing.T) {
	ig := testIntegrator()
	in := IntegrateInput{
		Mode:     ModeWalk,
		Basis:    IdentityBasis(),
		Actions:  Actions{Jump: true},
		Gravity:  SampleFromForce(mgl32.Vec3{-9.8, 0, 0}),
		Grounded: true,
		Dt:       1.0 / 60,
	}

	v := ig.Step(mgl32.Vec3{}, in)
	assert.InDelta(t, ig.JumpVelocity-9.8/60, v.X(), 1e-4, "jump goes along local up")

	in.Grounded = false
	v = ig.Step(mgl32.Vec3{}, in)
	assert.InDelta(t, -9.8/60, v.X(), 1e-5, "no jump in the air")

	in.Grounded = true
	in.Mode = ModeFly
	v = ig.Step(mgl32.Vec3{}, in)
	assert.Equal(t, mgl32.Vec3{}, v, "no jump while flying")
}

func TestIntegrator_ZeroGravityWalk(t *testing.T) {
	ig := testIntegrator()
	v := ig.Step(mgl32.Vec3{}, IntegrateInput{
		Mode:    ModeWalk,
		Basis:   IdentityBasis(),
		Gravity: NewGravityAggregator().Sample(mgl32.Vec3{}),
		Dt:      1.0 / 60,
	})
	assert.Equal(t, mgl32.Vec3{}, v)
}

func TestIntegrator_NonPositiveDt(t *testing.T) {
	ig := testIntegrator()
	start := mgl32.Vec3{1, 2, 3}
	v := ig.Step(start, IntegrateInput{Mode: ModeFly, Basis: IdentityBasis(), Actions: Actions{Forward: true}})
	assert.Equal(t, start, v)
}

func TestFrictionFactor_FrameRateIndependent(t *testing.T) {
	for _, c := range []float32{0.02, 0.03, 0.5, 0.99} {
		for _, h := range []float32{1.0 / 240, 1.0 / 60, 1.0 / 30, 0.25} {
			one := FrictionFactor(c, 2*h)
			two := FrictionFactor(c, h) * FrictionFactor(c, h)
			if math.Abs(float64(one-two)) > 1e-5 {
				t.Errorf("friction %v: one step of %v gives %v, two steps of %v give %v", c, 2*h, one, h, two)
			}
		}
	}
}

func TestFrictionFactor_Edges(t *testing.T) {
	assert.Equal(t, float32(1), FrictionFactor(0.5, 0))
	assert.Equal(t, float32(1), FrictionFactor(1, 0.3))
	assert.Equal(t, float32(0), FrictionFactor(0, 0.3))
	assert.Equal(t, float32(1), FrictionFactor(1.7, 0.3), "coefficient clamped to 1")
	assert.InDelta(t, 0.5, FrictionFactor(0.5, 1), 1e-6)
}

func TestApplyTangentFriction(t *testing.T) {
	v := ApplyTangentFriction(mgl32.Vec3{3, 4, 0}, WorldUp, 0.5, 1)
	assertVecNear(t, mgl32.Vec3{1.5, 4, 0}, v, 1e-6)

	v = ApplyFriction(mgl32.Vec3{3, 4, 0}, 0.5, 1)
	assertVecNear(t, mgl32.Vec3{1.5, 2, 0}, v, 1e-6)
}

func TestTangent(t *testing.T) {
	assertVecNear(t, mgl32.Vec3{1, 0, 2}, Tangent(mgl32.Vec3{1, 5, 2}, WorldUp), 1e-6)
}
