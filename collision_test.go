package planetwalk

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var floor45 = mgl32.DegToRad(45)

func TestFreeMover(t *testing.T) {
	res := FreeMover.Move(MoveRequest{
		Position: mgl32.Vec3{1, 1, 1},
		Velocity: mgl32.Vec3{2, 0, -4},
		Dt:       0.5,
	})
	assert.Equal(t, mgl32.Vec3{2, 1, -1}, res.Position)
	assert.Equal(t, mgl32.Vec3{2, 0, -4}, res.Velocity)
	assert.False(t, res.Grounded)
}

func TestPlanet_Contact(t *testing.T) {
	p := NewPlanet("p", mgl32.Vec3{}, 10, 9.8)

	_, _, hit := p.Contact(mgl32.Vec3{0, 11, 0}, 0.5)
	assert.False(t, hit)

	normal, depth, hit := p.Contact(mgl32.Vec3{0, 10, 0}, 0.5)
	require.True(t, hit)
	assertVecNear(t, WorldUp, normal, 1e-6)
	assert.InDelta(t, 0.5, depth, 1e-6)
}

func TestSurfaceCollider_LandsOnPlanet(t *testing.T) {
	p := NewPlanet("p", mgl32.Vec3{}, 10, 9.8)
	c := NewSurfaceCollider(0.5, p)

	res := c.Move(MoveRequest{
		Position:      mgl32.Vec3{0, 10.6, 0},
		Velocity:      mgl32.Vec3{1, -6, 0},
		Up:            WorldUp,
		FloorMaxAngle: floor45,
		Dt:            0.1,
	})

	assert.True(t, res.Grounded)
	assert.InDelta(t, 10.5, res.Position.Len(), 1e-4, "pushed back onto the surface")
	assert.GreaterOrEqual(t, res.Velocity.Dot(res.Position.Normalize()), float32(-1e-4), "no velocity into the ground")
	assert.Greater(t, res.Velocity.X(), float32(0.5), "slides along the surface")
}

func TestSurfaceCollider_WallIsNotFloor(t *testing.T) {
	wall := NewPlanet("wall", mgl32.Vec3{0, 0, 0}, 10, 0)
	c := NewSurfaceCollider(0.5, wall)

	res := c.Move(MoveRequest{
		Position:      mgl32.Vec3{10.6, 0, 0},
		Velocity:      mgl32.Vec3{-2, 0, 0},
		Up:            WorldUp,
		FloorMaxAngle: floor45,
		Dt:            0.1,
	})

	assert.False(t, res.Grounded)
	assert.InDelta(t, 10.5, res.Position.X(), 1e-4)
	assert.InDelta(t, 0, res.Velocity.X(), 1e-5)
}

func TestSurfaceCollider_RestingContactIsGrounded(t *testing.T) {
	p := NewPlanet("p", mgl32.Vec3{}, 10, 9.8)
	c := NewSurfaceCollider(0.5, p)

	res := c.Move(MoveRequest{
		Position:      mgl32.Vec3{0, 10.5, 0},
		Up:            WorldUp,
		FloorMaxAngle: floor45,
		Dt:            1.0 / 60,
	})
	assert.True(t, res.Grounded)
	assert.Equal(t, mgl32.Vec3{0, 10.5, 0}, res.Position)

	res = c.Move(MoveRequest{
		Position:      mgl32.Vec3{0, 10.5, 0},
		Velocity:      mgl32.Vec3{0, 3, 0},
		Up:            WorldUp,
		FloorMaxAngle: floor45,
		Dt:            1.0 / 60,
	})
	assert.False(t, res.Grounded, "leaving the ground")
}

func TestSurfaceCollider_NonFiniteVelocity(t *testing.T) {
	c := NewSurfaceCollider(0.5)
	nan := float32(math.NaN())

	res := c.Move(MoveRequest{
		Position: mgl32.Vec3{1, 2, 3},
		Velocity: mgl32.Vec3{nan, 0, 0},
		Up:       WorldUp,
		Dt:       0.1,
	})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, res.Position)
	assert.Equal(t, mgl32.Vec3{}, res.Velocity)
}

func TestSurfacesFromScene(t *testing.T) {
	scene := &Scene{Planets: []*Planet{NewPlanet("a", mgl32.Vec3{}, 1, 1)}}
	assert.Len(t, SurfacesFromScene(scene), 1)
}

func TestPlatform_Contact(t *testing.T) {
	ledge := &Platform{Name: "ledge", Min: mgl32.Vec3{-4, 0, -4}, Max: mgl32.Vec3{4, 1, 4}}

	tests := []struct {
		name       string
		pos        mgl32.Vec3
		wantHit    bool
		wantNormal mgl32.Vec3
		wantDepth  float32
	}{
		{"clear above", mgl32.Vec3{0, 2, 0}, false, mgl32.Vec3{}, 0},
		{"resting on top", mgl32.Vec3{0, 1.4, 0}, true, WorldUp, 0.1},
		{"against the side", mgl32.Vec3{4.3, 0.5, 0}, true, WorldRight, 0.2},
		{"center inside", mgl32.Vec3{0, 0.9, 0}, true, WorldUp, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normal, depth, hit := ledge.Contact(tt.pos, 0.5)
			require.Equal(t, tt.wantHit, hit)
			if !hit {
				return
			}
			assertVecNear(t, tt.wantNormal, normal, 1e-5)
			assert.InDelta(t, tt.wantDepth, depth, 1e-5)
		})
	}
}

func TestSurfaceCollider_StandsOnPlatform(t *testing.T) {
	scene := &Scene{Platforms: []*Platform{{Min: mgl32.Vec3{-4, 0, -4}, Max: mgl32.Vec3{4, 1, 4}}}}
	c := NewSurfaceCollider(0.5, SurfacesFromScene(scene)...)

	res := c.Move(MoveRequest{
		Position:      mgl32.Vec3{0, 1.55, 0},
		Velocity:      mgl32.Vec3{0, -3, 0},
		Up:            WorldUp,
		FloorMaxAngle: floor45,
		Dt:            0.1,
	})
	assert.True(t, res.Grounded)
	assert.InDelta(t, 1.5, res.Position.Y(), 1e-5)
	assert.InDelta(t, 0, res.Velocity.Y(), 1e-5)
}
