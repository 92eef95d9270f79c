package planetwalk

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Planet is a spherical body. Above the surface it pulls with inverse-square
// falloff; inside it pulls linearly toward the center like a uniform sphere.
type Planet struct {
	Name           string     `yaml:"name"`
	Center         mgl32.Vec3 `yaml:"center"`
	Radius         float32    `yaml:"radius"`
	SurfaceGravity float32    `yaml:"surface_gravity"`
	RotationSpeed  float32    `yaml:"rotation_speed"` // rad/s about local Y
	Rotation       mgl32.Quat `yaml:"-"`
}

func NewPlanet(name string, center mgl32.Vec3, radius, surfaceGravity float32) *Planet {
	return &Planet{
		Name:           name,
		Center:         center,
		Radius:         radius,
		SurfaceGravity: surfaceGravity,
		Rotation:       mgl32.QuatIdent(),
	}
}

func (p *Planet) Force(position mgl32.Vec3) mgl32.Vec3 {
	toCenter := p.Center.Sub(position)
	dist := toCenter.Len()
	if dist < 1e-6 || p.Radius <= 0 {
		return mgl32.Vec3{}
	}

	var strength float32
	if dist >= p.Radius {
		ratio := p.Radius / dist
		strength = p.SurfaceGravity * ratio * ratio
	} else {
		strength = p.SurfaceGravity * dist / p.Radius
	}
	return toCenter.Mul(strength / dist)
}

// Spin advances the planet's own rotation. It has no effect on the pull.
func (p *Planet) Spin(dt float32) {
	if p.RotationSpeed == 0 {
		return
	}
	if p.Rotation.Len() == 0 {
		p.Rotation = mgl32.QuatIdent()
	}
	p.Rotation = mgl32.QuatRotate(p.RotationSpeed*dt, WorldUp).Mul(p.Rotation).Normalize()
}

// SurfacePoint returns the point on the surface directly below position.
func (p *Planet) SurfacePoint(position mgl32.Vec3) mgl32.Vec3 {
	out := safeNormalize(position.Sub(p.Center), WorldUp)
	return p.Center.Add(out.Mul(p.Radius))
}

// UniformGravity pulls with the same force everywhere, like a flat world.
type UniformGravity struct {
	Gravity mgl32.Vec3
}

func (u UniformGravity) Force(mgl32.Vec3) mgl32.Vec3 { return u.Gravity }

// Scene is the set of bodies a controller can discover.
type Scene struct {
	Planets   []*Planet
	Platforms []*Platform
	Extra     []GravitySource
}

func (s *Scene) GravitySources() []GravitySource {
	out := make([]GravitySource, 0, len(s.Planets)+len(s.Extra))
	for _, p := range s.Planets {
		out = append(out, p)
	}
	return append(out, s.Extra...)
}

// Update spins every planet.
func (s *Scene) Update(dt float32) {
	for _, p := range s.Planets {
		p.Spin(dt)
	}
}
