package planetwalk

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// MoveRequest asks a collision backend to move the body for one tick.
type MoveRequest struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	// Up decides which contacts count as floor.
	Up            mgl32.Vec3
	FloorMaxAngle float32 // radians
	Dt            float32
}

// MoveResult is where the body ended up and the velocity left after sliding.
type MoveResult struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Grounded bool
}

// Mover resolves movement against the world. The controller treats it as a
// pure function of the request.
type Mover interface {
	Move(req MoveRequest) MoveResult
}

type MoverFunc func(req MoveRequest) MoveResult

func (f MoverFunc) Move(req MoveRequest) MoveResult { return f(req) }

// FreeMover integrates position with nothing to collide with.
var FreeMover = MoverFunc(func(req MoveRequest) MoveResult {
	return MoveResult{
		Position: req.Position.Add(req.Velocity.Mul(req.Dt)),
		Velocity: req.Velocity,
	}
})

// Surface is something a sphere can rest on.
type Surface interface {
	// Contact returns the push-out normal and depth for a sphere at p.
	Contact(p mgl32.Vec3, radius float32) (normal mgl32.Vec3, depth float32, hit bool)
}

func (p *Planet) Contact(pos mgl32.Vec3, radius float32) (mgl32.Vec3, float32, bool) {
	out := pos.Sub(p.Center)
	dist := out.Len()
	depth := p.Radius + radius - dist
	if depth <= 0 {
		return mgl32.Vec3{}, 0, false
	}
	if dist < 1e-6 {
		return WorldUp, depth, true
	}
	return out.Mul(1 / dist), depth, true
}

// Platform is a solid axis-aligned block with no pull of its own.
type Platform struct {
	Name string     `yaml:"name"`
	Min  mgl32.Vec3 `yaml:"min"`
	Max  mgl32.Vec3 `yaml:"max"`
}

func (p *Platform) Box() cube.BBox {
	return cube.Box(p.Min[0], p.Min[1], p.Min[2], p.Max[0], p.Max[1], p.Max[2])
}

func (p *Platform) Contact(pos mgl32.Vec3, radius float32) (mgl32.Vec3, float32, bool) {
	box := p.Box()
	lo, hi := box.Min(), box.Max()

	closest := mgl32.Vec3{
		mgl32.Clamp(pos[0], lo[0], hi[0]),
		mgl32.Clamp(pos[1], lo[1], hi[1]),
		mgl32.Clamp(pos[2], lo[2], hi[2]),
	}
	out := pos.Sub(closest)
	if dist := out.Len(); dist > 1e-6 {
		depth := radius - dist
		if depth <= 0 {
			return mgl32.Vec3{}, 0, false
		}
		return out.Mul(1 / dist), depth, true
	}

	// Center inside the block: leave through the nearest face.
	var normal mgl32.Vec3
	best := float32(math32.MaxFloat32)
	for i := 0; i < 3; i++ {
		if d := pos[i] - lo[i]; d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = -1
		}
		if d := hi[i] - pos[i]; d < best {
			best = d
			normal = mgl32.Vec3{}
			normal[i] = 1
		}
	}
	return normal, best + radius, true
}

// SurfaceCollider moves a sphere and slides it along every surface it hits.
type SurfaceCollider struct {
	Radius   float32
	Surfaces []Surface
	// Skin is how far below the body a surface still counts as touching.
	Skin float32
	// MaxPasses bounds depenetration when several surfaces overlap the body.
	MaxPasses int
}

func NewSurfaceCollider(radius float32, surfaces ...Surface) *SurfaceCollider {
	return &SurfaceCollider{
		Radius:    radius,
		Surfaces:  surfaces,
		Skin:      0.02,
		MaxPasses: 4,
	}
}

// SurfacesFromScene collects every planet and platform of the scene.
func SurfacesFromScene(scene *Scene) []Surface {
	out := make([]Surface, 0, len(scene.Planets)+len(scene.Platforms))
	for _, p := range scene.Planets {
		out = append(out, p)
	}
	for _, p := range scene.Platforms {
		out = append(out, p)
	}
	return out
}

func (c *SurfaceCollider) Move(req MoveRequest) MoveResult {
	vel := req.Velocity
	if !finite(vel) {
		vel = mgl32.Vec3{}
	}
	pos := req.Position.Add(vel.Mul(req.Dt))

	up := safeNormalize(req.Up, WorldUp)
	minFloorDot := math32.Cos(req.FloorMaxAngle)
	grounded := false

	passes := c.MaxPasses
	if passes <= 0 {
		passes = 1
	}
	for pass := 0; pass < passes; pass++ {
		resolved := true
		for _, s := range c.Surfaces {
			normal, depth, hit := s.Contact(pos, c.Radius)
			if !hit {
				continue
			}
			resolved = false
			pos = pos.Add(normal.Mul(depth))

			// Kill the part of the velocity going into the surface.
			if into := vel.Dot(normal); into < 0 {
				vel = vel.Sub(normal.Mul(into))
			}
			if normal.Dot(up) >= minFloorDot {
				grounded = true
			}
		}
		if resolved {
			break
		}
	}

	// Resting contact produces no penetration once settled, so probe slightly
	// below the body as well.
	if !grounded && c.Skin > 0 {
		for _, s := range c.Surfaces {
			normal, _, hit := s.Contact(pos, c.Radius+c.Skin)
			if hit && normal.Dot(up) >= minFloorDot && vel.Dot(normal) <= 0 {
				grounded = true
				break
			}
		}
	}

	return MoveResult{Position: pos, Velocity: vel, Grounded: grounded}
}
