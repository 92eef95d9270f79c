package planetwalk

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Basis is an orientation frame stored column-major: X is local right,
// Y is local up and Z points backwards (forward is -Z).
type Basis mgl32.Mat3

var (
	WorldUp      = mgl32.Vec3{0, 1, 0}
	WorldRight   = mgl32.Vec3{1, 0, 0}
	WorldForward = mgl32.Vec3{0, 0, -1}
)

func IdentityBasis() Basis {
	return Basis(mgl32.Ident3())
}

func BasisFromAxes(x, y, z mgl32.Vec3) Basis {
	return Basis(mgl32.Mat3FromCols(x, y, z))
}

func BasisFromQuat(q mgl32.Quat) Basis {
	return Basis(q.Normalize().Mat4().Mat3())
}

func (b Basis) X() mgl32.Vec3 { return mgl32.Mat3(b).Col(0) }
func (b Basis) Y() mgl32.Vec3 { return mgl32.Mat3(b).Col(1) }
func (b Basis) Z() mgl32.Vec3 { return mgl32.Mat3(b).Col(2) }

// Forward is the direction the frame looks at.
func (b Basis) Forward() mgl32.Vec3 { return b.Z().Mul(-1) }

// Rotated returns q applied to every axis of b.
func (b Basis) Rotated(q mgl32.Quat) Basis {
	return Basis(mgl32.Mat3(BasisFromQuat(q)).Mul3(mgl32.Mat3(b)))
}

// Turn rotates the frame and removes the drift the multiplication introduced.
// Every basis mutation in the controller goes through here.
func (b Basis) Turn(q mgl32.Quat) Basis {
	return b.Rotated(q).Orthonormalized()
}

// Orthonormalized runs Gram-Schmidt over the columns in X, Y, Z order.
func (b Basis) Orthonormalized() Basis {
	x := b.X()
	y := b.Y()
	z := b.Z()

	x = safeNormalize(x, WorldRight)
	y = y.Sub(x.Mul(x.Dot(y)))
	y = safeNormalize(y, perpendicular(x))
	z = z.Sub(x.Mul(x.Dot(z))).Sub(y.Mul(y.Dot(z)))
	z = safeNormalize(z, x.Cross(y))

	return BasisFromAxes(x, y, z)
}

// IsOrthonormal reports whether every column is unit length and the columns
// are mutually perpendicular within eps.
func (b Basis) IsOrthonormal(eps float32) bool {
	x, y, z := b.X(), b.Y(), b.Z()
	for _, l := range []float32{x.Len(), y.Len(), z.Len()} {
		if math32.Abs(l-1) > eps || math32.IsNaN(l) {
			return false
		}
	}
	return math32.Abs(x.Dot(y)) < eps &&
		math32.Abs(x.Dot(z)) < eps &&
		math32.Abs(y.Dot(z)) < eps
}

// ApproxEqual compares element-wise with an absolute tolerance.
func (b Basis) ApproxEqual(other Basis, eps float32) bool {
	for i := range b {
		if !(math32.Abs(b[i]-other[i]) <= eps) {
			return false
		}
	}
	return true
}

// Quat converts the frame to a rotation, mostly for renderer bindings.
func (b Basis) Quat() mgl32.Quat {
	m := mgl32.Mat3(b).Mat4()
	return mgl32.Mat4ToQuat(m).Normalize()
}

// safeNormalize falls back when v is too short to carry a direction.
func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if !(l > 1e-6) {
		if fl := fallback.Len(); fl > 1e-6 {
			return fallback.Mul(1 / fl)
		}
		return WorldUp
	}
	return v.Mul(1 / l)
}

// angleBetween is numerically stable for nearly parallel vectors, unlike acos.
func angleBetween(a, b mgl32.Vec3) float32 {
	return math32.Atan2(a.Cross(b).Len(), a.Dot(b))
}

// perpendicular picks some unit vector orthogonal to v.
func perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	axis := WorldRight
	if math32.Abs(v.X()) > 0.9 {
		axis = WorldUp
	}
	return safeNormalize(v.Cross(axis), WorldUp)
}
