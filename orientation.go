package planetwalk

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// minAlignAxis is the shortest cross product still used as a rotation axis.
	// Below it up counts as aligned, unless up and gravity point apart.
	minAlignAxis = 0.01
	// minAxisLenSqr marks a basis column as collapsed.
	minAxisLenSqr = 0.0001
)

// AlignToGravity turns aligned so its Y axis moves toward -gravity. The turn
// covers angle*dt*speed of the remaining angle, so it slows as it converges.
// It returns the new basis and whether it changed.
func AlignToGravity(aligned Basis, gravity mgl32.Vec3, dt, speed float32) (Basis, bool) {
	mag := gravity.Len()
	if !(mag >= MinGravity) || dt <= 0 || speed <= 0 {
		return aligned, false
	}

	targetUp := gravity.Mul(-1 / mag)
	currentUp := safeNormalize(aligned.Y(), WorldUp)

	axis := currentUp.Cross(targetUp)
	if axis.Len() < minAlignAxis {
		if currentUp.Dot(targetUp) > 0 {
			return aligned, false
		}
		// Flipped gravity: any axis perpendicular to up works, the frame's own
		// right keeps the flip a pure pitch.
		axis = aligned.X().Sub(currentUp.Mul(currentUp.Dot(aligned.X())))
		if axis.LenSqr() < minAxisLenSqr {
			axis = perpendicular(currentUp)
		}
	}
	axis = axis.Normalize()

	angle := angleBetween(currentUp, targetUp)
	step := angle * dt * speed
	if step > angle {
		step = angle
	}
	if step == 0 {
		return aligned, false
	}

	return aligned.Turn(mgl32.QuatRotate(step, axis)), true
}

// TurnFly applies one look event to a free-flight frame: yaw about the local
// up, then pitch about the right axis that yaw produced. No clamping.
func TurnFly(fly Basis, deltaYaw, deltaPitch float32) Basis {
	up := safeNormalize(fly.Y(), WorldUp)
	yawed := fly.Turn(mgl32.QuatRotate(deltaYaw, up))

	right := safeNormalize(yawed.X(), WorldRight)
	return yawed.Turn(mgl32.QuatRotate(deltaPitch, right))
}

// LookAngles are the accumulated walk-mode look angles in radians.
type LookAngles struct {
	Pitch float32
	Yaw   float32
}

// Accumulate folds a mouse delta into the angles and clamps pitch.
func (l LookAngles) Accumulate(dx, dy, sensitivity, minPitch, maxPitch float32) LookAngles {
	l.Yaw -= dx * sensitivity
	l.Pitch -= dy * sensitivity
	l.Pitch = mgl32.Clamp(l.Pitch, minPitch, maxPitch)
	return l
}

// ComposeLook builds the walk-mode view frame from the gravity-aligned frame
// and the look angles. Yaw turns about the aligned up and pitch about the
// yawed right, so the view follows the aligned frame as it rotates.
//
// If aligned has collapsed the identity frame is used instead and recovered is
// true; callers should store the identity back and report it.
func ComposeLook(aligned Basis, look LookAngles) (final Basis, recovered bool) {
	up := aligned.Y()
	right := aligned.X()
	if !(up.LenSqr() >= minAxisLenSqr) || !(right.LenSqr() >= minAxisLenSqr) {
		aligned = IdentityBasis()
		up, right = WorldUp, WorldRight
		recovered = true
	} else {
		up = up.Normalize()
		right = right.Normalize()
	}

	yawRotation := mgl32.QuatRotate(look.Yaw, up)

	rotatedRight := yawRotation.Rotate(right)
	if !(rotatedRight.LenSqr() >= minAxisLenSqr) {
		rotatedRight = right
	} else {
		rotatedRight = rotatedRight.Normalize()
	}

	pitchRotation := mgl32.QuatRotate(look.Pitch, rotatedRight)

	return aligned.Turn(pitchRotation.Mul(yawRotation)), recovered
}

// pitchLimits converts pitch limits configured in degrees to ordered radians.
func pitchLimits(minDeg, maxDeg float32) (float32, float32) {
	lo, hi := mgl32.DegToRad(minDeg), mgl32.DegToRad(maxDeg)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// finite reports whether every component of v is a real number.
func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}
