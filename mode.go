package planetwalk

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
)

type Mode int

const (
	ModeFly Mode = iota
	ModeWalk
)

func (m Mode) String() string {
	switch m {
	case ModeFly:
		return "Fly"
	case ModeWalk:
		return "Walk"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) Other() Mode {
	if m == ModeFly {
		return ModeWalk
	}
	return ModeFly
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Fly", "fly", "":
		*m = ModeFly
	case "Walk", "walk":
		*m = ModeWalk
	default:
		return fmt.Errorf("unknown mode %q", string(text))
	}
	return nil
}

// lookLimits is the part of the configuration look handling depends on.
type lookLimits struct {
	sensitivity float32
	minPitch    float32
	maxPitch    float32
}

// locomotion is one variant of the controller's orientation state. Each
// variant owns exactly the basis it needs; exit hands the visible frame to the
// next variant.
type locomotion interface {
	mode() Mode
	// look applies one mouse delta.
	look(dx, dy float32, lim lookLimits)
	// orient runs once per tick and returns the frame for this tick.
	orient(gravity GravitySample, dt, alignmentSpeed float32, log Logger) Basis
	// current is the frame the body would show right now.
	current() Basis
}

// flyState holds the free-flight frame, changed only by look events.
type flyState struct {
	basis Basis
}

func newFlyState(from Basis) *flyState {
	return &flyState{basis: from.Orthonormalized()}
}

func (f *flyState) mode() Mode { return ModeFly }

func (f *flyState) look(dx, dy float32, lim lookLimits) {
	f.basis = TurnFly(f.basis, -dx*lim.sensitivity, -dy*lim.sensitivity)
}

func (f *flyState) orient(GravitySample, float32, float32, Logger) Basis {
	return f.basis
}

func (f *flyState) current() Basis { return f.basis }

// walkState holds the gravity-aligned frame and the look angles composed on
// top of it.
type walkState struct {
	aligned Basis
	angles  LookAngles
}

func newWalkState(from Basis) *walkState {
	return &walkState{aligned: from.Orthonormalized()}
}

func (w *walkState) mode() Mode { return ModeWalk }

func (w *walkState) look(dx, dy float32, lim lookLimits) {
	w.angles = w.angles.Accumulate(dx, dy, lim.sensitivity, lim.minPitch, lim.maxPitch)
}

func (w *walkState) orient(gravity GravitySample, dt, alignmentSpeed float32, log Logger) Basis {
	if !gravity.InFreeFall() {
		w.aligned, _ = AlignToGravity(w.aligned, gravity.Force, dt, alignmentSpeed)
	}
	return w.compose(log)
}

func (w *walkState) current() Basis {
	final, _ := ComposeLook(w.aligned, w.angles)
	return final
}

func (w *walkState) compose(log Logger) Basis {
	final, recovered := ComposeLook(w.aligned, w.angles)
	if recovered {
		data := orderedmap.NewOrderedMap[string, any]()
		data.Set("up", vecString(w.aligned.Y()))
		data.Set("right", vecString(w.aligned.X()))
		data.Set("pitch", w.angles.Pitch)
		data.Set("yaw", w.angles.Yaw)
		Diagnose(log, "gravity-aligned basis collapsed, reset to identity", data)
		w.aligned = IdentityBasis()
	}
	return final
}

// transition leaves from and returns the variant for the other mode. Fly hands
// over its own frame; Walk hands over committed, the frame published by the
// last tick, so look angles not yet applied by a tick are dropped.
func transition(from locomotion, committed Basis) locomotion {
	switch s := from.(type) {
	case *flyState:
		return newWalkState(s.basis)
	case *walkState:
		return newFlyState(committed)
	default:
		return newFlyState(IdentityBasis())
	}
}

func newLocomotion(mode Mode, basis Basis) locomotion {
	if mode == ModeWalk {
		return newWalkState(basis)
	}
	return newFlyState(basis)
}

func vecString(v mgl32.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
}
