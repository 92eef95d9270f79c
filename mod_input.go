package planetwalk

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyShift
	KeyControl
	KeyLeftAlt
	keyCount
)

// LookDelta is one mouse motion event in pixels.
type LookDelta struct {
	DX, DY float32
}

type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseCaptured bool
	// LookEvents holds the motion received since the last drain.
	LookEvents []LookDelta
}

// SetKey records the key state and derives the press/release edges.
func (in *Input) SetKey(key int, down bool) {
	if key < 0 || key >= keyCount {
		return
	}
	if down {
		if !in.Pressed[key] {
			in.JustPressed[key] = true
		}
		in.Pressed[key] = true
	} else {
		if in.Pressed[key] {
			in.JustReleased[key] = true
		}
		in.Pressed[key] = false
	}
}

// PushLook queues a motion event. Motion is dropped while the mouse is free.
func (in *Input) PushLook(dx, dy float32) {
	if !in.MouseCaptured || (dx == 0 && dy == 0) {
		return
	}
	in.LookEvents = append(in.LookEvents, LookDelta{DX: dx, DY: dy})
}

// DrainLook hands out the queued events and clears the queue.
func (in *Input) DrainLook() []LookDelta {
	events := in.LookEvents
	in.LookEvents = nil
	return events
}

func (in *Input) beginFrame() {
	in.JustPressed = [keyCount]bool{}
	in.JustReleased = [keyCount]bool{}
}

// Bindings maps keys to controller actions.
type Bindings struct {
	Forward       int
	Backward      int
	Left          int
	Right         int
	Up            int
	Down          int
	ToggleMode    int
	ToggleCapture int
}

func DefaultBindings() *Bindings {
	return &Bindings{
		Forward:       KeyW,
		Backward:      KeyS,
		Left:          KeyA,
		Right:         KeyD,
		Up:            KeySpace,
		Down:          KeyControl,
		ToggleMode:    KeyTab,
		ToggleCapture: KeyEscape,
	}
}

// Held reads the continuously held movement actions. Edges are left to the
// caller because a frame may run zero or several physics ticks.
func (b *Bindings) Held(in *Input) Actions {
	return Actions{
		Forward:  in.Pressed[b.Forward],
		Backward: in.Pressed[b.Backward],
		Left:     in.Pressed[b.Left],
		Right:    in.Pressed[b.Right],
		Up:       in.Pressed[b.Up],
		Down:     in.Pressed[b.Down],
	}
}

// InputSource is a device backend polled once per frame.
type InputSource interface {
	Poll(in *Input)
}

// InputDevice holds the backend as a resource.
type InputDevice struct {
	Source InputSource
}

type InputModule struct {
	Source   InputSource
	Bindings *Bindings
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	bindings := mod.Bindings
	if bindings == nil {
		bindings = DefaultBindings()
	}
	cmd.AddResources(&Input{MouseCaptured: true}, bindings, &InputDevice{Source: mod.Source})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(input *Input, device *InputDevice, bindings *Bindings) {
	input.beginFrame()
	if device.Source != nil {
		device.Source.Poll(input)
	}

	if input.JustPressed[bindings.ToggleCapture] {
		input.MouseCaptured = !input.MouseCaptured
		if !input.MouseCaptured {
			input.LookEvents = nil
		}
	}
}
