// Package platform opens a GLFW window and feeds its keyboard and mouse into
// planetwalk.Input. Nothing is rendered into the window.
package platform

import (
	"fmt"
	"runtime"

	"github.com/gekko3d/planetwalk"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Window struct {
	win *glfw.Window

	// target receives cursor motion while PollEvents runs.
	target   *planetwalk.Input
	captured bool
	lastX    float64
	lastY    float64
	havePos  bool
}

// NewWindow must be called from the main goroutine.
func NewWindow(width, height int, title string) (*Window, error) {
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "planetwalk"
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("init glfw: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &Window{win: win}
	win.SetCursorPosCallback(w.onCursor)
	return w, nil
}

func (w *Window) onCursor(_ *glfw.Window, x, y float64) {
	if !w.havePos {
		w.lastX, w.lastY, w.havePos = x, y, true
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	if w.target != nil {
		w.target.PushLook(float32(dx), float32(dy))
	}
}

// Poll implements planetwalk.InputSource. Every cursor callback becomes one
// look event.
func (w *Window) Poll(in *planetwalk.Input) {
	if in.MouseCaptured != w.captured {
		w.captured = in.MouseCaptured
		w.havePos = false
		if w.captured {
			w.win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			w.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	}

	w.target = in
	glfw.PollEvents()
	w.target = nil

	for key, glfwKey := range keyToGlfw {
		in.SetKey(key, w.win.GetKey(glfwKey) == glfw.Press)
	}
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}

var keyToGlfw = map[int]glfw.Key{
	planetwalk.KeyA:       glfw.KeyA,
	planetwalk.KeyB:       glfw.KeyB,
	planetwalk.KeyC:       glfw.KeyC,
	planetwalk.KeyD:       glfw.KeyD,
	planetwalk.KeyE:       glfw.KeyE,
	planetwalk.KeyF:       glfw.KeyF,
	planetwalk.KeyG:       glfw.KeyG,
	planetwalk.KeyH:       glfw.KeyH,
	planetwalk.KeyI:       glfw.KeyI,
	planetwalk.KeyJ:       glfw.KeyJ,
	planetwalk.KeyK:       glfw.KeyK,
	planetwalk.KeyL:       glfw.KeyL,
	planetwalk.KeyM:       glfw.KeyM,
	planetwalk.KeyN:       glfw.KeyN,
	planetwalk.KeyO:       glfw.KeyO,
	planetwalk.KeyP:       glfw.KeyP,
	planetwalk.KeyQ:       glfw.KeyQ,
	planetwalk.KeyR:       glfw.KeyR,
	planetwalk.KeyS:       glfw.KeyS,
	planetwalk.KeyT:       glfw.KeyT,
	planetwalk.KeyU:       glfw.KeyU,
	planetwalk.KeyV:       glfw.KeyV,
	planetwalk.KeyW:       glfw.KeyW,
	planetwalk.KeyX:       glfw.KeyX,
	planetwalk.KeyY:       glfw.KeyY,
	planetwalk.KeyZ:       glfw.KeyZ,
	planetwalk.KeySpace:   glfw.KeySpace,
	planetwalk.KeyEnter:   glfw.KeyEnter,
	planetwalk.KeyEscape:  glfw.KeyEscape,
	planetwalk.KeyTab:     glfw.KeyTab,
	planetwalk.KeyRight:   glfw.KeyRight,
	planetwalk.KeyLeft:    glfw.KeyLeft,
	planetwalk.KeyDown:    glfw.KeyDown,
	planetwalk.KeyUp:      glfw.KeyUp,
	planetwalk.KeyShift:   glfw.KeyLeftShift,
	planetwalk.KeyControl: glfw.KeyLeftControl,
	planetwalk.KeyLeftAlt: glfw.KeyLeftAlt,
}
