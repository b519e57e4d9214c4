package opengl

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/overlay"
)

// GLFWInputAdapter accumulates GLFW events into an overlay.InputState.
//
// Per frame: glfw.PollEvents, Update, Context.BeginFrame with Input,
// widgets, Context.EndFrame, then Reset.
type GLFWInputAdapter struct {
	window *glfw.Window
	input  *overlay.InputState
	scaleX float32
	scaleY float32
}

// NewGLFWInputAdapter installs input callbacks on window.
func NewGLFWInputAdapter(window *glfw.Window) *GLFWInputAdapter {
	a := &GLFWInputAdapter{
		window: window,
		input:  overlay.NewInputState(),
		scaleX: 1,
		scaleY: 1,
	}

	window.SetKeyCallback(a.keyCallback)
	window.SetCharCallback(a.charCallback)
	window.SetMouseButtonCallback(a.mouseButtonCallback)
	window.SetScrollCallback(a.scrollCallback)
	window.SetCursorPosCallback(a.cursorPosCallback)

	return a
}

// Update refreshes the pointer position, modifiers and key repeat timers.
// Cursor coordinates are scaled from window to framebuffer pixels.
func (a *GLFWInputAdapter) Update(dt float32) *overlay.InputState {
	ww, wh := a.window.GetSize()
	fw, fh := a.window.GetFramebufferSize()
	if ww > 0 && wh > 0 {
		a.scaleX = float32(fw) / float32(ww)
		a.scaleY = float32(fh) / float32(wh)
	}
	x, y := a.window.GetCursorPos()
	a.cursorPosCallback(a.window, x, y)

	a.input.ModCtrl = a.window.GetKey(glfw.KeyLeftControl) == glfw.Press ||
		a.window.GetKey(glfw.KeyRightControl) == glfw.Press
	a.input.ModShift = a.window.GetKey(glfw.KeyLeftShift) == glfw.Press ||
		a.window.GetKey(glfw.KeyRightShift) == glfw.Press
	a.input.ModAlt = a.window.GetKey(glfw.KeyLeftAlt) == glfw.Press ||
		a.window.GetKey(glfw.KeyRightAlt) == glfw.Press

	a.input.UpdateKeyRepeat(dt)
	return a.input
}

// Reset clears this frame's edge events. Call it after EndFrame.
func (a *GLFWInputAdapter) Reset() { a.input.Reset() }

// Input returns the accumulated input state.
func (a *GLFWInputAdapter) Input() *overlay.InputState {
	return a.input
}

// Viewport returns the framebuffer size of the window.
func (a *GLFWInputAdapter) Viewport() overlay.Viewport {
	w, h := a.window.GetFramebufferSize()
	return overlay.Viewport{Width: w, Height: h}
}

// GetText implements overlay.Clipboard.
func (a *GLFWInputAdapter) GetText() string {
	return a.window.GetClipboardString()
}

// SetText implements overlay.Clipboard.
func (a *GLFWInputAdapter) SetText(text string) {
	a.window.SetClipboardString(text)
}

var _ overlay.Clipboard = (*GLFWInputAdapter)(nil)

func (a *GLFWInputAdapter) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	k := glfwKey(key)
	if k == overlay.KeyNone {
		return
	}

	switch action {
	case glfw.Press:
		a.input.SetKey(k, true)
	case glfw.Release:
		a.input.SetKey(k, false)
	}
}

func (a *GLFWInputAdapter) charCallback(w *glfw.Window, char rune) {
	a.input.AddInputChar(char)
}

func (a *GLFWInputAdapter) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	b := glfwMouseButton(button)
	if b < 0 {
		return
	}

	switch action {
	case glfw.Press:
		a.input.SetMouseButton(b, true)
	case glfw.Release:
		a.input.SetMouseButton(b, false)
	}
}

func (a *GLFWInputAdapter) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	a.input.SetMouseWheel(a.input.MouseWheelX+float32(xoff), a.input.MouseWheelY+float32(yoff))
}

func (a *GLFWInputAdapter) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	a.input.SetMousePos(float32(xpos)*a.scaleX, float32(ypos)*a.scaleY)
}

func glfwKey(key glfw.Key) overlay.Key {
	switch key {
	case glfw.KeyTab:
		return overlay.KeyTab
	case glfw.KeyLeft:
		return overlay.KeyLeft
	case glfw.KeyRight:
		return overlay.KeyRight
	case glfw.KeyHome:
		return overlay.KeyHome
	case glfw.KeyEnd:
		return overlay.KeyEnd
	case glfw.KeyDelete:
		return overlay.KeyDelete
	case glfw.KeyBackspace:
		return overlay.KeyBackspace
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return overlay.KeyEnter
	case glfw.KeyEscape:
		return overlay.KeyEscape
	case glfw.KeyC:
		return overlay.KeyC
	case glfw.KeyV:
		return overlay.KeyV
	default:
		return overlay.KeyNone
	}
}

func glfwMouseButton(button glfw.MouseButton) overlay.MouseButton {
	switch button {
	case glfw.MouseButtonLeft:
		return overlay.MouseButtonLeft
	case glfw.MouseButtonRight:
		return overlay.MouseButtonRight
	case glfw.MouseButtonMiddle:
		return overlay.MouseButtonMiddle
	default:
		return -1
	}
}
