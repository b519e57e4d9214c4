package overlay

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonCount
)

// Key represents a keyboard key understood by the widgets.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyEscape
	KeyC
	KeyV
	KeyCount
)

// Key repeat timing in seconds.
const (
	KeyRepeatDelay    float32 = 0.4
	KeyRepeatInterval float32 = 0.03
)

// InputState is the host-owned input accumulator. The host feeds events
// into it between frames; BeginFrame copies it into an immutable snapshot
// so every widget in a frame observes the same input.
type InputState struct {
	MouseX, MouseY float32

	mouseDown    [MouseButtonCount]bool
	mouseClicked [MouseButtonCount]bool
	mouseUp      [MouseButtonCount]bool

	MouseWheelX float32
	MouseWheelY float32

	keyDown     [KeyCount]bool
	keyPressed  [KeyCount]bool
	keyHoldTime [KeyCount]float32
	keyPrevHold [KeyCount]float32

	// Unicode characters typed since the last Reset.
	InputChars []rune

	ModCtrl  bool
	ModShift bool
	ModAlt   bool
}

// NewInputState creates a new InputState.
func NewInputState() *InputState {
	return &InputState{InputChars: make([]rune, 0, 16)}
}

// Reset clears edge-triggered events. Call it after EndFrame, before
// collecting the next frame's events.
func (s *InputState) Reset() {
	s.mouseClicked = [MouseButtonCount]bool{}
	s.mouseUp = [MouseButtonCount]bool{}
	s.keyPressed = [KeyCount]bool{}
	s.InputChars = s.InputChars[:0]
	s.MouseWheelX = 0
	s.MouseWheelY = 0
}

// SetMousePos sets the pointer position in framebuffer pixels.
func (s *InputState) SetMousePos(x, y float32) {
	s.MouseX = x
	s.MouseY = y
}

// SetMouseButton sets mouse button state.
func (s *InputState) SetMouseButton(button MouseButton, down bool) {
	if button < 0 || button >= MouseButtonCount {
		return
	}
	wasDown := s.mouseDown[button]
	s.mouseDown[button] = down
	if down && !wasDown {
		s.mouseClicked[button] = true
	}
	if !down && wasDown {
		s.mouseUp[button] = true
	}
}

// SetKey sets key state.
func (s *InputState) SetKey(key Key, down bool) {
	if key <= KeyNone || key >= KeyCount {
		return
	}
	wasDown := s.keyDown[key]
	s.keyDown[key] = down
	if down != wasDown {
		s.keyHoldTime[key] = 0
		s.keyPrevHold[key] = 0
	}
	if down && !wasDown {
		s.keyPressed[key] = true
	}
}

// UpdateKeyRepeat advances key hold times. Call once per frame with the
// frame's delta time.
func (s *InputState) UpdateKeyRepeat(dt float32) {
	for key := range s.keyDown {
		if s.keyDown[key] {
			s.keyPrevHold[key] = s.keyHoldTime[key]
			s.keyHoldTime[key] += dt
		}
	}
}

// SetMouseWheel sets the wheel delta.
func (s *InputState) SetMouseWheel(x, y float32) {
	s.MouseWheelX = x
	s.MouseWheelY = y
}

// AddInputChar adds a typed character.
func (s *InputState) AddInputChar(ch rune) {
	s.InputChars = append(s.InputChars, ch)
}

// MouseDown returns true if a mouse button is currently held.
func (s *InputState) MouseDown(button MouseButton) bool {
	return button >= 0 && button < MouseButtonCount && s.mouseDown[button]
}

// MouseClicked returns true if a button was pressed this frame.
func (s *InputState) MouseClicked(button MouseButton) bool {
	return button >= 0 && button < MouseButtonCount && s.mouseClicked[button]
}

// MouseReleased returns true if a button was released this frame.
func (s *InputState) MouseReleased(button MouseButton) bool {
	return button >= 0 && button < MouseButtonCount && s.mouseUp[button]
}

// KeyDown returns true if a key is currently held.
func (s *InputState) KeyDown(key Key) bool {
	return key > KeyNone && key < KeyCount && s.keyDown[key]
}

// KeyPressed returns true if a key was pressed this frame.
func (s *InputState) KeyPressed(key Key) bool {
	return key > KeyNone && key < KeyCount && s.keyPressed[key]
}

// KeyRepeated returns true on the initial press, then once for every
// KeyRepeatInterval boundary crossed after KeyRepeatDelay.
func (s *InputState) KeyRepeated(key Key) bool {
	if key <= KeyNone || key >= KeyCount {
		return false
	}
	if s.keyPressed[key] {
		return true
	}
	if !s.keyDown[key] || s.keyHoldTime[key] < KeyRepeatDelay {
		return false
	}
	now := int((s.keyHoldTime[key] - KeyRepeatDelay) / KeyRepeatInterval)
	prev := int((s.keyPrevHold[key] - KeyRepeatDelay) / KeyRepeatInterval)
	return s.keyPrevHold[key] < KeyRepeatDelay || now > prev
}

// snapshot returns a copy that does not share the typed-character buffer.
func (s *InputState) snapshot(dst *InputState) {
	chars := append(dst.InputChars[:0], s.InputChars...)
	*dst = *s
	dst.InputChars = chars
}
