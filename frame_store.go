package overlay

// stateEntry wraps a state value with frame tracking for staleness detection.
type stateEntry[T any] struct {
	value     T
	lastFrame uint64
}

// FrameStore is a typed table of cross-frame widget state keyed by ID.
// Entries not touched during the previous frame are evicted by Cleanup, so
// a widget that stops being drawn loses its state.
//
// A FrameStore belongs to one Context and is only used from its render
// thread.
type FrameStore[T any] struct {
	states map[ID]*stateEntry[T]
	frame  uint64
}

// NewFrameStore creates an empty store.
func NewFrameStore[T any]() *FrameStore[T] {
	return &FrameStore[T]{states: make(map[ID]*stateEntry[T])}
}

// Get returns the state for id, creating it from defaultVal if absent, and
// marks it as used this frame.
func (s *FrameStore[T]) Get(id ID, defaultVal T) *T {
	entry, ok := s.states[id]
	if !ok {
		entry = &stateEntry[T]{value: defaultVal}
		s.states[id] = entry
	}
	entry.lastFrame = s.frame
	return &entry.value
}

// Lookup returns the state for id without creating or touching it.
func (s *FrameStore[T]) Lookup(id ID) *T {
	if entry, ok := s.states[id]; ok {
		return &entry.value
	}
	return nil
}

// Delete removes the state for id.
func (s *FrameStore[T]) Delete(id ID) {
	delete(s.states, id)
}

// Cleanup advances to frame and removes entries not used in frame-1.
func (s *FrameStore[T]) Cleanup(frame uint64) int {
	s.frame = frame
	if frame == 0 {
		return 0
	}
	threshold := frame - 1
	n := 0
	for id, entry := range s.states {
		if entry.lastFrame < threshold {
			delete(s.states, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries.
func (s *FrameStore[T]) Len() int {
	return len(s.states)
}

// Clear removes all entries.
func (s *FrameStore[T]) Clear() {
	clear(s.states)
}

// widgetState is the only state a widget keeps between frames.
type widgetState struct {
	// Pointer capture for drags.
	captured bool
	// Keyboard focus and caret position (rune index) for text boxes.
	focused bool
	caret   int
	// Popup open flag for combos.
	open bool
	// Pressed inside this widget on the current gesture.
	pressed bool
}
