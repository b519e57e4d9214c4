package gpu

import (
	"cmp"
	"log/slog"
	"maps"
	"slices"
)

// Kind identifies the family of a tracked handle. GL keeps separate name
// spaces per family, so a handle is only unique together with its kind.
type Kind uint8

const (
	KindBuffer Kind = iota + 1
	KindTexture
	KindProgram
	KindFramebuffer
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindTexture:
		return "texture"
	case KindProgram:
		return "program"
	case KindFramebuffer:
		return "framebuffer"
	default:
		return "unknown"
	}
}

type handleKey struct {
	kind Kind
	h    Handle
}

// Manager owns every handle created through it and enforces that GPU calls
// happen on the thread that created it.
type Manager struct {
	dev    Device
	owner  uint64
	closed bool
	live   map[handleKey]struct{}
	log    *slog.Logger
}

// NewManager binds a Manager to the calling OS thread. The caller must hold
// the GL context current on this thread and keep it locked with
// runtime.LockOSThread for the Manager's lifetime.
func NewManager(dev Device, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		dev:   dev,
		owner: currentThread(),
		live:  make(map[handleKey]struct{}),
		log:   logger,
	}
}

// Device returns the underlying device. Calls made directly on it bypass
// ownership tracking; callers must Guard first.
func (m *Manager) Device() Device { return m.dev }

// Guard fails if the Manager was closed or if the caller is not on the
// owning thread.
func (m *Manager) Guard(op string) error {
	if m.closed {
		return &ResourceError{Op: op, Reason: "context released"}
	}
	if t := currentThread(); t != m.owner {
		return &WrongThreadError{Op: op, Owner: m.owner, Caller: t}
	}
	return nil
}

// Own starts tracking a handle created directly on the device.
func (m *Manager) Own(kind Kind, h Handle) error {
	if h == 0 {
		return &ResourceError{Op: "own " + kind.String(), Reason: "null handle"}
	}
	k := handleKey{kind, h}
	if _, ok := m.live[k]; ok {
		return &ResourceError{Op: "own " + kind.String(), Handle: h, Reason: "already owned"}
	}
	m.live[k] = struct{}{}
	return nil
}

// Owns reports whether the handle is live.
func (m *Manager) Owns(kind Kind, h Handle) bool {
	_, ok := m.live[handleKey{kind, h}]
	return ok
}

// Release deletes a tracked handle on the device. Releasing a handle that is
// not live is a ResourceError.
func (m *Manager) Release(kind Kind, h Handle) error {
	op := "destroy " + kind.String()
	if err := m.Guard(op); err != nil {
		return err
	}
	k := handleKey{kind, h}
	if _, ok := m.live[k]; !ok || h == 0 {
		return &ResourceError{Op: op, Handle: h, Reason: "invalid or already destroyed handle"}
	}
	delete(m.live, k)
	m.delete(k)
	return nil
}

func (m *Manager) delete(k handleKey) {
	switch k.kind {
	case KindBuffer:
		m.dev.DeleteBuffer(k.h)
	case KindTexture:
		m.dev.DeleteTexture(k.h)
	case KindProgram:
		m.dev.DeleteProgram(k.h)
	case KindFramebuffer:
		m.dev.DeleteFramebuffer(k.h)
	}
}

// Live returns the number of handles currently owned.
func (m *Manager) Live() int { return len(m.live) }

// Closed reports whether Close has run.
func (m *Manager) Closed() bool { return m.closed }

// Close releases every live handle exactly once. Framebuffers go first so
// that no attachment outlives its parent. All later calls fail with
// ResourceError.
func (m *Manager) Close() error {
	if err := m.Guard("close"); err != nil {
		return err
	}
	keys := slices.SortedFunc(maps.Keys(m.live), func(a, b handleKey) int {
		if c := cmp.Compare(b.kind, a.kind); c != 0 {
			return c
		}
		return cmp.Compare(a.h, b.h)
	})
	for _, k := range keys {
		m.delete(k)
	}
	m.log.Debug("gpu manager closed", "released", len(keys))
	clear(m.live)
	m.closed = true
	return nil
}
