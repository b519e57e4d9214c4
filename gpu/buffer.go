package gpu

import "fmt"

// Buffer owns one vertex or index buffer handle.
type Buffer struct {
	m    *Manager
	h    Handle
	kind BufferKind
	size int
}

// CreateBuffer allocates a buffer. initial, when non-nil, is uploaded with
// StaticDraw.
func (m *Manager) CreateBuffer(kind BufferKind, initial []byte) (*Buffer, error) {
	if err := m.Guard("create buffer"); err != nil {
		return nil, err
	}
	if kind != VertexBuffer && kind != IndexBuffer {
		return nil, fmt.Errorf("gpu: invalid buffer kind %d", kind)
	}
	h, err := m.dev.CreateBuffer(kind)
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s buffer: %w", kind, err)
	}
	if err := m.Own(KindBuffer, h); err != nil {
		m.dev.DeleteBuffer(h)
		return nil, err
	}
	b := &Buffer{m: m, h: h, kind: kind}
	if initial != nil {
		if err := b.Upload(initial, StaticDraw); err != nil {
			_ = b.Destroy()
			return nil, err
		}
	}
	return b, nil
}

// Handle returns the buffer name, or 0 after Destroy.
func (b *Buffer) Handle() Handle { return b.h }

// Kind returns the binding target.
func (b *Buffer) Kind() BufferKind { return b.kind }

// Size returns the byte length of the last upload.
func (b *Buffer) Size() int { return b.size }

// Upload replaces the buffer contents.
func (b *Buffer) Upload(data []byte, usage Usage) error {
	if err := b.check("upload buffer"); err != nil {
		return err
	}
	if err := b.m.dev.BufferData(b.h, b.kind, data, usage); err != nil {
		return fmt.Errorf("gpu: upload %s buffer %d: %w", b.kind, b.h, err)
	}
	b.size = len(data)
	return nil
}

// Destroy releases the buffer. A second call fails with ResourceError.
func (b *Buffer) Destroy() error {
	if err := b.check("destroy buffer"); err != nil {
		return err
	}
	h := b.h
	b.h = 0
	return b.m.Release(KindBuffer, h)
}

func (b *Buffer) check(op string) error {
	if err := b.m.Guard(op); err != nil {
		return err
	}
	if b.h == 0 || !b.m.Owns(KindBuffer, b.h) {
		return &ResourceError{Op: op, Handle: b.h, Reason: "buffer destroyed"}
	}
	return nil
}
