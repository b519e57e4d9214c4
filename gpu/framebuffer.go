package gpu

import "fmt"

// Framebuffer owns an offscreen render target with one color attachment.
// The attachment texture stays owned by its own wrapper.
type Framebuffer struct {
	m     *Manager
	h     Handle
	color *Texture
}

// CreateFramebuffer attaches color as the render target of a new framebuffer.
func (m *Manager) CreateFramebuffer(color *Texture) (*Framebuffer, error) {
	if err := m.Guard("create framebuffer"); err != nil {
		return nil, err
	}
	if color == nil {
		return nil, &ResourceError{Op: "create framebuffer", Reason: "nil color attachment"}
	}
	if err := color.check("create framebuffer"); err != nil {
		return nil, err
	}
	h, err := m.dev.CreateFramebuffer(color.h)
	if err != nil {
		return nil, fmt.Errorf("gpu: create framebuffer: %w", err)
	}
	if err := m.Own(KindFramebuffer, h); err != nil {
		m.dev.DeleteFramebuffer(h)
		return nil, err
	}
	return &Framebuffer{m: m, h: h, color: color}, nil
}

// Handle returns the framebuffer name, or 0 after Destroy.
func (f *Framebuffer) Handle() Handle { return f.h }

// Color returns the color attachment.
func (f *Framebuffer) Color() *Texture { return f.color }

// ReadPixels copies the color attachment into dst, bottom row first.
func (f *Framebuffer) ReadPixels(dst []byte) error {
	if err := f.check("read pixels"); err != nil {
		return err
	}
	w, h := f.color.Size()
	if len(dst) != w*h*4 {
		return fmt.Errorf("gpu: read pixels: %w", ErrPixelData)
	}
	return f.m.dev.ReadPixels(f.h, w, h, dst)
}

// Destroy releases the framebuffer, not its attachment.
func (f *Framebuffer) Destroy() error {
	if err := f.check("destroy framebuffer"); err != nil {
		return err
	}
	h := f.h
	f.h = 0
	return f.m.Release(KindFramebuffer, h)
}

func (f *Framebuffer) check(op string) error {
	if err := f.m.Guard(op); err != nil {
		return err
	}
	if f.h == 0 || !f.m.Owns(KindFramebuffer, f.h) {
		return &ResourceError{Op: op, Handle: f.h, Reason: "framebuffer destroyed"}
	}
	return nil
}
