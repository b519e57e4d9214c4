package gpu

import "fmt"

// Texture owns one 2D texture handle.
type Texture struct {
	m      *Manager
	h      Handle
	width  int
	height int
	format Format
}

// CreateTexture allocates a width x height texture. pixels may be nil, in
// which case the contents are zeroed; otherwise its length must match the
// texture size exactly.
func (m *Manager) CreateTexture(width, height int, format Format, pixels []byte) (*Texture, error) {
	if err := m.Guard("create texture"); err != nil {
		return nil, err
	}
	bpp := format.BytesPerPixel()
	if width <= 0 || height <= 0 || bpp == 0 {
		return nil, fmt.Errorf("gpu: invalid texture %dx%d %s", width, height, format)
	}
	if pixels != nil && len(pixels) != width*height*bpp {
		return nil, fmt.Errorf("gpu: create texture %dx%d: %w", width, height, ErrPixelData)
	}
	h, err := m.dev.CreateTexture(width, height, format, pixels)
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}
	if err := m.Own(KindTexture, h); err != nil {
		m.dev.DeleteTexture(h)
		return nil, err
	}
	return &Texture{m: m, h: h, width: width, height: height, format: format}, nil
}

// Handle returns the texture name, or 0 after Destroy.
func (t *Texture) Handle() Handle { return t.h }

// Size returns the texture extent in texels.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// Format returns the pixel format.
func (t *Texture) Format() Format { return t.format }

// Update replaces the texels inside r. The region must lie within the
// texture; there is no implicit resizing.
func (t *Texture) Update(r Region, pixels []byte) error {
	if err := t.check("update texture"); err != nil {
		return err
	}
	if r.X < 0 || r.Y < 0 || r.W < 0 || r.H < 0 || r.X+r.W > t.width || r.Y+r.H > t.height {
		return &OutOfBoundsError{Handle: t.h, Region: r, Width: t.width, Height: t.height}
	}
	if r.Empty() {
		return nil
	}
	if len(pixels) != r.W*r.H*t.format.BytesPerPixel() {
		return fmt.Errorf("gpu: update texture %d: %w", t.h, ErrPixelData)
	}
	if err := t.m.dev.UpdateTexture(t.h, t.format, r, pixels); err != nil {
		return fmt.Errorf("gpu: update texture %d: %w", t.h, err)
	}
	return nil
}

// Destroy releases the texture. A second call fails with ResourceError.
func (t *Texture) Destroy() error {
	if err := t.check("destroy texture"); err != nil {
		return err
	}
	h := t.h
	t.h = 0
	return t.m.Release(KindTexture, h)
}

func (t *Texture) check(op string) error {
	if err := t.m.Guard(op); err != nil {
		return err
	}
	if t.h == 0 || !t.m.Owns(KindTexture, t.h) {
		return &ResourceError{Op: op, Handle: t.h, Reason: "texture destroyed"}
	}
	return nil
}
