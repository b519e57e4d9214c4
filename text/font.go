package text

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	font FontID
	size float32
}

// LoadFont parses TrueType or OpenType bytes. The engine keeps a reference
// to data; callers must not modify it afterwards.
func (e *Engine) LoadFont(data []byte) (FontID, error) {
	if len(data) == 0 {
		return 0, &InvalidFontDataError{}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return 0, &InvalidFontDataError{Len: len(data), Err: err}
	}
	id := FontID(len(e.fonts))
	e.fonts = append(e.fonts, f)
	e.log.Debug("font loaded", "id", id, "bytes", len(data), "glyphs", f.NumGlyphs())
	return id, nil
}

// Fonts returns the number of loaded fonts.
func (e *Engine) Fonts() int { return len(e.fonts) }

func (e *Engine) face(id FontID, size float32) (font.Face, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	if id < 0 || int(id) >= len(e.fonts) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFont, id)
	}
	k := faceKey{id, size}
	if f, ok := e.faces[k]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(e.fonts[id], &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("text: face %d at %vpx: %w", id, size, err)
	}
	e.faces[k] = f
	return f, nil
}

// Close releases the cached faces. The atlas and glyph entries stay valid.
func (e *Engine) Close() error {
	for k, f := range e.faces {
		_ = f.Close()
		delete(e.faces, k)
	}
	return nil
}
