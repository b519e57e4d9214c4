package text

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFont is returned for a FontID that was never loaded.
	ErrUnknownFont = errors.New("text: unknown font")

	// ErrInvalidSize is returned for non-positive or NaN font sizes.
	ErrInvalidSize = errors.New("text: invalid font size")
)

// InvalidFontDataError is returned by LoadFont when the bytes are not a
// parseable TrueType or OpenType font.
type InvalidFontDataError struct {
	Len int
	Err error
}

func (e *InvalidFontDataError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("text: invalid font data (%d bytes)", e.Len)
	}
	return fmt.Sprintf("text: invalid font data (%d bytes): %v", e.Len, e.Err)
}

func (e *InvalidFontDataError) Unwrap() error { return e.Err }

// AtlasFullError is returned when a new glyph does not fit in the atlas.
// Glyphs already placed stay valid.
type AtlasFullError struct {
	Key            GlyphKey
	Width, Height  int
	AtlasW, AtlasH int
}

func (e *AtlasFullError) Error() string {
	return fmt.Sprintf("text: atlas %dx%d full, cannot place %dx%d glyph %q",
		e.AtlasW, e.AtlasH, e.Width, e.Height, e.Key.Rune)
}
