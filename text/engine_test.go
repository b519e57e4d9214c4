package text_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/overlay/text"
)

func newEngine(t *testing.T, w, h int) (*text.Engine, text.FontID) {
	t.Helper()
	e := text.NewEngine(w, h)
	id, err := e.LoadFont(goregular.TTF)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, id
}

func bbox(quads []text.Quad) (w, h float32) {
	if len(quads) == 0 {
		return 0, 0
	}
	x0, y0, x1, y1 := quads[0].X0, quads[0].Y0, quads[0].X1, quads[0].Y1
	for _, q := range quads[1:] {
		x0, y0 = min(x0, q.X0), min(y0, q.Y0)
		x1, y1 = max(x1, q.X1), max(y1, q.Y1)
	}
	return x1 - x0, y1 - y0
}

func TestMeasureMatchesDraw(t *testing.T) {
	e, id := newEngine(t, 512, 512)

	for _, s := range []string{"Hello, World", "jumpy Qg", "AVAWAY", "x", "  lead", "é vs é"} {
		for _, size := range []float32{11, 16, 23.5} {
			mw, mh, err := e.Measure(id, size, s)
			require.NoError(t, err)

			quads, err := e.Draw(id, size, s, 10, 20, nil)
			require.NoError(t, err)
			dw, dh := bbox(quads)

			assert.Equal(t, mw, dw, "width of %q at %v", s, size)
			assert.Equal(t, mh, dh, "height of %q at %v", s, size)

			// Deterministic.
			mw2, mh2, _ := e.Measure(id, size, s)
			assert.Equal(t, mw, mw2)
			assert.Equal(t, mh, mh2)
		}
	}
}

func TestMeasureDoesNotRasterize(t *testing.T) {
	e, id := newEngine(t, 256, 256)

	w, h, err := e.Measure(id, 14, "no glyphs yet")
	require.NoError(t, err)
	assert.Positive(t, w)
	assert.Positive(t, h)
	assert.Equal(t, 0, e.Stats().Rasterized)
	assert.True(t, e.Atlas().Dirty().Empty())

	w, h, err = e.Measure(id, 14, "")
	require.NoError(t, err)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestGlyphIdempotent(t *testing.T) {
	e, id := newEngine(t, 256, 256)

	g1, err := e.Glyph(id, 16, 'A')
	require.NoError(t, err)
	require.Equal(t, 1, e.Stats().Rasterized)

	g2, err := e.Glyph(id, 16, 'A')
	require.NoError(t, err)
	assert.Equal(t, g1.Rect, g2.Rect)
	assert.Equal(t, 1, e.Stats().Rasterized)
	assert.Equal(t, 1, e.Stats().Hits)

	// Size and face are part of the key.
	g3, err := e.Glyph(id, 20, 'A')
	require.NoError(t, err)
	assert.NotEqual(t, g1.Rect, g3.Rect)

	bold, err := e.LoadFont(gobold.TTF)
	require.NoError(t, err)
	g4, err := e.Glyph(bold, 16, 'A')
	require.NoError(t, err)
	assert.NotEqual(t, g1.Rect, g4.Rect)
	assert.False(t, g1.Rect.Overlaps(g4.Rect))
	assert.Equal(t, 3, e.Stats().Rasterized)
}

func TestAtlasFull(t *testing.T) {
	e, id := newEngine(t, 32, 32)

	_, err := e.Draw(id, 14, "ABCDEFGHIJKLMNOPQRSTUVWXYZ", 0, 0, nil)
	var full *text.AtlasFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, 32, full.AtlasW)

	// Glyphs placed before the overflow keep their cells.
	before := e.Stats().Glyphs
	require.Positive(t, before)
	g, err := e.Glyph(id, 14, 'A')
	require.NoError(t, err)
	assert.False(t, g.Rect.Empty())
	assert.Equal(t, before, e.Stats().Glyphs)
}

func TestInvalidFontData(t *testing.T) {
	e := text.NewEngine(64, 64)

	_, err := e.LoadFont([]byte("definitely not a font"))
	var ierr *text.InvalidFontDataError
	require.ErrorAs(t, err, &ierr)

	_, err = e.LoadFont(nil)
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 0, e.Fonts())
}

func TestUnknownFontAndSize(t *testing.T) {
	e, id := newEngine(t, 64, 64)

	_, _, err := e.Measure(id+5, 12, "x")
	assert.True(t, errors.Is(err, text.ErrUnknownFont))

	_, _, err = e.Measure(id, 0, "x")
	assert.True(t, errors.Is(err, text.ErrInvalidSize))
}

func TestDirtyRegion(t *testing.T) {
	e, id := newEngine(t, 128, 128)

	_, err := e.Draw(id, 12, "ab", 0, 0, nil)
	require.NoError(t, err)

	r, pix := e.Atlas().DirtyPixels()
	require.False(t, r.Empty())
	assert.Len(t, pix, r.Dx()*r.Dy())
	assert.Equal(t, r, e.Atlas().Dirty(), "still dirty until marked clean")

	e.Atlas().MarkClean()
	assert.True(t, e.Atlas().Dirty().Empty())

	// Cached glyphs do not dirty the atlas again.
	_, err = e.Draw(id, 12, "ba", 0, 0, nil)
	require.NoError(t, err)
	assert.True(t, e.Atlas().Dirty().Empty())
}

func TestRunesMatchString(t *testing.T) {
	e, id := newEngine(t, 256, 256)

	w1, h1, err := e.Measure(id, 15, "Grüße")
	require.NoError(t, err)
	w2, h2, err := e.MeasureRunes(id, 15, []rune("Grüße"))
	require.NoError(t, err)
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)

	q1, err := e.Draw(id, 15, "Grüße", 0, 0, nil)
	require.NoError(t, err)
	q2, err := e.DrawRunes(id, 15, []rune("Grüße"), 0, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, q1, q2)
}

func TestLineMetrics(t *testing.T) {
	e, id := newEngine(t, 64, 64)

	m, err := e.LineMetrics(id, 16)
	require.NoError(t, err)
	assert.Positive(t, m.Ascent)
	assert.Positive(t, m.Descent)
	assert.GreaterOrEqual(t, m.Height, m.Ascent)
}
