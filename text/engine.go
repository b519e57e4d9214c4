// Package text rasterizes glyphs into a shared alpha atlas and lays out
// single-line strings as textured quads.
//
// Measure and Draw share one layout pass, so the size reported by Measure is
// exactly the bounding box of the quads Draw emits for the same arguments.
package text

import (
	"image"
	"log/slog"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// FontID identifies a font loaded into an Engine.
type FontID int

// GlyphKey identifies one cached glyph. Faces share the atlas, so the font is
// part of the key.
type GlyphKey struct {
	Font FontID
	Rune rune
	Size float32
}

// Glyph is a placed atlas cell. The cell covers the glyph's ink and its
// advance box; MinX and MinY offset the cell from the pen position on the
// baseline.
type Glyph struct {
	Rect       image.Rectangle
	MinX, MinY int
	Advance    fixed.Int26_6
}

// Quad is one textured glyph rectangle in screen space with its atlas UVs.
type Quad struct {
	X0, Y0, X1, Y1 float32
	U0, V0, U1, V1 float32
}

// LineMetrics describes the vertical extent of a face.
type LineMetrics struct {
	Ascent  float32
	Descent float32
	Height  float32
}

// Stats counts glyph cache activity.
type Stats struct {
	Glyphs      int
	Rasterized  int
	Hits        int
	Utilization float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithPadding sets the gap in pixels kept between atlas cells.
func WithPadding(px int) Option {
	return func(e *Engine) { e.padding = px }
}

// WithLogger sets the logger for font and atlas diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine owns the fonts, the face cache and the glyph atlas. It performs no
// GPU calls; the owner uploads Atlas().DirtyPixels() to a texture and then
// calls MarkClean.
type Engine struct {
	padding int
	log     *slog.Logger

	atlas  *Atlas
	fonts  []*sfnt.Font
	faces  map[faceKey]font.Face
	glyphs map[GlyphKey]Glyph
	stats  Stats
}

// NewEngine returns an engine with an empty atlasW x atlasH atlas.
func NewEngine(atlasW, atlasH int, opts ...Option) *Engine {
	e := &Engine{
		padding: 1,
		faces:   make(map[faceKey]font.Face),
		glyphs:  make(map[GlyphKey]Glyph),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.atlas = NewAtlas(atlasW, atlasH, e.padding)
	return e
}

// Atlas returns the shared glyph atlas.
func (e *Engine) Atlas() *Atlas { return e.atlas }

// Stats returns cache counters.
func (e *Engine) Stats() Stats {
	s := e.stats
	s.Glyphs = len(e.glyphs)
	s.Utilization = e.atlas.Utilization()
	return s
}

// cell is the layout box of one glyph relative to the pen on the baseline.
type cell struct {
	minX, minY int
	maxX, maxY int
	advance    fixed.Int26_6
}

func (c cell) empty() bool { return c.maxX <= c.minX || c.maxY <= c.minY }

func cellOf(face font.Face, r rune) (cell, bool) {
	bounds, adv, ok := face.GlyphBounds(r)
	if !ok {
		return cell{}, false
	}
	m := face.Metrics()
	return cell{
		minX:    min(0, bounds.Min.X.Floor()),
		minY:    min(-m.Ascent.Ceil(), bounds.Min.Y.Floor()),
		maxX:    max(adv.Ceil(), bounds.Max.X.Ceil()),
		maxY:    max(m.Descent.Ceil(), bounds.Max.Y.Ceil()),
		advance: adv,
	}, true
}

// layout walks s and calls fn with each drawable rune, its cell and the
// pixel-snapped pen position.
func layout(face font.Face, s string, fn func(r rune, c cell, pen int) bool) {
	var (
		pen  fixed.Int26_6
		prev rune = -1
	)
	for _, r := range s {
		if r < ' ' {
			continue
		}
		c, ok := cellOf(face, r)
		if !ok {
			continue
		}
		if prev >= 0 {
			pen += face.Kern(prev, r)
		}
		if !c.empty() && !fn(r, c, pen.Round()) {
			return
		}
		pen += c.advance
		prev = r
	}
}

func normalize(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

func validSize(size float32) bool {
	return size > 0 && !math32.IsNaN(size) && !math32.IsInf(size, 0)
}

// Measure returns the width and height of s as Draw would place it. It does
// not rasterize and touches no GPU state. Empty strings measure zero.
func (e *Engine) Measure(id FontID, size float32, s string) (w, h float32, err error) {
	face, err := e.face(id, size)
	if err != nil {
		return 0, 0, err
	}
	var (
		seen           bool
		x0, y0, x1, y1 int
	)
	layout(face, normalize(s), func(_ rune, c cell, pen int) bool {
		if !seen {
			x0, y0, x1, y1 = pen+c.minX, c.minY, pen+c.maxX, c.maxY
			seen = true
			return true
		}
		x0, y0 = min(x0, pen+c.minX), min(y0, c.minY)
		x1, y1 = max(x1, pen+c.maxX), max(y1, c.maxY)
		return true
	})
	if !seen {
		return 0, 0, nil
	}
	return float32(x1 - x0), float32(y1 - y0), nil
}

// MeasureRunes is Measure for UTF-32 input.
func (e *Engine) MeasureRunes(id FontID, size float32, rs []rune) (w, h float32, err error) {
	return e.Measure(id, size, string(rs))
}

// Draw appends one quad per glyph of s to dst. (x, y) is the top-left of the
// line box; the baseline sits at y + ascent. Missing glyphs are rasterized
// into the atlas on first use. If the atlas fills up, Draw returns the quads
// placed so far together with an *AtlasFullError.
func (e *Engine) Draw(id FontID, size float32, s string, x, y float32, dst []Quad) ([]Quad, error) {
	face, err := e.face(id, size)
	if err != nil {
		return dst, err
	}
	aw, ah := e.atlas.Size()
	iw, ih := 1/float32(aw), 1/float32(ah)
	baseline := y + float32(face.Metrics().Ascent.Ceil())

	var drawErr error
	layout(face, normalize(s), func(r rune, c cell, pen int) bool {
		g, err := e.glyph(face, GlyphKey{Font: id, Rune: r, Size: size}, c)
		if err != nil {
			drawErr = err
			return false
		}
		qx := x + float32(pen+g.MinX)
		qy := baseline + float32(g.MinY)
		dst = append(dst, Quad{
			X0: qx,
			Y0: qy,
			X1: qx + float32(g.Rect.Dx()),
			Y1: qy + float32(g.Rect.Dy()),
			U0: float32(g.Rect.Min.X) * iw,
			V0: float32(g.Rect.Min.Y) * ih,
			U1: float32(g.Rect.Max.X) * iw,
			V1: float32(g.Rect.Max.Y) * ih,
		})
		return true
	})
	return dst, drawErr
}

// DrawRunes is Draw for UTF-32 input.
func (e *Engine) DrawRunes(id FontID, size float32, rs []rune, x, y float32, dst []Quad) ([]Quad, error) {
	return e.Draw(id, size, string(rs), x, y, dst)
}

// Glyph returns the atlas entry for r, rasterizing it on first use.
func (e *Engine) Glyph(id FontID, size float32, r rune) (Glyph, error) {
	face, err := e.face(id, size)
	if err != nil {
		return Glyph{}, err
	}
	c, ok := cellOf(face, r)
	if !ok || c.empty() {
		return Glyph{}, nil
	}
	return e.glyph(face, GlyphKey{Font: id, Rune: r, Size: size}, c)
}

func (e *Engine) glyph(face font.Face, key GlyphKey, c cell) (Glyph, error) {
	if g, ok := e.glyphs[key]; ok {
		e.stats.Hits++
		return g, nil
	}
	img := rasterize(face, key.Rune, c)
	r, ok := e.atlas.insert(img)
	if !ok {
		aw, ah := e.atlas.Size()
		return Glyph{}, &AtlasFullError{
			Key:    key,
			Width:  img.Rect.Dx(),
			Height: img.Rect.Dy(),
			AtlasW: aw,
			AtlasH: ah,
		}
	}
	g := Glyph{Rect: r, MinX: c.minX, MinY: c.minY, Advance: c.advance}
	e.glyphs[key] = g
	e.stats.Rasterized++
	return g, nil
}

// rasterize draws r into a cell-sized alpha image with the pen at
// (-minX, -minY).
func rasterize(face font.Face, r rune, c cell) *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, c.maxX-c.minX, c.maxY-c.minY))
	d := font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(-c.minX, -c.minY),
	}
	d.DrawString(string(r))
	return img
}

// LineMetrics returns ascent, descent and line height in pixels.
func (e *Engine) LineMetrics(id FontID, size float32) (LineMetrics, error) {
	face, err := e.face(id, size)
	if err != nil {
		return LineMetrics{}, err
	}
	m := face.Metrics()
	return LineMetrics{
		Ascent:  float32(m.Ascent.Ceil()),
		Descent: float32(m.Descent.Ceil()),
		Height:  float32(m.Height.Ceil()),
	}, nil
}
