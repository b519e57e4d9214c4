package overlay

import (
	"sync"

	"github.com/chewxy/math32"

	"github.com/go-theft-auto/overlay/gpu"
	"github.com/go-theft-auto/overlay/text"
)

// Layer orders primitives at flush. Graphs draw first, widgets over
// graphs, overlays (popups) over widgets.
type Layer uint8

const (
	LayerGraph Layer = iota
	LayerWidget
	LayerOverlay
	layerCount
)

// CmdKind is the primitive family a command was built from.
type CmdKind uint8

const (
	CmdTriangles CmdKind = iota
	CmdQuads
	CmdGlyphRun
	CmdPolyline
)

// DrawCmd is one primitive in the draw list. Indices are absolute into
// DrawList.Vtx.
type DrawCmd struct {
	Kind    CmdKind
	Layer   Layer
	Texture gpu.Handle // 0 for untextured geometry
	Clip    Rect
	Bounds  Rect

	IdxOffset uint32
	IdxCount  uint32
}

var drawListPool = sync.Pool{
	New: func() any {
		return &DrawList{
			Vtx:       make([]Vertex, 0, 1024),
			Idx:       make([]uint32, 0, 2048),
			Cmds:      make([]DrawCmd, 0, 64),
			clipStack: make([]Rect, 0, 8),
		}
	},
}

// AcquireDrawList gets a cleared DrawList from the pool.
func AcquireDrawList() *DrawList {
	dl := drawListPool.Get().(*DrawList)
	dl.Clear()
	return dl
}

// ReleaseDrawList returns a DrawList to the pool.
func ReleaseDrawList(dl *DrawList) {
	if dl != nil {
		drawListPool.Put(dl)
	}
}

// noClip is the clip used when the stack is empty.
var noClip = Rect{X: -1e9, Y: -1e9, W: 2e9, H: 2e9}

// DrawList accumulates primitives for one frame. Pushing is cheap: clip
// culling, sorting and batching all happen in Renderer.Flush.
type DrawList struct {
	Cmds []DrawCmd
	Vtx  []Vertex
	Idx  []uint32

	clipStack []Rect
	clip      Rect
	layer     Layer
}

// Clear resets the list, keeping allocated capacity.
func (dl *DrawList) Clear() {
	dl.Cmds = dl.Cmds[:0]
	dl.Vtx = dl.Vtx[:0]
	dl.Idx = dl.Idx[:0]
	dl.clipStack = dl.clipStack[:0]
	dl.clip = noClip
	dl.layer = LayerWidget
}

// Len returns the number of commands.
func (dl *DrawList) Len() int { return len(dl.Cmds) }

// SetLayer sets the layer of subsequent primitives and returns the old one.
func (dl *DrawList) SetLayer(l Layer) Layer {
	old := dl.layer
	if l < layerCount {
		dl.layer = l
	}
	return old
}

// PushClipRect intersects the current clip with r for subsequent
// primitives.
func (dl *DrawList) PushClipRect(r Rect) {
	dl.clipStack = append(dl.clipStack, dl.clip)
	dl.clip = dl.clip.Intersect(r)
}

// PopClipRect restores the previous clip.
func (dl *DrawList) PopClipRect() {
	if n := len(dl.clipStack); n > 0 {
		dl.clip = dl.clipStack[n-1]
		dl.clipStack = dl.clipStack[:n-1]
	}
}

// ClipRect returns the current clip.
func (dl *DrawList) ClipRect() Rect { return dl.clip }

func (dl *DrawList) begin() uint32 { return uint32(len(dl.Vtx)) }

// commit records the indices appended since idxStart as one command.
func (dl *DrawList) commit(kind CmdKind, tex gpu.Handle, idxStart int, bounds Rect) {
	n := len(dl.Idx) - idxStart
	if n == 0 {
		return
	}
	dl.Cmds = append(dl.Cmds, DrawCmd{
		Kind:      kind,
		Layer:     dl.layer,
		Texture:   tex,
		Clip:      dl.clip,
		Bounds:    bounds,
		IdxOffset: uint32(idxStart),
		IdxCount:  uint32(n),
	})
}

func (dl *DrawList) quad(x0, y0, x1, y1, u0, v0, u1, v1 float32, c Color) {
	base := dl.begin()
	dl.Vtx = append(dl.Vtx,
		Vertex{Pos: [2]float32{x0, y0}, TexCoord: [2]float32{u0, v0}, Color: c},
		Vertex{Pos: [2]float32{x1, y0}, TexCoord: [2]float32{u1, v0}, Color: c},
		Vertex{Pos: [2]float32{x1, y1}, TexCoord: [2]float32{u1, v1}, Color: c},
		Vertex{Pos: [2]float32{x0, y1}, TexCoord: [2]float32{u0, v1}, Color: c},
	)
	dl.Idx = append(dl.Idx, base, base+1, base+2, base, base+2, base+3)
}

// AddRect draws a filled rectangle.
func (dl *DrawList) AddRect(x, y, w, h float32, c Color) {
	if c.Alpha() == 0 || w <= 0 || h <= 0 {
		return
	}
	start := len(dl.Idx)
	dl.quad(x, y, x+w, y+h, 0, 0, 0, 0, c)
	dl.commit(CmdQuads, 0, start, Rect{X: x, Y: y, W: w, H: h})
}

// AddRectOutline draws a rectangle border of the given thickness.
func (dl *DrawList) AddRectOutline(x, y, w, h float32, c Color, thickness float32) {
	if c.Alpha() == 0 || w <= 0 || h <= 0 {
		return
	}
	t := min(thickness, w/2, h/2)
	start := len(dl.Idx)
	dl.quad(x, y, x+w, y+t, 0, 0, 0, 0, c)
	dl.quad(x, y+h-t, x+w, y+h, 0, 0, 0, 0, c)
	dl.quad(x, y+t, x+t, y+h-t, 0, 0, 0, 0, c)
	dl.quad(x+w-t, y+t, x+w, y+h-t, 0, 0, 0, 0, c)
	dl.commit(CmdQuads, 0, start, Rect{X: x, Y: y, W: w, H: h})
}

const cornerSegments = 4

// AddRectRounded draws a filled rectangle with rounded corners.
func (dl *DrawList) AddRectRounded(x, y, w, h, radius float32, c Color) {
	r := min(radius, w/2, h/2)
	if r < 0.5 {
		dl.AddRect(x, y, w, h, c)
		return
	}
	if c.Alpha() == 0 {
		return
	}
	pts := make([]Vec2, 0, 4*(cornerSegments+1))
	corners := [4]struct{ cx, cy, a float32 }{
		{x + w - r, y + r, -math32.Pi / 2},
		{x + w - r, y + h - r, 0},
		{x + r, y + h - r, math32.Pi / 2},
		{x + r, y + r, math32.Pi},
	}
	for _, k := range corners {
		for i := 0; i <= cornerSegments; i++ {
			a := k.a + float32(i)*(math32.Pi/2)/cornerSegments
			pts = append(pts, Vec2{X: k.cx + r*math32.Cos(a), Y: k.cy + r*math32.Sin(a)})
		}
	}
	dl.AddPolygon(pts, c)
}

// AddLine draws a segment as a quad of the given thickness.
func (dl *DrawList) AddLine(x1, y1, x2, y2 float32, c Color, thickness float32) {
	if c.Alpha() == 0 {
		return
	}
	start := len(dl.Idx)
	dl.segment(x1, y1, x2, y2, c, thickness)
	dl.commit(CmdTriangles, 0, start, segmentBounds(x1, y1, x2, y2, thickness))
}

func (dl *DrawList) segment(x1, y1, x2, y2 float32, c Color, thickness float32) {
	dx, dy := x2-x1, y2-y1
	inv := float32(1)
	if l := math32.Hypot(dx, dy); l > 0 {
		inv = 1 / l
	}
	nx := -dy * inv * thickness * 0.5
	ny := dx * inv * thickness * 0.5

	base := dl.begin()
	dl.Vtx = append(dl.Vtx,
		Vertex{Pos: [2]float32{x1 + nx, y1 + ny}, Color: c},
		Vertex{Pos: [2]float32{x2 + nx, y2 + ny}, Color: c},
		Vertex{Pos: [2]float32{x2 - nx, y2 - ny}, Color: c},
		Vertex{Pos: [2]float32{x1 - nx, y1 - ny}, Color: c},
	)
	dl.Idx = append(dl.Idx, base, base+1, base+2, base, base+2, base+3)
}

func segmentBounds(x1, y1, x2, y2, thickness float32) Rect {
	h := thickness / 2
	x0, y0 := min(x1, x2)-h, min(y1, y2)-h
	return Rect{X: x0, Y: y0, W: max(x1, x2) + h - x0, H: max(y1, y2) + h - y0}
}

// AddPolyline draws connected segments through pts as one command.
func (dl *DrawList) AddPolyline(pts []Vec2, c Color, thickness float32) {
	if c.Alpha() == 0 || len(pts) < 2 {
		return
	}
	start := len(dl.Idx)
	bounds := segmentBounds(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, thickness)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dl.segment(a.X, a.Y, b.X, b.Y, c, thickness)
		bounds = union(bounds, segmentBounds(a.X, a.Y, b.X, b.Y, thickness))
	}
	dl.commit(CmdPolyline, 0, start, bounds)
}

// AddPolygon fills a convex polygon with a triangle fan.
func (dl *DrawList) AddPolygon(pts []Vec2, c Color) {
	if c.Alpha() == 0 || len(pts) < 3 {
		return
	}
	start := len(dl.Idx)
	base := dl.begin()
	x0, y0, x1, y1 := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts {
		dl.Vtx = append(dl.Vtx, Vertex{Pos: [2]float32{p.X, p.Y}, Color: c})
		x0, y0 = min(x0, p.X), min(y0, p.Y)
		x1, y1 = max(x1, p.X), max(y1, p.Y)
	}
	for i := uint32(1); i+1 < uint32(len(pts)); i++ {
		dl.Idx = append(dl.Idx, base, base+i, base+i+1)
	}
	dl.commit(CmdTriangles, 0, start, Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
}

// AddTriangle draws a filled triangle.
func (dl *DrawList) AddTriangle(a, b, c Vec2, col Color) {
	dl.AddPolygon([]Vec2{a, b, c}, col)
}

// AddGlyphs draws text quads sampled from the atlas texture tex.
// Quads are in pixels with normalized texture coordinates.
func (dl *DrawList) AddGlyphs(quads []text.Quad, tex gpu.Handle, c Color) {
	if c.Alpha() == 0 || len(quads) == 0 {
		return
	}
	start := len(dl.Idx)
	x0, y0, x1, y1 := quads[0].X0, quads[0].Y0, quads[0].X1, quads[0].Y1
	for _, q := range quads {
		dl.quad(q.X0, q.Y0, q.X1, q.Y1, q.U0, q.V0, q.U1, q.V1, c)
		x0, y0 = min(x0, q.X0), min(y0, q.Y0)
		x1, y1 = max(x1, q.X1), max(y1, q.Y1)
	}
	dl.commit(CmdGlyphRun, tex, start, Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
}

func union(a, b Rect) Rect {
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1, y1 := max(a.X+a.W, b.X+b.W), max(a.Y+a.H, b.Y+b.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
