package overlay

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/overlay/gpu"
	"github.com/go-theft-auto/overlay/shader"
)

// vertexLayout matches Vertex: Pos (2 floats), TexCoord (2 floats),
// Color (normalized uint8x4).
var vertexLayout = gpu.VertexLayout{
	Stride: int32(unsafe.Sizeof(Vertex{})),
	Attribs: []gpu.Attrib{
		{Location: 0, Size: 2, Type: gpu.Float32, Offset: unsafe.Offsetof(Vertex{}.Pos)},
		{Location: 1, Size: 2, Type: gpu.Float32, Offset: unsafe.Offsetof(Vertex{}.TexCoord)},
		{Location: 2, Size: 4, Type: gpu.Uint8, Normalized: true, Offset: unsafe.Offsetof(Vertex{}.Color)},
	},
}

// FlushStats describes the last Flush.
type FlushStats struct {
	Commands int
	Culled   int
	Batches  int
	Vertices int
	Indices  int
}

type batch struct {
	tex    gpu.Handle
	clip   Rect
	offset int
	count  int
}

// Renderer turns a DrawList into batched draw calls: one vertex and one
// index upload per frame, one DrawElements per (texture, clip) batch.
type Renderer struct {
	m        *gpu.Manager
	prog     *shader.Program
	vbo, ibo *gpu.Buffer
	preserve bool
	target   *gpu.Framebuffer
	log      *slog.Logger

	order   []DrawCmd
	idx     []uint32
	batches []batch
	stats   FlushStats
}

// NewRenderer allocates the streaming buffers. prog must be built from
// the package shader sources.
func NewRenderer(m *gpu.Manager, prog *shader.Program, preserveState bool, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = guiLogger
	}
	vbo, err := m.CreateBuffer(gpu.VertexBuffer, nil)
	if err != nil {
		return nil, fmt.Errorf("overlay: renderer: %w", err)
	}
	ibo, err := m.CreateBuffer(gpu.IndexBuffer, nil)
	if err != nil {
		_ = vbo.Destroy()
		return nil, fmt.Errorf("overlay: renderer: %w", err)
	}
	return &Renderer{m: m, prog: prog, vbo: vbo, ibo: ibo, preserve: preserveState, log: logger}, nil
}

// SetTarget redirects later flushes into fb; nil selects the default
// framebuffer.
func (r *Renderer) SetTarget(fb *gpu.Framebuffer) { r.target = fb }

// Stats returns counters from the last Flush.
func (r *Renderer) Stats() FlushStats { return r.stats }

// Flush culls, sorts and batches dl, issues the draw calls and clears dl.
// The list is cleared even when a GPU call fails, so a failed frame never
// leaks into the next one. An empty list issues no GPU calls.
func (r *Renderer) Flush(dl *DrawList, vp Viewport) (err error) {
	defer dl.Clear()
	r.stats = FlushStats{Commands: len(dl.Cmds)}
	if len(dl.Cmds) == 0 {
		return nil
	}
	if err := r.m.Guard("flush"); err != nil {
		return err
	}

	r.build(dl, vp)
	r.stats.Batches = len(r.batches)
	r.stats.Vertices = len(dl.Vtx)
	r.stats.Indices = len(r.idx)
	if len(r.batches) == 0 {
		return nil
	}

	if err := r.vbo.Upload(bytesOf(dl.Vtx), gpu.StreamDraw); err != nil {
		return err
	}
	if err := r.ibo.Upload(bytesOf(r.idx), gpu.StreamDraw); err != nil {
		return err
	}

	dev := r.m.Device()
	pass := gpu.Pass{
		Width:         int32(vp.Width),
		Height:        int32(vp.Height),
		Program:       r.prog.Handle(),
		VertexBuffer:  r.vbo.Handle(),
		IndexBuffer:   r.ibo.Handle(),
		Layout:        vertexLayout,
		PreserveState: r.preserve,
	}
	if r.target != nil {
		pass.Framebuffer = r.target.Handle()
	}
	if err := dev.BeginPass(pass); err != nil {
		return fmt.Errorf("overlay: begin pass: %w", err)
	}
	var errs []error
	proj := mgl32.Ortho2D(0, float32(vp.Width), float32(vp.Height), 0)
	errs = append(errs, r.prog.SetUniform("projection", proj), r.prog.SetUniform("atlas", int32(0)))

	useTexture := false
	for i, b := range r.batches {
		if tex := b.tex != 0; i == 0 || tex != useTexture {
			useTexture = tex
			errs = append(errs, r.prog.SetUniform("useTexture", useTexture))
		}
		x, y, w, h := scissor(b.clip, vp)
		dev.Scissor(x, y, w, h)
		dev.BindTexture(b.tex)
		dev.DrawElements(b.count, b.offset)
	}
	errs = append(errs, dev.EndPass())
	if derr := dev.Error(); derr != nil {
		errs = append(errs, fmt.Errorf("overlay: draw: %w", derr))
	}
	r.log.Debug("draw list flushed",
		"commands", r.stats.Commands, "culled", r.stats.Culled,
		"batches", r.stats.Batches, "vertices", r.stats.Vertices)
	return errors.Join(errs...)
}

// build culls commands outside their clip, orders the rest by (layer,
// texture) keeping submission order within a key, and merges neighbors with
// equal texture and clip into batches over a rebuilt index buffer.
func (r *Renderer) build(dl *DrawList, vp Viewport) {
	screen := vp.Rect()
	r.order = r.order[:0]
	for _, c := range dl.Cmds {
		vis := c.Bounds.Intersect(c.Clip).Intersect(screen)
		if vis.Empty() {
			r.stats.Culled++
			continue
		}
		c.Clip = c.Clip.Intersect(screen)
		r.order = append(r.order, c)
	}
	slices.SortStableFunc(r.order, func(a, b DrawCmd) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.Texture, b.Texture)
	})

	r.idx = r.idx[:0]
	r.batches = r.batches[:0]
	for _, c := range r.order {
		off := len(r.idx)
		r.idx = append(r.idx, dl.Idx[c.IdxOffset:c.IdxOffset+c.IdxCount]...)
		if n := len(r.batches); n > 0 && r.batches[n-1].tex == c.Texture && r.batches[n-1].clip == c.Clip {
			r.batches[n-1].count += int(c.IdxCount)
			continue
		}
		r.batches = append(r.batches, batch{tex: c.Texture, clip: c.Clip, offset: off, count: int(c.IdxCount)})
	}
}

// scissor converts a top-left clip to GL's bottom-left scissor box.
func scissor(clip Rect, vp Viewport) (x, y, w, h int32) {
	x = int32(clip.X)
	y = int32(float32(vp.Height) - (clip.Y + clip.H))
	return x, y, int32(clip.W + 0.5), int32(clip.H + 0.5)
}

// bytesOf views a slice of fixed-size values as raw bytes for upload.
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// Destroy releases the streaming buffers.
func (r *Renderer) Destroy() error {
	return errors.Join(r.vbo.Destroy(), r.ibo.Destroy())
}
