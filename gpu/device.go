// Package gpu provides thin ownership wrappers over GPU textures, buffers and
// framebuffers.
//
// Every wrapper exclusively owns one Handle. Handles are released exactly
// once, either explicitly with Destroy or when the owning Manager is closed.
// There are no finalizers: the caller mirrors ownership with scoped
// acquisition (create on construction, destroy on teardown).
//
// All operations are bound to the OS thread that created the Manager, since
// GL contexts are thread-affine.
package gpu

// Handle is an opaque GPU object name. Zero is the null handle.
type Handle uint32

// Format describes the pixel layout of a texture.
type Format uint8

const (
	// FormatR8 is a single 8-bit channel, used for alpha-only glyph atlases.
	FormatR8 Format = iota + 1
	// FormatRGBA8 is four 8-bit channels.
	FormatRGBA8
)

// BytesPerPixel returns the size of one texel.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatR8:
		return 1
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case FormatR8:
		return "R8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return "invalid"
	}
}

// BufferKind selects the binding target of a buffer.
type BufferKind uint8

const (
	// VertexBuffer holds vertex attributes.
	VertexBuffer BufferKind = iota + 1
	// IndexBuffer holds element indices.
	IndexBuffer
)

func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	default:
		return "invalid"
	}
}

// Usage is the upload frequency hint passed to the driver.
type Usage uint8

const (
	StaticDraw Usage = iota + 1
	DynamicDraw
	StreamDraw
)

// Stage identifies a shader stage.
type Stage uint8

const (
	VertexStage Stage = iota + 1
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// AttribType is the component type of a vertex attribute.
type AttribType uint8

const (
	Float32 AttribType = iota + 1
	Uint8
)

// Attrib describes one vertex attribute inside an interleaved vertex.
type Attrib struct {
	Location   uint32
	Size       int32 // components
	Type       AttribType
	Normalized bool
	Offset     uintptr
}

// VertexLayout describes an interleaved vertex format.
type VertexLayout struct {
	Stride  int32
	Attribs []Attrib
}

// Region is a rectangle in texel coordinates.
type Region struct {
	X, Y, W, H int
}

// Empty reports whether the region covers no texels.
func (r Region) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest region containing both r and o.
func (r Region) Union(o Region) Region {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.W, o.X+o.W), max(r.Y+r.H, o.Y+o.H)
	return Region{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Pass describes the fixed state of one batched 2D draw pass.
type Pass struct {
	Framebuffer   Handle // 0 = default framebuffer
	Width, Height int32
	Program       Handle
	VertexBuffer  Handle
	IndexBuffer   Handle
	Layout        VertexLayout
	PreserveState bool // save and restore host GL state around the pass
}

// Device is the set of GL entry points the toolkit uses. The OpenGL
// implementation lives in backend/opengl; gpu/gputest provides an in-memory
// implementation for tests. A Device performs no validation of its own;
// ownership and thread checks are done by Manager.
type Device interface {
	CreateTexture(width, height int, format Format, pixels []byte) (Handle, error)
	UpdateTexture(tex Handle, format Format, r Region, pixels []byte) error
	DeleteTexture(tex Handle)

	CreateBuffer(kind BufferKind) (Handle, error)
	BufferData(buf Handle, kind BufferKind, data []byte, usage Usage) error
	DeleteBuffer(buf Handle)

	CreateFramebuffer(color Handle) (Handle, error)
	DeleteFramebuffer(fb Handle)
	ReadPixels(fb Handle, width, height int, dst []byte) error

	CompileShader(stage Stage, source string) (sh Handle, log string, ok bool)
	DeleteShader(sh Handle)
	LinkProgram(shaders ...Handle) (prog Handle, log string, ok bool)
	DeleteProgram(prog Handle)
	UniformLocation(prog Handle, name string) int32
	UseProgram(prog Handle)
	Uniform1i(loc int32, v int32)
	Uniform1f(loc int32, v float32)
	Uniform2f(loc int32, x, y float32)
	Uniform4f(loc int32, x, y, z, w float32)
	UniformMatrix4(loc int32, m *[16]float32)

	BeginPass(p Pass) error
	Scissor(x, y, w, h int32)
	BindTexture(tex Handle)
	DrawElements(count, offset int)
	EndPass() error

	// Error returns and clears the last device error, if any.
	Error() error
}
