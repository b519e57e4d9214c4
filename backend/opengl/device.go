// Package opengl implements gpu.Device on OpenGL 4.1 core via go-gl, plus a
// GLFW input adapter.
//
// gl.Init must have been called on the thread owning the GL context before
// New.
package opengl

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/overlay/gpu"
)

// Device issues GL calls on the current context.
type Device struct {
	vao    uint32
	inPass bool
	pass   gpu.Pass
	saved  hostState
}

// hostState is the GL state a pass overwrites.
type hostState struct {
	program, vao, arrayBuffer, framebuffer int32
	texture, activeTexture                 int32

	blendSrcRGB, blendDstRGB     int32
	blendSrcAlpha, blendDstAlpha int32

	scissorBox, viewport [4]int32

	blend, depth, cull, scissor bool
}

// New returns a Device bound to the current GL context.
func New() *Device { return &Device{} }

var _ gpu.Device = (*Device)(nil)

func texFormat(f gpu.Format) (internal int32, format uint32, err error) {
	switch f {
	case gpu.FormatR8:
		return gl.R8, gl.RED, nil
	case gpu.FormatRGBA8:
		return gl.RGBA8, gl.RGBA, nil
	default:
		return 0, 0, fmt.Errorf("opengl: unsupported texture format %v", f)
	}
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}

func (d *Device) CreateTexture(width, height int, format gpu.Format, pixels []byte) (gpu.Handle, error) {
	internal, f, err := texFormat(format)
	if err != nil {
		return 0, err
	}
	if pixels == nil {
		// GL leaves fresh storage undefined.
		pixels = make([]byte, width*height*format.BytesPerPixel())
	}
	var prev int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &prev)
	defer gl.BindTexture(gl.TEXTURE_2D, uint32(prev))

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, f, gl.UNSIGNED_BYTE, ptr(pixels))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	if err := d.Error(); err != nil {
		gl.DeleteTextures(1, &tex)
		return 0, err
	}
	return gpu.Handle(tex), nil
}

func (d *Device) UpdateTexture(tex gpu.Handle, format gpu.Format, r gpu.Region, pixels []byte) error {
	_, f, err := texFormat(format)
	if err != nil {
		return err
	}
	var prev int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &prev)
	defer gl.BindTexture(gl.TEXTURE_2D, uint32(prev))

	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(r.X), int32(r.Y), int32(r.W), int32(r.H), f, gl.UNSIGNED_BYTE, ptr(pixels))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	return d.Error()
}

func (d *Device) DeleteTexture(tex gpu.Handle) {
	t := uint32(tex)
	gl.DeleteTextures(1, &t)
}

func (d *Device) CreateBuffer(kind gpu.BufferKind) (gpu.Handle, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	if buf == 0 {
		return 0, fmt.Errorf("opengl: glGenBuffers returned 0 for %v buffer", kind)
	}
	return gpu.Handle(buf), nil
}

// BufferData uploads through GL_ARRAY_BUFFER for both kinds. The element
// array binding belongs to the bound VAO, which may be the host's.
func (d *Device) BufferData(buf gpu.Handle, kind gpu.BufferKind, data []byte, usage gpu.Usage) error {
	var prev int32
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &prev)
	defer gl.BindBuffer(gl.ARRAY_BUFFER, uint32(prev))

	u := uint32(gl.STREAM_DRAW)
	switch usage {
	case gpu.StaticDraw:
		u = gl.STATIC_DRAW
	case gpu.DynamicDraw:
		u = gl.DYNAMIC_DRAW
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.BufferData(gl.ARRAY_BUFFER, len(data), ptr(data), u)
	return d.Error()
}

func (d *Device) DeleteBuffer(buf gpu.Handle) {
	b := uint32(buf)
	gl.DeleteBuffers(1, &b)
}

func (d *Device) CreateFramebuffer(color gpu.Handle) (gpu.Handle, error) {
	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	var fb uint32
	gl.GenFramebuffers(1, &fb)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(color), 0)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fb)
		return 0, fmt.Errorf("opengl: framebuffer incomplete: 0x%x", status)
	}
	return gpu.Handle(fb), nil
}

func (d *Device) DeleteFramebuffer(fb gpu.Handle) {
	f := uint32(fb)
	gl.DeleteFramebuffers(1, &f)
}

func (d *Device) ReadPixels(fb gpu.Handle, width, height int, dst []byte) error {
	var prev int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prev)
	defer gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prev))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(fb))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, ptr(dst))
	return d.Error()
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (gpu.Handle, string, bool) {
	t := uint32(gl.VERTEX_SHADER)
	if stage == gpu.FragmentStage {
		t = gl.FRAGMENT_SHADER
	}
	sh := gl.CreateShader(t)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	var logLength int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
	log := ""
	if logLength > 1 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(buf))
		log = strings.TrimRight(buf, "\x00")
	}
	if status == gl.FALSE {
		gl.DeleteShader(sh)
		return 0, log, false
	}
	return gpu.Handle(sh), log, true
}

func (d *Device) DeleteShader(sh gpu.Handle) { gl.DeleteShader(uint32(sh)) }

func (d *Device) LinkProgram(shaders ...gpu.Handle) (gpu.Handle, string, bool) {
	prog := gl.CreateProgram()
	for _, sh := range shaders {
		gl.AttachShader(prog, uint32(sh))
	}
	gl.LinkProgram(prog)
	for _, sh := range shaders {
		gl.DetachShader(prog, uint32(sh))
	}

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	var logLength int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLength)
	log := ""
	if logLength > 1 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(prog, logLength, nil, gl.Str(buf))
		log = strings.TrimRight(buf, "\x00")
	}
	if status == gl.FALSE {
		gl.DeleteProgram(prog)
		return 0, log, false
	}
	return gpu.Handle(prog), log, true
}

func (d *Device) DeleteProgram(prog gpu.Handle) { gl.DeleteProgram(uint32(prog)) }

func (d *Device) UniformLocation(prog gpu.Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(prog), gl.Str(name+"\x00"))
}

func (d *Device) UseProgram(prog gpu.Handle) { gl.UseProgram(uint32(prog)) }
func (d *Device) Uniform1i(loc int32, v int32) { gl.Uniform1i(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32) { gl.Uniform1f(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32) { gl.Uniform2f(loc, x, y) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32) { gl.Uniform4f(loc, x, y, z, w) }
func (d *Device) UniformMatrix4(loc int32, m *[16]float32) { gl.UniformMatrix4fv(loc, 1, false, &m[0]) }
func (d *Device) Scissor(x, y, w, h int32) { gl.Scissor(x, y, w, h) }
func (d *Device) BindTexture(tex gpu.Handle) { gl.BindTexture(gl.TEXTURE_2D, uint32(tex)) }
func (d *Device) DrawElements(count, offset int) {
	gl.DrawElementsBaseVertexWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(offset*4), 0)
}

// BeginPass installs alpha blending, scissoring and the vertex layout. With
// PreserveState the host's state is saved first and restored by EndPass.
func (d *Device) BeginPass(p gpu.Pass) error {
	if d.inPass {
		return errors.New("opengl: pass already open")
	}
	if p.PreserveState {
		d.save()
	}
	if d.vao == 0 {
		gl.GenVertexArrays(1, &d.vao)
	}
	d.inPass = true
	d.pass = p

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(p.Framebuffer))
	gl.Viewport(0, 0, p.Width, p.Height)
	gl.Enable(gl.BLEND)
	gl.BlendFuncSeparate(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA, gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(0, 0, p.Width, p.Height)

	gl.UseProgram(uint32(p.Program))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(p.VertexBuffer))
	for _, a := range p.Layout.Attribs {
		t := uint32(gl.FLOAT)
		if a.Type == gpu.Uint8 {
			t = gl.UNSIGNED_BYTE
		}
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, t, a.Normalized, p.Layout.Stride, a.Offset)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(p.IndexBuffer))
	return d.Error()
}

func (d *Device) EndPass() error {
	if !d.inPass {
		return errors.New("opengl: no open pass")
	}
	d.inPass = false
	if d.pass.PreserveState {
		d.restore()
	} else {
		gl.BindVertexArray(0)
	}
	return d.Error()
}

func (d *Device) save() {
	s := &d.saved
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vao)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &s.arrayBuffer)
	gl.GetIntegerv(gl.ACTIVE_TEXTURE, &s.activeTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture)
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &s.framebuffer)
	gl.GetIntegerv(gl.BLEND_SRC_RGB, &s.blendSrcRGB)
	gl.GetIntegerv(gl.BLEND_DST_RGB, &s.blendDstRGB)
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrcAlpha)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDstAlpha)
	gl.GetIntegerv(gl.SCISSOR_BOX, &s.scissorBox[0])
	gl.GetIntegerv(gl.VIEWPORT, &s.viewport[0])
	s.blend = gl.IsEnabled(gl.BLEND)
	s.depth = gl.IsEnabled(gl.DEPTH_TEST)
	s.cull = gl.IsEnabled(gl.CULL_FACE)
	s.scissor = gl.IsEnabled(gl.SCISSOR_TEST)
}

func (d *Device) restore() {
	s := &d.saved
	gl.UseProgram(uint32(s.program))
	gl.BindVertexArray(uint32(s.vao))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(s.arrayBuffer))
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture))
	gl.ActiveTexture(uint32(s.activeTexture))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(s.framebuffer))
	gl.BlendFuncSeparate(uint32(s.blendSrcRGB), uint32(s.blendDstRGB), uint32(s.blendSrcAlpha), uint32(s.blendDstAlpha))
	gl.Scissor(s.scissorBox[0], s.scissorBox[1], s.scissorBox[2], s.scissorBox[3])
	gl.Viewport(s.viewport[0], s.viewport[1], s.viewport[2], s.viewport[3])
	setCap(gl.BLEND, s.blend)
	setCap(gl.DEPTH_TEST, s.depth)
	setCap(gl.CULL_FACE, s.cull)
	setCap(gl.SCISSOR_TEST, s.scissor)
}

func setCap(c uint32, on bool) {
	if on {
		gl.Enable(c)
	} else {
		gl.Disable(c)
	}
}

// Delete releases the internal vertex array object.
func (d *Device) Delete() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// Error drains the GL error queue and reports the first code.
func (d *Device) Error() error {
	first := uint32(gl.NO_ERROR)
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == gl.NO_ERROR {
			first = code
		}
	}
	if first == gl.NO_ERROR {
		return nil
	}
	return fmt.Errorf("opengl: GL error 0x%x", first)
}
