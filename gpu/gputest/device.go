// Package gputest provides an in-memory gpu.Device for tests.
package gputest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-theft-auto/overlay/gpu"
)

// ErrInjected is returned by operations configured to fail.
var ErrInjected = errors.New("gputest: injected failure")

// Texture is the in-memory state of one texture.
type Texture struct {
	Width, Height int
	Format        gpu.Format
	Pixels        []byte
}

// Update records one UpdateTexture call.
type Update struct {
	Texture gpu.Handle
	Region  gpu.Region
	Bytes   int
}

// Draw records one DrawElements call together with the state it ran under.
type Draw struct {
	Program gpu.Handle
	Texture gpu.Handle
	Scissor [4]int32
	Count   int
	Offset  int
}

// Device records every call made through it. Create one with New.
type Device struct {
	next gpu.Handle

	Textures     map[gpu.Handle]*Texture
	Buffers      map[gpu.Handle][]byte
	Framebuffers map[gpu.Handle]gpu.Handle
	Shaders      map[gpu.Handle]string
	Programs     map[gpu.Handle][]string // declared uniform names

	// Uniforms holds the last value set per "program/name".
	Uniforms map[string]any

	Updates  []Update
	Uploads  int
	Draws    []Draw
	Passes   int
	LastPass gpu.Pass
	InPass   bool

	// Failure injection.
	FailCompile gpu.Stage // stage whose compilation fails
	FailLink    bool
	FailPass    bool
	FailDraw    bool // Error reports ErrInjected after the next draw

	program gpu.Handle
	texture gpu.Handle
	scissor [4]int32
	locs    map[string]int32
	names   map[int32]string
	pending error
}

// New returns an empty device.
func New() *Device {
	return &Device{
		Textures:     make(map[gpu.Handle]*Texture),
		Buffers:      make(map[gpu.Handle][]byte),
		Framebuffers: make(map[gpu.Handle]gpu.Handle),
		Shaders:      make(map[gpu.Handle]string),
		Programs:     make(map[gpu.Handle][]string),
		Uniforms:     make(map[string]any),
		locs:         make(map[string]int32),
		names:        make(map[int32]string),
	}
}

func (d *Device) alloc() gpu.Handle {
	d.next++
	return d.next
}

// Live returns the number of handles not yet deleted.
func (d *Device) Live() int {
	return len(d.Textures) + len(d.Buffers) + len(d.Framebuffers) + len(d.Shaders) + len(d.Programs)
}

// DrawCalls returns the number of DrawElements calls so far.
func (d *Device) DrawCalls() int { return len(d.Draws) }

// Reset forgets recorded calls but keeps live objects.
func (d *Device) Reset() {
	d.Updates = d.Updates[:0]
	d.Draws = d.Draws[:0]
	d.Uploads = 0
	d.Passes = 0
}

func (d *Device) CreateTexture(width, height int, format gpu.Format, pixels []byte) (gpu.Handle, error) {
	buf := make([]byte, width*height*format.BytesPerPixel())
	copy(buf, pixels)
	h := d.alloc()
	d.Textures[h] = &Texture{Width: width, Height: height, Format: format, Pixels: buf}
	return h, nil
}

func (d *Device) UpdateTexture(tex gpu.Handle, format gpu.Format, r gpu.Region, pixels []byte) error {
	t, ok := d.Textures[tex]
	if !ok {
		return fmt.Errorf("gputest: update unknown texture %d", tex)
	}
	bpp := format.BytesPerPixel()
	for y := 0; y < r.H; y++ {
		dst := ((r.Y+y)*t.Width + r.X) * bpp
		copy(t.Pixels[dst:dst+r.W*bpp], pixels[y*r.W*bpp:])
	}
	d.Updates = append(d.Updates, Update{Texture: tex, Region: r, Bytes: len(pixels)})
	return nil
}

func (d *Device) DeleteTexture(tex gpu.Handle) { delete(d.Textures, tex) }

func (d *Device) CreateBuffer(kind gpu.BufferKind) (gpu.Handle, error) {
	h := d.alloc()
	d.Buffers[h] = nil
	return h, nil
}

func (d *Device) BufferData(buf gpu.Handle, kind gpu.BufferKind, data []byte, usage gpu.Usage) error {
	if _, ok := d.Buffers[buf]; !ok {
		return fmt.Errorf("gputest: upload unknown buffer %d", buf)
	}
	d.Buffers[buf] = append(d.Buffers[buf][:0], data...)
	d.Uploads++
	return nil
}

func (d *Device) DeleteBuffer(buf gpu.Handle) { delete(d.Buffers, buf) }

func (d *Device) CreateFramebuffer(color gpu.Handle) (gpu.Handle, error) {
	if _, ok := d.Textures[color]; !ok {
		return 0, fmt.Errorf("gputest: attach unknown texture %d", color)
	}
	h := d.alloc()
	d.Framebuffers[h] = color
	return h, nil
}

func (d *Device) DeleteFramebuffer(fb gpu.Handle) { delete(d.Framebuffers, fb) }

func (d *Device) ReadPixels(fb gpu.Handle, width, height int, dst []byte) error {
	color, ok := d.Framebuffers[fb]
	if !ok {
		return fmt.Errorf("gputest: read unknown framebuffer %d", fb)
	}
	copy(dst, d.Textures[color].Pixels)
	return nil
}

func (d *Device) CompileShader(stage gpu.Stage, source string) (gpu.Handle, string, bool) {
	if d.FailCompile == stage {
		return 0, "0:1(1): error: injected " + stage.String() + " failure", false
	}
	h := d.alloc()
	d.Shaders[h] = source
	return h, "", true
}

func (d *Device) DeleteShader(sh gpu.Handle) { delete(d.Shaders, sh) }

// LinkProgram collects the uniform declarations of the attached sources so
// that UniformLocation reports -1 for undeclared names, like a real driver.
func (d *Device) LinkProgram(shaders ...gpu.Handle) (gpu.Handle, string, bool) {
	if d.FailLink {
		return 0, "error: injected link failure", false
	}
	var names []string
	for _, sh := range shaders {
		names = append(names, uniformNames(d.Shaders[sh])...)
	}
	h := d.alloc()
	d.Programs[h] = names
	return h, "", true
}

func uniformNames(src string) []string {
	var names []string
	for _, line := range strings.Split(src, "\n") {
		f := strings.Fields(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if len(f) >= 3 && f[0] == "uniform" {
			names = append(names, f[len(f)-1])
		}
	}
	return names
}

func (d *Device) DeleteProgram(prog gpu.Handle) { delete(d.Programs, prog) }

func (d *Device) UniformLocation(prog gpu.Handle, name string) int32 {
	declared := false
	for _, n := range d.Programs[prog] {
		if n == name {
			declared = true
			break
		}
	}
	if !declared {
		return -1
	}
	key := fmt.Sprintf("%d/%s", prog, name)
	if loc, ok := d.locs[key]; ok {
		return loc
	}
	loc := int32(len(d.locs))
	d.locs[key] = loc
	d.names[loc] = key
	return loc
}

func (d *Device) UseProgram(prog gpu.Handle) { d.program = prog }

func (d *Device) set(loc int32, v any) {
	if loc < 0 {
		return
	}
	d.Uniforms[d.names[loc]] = v
}

func (d *Device) Uniform1i(loc int32, v int32)             { d.set(loc, v) }
func (d *Device) Uniform1f(loc int32, v float32)           { d.set(loc, v) }
func (d *Device) Uniform2f(loc int32, x, y float32)        { d.set(loc, [2]float32{x, y}) }
func (d *Device) Uniform4f(loc int32, x, y, z, w float32)  { d.set(loc, [4]float32{x, y, z, w}) }
func (d *Device) UniformMatrix4(loc int32, m *[16]float32) { d.set(loc, *m) }

// Uniform returns the last value set for name on prog.
func (d *Device) Uniform(prog gpu.Handle, name string) any {
	return d.Uniforms[fmt.Sprintf("%d/%s", prog, name)]
}

func (d *Device) BeginPass(p gpu.Pass) error {
	if d.FailPass {
		return ErrInjected
	}
	if d.InPass {
		return errors.New("gputest: nested pass")
	}
	d.InPass = true
	d.Passes++
	d.LastPass = p
	d.program = p.Program
	d.scissor = [4]int32{0, 0, p.Width, p.Height}
	return nil
}

func (d *Device) Scissor(x, y, w, h int32) { d.scissor = [4]int32{x, y, w, h} }

func (d *Device) BindTexture(tex gpu.Handle) { d.texture = tex }

func (d *Device) DrawElements(count, offset int) {
	d.Draws = append(d.Draws, Draw{
		Program: d.program,
		Texture: d.texture,
		Scissor: d.scissor,
		Count:   count,
		Offset:  offset,
	})
	if d.FailDraw {
		d.pending = ErrInjected
	}
}

func (d *Device) EndPass() error {
	if !d.InPass {
		return errors.New("gputest: end without begin")
	}
	d.InPass = false
	return nil
}

func (d *Device) Error() error {
	err := d.pending
	d.pending = nil
	return err
}

var _ gpu.Device = (*Device)(nil)
