// Package shader compiles GLSL programs and binds typed uniforms.
package shader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/overlay/gpu"
)

// Option configures Compile.
type Option func(*config)

type config struct {
	version  string
	validate bool
	logger   *slog.Logger
}

// WithVersion sets the GL version hint used to pick the GLSL header.
// Accepted hints are "3.3", "4.1" and the GLES hint "es3".
func WithVersion(hint string) Option {
	return func(c *config) { c.version = hint }
}

// WithValidation makes SetUniform report unknown uniform names.
func WithValidation(enabled bool) Option {
	return func(c *config) { c.validate = enabled }
}

// WithLogger sets the logger for compile and uniform diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Header returns the #version line for a GL version hint.
func Header(hint string) (string, error) {
	switch hint {
	case "", "4.1":
		return "#version 410 core\n", nil
	case "3.3":
		return "#version 330 core\n", nil
	case "es3", "es3.0":
		return "#version 300 es\nprecision mediump float;\n", nil
	default:
		return "", fmt.Errorf("shader: unsupported GL version hint %q", hint)
	}
}

// Program is a linked GLSL program with a cache of uniform locations.
type Program struct {
	m        *gpu.Manager
	h        gpu.Handle
	validate bool
	locs     map[string]int32
	log      *slog.Logger
}

// Compile builds a program from vertex and fragment sources. Sources that do
// not start with a #version directive get the header for the configured
// version hint. Failures are returned as *CompileError or *LinkError and are
// not retried.
func Compile(m *gpu.Manager, vertexSrc, fragmentSrc string, opts ...Option) (*Program, error) {
	cfg := config{version: "4.1"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if err := m.Guard("compile program"); err != nil {
		return nil, err
	}
	header, err := Header(cfg.version)
	if err != nil {
		return nil, err
	}

	dev := m.Device()
	vs, err := compileStage(dev, gpu.VertexStage, withHeader(header, vertexSrc))
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(vs)
	fs, err := compileStage(dev, gpu.FragmentStage, withHeader(header, fragmentSrc))
	if err != nil {
		return nil, err
	}
	defer dev.DeleteShader(fs)

	prog, log, ok := dev.LinkProgram(vs, fs)
	if !ok {
		if log == "" {
			log = "unknown link error"
		}
		return nil, &LinkError{Log: log}
	}
	if err := m.Own(gpu.KindProgram, prog); err != nil {
		dev.DeleteProgram(prog)
		return nil, err
	}
	cfg.logger.Debug("shader program linked", "program", prog, "version", cfg.version)
	return &Program{
		m:        m,
		h:        prog,
		validate: cfg.validate,
		locs:     make(map[string]int32),
		log:      cfg.logger,
	}, nil
}

func withHeader(header, src string) string {
	if strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return src
	}
	return header + src
}

func compileStage(dev gpu.Device, stage gpu.Stage, src string) (gpu.Handle, error) {
	sh, log, ok := dev.CompileShader(stage, src)
	if !ok {
		if log == "" {
			log = "unknown compile error"
		}
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return sh, nil
}

// Handle returns the program name, or 0 after Destroy.
func (p *Program) Handle() gpu.Handle { return p.h }

// Use makes the program current.
func (p *Program) Use() error {
	if err := p.check("use program"); err != nil {
		return err
	}
	p.m.Device().UseProgram(p.h)
	return nil
}

// Location returns the cached location of name, or -1 if the program has no
// such active uniform.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := p.m.Device().UniformLocation(p.h, name)
	p.locs[name] = loc
	return loc
}

// SetUniform makes the program current and assigns a uniform. Supported value types
// are int32, bool, float32, mgl32.Vec2, mgl32.Vec4 and mgl32.Mat4. Unknown
// names are ignored unless validation is enabled.
func (p *Program) SetUniform(name string, value any) error {
	if err := p.check("set uniform"); err != nil {
		return err
	}
	loc := p.Location(name)
	if loc < 0 {
		if p.validate {
			return &UnknownUniformError{Program: p.h, Name: name}
		}
		p.log.Debug("uniform not active", "program", p.h, "name", name)
		return nil
	}
	dev := p.m.Device()
	dev.UseProgram(p.h)
	switch v := value.(type) {
	case int32:
		dev.Uniform1i(loc, v)
	case int:
		dev.Uniform1i(loc, int32(v))
	case bool:
		var i int32
		if v {
			i = 1
		}
		dev.Uniform1i(loc, i)
	case float32:
		dev.Uniform1f(loc, v)
	case mgl32.Vec2:
		dev.Uniform2f(loc, v[0], v[1])
	case mgl32.Vec4:
		dev.Uniform4f(loc, v[0], v[1], v[2], v[3])
	case mgl32.Mat4:
		m := [16]float32(v)
		dev.UniformMatrix4(loc, &m)
	default:
		return fmt.Errorf("shader: uniform %q: unsupported value type %T", name, value)
	}
	return nil
}

// Destroy releases the program.
func (p *Program) Destroy() error {
	if err := p.check("destroy program"); err != nil {
		return err
	}
	h := p.h
	p.h = 0
	clear(p.locs)
	return p.m.Release(gpu.KindProgram, h)
}

func (p *Program) check(op string) error {
	if err := p.m.Guard(op); err != nil {
		return err
	}
	if p.h == 0 || !p.m.Owns(gpu.KindProgram, p.h) {
		return &gpu.ResourceError{Op: op, Handle: p.h, Reason: "program destroyed"}
	}
	return nil
}
