// Command overlay-shot renders each widget kind into an offscreen
// framebuffer and writes the pixels as images.
//
// Usage:
//
//	devbox shell
//	go run ./cmd/overlay-shot/ -out doc/imgs -style mystyle.yaml
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/overlay"
	"github.com/go-theft-auto/overlay/backend/opengl"
	"github.com/go-theft-auto/overlay/gpu"
	"github.com/go-theft-auto/overlay/graph"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	out := flag.String("out", filepath.Join("doc", "imgs"), "output directory")
	stylePath := flag.String("style", "", "YAML style file")
	format := flag.String("format", "jpg", "image format: jpg or png")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	overlay.SetVerbose(*verbose)
	if err := run(*out, *stylePath, *format); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot is one image to capture.
type screenshot struct {
	name          string
	width, height int
	draw          func(ctx *overlay.Context)
}

func run(outDir, stylePath, format string) error {
	if format != "jpg" && format != "png" {
		return fmt.Errorf("unknown format %q", format)
	}
	style := overlay.DefaultStyle()
	if stylePath != "" {
		data, err := os.ReadFile(stylePath)
		if err != nil {
			return err
		}
		if style, err = overlay.ParseStyle(data); err != nil {
			return fmt.Errorf("style %s: %w", stylePath, err)
		}
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(64, 64, "overlay-shot", nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	series, err := graph.NewSeries(4096)
	if err != nil {
		return err
	}
	for i := range 4096 {
		t := float64(i) / 100
		if err := series.Push(t, math.Sin(t)*math.Exp(-t/30)); err != nil {
			return err
		}
	}

	dev := opengl.New()
	defer dev.Delete()
	for _, s := range buildScreenshots(series) {
		path := filepath.Join(outDir, s.name+"."+format)
		if err := capture(dev, style, s, path); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		slog.Info("wrote screenshot", "path", path, "width", s.width, "height", s.height)
	}
	return nil
}

// capture renders s with a fresh Context so no widget state leaks between
// images. Two frames are drawn so glyphs rasterized in the first are
// uploaded before the second.
func capture(dev gpu.Device, style overlay.Style, s screenshot, path string) error {
	ctx, err := overlay.NewContext(dev, overlay.WithStyle(style), overlay.WithPreserveState(false))
	if err != nil {
		return err
	}
	defer ctx.Destroy()
	if _, err := ctx.LoadFont(goregular.TTF); err != nil {
		return err
	}

	color, err := ctx.Manager().CreateTexture(s.width, s.height, gpu.FormatRGBA8, nil)
	if err != nil {
		return err
	}
	fb, err := ctx.Manager().CreateFramebuffer(color)
	if err != nil {
		return err
	}
	ctx.SetTarget(fb)

	vp := overlay.Viewport{Width: s.width, Height: s.height}
	for range 2 {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb.Handle()))
		gl.Viewport(0, 0, int32(s.width), int32(s.height))
		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

		if err := ctx.BeginFrame(vp, nil); err != nil {
			return err
		}
		ctx.SetCursorPos(12, 12)
		s.draw(ctx)
		if err := ctx.EndFrame(); err != nil {
			return err
		}
	}

	pixels := make([]byte, s.width*s.height*4)
	if err := fb.ReadPixels(pixels); err != nil {
		return err
	}
	// Rows arrive bottom first.
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	rowLen := s.width * 4
	for y := range s.height {
		src := (s.height - 1 - y) * rowLen
		copy(img.Pix[y*rowLen:(y+1)*rowLen], pixels[src:src+rowLen])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if filepath.Ext(path) == ".png" {
		return png.Encode(f, img)
	}
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

func buildScreenshots(series *graph.Series) []screenshot {
	var (
		on       = true
		off      = false
		gain     = float32(0.65)
		steps    = 7
		name     = "Hello, world!"
		mode     = 1
		progress = float32(42)
	)
	modes := []string{"Line", "Min/Max", "Raw"}

	return []screenshot{
		{
			name: "label", width: 300, height: 80,
			draw: func(ctx *overlay.Context) {
				ctx.VStack(overlay.Gap(6))(func() {
					ctx.Label("Plain label")
					ctx.Label("Colored label", overlay.WithColor(overlay.ColorYellow))
					ctx.Label("Disabled label", overlay.WithEnabled(func() bool { return false }))
				})
			},
		},
		{
			name: "button", width: 300, height: 80,
			draw: func(ctx *overlay.Context) {
				ctx.HStack(overlay.Gap(8))(func() {
					ctx.Button("Apply")
					ctx.Button("Disabled", overlay.WithEnabled(func() bool { return false }))
				})
			},
		},
		{
			name: "toggles", width: 300, height: 120,
			draw: func(ctx *overlay.Context) {
				ctx.VStack(overlay.Gap(6))(func() {
					ctx.Switch("Switch on", overlay.Ptr(&on))
					ctx.Switch("Switch off", overlay.Ptr(&off))
					ctx.Checkbox("Checked", overlay.Ptr(&on))
					ctx.Checkbox("Unchecked", overlay.Ptr(&off))
				})
			},
		},
		{
			name: "slider", width: 320, height: 80,
			draw: func(ctx *overlay.Context) {
				ctx.VStack(overlay.Gap(6))(func() {
					ctx.Slider("Gain", overlay.Ptr(&gain))
					ctx.SliderInt("Steps", overlay.Ptr(&steps), overlay.WithRange(0, 10))
				})
			},
		},
		{
			name: "textbox", width: 320, height: 50,
			draw: func(ctx *overlay.Context) {
				ctx.TextBox("Name", overlay.Ptr(&name))
			},
		},
		{
			name: "selector", width: 320, height: 160,
			draw: func(ctx *overlay.Context) {
				ctx.VStack(overlay.Gap(6))(func() {
					ctx.Selector("Cycle", overlay.Ptr(&mode), modes)
					ctx.Combo("Mode", overlay.Ptr(&mode), modes)
				})
			},
		},
		{
			name: "progress", width: 320, height: 50,
			draw: func(ctx *overlay.Context) {
				ctx.ProgressBar(overlay.Ptr(&progress), overlay.WithRange(0, 100))
			},
		},
		{
			name: "graph", width: 420, height: 200,
			draw: func(ctx *overlay.Context) {
				ctx.Graph(series, overlay.Rect{X: 12, Y: 12, W: 396, H: 176}, graph.Auto())
			},
		},
	}
}
