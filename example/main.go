// Example opens a window with a small control panel bound to local
// variables and a live graph fed from a background goroutine.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/overlay"
	"github.com/go-theft-auto/overlay/backend/opengl"
	"github.com/go-theft-auto/overlay/graph"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "overlay example"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// produce pushes a noisy sine into s until ctx is done.
func produce(ctx context.Context, s *graph.Series, freq *atomic.Uint64) {
	start := time.Now()
	tick := time.NewTicker(2 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			t := now.Sub(start).Seconds()
			f := math.Float64frombits(freq.Load())
			v := math.Sin(2*math.Pi*f*t) + 0.1*math.Sin(97*t)
			if err := s.Push(t, v); err != nil {
				return
			}
		}
	}
}

func run() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	input := opengl.NewGLFWInputAdapter(window)

	dev := opengl.New()
	defer dev.Delete()
	ui, err := overlay.NewContext(dev, overlay.WithGLVersion("4.1"), overlay.WithClipboard(input))
	if err != nil {
		return fmt.Errorf("overlay context: %w", err)
	}
	defer ui.Destroy()

	if _, err := ui.LoadFont(goregular.TTF); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	series, err := graph.NewSeries(20000)
	if err != nil {
		return err
	}
	defer series.Close()

	var freq atomic.Uint64
	freq.Store(math.Float64bits(1))
	bg, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go produce(bg, series, &freq)

	clicks, period, mode := 0, 1, 0
	gain, progress := float32(0.5), float32(0)
	paused, grid, auto := false, true, true
	name := "probe"
	modes := []string{"Line", "Min/Max", "Raw"}
	last := time.Now()

	for !window.ShouldClose() && bg.Err() == nil {
		glfw.PollEvents()
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		input.Update(dt)

		vp := input.Viewport()
		gl.Viewport(0, 0, int32(vp.Width), int32(vp.Height))
		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		if err := ui.BeginFrame(vp, input.Input()); err != nil {
			return err
		}

		ui.SetCursorPos(16, 16)
		ui.VStack(overlay.Gap(6), overlay.Width(360))(func() {
			ui.Label(fmt.Sprintf("%d samples, %.0f fps", series.Len(), 1/max(dt, 1e-3)))
			if ui.Button(fmt.Sprintf("Clicked %d##clicks", clicks)) {
				clicks++
			}
			ui.Slider("Gain", overlay.Ptr(&gain), overlay.WithRange(0, 2), overlay.WithStep(0.05))
			if ui.SliderInt("Freq", overlay.Ptr(&period), overlay.WithRange(1, 10)) {
				freq.Store(math.Float64bits(float64(period)))
			}
			ui.Switch("Paused", overlay.Ptr(&paused))
			ui.Checkbox("Grid", overlay.Ptr(&grid))
			ui.Checkbox("Auto range", overlay.Ptr(&auto))
			ui.TextBox("Name", overlay.Ptr(&name))
			ui.Combo("Mode", overlay.Ptr(&mode), modes)
			ui.Selector("##mode", overlay.Ptr(&mode), modes)
			if !paused {
				progress = float32(math.Mod(float64(progress)+float64(dt)*20, 100))
			}
			ui.ProgressBar(overlay.Ptr(&progress), overlay.WithRange(0, 100))
		})

		yr := graph.Fixed(-float64(gain)-0.2, float64(gain)+0.2)
		if auto {
			yr = graph.Auto()
		}
		lines := 4
		if !grid {
			lines = 0
		}
		r := overlay.Rect{X: 400, Y: 16, W: float32(vp.Width) - 416, H: 240}
		ui.Graph(series, r, yr, overlay.WithGridLines(lines))

		if err := ui.EndFrame(); err != nil {
			return fmt.Errorf("overlay render: %w", err)
		}
		input.Reset()

		window.SwapBuffers()
	}

	return nil
}
