package overlay_test

import (
	"bytes"
	"log/slog"
	"runtime"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-theft-auto/overlay"
	"github.com/go-theft-auto/overlay/gpu"
	"github.com/go-theft-auto/overlay/gpu/gputest"
	"github.com/go-theft-auto/overlay/shader"
)

var testViewport = overlay.Viewport{Width: 800, Height: 600}

// newContext builds a Context on an in-memory device. The test goroutine is
// locked to its thread for the Context's lifetime.
func newContext(t *testing.T, opts ...overlay.ContextOption) (*overlay.Context, *gputest.Device) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
	dev := gputest.New()
	ctx, err := overlay.NewContext(dev, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Destroy() })
	dev.Reset()
	return ctx, dev
}

// frame runs one frame with in, then clears in's edge events the way a
// host does after EndFrame.
func frame(t *testing.T, ctx *overlay.Context, in *overlay.InputState, draw func()) error {
	t.Helper()
	require.NoError(t, ctx.BeginFrame(testViewport, in))
	draw()
	err := ctx.EndFrame()
	if in != nil {
		in.Reset()
	}
	return err
}

func TestEmptyFrameIssuesNoGPUCalls(t *testing.T) {
	ctx, dev := newContext(t)

	require.NoError(t, frame(t, ctx, nil, func() {}))
	assert.Zero(t, dev.DrawCalls())
	assert.Zero(t, dev.Passes)
	assert.Zero(t, dev.Uploads)
	assert.Empty(t, dev.Updates)
}

func TestFrameMergesUntexturedCommands(t *testing.T) {
	ctx, dev := newContext(t)
	v := float32(0.5)

	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.Button("A")
		ctx.Slider("##s", overlay.Ptr(&v))
		ctx.Separator()
	}))

	stats := ctx.FlushStats()
	assert.Greater(t, stats.Commands, 3)
	assert.Equal(t, 1, stats.Batches)
	assert.Equal(t, 1, dev.DrawCalls())
	assert.Equal(t, 1, dev.Passes)
	assert.Equal(t, 2, dev.Uploads, "one vertex and one index upload")
	assert.Equal(t, stats.Indices, dev.Draws[0].Count)
	assert.Equal(t, [4]int32{0, 0, 800, 600}, dev.Draws[0].Scissor)

	prog := dev.LastPass.Program
	assert.Equal(t, [16]float32(mgl32.Ortho2D(0, 800, 600, 0)), dev.Uniform(prog, "projection"))
	assert.Equal(t, int32(0), dev.Uniform(prog, "useTexture"))
	assert.True(t, dev.LastPass.PreserveState)
}

func TestClipRectBecomesFlippedScissor(t *testing.T) {
	ctx, dev := newContext(t)

	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.DrawList.AddRect(0, 0, 100, 100, overlay.ColorRed)
		ctx.DrawList.PushClipRect(overlay.Rect{X: 10, Y: 20, W: 30, H: 40})
		ctx.DrawList.AddRect(0, 0, 100, 100, overlay.ColorGreen)
		ctx.DrawList.PopClipRect()
	}))

	require.Equal(t, 2, dev.DrawCalls())
	assert.Equal(t, [4]int32{0, 0, 800, 600}, dev.Draws[0].Scissor)
	assert.Equal(t, [4]int32{10, 540, 30, 40}, dev.Draws[1].Scissor)
	assert.Equal(t, 6, dev.Draws[1].Offset)
}

func TestOffscreenCommandsAreCulled(t *testing.T) {
	ctx, dev := newContext(t)

	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.DrawList.AddRect(900, 700, 50, 50, overlay.ColorRed)
		ctx.DrawList.PushClipRect(overlay.Rect{X: 0, Y: 0, W: 10, H: 10})
		ctx.DrawList.AddRect(100, 100, 50, 50, overlay.ColorRed)
		ctx.DrawList.PopClipRect()
	}))

	assert.Equal(t, 2, ctx.FlushStats().Culled)
	assert.Zero(t, dev.DrawCalls())
	assert.Zero(t, dev.Passes)
}

func TestLayersDrawInOrder(t *testing.T) {
	ctx, dev := newContext(t)

	require.NoError(t, frame(t, ctx, nil, func() {
		old := ctx.DrawList.SetLayer(overlay.LayerOverlay)
		ctx.DrawList.AddRect(0, 0, 10, 10, overlay.ColorRed)
		ctx.DrawList.SetLayer(overlay.LayerGraph)
		ctx.DrawList.AddRect(0, 0, 10, 10, overlay.ColorGreen)
		ctx.DrawList.SetLayer(old)
		ctx.DrawList.PushClipRect(overlay.Rect{W: 10, H: 10})
		ctx.DrawList.AddRect(0, 0, 10, 10, overlay.ColorBlue)
		ctx.DrawList.PopClipRect()
	}))

	// Graph, widget (own clip), overlay: three batches, graph indices first.
	require.Equal(t, 3, dev.DrawCalls())
	assert.Equal(t, 0, dev.Draws[0].Offset)
	assert.Equal(t, 6, dev.Draws[1].Offset)
	assert.Equal(t, 12, dev.Draws[2].Offset)
	assert.Equal(t, [4]int32{0, 590, 10, 10}, dev.Draws[1].Scissor)
}

func TestAtlasUploadsDirtyRegionOnly(t *testing.T) {
	ctx, dev := newContext(t)
	_, err := ctx.LoadFont(goregular.TTF)
	require.NoError(t, err)

	require.NoError(t, ctx.BeginFrame(testViewport, nil))
	ctx.Label("Hello")
	dirty := ctx.Text().Atlas().Dirty()
	require.False(t, dirty.Empty())
	require.NoError(t, ctx.EndFrame())

	require.Len(t, dev.Updates, 1)
	up := dev.Updates[0]
	assert.Equal(t, ctx.AtlasTexture().Handle(), up.Texture)
	assert.Equal(t, gpu.Region{X: dirty.Min.X, Y: dirty.Min.Y, W: dirty.Dx(), H: dirty.Dy()}, up.Region)
	assert.Equal(t, dirty.Dx()*dirty.Dy(), up.Bytes)

	require.NotZero(t, dev.DrawCalls())
	assert.Equal(t, ctx.AtlasTexture().Handle(), dev.Draws[dev.DrawCalls()-1].Texture)

	// Cached glyphs need no upload.
	dev.Reset()
	require.NoError(t, frame(t, ctx, nil, func() { ctx.Label("Hello") }))
	assert.Empty(t, dev.Updates)
	assert.NotZero(t, dev.DrawCalls())
}

func TestFailedAtlasUploadIsRetried(t *testing.T) {
	ctx, dev := newContext(t)
	_, err := ctx.LoadFont(goregular.TTF)
	require.NoError(t, err)

	require.NoError(t, ctx.BeginFrame(testViewport, nil))
	ctx.Label("Hello")
	dirty := ctx.Text().Atlas().Dirty()
	require.False(t, dirty.Empty())

	// Ending the frame off the owning thread fails every GPU call.
	errc := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		errc <- ctx.EndFrame()
	}()
	var werr *gpu.WrongThreadError
	require.ErrorAs(t, <-errc, &werr)
	assert.Empty(t, dev.Updates)
	assert.Equal(t, dirty, ctx.Text().Atlas().Dirty())

	require.NoError(t, frame(t, ctx, nil, func() { ctx.Label("Hello") }))
	require.Len(t, dev.Updates, 1)
	assert.Equal(t, gpu.Region{X: dirty.Min.X, Y: dirty.Min.Y, W: dirty.Dx(), H: dirty.Dy()}, dev.Updates[0].Region)
	assert.True(t, ctx.Text().Atlas().Dirty().Empty())
}

func TestTextDrawsAfterShapesInLayer(t *testing.T) {
	ctx, dev := newContext(t)
	_, err := ctx.LoadFont(goregular.TTF)
	require.NoError(t, err)

	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.Button("One")
		ctx.Button("Two")
	}))

	// Both button bodies merge, then both captions.
	require.Equal(t, 2, dev.DrawCalls())
	assert.Equal(t, gpu.Handle(0), dev.Draws[0].Texture)
	assert.Equal(t, ctx.AtlasTexture().Handle(), dev.Draws[1].Texture)
}

func TestDrawFailureClearsList(t *testing.T) {
	ctx, dev := newContext(t)
	dev.FailDraw = true

	require.NoError(t, ctx.BeginFrame(testViewport, nil))
	ctx.Button("A")
	require.NotZero(t, ctx.DrawList.Len())
	err := ctx.EndFrame()
	require.ErrorIs(t, err, gputest.ErrInjected)
	assert.Zero(t, ctx.DrawList.Len())
	assert.False(t, dev.InPass)

	dev.FailDraw = false
	require.NoError(t, frame(t, ctx, nil, func() { ctx.Button("A") }))
}

func TestPassFailureClearsList(t *testing.T) {
	ctx, dev := newContext(t)
	dev.FailPass = true

	require.NoError(t, ctx.BeginFrame(testViewport, nil))
	ctx.Button("A")
	require.ErrorIs(t, ctx.EndFrame(), gputest.ErrInjected)
	assert.Zero(t, ctx.DrawList.Len())
	assert.Zero(t, dev.DrawCalls())
}

func TestFrameOrdering(t *testing.T) {
	ctx, _ := newContext(t)

	require.Error(t, ctx.EndFrame())
	require.NoError(t, ctx.BeginFrame(testViewport, nil))
	require.Error(t, ctx.BeginFrame(testViewport, nil))
	require.NoError(t, ctx.EndFrame())
	assert.Equal(t, uint64(1), ctx.Frame())
}

func TestDestroyReleasesEverything(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dev := gputest.New()
	ctx, err := overlay.NewContext(dev)
	require.NoError(t, err)
	require.NotZero(t, dev.Live())

	require.NoError(t, ctx.Destroy())
	assert.Zero(t, dev.Live())

	var rerr *gpu.ResourceError
	require.ErrorAs(t, ctx.Destroy(), &rerr)
	require.ErrorAs(t, ctx.BeginFrame(testViewport, nil), &rerr)
}

func TestDestroyReleasesOwnHandlesFirst(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx, dev := newContext(t, overlay.WithLogger(logger))

	tex, err := ctx.Manager().CreateTexture(8, 8, gpu.FormatRGBA8, nil)
	require.NoError(t, err)
	_, err = ctx.Manager().CreateFramebuffer(tex)
	require.NoError(t, err)

	require.NoError(t, ctx.Destroy())
	assert.Zero(t, dev.Live())
	// Only the host's texture and framebuffer are left for the Manager.
	assert.Contains(t, logs.String(), "released=2")
}

func TestDestroyFromOtherThread(t *testing.T) {
	ctx, dev := newContext(t)
	live := dev.Live()

	errc := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		errc <- ctx.Destroy()
	}()
	var werr *gpu.WrongThreadError
	require.ErrorAs(t, <-errc, &werr)
	assert.Equal(t, live, dev.Live(), "nothing released off-thread")
}

func TestRendererDestroy(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dev := gputest.New()
	m := gpu.NewManager(dev, nil)
	t.Cleanup(func() { _ = m.Close() })
	r, err := overlay.NewRenderer(m, nil, true, nil)
	require.NoError(t, err)
	require.Equal(t, 2, m.Live())

	require.NoError(t, r.Destroy())
	assert.Zero(t, m.Live())
	var rerr *gpu.ResourceError
	require.ErrorAs(t, r.Destroy(), &rerr)
}

func TestShaderFailureAbortsContext(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dev := gputest.New()
	dev.FailCompile = gpu.FragmentStage
	_, err := overlay.NewContext(dev)

	var cerr *shader.CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, gpu.FragmentStage, cerr.Stage)
	assert.Contains(t, cerr.Log, "injected")
	assert.Zero(t, dev.Live())
}

func TestUnknownGLVersion(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	dev := gputest.New()
	_, err := overlay.NewContext(dev, overlay.WithGLVersion("1.0"))
	require.Error(t, err)
	assert.Zero(t, dev.Live())
}

func TestWrongThread(t *testing.T) {
	ctx, _ := newContext(t)

	errc := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		errc <- ctx.BeginFrame(testViewport, nil)
	}()
	var werr *gpu.WrongThreadError
	require.ErrorAs(t, <-errc, &werr)
}

func TestRenderTarget(t *testing.T) {
	ctx, dev := newContext(t, overlay.WithPreserveState(false))

	tex, err := ctx.Manager().CreateTexture(64, 32, gpu.FormatRGBA8, nil)
	require.NoError(t, err)
	fb, err := ctx.Manager().CreateFramebuffer(tex)
	require.NoError(t, err)
	ctx.SetTarget(fb)

	require.NoError(t, frame(t, ctx, nil, func() {
		ctx.DrawList.AddRect(0, 0, 10, 10, overlay.ColorWhite)
	}))
	assert.Equal(t, fb.Handle(), dev.LastPass.Framebuffer)
	assert.False(t, dev.LastPass.PreserveState)

	px := make([]byte, 64*32*4)
	require.NoError(t, fb.ReadPixels(px))
}
