package gpu_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/overlay/gpu"
	"github.com/go-theft-auto/overlay/gpu/gputest"
)

func newManager(t *testing.T) (*gpu.Manager, *gputest.Device) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
	dev := gputest.New()
	return gpu.NewManager(dev, nil), dev
}

func TestTextureDoubleDestroy(t *testing.T) {
	m, dev := newManager(t)

	tex, err := m.CreateTexture(4, 4, gpu.FormatR8, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, dev.Live())

	require.NoError(t, tex.Destroy())
	assert.Equal(t, 0, dev.Live())
	assert.Equal(t, gpu.Handle(0), tex.Handle())

	var rerr *gpu.ResourceError
	require.ErrorAs(t, tex.Destroy(), &rerr)

	// Use after destroy.
	require.ErrorAs(t, tex.Update(gpu.Region{W: 1, H: 1}, []byte{1}), &rerr)
}

func TestTextureUpdateBounds(t *testing.T) {
	m, dev := newManager(t)

	tex, err := m.CreateTexture(8, 4, gpu.FormatR8, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		r    gpu.Region
	}{
		{"right edge", gpu.Region{X: 7, Y: 0, W: 2, H: 1}},
		{"bottom edge", gpu.Region{X: 0, Y: 3, W: 1, H: 2}},
		{"negative", gpu.Region{X: -1, Y: 0, W: 1, H: 1}},
	}
	// Subtests would run on another goroutine, off the owning thread.
	for _, tt := range tests {
		err := tex.Update(tt.r, make([]byte, max(tt.r.W*tt.r.H, 0)))
		var oob *gpu.OutOfBoundsError
		require.ErrorAs(t, err, &oob, tt.name)
		assert.Equal(t, tt.r, oob.Region, tt.name)
	}

	require.NoError(t, tex.Update(gpu.Region{X: 6, Y: 2, W: 2, H: 2}, []byte{1, 2, 3, 4}))
	require.Len(t, dev.Updates, 1)
	px := dev.Textures[tex.Handle()].Pixels
	assert.Equal(t, byte(1), px[2*8+6])
	assert.Equal(t, byte(4), px[3*8+7])

	err = tex.Update(gpu.Region{W: 2, H: 2}, []byte{1})
	assert.True(t, errors.Is(err, gpu.ErrPixelData))

	// Empty regions are a no-op.
	require.NoError(t, tex.Update(gpu.Region{X: 1, Y: 1}, nil))
	assert.Len(t, dev.Updates, 1)
}

func TestBufferUpload(t *testing.T) {
	m, dev := newManager(t)

	buf, err := m.CreateBuffer(gpu.VertexBuffer, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, buf.Size())
	assert.Equal(t, 1, dev.Uploads)

	require.NoError(t, buf.Upload(make([]byte, 64), gpu.StreamDraw))
	assert.Equal(t, 64, buf.Size())
	assert.Len(t, dev.Buffers[buf.Handle()], 64)

	require.NoError(t, buf.Destroy())
	var rerr *gpu.ResourceError
	require.ErrorAs(t, buf.Upload([]byte{1}, gpu.StreamDraw), &rerr)
	require.ErrorAs(t, buf.Destroy(), &rerr)
}

func TestFramebufferReadPixels(t *testing.T) {
	m, _ := newManager(t)

	pixels := make([]byte, 2*2*4)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	tex, err := m.CreateTexture(2, 2, gpu.FormatRGBA8, pixels)
	require.NoError(t, err)
	fb, err := m.CreateFramebuffer(tex)
	require.NoError(t, err)

	dst := make([]byte, len(pixels))
	require.NoError(t, fb.ReadPixels(dst))
	assert.Equal(t, pixels, dst)

	assert.ErrorIs(t, fb.ReadPixels(dst[:3]), gpu.ErrPixelData)

	require.NoError(t, fb.Destroy())
	assert.NotZero(t, tex.Handle(), "attachment survives framebuffer")
}

func TestManagerCloseReleasesAll(t *testing.T) {
	m, dev := newManager(t)

	tex, err := m.CreateTexture(2, 2, gpu.FormatRGBA8, nil)
	require.NoError(t, err)
	_, err = m.CreateFramebuffer(tex)
	require.NoError(t, err)
	_, err = m.CreateBuffer(gpu.IndexBuffer, nil)
	require.NoError(t, err)
	require.Equal(t, 3, m.Live())

	require.NoError(t, m.Close())
	assert.Equal(t, 0, dev.Live())
	assert.Equal(t, 0, m.Live())

	var rerr *gpu.ResourceError
	require.ErrorAs(t, tex.Destroy(), &rerr)
	_, err = m.CreateBuffer(gpu.VertexBuffer, nil)
	require.ErrorAs(t, err, &rerr)
	require.ErrorAs(t, m.Close(), &rerr)
}

func TestManagerWrongThread(t *testing.T) {
	m, _ := newManager(t)

	done := make(chan error)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		_, err := m.CreateTexture(1, 1, gpu.FormatR8, nil)
		done <- err
	}()

	var werr *gpu.WrongThreadError
	require.ErrorAs(t, <-done, &werr)
	assert.NotEqual(t, werr.Owner, werr.Caller)
	assert.Equal(t, 0, m.Live())
}

func TestRegionUnion(t *testing.T) {
	a := gpu.Region{X: 1, Y: 1, W: 2, H: 2}
	b := gpu.Region{X: 4, Y: 0, W: 1, H: 1}
	assert.Equal(t, gpu.Region{X: 1, Y: 0, W: 4, H: 3}, a.Union(b))
	assert.Equal(t, b, gpu.Region{}.Union(b))
	assert.Equal(t, a, a.Union(gpu.Region{}))
}
