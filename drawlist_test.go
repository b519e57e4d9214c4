package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/overlay"
)

func TestDrawListPrimitives(t *testing.T) {
	dl := overlay.AcquireDrawList()
	defer overlay.ReleaseDrawList(dl)

	dl.AddRect(0, 0, 10, 10, overlay.ColorRed)
	dl.AddRectOutline(0, 0, 10, 10, overlay.ColorRed, 1)
	dl.AddRectRounded(0, 0, 40, 20, 4, overlay.ColorRed)
	dl.AddPolyline([]overlay.Vec2{{X: 0, Y: 0}, {X: 10, Y: 5}, {X: 20, Y: 0}}, overlay.ColorRed, 2)
	dl.AddTriangle(overlay.Vec2{}, overlay.Vec2{X: 5}, overlay.Vec2{Y: 5}, overlay.ColorRed)

	require.Equal(t, 5, dl.Len())
	counts := make([]uint32, 0, dl.Len())
	for _, c := range dl.Cmds {
		counts = append(counts, c.IdxCount)
		assert.Equal(t, overlay.LayerWidget, c.Layer)
	}
	// Rounded: 20 outline points fanned into 18 triangles.
	assert.Equal(t, []uint32{6, 24, 54, 12, 3}, counts)
	assert.Equal(t, overlay.CmdPolyline, dl.Cmds[3].Kind)
	assert.Equal(t, overlay.Rect{X: -1, Y: -1, W: 22, H: 7}, dl.Cmds[3].Bounds)

	// Offsets are contiguous.
	var off uint32
	for _, c := range dl.Cmds {
		assert.Equal(t, off, c.IdxOffset)
		off += c.IdxCount
	}
	assert.Len(t, dl.Idx, int(off))
}

func TestDrawListSkipsEmpty(t *testing.T) {
	dl := overlay.AcquireDrawList()
	defer overlay.ReleaseDrawList(dl)

	dl.AddRect(0, 0, 10, 10, overlay.ColorTransparent)
	dl.AddRect(0, 0, 0, 10, overlay.ColorRed)
	dl.AddPolyline([]overlay.Vec2{{X: 1, Y: 1}}, overlay.ColorRed, 1)
	dl.AddPolygon([]overlay.Vec2{{}, {X: 1}}, overlay.ColorRed)
	dl.AddGlyphs(nil, 1, overlay.ColorWhite)
	assert.Zero(t, dl.Len())
	assert.Empty(t, dl.Vtx)
}

func TestDrawListClipStack(t *testing.T) {
	dl := overlay.AcquireDrawList()
	defer overlay.ReleaseDrawList(dl)

	outer := dl.ClipRect()
	dl.PushClipRect(overlay.Rect{X: 10, Y: 20, W: 30, H: 40})
	dl.PushClipRect(overlay.Rect{W: 20, H: 30})
	assert.Equal(t, overlay.Rect{X: 10, Y: 20, W: 10, H: 10}, dl.ClipRect())
	dl.AddRect(0, 0, 100, 100, overlay.ColorRed)
	dl.PopClipRect()
	assert.Equal(t, overlay.Rect{X: 10, Y: 20, W: 30, H: 40}, dl.ClipRect())
	dl.PopClipRect()
	dl.PopClipRect() // extra pops are ignored
	assert.Equal(t, outer, dl.ClipRect())

	require.Equal(t, 1, dl.Len())
	assert.Equal(t, overlay.Rect{X: 10, Y: 20, W: 10, H: 10}, dl.Cmds[0].Clip)
}

func TestDrawListClearKeepsCapacity(t *testing.T) {
	dl := overlay.AcquireDrawList()
	defer overlay.ReleaseDrawList(dl)

	dl.SetLayer(overlay.LayerOverlay)
	dl.PushClipRect(overlay.Rect{W: 1, H: 1})
	for range 100 {
		dl.AddRect(0, 0, 1, 1, overlay.ColorRed)
	}
	capVtx := cap(dl.Vtx)
	dl.Clear()

	assert.Zero(t, dl.Len())
	assert.Empty(t, dl.Idx)
	assert.Equal(t, capVtx, cap(dl.Vtx))
	dl.AddRect(0, 0, 1, 1, overlay.ColorRed)
	assert.Equal(t, overlay.LayerWidget, dl.Cmds[0].Layer)
	assert.Greater(t, dl.Cmds[0].Clip.W, float32(1e6))
}
